package persist

import (
	"bytes"
	"fmt"

	"github.com/go-crypt/x/blake2b"
	"github.com/klauspost/compress/zstd"
	"github.com/poiesic/searchidx/core"
	"github.com/poiesic/searchidx/storage"
)

// Snapshot frame layout:
//
//	[0:4]   magic "SIDX"
//	[4]     format version
//	[5]     flags (bit 0: zstd-compressed payload)
//	[6:22]  BLAKE2b-128 checksum of the payload bytes that follow
//	[22:]   payload (MUS-encoded core.Snapshot)
//
// The checksum covers the stored payload, so bit rot in the KV store is
// detected before deserialization is attempted.
const (
	frameMagic      = "SIDX"
	frameVersion    = byte(1)
	flagCompressed  = byte(1 << 0)
	checksumLen     = 16
	frameHeaderSize = 4 + 1 + 1 + checksumLen
)

func checksum(payload []byte) ([]byte, error) {
	h, err := blake2b.New(checksumLen, nil)
	if err != nil {
		return nil, err
	}
	h.Write(payload)
	return h.Sum(nil), nil
}

// encodeFrame serializes and compresses a snapshot into a self-describing
// frame ready to be written to the KV store.
func encodeFrame(snapshot *core.Snapshot, encoder *zstd.Encoder) ([]byte, error) {
	payload := storage.MarshalSnapshot(snapshot)
	payload = encoder.EncodeAll(payload, make([]byte, 0, len(payload)/2))

	sum, err := checksum(payload)
	if err != nil {
		return nil, err
	}

	frame := make([]byte, 0, frameHeaderSize+len(payload))
	frame = append(frame, frameMagic...)
	frame = append(frame, frameVersion, flagCompressed)
	frame = append(frame, sum...)
	frame = append(frame, payload...)
	return frame, nil
}

// decodeFrame verifies and deserializes a stored snapshot frame.
func decodeFrame(data []byte, decoder *zstd.Decoder) (*core.Snapshot, error) {
	if len(data) < frameHeaderSize {
		return nil, fmt.Errorf("%w: frame too short (%d bytes)", ErrCorruptSnapshot, len(data))
	}
	if string(data[:4]) != frameMagic {
		return nil, fmt.Errorf("%w: bad magic", ErrCorruptSnapshot)
	}
	if data[4] != frameVersion {
		return nil, fmt.Errorf("%w: version %d", ErrUnsupportedVersion, data[4])
	}
	flags := data[5]

	payload := data[frameHeaderSize:]
	sum, err := checksum(payload)
	if err != nil {
		return nil, err
	}
	if !bytes.Equal(sum, data[6:6+checksumLen]) {
		return nil, ErrChecksumMismatch
	}

	if flags&flagCompressed != 0 {
		payload, err = decoder.DecodeAll(payload, nil)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrCorruptSnapshot, err)
		}
	}

	snapshot, err := storage.UnmarshalSnapshot(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorruptSnapshot, err)
	}
	return snapshot, nil
}
