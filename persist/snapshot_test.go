package persist

import (
	"testing"

	"github.com/klauspost/compress/zstd"
	"github.com/poiesic/searchidx/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCodec(t *testing.T) (*zstd.Encoder, *zstd.Decoder) {
	t.Helper()
	encoder, err := zstd.NewWriter(nil)
	require.NoError(t, err)
	decoder, err := zstd.NewReader(nil)
	require.NoError(t, err)
	t.Cleanup(func() {
		encoder.Close()
		decoder.Close()
	})
	return encoder, decoder
}

func testSnapshot() *core.Snapshot {
	posting := core.NewPosting("alpha")
	posting.Add("n1")
	return &core.Snapshot{
		Items: []core.IndexedItem{
			{ID: "n1", Source: core.SourceNote, Title: "Notes", SearchableText: "alpha", TimestampMs: 42},
		},
		Postings:  []core.Posting{*posting},
		BuiltAtMs: 1700000000000,
	}
}

func TestFrame_Roundtrip(t *testing.T) {
	encoder, decoder := newCodec(t)

	frame, err := encodeFrame(testSnapshot(), encoder)
	require.NoError(t, err)
	require.Greater(t, len(frame), frameHeaderSize)
	assert.Equal(t, frameMagic, string(frame[:4]))

	decoded, err := decodeFrame(frame, decoder)
	require.NoError(t, err)
	assert.Equal(t, testSnapshot(), decoded)
}

func TestDecodeFrame_Corruption(t *testing.T) {
	encoder, decoder := newCodec(t)

	frame, err := encodeFrame(testSnapshot(), encoder)
	require.NoError(t, err)

	t.Run("too short", func(t *testing.T) {
		_, err := decodeFrame(frame[:frameHeaderSize-1], decoder)
		assert.ErrorIs(t, err, ErrCorruptSnapshot)
	})

	t.Run("bad magic", func(t *testing.T) {
		bad := append([]byte(nil), frame...)
		bad[0] = 'X'
		_, err := decodeFrame(bad, decoder)
		assert.ErrorIs(t, err, ErrCorruptSnapshot)
	})

	t.Run("unknown version", func(t *testing.T) {
		bad := append([]byte(nil), frame...)
		bad[4] = 99
		_, err := decodeFrame(bad, decoder)
		assert.ErrorIs(t, err, ErrUnsupportedVersion)
	})

	t.Run("flipped payload byte", func(t *testing.T) {
		bad := append([]byte(nil), frame...)
		bad[len(bad)-1] ^= 0xFF
		_, err := decodeFrame(bad, decoder)
		assert.ErrorIs(t, err, ErrChecksumMismatch)
	})

	t.Run("truncated payload", func(t *testing.T) {
		_, err := decodeFrame(frame[:len(frame)-4], decoder)
		assert.ErrorIs(t, err, ErrChecksumMismatch)
	})
}
