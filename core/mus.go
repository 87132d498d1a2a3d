package core

import (
	"fmt"
	"sort"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/varint"
)

// MUS serializers for the types that make up a persisted index snapshot.
// They are maintained by hand rather than generated, so the wire layout is
// spelled out here: fields in struct order, maps as sorted key/value pairs,
// posting sets as sorted ID lists. Sorting keeps the encoding deterministic,
// which makes snapshot bytes reproducible for a given index state.
var (
	ItemMUS     = itemMUS{}
	PostingMUS  = postingMUS{}
	SnapshotMUS = snapshotMUS{}
)

// itemMUS serializes IndexedItem.
type itemMUS struct{}

func (itemMUS) Marshal(v IndexedItem, bs []byte) (n int) {
	n = ord.String.Marshal(v.ID, bs)
	n += ord.String.Marshal(string(v.Source), bs[n:])
	n += ord.String.Marshal(v.Title, bs[n:])
	n += ord.String.Marshal(v.SearchableText, bs[n:])
	n += varint.Int64.Marshal(v.TimestampMs, bs[n:])
	n += marshalStringMap(v.Metadata, bs[n:])
	return n
}

func (itemMUS) Unmarshal(bs []byte) (v IndexedItem, n int, err error) {
	var n1 int
	v.ID, n, err = ord.String.Unmarshal(bs)
	if err != nil {
		return
	}
	var source string
	source, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Source = SourceType(source)
	v.Title, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.SearchableText, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.TimestampMs, n1, err = varint.Int64.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Metadata, n1, err = unmarshalStringMap(bs[n:])
	n += n1
	return
}

func (itemMUS) Size(v IndexedItem) (size int) {
	size = ord.String.Size(v.ID)
	size += ord.String.Size(string(v.Source))
	size += ord.String.Size(v.Title)
	size += ord.String.Size(v.SearchableText)
	size += varint.Int64.Size(v.TimestampMs)
	size += sizeStringMap(v.Metadata)
	return size
}

// postingMUS serializes Posting. The ID set is written as a sorted list;
// Frequency is not written, it is recovered from the list length.
type postingMUS struct{}

func (postingMUS) Marshal(v Posting, bs []byte) (n int) {
	n = ord.String.Marshal(v.Term, bs)
	ids := make([]string, 0, len(v.ItemIDs))
	for id := range v.ItemIDs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	n += varint.Int.Marshal(len(ids), bs[n:])
	for _, id := range ids {
		n += ord.String.Marshal(id, bs[n:])
	}
	return n
}

func (postingMUS) Unmarshal(bs []byte) (v Posting, n int, err error) {
	var n1 int
	v.Term, n, err = ord.String.Unmarshal(bs)
	if err != nil {
		return
	}
	var length int
	length, n1, err = varint.Int.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	if length < 0 {
		err = fmt.Errorf("%w: negative posting length %d", ErrMalformedData, length)
		return
	}
	v.ItemIDs = make(map[string]struct{}, length)
	for i := 0; i < length; i++ {
		var id string
		id, n1, err = ord.String.Unmarshal(bs[n:])
		n += n1
		if err != nil {
			return
		}
		v.ItemIDs[id] = struct{}{}
	}
	v.Frequency = len(v.ItemIDs)
	return
}

func (postingMUS) Size(v Posting) (size int) {
	size = ord.String.Size(v.Term)
	size += varint.Int.Size(len(v.ItemIDs))
	for id := range v.ItemIDs {
		size += ord.String.Size(id)
	}
	return size
}

// snapshotMUS serializes Snapshot.
type snapshotMUS struct{}

func (snapshotMUS) Marshal(v Snapshot, bs []byte) (n int) {
	n = varint.Int64.Marshal(v.BuiltAtMs, bs)
	n += varint.Int.Marshal(len(v.Items), bs[n:])
	for i := range v.Items {
		n += ItemMUS.Marshal(v.Items[i], bs[n:])
	}
	n += varint.Int.Marshal(len(v.Postings), bs[n:])
	for i := range v.Postings {
		n += PostingMUS.Marshal(v.Postings[i], bs[n:])
	}
	return n
}

func (snapshotMUS) Unmarshal(bs []byte) (v Snapshot, n int, err error) {
	var n1 int
	v.BuiltAtMs, n, err = varint.Int64.Unmarshal(bs)
	if err != nil {
		return
	}
	var itemCount int
	itemCount, n1, err = varint.Int.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	if itemCount < 0 {
		err = fmt.Errorf("%w: negative item count %d", ErrMalformedData, itemCount)
		return
	}
	v.Items = make([]IndexedItem, itemCount)
	for i := 0; i < itemCount; i++ {
		v.Items[i], n1, err = ItemMUS.Unmarshal(bs[n:])
		n += n1
		if err != nil {
			return
		}
	}
	var postingCount int
	postingCount, n1, err = varint.Int.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	if postingCount < 0 {
		err = fmt.Errorf("%w: negative posting count %d", ErrMalformedData, postingCount)
		return
	}
	v.Postings = make([]Posting, postingCount)
	for i := 0; i < postingCount; i++ {
		v.Postings[i], n1, err = PostingMUS.Unmarshal(bs[n:])
		n += n1
		if err != nil {
			return
		}
	}
	return
}

func (snapshotMUS) Size(v Snapshot) (size int) {
	size = varint.Int64.Size(v.BuiltAtMs)
	size += varint.Int.Size(len(v.Items))
	for i := range v.Items {
		size += ItemMUS.Size(v.Items[i])
	}
	size += varint.Int.Size(len(v.Postings))
	for i := range v.Postings {
		size += PostingMUS.Size(v.Postings[i])
	}
	return size
}

func marshalStringMap(m map[string]string, bs []byte) (n int) {
	n = varint.Int.Marshal(len(m), bs)
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		n += ord.String.Marshal(k, bs[n:])
		n += ord.String.Marshal(m[k], bs[n:])
	}
	return n
}

func unmarshalStringMap(bs []byte) (m map[string]string, n int, err error) {
	var length int
	length, n, err = varint.Int.Unmarshal(bs)
	if err != nil {
		return
	}
	if length < 0 {
		err = fmt.Errorf("%w: negative map length %d", ErrMalformedData, length)
		return
	}
	if length == 0 {
		return nil, n, nil
	}
	m = make(map[string]string, length)
	var n1 int
	for i := 0; i < length; i++ {
		var k, v string
		k, n1, err = ord.String.Unmarshal(bs[n:])
		n += n1
		if err != nil {
			return
		}
		v, n1, err = ord.String.Unmarshal(bs[n:])
		n += n1
		if err != nil {
			return
		}
		m[k] = v
	}
	return
}

func sizeStringMap(m map[string]string) (size int) {
	size = varint.Int.Size(len(m))
	for k, v := range m {
		size += ord.String.Size(k)
		size += ord.String.Size(v)
	}
	return size
}
