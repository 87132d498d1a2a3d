package storage

import (
	"testing"

	"github.com/poiesic/searchidx/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalUnmarshalItem(t *testing.T) {
	tests := []struct {
		name string
		item *core.IndexedItem
	}{
		{
			name: "minimal item",
			item: &core.IndexedItem{
				ID:             "n1",
				Source:         core.SourceNote,
				SearchableText: "hello",
			},
		},
		{
			name: "full item",
			item: &core.IndexedItem{
				ID:             "t1",
				Source:         core.SourceTask,
				Title:          "Quarterly review",
				SearchableText: "Quarterly review finance deck slides",
				TimestampMs:    1700000000000,
				Metadata:       map[string]string{"project": "finance", "priority": "high"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := MarshalItem(tt.item)
			require.NotEmpty(t, data)

			decoded, err := UnmarshalItem(data)
			require.NoError(t, err)
			assert.Equal(t, tt.item, decoded)
		})
	}
}

func TestMarshalItem_Deterministic(t *testing.T) {
	item := &core.IndexedItem{
		ID:       "n1",
		Source:   core.SourceNote,
		Title:    "Notes",
		Metadata: map[string]string{"b": "2", "a": "1", "c": "3"},
	}

	first := MarshalItem(item)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, MarshalItem(item), "map fields must serialize in sorted key order")
	}
}

func TestMarshalUnmarshalPosting(t *testing.T) {
	posting := core.NewPosting("alpha")
	posting.Add("n1")
	posting.Add("n2")
	posting.Add("t9")

	data := MarshalPosting(posting)
	decoded, err := UnmarshalPosting(data)
	require.NoError(t, err)

	assert.Equal(t, "alpha", decoded.Term)
	assert.Equal(t, 3, decoded.Frequency, "frequency is recovered from the ID list")
	assert.Equal(t, posting.ItemIDs, decoded.ItemIDs)
}

func TestMarshalUnmarshalSnapshot(t *testing.T) {
	posting := core.NewPosting("alpha")
	posting.Add("n1")

	snapshot := &core.Snapshot{
		Items: []core.IndexedItem{
			{ID: "n1", Source: core.SourceNote, SearchableText: "alpha", TimestampMs: 42},
		},
		Postings:  []core.Posting{*posting},
		BuiltAtMs: 1700000000000,
	}

	data := MarshalSnapshot(snapshot)
	decoded, err := UnmarshalSnapshot(data)
	require.NoError(t, err)
	assert.Equal(t, snapshot, decoded)
}

func TestUnmarshal_Truncated(t *testing.T) {
	snapshot := &core.Snapshot{
		Items: []core.IndexedItem{{ID: "n1", Source: core.SourceNote, SearchableText: "alpha"}},
	}
	data := MarshalSnapshot(snapshot)

	_, err := UnmarshalSnapshot(data[:len(data)/2])
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSerializationFailed)

	_, err = UnmarshalItem(nil)
	assert.ErrorIs(t, err, ErrSerializationFailed)
}
