package core

import (
	"testing"
)

func TestIDFromContent(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"plain content", "test content"},
		{"empty string", ""},
		{"long content", "This is a much longer piece of content that should still hash consistently"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id1 := IDFromContent(tt.content)
			id2 := IDFromContent(tt.content)

			if id1 != id2 {
				t.Errorf("IDFromContent() produced different IDs for same content: %s vs %s", id1, id2)
			}
			if len(id1) != 16 {
				t.Errorf("IDFromContent() = %q, want 16 hex characters", id1)
			}
		})
	}
}

func TestIDFromContent_Different(t *testing.T) {
	id1 := IDFromContent("content1")
	id2 := IDFromContent("content2")

	if id1 == id2 {
		t.Errorf("IDFromContent() produced same ID for different content")
	}
}

func TestPosting_AddRemove(t *testing.T) {
	p := NewPosting("alpha")

	if !p.Add("n1") {
		t.Error("Add() returned false for a new ID")
	}
	if p.Add("n1") {
		t.Error("Add() returned true for a duplicate ID")
	}
	if !p.Add("n2") {
		t.Error("Add() returned false for a second ID")
	}
	if p.Frequency != 2 {
		t.Errorf("Frequency = %d, want 2", p.Frequency)
	}
	if !p.Contains("n1") || !p.Contains("n2") {
		t.Error("Contains() missing an added ID")
	}

	if !p.Remove("n1") {
		t.Error("Remove() returned false for a present ID")
	}
	if p.Remove("n1") {
		t.Error("Remove() returned true for an absent ID")
	}
	if p.Frequency != 1 {
		t.Errorf("Frequency after remove = %d, want 1", p.Frequency)
	}
	if p.Contains("n1") {
		t.Error("Contains() reports removed ID")
	}
}

func TestIndexedItem_Time(t *testing.T) {
	item := IndexedItem{TimestampMs: 1700000000000}
	got := item.Time()
	if got.UnixMilli() != 1700000000000 {
		t.Errorf("Time().UnixMilli() = %d, want 1700000000000", got.UnixMilli())
	}
	if got.Location().String() != "UTC" {
		t.Errorf("Time() location = %s, want UTC", got.Location())
	}
}
