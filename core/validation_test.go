package core

import (
	"errors"
	"testing"
)

func TestValidateItem(t *testing.T) {
	tests := []struct {
		name    string
		item    *IndexedItem
		wantErr error
	}{
		{
			name: "valid item",
			item: &IndexedItem{
				ID:             "n1",
				Source:         SourceNote,
				Title:          "Meeting Notes",
				SearchableText: "Meeting Notes project alpha",
				TimestampMs:    1700000000000,
			},
			wantErr: nil,
		},
		{
			name: "valid item with title only",
			item: &IndexedItem{
				ID:     "n2",
				Source: SourceTask,
				Title:  "Buy groceries",
			},
			wantErr: nil,
		},
		{
			name: "valid item with unknown source type",
			item: &IndexedItem{
				ID:             "n3",
				Source:         SourceType("bookmark"),
				SearchableText: "golang generics proposal",
			},
			wantErr: nil,
		},
		{
			name:    "nil item",
			item:    nil,
			wantErr: ErrInvalidItem,
		},
		{
			name: "empty id",
			item: &IndexedItem{
				Source: SourceNote,
				Title:  "Untitled",
			},
			wantErr: ErrEmptyID,
		},
		{
			name: "no searchable text",
			item: &IndexedItem{
				ID:     "n4",
				Source: SourceNote,
			},
			wantErr: ErrEmptyText,
		},
		{
			name: "negative timestamp",
			item: &IndexedItem{
				ID:          "n5",
				Source:      SourceNote,
				Title:       "Old",
				TimestampMs: -1,
			},
			wantErr: ErrInvalidTimestamp,
		},
		{
			name: "empty source type",
			item: &IndexedItem{
				ID:    "n6",
				Title: "Untyped",
			},
			wantErr: ErrEmptySourceType,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateItem(tt.item)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateItem() = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateItem() = %v, want %v", err, tt.wantErr)
			}
			if !errors.Is(err, ErrInvalidItem) {
				t.Errorf("ValidateItem() = %v, not wrapped in ErrInvalidItem", err)
			}
		})
	}
}

func TestValidateSourceType(t *testing.T) {
	if err := ValidateSourceType(SourceEvent); err != nil {
		t.Errorf("ValidateSourceType(event) = %v, want nil", err)
	}
	if err := ValidateSourceType(""); !errors.Is(err, ErrEmptySourceType) {
		t.Errorf("ValidateSourceType(\"\") = %v, want ErrEmptySourceType", err)
	}
}
