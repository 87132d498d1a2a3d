// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package core

import "fmt"

// ValidateItem validates an IndexedItem according to domain rules.
//
// Validation rules:
//   - ID must not be empty
//   - At least one of Title and SearchableText must be non-empty
//   - TimestampMs must not be negative
//   - Source must not be empty
//
// NOT validated:
//   - Metadata (opaque to the engine, may be nil)
func ValidateItem(item *IndexedItem) error {
	if item == nil {
		return fmt.Errorf("%w: item is nil", ErrInvalidItem)
	}

	if item.ID == "" {
		return fmt.Errorf("%w: %w", ErrInvalidItem, ErrEmptyID)
	}

	if item.Title == "" && item.SearchableText == "" {
		return fmt.Errorf("%w: %w", ErrInvalidItem, ErrEmptyText)
	}

	if item.TimestampMs < 0 {
		return fmt.Errorf("%w: %w", ErrInvalidItem, ErrInvalidTimestamp)
	}

	if err := ValidateSourceType(item.Source); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidItem, err)
	}

	return nil
}

// ValidateSourceType validates that a SourceType has a usable value.
// Unknown types are accepted; the engine only requires a non-empty label.
func ValidateSourceType(source SourceType) error {
	if source == "" {
		return ErrEmptySourceType
	}
	return nil
}
