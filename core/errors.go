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

import "errors"

// Domain validation errors
var (
	// ErrInvalidItem indicates an IndexedItem failed validation.
	ErrInvalidItem = errors.New("invalid indexed item")

	// ErrEmptyID indicates the ID field is empty.
	ErrEmptyID = errors.New("item id cannot be empty")

	// ErrEmptyText indicates the item has neither a title nor searchable text.
	ErrEmptyText = errors.New("item has no searchable text")

	// ErrInvalidTimestamp indicates a negative timestamp.
	ErrInvalidTimestamp = errors.New("timestamp cannot be negative")

	// ErrEmptySourceType indicates the SourceType field is empty.
	ErrEmptySourceType = errors.New("source type cannot be empty")

	// ErrMalformedData indicates serialized bytes that cannot be decoded.
	ErrMalformedData = errors.New("malformed data")
)
