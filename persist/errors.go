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


package persist

import "errors"

var (
	// ErrStoreRequired is returned when a snapshot store is not provided.
	ErrStoreRequired = errors.New("snapshot store required")

	// ErrSourceRequired is returned when a snapshot source is not provided.
	ErrSourceRequired = errors.New("snapshot source required")

	// ErrCorruptSnapshot indicates a persisted snapshot that cannot be decoded.
	ErrCorruptSnapshot = errors.New("corrupt snapshot")

	// ErrChecksumMismatch indicates snapshot bytes that fail integrity verification.
	ErrChecksumMismatch = errors.New("snapshot checksum mismatch")

	// ErrUnsupportedVersion indicates a snapshot written by an unknown format version.
	ErrUnsupportedVersion = errors.New("unsupported snapshot version")

	// ErrInvalidMaxAttempts is returned for a retry budget below one attempt.
	ErrInvalidMaxAttempts = errors.New("maxAttempts must be greater than zero")
)
