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

package ingest

import "errors"

var (
	// ErrEventSourceRequired is returned when an indexer is created
	// without an event source.
	ErrEventSourceRequired = errors.New("event source is required")

	// ErrMutatorRequired is returned when an indexer is created without
	// an index mutator.
	ErrMutatorRequired = errors.New("index mutator is required")

	// ErrAlreadyStarted is returned by Start on a running indexer.
	ErrAlreadyStarted = errors.New("indexer already started")

	// ErrSourceClosed is returned when publishing to a closed ChanSource.
	ErrSourceClosed = errors.New("event source is closed")

	// ErrHandlerRequired is returned by Subscribe when the handler is nil.
	ErrHandlerRequired = errors.New("event handler is required")
)
