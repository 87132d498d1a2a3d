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

// Package ingest keeps the search index synchronized with domain records.
//
// An Indexer subscribes to an EventSource and applies each change event
// to the index as it arrives: created and updated events are tokenized
// and indexed, deleted events unindex the record. Handling is synchronous
// on the delivery goroutine, so events for a given record ID take effect
// in publication order.
package ingest
