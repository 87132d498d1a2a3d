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


// Package index implements the in-memory inverted index.
//
// The Store pairs an item table with a term-to-ID-set structure and keeps
// both consistent under a single writer lock:
//
//   - every ID in a posting set has an item record
//   - every term key is lowercase, long enough, and not a stopword
//   - postings are deleted, never left empty
//   - at most MaxWordsPerItem distinct terms are indexed per item
//
// The Tokenizer is shared between indexing and querying so both sides
// normalize text identically. A serialized-size guard rejects new terms
// once the configured budget is exceeded; nothing already indexed is
// evicted.
package index
