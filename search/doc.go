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


// Package search implements ranked multi-term retrieval over the index.
//
// The Searcher type evaluates queries in stages:
//   - Tokenize the query with the same normalization used for indexing
//   - AND-intersect the per-term posting sets
//   - Filter by source type when requested
//   - Score by title matches, term count, and recency, then rank
//
// A query matches only items containing every query term. Results order
// deterministically: score, then timestamp, then ID.
package search
