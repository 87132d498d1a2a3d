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


// Package persist writes the index to a durable key-value store and
// restores it at startup.
//
// Writes are debounced: each mutation reschedules a flush after a quiet
// period, coalescing bursts into a single write. Flushes run on a
// single-worker pool, off the mutation and query paths. A failed write
// keeps the in-memory state dirty and is retried with bounded exponential
// backoff, then again on the next mutation; it never surfaces to the
// caller that triggered it.
//
// Snapshots are stored as self-describing frames: a magic/version header,
// a BLAKE2b checksum, and a zstd-compressed MUS payload. A missing or
// corrupt frame degrades to an empty index at startup instead of failing
// initialization.
package persist
