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


// Package storage defines the durable key-value contract the engine
// persists snapshots through, plus the serialization helpers shared by
// its implementations.
//
// The contract is deliberately narrow: Get, Set, Remove, Close. Anything
// that can store bytes under a key can back the index. The stock
// implementation lives in the badger subpackage, tests may use it
// in-memory, and alternative backends can be added without touching the
// engine.
//
// Constructors of implementations return the SnapshotStore interface so
// consumers never couple to backend specifics.
package storage
