// Copyright 2025 Empire Labs
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


// Package storage provides the storage abstraction layer for the chad gateway.
//
// It defines two repository interfaces that decouple persistence from the
// request pipeline:
//
//   - SessionStore: durable conversation histories, one record per session
//   - ChunkStore: the pre-indexed knowledge chunks queried during retrieval
//
// Records are serialized with the MUS binary format. Both interfaces are
// implemented by the badger subpackage; tests use its in-memory mode.
//
// # Thread Safety
//
// All implementations must be safe for concurrent use. Session saves are
// full-record replacements (last write wins); loads never observe partial
// writes.
package storage
