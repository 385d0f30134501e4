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


// Package retrieval augments chat queries with pre-indexed knowledge.
//
// The Retriever embeds a query, runs a nearest-neighbor search against
// the chunk index, and maps the matches into retrieved chunks. The
// distinguishing property of this package is total graceful
// degradation: Retrieve never returns an error, because knowledge
// context is an enhancement to the chat pipeline, not a requirement.
// Failures are logged and yield an empty result ("empty but
// successful" is represented as an empty slice; there is no failed
// state for callers to handle).
package retrieval
