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


// Package gateway contains the request orchestration pipeline that
// turns one stateless chat request into a context-augmented,
// session-continuous model reply.
//
// A turn moves through admission (sliding-window rate limiting),
// validation, session resolution, an identity short-circuit for
// self-identification questions, retrieval augmentation, model
// completion, and persistence. Sessions resolve concurrent writes
// last-write-wins; the pipeline does not serialize per-session.
package gateway
