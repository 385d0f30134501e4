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


// Package ai provides abstractions for the model backends used by chad.
//
// Two interfaces cover everything the gateway needs:
//
//   - Completer: produces a chat completion over a full message history
//   - Embedder: generates vector embeddings for retrieval
//
// # Implementation Packages
//
//   - ai/openrouter: the cloud completion backend (bearer-token HTTP)
//   - ai/ollama: the local completion and embedding backend
//   - ai/mock: test doubles for unit testing without external services
//
// # Backend Selection
//
// The completion backend is a static, configuration-time choice: if an
// OpenRouter credential is configured the cloud backend is used
// exclusively, otherwise the local Ollama backend. There is no runtime
// failover between them; if the selected backend is unreachable the
// error propagates to the caller as a *ProviderError.
//
// Public constructors return interface types to enforce abstraction;
// mock constructors return concrete types so tests can inject behavior
// and assert call counts.
package ai
