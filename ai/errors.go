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


package ai

import "fmt"

// ProviderError indicates an upstream completion backend failure.
// The gateway surfaces it to callers as a 502 with the detail string;
// it is never absorbed locally.
type ProviderError struct {
	// Provider names the backend ("openrouter" or "ollama").
	Provider string
	// Err is the underlying failure.
	Err error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("LLM error (%s): %v", e.Provider, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}
