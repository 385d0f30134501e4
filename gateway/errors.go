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


package gateway

import "errors"

var (
	// ErrRateLimited indicates the client exceeded the per-window
	// request ceiling. Transient; retry after the window elapses.
	ErrRateLimited = errors.New("rate limit exceeded, try again shortly")

	// ErrEmptyMessage indicates the request message was empty or
	// whitespace after trimming.
	ErrEmptyMessage = errors.New("message is required")

	// ErrSessionStoreRequired is returned when a session store is not provided.
	ErrSessionStoreRequired = errors.New("session store required")

	// ErrRetrieverRequired is returned when a retriever is not provided.
	ErrRetrieverRequired = errors.New("retriever required")

	// ErrCompleterRequired is returned when a completer is not provided.
	ErrCompleterRequired = errors.New("completer required")

	// ErrLimiterRequired is returned when a rate limiter is not provided.
	ErrLimiterRequired = errors.New("rate limiter required")
)
