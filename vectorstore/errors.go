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


package vectorstore

import "errors"

var (
	// ErrEmptyNamespace is returned when an operation names no namespace.
	ErrEmptyNamespace = errors.New("namespace cannot be empty")

	// ErrUnauthorized indicates the store rejected the credentials.
	ErrUnauthorized = errors.New("vector store: unauthorized")

	// ErrRateLimited indicates the store throttled the request.
	// The pipeline does not retry; any retry policy belongs to the caller.
	ErrRateLimited = errors.New("vector store: rate limited")

	// ErrBadRequest indicates the store rejected the request payload.
	ErrBadRequest = errors.New("vector store: bad request")
)
