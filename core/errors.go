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


package core

import "errors"

// Domain validation errors
var (
	// ErrInvalidRecord indicates a SourceRecord failed validation.
	ErrInvalidRecord = errors.New("invalid source record")

	// ErrEmptyRecordID indicates a record has no source identifier.
	ErrEmptyRecordID = errors.New("record id cannot be empty")

	// ErrInvalidOrigin indicates an invalid Origin value.
	ErrInvalidOrigin = errors.New("invalid record origin")

	// ErrInvalidMetadata indicates a metadata variant failed construction.
	ErrInvalidMetadata = errors.New("invalid metadata")

	// ErrUnknownContentType indicates a content type outside the closed set.
	ErrUnknownContentType = errors.New("unknown content type")
)
