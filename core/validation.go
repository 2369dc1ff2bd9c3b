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

import "fmt"

// ValidateSourceRecord validates a SourceRecord according to domain rules.
//
// Validation rules:
//   - ID must not be empty (vector ids are derived from it)
//   - Origin must be a known value
//
// NOT validated:
//   - Text (empty text is legal; embedding an empty string is allowed)
//   - CreatedAt (upstream timestamps are taken as-is)
func ValidateSourceRecord(record *SourceRecord) error {
	if record == nil {
		return fmt.Errorf("%w: record is nil", ErrInvalidRecord)
	}

	if record.ID == "" {
		return fmt.Errorf("%w: %w", ErrInvalidRecord, ErrEmptyRecordID)
	}

	if err := ValidateOrigin(record.Origin); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidRecord, err)
	}

	return nil
}

// ValidateOrigin validates that an Origin has a known value.
func ValidateOrigin(origin Origin) error {
	if origin != OriginMessage && origin != OriginFile {
		return fmt.Errorf("%w: value %d", ErrInvalidOrigin, origin)
	}
	return nil
}
