// Copyright 2025 Pawhaven Labs
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

// ValidateDocument validates a Document according to domain rules.
//
// Validation rules:
//   - Title must not be empty
//   - Status must be a known value
//   - ChunkCount must not be negative
//
// NOT validated (populated by the pipeline):
//   - Embedding (can be empty until the embedding step runs)
//   - ID (0 is valid before database sequences assign one)
//   - Content (empty content is a legal, zero-chunk document)
func ValidateDocument(doc *Document) error {
	if doc == nil {
		return fmt.Errorf("%w: document is nil", ErrInvalidDocument)
	}

	if doc.Title == "" {
		return fmt.Errorf("%w: %w", ErrInvalidDocument, ErrEmptyTitle)
	}

	if err := ValidateStatus(doc.Status); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}

	if doc.ChunkCount < 0 {
		return fmt.Errorf("%w: chunk count %d", ErrInvalidDocument, doc.ChunkCount)
	}

	return nil
}

// ValidateChunk validates a DocumentChunk according to domain rules.
//
// Validation rules:
//   - DocumentId must be set
//   - ChunkIndex must not be negative
//   - ChunkText must not be empty
//
// NOT validated (populated by the pipeline):
//   - Embedding (can be empty when the embedding step failed)
//   - ID (0 is valid before database sequences assign one)
func ValidateChunk(chunk *DocumentChunk) error {
	if chunk == nil {
		return fmt.Errorf("%w: chunk is nil", ErrInvalidChunk)
	}

	if chunk.DocumentId == 0 {
		return fmt.Errorf("%w: document id required", ErrInvalidChunk)
	}

	if chunk.ChunkIndex < 0 {
		return fmt.Errorf("%w: %w", ErrInvalidChunk, ErrNegativeChunkIndex)
	}

	if chunk.ChunkText == "" {
		return fmt.Errorf("%w: %w", ErrInvalidChunk, ErrEmptyChunkText)
	}

	return nil
}

// ValidateStatus validates that a DocumentStatus has a valid value.
func ValidateStatus(status DocumentStatus) error {
	if status != StatusProcessing && status != StatusIndexed && status != StatusError {
		return fmt.Errorf("%w: value %d", ErrInvalidStatus, status)
	}
	return nil
}

// ValidateRawFile validates an uploaded file before ingestion.
func ValidateRawFile(file *RawFile) error {
	if file == nil || file.Name == "" || len(file.Data) == 0 {
		return ErrEmptyFile
	}
	return nil
}
