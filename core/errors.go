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

import "errors"

// Domain validation errors
var (
	// ErrInvalidDocument indicates a Document failed validation.
	ErrInvalidDocument = errors.New("invalid document")

	// ErrInvalidChunk indicates a DocumentChunk failed validation.
	ErrInvalidChunk = errors.New("invalid document chunk")

	// ErrInvalidStatus indicates an unrecognized DocumentStatus value.
	ErrInvalidStatus = errors.New("invalid document status")

	// ErrEmptyTitle indicates the document Title field is empty.
	ErrEmptyTitle = errors.New("document title cannot be empty")

	// ErrNegativeChunkIndex indicates a chunk with a negative ChunkIndex.
	ErrNegativeChunkIndex = errors.New("chunk index cannot be negative")

	// ErrEmptyChunkText indicates the ChunkText field is empty.
	ErrEmptyChunkText = errors.New("chunk text cannot be empty")

	// ErrEmptyFile indicates a RawFile with no name or no data.
	ErrEmptyFile = errors.New("file name and data are required")
)
