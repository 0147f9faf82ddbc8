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


// Package storage provides the storage abstraction layer for docindex.
//
// This package defines the DocumentRepository interface that decouples
// storage implementation from pipeline logic, allowing different backends
// (BadgerDB, in-memory, etc.) to be used interchangeably.
//
// # Constructor Return Type Pattern
//
// Public backend constructors return the storage.DocumentRepository
// interface to enforce abstraction:
//
//	repo, err := badger.NewDocumentRepository(backend)
//
// Internal package constructors may return concrete types since they're
// only used within the implementation package.
//
// # Chunk ownership
//
// Chunk lifetime is a subset of document lifetime: chunks are keyed under
// their owning document and DeleteDocument cascades to them in the same
// transaction. Chunks are only ever written as a complete set for a
// document and replaced wholesale on reindex.
//
// # Thread Safety
//
// All repository implementations must be thread-safe and support
// concurrent access from multiple goroutines.
//
// # Context Support
//
// All repository methods accept context.Context for cancellation and
// timeout support.
package storage
