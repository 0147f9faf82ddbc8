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


package reindex

import (
	"context"

	"github.com/pawhaven/docindex/core"
	"github.com/pawhaven/docindex/storage"
)

// DefaultBatchSize is the default number of documents passed per batch.
const DefaultBatchSize = 100

// DocumentIterator walks stored documents in batches, optionally restricted
// to documents in the error status.
type DocumentIterator struct {
	repo       storage.DocumentRepository
	batchSize  int
	errorsOnly bool
}

// NewDocumentIterator creates a document iterator.
// batchSize: number of documents per batch (must be > 0)
// errorsOnly: when true, only documents with the error status are visited
func NewDocumentIterator(repo storage.DocumentRepository, batchSize int, errorsOnly bool) *DocumentIterator {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &DocumentIterator{
		repo:       repo,
		batchSize:  batchSize,
		errorsOnly: errorsOnly,
	}
}

// ForEach iterates over the selected documents, calling fn for each batch.
// Iteration stops on the first error from fn or when all documents are
// visited. Context cancellation is checked between batches.
func (it *DocumentIterator) ForEach(ctx context.Context, fn func([]*core.Document) error) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	docs, err := it.repo.ListDocuments(ctx)
	if err != nil {
		return err
	}

	if it.errorsOnly {
		filtered := docs[:0]
		for _, doc := range docs {
			if doc.Status == core.StatusError {
				filtered = append(filtered, doc)
			}
		}
		docs = filtered
	}

	if len(docs) == 0 {
		return nil
	}

	for i := 0; i < len(docs); i += it.batchSize {
		end := i + it.batchSize
		if end > len(docs) {
			end = len(docs)
		}

		if err := fn(docs[i:end]); err != nil {
			return err
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
	}

	return nil
}

// Count returns the number of documents the iterator would visit.
func (it *DocumentIterator) Count(ctx context.Context) (int, error) {
	docs, err := it.repo.ListDocuments(ctx)
	if err != nil {
		return 0, err
	}
	if !it.errorsOnly {
		return len(docs), nil
	}
	n := 0
	for _, doc := range docs {
		if doc.Status == core.StatusError {
			n++
		}
	}
	return n, nil
}
