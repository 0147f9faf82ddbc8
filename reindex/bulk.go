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
	"fmt"
	"io"
	"time"

	"github.com/pawhaven/docindex/core"
	"github.com/pawhaven/docindex/storage"
)

// Config holds configuration for a bulk reindex run.
type Config struct {
	// BatchSize is the number of documents to process in each batch
	BatchSize int

	// ReportInterval is how often to report progress (number of documents)
	ReportInterval int

	// MaxRetries is the maximum number of retry attempts for failed documents
	MaxRetries int

	// RetryDelay is the base delay for exponential backoff
	RetryDelay time.Duration

	// ErrorsOnly restricts the run to documents in the error status
	ErrorsOnly bool
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		BatchSize:      100,
		ReportInterval: 100,
		MaxRetries:     3,
		RetryDelay:     1 * time.Second,
	}
}

// Bulk reindexes every document in the store, or only errored ones.
type Bulk struct {
	repo      storage.DocumentRepository
	reindexer *Reindexer
	config    *Config
	progress  io.Writer
	iterator  *DocumentIterator
}

// NewBulk creates a bulk reindex runner.
// progress: where to write progress output (typically os.Stderr)
func NewBulk(repo storage.DocumentRepository, reindexer *Reindexer, config *Config, progress io.Writer) *Bulk {
	if config == nil {
		config = DefaultConfig()
	}

	return &Bulk{
		repo:      repo,
		reindexer: reindexer,
		config:    config,
		progress:  progress,
		iterator:  NewDocumentIterator(repo, config.BatchSize, config.ErrorsOnly),
	}
}

// Run executes the bulk reindex. Each selected document is reindexed with
// retry; a document that still fails after all attempts aborts the run so
// the operator sees the failure instead of a silently partial result.
// Progress is reported to the configured writer, and the final summary
// counts documents that resolved to the error status again.
func (b *Bulk) Run(ctx context.Context) error {
	total, err := b.iterator.Count(ctx)
	if err != nil {
		return fmt.Errorf("failed to count documents: %w", err)
	}

	if total == 0 {
		fmt.Fprintf(b.progress, "No documents to reindex (0 documents)\n")
		return nil
	}

	fmt.Fprintf(b.progress, "Starting reindex of %d documents (batch size: %d)\n",
		total, b.config.BatchSize)

	tracker := NewProgressTracker(b.progress, total, b.config.ReportInterval)
	tracker.Start()

	processed := 0
	stillErrored := 0

	err = b.iterator.ForEach(ctx, func(docs []*core.Document) error {
		for _, doc := range docs {
			id := doc.Id
			var result *core.Document
			err := RetryWithBackoff(ctx, func() error {
				var rerr error
				result, rerr = b.reindexer.Reindex(ctx, id)
				return rerr
			}, b.config.MaxRetries, b.config.RetryDelay)
			if err != nil {
				return fmt.Errorf("failed to reindex document %d: %w", id, err)
			}
			// An embedding failure is not a Reindex error; the document
			// resolves to the error status instead. Count those so the
			// summary does not read as a clean run.
			if result.Status == core.StatusError {
				stillErrored++
			}
		}

		processed += len(docs)
		tracker.Update(processed)
		return nil
	})
	if err != nil {
		return err
	}

	tracker.Finish()

	elapsed := tracker.Elapsed()
	fmt.Fprintf(b.progress, "Reindex complete. Processed %d documents in %v (%.1f docs/sec)\n",
		total, elapsed.Round(time.Second), float64(total)/elapsed.Seconds())
	if stillErrored > 0 {
		fmt.Fprintf(b.progress, "Warning: %d documents are still in the error status (embedding failed again)\n",
			stillErrored)
	}

	return nil
}
