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


package extract

import (
	"context"
	"fmt"
)

// Registry dispatches extraction to the first extractor that handles a
// declared file type. It implements Extractor itself, so it can be used
// anywhere a single extractor is expected.
type Registry struct {
	extractors []Extractor
}

var _ Extractor = (*Registry)(nil)

// NewRegistry creates a registry over the given extractors, consulted in order.
func NewRegistry(extractors ...Extractor) *Registry {
	return &Registry{extractors: extractors}
}

// DefaultRegistry returns a registry with the built-in extractors
// (plain text and PDF).
func DefaultRegistry() *Registry {
	return NewRegistry(NewPlainText(), NewPDF())
}

// CanExtract reports whether any registered extractor handles the type.
func (r *Registry) CanExtract(declaredType string) bool {
	for _, e := range r.extractors {
		if e.CanExtract(declaredType) {
			return true
		}
	}
	return false
}

// Extract routes to the first extractor that handles the declared type.
// Returns ErrUnsupportedFormat (wrapped) when no extractor matches.
func (r *Registry) Extract(ctx context.Context, data []byte, declaredType string) (string, error) {
	for _, e := range r.extractors {
		if e.CanExtract(declaredType) {
			return e.Extract(ctx, data, declaredType)
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, declaredType)
}
