// Package mock provides a test double implementation of ai.Embedder.
//
// The mock runs without an external embedding service and is deterministic:
// by default the same text always produces the same vector, so tests can
// assert on embedding identity across calls.
//
// # Usage in Tests
//
//	embedder := mock.NewEmbedder()
//	vec, err := embedder.EmbedText(ctx, "test")
//
//	// Custom behavior injection
//	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
//	    return nil, errors.New("service down")
//	}
//
//	// Check call counts
//	count := embedder.CallCount()
package mock
