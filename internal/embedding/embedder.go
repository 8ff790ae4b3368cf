package embedding

import (
	"context"
	"errors"
)

// ErrService marks an embedding backend failure. The turn that triggered the
// call is aborted; session state is left untouched.
var ErrService = errors.New("embedding service failure")

// Embedder converts free text into numeric vector representations.
// EmbedBatch returns one vector per input, order-preserving.
type Embedder interface {
	Name() string
	Embed(ctx context.Context, text string) ([]float64, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float64, error)
}
