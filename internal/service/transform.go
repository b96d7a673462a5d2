package service

import (
	"context"
	"time"

	"github.com/raphaelgruber/tablerag/internal/metrics"
	"github.com/raphaelgruber/tablerag/internal/models"
)

// Transformer is the standalone encode surface: one input, one vector.
type Transformer struct {
	embedders EmbedderFactory
	metrics   *metrics.Collector
}

// NewTransformer creates a transformer.
func NewTransformer(embedders EmbedderFactory, collector *metrics.Collector) *Transformer {
	return &Transformer{embedders: embedders, metrics: collector}
}

// Encode embeds a single input with the given model, requiring exactly
// one vector back. transform_embeddings and encode are both served here.
func (t *Transformer) Encode(ctx context.Context, input, modelID, apiKey string) ([]float32, error) {
	model, err := models.ParseModel(modelID)
	if err != nil {
		return nil, err
	}
	embedder, err := t.embedders(model, apiKey)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	vec, err := embedder.Encode(ctx, input)
	if err != nil {
		return nil, err
	}
	if t.metrics != nil {
		t.metrics.RecordTiming(metrics.OpTransform, time.Since(start))
	}
	return vec, nil
}
