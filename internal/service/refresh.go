package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/raphaelgruber/tablerag/internal/db"
	"github.com/raphaelgruber/tablerag/internal/metrics"
)

// Refresher embeds the rows a job has not yet indexed. The external
// scheduler triggers it on the job's cron cadence; it can also be run by
// hand after bulk loads.
type Refresher struct {
	db        *db.Client
	embedders EmbedderFactory
	log       *slog.Logger
	metrics   *metrics.Collector
}

// NewRefresher creates a refresher.
func NewRefresher(dbClient *db.Client, embedders EmbedderFactory, log *slog.Logger, collector *metrics.Collector) *Refresher {
	if log == nil {
		log = slog.Default()
	}
	return &Refresher{db: dbClient, embedders: embedders, log: log, metrics: collector}
}

// Refresh embeds every source row of the job that has no stored vector,
// or whose update column is newer than its vector. Returns the number of
// rows embedded. The whole batch lands in one transaction.
func (r *Refresher) Refresh(ctx context.Context, jobName, apiKey string) (int, error) {
	job, err := r.db.GetJob(ctx, jobName)
	if err != nil {
		return 0, err
	}

	pending, err := r.db.FetchPendingRows(ctx, job)
	if err != nil {
		return 0, err
	}
	if len(pending) == 0 {
		return 0, nil
	}

	// Row text follows registered column order, matching provisioning.
	inputs := make([]string, 0, len(pending))
	ids := make([]any, 0, len(pending))
	for _, row := range pending {
		text := ""
		for _, col := range job.Columns {
			if v, ok := row.Text[col]; ok {
				if text != "" {
					text += "\n"
				}
				text += v
			}
		}
		inputs = append(inputs, text)
		ids = append(ids, row.PK)
	}

	embedder, err := r.embedders(job.Model, apiKey)
	if err != nil {
		return 0, err
	}

	start := time.Now()
	vectors, err := embedder.Transform(ctx, inputs)
	if err != nil {
		return 0, err
	}
	if r.metrics != nil {
		r.metrics.RecordTiming(metrics.OpTransform, time.Since(start))
	}

	embeddings := make([]db.Embedding, len(vectors))
	for i, vec := range vectors {
		embeddings[i] = db.Embedding{RecordID: ids[i], Vector: vec}
	}
	if err := r.db.UpsertEmbeddings(ctx, job, embeddings); err != nil {
		return 0, err
	}

	r.log.Info("refreshed job embeddings", "job", job.Name, "rows", len(embeddings))
	return len(embeddings), nil
}
