package service

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"github.com/raphaelgruber/tablerag/internal/db"
	"github.com/raphaelgruber/tablerag/internal/metrics"
	"github.com/raphaelgruber/tablerag/internal/models"
	"github.com/raphaelgruber/tablerag/internal/vector"
)

// Searcher embeds queries and ranks a job's stored rows against them.
type Searcher struct {
	db        *db.Client
	embedders EmbedderFactory
	log       *slog.Logger
	metrics   *metrics.Collector
}

// NewSearcher creates a search engine over the given storage client and
// embedder factory.
func NewSearcher(dbClient *db.Client, embedders EmbedderFactory, log *slog.Logger, collector *metrics.Collector) *Searcher {
	if log == nil {
		log = slog.Default()
	}
	return &Searcher{db: dbClient, embedders: embedders, log: log, metrics: collector}
}

// SearchRequest parameterizes one vector search.
type SearchRequest struct {
	JobName       string
	Query         string
	APIKey        string
	ReturnColumns []string
	NumResults    int
	// WhereSQL is passed through verbatim to the storage scan. The
	// caller owns injection safety.
	WhereSQL string
}

// Search resolves the job, embeds the query with the job's model, ranks
// every stored row by the job's metric, and returns at most NumResults
// documents, best match first. Scores sort non-increasing under every
// metric (see models.IndexDist); ties between equal scores are broken
// arbitrarily and may differ across calls.
func (s *Searcher) Search(ctx context.Context, req SearchRequest) ([]models.SearchResult, error) {
	start := time.Now()

	job, err := s.db.GetJob(ctx, req.JobName)
	if err != nil {
		return nil, err
	}

	embedder, err := s.embedders(job.Model, req.APIKey)
	if err != nil {
		return nil, err
	}
	queryVec, err := embedder.Encode(ctx, req.Query)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.FetchEmbeddedRows(ctx, job, req.WhereSQL)
	if err != nil {
		return nil, err
	}

	results := make([]models.SearchResult, 0, len(rows))
	for _, row := range rows {
		score, err := vector.Score(job.IndexDist, queryVec, row.Vector)
		if err != nil {
			return nil, err
		}
		results = append(results, models.SearchResult{
			Score:   score,
			Columns: projectColumns(row.Columns, req.ReturnColumns),
		})
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if req.NumResults > 0 && len(results) > req.NumResults {
		results = results[:req.NumResults]
	}

	if s.metrics != nil {
		s.metrics.RecordTiming(metrics.OpSearch, time.Since(start))
	}
	s.log.Debug("search complete",
		"job", job.Name, "candidates", len(rows), "returned", len(results),
		"duration_ms", time.Since(start).Milliseconds())
	return results, nil
}

// projectColumns filters a row's columns down to the requested set.
// An empty request or a "*" entry selects every column.
func projectColumns(columns map[string]any, requested []string) map[string]any {
	if len(requested) == 0 {
		return columns
	}
	for _, col := range requested {
		if col == "*" {
			return columns
		}
	}
	out := make(map[string]any, len(requested))
	for _, col := range requested {
		if v, ok := columns[col]; ok {
			out[col] = v
		}
	}
	return out
}
