package service

import (
	"context"
	"testing"

	"github.com/raphaelgruber/tablerag/internal/db"
	"github.com/raphaelgruber/tablerag/internal/models"
)

func seedRefreshJob(t *testing.T, client *db.Client, updateCol string) *models.Job {
	t.Helper()
	job := &models.Job{
		Name:        "wiki_search",
		Schema:      "main",
		Table:       "wiki",
		Columns:     []string{"body"},
		PrimaryKey:  "page_id",
		UpdateCol:   updateCol,
		IndexDist:   models.IndexDistCosine,
		Model:       models.Model{Provider: models.ProviderOllama, Name: "nomic-embed-text"},
		TableMethod: models.TableMethodJoin,
		Schedule:    "* * * * *",
	}
	ctx := context.Background()
	if err := client.SaveJob(ctx, job); err != nil {
		t.Fatalf("SaveJob() error = %v", err)
	}
	if err := client.CreateEmbeddingsTable(ctx, job); err != nil {
		t.Fatalf("CreateEmbeddingsTable() error = %v", err)
	}
	return job
}

func TestRefresh_EmbedsPendingRowsOnce(t *testing.T) {
	client := testDB(t)
	ctx := context.Background()
	execSQL(t, client,
		`CREATE TABLE main.wiki (page_id INTEGER PRIMARY KEY, body TEXT);`,
		`INSERT INTO main.wiki VALUES (1, 'alpha');`,
		`INSERT INTO main.wiki VALUES (2, 'beta');`,
		`INSERT INTO main.wiki VALUES (3, 'gamma');`,
	)
	seedRefreshJob(t, client, "")

	embedder := &fakeEmbedder{fallback: []float32{1, 0}}
	refresher := NewRefresher(client, fakeEmbedders(embedder), nil, nil)

	n, err := refresher.Refresh(ctx, "wiki_search", "")
	if err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}
	if n != 3 {
		t.Errorf("first Refresh() embedded %d rows, want 3", n)
	}

	// Nothing changed, so a second run finds nothing pending.
	n, err = refresher.Refresh(ctx, "wiki_search", "")
	if err != nil {
		t.Fatalf("second Refresh() error = %v", err)
	}
	if n != 0 {
		t.Errorf("second Refresh() embedded %d rows, want 0", n)
	}

	// A new source row becomes the only pending work.
	execSQL(t, client, `INSERT INTO main.wiki VALUES (4, 'delta');`)
	n, err = refresher.Refresh(ctx, "wiki_search", "")
	if err != nil {
		t.Fatalf("third Refresh() error = %v", err)
	}
	if n != 1 {
		t.Errorf("third Refresh() embedded %d rows, want 1", n)
	}
}

func TestRefresh_ReEmbedsUpdatedRows(t *testing.T) {
	client := testDB(t)
	ctx := context.Background()
	execSQL(t, client,
		`CREATE TABLE main.wiki (page_id INTEGER PRIMARY KEY, body TEXT, updated_at DATETIME);`,
		`INSERT INTO main.wiki VALUES (1, 'alpha', '2024-01-01 00:00:00');`,
		`INSERT INTO main.wiki VALUES (2, 'beta', '2024-01-01 00:00:00');`,
	)
	seedRefreshJob(t, client, "updated_at")

	embedder := &fakeEmbedder{fallback: []float32{1, 0}}
	refresher := NewRefresher(client, fakeEmbedders(embedder), nil, nil)

	if _, err := refresher.Refresh(ctx, "wiki_search", ""); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}

	// Touch one row far in the future so it outdates its stored vector.
	execSQL(t, client, `UPDATE main.wiki SET body = 'alpha v2', updated_at = '2099-01-01 00:00:00' WHERE page_id = 1;`)

	n, err := refresher.Refresh(ctx, "wiki_search", "")
	if err != nil {
		t.Fatalf("Refresh() after update error = %v", err)
	}
	if n != 1 {
		t.Errorf("Refresh() after update embedded %d rows, want 1", n)
	}
}

func TestRefresh_UnknownJob(t *testing.T) {
	client := testDB(t)
	refresher := NewRefresher(client, fakeEmbedders(&fakeEmbedder{fallback: []float32{1}}), nil, nil)
	if _, err := refresher.Refresh(context.Background(), "missing", ""); err == nil {
		t.Fatal("Refresh() with unknown job should fail")
	}
}

func TestTransformerEncode(t *testing.T) {
	embedder := &fakeEmbedder{fallback: []float32{0.1, 0.2, 0.3}}
	transformer := NewTransformer(fakeEmbedders(embedder), nil)

	vec, err := transformer.Encode(context.Background(), "hello", "ollama/nomic-embed-text", "")
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	if len(vec) != 3 {
		t.Errorf("vector length = %d, want 3", len(vec))
	}

	if _, err := transformer.Encode(context.Background(), "hello", "not-a-model", ""); err == nil {
		t.Error("Encode() accepted a model id without a provider")
	}
	if _, err := transformer.Encode(context.Background(), "", "ollama/nomic-embed-text", ""); err == nil {
		t.Error("Encode() accepted empty input")
	}
}
