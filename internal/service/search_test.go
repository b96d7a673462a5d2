package service

import (
	"context"
	"testing"

	"github.com/raphaelgruber/tablerag/internal/db"
	"github.com/raphaelgruber/tablerag/internal/models"
)

func seedSearchJob(t *testing.T, client *db.Client) *models.Job {
	t.Helper()
	ctx := context.Background()

	execSQL(t, client,
		`CREATE TABLE main.docs (doc_id INTEGER PRIMARY KEY, body TEXT, topic TEXT);`,
		`INSERT INTO main.docs VALUES (1, 'exact match doc', 'a');`,
		`INSERT INTO main.docs VALUES (2, 'close match doc', 'a');`,
		`INSERT INTO main.docs VALUES (3, 'unrelated doc', 'b');`,
	)

	job := &models.Job{
		Name:        "docs_search",
		Schema:      "main",
		Table:       "docs",
		Columns:     []string{"body"},
		PrimaryKey:  "doc_id",
		IndexDist:   models.IndexDistCosine,
		Model:       models.Model{Provider: models.ProviderOllama, Name: "nomic-embed-text"},
		TableMethod: models.TableMethodJoin,
		Schedule:    "* * * * *",
	}
	if err := client.SaveJob(ctx, job); err != nil {
		t.Fatalf("SaveJob() error = %v", err)
	}
	if err := client.CreateEmbeddingsTable(ctx, job); err != nil {
		t.Fatalf("CreateEmbeddingsTable() error = %v", err)
	}
	if err := client.UpsertEmbeddings(ctx, job, []db.Embedding{
		{RecordID: 1, Vector: []float32{1, 0}},
		{RecordID: 2, Vector: []float32{0.8, 0.6}},
		{RecordID: 3, Vector: []float32{0, 1}},
	}); err != nil {
		t.Fatalf("UpsertEmbeddings() error = %v", err)
	}
	return job
}

func newTestSearcher(t *testing.T, client *db.Client) *Searcher {
	t.Helper()
	embedder := &fakeEmbedder{fallback: []float32{1, 0}}
	return NewSearcher(client, fakeEmbedders(embedder), nil, nil)
}

func TestSearch_RanksAndLimits(t *testing.T) {
	client := testDB(t)
	seedSearchJob(t, client)
	searcher := newTestSearcher(t, client)

	results, err := searcher.Search(context.Background(), SearchRequest{
		JobName:       "docs_search",
		Query:         "match",
		ReturnColumns: []string{"*"},
		NumResults:    2,
	})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}

	if len(results) != 2 {
		t.Fatalf("Search() returned %d results, want 2", len(results))
	}
	for i := 1; i < len(results); i++ {
		if results[i].Score > results[i-1].Score {
			t.Errorf("results not sorted non-increasing: %v then %v", results[i-1].Score, results[i].Score)
		}
	}
	if body := results[0].Columns["body"]; body != "exact match doc" {
		t.Errorf("best match = %v, want the exact match doc", body)
	}
}

func TestSearch_ProjectsRequestedColumns(t *testing.T) {
	client := testDB(t)
	seedSearchJob(t, client)
	searcher := newTestSearcher(t, client)

	results, err := searcher.Search(context.Background(), SearchRequest{
		JobName:       "docs_search",
		Query:         "match",
		ReturnColumns: []string{"topic"},
		NumResults:    1,
	})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("Search() returned %d results, want 1", len(results))
	}
	if _, ok := results[0].Columns["body"]; ok {
		t.Error("projection leaked an unrequested column")
	}
	if results[0].Columns["topic"] != "a" {
		t.Errorf("topic = %v, want a", results[0].Columns["topic"])
	}
}

func TestSearch_WhereSQLPassthrough(t *testing.T) {
	client := testDB(t)
	seedSearchJob(t, client)
	searcher := newTestSearcher(t, client)

	results, err := searcher.Search(context.Background(), SearchRequest{
		JobName:       "docs_search",
		Query:         "match",
		ReturnColumns: []string{"*"},
		NumResults:    10,
		WhereSQL:      "s.topic = 'b'",
	})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("Search() with predicate returned %d results, want 1", len(results))
	}
	if results[0].Columns["body"] != "unrelated doc" {
		t.Errorf("predicate selected %v", results[0].Columns["body"])
	}
}

func TestSearch_UnknownJob(t *testing.T) {
	client := testDB(t)
	searcher := newTestSearcher(t, client)

	if _, err := searcher.Search(context.Background(), SearchRequest{JobName: "missing", Query: "q"}); err == nil {
		t.Fatal("Search() with unknown job should fail")
	}
}
