package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/raphaelgruber/tablerag/internal/chunker"
	"github.com/raphaelgruber/tablerag/internal/db"
	"github.com/raphaelgruber/tablerag/internal/models"
)

func TestChunkTable(t *testing.T) {
	client := testDB(t)
	ctx := context.Background()

	long := strings.Repeat("abcdefghij", 3) // 30 runes -> 4 chunks at 12/3
	execSQL(t, client,
		`CREATE TABLE main.articles (title TEXT, body TEXT);`,
		`INSERT INTO main.articles (title, body) VALUES ('short', '`+long+`');`,
		`INSERT INTO main.articles (title, body) VALUES ('another', 'tiny');`,
	)

	provisioner := NewProvisioner(client, nil, nil)
	msg, err := provisioner.ChunkTable(ctx, ChunkTableRequest{
		InputTable:   "articles",
		Columns:      []string{"body"},
		ChunkSize:    12,
		ChunkOverlap: 3,
		OutputTable:  "articles_chunked",
		Schema:       "main",
	})
	if err != nil {
		t.Fatalf("ChunkTable() error = %v", err)
	}
	if !strings.Contains(msg, "articles_chunked") {
		t.Errorf("message = %q", msg)
	}

	rows, err := client.FetchRows(ctx, "main", "articles_chunked", "id", []string{"original_id", "chunk"})
	if err != nil {
		t.Fatalf("FetchRows() error = %v", err)
	}

	// Chunks grouped back by source row must reassemble to the source
	// text, and every source row must be represented.
	bySource := map[string][]string{}
	for _, row := range rows {
		bySource[row.Text["original_id"]] = append(bySource[row.Text["original_id"]], row.Text["chunk"])
	}
	if len(bySource) != 2 {
		t.Fatalf("distinct original_id count = %d, want 2", len(bySource))
	}
	if got := chunker.Reassemble(bySource["1"], 3); got != long {
		t.Errorf("reassembled row 1 = %q, want source text", got)
	}
	if len(bySource["2"]) != 1 || bySource["2"][0] != "tiny" {
		t.Errorf("row 2 chunks = %v, want single untouched chunk", bySource["2"])
	}
}

func TestChunkTable_DeclaredTextPrimaryKey(t *testing.T) {
	client := testDB(t)
	ctx := context.Background()

	execSQL(t, client,
		`CREATE TABLE main.pages (slug TEXT PRIMARY KEY, body TEXT);`,
		`INSERT INTO main.pages VALUES ('intro', 'welcome to the product');`,
		`INSERT INTO main.pages VALUES ('faq', 'frequently asked questions');`,
	)

	provisioner := NewProvisioner(client, nil, nil)
	if _, err := provisioner.ChunkTable(ctx, ChunkTableRequest{
		InputTable:   "pages",
		Columns:      []string{"body"},
		ChunkSize:    100,
		ChunkOverlap: 10,
		OutputTable:  "pages_chunked",
		Schema:       "main",
	}); err != nil {
		t.Fatalf("ChunkTable() error = %v", err)
	}

	rows, err := client.FetchRows(ctx, "main", "pages_chunked", "id", []string{"original_id"})
	if err != nil {
		t.Fatalf("FetchRows() error = %v", err)
	}

	got := map[string]bool{}
	for _, row := range rows {
		got[row.Text["original_id"]] = true
	}
	for _, want := range []string{"intro", "faq"} {
		if !got[want] {
			t.Errorf("original_id %q missing; got %v", want, got)
		}
	}
	if len(got) != 2 {
		t.Errorf("distinct original_id count = %d, want 2", len(got))
	}
}

func TestChunkTable_ExistingOutputTable(t *testing.T) {
	client := testDB(t)
	execSQL(t, client,
		`CREATE TABLE main.src (body TEXT);`,
		`INSERT INTO main.src (body) VALUES ('hello');`,
		`CREATE TABLE main.src_chunked (id INTEGER PRIMARY KEY);`,
	)

	provisioner := NewProvisioner(client, nil, nil)
	_, err := provisioner.ChunkTable(context.Background(), ChunkTableRequest{
		InputTable:   "src",
		Columns:      []string{"body"},
		ChunkSize:    100,
		ChunkOverlap: 10,
		OutputTable:  "src_chunked",
		Schema:       "main",
	})
	if !errors.Is(err, db.ErrTableExists) {
		t.Fatalf("ChunkTable() error = %v, want ErrTableExists", err)
	}
}

func TestChunkTable_InvalidParams(t *testing.T) {
	client := testDB(t)
	execSQL(t, client,
		`CREATE TABLE main.src (body TEXT);`,
		`INSERT INTO main.src (body) VALUES ('hello');`,
	)

	provisioner := NewProvisioner(client, nil, nil)
	_, err := provisioner.ChunkTable(context.Background(), ChunkTableRequest{
		InputTable:   "src",
		Columns:      []string{"body"},
		ChunkSize:    10,
		ChunkOverlap: 10,
		OutputTable:  "src_chunked",
		Schema:       "main",
	})
	if err == nil {
		t.Fatal("ChunkTable() with overlap >= size should fail")
	}
}

func validInitRequest() InitTableRequest {
	return InitTableRequest{
		JobName:     "products_search",
		Schema:      "main",
		Table:       "products",
		Columns:     []string{"description"},
		PrimaryKey:  "product_id",
		IndexDist:   "cosine-hnsw",
		Model:       "ollama/nomic-embed-text",
		TableMethod: "join",
		Schedule:    "* * * * *",
	}
}

func TestInitTable(t *testing.T) {
	client := testDB(t)
	ctx := context.Background()
	execSQL(t, client, `CREATE TABLE main.products (product_id INTEGER PRIMARY KEY, description TEXT);`)

	registrar := NewRegistrar(client, NewProvisioner(client, nil, nil), nil)
	msg, err := registrar.InitTable(ctx, validInitRequest())
	if err != nil {
		t.Fatalf("InitTable() error = %v", err)
	}
	if msg != "Successfully created job: products_search" {
		t.Errorf("message = %q", msg)
	}

	job, err := client.GetJob(ctx, "products_search")
	if err != nil {
		t.Fatalf("GetJob() error = %v", err)
	}
	if job.IndexDist != models.IndexDistCosine {
		t.Errorf("IndexDist = %v", job.IndexDist)
	}
	if job.Model.Provider != models.ProviderOllama || job.Model.Name != "nomic-embed-text" {
		t.Errorf("Model = %v", job.Model)
	}

	// The embeddings table must exist and accept vectors right away.
	if err := client.UpsertEmbeddings(ctx, job, []db.Embedding{{RecordID: 1, Vector: []float32{1}}}); err != nil {
		t.Errorf("UpsertEmbeddings() on fresh job error = %v", err)
	}
}

func TestInitTable_Validation(t *testing.T) {
	client := testDB(t)
	registrar := NewRegistrar(client, NewProvisioner(client, nil, nil), nil)

	tests := []struct {
		name   string
		mutate func(*InitTableRequest)
	}{
		{"bad metric", func(r *InitTableRequest) { r.IndexDist = "hamming" }},
		{"bad table method", func(r *InitTableRequest) { r.TableMethod = "merge" }},
		{"bad model", func(r *InitTableRequest) { r.Model = "no-slash" }},
		{"bad schedule", func(r *InitTableRequest) { r.Schedule = "every tuesday" }},
		{"no columns", func(r *InitTableRequest) { r.Columns = nil }},
		{"no primary key", func(r *InitTableRequest) { r.PrimaryKey = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validInitRequest()
			tt.mutate(&req)
			if _, err := registrar.InitTable(context.Background(), req); err == nil {
				t.Errorf("InitTable() accepted %s", tt.name)
			}
		})
	}
}

func TestInitTable_BadJobNameLeavesNoRecord(t *testing.T) {
	client := testDB(t)
	ctx := context.Background()
	registrar := NewRegistrar(client, NewProvisioner(client, nil, nil), nil)

	req := validInitRequest()
	req.JobName = "my-job"

	_, err := registrar.InitTable(ctx, req)
	if !errors.Is(err, db.ErrInvalidIdentifier) {
		t.Fatalf("InitTable() error = %v, want ErrInvalidIdentifier", err)
	}
	if _, err := client.GetJob(ctx, "my-job"); !errors.Is(err, db.ErrJobNotFound) {
		t.Errorf("GetJob() after rejected registration error = %v, want ErrJobNotFound", err)
	}
}

func TestInitTable_ReRegisterUpdates(t *testing.T) {
	client := testDB(t)
	ctx := context.Background()
	execSQL(t, client, `CREATE TABLE main.products (product_id INTEGER PRIMARY KEY, description TEXT, name TEXT);`)

	registrar := NewRegistrar(client, NewProvisioner(client, nil, nil), nil)
	if _, err := registrar.InitTable(ctx, validInitRequest()); err != nil {
		t.Fatalf("first InitTable() error = %v", err)
	}

	req := validInitRequest()
	req.Columns = []string{"description", "name"}
	req.IndexDist = "l2-hnsw"
	if _, err := registrar.InitTable(ctx, req); err != nil {
		t.Fatalf("second InitTable() error = %v", err)
	}

	job, err := client.GetJob(ctx, "products_search")
	if err != nil {
		t.Fatalf("GetJob() error = %v", err)
	}
	if len(job.Columns) != 2 || job.IndexDist != models.IndexDistL2 {
		t.Errorf("re-registration did not update the binding: %+v", job)
	}
	jobs, err := client.ListJobs(ctx)
	if err != nil {
		t.Fatalf("ListJobs() error = %v", err)
	}
	if len(jobs) != 1 {
		t.Errorf("job count after re-registration = %d, want 1", len(jobs))
	}
}

func TestTable_ChunksThenRegisters(t *testing.T) {
	client := testDB(t)
	ctx := context.Background()
	execSQL(t, client,
		`CREATE TABLE main.notes (body TEXT);`,
		`INSERT INTO main.notes (body) VALUES ('`+strings.Repeat("n", 50)+`');`,
	)

	registrar := NewRegistrar(client, NewProvisioner(client, nil, nil), nil)
	if _, err := registrar.Table(ctx, TableRequest{
		Table:        "notes",
		Columns:      []string{"body"},
		JobName:      "notes_search",
		PrimaryKey:   "rowid",
		Schema:       "main",
		IndexDist:    "cosine-hnsw",
		Model:        "ollama/nomic-embed-text",
		ChunkSize:    20,
		ChunkOverlap: 5,
		TableMethod:  "join",
		Schedule:     "* * * * *",
	}); err != nil {
		t.Fatalf("Table() error = %v", err)
	}

	job, err := client.GetJob(ctx, "notes_search")
	if err != nil {
		t.Fatalf("GetJob() error = %v", err)
	}
	if job.Table != "notes_chunked" {
		t.Errorf("job table = %q, want the derived chunked table", job.Table)
	}
	if len(job.Columns) != 1 || job.Columns[0] != "chunk" {
		t.Errorf("job columns = %v, want [chunk]", job.Columns)
	}
	if job.PrimaryKey != "id" {
		t.Errorf("job primary key = %q, want id", job.PrimaryKey)
	}

	rows, err := client.FetchRows(ctx, "main", "notes_chunked", "id", []string{"chunk"})
	if err != nil {
		t.Fatalf("FetchRows() error = %v", err)
	}
	if len(rows) == 0 {
		t.Error("chunked table is empty")
	}
}

func TestInitRAG(t *testing.T) {
	client := testDB(t)
	ctx := context.Background()
	execSQL(t, client, `CREATE TABLE main.faq (faq_id INTEGER PRIMARY KEY, answer TEXT);`)

	registrar := NewRegistrar(client, NewProvisioner(client, nil, nil), nil)
	if _, err := registrar.InitRAG(ctx, InitRAGRequest{
		AgentName:      "faq_agent",
		TableName:      "faq",
		UniqueRecordID: "faq_id",
		Column:         "answer",
		Schema:         "main",
		IndexDist:      "cosine-hnsw",
		Model:          "ollama/nomic-embed-text",
		TableMethod:    "join",
		Schedule:       "realtime",
	}); err != nil {
		t.Fatalf("InitRAG() error = %v", err)
	}

	job, err := client.GetJob(ctx, "faq_agent")
	if err != nil {
		t.Fatalf("GetJob() error = %v", err)
	}
	if len(job.Columns) != 1 || job.Columns[0] != "answer" {
		t.Errorf("job columns = %v, want the single chat column", job.Columns)
	}
}
