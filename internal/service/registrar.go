package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/raphaelgruber/tablerag/internal/db"
	"github.com/raphaelgruber/tablerag/internal/models"
)

// Registrar validates and persists jobs: named bindings of a table and
// its text columns to an embedding model, distance metric, and refresh
// schedule.
type Registrar struct {
	db          *db.Client
	provisioner *Provisioner
	log         *slog.Logger
}

// NewRegistrar creates a registrar.
func NewRegistrar(dbClient *db.Client, provisioner *Provisioner, log *slog.Logger) *Registrar {
	if log == nil {
		log = slog.Default()
	}
	return &Registrar{db: dbClient, provisioner: provisioner, log: log}
}

// InitTableRequest carries the raw job parameters before validation.
type InitTableRequest struct {
	JobName     string
	Schema      string
	Table       string
	Columns     []string
	PrimaryKey  string
	UpdateCol   string
	IndexDist   string
	Model       string
	TableMethod string
	Schedule    string
}

// InitTable validates the request against the closed enum sets, resolves
// the model identifier, and persists the job with create-or-update
// semantics: re-registering an existing name replaces its binding.
// The job's embeddings table is provisioned alongside.
func (r *Registrar) InitTable(ctx context.Context, req InitTableRequest) (string, error) {
	// The job name becomes part of the embeddings table name, so reject
	// names that cannot be quoted before anything is persisted.
	if err := db.ValidIdentifier(req.JobName); err != nil {
		return "", fmt.Errorf("job name: %w", err)
	}
	indexDist, err := models.ParseIndexDist(req.IndexDist)
	if err != nil {
		return "", err
	}
	tableMethod, err := models.ParseTableMethod(req.TableMethod)
	if err != nil {
		return "", err
	}
	model, err := models.ParseModel(req.Model)
	if err != nil {
		return "", err
	}
	if err := models.ValidateSchedule(req.Schedule); err != nil {
		return "", err
	}

	job := &models.Job{
		Name:        req.JobName,
		Schema:      req.Schema,
		Table:       req.Table,
		Columns:     req.Columns,
		PrimaryKey:  req.PrimaryKey,
		UpdateCol:   req.UpdateCol,
		IndexDist:   indexDist,
		Model:       model,
		TableMethod: tableMethod,
		Schedule:    req.Schedule,
	}
	if err := job.Validate(); err != nil {
		return "", err
	}

	if err := r.db.SaveJob(ctx, job); err != nil {
		return "", err
	}
	if err := r.db.CreateEmbeddingsTable(ctx, job); err != nil {
		// Roll the registration back so no half-registered job survives.
		if delErr := r.db.DeleteJobRecord(ctx, job.Name); delErr != nil {
			r.log.Warn("failed to roll back job record", "job", job.Name, "error", delErr)
		}
		return "", err
	}

	return fmt.Sprintf("Successfully created job: %s", job.Name), nil
}

// TableRequest is the one-call setup path: optionally chunk the source
// table first, then register the job.
type TableRequest struct {
	Table        string
	Columns      []string
	JobName      string
	PrimaryKey   string
	Schema       string
	UpdateCol    string
	IndexDist    string
	Model        string
	ChunkSize    int
	ChunkOverlap int
	TableMethod  string
	Schedule     string
}

// Table provisions an optional chunked table and registers a job over
// the result. When ChunkSize is set the job binds to the derived
// "<table>_chunked" table's chunk column, keyed by its surrogate id.
func (r *Registrar) Table(ctx context.Context, req TableRequest) (string, error) {
	table := req.Table
	columns := req.Columns
	primaryKey := req.PrimaryKey
	updateCol := req.UpdateCol

	if req.ChunkSize > 0 {
		chunkedTable := req.Table + "_chunked"
		if _, err := r.provisioner.ChunkTable(ctx, ChunkTableRequest{
			InputTable:   req.Table,
			Columns:      req.Columns,
			ChunkSize:    req.ChunkSize,
			ChunkOverlap: req.ChunkOverlap,
			OutputTable:  chunkedTable,
			Schema:       req.Schema,
		}); err != nil {
			return "", err
		}
		table = chunkedTable
		columns = []string{"chunk"}
		primaryKey = "id"
		updateCol = ""
	}

	return r.InitTable(ctx, InitTableRequest{
		JobName:     req.JobName,
		Schema:      req.Schema,
		Table:       table,
		Columns:     columns,
		PrimaryKey:  primaryKey,
		UpdateCol:   updateCol,
		IndexDist:   req.IndexDist,
		Model:       req.Model,
		TableMethod: req.TableMethod,
		Schedule:    req.Schedule,
	})
}

// InitRAGRequest registers a single-column chat corpus.
type InitRAGRequest struct {
	AgentName      string
	TableName      string
	UniqueRecordID string
	Column         string
	Schema         string
	IndexDist      string
	Model          string
	TableMethod    string
	Schedule       string
}

// InitRAG is the job registrar specialized for chat corpora: chat only
// supports transforming a single column.
func (r *Registrar) InitRAG(ctx context.Context, req InitRAGRequest) (string, error) {
	return r.InitTable(ctx, InitTableRequest{
		JobName:     req.AgentName,
		Schema:      req.Schema,
		Table:       req.TableName,
		Columns:     []string{req.Column},
		PrimaryKey:  req.UniqueRecordID,
		IndexDist:   req.IndexDist,
		Model:       req.Model,
		TableMethod: req.TableMethod,
		Schedule:    req.Schedule,
	})
}
