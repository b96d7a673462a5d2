package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/raphaelgruber/tablerag/internal/chunker"
	"github.com/raphaelgruber/tablerag/internal/db"
	"github.com/raphaelgruber/tablerag/internal/metrics"
)

// Provisioner creates and populates derived chunk tables from source
// tables.
type Provisioner struct {
	db      *db.Client
	log     *slog.Logger
	metrics *metrics.Collector
}

// NewProvisioner creates a provisioner.
func NewProvisioner(dbClient *db.Client, log *slog.Logger, collector *metrics.Collector) *Provisioner {
	if log == nil {
		log = slog.Default()
	}
	return &Provisioner{db: dbClient, log: log, metrics: collector}
}

// ChunkTableRequest names a provisioning run.
type ChunkTableRequest struct {
	InputTable   string
	Columns      []string
	ChunkSize    int
	ChunkOverlap int
	OutputTable  string
	Schema       string
}

// ChunkTable fetches every row of the input table, chunks the requested
// text columns, and stores the chunks in a freshly created output table
// referencing each source row's primary key. The whole population runs
// as one batch: on any failure the output table is dropped again, so no
// partially filled table survives.
//
// Rows land in fetched-row order, then column order, then chunk order.
func (p *Provisioner) ChunkTable(ctx context.Context, req ChunkTableRequest) (string, error) {
	start := time.Now()

	// original_id carries the source table's declared primary key so
	// chunks re-associate with their rows; tables without one fall back
	// to the implicit rowid.
	pk, err := p.db.PrimaryKeyColumn(ctx, req.Schema, req.InputTable)
	if err != nil {
		return "", err
	}
	rows, err := p.db.FetchRows(ctx, req.Schema, req.InputTable, pk, req.Columns)
	if err != nil {
		return "", err
	}

	var chunkRows []db.ChunkRow
	for _, row := range rows {
		for _, col := range req.Columns {
			text, ok := row.Text[col]
			if !ok {
				continue
			}
			chunks, err := chunker.Chunk(text, req.ChunkSize, req.ChunkOverlap)
			if err != nil {
				return "", err
			}
			for _, chunk := range chunks {
				chunkRows = append(chunkRows, db.ChunkRow{OriginalID: row.PK, Chunk: chunk})
			}
		}
	}

	if err := p.db.CreateChunkedTable(ctx, req.Schema, req.OutputTable); err != nil {
		return "", err
	}
	if err := p.db.InsertChunks(ctx, req.Schema, req.OutputTable, chunkRows); err != nil {
		// Roll the table back so a retry starts clean.
		if dropErr := p.db.DropTable(ctx, req.Schema, req.OutputTable); dropErr != nil {
			p.log.Warn("failed to drop partially provisioned table", "table", req.OutputTable, "error", dropErr)
		}
		return "", err
	}

	if p.metrics != nil {
		p.metrics.RecordTiming(metrics.OpProvision, time.Since(start))
	}
	p.log.Info("chunked table",
		"input", req.InputTable, "output", req.OutputTable,
		"source_rows", len(rows), "chunks", len(chunkRows))

	return fmt.Sprintf("Data from %s successfully chunked into %s", req.InputTable, req.OutputTable), nil
}
