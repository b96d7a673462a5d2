package db

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/raphaelgruber/tablerag/internal/models"
	"github.com/raphaelgruber/tablerag/internal/vector"
)

// EmbeddingsTableName returns the derived embeddings table name for a
// job. The table lives in the job's schema and joins to the source table
// on the primary key.
func EmbeddingsTableName(jobName string) string {
	return "_tablerag_embeddings_" + jobName
}

// Embedding binds a source row's primary key to its vector.
type Embedding struct {
	RecordID any
	Vector   []float32
}

// EmbeddedRow is one candidate row for a nearest-neighbor scan: the
// stored vector plus every source column value keyed by name.
type EmbeddedRow struct {
	Vector  []float32
	Columns map[string]any
}

// CreateEmbeddingsTable provisions a job's embeddings table if absent.
func (c *Client) CreateEmbeddingsTable(ctx context.Context, job *models.Job) error {
	target, err := qualify(job.Schema, EmbeddingsTableName(job.Name))
	if err != nil {
		return err
	}
	query := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		record_id PRIMARY KEY,
		embedding BLOB NOT NULL,
		updated_at DATETIME NOT NULL
	);`, target)
	if _, err := c.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("create embeddings table %s: %w", target, wrapSchemaError(err))
	}
	return nil
}

// UpsertEmbeddings writes a batch of row embeddings in one transaction,
// replacing any previous vector for the same record.
func (c *Client) UpsertEmbeddings(ctx context.Context, job *models.Job, embeddings []Embedding) error {
	target, err := qualify(job.Schema, EmbeddingsTableName(job.Name))
	if err != nil {
		return err
	}

	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin embeddings upsert: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf(`
	INSERT INTO %s (record_id, embedding, updated_at) VALUES (?, ?, ?)
	ON CONFLICT(record_id) DO UPDATE SET
		embedding = excluded.embedding,
		updated_at = excluded.updated_at;`, target))
	if err != nil {
		return fmt.Errorf("prepare embeddings upsert: %w", wrapSchemaError(err))
	}
	defer stmt.Close()

	// Stored as a canonical SQLite datetime string so comparisons against
	// source update columns behave.
	now := time.Now().UTC().Format("2006-01-02 15:04:05")
	for _, e := range embeddings {
		blob, err := vector.Encode(e.Vector)
		if err != nil {
			return fmt.Errorf("encode embedding for record %v: %w", e.RecordID, err)
		}
		if _, err := stmt.ExecContext(ctx, e.RecordID, blob, now); err != nil {
			return fmt.Errorf("upsert embedding for record %v: %w", e.RecordID, wrapSchemaError(err))
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit embeddings upsert: %w", err)
	}
	c.log.Debug("upserted embeddings", "job", job.Name, "rows", len(embeddings))
	return nil
}

// FetchEmbeddedRows reads every embedded row of a job joined with its
// source columns, optionally restricted by a raw SQL predicate. The
// predicate is passed through verbatim; the caller owns its safety.
func (c *Client) FetchEmbeddedRows(ctx context.Context, job *models.Job, whereSQL string) ([]EmbeddedRow, error) {
	embTable, err := qualify(job.Schema, EmbeddingsTableName(job.Name))
	if err != nil {
		return nil, err
	}
	srcTable, err := qualify(job.Schema, job.Table)
	if err != nil {
		return nil, err
	}
	pk, err := quoteIdent(job.PrimaryKey)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf("SELECT e.embedding, s.* FROM %s e JOIN %s s ON s.%s = e.record_id",
		embTable, srcTable, pk)
	if whereSQL != "" {
		query += " WHERE " + whereSQL
	}

	rows, err := c.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("fetch embedded rows for job %q: %w", job.Name, wrapSchemaError(err))
	}
	defer rows.Close()

	colNames, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("fetch embedded rows for job %q: %w", job.Name, err)
	}

	var out []EmbeddedRow
	for rows.Next() {
		values := make([]any, len(colNames))
		dest := make([]any, len(colNames))
		for i := range values {
			dest[i] = &values[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan embedded row for job %q: %w", job.Name, err)
		}

		blob, ok := values[0].([]byte)
		if !ok {
			return nil, fmt.Errorf("job %q: embedding column is not a blob", job.Name)
		}
		vec, err := vector.Decode(blob)
		if err != nil {
			return nil, fmt.Errorf("job %q: %w", job.Name, err)
		}

		row := EmbeddedRow{Vector: vec, Columns: make(map[string]any, len(colNames)-1)}
		for i := 1; i < len(colNames); i++ {
			v := values[i]
			// Normalize driver byte slices to strings for projection.
			if b, ok := v.([]byte); ok {
				v = string(b)
			}
			row.Columns[colNames[i]] = v
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("fetch embedded rows for job %q: %w", job.Name, err)
	}
	return out, nil
}

// FetchPendingRows returns source rows that have no stored embedding, or
// whose update column is newer than the stored embedding. Used by the
// refresh path the external scheduler triggers.
func (c *Client) FetchPendingRows(ctx context.Context, job *models.Job) ([]SourceRow, error) {
	embTable, err := qualify(job.Schema, EmbeddingsTableName(job.Name))
	if err != nil {
		return nil, err
	}
	srcTable, err := qualify(job.Schema, job.Table)
	if err != nil {
		return nil, err
	}
	pk, err := quoteIdent(job.PrimaryKey)
	if err != nil {
		return nil, err
	}
	cols := make([]string, 0, len(job.Columns))
	for _, col := range job.Columns {
		q, err := quoteIdent(col)
		if err != nil {
			return nil, err
		}
		cols = append(cols, "s."+q)
	}

	stale := "e.record_id IS NULL"
	if job.UpdateCol != "" {
		upd, err := quoteIdent(job.UpdateCol)
		if err != nil {
			return nil, err
		}
		stale += fmt.Sprintf(" OR s.%s > e.updated_at", upd)
	}

	query := fmt.Sprintf("SELECT s.%s, %s FROM %s s LEFT JOIN %s e ON e.record_id = s.%s WHERE %s ORDER BY s.%s;",
		pk, strings.Join(cols, ", "), srcTable, embTable, pk, stale, pk)

	rows, err := c.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("fetch pending rows for job %q: %w", job.Name, wrapSchemaError(err))
	}
	defer rows.Close()

	return scanSourceRows(rows, job.Columns)
}
