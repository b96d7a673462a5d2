package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/raphaelgruber/tablerag/internal/models"
)

// SaveJob persists a job record with create-or-update semantics keyed on
// the job name: re-registering an existing name replaces its binding in
// place while keeping the original id and creation time.
func (c *Client) SaveJob(ctx context.Context, job *models.Job) error {
	if err := job.Validate(); err != nil {
		return err
	}

	columns, err := json.Marshal(job.Columns)
	if err != nil {
		return fmt.Errorf("encode job columns: %w", err)
	}

	now := time.Now().UTC()
	if job.ID == "" {
		job.ID = uuid.NewString()
	}
	if job.CreatedAt.IsZero() {
		job.CreatedAt = now
	}
	job.UpdatedAt = now

	const query = `
	INSERT INTO tablerag_jobs
		(id, name, schema_name, table_name, columns, primary_key, update_col,
		 index_dist, model, table_method, schedule, created_at, updated_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(name) DO UPDATE SET
		schema_name = excluded.schema_name,
		table_name = excluded.table_name,
		columns = excluded.columns,
		primary_key = excluded.primary_key,
		update_col = excluded.update_col,
		index_dist = excluded.index_dist,
		model = excluded.model,
		table_method = excluded.table_method,
		schedule = excluded.schedule,
		updated_at = excluded.updated_at;`

	_, err = c.db.ExecContext(ctx, query,
		job.ID, job.Name, job.Schema, job.Table, string(columns), job.PrimaryKey,
		job.UpdateCol, string(job.IndexDist), job.Model.String(), string(job.TableMethod),
		job.Schedule, job.CreatedAt, job.UpdatedAt)
	if err != nil {
		return fmt.Errorf("save job %q: %w", job.Name, wrapSchemaError(err))
	}

	c.log.Info("saved job", "job", job.Name, "table", job.Table, "model", job.Model.String())
	return nil
}

// GetJob resolves a job name to its registered record.
func (c *Client) GetJob(ctx context.Context, name string) (*models.Job, error) {
	const query = `
	SELECT id, name, schema_name, table_name, columns, primary_key, update_col,
	       index_dist, model, table_method, schedule, created_at, updated_at
	FROM tablerag_jobs WHERE name = ?;`

	job, err := scanJob(c.db.QueryRowContext(ctx, query, name))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %q", ErrJobNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("get job %q: %w", name, err)
	}
	return job, nil
}

// ListJobs returns every registered job, oldest first.
func (c *Client) ListJobs(ctx context.Context) ([]*models.Job, error) {
	const query = `
	SELECT id, name, schema_name, table_name, columns, primary_key, update_col,
	       index_dist, model, table_method, schedule, created_at, updated_at
	FROM tablerag_jobs ORDER BY created_at;`

	rows, err := c.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	defer rows.Close()

	var jobs []*models.Job
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("list jobs: %w", err)
		}
		jobs = append(jobs, job)
	}
	return jobs, rows.Err()
}

// DeleteJob removes a job record and its embeddings table.
func (c *Client) DeleteJob(ctx context.Context, name string) error {
	job, err := c.GetJob(ctx, name)
	if err != nil {
		return err
	}
	if err := c.DropTable(ctx, job.Schema, EmbeddingsTableName(job.Name)); err != nil {
		return err
	}
	if err := c.DeleteJobRecord(ctx, name); err != nil {
		return err
	}
	c.log.Info("deleted job", "job", name)
	return nil
}

// DeleteJobRecord removes only the registry row, leaving any embeddings
// table alone. Used to roll back a registration that failed partway.
func (c *Client) DeleteJobRecord(ctx context.Context, name string) error {
	if _, err := c.db.ExecContext(ctx, "DELETE FROM tablerag_jobs WHERE name = ?;", name); err != nil {
		return fmt.Errorf("delete job record %q: %w", name, err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanJob(row rowScanner) (*models.Job, error) {
	var (
		job         models.Job
		columnsJSON string
		updateCol   sql.NullString
		modelID     string
		indexDist   string
		tableMethod string
	)
	err := row.Scan(&job.ID, &job.Name, &job.Schema, &job.Table, &columnsJSON,
		&job.PrimaryKey, &updateCol, &indexDist, &modelID, &tableMethod,
		&job.Schedule, &job.CreatedAt, &job.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(columnsJSON), &job.Columns); err != nil {
		return nil, fmt.Errorf("decode job columns: %w", err)
	}
	if updateCol.Valid {
		job.UpdateCol = updateCol.String
	}
	if job.Model, err = models.ParseModel(modelID); err != nil {
		return nil, err
	}
	if job.IndexDist, err = models.ParseIndexDist(indexDist); err != nil {
		return nil, err
	}
	if job.TableMethod, err = models.ParseTableMethod(tableMethod); err != nil {
		return nil, err
	}
	return &job, nil
}
