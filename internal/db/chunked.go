package db

import (
	"context"
	"database/sql"
	"fmt"
)

// SourceRow is one fetched row from a source table: its primary key
// value plus the non-null text values of the requested columns, keyed by
// column name.
type SourceRow struct {
	PK   any
	Text map[string]string
}

// ChunkRow is one row destined for a chunked table.
type ChunkRow struct {
	OriginalID any
	Chunk      string
}

// PrimaryKeyColumn resolves a table's declared primary key column via
// table_info. Tables without a declared primary key fall back to the
// implicit rowid; composite keys are rejected because original_id holds
// a single value.
func (c *Client) PrimaryKeyColumn(ctx context.Context, schema, table string) (string, error) {
	qs, err := quoteIdent(schema)
	if err != nil {
		return "", err
	}
	qt, err := quoteIdent(table)
	if err != nil {
		return "", err
	}

	rows, err := c.db.QueryContext(ctx, fmt.Sprintf("PRAGMA %s.table_info(%s);", qs, qt))
	if err != nil {
		return "", fmt.Errorf("table info for %s.%s: %w", schema, table, wrapSchemaError(err))
	}
	defer rows.Close()

	var pkCols []string
	for rows.Next() {
		var (
			cid     int
			name    string
			colType string
			notNull int
			dflt    sql.NullString
			pk      int
		)
		if err := rows.Scan(&cid, &name, &colType, &notNull, &dflt, &pk); err != nil {
			return "", fmt.Errorf("table info for %s.%s: %w", schema, table, err)
		}
		if pk > 0 {
			pkCols = append(pkCols, name)
		}
	}
	if err := rows.Err(); err != nil {
		return "", fmt.Errorf("table info for %s.%s: %w", schema, table, err)
	}

	switch len(pkCols) {
	case 0:
		return "rowid", nil
	case 1:
		return pkCols[0], nil
	}
	return "", fmt.Errorf("%w: table %s.%s has a composite primary key", ErrSchema, schema, table)
}

// CreateChunkedTable creates a derived chunk table with the fixed layout
// (id surrogate key, original_id source reference, chunk text). Fails
// with ErrTableExists if the table is already present.
func (c *Client) CreateChunkedTable(ctx context.Context, schema, name string) error {
	target, err := qualify(schema, name)
	if err != nil {
		return err
	}

	query := fmt.Sprintf(`CREATE TABLE %s (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		original_id NOT NULL,
		chunk TEXT NOT NULL
	);`, target)

	if _, err := c.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("create chunked table %s: %w", target, wrapSchemaError(err))
	}
	c.log.Info("created chunked table", "schema", schema, "table", name)
	return nil
}

// DropTable removes a table. Used to roll back a failed provisioning run
// and by the external drop path.
func (c *Client) DropTable(ctx context.Context, schema, name string) error {
	target, err := qualify(schema, name)
	if err != nil {
		return err
	}
	if _, err := c.db.ExecContext(ctx, "DROP TABLE IF EXISTS "+target); err != nil {
		return fmt.Errorf("drop table %s: %w", target, wrapSchemaError(err))
	}
	return nil
}

// InsertChunk appends one row to a chunked table, preserving the source
// row's identity in original_id.
func (c *Client) InsertChunk(ctx context.Context, schema, name string, row ChunkRow) error {
	target, err := qualify(schema, name)
	if err != nil {
		return err
	}
	query := fmt.Sprintf("INSERT INTO %s (original_id, chunk) VALUES (?, ?);", target)
	if _, err := c.db.ExecContext(ctx, query, row.OriginalID, row.Chunk); err != nil {
		return fmt.Errorf("insert chunk into %s: %w", target, wrapSchemaError(err))
	}
	return nil
}

// InsertChunks appends rows to a chunked table in a single transaction,
// preserving their order. Either every row lands or none do.
func (c *Client) InsertChunks(ctx context.Context, schema, name string, rows []ChunkRow) error {
	target, err := qualify(schema, name)
	if err != nil {
		return err
	}

	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin chunk insert: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf("INSERT INTO %s (original_id, chunk) VALUES (?, ?);", target))
	if err != nil {
		return fmt.Errorf("prepare chunk insert: %w", wrapSchemaError(err))
	}
	defer stmt.Close()

	for _, row := range rows {
		if _, err := stmt.ExecContext(ctx, row.OriginalID, row.Chunk); err != nil {
			return fmt.Errorf("insert chunk into %s: %w", target, wrapSchemaError(err))
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit chunk insert: %w", err)
	}
	c.log.Info("inserted chunks", "schema", schema, "table", name, "rows", len(rows))
	return nil
}

// FetchRows reads the primary key and the requested text columns of
// every row in a source table, ordered by primary key. Null column
// values are omitted from the row's text map.
func (c *Client) FetchRows(ctx context.Context, schema, table, primaryKey string, columns []string) ([]SourceRow, error) {
	source, err := qualify(schema, table)
	if err != nil {
		return nil, err
	}
	pk, err := quoteIdent(primaryKey)
	if err != nil {
		return nil, err
	}
	cols, err := quoteIdents(columns)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf("SELECT %s, %s FROM %s ORDER BY %s;", pk, cols, source, pk)
	rows, err := c.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("fetch rows from %s: %w", source, wrapSchemaError(err))
	}
	defer rows.Close()

	return scanSourceRows(rows, columns)
}

// scanSourceRows reads (pk, col...) result rows into SourceRow values,
// dropping null column values.
func scanSourceRows(rows *sql.Rows, columns []string) ([]SourceRow, error) {
	var out []SourceRow
	for rows.Next() {
		var pkVal any
		texts := make([]sql.NullString, len(columns))
		dest := make([]any, 0, len(columns)+1)
		dest = append(dest, &pkVal)
		for i := range texts {
			dest = append(dest, &texts[i])
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan source row: %w", err)
		}

		row := SourceRow{PK: pkVal, Text: make(map[string]string, len(columns))}
		for i, col := range columns {
			if texts[i].Valid {
				row.Text[col] = texts[i].String
			}
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("scan source rows: %w", err)
	}
	return out, nil
}
