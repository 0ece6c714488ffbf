package postgres

import (
	"context"
	"database/sql"
	"encoding/json"

	"warehouse/domain/core"
	"warehouse/domain/dataset"
	"warehouse/domain/table"
	"warehouse/ports"

	"github.com/jmoiron/sqlx"
)

// datasetRepository implements the DatasetRepository interface
type datasetRepository struct {
	db *sqlx.DB
}

// NewDatasetRepository creates a new dataset metadata repository
func NewDatasetRepository(db *sqlx.DB) ports.DatasetRepository {
	return &datasetRepository{db: db}
}

// Create inserts a new metadata record
func (r *datasetRepository) Create(ctx context.Context, meta *dataset.Metadata) error {
	typesJSON, err := json.Marshal(meta.ColumnTypes)
	if err != nil {
		return core.NewStorageError("create", err)
	}

	query := `INSERT INTO datasets (
		id, filename, row_count, column_count, size_mb, column_types,
		status, error_message, created_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err = r.db.ExecContext(ctx, query,
		meta.ID, meta.Filename, meta.RowCount, meta.ColumnCount, meta.SizeMB,
		typesJSON, meta.Status, meta.ErrorMessage, meta.CreatedAt,
	)
	if err != nil {
		return core.NewStorageError("create", err)
	}
	return nil
}

// List returns all metadata records, newest first
func (r *datasetRepository) List(ctx context.Context) ([]*dataset.Metadata, error) {
	query := selectColumns + ` FROM datasets ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, core.NewStorageError("list", err)
	}
	defer rows.Close()

	var result []*dataset.Metadata
	for rows.Next() {
		meta, err := scanMetadata(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, meta)
	}
	if err := rows.Err(); err != nil {
		return nil, core.NewStorageError("list", err)
	}
	return result, nil
}

// GetByID retrieves one metadata record
func (r *datasetRepository) GetByID(ctx context.Context, id core.DatasetID) (*dataset.Metadata, error) {
	query := selectColumns + ` FROM datasets WHERE id = $1`

	row := r.db.QueryRowContext(ctx, query, id)
	meta, err := scanMetadata(row)
	if err == sql.ErrNoRows {
		return nil, core.NewNotFoundError("dataset", id.String())
	}
	if err != nil {
		return nil, err
	}
	return meta, nil
}

// Update replaces a metadata record
func (r *datasetRepository) Update(ctx context.Context, meta *dataset.Metadata) error {
	typesJSON, err := json.Marshal(meta.ColumnTypes)
	if err != nil {
		return core.NewStorageError("update", err)
	}

	query := `UPDATE datasets SET
		filename = $2, row_count = $3, column_count = $4, size_mb = $5,
		column_types = $6, status = $7, error_message = $8
	WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query,
		meta.ID, meta.Filename, meta.RowCount, meta.ColumnCount, meta.SizeMB,
		typesJSON, meta.Status, meta.ErrorMessage,
	)
	if err != nil {
		return core.NewStorageError("update", err)
	}
	return requireAffected(res, meta.ID)
}

// UpdateStatus advances the lifecycle state of a dataset
func (r *datasetRepository) UpdateStatus(ctx context.Context, id core.DatasetID, status dataset.Status, errorMsg string) error {
	query := `UPDATE datasets SET status = $2, error_message = $3 WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query, id, status, errorMsg)
	if err != nil {
		return core.NewStorageError("update status", err)
	}
	return requireAffected(res, id)
}

// Delete removes a metadata record
func (r *datasetRepository) Delete(ctx context.Context, id core.DatasetID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM datasets WHERE id = $1`, id)
	if err != nil {
		return core.NewStorageError("delete", err)
	}
	return requireAffected(res, id)
}

const selectColumns = `SELECT
	id, filename, row_count, column_count, size_mb, column_types,
	status, COALESCE(error_message, '') AS error_message, created_at`

// rowScanner covers both *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanMetadata(row rowScanner) (*dataset.Metadata, error) {
	var meta dataset.Metadata
	var typesJSON []byte

	err := row.Scan(
		&meta.ID, &meta.Filename, &meta.RowCount, &meta.ColumnCount, &meta.SizeMB,
		&typesJSON, &meta.Status, &meta.ErrorMessage, &meta.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, core.NewStorageError("scan", err)
	}

	if len(typesJSON) > 0 {
		meta.ColumnTypes = make(map[string]table.Type)
		if err := json.Unmarshal(typesJSON, &meta.ColumnTypes); err != nil {
			return nil, core.NewStorageError("decode column types", err)
		}
	}
	return &meta, nil
}

func requireAffected(res sql.Result, id core.DatasetID) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return core.NewStorageError("rows affected", err)
	}
	if affected == 0 {
		return core.NewNotFoundError("dataset", id.String())
	}
	return nil
}
