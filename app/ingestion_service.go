package app

import (
	"context"
	"log"

	"warehouse/adapters/tabular"
	"warehouse/domain/core"
	"warehouse/domain/dataset"
	"warehouse/domain/table"
	"warehouse/internal/cache"
	"warehouse/internal/sample"
	"warehouse/ports"
)

// IngestionService owns the upload and sample-generation flow: parse,
// derive metadata, persist it through the metadata store collaborator,
// and register the table for downstream analytics.
type IngestionService struct {
	parser     *tabular.Parser
	repository ports.DatasetRepository
	tables     *TableStore
	results    *cache.ResultCache
	sampleRows int
}

// NewIngestionService wires the ingestion flow
func NewIngestionService(
	parser *tabular.Parser,
	repository ports.DatasetRepository,
	tables *TableStore,
	results *cache.ResultCache,
	sampleRows int,
) *IngestionService {
	return &IngestionService{
		parser:     parser,
		repository: repository,
		tables:     tables,
		results:    results,
		sampleRows: sampleRows,
	}
}

// Upload ingests a raw payload. The metadata record is created first and
// its status advances uploaded -> processing -> ready, or error when the
// parser rejects the payload. Parse errors surface to the caller
// unchanged after the status is recorded.
func (s *IngestionService) Upload(ctx context.Context, filename, declaredFormat string, raw []byte) (*dataset.Metadata, error) {
	format, err := tabular.ParseFormat(declaredFormat)
	if err != nil {
		// Fall back to the file extension before rejecting
		format, err = tabular.FormatFromFilename(filename)
		if err != nil {
			return nil, err
		}
	}

	meta := &dataset.Metadata{
		ID:        core.NewDatasetID(),
		Filename:  filename,
		SizeMB:    dataset.SizeInMB(int64(len(raw))),
		Status:    dataset.StatusUploaded,
		CreatedAt: core.Now(),
	}
	if err := s.repository.Create(ctx, meta); err != nil {
		return nil, err
	}

	meta.MarkProcessing()
	if err := s.repository.UpdateStatus(ctx, meta.ID, meta.Status, ""); err != nil {
		return nil, err
	}

	t, parseErr := s.parser.Parse(raw, format)
	if parseErr != nil {
		meta.MarkError(parseErr.Error())
		if err := s.repository.UpdateStatus(ctx, meta.ID, meta.Status, meta.ErrorMessage); err != nil {
			log.Printf("[Ingestion] Failed to record error status for %s: %v", meta.ID, err)
		}
		return nil, parseErr
	}

	derived := dataset.Extract(t, filename, int64(len(raw)))
	meta.RowCount = derived.RowCount
	meta.ColumnCount = derived.ColumnCount
	meta.ColumnTypes = derived.ColumnTypes
	meta.MarkReady()
	if err := s.repository.Update(ctx, meta); err != nil {
		return nil, err
	}

	s.tables.Put(meta.ID, t)
	log.Printf("[Ingestion] Dataset %s ready: %d rows, %d columns", meta.ID, meta.RowCount, meta.ColumnCount)
	return meta, nil
}

// GenerateSample creates a synthetic dataset from a filename hint. The
// table goes through the same metadata flow as a real upload.
func (s *IngestionService) GenerateSample(ctx context.Context, filenameHint string, rowCount int) (*dataset.Metadata, error) {
	config := sample.DefaultConfig()
	config.RowCount = s.sampleRows
	if rowCount > 0 {
		config.RowCount = rowCount
	}

	t, err := sample.NewGenerator(config).Generate(filenameHint)
	if err != nil {
		return nil, err
	}

	meta := dataset.Extract(t, filenameHint, 0)
	meta.MarkReady()
	if err := s.repository.Create(ctx, meta); err != nil {
		return nil, err
	}

	s.tables.Put(meta.ID, t)
	log.Printf("[Ingestion] Sample dataset %s generated from hint %q (%d rows)", meta.ID, filenameHint, meta.RowCount)
	return meta, nil
}

// List returns all dataset metadata records
func (s *IngestionService) List(ctx context.Context) ([]*dataset.Metadata, error) {
	return s.repository.List(ctx)
}

// Get returns one dataset metadata record
func (s *IngestionService) Get(ctx context.Context, id core.DatasetID) (*dataset.Metadata, error) {
	return s.repository.GetByID(ctx, id)
}

// Delete removes a dataset's metadata, its in-memory table, and every
// cached result derived from it
func (s *IngestionService) Delete(ctx context.Context, id core.DatasetID) error {
	if err := s.repository.Delete(ctx, id); err != nil {
		return err
	}
	s.tables.Delete(id)
	s.results.InvalidatePrefix(core.DatasetPrefix(id))
	return nil
}

// maxPreviewRows bounds the preview endpoint, matching the store's
// row-fetch limit
const maxPreviewRows = 1000

// Preview returns up to limit rows of a dataset as ordered cell maps
func (s *IngestionService) Preview(ctx context.Context, id core.DatasetID, limit int) ([]map[string]interface{}, error) {
	if limit <= 0 || limit > maxPreviewRows {
		limit = maxPreviewRows
	}

	t, ok := s.tables.Get(id)
	if !ok {
		return nil, core.NewNotFoundError("table for dataset", id.String())
	}

	if limit > t.RowCount() {
		limit = t.RowCount()
	}
	rows := make([]map[string]interface{}, limit)
	names := t.ColumnNames()
	for i := 0; i < limit; i++ {
		row := make(map[string]interface{}, len(names))
		for j, v := range t.Row(i) {
			row[names[j]] = previewCell(v)
		}
		rows[i] = row
	}
	return rows, nil
}

func previewCell(v table.Value) interface{} {
	if v.IsMissing {
		return nil
	}
	switch v.Type {
	case table.TypeNumeric:
		f, _ := v.Float()
		return f
	case table.TypeBoolean:
		b, _ := v.Bool()
		return b
	default:
		return v.String()
	}
}
