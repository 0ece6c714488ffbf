package ports

import (
	"context"

	"warehouse/domain/core"
	"warehouse/domain/dataset"
)

// DatasetRepository is the metadata store collaborator. The engine calls
// it as a black box; retry and backoff policy belong to implementations,
// never to the core. Failures surface as core.ErrStorageUnavailable.
type DatasetRepository interface {
	Create(ctx context.Context, meta *dataset.Metadata) error
	List(ctx context.Context) ([]*dataset.Metadata, error)
	GetByID(ctx context.Context, id core.DatasetID) (*dataset.Metadata, error)
	Update(ctx context.Context, meta *dataset.Metadata) error
	UpdateStatus(ctx context.Context, id core.DatasetID, status dataset.Status, errorMsg string) error
	Delete(ctx context.Context, id core.DatasetID) error
}
