package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/inkwell-cms/inkwell/internal/model"
)

type MetadataRepository interface {
	Create(ctx context.Context, metadata *model.Metadata) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Metadata, error)
	UpdateMenu(ctx context.Context, id uuid.UUID, menu []model.MenuItem) (int64, error)
}

type metadataRepository struct {
	db *gorm.DB
}

func NewMetadataRepository(db *gorm.DB) MetadataRepository {
	return &metadataRepository{db: db}
}

func (r *metadataRepository) Create(ctx context.Context, metadata *model.Metadata) error {
	return r.db.WithContext(ctx).Create(metadata).Error
}

func (r *metadataRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Metadata, error) {
	var metadata model.Metadata
	if err := r.db.WithContext(ctx).First(&metadata, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &metadata, nil
}

// UpdateMenu replaces the menu of an existing record and reports how many
// rows were touched so the caller can distinguish a missing record.
func (r *metadataRepository) UpdateMenu(ctx context.Context, id uuid.UUID, menu []model.MenuItem) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&model.Metadata{}).
		Where("id = ?", id).
		Update("menu", menu)
	return result.RowsAffected, result.Error
}
