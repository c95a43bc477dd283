package creators

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/slobi-app/slobi-backend/pkg/db/models"
)

// Repository wires creator persistence over GORM.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// FindBySlug loads the creator behind a public page slug.
func (r *Repository) FindBySlug(ctx context.Context, slug string) (*models.Creator, error) {
	var creator models.Creator
	if err := r.db.WithContext(ctx).First(&creator, "slug = ?", slug).Error; err != nil {
		return nil, err
	}
	return &creator, nil
}

// FindByID loads the creator row.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Creator, error) {
	var creator models.Creator
	if err := r.db.WithContext(ctx).First(&creator, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &creator, nil
}
