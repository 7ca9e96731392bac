package repository

import (
	"context"

	"github.com/willnockology/dayboard-hub-new-sub000/internal/fleet/entity"
	"gorm.io/gorm"
)

// NCRRepository non-conformity report repository
type NCRRepository struct {
	db *gorm.DB
}

// NewNCRRepository creates an NCR repository
func NewNCRRepository(db *gorm.DB) *NCRRepository {
	return &NCRRepository{db: db}
}

// List lists NCRs, newest first
func (r *NCRRepository) List(ctx context.Context, filters map[string]string) ([]entity.NCR, error) {
	var ncrs []entity.NCR
	query := r.db.WithContext(ctx).Model(&entity.NCR{})
	if vesselID := filters["vessel_id"]; vesselID != "" {
		query = query.Where("vessel_id = ?", vesselID)
	}
	if status := filters["status"]; status != "" {
		query = query.Where("status = ?", status)
	}
	err := query.Order("created_at DESC").Find(&ncrs).Error
	return ncrs, err
}

// FindByID finds an NCR by id
func (r *NCRRepository) FindByID(ctx context.Context, id string) (*entity.NCR, error) {
	var ncr entity.NCR
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&ncr).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &ncr, nil
}

// Create creates an NCR
func (r *NCRRepository) Create(ctx context.Context, ncr *entity.NCR) error {
	return r.db.WithContext(ctx).Create(ncr).Error
}

// Update saves every column of ncr
func (r *NCRRepository) Update(ctx context.Context, ncr *entity.NCR) error {
	return r.db.WithContext(ctx).Save(ncr).Error
}

// Delete deletes an NCR
func (r *NCRRepository) Delete(ctx context.Context, id string) error {
	return deleted(r.db.WithContext(ctx).Where("id = ?", id).Delete(&entity.NCR{}))
}
