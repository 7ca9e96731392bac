package repository

import (
	"context"

	"github.com/willnockology/dayboard-hub-new-sub000/internal/fleet/entity"
	"gorm.io/gorm"
)

// VesselRepository vessel repository
type VesselRepository struct {
	db *gorm.DB
}

// NewVesselRepository creates a vessel repository
func NewVesselRepository(db *gorm.DB) *VesselRepository {
	return &VesselRepository{db: db}
}

// List lists all vessels by name
func (r *VesselRepository) List(ctx context.Context) ([]entity.Vessel, error) {
	var vessels []entity.Vessel
	err := r.db.WithContext(ctx).Order("name").Find(&vessels).Error
	return vessels, err
}

// FindByID finds a vessel by id
func (r *VesselRepository) FindByID(ctx context.Context, id string) (*entity.Vessel, error) {
	var vessel entity.Vessel
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&vessel).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &vessel, nil
}

// Create creates a vessel
func (r *VesselRepository) Create(ctx context.Context, vessel *entity.Vessel) error {
	return r.db.WithContext(ctx).Create(vessel).Error
}

// Update saves every column of vessel
func (r *VesselRepository) Update(ctx context.Context, vessel *entity.Vessel) error {
	return r.db.WithContext(ctx).Save(vessel).Error
}

// Delete deletes a vessel
func (r *VesselRepository) Delete(ctx context.Context, id string) error {
	return deleted(r.db.WithContext(ctx).Where("id = ?", id).Delete(&entity.Vessel{}))
}
