package repository

import (
	"context"

	"github.com/willnockology/dayboard-hub-new-sub000/internal/fleet/entity"
	"gorm.io/gorm"
)

// WorkItemRepository work item repository
type WorkItemRepository struct {
	db *gorm.DB
}

// NewWorkItemRepository creates a work item repository
func NewWorkItemRepository(db *gorm.DB) *WorkItemRepository {
	return &WorkItemRepository{db: db}
}

// WorkItemFilter list filter; zero values are ignored
type WorkItemFilter struct {
	VesselID    string
	Category    string
	Subcategory string
	Completed   *bool
}

// List lists work items matching filter
func (r *WorkItemRepository) List(ctx context.Context, filter WorkItemFilter) ([]entity.WorkItem, error) {
	var items []entity.WorkItem
	query := r.db.WithContext(ctx).Model(&entity.WorkItem{})
	if filter.VesselID != "" {
		query = query.Where("vessel_id = ?", filter.VesselID)
	}
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.Subcategory != "" {
		query = query.Where("subcategory = ?", filter.Subcategory)
	}
	if filter.Completed != nil {
		query = query.Where("completed = ?", *filter.Completed)
	}
	err := query.Order("created_at").Find(&items).Error
	return items, err
}

// FindByID finds a work item by id
func (r *WorkItemRepository) FindByID(ctx context.Context, id string) (*entity.WorkItem, error) {
	var item entity.WorkItem
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&item).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &item, nil
}

// Create creates a work item
func (r *WorkItemRepository) Create(ctx context.Context, item *entity.WorkItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

// Update saves every column of item
func (r *WorkItemRepository) Update(ctx context.Context, item *entity.WorkItem) error {
	return r.db.WithContext(ctx).Save(item).Error
}

// Delete deletes a work item; attachment blobs are left in place
func (r *WorkItemRepository) Delete(ctx context.Context, id string) error {
	return deleted(r.db.WithContext(ctx).Where("id = ?", id).Delete(&entity.WorkItem{}))
}
