package repository

import (
	"context"

	"github.com/willnockology/dayboard-hub-new-sub000/internal/fleet/entity"
	"gorm.io/gorm"
)

// FormRepository form definition repository
type FormRepository struct {
	db *gorm.DB
}

// NewFormRepository creates a form definition repository
func NewFormRepository(db *gorm.DB) *FormRepository {
	return &FormRepository{db: db}
}

// FindByID finds a definition by id
func (r *FormRepository) FindByID(ctx context.Context, id string) (*entity.FormDefinition, error) {
	var def entity.FormDefinition
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&def).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &def, nil
}

// List lists definitions, optionally filtered by category and subcategory
func (r *FormRepository) List(ctx context.Context, filters map[string]string) ([]entity.FormDefinition, error) {
	var defs []entity.FormDefinition
	query := r.db.WithContext(ctx).Model(&entity.FormDefinition{})
	if category := filters["category"]; category != "" {
		query = query.Where("category = ?", category)
	}
	if subcategory := filters["subcategory"]; subcategory != "" {
		query = query.Where("subcategory = ?", subcategory)
	}
	err := query.Order("category, subcategory, name").Find(&defs).Error
	return defs, err
}

// Create creates a definition
func (r *FormRepository) Create(ctx context.Context, def *entity.FormDefinition) error {
	return r.db.WithContext(ctx).Create(def).Error
}

// Update saves every column of def
func (r *FormRepository) Update(ctx context.Context, def *entity.FormDefinition) error {
	return r.db.WithContext(ctx).Save(def).Error
}

// Delete deletes a definition
func (r *FormRepository) Delete(ctx context.Context, id string) error {
	return deleted(r.db.WithContext(ctx).Where("id = ?", id).Delete(&entity.FormDefinition{}))
}

// DistinctCategories distinct category values
func (r *FormRepository) DistinctCategories(ctx context.Context) ([]string, error) {
	return r.distinct(ctx, "category", "", "")
}

// DistinctSubcategories distinct subcategories within category
func (r *FormRepository) DistinctSubcategories(ctx context.Context, category string) ([]string, error) {
	return r.distinct(ctx, "subcategory", "category = ?", category)
}

// DistinctNames distinct form names within subcategory
func (r *FormRepository) DistinctNames(ctx context.Context, subcategory string) ([]string, error) {
	return r.distinct(ctx, "name", "subcategory = ?", subcategory)
}

func (r *FormRepository) distinct(ctx context.Context, column, where string, arg interface{}) ([]string, error) {
	values := []string{}
	query := r.db.WithContext(ctx).Model(&entity.FormDefinition{})
	if where != "" {
		query = query.Where(where, arg)
	}
	err := query.Distinct(column).Order(column).Pluck(column, &values).Error
	return values, err
}
