package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/willnockology/dayboard-hub-new-sub000/internal/fleet/entity"
	"gorm.io/gorm"
)

// SubmissionRepository form submission repository
type SubmissionRepository struct {
	db *gorm.DB
}

// NewSubmissionRepository creates a form submission repository
func NewSubmissionRepository(db *gorm.DB) *SubmissionRepository {
	return &SubmissionRepository{db: db}
}

// Create creates a submission
func (r *SubmissionRepository) Create(ctx context.Context, sub *entity.FormSubmission) error {
	return r.db.WithContext(ctx).Create(sub).Error
}

// FindByID finds a submission by id
func (r *SubmissionRepository) FindByID(ctx context.Context, id string) (*entity.FormSubmission, error) {
	var sub entity.FormSubmission
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&sub).Error
	if err != nil {
		return nil, notFound(err)
	}
	restoreNumbers(sub.Fields)
	return &sub, nil
}

// ListByDefinition submissions of one definition, newest first
func (r *SubmissionRepository) ListByDefinition(ctx context.Context, definitionID string) ([]entity.FormSubmission, error) {
	var subs []entity.FormSubmission
	err := r.db.WithContext(ctx).
		Where("form_definition_id = ?", definitionID).
		Order("completed_at DESC").
		Find(&subs).Error
	for i := range subs {
		restoreNumbers(subs[i].Fields)
	}
	return subs, err
}

// AttachArtifact is the only mutation allowed after creation
func (r *SubmissionRepository) AttachArtifact(ctx context.Context, id, pdfPath string) error {
	tx := r.db.WithContext(ctx).
		Model(&entity.FormSubmission{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"pdf_path":   pdfPath,
			"completed":  true,
			"updated_at": time.Now(),
		})
	return deleted(tx)
}

// restoreNumbers turns the json.Number values produced by JSONMap.Scan back
// into float64 so stored values read back as they were submitted.
func restoreNumbers(m map[string]interface{}) {
	for k, v := range m {
		m[k] = restoreNumber(v)
	}
}

func restoreNumber(v interface{}) interface{} {
	switch t := v.(type) {
	case json.Number:
		if f, err := t.Float64(); err == nil {
			return f
		}
		return t.String()
	case map[string]interface{}:
		restoreNumbers(t)
	case []interface{}:
		for i := range t {
			t[i] = restoreNumber(t[i])
		}
	}
	return v
}
