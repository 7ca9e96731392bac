package repository

import (
	"context"

	"github.com/willnockology/dayboard-hub-new-sub000/internal/fleet/entity"
	"gorm.io/gorm"
)

// CommentRepository comment repository
type CommentRepository struct {
	db *gorm.DB
}

// NewCommentRepository creates a comment repository
func NewCommentRepository(db *gorm.DB) *CommentRepository {
	return &CommentRepository{db: db}
}

// Create creates a comment
func (r *CommentRepository) Create(ctx context.Context, comment *entity.Comment) error {
	return r.db.WithContext(ctx).Create(comment).Error
}

// ListByParent comments of one record, oldest first
func (r *CommentRepository) ListByParent(ctx context.Context, parentID string) ([]entity.Comment, error) {
	var comments []entity.Comment
	err := r.db.WithContext(ctx).
		Where("parent_id = ?", parentID).
		Order("created_at ASC, id ASC").
		Find(&comments).Error
	return comments, err
}

// UpdateReadBy writes the read_by column of comment
func (r *CommentRepository) UpdateReadBy(ctx context.Context, comment *entity.Comment) error {
	return r.db.WithContext(ctx).
		Model(&entity.Comment{}).
		Where("id = ?", comment.ID).
		Update("read_by", comment.ReadBy).Error
}
