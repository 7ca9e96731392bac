package repository

import (
	"errors"

	"gorm.io/gorm"
)

var (
	ErrNotFound = errors.New("record not found")
)

// Repositories repository set
type Repositories struct {
	User       *UserRepository
	Vessel     *VesselRepository
	Form       *FormRepository
	Submission *SubmissionRepository
	WorkItem   *WorkItemRepository
	Comment    *CommentRepository
	NCR        *NCRRepository
}

// NewRepositories builds every repository on db
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		User:       NewUserRepository(db),
		Vessel:     NewVesselRepository(db),
		Form:       NewFormRepository(db),
		Submission: NewSubmissionRepository(db),
		WorkItem:   NewWorkItemRepository(db),
		Comment:    NewCommentRepository(db),
		NCR:        NewNCRRepository(db),
	}
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

func deleted(tx *gorm.DB) error {
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
