package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/willnockology/dayboard-hub-new-sub000/internal/fleet/entity"
	"github.com/willnockology/dayboard-hub-new-sub000/internal/fleet/repository"
)

// ValidationError missing or malformed input; Fields lists every violation
type ValidationError struct {
	Message string
	Fields  []string
	Err     error
}

func (e *ValidationError) Error() string {
	if len(e.Fields) > 0 {
		return e.Message + ": " + strings.Join(e.Fields, "; ")
	}
	return e.Message
}

func (e *ValidationError) Unwrap() error { return e.Err }

func validationError(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// NotFoundError referenced id does not resolve
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("no %s found", e.Entity)
	}
	return fmt.Sprintf("%s %s not found", e.Entity, e.ID)
}

// ArtifactGenerationError PDF rendering or storage failed
type ArtifactGenerationError struct {
	SubmissionID string
	Err          error
}

func (e *ArtifactGenerationError) Error() string {
	return fmt.Sprintf("generate pdf for submission %s: %v", e.SubmissionID, e.Err)
}

func (e *ArtifactGenerationError) Unwrap() error { return e.Err }

// UnknownFieldTypeError field_type outside entity.FieldTypes
type UnknownFieldTypeError struct {
	FieldName string
	FieldType entity.FieldType
}

func (e *UnknownFieldTypeError) Error() string {
	return fmt.Sprintf("field %q has unknown field_type %q", e.FieldName, e.FieldType)
}

// ErrUnauthorized bad credentials or revoked token
var ErrUnauthorized = errors.New("invalid credentials")

// lookupErr maps repository.ErrNotFound to a NotFoundError
func lookupErr(err error, entityName, id string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return &NotFoundError{Entity: entityName, ID: id}
	}
	return fmt.Errorf("load %s: %w", entityName, err)
}
