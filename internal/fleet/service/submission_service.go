package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/willnockology/dayboard-hub-new-sub000/internal/fleet/entity"
	"github.com/willnockology/dayboard-hub-new-sub000/internal/fleet/repository"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

// Submission outcomes
const (
	OutcomeRejected         = "rejected"
	OutcomeStoreFailed      = "store_failed"
	OutcomeArtifactFailed   = "artifact_failed"
	OutcomeCompleted        = "completed"
	OutcomeWorkItemSkipped  = "work_item_skipped"
	OutcomeArtifactRecovery = "regenerated"
)

var submissionOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "dayboard_form_submissions_total",
	Help: "Form submissions by outcome.",
}, []string{"outcome"})

// SubmitRequest form data payload
type SubmitRequest struct {
	DefinitionID string                 `json:"definition_id"`
	Values       map[string]interface{} `json:"values"`
	CompletedBy  string                 `json:"completed_by"`
	CompletedAt  time.Time              `json:"completed_at"`
	WorkItemID   string                 `json:"work_item_id"`
	Signature    string                 `json:"signature"`
}

// SubmissionResult outcome of each write of the submission flow
type SubmissionResult struct {
	Submission        *entity.FormSubmission `json:"submission"`
	Persisted         bool                   `json:"persisted"`
	ArtifactGenerated bool                   `json:"artifact_generated"`
	WorkItemUpdated   bool                   `json:"work_item_updated"`
	WorkItemErr       error                  `json:"-"`
}

// SubmissionService form submission service
type SubmissionService struct {
	repo      *repository.SubmissionRepository
	forms     *FormService
	workItems *WorkItemService
	pdf       *PDFGenerator
	logger    *zap.Logger
}

// NewSubmissionService creates a form submission service
func NewSubmissionService(repo *repository.SubmissionRepository, forms *FormService, workItems *WorkItemService, pdf *PDFGenerator, logger *zap.Logger) *SubmissionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SubmissionService{repo: repo, forms: forms, workItems: workItems, pdf: pdf, logger: logger}
}

// Submit validates, persists and renders a submission, then completes its
// work item. The three writes are independent: a failure after the first one
// leaves the submission persisted and is reported through the result.
func (s *SubmissionService) Submit(ctx context.Context, req *SubmitRequest, actor Author) (*SubmissionResult, error) {
	if req == nil || req.DefinitionID == "" || req.Values == nil ||
		strings.TrimSpace(req.CompletedBy) == "" || req.CompletedAt.IsZero() || req.WorkItemID == "" {
		submissionOutcomes.WithLabelValues(OutcomeRejected).Inc()
		return nil, validationError("All fields are required")
	}

	def, err := s.forms.Get(ctx, req.DefinitionID)
	if err != nil {
		submissionOutcomes.WithLabelValues(OutcomeRejected).Inc()
		return nil, err
	}

	values, err := s.bindValues(def, req.Values)
	if err != nil {
		submissionOutcomes.WithLabelValues(OutcomeRejected).Inc()
		return nil, err
	}

	sub := &entity.FormSubmission{
		ID:               entity.NewID(),
		FormDefinitionID: def.ID,
		WorkItemID:       req.WorkItemID,
		Fields:           datatypes.JSONMap(values),
		CompletedBy:      strings.TrimSpace(req.CompletedBy),
		CompletedAt:      req.CompletedAt.UTC(),
		Signature:        req.Signature,
		SubmittedBy:      actor.ID,
	}
	if err := s.repo.Create(ctx, sub); err != nil {
		submissionOutcomes.WithLabelValues(OutcomeStoreFailed).Inc()
		return nil, fmt.Errorf("create submission: %w", err)
	}
	result := &SubmissionResult{Submission: sub, Persisted: true}

	if err := s.attachArtifact(ctx, def, sub, actor.DisplayName()); err != nil {
		submissionOutcomes.WithLabelValues(OutcomeArtifactFailed).Inc()
		return result, err
	}
	result.ArtifactGenerated = true

	s.completeWorkItem(ctx, sub, result)
	if result.WorkItemUpdated {
		submissionOutcomes.WithLabelValues(OutcomeCompleted).Inc()
	} else {
		submissionOutcomes.WithLabelValues(OutcomeWorkItemSkipped).Inc()
	}
	return result, nil
}

// Get loads a submission
func (s *SubmissionService) Get(ctx context.Context, id string) (*entity.FormSubmission, error) {
	if !entity.IsValidID(id) {
		return nil, &NotFoundError{Entity: "form submission", ID: id}
	}
	sub, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupErr(err, "form submission", id)
	}
	return sub, nil
}

// ListByDefinition submissions of one definition
func (s *SubmissionService) ListByDefinition(ctx context.Context, definitionID string) ([]entity.FormSubmission, error) {
	if !entity.IsValidID(definitionID) {
		return nil, &NotFoundError{Entity: "form definition", ID: definitionID}
	}
	return s.repo.ListByDefinition(ctx, definitionID)
}

// Regenerate renders the PDF of a submission left without one by an earlier
// ArtifactGenerationError. Submissions that already carry a PDF are immutable.
func (s *SubmissionService) Regenerate(ctx context.Context, id string, actor Author) (*SubmissionResult, error) {
	sub, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if sub.Completed || sub.PDFPath != "" {
		return nil, validationError("submission %s already has a PDF", sub.ID)
	}
	def, err := s.forms.Get(ctx, sub.FormDefinitionID)
	var nf *NotFoundError
	if errors.As(err, &nf) {
		def = nil
	} else if err != nil {
		return nil, err
	}

	result := &SubmissionResult{Submission: sub, Persisted: true}
	if err := s.attachArtifact(ctx, def, sub, actor.DisplayName()); err != nil {
		submissionOutcomes.WithLabelValues(OutcomeArtifactFailed).Inc()
		return result, err
	}
	result.ArtifactGenerated = true
	submissionOutcomes.WithLabelValues(OutcomeArtifactRecovery).Inc()
	s.completeWorkItem(ctx, sub, result)
	return result, nil
}

func (s *SubmissionService) bindValues(def *entity.FormDefinition, raw map[string]interface{}) (map[string]interface{}, error) {
	form, err := Render(def)
	if err != nil {
		return nil, &ValidationError{Message: err.Error(), Err: err}
	}
	values, err := form.Bind(raw)
	if err != nil {
		return nil, err
	}
	if missing := Validate(def, values); len(missing) > 0 {
		return nil, &ValidationError{Message: "missing required fields", Fields: missing}
	}
	return values, nil
}

func (s *SubmissionService) attachArtifact(ctx context.Context, def *entity.FormDefinition, sub *entity.FormSubmission, actor string) error {
	pdfPath, err := s.pdf.Generate(ctx, def, sub, actor)
	if err != nil {
		s.logger.Error("pdf generation failed",
			zap.String("submission_id", sub.ID), zap.Error(err))
		return &ArtifactGenerationError{SubmissionID: sub.ID, Err: err}
	}
	if err := s.repo.AttachArtifact(ctx, sub.ID, pdfPath); err != nil {
		s.logger.Error("store pdf path failed",
			zap.String("submission_id", sub.ID), zap.Error(err))
		return &ArtifactGenerationError{SubmissionID: sub.ID, Err: err}
	}
	sub.PDFPath = pdfPath
	sub.Completed = true
	return nil
}

// completeWorkItem is the tolerated side effect: failures are logged and
// recorded on result, never returned.
func (s *SubmissionService) completeWorkItem(ctx context.Context, sub *entity.FormSubmission, result *SubmissionResult) {
	if sub.WorkItemID == "" {
		return
	}
	err := s.workItems.CompleteWithArtifact(ctx, sub.WorkItemID, sub.PDFPath, sub.CompletedBy, sub.CompletedAt)
	if err != nil {
		result.WorkItemErr = err
		s.logger.Warn("work item update skipped after submission",
			zap.String("submission_id", sub.ID),
			zap.String("work_item_id", sub.WorkItemID),
			zap.Error(err))
		return
	}
	result.WorkItemUpdated = true
}
