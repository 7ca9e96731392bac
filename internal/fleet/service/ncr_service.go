package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/willnockology/dayboard-hub-new-sub000/internal/fleet/entity"
	"github.com/willnockology/dayboard-hub-new-sub000/internal/fleet/repository"
	"github.com/willnockology/dayboard-hub-new-sub000/internal/fleet/sse"
	"go.uber.org/zap"
)

// NCRRequest create/update payload
type NCRRequest struct {
	VesselID         string `json:"vessel_id"`
	Title            string `json:"title"`
	Description      string `json:"description"`
	CorrectiveAction string `json:"corrective_action"`
}

// NCRService non-conformity reports
type NCRService struct {
	repo   *repository.NCRRepository
	hub    *sse.Hub
	logger *zap.Logger
}

// NewNCRService creates an NCR service; hub may be nil
func NewNCRService(repo *repository.NCRRepository, hub *sse.Hub, logger *zap.Logger) *NCRService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NCRService{repo: repo, hub: hub, logger: logger}
}

// List lists NCRs filtered by vessel_id and status
func (s *NCRService) List(ctx context.Context, vesselID, status string) ([]entity.NCR, error) {
	return s.repo.List(ctx, map[string]string{"vessel_id": vesselID, "status": status})
}

// Get loads an NCR
func (s *NCRService) Get(ctx context.Context, id string) (*entity.NCR, error) {
	if !entity.IsValidID(id) {
		return nil, &NotFoundError{Entity: "NCR", ID: id}
	}
	ncr, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupErr(err, "NCR", id)
	}
	return ncr, nil
}

// Create raises an NCR; supplying a corrective action moves it straight to
// Pending-Sign-Off.
func (s *NCRService) Create(ctx context.Context, req *NCRRequest, raisedBy string) (*entity.NCR, error) {
	if req == nil || strings.TrimSpace(req.Title) == "" {
		return nil, validationError("title is required")
	}
	ncr := &entity.NCR{
		ID:          entity.NewID(),
		VesselID:    req.VesselID,
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		RaisedBy:    raisedBy,
		Status:      entity.NCRStatusOpen,
	}
	if action := strings.TrimSpace(req.CorrectiveAction); action != "" {
		if err := s.transition(ncr, entity.NCREventCorrectiveActionEntered); err != nil {
			return nil, err
		}
		ncr.CorrectiveAction = action
	}
	if err := s.repo.Create(ctx, ncr); err != nil {
		return nil, fmt.Errorf("create ncr: %w", err)
	}
	return ncr, nil
}

// Update edits an NCR. A changed corrective action fires corrective_action_entered.
func (s *NCRService) Update(ctx context.Context, id string, req *NCRRequest) (*entity.NCR, error) {
	if req == nil || strings.TrimSpace(req.Title) == "" {
		return nil, validationError("title is required")
	}
	ncr, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	action := strings.TrimSpace(req.CorrectiveAction)
	if action != "" && action != ncr.CorrectiveAction {
		if err := s.transition(ncr, entity.NCREventCorrectiveActionEntered); err != nil {
			return nil, err
		}
	}
	ncr.VesselID = req.VesselID
	ncr.Title = strings.TrimSpace(req.Title)
	ncr.Description = req.Description
	ncr.CorrectiveAction = action
	if err := s.repo.Update(ctx, ncr); err != nil {
		return nil, fmt.Errorf("update ncr: %w", err)
	}
	s.hub.PublishNCRUpdate(ncr.ID, string(ncr.Status))
	return ncr, nil
}

// Close signs off an NCR in Pending-Sign-Off
func (s *NCRService) Close(ctx context.Context, id, closedBy string) (*entity.NCR, error) {
	ncr, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.transition(ncr, entity.NCREventClose); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	ncr.ClosedBy = closedBy
	ncr.ClosedAt = &now
	if err := s.repo.Update(ctx, ncr); err != nil {
		return nil, fmt.Errorf("close ncr: %w", err)
	}
	s.hub.PublishNCRUpdate(ncr.ID, string(ncr.Status))
	return ncr, nil
}

// Reopen returns a closed NCR to Open
func (s *NCRService) Reopen(ctx context.Context, id string) (*entity.NCR, error) {
	ncr, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.transition(ncr, entity.NCREventReopen); err != nil {
		return nil, err
	}
	ncr.ClosedBy = ""
	ncr.ClosedAt = nil
	if err := s.repo.Update(ctx, ncr); err != nil {
		return nil, fmt.Errorf("reopen ncr: %w", err)
	}
	s.hub.PublishNCRUpdate(ncr.ID, string(ncr.Status))
	return ncr, nil
}

// Delete removes an NCR
func (s *NCRService) Delete(ctx context.Context, id string) error {
	if !entity.IsValidID(id) {
		return &NotFoundError{Entity: "NCR", ID: id}
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return lookupErr(err, "NCR", id)
	}
	return nil
}

func (s *NCRService) transition(ncr *entity.NCR, event entity.NCREvent) error {
	next, err := ncr.Status.Next(event)
	if err != nil {
		var invalid *entity.ErrInvalidTransition
		if errors.As(err, &invalid) {
			return &ValidationError{Message: err.Error(), Err: err}
		}
		return err
	}
	ncr.Status = next
	return nil
}
