package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/willnockology/dayboard-hub-new-sub000/internal/fleet/entity"
	"github.com/willnockology/dayboard-hub-new-sub000/internal/fleet/repository"
)

// VesselRequest create/update payload
type VesselRequest struct {
	Name             string  `json:"name"`
	IMONumber        string  `json:"imo_number"`
	VesselType       string  `json:"vessel_type"`
	Flag             string  `json:"flag"`
	RegistrationType string  `json:"registration_type"`
	GrossTonnage     float64 `json:"gross_tonnage"`
	Length           float64 `json:"length"`
}

// VesselService vessel registry
type VesselService struct {
	repo *repository.VesselRepository
}

// NewVesselService creates a vessel service
func NewVesselService(repo *repository.VesselRepository) *VesselService {
	return &VesselService{repo: repo}
}

// List lists all vessels
func (s *VesselService) List(ctx context.Context) ([]entity.Vessel, error) {
	return s.repo.List(ctx)
}

// Get loads a vessel
func (s *VesselService) Get(ctx context.Context, id string) (*entity.Vessel, error) {
	if !entity.IsValidID(id) {
		return nil, &NotFoundError{Entity: "vessel", ID: id}
	}
	vessel, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupErr(err, "vessel", id)
	}
	return vessel, nil
}

// Create registers a vessel
func (s *VesselService) Create(ctx context.Context, req *VesselRequest) (*entity.Vessel, error) {
	vessel := &entity.Vessel{ID: entity.NewID()}
	if err := applyVesselRequest(vessel, req); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, vessel); err != nil {
		return nil, fmt.Errorf("create vessel: %w", err)
	}
	return vessel, nil
}

// Update replaces a vessel's attributes
func (s *VesselService) Update(ctx context.Context, id string, req *VesselRequest) (*entity.Vessel, error) {
	vessel, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := applyVesselRequest(vessel, req); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, vessel); err != nil {
		return nil, fmt.Errorf("update vessel: %w", err)
	}
	return vessel, nil
}

// Delete removes a vessel
func (s *VesselService) Delete(ctx context.Context, id string) error {
	if !entity.IsValidID(id) {
		return &NotFoundError{Entity: "vessel", ID: id}
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return lookupErr(err, "vessel", id)
	}
	return nil
}

func applyVesselRequest(v *entity.Vessel, req *VesselRequest) error {
	if req == nil || strings.TrimSpace(req.Name) == "" {
		return validationError("name is required")
	}
	if req.GrossTonnage < 0 || req.Length < 0 {
		return validationError("gross_tonnage and length must not be negative")
	}
	v.Name = strings.TrimSpace(req.Name)
	v.IMONumber = strings.TrimSpace(req.IMONumber)
	v.VesselType = strings.TrimSpace(req.VesselType)
	v.Flag = strings.TrimSpace(req.Flag)
	v.RegistrationType = strings.TrimSpace(req.RegistrationType)
	v.GrossTonnage = req.GrossTonnage
	v.Length = req.Length
	return nil
}
