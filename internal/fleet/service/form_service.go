package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/willnockology/dayboard-hub-new-sub000/internal/fleet/entity"
	"github.com/willnockology/dayboard-hub-new-sub000/internal/fleet/repository"
	"go.uber.org/zap"
)

const (
	categoriesCacheKey = "forms:categories"
	categoriesCacheTTL = 10 * time.Minute
)

// Applicability bound sentinels
const (
	BoundNoMin = "no min"
	BoundNoMax = "no max"
)

// FieldSpecInput one field as supplied by a client; field_type defaults to text
type FieldSpecInput struct {
	FieldName        string   `json:"field_name" yaml:"field_name"`
	FieldDescription string   `json:"field_description" yaml:"field_description"`
	FieldType        string   `json:"field_type" yaml:"field_type"`
	Options          []string `json:"options" yaml:"options"`
	Required         bool     `json:"required" yaml:"required"`
}

// ApplicabilityInput bounds accept a number, a numeric string, "no min" or "no max"
type ApplicabilityInput struct {
	VesselTypes       []string    `json:"vessel_types" yaml:"vessel_types"`
	Flags             []string    `json:"flags" yaml:"flags"`
	RegistrationTypes []string    `json:"registration_types" yaml:"registration_types"`
	GrossTonnageMin   interface{} `json:"gross_tonnage_min" yaml:"gross_tonnage_min"`
	GrossTonnageMax   interface{} `json:"gross_tonnage_max" yaml:"gross_tonnage_max"`
	LengthMin         interface{} `json:"length_min" yaml:"length_min"`
	LengthMax         interface{} `json:"length_max" yaml:"length_max"`
}

// DefinitionRequest create/update payload
type DefinitionRequest struct {
	Name          string             `json:"name" yaml:"name"`
	Category      string             `json:"category" yaml:"category"`
	Subcategory   string             `json:"subcategory" yaml:"subcategory"`
	Description   string             `json:"description" yaml:"description"`
	Fields        []FieldSpecInput   `json:"fields" yaml:"fields"`
	Applicability ApplicabilityInput `json:"applicability" yaml:"applicability"`
}

// FormService form definition service
type FormService struct {
	repo       *repository.FormRepository
	vesselRepo *repository.VesselRepository
	rdb        *redis.Client
	logger     *zap.Logger
}

// NewFormService creates a form definition service; rdb may be nil
func NewFormService(repo *repository.FormRepository, vesselRepo *repository.VesselRepository, rdb *redis.Client, logger *zap.Logger) *FormService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FormService{repo: repo, vesselRepo: vesselRepo, rdb: rdb, logger: logger}
}

// Create validates and stores a new definition
func (s *FormService) Create(ctx context.Context, req *DefinitionRequest, createdBy string) (*entity.FormDefinition, error) {
	def := &entity.FormDefinition{
		ID:        entity.NewID(),
		CreatedBy: createdBy,
	}
	if err := applyDefinitionRequest(def, req); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, def); err != nil {
		return nil, fmt.Errorf("create definition: %w", err)
	}
	s.invalidateCategories(ctx)
	return def, nil
}

// Update replaces every mutable attribute of definition id
func (s *FormService) Update(ctx context.Context, id string, req *DefinitionRequest) (*entity.FormDefinition, error) {
	def, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := applyDefinitionRequest(def, req); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, def); err != nil {
		return nil, fmt.Errorf("update definition: %w", err)
	}
	s.invalidateCategories(ctx)
	return def, nil
}

// Get loads a definition; malformed ids are reported as not found
func (s *FormService) Get(ctx context.Context, id string) (*entity.FormDefinition, error) {
	if !entity.IsValidID(id) {
		return nil, &NotFoundError{Entity: "form definition", ID: id}
	}
	def, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupErr(err, "form definition", id)
	}
	return def, nil
}

// List lists definitions filtered by category and subcategory
func (s *FormService) List(ctx context.Context, category, subcategory string) ([]entity.FormDefinition, error) {
	return s.repo.List(ctx, map[string]string{
		"category":    category,
		"subcategory": subcategory,
	})
}

// Delete removes a definition; submissions and work items keep their weak reference
func (s *FormService) Delete(ctx context.Context, id string) error {
	if !entity.IsValidID(id) {
		return &NotFoundError{Entity: "form definition", ID: id}
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return lookupErr(err, "form definition", id)
	}
	s.invalidateCategories(ctx)
	return nil
}

// DistinctCategories every category, empty slice when none
func (s *FormService) DistinctCategories(ctx context.Context) ([]string, error) {
	if cached, ok := s.cachedCategories(ctx); ok {
		return cached, nil
	}
	categories, err := s.repo.DistinctCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	s.cacheCategories(ctx, categories)
	return categories, nil
}

// DistinctSubcategories subcategories of category, empty slice when none
func (s *FormService) DistinctSubcategories(ctx context.Context, category string) ([]string, error) {
	subcategories, err := s.repo.DistinctSubcategories(ctx, category)
	if err != nil {
		return nil, fmt.Errorf("list subcategories: %w", err)
	}
	return subcategories, nil
}

// DistinctFormNames form names in subcategory; an empty result is a NotFoundError
func (s *FormService) DistinctFormNames(ctx context.Context, subcategory string) ([]string, error) {
	names, err := s.repo.DistinctNames(ctx, subcategory)
	if err != nil {
		return nil, fmt.Errorf("list form names: %w", err)
	}
	if len(names) == 0 {
		return nil, &NotFoundError{Entity: "items for subcategory " + subcategory}
	}
	return names, nil
}

// CategoriesForVessel categories having at least one definition applicable to the vessel
func (s *FormService) CategoriesForVessel(ctx context.Context, vesselID string) ([]string, error) {
	if !entity.IsValidID(vesselID) {
		return nil, &NotFoundError{Entity: "vessel", ID: vesselID}
	}
	vessel, err := s.vesselRepo.FindByID(ctx, vesselID)
	if err != nil {
		return nil, lookupErr(err, "vessel", vesselID)
	}
	defs, err := s.repo.List(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("list definitions: %w", err)
	}
	categories := []string{}
	seen := make(map[string]bool)
	for _, def := range defs {
		if seen[def.Category] || !def.Applicability.Matches(vessel) {
			continue
		}
		seen[def.Category] = true
		categories = append(categories, def.Category)
	}
	return categories, nil
}

func (s *FormService) cachedCategories(ctx context.Context) ([]string, bool) {
	if s.rdb == nil {
		return nil, false
	}
	raw, err := s.rdb.Get(ctx, categoriesCacheKey).Result()
	if err != nil {
		if err != redis.Nil {
			s.logger.Warn("category cache read failed", zap.Error(err))
		}
		return nil, false
	}
	var categories []string
	if err := json.Unmarshal([]byte(raw), &categories); err != nil {
		return nil, false
	}
	return categories, true
}

func (s *FormService) cacheCategories(ctx context.Context, categories []string) {
	if s.rdb == nil {
		return
	}
	raw, _ := json.Marshal(categories)
	if err := s.rdb.Set(ctx, categoriesCacheKey, raw, categoriesCacheTTL).Err(); err != nil {
		s.logger.Warn("category cache write failed", zap.Error(err))
	}
}

func (s *FormService) invalidateCategories(ctx context.Context) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, categoriesCacheKey).Err(); err != nil {
		s.logger.Warn("category cache invalidate failed", zap.Error(err))
	}
}

// applyDefinitionRequest validates req and copies it onto def
func applyDefinitionRequest(def *entity.FormDefinition, req *DefinitionRequest) error {
	if req == nil {
		return validationError("definition is required")
	}
	var missing []string
	if strings.TrimSpace(req.Name) == "" {
		missing = append(missing, "name is required")
	}
	if strings.TrimSpace(req.Category) == "" {
		missing = append(missing, "category is required")
	}
	if strings.TrimSpace(req.Subcategory) == "" {
		missing = append(missing, "subcategory is required")
	}
	if len(req.Fields) == 0 {
		missing = append(missing, "fields is required")
	}
	if len(missing) > 0 {
		return &ValidationError{Message: "invalid form definition", Fields: missing}
	}

	fields, err := normalizeFields(req.Fields)
	if err != nil {
		return err
	}
	applicability, err := normalizeApplicability(req.Applicability)
	if err != nil {
		return err
	}

	def.Name = strings.TrimSpace(req.Name)
	def.Category = strings.TrimSpace(req.Category)
	def.Subcategory = strings.TrimSpace(req.Subcategory)
	def.Description = req.Description
	def.Fields = fields
	def.Applicability = applicability
	return nil
}

// normalizeFields applies defaults, strips options from non-choice fields and
// rejects unknown types. Declared order is kept.
func normalizeFields(inputs []FieldSpecInput) ([]entity.FieldSpec, error) {
	fields := make([]entity.FieldSpec, 0, len(inputs))
	seen := make(map[string]bool, len(inputs))
	for i, in := range inputs {
		name := strings.TrimSpace(in.FieldName)
		if name == "" {
			return nil, validationError("fields[%d]: field_name is required", i)
		}
		if seen[name] {
			return nil, validationError("fields[%d]: duplicate field_name %q", i, name)
		}
		seen[name] = true

		ft := entity.FieldType(strings.TrimSpace(in.FieldType))
		if ft == "" {
			ft = entity.FieldTypeText
		}
		if !ft.IsKnown() {
			unknown := &UnknownFieldTypeError{FieldName: name, FieldType: ft}
			return nil, &ValidationError{Message: unknown.Error(), Err: unknown}
		}

		spec := entity.FieldSpec{
			FieldName:        name,
			FieldDescription: in.FieldDescription,
			FieldType:        ft,
			Required:         in.Required && ft != entity.FieldTypeSection,
		}
		if ft.HasOptions() {
			spec.Options = in.Options
		}
		fields = append(fields, spec)
	}
	return fields, nil
}

func normalizeApplicability(in ApplicabilityInput) (entity.Applicability, error) {
	out := entity.Applicability{
		VesselTypes:       in.VesselTypes,
		Flags:             in.Flags,
		RegistrationTypes: in.RegistrationTypes,
	}
	bounds := []struct {
		name  string
		value interface{}
		dst   **float64
	}{
		{"gross_tonnage_min", in.GrossTonnageMin, &out.GrossTonnageMin},
		{"gross_tonnage_max", in.GrossTonnageMax, &out.GrossTonnageMax},
		{"length_min", in.LengthMin, &out.LengthMin},
		{"length_max", in.LengthMax, &out.LengthMax},
	}
	var errs []string
	for _, b := range bounds {
		v, err := ParseBound(b.value)
		if err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", b.name, err))
			continue
		}
		*b.dst = v
	}
	if len(errs) > 0 {
		return out, &ValidationError{Message: "invalid applicability", Fields: errs}
	}
	if out.GrossTonnageMin != nil && out.GrossTonnageMax != nil && *out.GrossTonnageMin > *out.GrossTonnageMax {
		return out, validationError("gross_tonnage_min is greater than gross_tonnage_max")
	}
	if out.LengthMin != nil && out.LengthMax != nil && *out.LengthMin > *out.LengthMax {
		return out, validationError("length_min is greater than length_max")
	}
	return out, nil
}

// ParseBound converts an applicability bound; nil, "", "no min" and "no max"
// mean unbounded.
func ParseBound(v interface{}) (*float64, error) {
	var f float64
	switch val := v.(type) {
	case nil:
		return nil, nil
	case float64:
		f = val
	case float32:
		f = float64(val)
	case int:
		f = float64(val)
	case int64:
		f = float64(val)
	case json.Number:
		parsed, err := val.Float64()
		if err != nil {
			return nil, fmt.Errorf("%q is not a number", val.String())
		}
		f = parsed
	case string:
		s := strings.TrimSpace(val)
		if s == "" || strings.EqualFold(s, BoundNoMin) || strings.EqualFold(s, BoundNoMax) {
			return nil, nil
		}
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, fmt.Errorf("%q is not a number", s)
		}
		f = parsed
	default:
		return nil, fmt.Errorf("unsupported value %v", v)
	}
	return &f, nil
}
