package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/willnockology/dayboard-hub-new-sub000/internal/fleet/entity"
	"github.com/willnockology/dayboard-hub-new-sub000/internal/fleet/repository"
	"github.com/willnockology/dayboard-hub-new-sub000/internal/fleet/sse"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// WorkItemRequest create/update payload
type WorkItemRequest struct {
	VesselID         string            `json:"vessel_id"`
	Category         string            `json:"category"`
	Subcategory      string            `json:"subcategory"`
	Name             string            `json:"name"`
	Description      string            `json:"description"`
	FormDefinitionID string            `json:"form_definition_id"`
	DueDate          *time.Time        `json:"due_date"`
	Attachments      []string          `json:"attachments"`
	Recurrence       entity.Recurrence `json:"recurrence"`
}

// WorkItemService work item tracker
type WorkItemService struct {
	repo   *repository.WorkItemRepository
	hub    *sse.Hub
	logger *zap.Logger
}

// NewWorkItemService creates a work item service; hub may be nil
func NewWorkItemService(repo *repository.WorkItemRepository, hub *sse.Hub, logger *zap.Logger) *WorkItemService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WorkItemService{repo: repo, hub: hub, logger: logger}
}

// List lists work items: outstanding first, then completed without an
// artifact, then resolved; by due date within each group, undated last.
func (s *WorkItemService) List(ctx context.Context, filter repository.WorkItemFilter) ([]entity.WorkItem, error) {
	items, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list work items: %w", err)
	}
	SortWorkItems(items)
	return items, nil
}

// SortWorkItems orders items in place and fills their State
func SortWorkItems(items []entity.WorkItem) {
	rank := map[entity.WorkItemState]int{
		entity.WorkItemOutstanding:              0,
		entity.WorkItemCompletedWithoutArtifact: 1,
		entity.WorkItemCompletedWithArtifact:    2,
	}
	for i := range items {
		items[i].ComputeState()
	}
	sort.SliceStable(items, func(i, j int) bool {
		a, b := &items[i], &items[j]
		if rank[a.State] != rank[b.State] {
			return rank[a.State] < rank[b.State]
		}
		switch {
		case a.DueDate == nil && b.DueDate == nil:
			return a.Name < b.Name
		case a.DueDate == nil:
			return false
		case b.DueDate == nil:
			return true
		case !a.DueDate.Equal(*b.DueDate):
			return a.DueDate.Before(*b.DueDate)
		}
		return a.Name < b.Name
	})
}

// Get loads a work item
func (s *WorkItemService) Get(ctx context.Context, id string) (*entity.WorkItem, error) {
	if !entity.IsValidID(id) {
		return nil, &NotFoundError{Entity: "work item", ID: id}
	}
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupErr(err, "work item", id)
	}
	item.ComputeState()
	return item, nil
}

// Create creates an outstanding work item
func (s *WorkItemService) Create(ctx context.Context, req *WorkItemRequest, createdBy string) (*entity.WorkItem, error) {
	item := &entity.WorkItem{ID: entity.NewID(), CreatedBy: createdBy}
	if err := applyWorkItemRequest(item, req); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, item); err != nil {
		return nil, fmt.Errorf("create work item: %w", err)
	}
	item.ComputeState()
	return item, nil
}

// Update replaces the descriptive attributes; completion is left untouched
func (s *WorkItemService) Update(ctx context.Context, id string, req *WorkItemRequest) (*entity.WorkItem, error) {
	item, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := applyWorkItemRequest(item, req); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, item); err != nil {
		return nil, fmt.Errorf("update work item: %w", err)
	}
	s.hub.PublishWorkItem(sse.EventWorkItemUpdated, item.ID, "updated")
	item.ComputeState()
	return item, nil
}

// Delete removes a work item; stored attachments and PDFs are kept
func (s *WorkItemService) Delete(ctx context.Context, id string) error {
	if !entity.IsValidID(id) {
		return &NotFoundError{Entity: "work item", ID: id}
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return lookupErr(err, "work item", id)
	}
	s.hub.PublishWorkItem(sse.EventWorkItemUpdated, id, "deleted")
	return nil
}

// Complete marks a document-only work item completed. Items bound to a form
// definition can only be completed through a submission.
func (s *WorkItemService) Complete(ctx context.Context, id string, attachments []string, completedBy string) (*entity.WorkItem, error) {
	item, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if item.RequiresArtifact() {
		return nil, validationError("work item %s is completed by submitting its form", id)
	}
	for _, a := range attachments {
		if a = strings.TrimSpace(a); a != "" {
			item.Attachments = append(item.Attachments, a)
		}
	}
	if err := s.markCompleted(ctx, item, completedBy, time.Now().UTC()); err != nil {
		return nil, err
	}
	return item, nil
}

// CompleteWithArtifact copies a submission's PDF onto the work item and marks it completed
func (s *WorkItemService) CompleteWithArtifact(ctx context.Context, id, pdfPath, completedBy string, completedAt time.Time) error {
	item, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	item.PDFPath = pdfPath
	return s.markCompleted(ctx, item, completedBy, completedAt)
}

func (s *WorkItemService) markCompleted(ctx context.Context, item *entity.WorkItem, completedBy string, completedAt time.Time) error {
	alreadyCompleted := item.Completed
	item.Completed = true
	item.CompletedBy = completedBy
	item.CompletedAt = &completedAt
	if err := s.repo.Update(ctx, item); err != nil {
		return fmt.Errorf("update work item: %w", err)
	}
	item.ComputeState()
	s.hub.PublishWorkItem(sse.EventWorkItemCompleted, item.ID, string(item.State))

	if !alreadyCompleted {
		if _, err := s.rollOver(ctx, item, completedAt); err != nil {
			s.logger.Warn("create next occurrence failed",
				zap.String("work_item_id", item.ID), zap.Error(err))
		}
	}
	return nil
}

// rollOver creates the next occurrence of a recurring item
func (s *WorkItemService) rollOver(ctx context.Context, item *entity.WorkItem, completedAt time.Time) (*entity.WorkItem, error) {
	due := item.NextDueDate(completedAt)
	if due == nil {
		return nil, nil
	}
	next := &entity.WorkItem{
		ID:               entity.NewID(),
		VesselID:         item.VesselID,
		Category:         item.Category,
		Subcategory:      item.Subcategory,
		Name:             item.Name,
		Description:      item.Description,
		FormDefinitionID: item.FormDefinitionID,
		DueDate:          due,
		Recurrence:       item.Recurrence,
		CreatedBy:        item.CreatedBy,
	}
	if err := s.repo.Create(ctx, next); err != nil {
		return nil, err
	}
	s.logger.Info("created next occurrence",
		zap.String("work_item_id", item.ID),
		zap.String("next_id", next.ID),
		zap.Time("due_date", *due))
	return next, nil
}

var workItemExportHeaders = []string{"Vessel", "Category", "Subcategory", "Name", "Due Date", "State", "Completed By", "Completed At", "PDF"}

// Export writes the filtered list to an xlsx workbook
func (s *WorkItemService) Export(ctx context.Context, filter repository.WorkItemFilter) (*excelize.File, string, error) {
	items, err := s.List(ctx, filter)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	sheet := "Work Items"
	f.SetSheetName("Sheet1", sheet)

	boldStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#D9E1F2"}},
		Border: []excelize.Border{
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})
	for i, h := range workItemExportHeaders {
		col, _ := excelize.ColumnNumberToName(i + 1)
		cell := col + "1"
		f.SetCellValue(sheet, cell, h)
		f.SetCellStyle(sheet, cell, cell, boldStyle)
	}

	for rowIdx, item := range items {
		row := rowIdx + 2
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), item.VesselID)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), item.Category)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", row), item.Subcategory)
		f.SetCellValue(sheet, fmt.Sprintf("D%d", row), item.Name)
		if item.DueDate != nil {
			f.SetCellValue(sheet, fmt.Sprintf("E%d", row), item.DueDate.Format("2006-01-02"))
		}
		f.SetCellValue(sheet, fmt.Sprintf("F%d", row), string(item.State))
		f.SetCellValue(sheet, fmt.Sprintf("G%d", row), item.CompletedBy)
		if item.CompletedAt != nil {
			f.SetCellValue(sheet, fmt.Sprintf("H%d", row), item.CompletedAt.Format(time.RFC3339))
		}
		f.SetCellValue(sheet, fmt.Sprintf("I%d", row), item.PDFPath)
	}

	colWidths := []float64{34, 16, 16, 30, 12, 26, 18, 22, 40}
	for i, w := range colWidths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(sheet, col, col, w)
	}

	filename := fmt.Sprintf("work_items_%s.xlsx", time.Now().Format("20060102"))
	return f, filename, nil
}

// Import creates work items from the first sheet of an xlsx workbook with
// columns Vessel, Category, Subcategory, Name, Due Date (YYYY-MM-DD). The
// header row is skipped; rows with an empty category or name are skipped.
func (s *WorkItemService) Import(ctx context.Context, f *excelize.File, createdBy string) ([]entity.WorkItem, error) {
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, validationError("workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read rows: %w", err)
	}
	cell := func(row []string, i int) string {
		if i < len(row) {
			return strings.TrimSpace(row[i])
		}
		return ""
	}

	var created []entity.WorkItem
	for i, row := range rows {
		if i == 0 {
			continue
		}
		req := &WorkItemRequest{
			VesselID:    cell(row, 0),
			Category:    cell(row, 1),
			Subcategory: cell(row, 2),
			Name:        cell(row, 3),
		}
		if req.Category == "" || req.Name == "" {
			continue
		}
		if due := cell(row, 4); due != "" {
			t, err := time.Parse("2006-01-02", due)
			if err != nil {
				return created, validationError("row %d: due date %q is not YYYY-MM-DD", i+1, due)
			}
			req.DueDate = &t
		}
		item, err := s.Create(ctx, req, createdBy)
		if err != nil {
			return created, fmt.Errorf("row %d: %w", i+1, err)
		}
		created = append(created, *item)
	}
	return created, nil
}

func applyWorkItemRequest(item *entity.WorkItem, req *WorkItemRequest) error {
	if req == nil {
		return validationError("work item is required")
	}
	var errs []string
	if strings.TrimSpace(req.Category) == "" {
		errs = append(errs, "category is required")
	}
	if strings.TrimSpace(req.Name) == "" {
		errs = append(errs, "name is required")
	}
	if req.FormDefinitionID != "" && !entity.IsValidID(req.FormDefinitionID) {
		errs = append(errs, "form_definition_id is malformed")
	}
	if item.Completed && req.FormDefinitionID != item.FormDefinitionID {
		errs = append(errs, "form_definition_id cannot change once the work item is completed")
	}
	if !req.Recurrence.Valid() {
		errs = append(errs, "recurrence needs a frequency of days, weeks, months or years and an interval of at least 1")
	}
	if len(errs) > 0 {
		return &ValidationError{Message: "invalid work item", Fields: errs}
	}

	item.VesselID = req.VesselID
	item.Category = strings.TrimSpace(req.Category)
	item.Subcategory = strings.TrimSpace(req.Subcategory)
	item.Name = strings.TrimSpace(req.Name)
	item.Description = req.Description
	item.FormDefinitionID = req.FormDefinitionID
	item.DueDate = req.DueDate
	if req.Attachments != nil {
		item.Attachments = req.Attachments
	}
	item.Recurrence = req.Recurrence
	if item.Recurrence.Enabled() && item.Recurrence.Basis == "" {
		item.Recurrence.Basis = entity.BasisDueDate
	}
	return nil
}
