package entity

import (
	"time"

	"gorm.io/datatypes"
)

// Recurrence frequencies
const (
	FrequencyDays   = "days"
	FrequencyWeeks  = "weeks"
	FrequencyMonths = "months"
	FrequencyYears  = "years"
)

// Recurrence bases: the next due date is counted from the previous due date or
// from the completion date.
const (
	BasisDueDate        = "due_date"
	BasisCompletionDate = "completion_date"
)

// Recurrence repeat rule of a work item
type Recurrence struct {
	Frequency string `json:"frequency,omitempty" gorm:"column:frequency;size:16"`
	Interval  int    `json:"interval,omitempty" gorm:"column:interval"`
	Basis     string `json:"basis,omitempty" gorm:"column:basis;size:20"`
}

// Enabled reports whether the rule produces follow-up items
func (r Recurrence) Enabled() bool {
	return r.Frequency != "" && r.Interval > 0
}

// Valid reports whether frequency and basis are known values
func (r Recurrence) Valid() bool {
	if r.Frequency == "" {
		return r.Interval == 0
	}
	switch r.Frequency {
	case FrequencyDays, FrequencyWeeks, FrequencyMonths, FrequencyYears:
	default:
		return false
	}
	switch r.Basis {
	case "", BasisDueDate, BasisCompletionDate:
	default:
		return false
	}
	return r.Interval > 0
}

// Advance returns from shifted by one interval
func (r Recurrence) Advance(from time.Time) time.Time {
	switch r.Frequency {
	case FrequencyDays:
		return from.AddDate(0, 0, r.Interval)
	case FrequencyWeeks:
		return from.AddDate(0, 0, 7*r.Interval)
	case FrequencyMonths:
		return from.AddDate(0, r.Interval, 0)
	case FrequencyYears:
		return from.AddDate(r.Interval, 0, 0)
	}
	return from
}

// WorkItemState derived completion state
type WorkItemState string

const (
	WorkItemOutstanding              WorkItemState = "outstanding"
	WorkItemCompletedWithoutArtifact WorkItemState = "completed_without_artifact"
	WorkItemCompletedWithArtifact    WorkItemState = "completed_with_artifact"
)

// WorkItem trackable task fulfilled by a form submission or a document upload
type WorkItem struct {
	ID               string                      `json:"id" gorm:"primaryKey;size:32"`
	VesselID         string                      `json:"vessel_id" gorm:"size:32;index"`
	Category         string                      `json:"category" gorm:"size:100;not null;index"`
	Subcategory      string                      `json:"subcategory" gorm:"size:100;index"`
	Name             string                      `json:"name" gorm:"size:256;not null"`
	Description      string                      `json:"description" gorm:"type:text"`
	FormDefinitionID string                      `json:"form_definition_id" gorm:"size:32"`
	DueDate          *time.Time                  `json:"due_date"`
	Completed        bool                        `json:"completed" gorm:"not null;default:false"`
	CompletedAt      *time.Time                  `json:"completed_at"`
	CompletedBy      string                      `json:"completed_by" gorm:"size:128"`
	Attachments      datatypes.JSONSlice[string] `json:"attachments"`
	Recurrence       Recurrence                  `json:"recurrence" gorm:"embedded;embeddedPrefix:recurrence_"`
	PDFPath          string                      `json:"pdf_path" gorm:"column:pdf_path;size:512"`
	CreatedBy        string                      `json:"created_by" gorm:"size:32"`
	CreatedAt        time.Time                   `json:"created_at"`
	UpdatedAt        time.Time                   `json:"updated_at"`

	State WorkItemState `json:"state" gorm:"-"`
}

func (WorkItem) TableName() string {
	return "work_items"
}

// RequiresArtifact reports whether completion must come from a form submission
func (w *WorkItem) RequiresArtifact() bool {
	return w.FormDefinitionID != ""
}

// Resolved completed with a generated artifact
func (w *WorkItem) Resolved() bool {
	return w.Completed && w.PDFPath != ""
}

// ComputeState derives State from Completed and PDFPath
func (w *WorkItem) ComputeState() WorkItemState {
	switch {
	case !w.Completed:
		w.State = WorkItemOutstanding
	case w.PDFPath != "":
		w.State = WorkItemCompletedWithArtifact
	default:
		w.State = WorkItemCompletedWithoutArtifact
	}
	return w.State
}

// NextDueDate due date of the follow-up item, nil when the item does not recur
func (w *WorkItem) NextDueDate(completedAt time.Time) *time.Time {
	if !w.Recurrence.Enabled() {
		return nil
	}
	base := completedAt
	if w.Recurrence.Basis != BasisCompletionDate && w.DueDate != nil {
		base = *w.DueDate
	}
	next := w.Recurrence.Advance(base)
	return &next
}
