package entity

import (
	"strings"
	"time"

	"gorm.io/datatypes"
)

// FieldType input type of a form field
type FieldType string

const (
	FieldTypeText      FieldType = "text"
	FieldTypeTextarea  FieldType = "textarea"
	FieldTypeParagraph FieldType = "paragraph"
	FieldTypeRichText  FieldType = "richText"
	FieldTypeDate      FieldType = "date"
	FieldTypeTime      FieldType = "time"
	FieldTypeNumber    FieldType = "number"
	FieldTypeCheckbox  FieldType = "checkbox"
	FieldTypeToggle    FieldType = "toggle"
	FieldTypeDropdown  FieldType = "dropdown"
	FieldTypeRadio     FieldType = "radio"
	FieldTypeImage     FieldType = "image"
	FieldTypeFile      FieldType = "file"
	FieldTypeRating    FieldType = "rating"
	FieldTypeSlider    FieldType = "slider"
	FieldTypeSection   FieldType = "section"
)

// FieldTypes lists every accepted field type
var FieldTypes = []FieldType{
	FieldTypeText, FieldTypeTextarea, FieldTypeParagraph, FieldTypeRichText,
	FieldTypeDate, FieldTypeTime, FieldTypeNumber, FieldTypeCheckbox, FieldTypeToggle,
	FieldTypeDropdown, FieldTypeRadio, FieldTypeImage, FieldTypeFile,
	FieldTypeRating, FieldTypeSlider, FieldTypeSection,
}

// IsKnown reports whether t is one of FieldTypes
func (t FieldType) IsKnown() bool {
	for _, ft := range FieldTypes {
		if ft == t {
			return true
		}
	}
	return false
}

// HasOptions reports whether fields of this type carry a choice list
func (t FieldType) HasOptions() bool {
	return t == FieldTypeDropdown || t == FieldTypeRadio
}

// IsFile reports whether values of this type are stored file references
func (t FieldType) IsFile() bool {
	return t == FieldTypeImage || t == FieldTypeFile
}

// FieldSpec one field of a form definition
type FieldSpec struct {
	FieldName        string    `json:"field_name" yaml:"field_name"`
	FieldDescription string    `json:"field_description,omitempty" yaml:"field_description,omitempty"`
	FieldType        FieldType `json:"field_type" yaml:"field_type"`
	Options          []string  `json:"options,omitempty" yaml:"options,omitempty"`
	Required         bool      `json:"required" yaml:"required"`
}

// Applicability restricts a definition to a subset of vessels. Empty lists and
// nil bounds mean unrestricted.
type Applicability struct {
	VesselTypes       datatypes.JSONSlice[string] `json:"vessel_types,omitempty" gorm:"column:vessel_types"`
	Flags             datatypes.JSONSlice[string] `json:"flags,omitempty" gorm:"column:flags"`
	RegistrationTypes datatypes.JSONSlice[string] `json:"registration_types,omitempty" gorm:"column:registration_types"`
	GrossTonnageMin   *float64                    `json:"gross_tonnage_min" gorm:"column:gross_tonnage_min"`
	GrossTonnageMax   *float64                    `json:"gross_tonnage_max" gorm:"column:gross_tonnage_max"`
	LengthMin         *float64                    `json:"length_min" gorm:"column:length_min"`
	LengthMax         *float64                    `json:"length_max" gorm:"column:length_max"`
}

// Matches reports whether the vessel falls inside every configured filter
func (a Applicability) Matches(v *Vessel) bool {
	if !containsFold(a.VesselTypes, v.VesselType) ||
		!containsFold(a.Flags, v.Flag) ||
		!containsFold(a.RegistrationTypes, v.RegistrationType) {
		return false
	}
	return inRange(v.GrossTonnage, a.GrossTonnageMin, a.GrossTonnageMax) &&
		inRange(v.Length, a.LengthMin, a.LengthMax)
}

func containsFold(list []string, value string) bool {
	if len(list) == 0 {
		return true
	}
	for _, s := range list {
		if strings.EqualFold(s, value) {
			return true
		}
	}
	return false
}

func inRange(v float64, min, max *float64) bool {
	if min != nil && v < *min {
		return false
	}
	if max != nil && v > *max {
		return false
	}
	return true
}

// FormDefinition stored form schema
type FormDefinition struct {
	ID            string                         `json:"id" gorm:"primaryKey;size:32"`
	Name          string                         `json:"name" gorm:"size:200;not null;index"`
	Category      string                         `json:"category" gorm:"size:100;not null;index"`
	Subcategory   string                         `json:"subcategory" gorm:"size:100;not null;index"`
	Description   string                         `json:"description" gorm:"type:text"`
	Fields        datatypes.JSONSlice[FieldSpec] `json:"fields" gorm:"not null"`
	Applicability Applicability                  `json:"applicability" gorm:"embedded;embeddedPrefix:app_"`
	CreatedBy     string                         `json:"created_by" gorm:"size:32"`
	CreatedAt     time.Time                      `json:"created_at"`
	UpdatedAt     time.Time                      `json:"updated_at"`
}

func (FormDefinition) TableName() string {
	return "form_definitions"
}

// Field returns the spec named name
func (d *FormDefinition) Field(name string) (FieldSpec, bool) {
	for _, f := range d.Fields {
		if f.FieldName == name {
			return f, true
		}
	}
	return FieldSpec{}, false
}

// FormSubmission one completed instance of a form definition
type FormSubmission struct {
	ID               string            `json:"id" gorm:"primaryKey;size:32"`
	FormDefinitionID string            `json:"form_definition_id" gorm:"size:32;not null;index"`
	WorkItemID       string            `json:"work_item_id" gorm:"size:36;index"`
	Fields           datatypes.JSONMap `json:"fields"`
	CompletedBy      string            `json:"completed_by" gorm:"size:128;not null"`
	CompletedAt      time.Time         `json:"completed_at" gorm:"not null"`
	Signature        string            `json:"signature,omitempty" gorm:"size:512"`
	PDFPath          string            `json:"pdf_path" gorm:"column:pdf_path;size:512"`
	Completed        bool              `json:"completed" gorm:"not null;default:false"`
	SubmittedBy      string            `json:"submitted_by" gorm:"size:32"`
	CreatedAt        time.Time         `json:"created_at"`
	UpdatedAt        time.Time         `json:"updated_at"`
}

func (FormSubmission) TableName() string {
	return "form_submissions"
}
