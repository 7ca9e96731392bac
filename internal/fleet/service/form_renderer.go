package service

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/willnockology/dayboard-hub-new-sub000/internal/fleet/entity"
)

// ControlKind rendering family of a field type
type ControlKind string

const (
	ControlSingle    ControlKind = "single"
	ControlMultiline ControlKind = "multiline"
	ControlChoice    ControlKind = "choice"
	ControlBoolean   ControlKind = "boolean"
	ControlFile      ControlKind = "file"
	ControlHeading   ControlKind = "heading"
)

// Control one rendered input
type Control struct {
	Name        string           `json:"name"`
	Label       string           `json:"label"`
	Description string           `json:"description,omitempty"`
	FieldType   entity.FieldType `json:"field_type"`
	Kind        ControlKind      `json:"kind"`
	InputType   string           `json:"input_type,omitempty"`
	Options     []string         `json:"options,omitempty"`
	Required    bool             `json:"required"`

	bind binder
}

// RenderedForm controls of one definition in declared order
type RenderedForm struct {
	DefinitionID string    `json:"definition_id"`
	Name         string    `json:"name"`
	Controls     []Control `json:"controls"`
}

type binder func(c *Control, raw interface{}) (interface{}, error)

type fieldHandler struct {
	kind      ControlKind
	inputType string
	bind      binder
}

// fieldHandlers is the closed dispatch table over entity.FieldTypes
var fieldHandlers = map[entity.FieldType]fieldHandler{
	entity.FieldTypeText:      {ControlSingle, "text", bindString},
	entity.FieldTypeDate:      {ControlSingle, "date", bindDate},
	entity.FieldTypeTime:      {ControlSingle, "time", bindTime},
	entity.FieldTypeNumber:    {ControlSingle, "number", bindNumber},
	entity.FieldTypeRating:    {ControlSingle, "rating", bindNumber},
	entity.FieldTypeSlider:    {ControlSingle, "range", bindNumber},
	entity.FieldTypeTextarea:  {ControlMultiline, "textarea", bindString},
	entity.FieldTypeParagraph: {ControlMultiline, "textarea", bindString},
	entity.FieldTypeRichText:  {ControlMultiline, "richtext", bindString},
	entity.FieldTypeDropdown:  {ControlChoice, "select", bindChoice},
	entity.FieldTypeRadio:     {ControlChoice, "radio", bindChoice},
	entity.FieldTypeCheckbox:  {ControlBoolean, "checkbox", bindBool},
	entity.FieldTypeToggle:    {ControlBoolean, "switch", bindBool},
	entity.FieldTypeImage:     {ControlFile, "image", bindString},
	entity.FieldTypeFile:      {ControlFile, "file", bindString},
	entity.FieldTypeSection:   {ControlHeading, "", nil},
}

// Render builds one control per field in declared order
func Render(def *entity.FormDefinition) (*RenderedForm, error) {
	form := &RenderedForm{
		DefinitionID: def.ID,
		Name:         def.Name,
		Controls:     make([]Control, 0, len(def.Fields)),
	}
	for _, f := range def.Fields {
		h, ok := fieldHandlers[f.FieldType]
		if !ok {
			return nil, &UnknownFieldTypeError{FieldName: f.FieldName, FieldType: f.FieldType}
		}
		c := Control{
			Name:        f.FieldName,
			Label:       f.FieldName,
			Description: f.FieldDescription,
			FieldType:   f.FieldType,
			Kind:        h.kind,
			InputType:   h.inputType,
			Required:    f.Required,
			bind:        h.bind,
		}
		if h.kind == ControlChoice {
			c.Options = f.Options
		}
		form.Controls = append(form.Controls, c)
	}
	return form, nil
}

// Bind coerces raw client values into typed values. Keys without an input
// control are kept unchanged; every malformed value is reported.
func (f *RenderedForm) Bind(raw map[string]interface{}) (map[string]interface{}, error) {
	values := make(map[string]interface{}, len(raw))
	bound := make(map[string]bool, len(f.Controls))
	var errs []string
	for i := range f.Controls {
		c := &f.Controls[i]
		if c.bind == nil {
			continue
		}
		bound[c.Name] = true
		v, ok := raw[c.Name]
		if !ok || v == nil {
			continue
		}
		coerced, err := c.bind(c, v)
		if err != nil {
			errs = append(errs, fmt.Sprintf("%s %v", c.Name, err))
			continue
		}
		values[c.Name] = coerced
	}
	for k, v := range raw {
		if !bound[k] {
			values[k] = v
		}
	}
	if len(errs) > 0 {
		return nil, &ValidationError{Message: "invalid field values", Fields: errs}
	}
	return values, nil
}

func bindString(_ *Control, raw interface{}) (interface{}, error) {
	switch v := raw.(type) {
	case string:
		return v, nil
	case []string:
		return strings.Join(v, ", "), nil
	case map[string]interface{}, []interface{}:
		return nil, fmt.Errorf("must be a string")
	}
	return fmt.Sprint(raw), nil
}

func bindDate(c *Control, raw interface{}) (interface{}, error) {
	s, ok := raw.(string)
	if !ok {
		return nil, fmt.Errorf("must be a date string")
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return s, nil
	}
	if _, err := time.Parse("2006-01-02", s); err == nil {
		return s, nil
	}
	if _, err := time.Parse(time.RFC3339, s); err == nil {
		return s, nil
	}
	return nil, fmt.Errorf("must be a date (YYYY-MM-DD)")
}

func bindTime(c *Control, raw interface{}) (interface{}, error) {
	s, ok := raw.(string)
	if !ok {
		return nil, fmt.Errorf("must be a time string")
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return s, nil
	}
	for _, layout := range []string{"15:04", "15:04:05"} {
		if _, err := time.Parse(layout, s); err == nil {
			return s, nil
		}
	}
	return nil, fmt.Errorf("must be a time (HH:MM)")
}

func bindNumber(c *Control, raw interface{}) (interface{}, error) {
	switch v := raw.(type) {
	case float64:
		return v, nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return nil, fmt.Errorf("must be a number")
		}
		return f, nil
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return "", nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, fmt.Errorf("must be a number")
		}
		return f, nil
	}
	return nil, fmt.Errorf("must be a number")
}

func bindChoice(c *Control, raw interface{}) (interface{}, error) {
	s, ok := raw.(string)
	if !ok {
		return nil, fmt.Errorf("must be one of the listed options")
	}
	if s == "" || len(c.Options) == 0 {
		return s, nil
	}
	for _, opt := range c.Options {
		if opt == s {
			return s, nil
		}
	}
	return nil, fmt.Errorf("%q is not one of the listed options", s)
}

func bindBool(c *Control, raw interface{}) (interface{}, error) {
	switch v := raw.(type) {
	case bool:
		return v, nil
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "true", "on", "yes", "1":
			return true, nil
		case "false", "off", "no", "0", "":
			return false, nil
		}
	}
	return nil, fmt.Errorf("must be true or false")
}
