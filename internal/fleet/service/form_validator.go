package service

import (
	"fmt"
	"strings"

	"github.com/willnockology/dayboard-hub-new-sub000/internal/fleet/entity"
)

// Validate reports every required field whose value is missing, in declared
// order. An empty result means the values are complete.
func Validate(def *entity.FormDefinition, values map[string]interface{}) []string {
	errs := []string{}
	for _, f := range def.Fields {
		if !f.Required || f.FieldType == entity.FieldTypeSection {
			continue
		}
		if isMissing(values[f.FieldName]) {
			errs = append(errs, fmt.Sprintf("%s is required", f.FieldName))
		}
	}
	return errs
}

func isMissing(v interface{}) bool {
	switch val := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(val) == ""
	case []interface{}:
		return len(val) == 0
	case []string:
		return len(val) == 0
	}
	return false
}
