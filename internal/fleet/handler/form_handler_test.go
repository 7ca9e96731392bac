package handler_test

import (
	"net/http"
	"testing"

	"github.com/willnockology/dayboard-hub-new-sub000/internal/fleet/service"
	"github.com/willnockology/dayboard-hub-new-sub000/internal/fleet/testutil"
)

func TestDefinitionCreateAndGet(t *testing.T) {
	env := testutil.NewTestEnv(t)
	token := testutil.DefaultTestToken()

	w := testutil.DoRequest(env.Router, "POST", "/api/v1/definitions", map[string]interface{}{
		"name":        "Crew list",
		"category":    "Crew",
		"subcategory": "Lists",
		"fields": []map[string]interface{}{
			{"field_name": "name", "required": true},
			{"field_name": "rank", "field_type": "dropdown", "options": []string{"Master", "Chief Officer"}},
			{"field_name": "remarks", "field_type": "textarea", "options": []string{"stripped"}},
		},
		"applicability": map[string]interface{}{
			"gross_tonnage_min": "no min",
			"gross_tonnage_max": "no max",
		},
	}, token)
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
	}
	data := testutil.Data(testutil.ParseResponse(w))
	id, _ := data["id"].(string)
	if id == "" {
		t.Fatalf("Expected id in response: %s", w.Body.String())
	}

	w = testutil.DoRequest(env.Router, "GET", "/api/v1/definitions/"+id, nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	data = testutil.Data(testutil.ParseResponse(w))
	fields := data["fields"].([]interface{})
	if len(fields) != 3 {
		t.Fatalf("Expected 3 fields, got %d", len(fields))
	}
	first := fields[0].(map[string]interface{})
	if first["field_name"] != "name" || first["field_type"] != "text" {
		t.Errorf("Expected first field name/text, got %v", first)
	}
	if _, ok := fields[2].(map[string]interface{})["options"]; ok {
		t.Errorf("Expected options stripped from textarea field")
	}
	app := data["applicability"].(map[string]interface{})
	if app["gross_tonnage_min"] != nil || app["gross_tonnage_max"] != nil {
		t.Errorf("Expected null tonnage bounds, got %v", app)
	}
}

func TestDefinitionValidationErrors(t *testing.T) {
	env := testutil.NewTestEnv(t)
	token := testutil.DefaultTestToken()

	w := testutil.DoRequest(env.Router, "POST", "/api/v1/definitions", map[string]interface{}{
		"name": "Broken",
	}, token)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400, got %d: %s", w.Code, w.Body.String())
	}
	errs := testutil.Data(testutil.ParseResponse(w))["errors"].([]interface{})
	if len(errs) != 3 {
		t.Errorf("Expected 3 field errors, got %v", errs)
	}

	w = testutil.DoRequest(env.Router, "POST", "/api/v1/definitions", map[string]interface{}{
		"name": "n", "category": "c", "subcategory": "s",
		"fields":        []map[string]interface{}{{"field_name": "f"}},
		"applicability": map[string]interface{}{"gross_tonnage_min": "heavy"},
	}, token)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400 for non-numeric bound, got %d: %s", w.Code, w.Body.String())
	}
}

func TestDefinitionWriteRequiresElevatedRole(t *testing.T) {
	env := testutil.NewTestEnv(t)
	w := testutil.DoRequest(env.Router, "POST", "/api/v1/definitions", map[string]interface{}{
		"name": "n", "category": "c", "subcategory": "s",
		"fields": []map[string]interface{}{{"field_name": "f"}},
	}, testutil.CrewToken("crew-1", "Deckhand"))
	if w.Code != http.StatusForbidden {
		t.Fatalf("Expected 403, got %d: %s", w.Code, w.Body.String())
	}
}

func TestDefinitionNotFound(t *testing.T) {
	env := testutil.NewTestEnv(t)
	token := testutil.DefaultTestToken()

	for _, id := range []string{"malformed", "0123456789abcdef0123456789abcdef"} {
		w := testutil.DoRequest(env.Router, "GET", "/api/v1/definitions/"+id, nil, token)
		if w.Code != http.StatusNotFound {
			t.Errorf("Expected 404 for %s, got %d", id, w.Code)
		}
	}
}

func TestCascadingQueries(t *testing.T) {
	env := testutil.NewTestEnv(t)
	token := testutil.DefaultTestToken()
	testutil.SeedDefinition(t, env, "Fire drill", "Safety", "Drills", service.FieldSpecInput{FieldName: "name"})

	w := testutil.DoRequest(env.Router, "GET", "/api/v1/categories", nil, token)
	items := testutil.Data(testutil.ParseResponse(w))["items"].([]interface{})
	if w.Code != http.StatusOK || len(items) != 1 || items[0] != "Safety" {
		t.Fatalf("Expected [Safety], got %d: %s", w.Code, w.Body.String())
	}

	w = testutil.DoRequest(env.Router, "GET", "/api/v1/subcategories/Unknown", nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200 with empty list, got %d: %s", w.Code, w.Body.String())
	}

	w = testutil.DoRequest(env.Router, "GET", "/api/v1/items/Drills", nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}

	w = testutil.DoRequest(env.Router, "GET", "/api/v1/items/Unknown", nil, token)
	if w.Code != http.StatusNotFound {
		t.Fatalf("Expected 404 for empty subcategory, got %d: %s", w.Code, w.Body.String())
	}
}

func TestDefinitionsRequireAuth(t *testing.T) {
	env := testutil.NewTestEnv(t)
	w := testutil.DoRequest(env.Router, "GET", "/api/v1/definitions", nil, "")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("Expected 401, got %d", w.Code)
	}
}
