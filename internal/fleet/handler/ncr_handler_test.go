package handler_test

import (
	"net/http"
	"testing"

	"github.com/willnockology/dayboard-hub-new-sub000/internal/fleet/testutil"
)

func TestNCRLifecycle(t *testing.T) {
	env := testutil.NewTestEnv(t)
	crew := testutil.CrewToken("crew-1", "Deckhand")
	admin := testutil.DefaultTestToken()

	w := testutil.DoRequest(env.Router, "POST", "/api/v1/ncrs", map[string]interface{}{
		"title":       "Expired flares",
		"description": "Two hand flares past expiry",
	}, crew)
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
	}
	data := testutil.Data(testutil.ParseResponse(w))
	id := data["id"].(string)
	if data["status"] != "Open" {
		t.Fatalf("Expected Open, got %v", data["status"])
	}

	w = testutil.DoRequest(env.Router, "POST", "/api/v1/ncrs/"+id+"/close", nil, admin)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400 closing an open NCR, got %d: %s", w.Code, w.Body.String())
	}

	w = testutil.DoRequest(env.Router, "PUT", "/api/v1/ncrs/"+id, map[string]interface{}{
		"title":             "Expired flares",
		"corrective_action": "Replaced from bonded store",
	}, crew)
	if status := testutil.Data(testutil.ParseResponse(w))["status"]; status != "Pending-Sign-Off" {
		t.Fatalf("Expected Pending-Sign-Off, got %v", status)
	}

	w = testutil.DoRequest(env.Router, "POST", "/api/v1/ncrs/"+id+"/close", nil, crew)
	if w.Code != http.StatusForbidden {
		t.Errorf("Expected 403 for crew sign-off, got %d", w.Code)
	}

	w = testutil.DoRequest(env.Router, "POST", "/api/v1/ncrs/"+id+"/close", nil, admin)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	data = testutil.Data(testutil.ParseResponse(w))
	if data["status"] != "Closed" || data["closed_by"] != "test-user-001" {
		t.Errorf("Expected Closed by test-user-001, got %v", data)
	}

	w = testutil.DoRequest(env.Router, "POST", "/api/v1/ncrs/"+id+"/reopen", nil, admin)
	if status := testutil.Data(testutil.ParseResponse(w))["status"]; status != "Open" {
		t.Errorf("Expected Open after reopen, got %v", status)
	}

	w = testutil.DoRequest(env.Router, "GET", "/api/v1/ncrs?status=Open", nil, crew)
	items := testutil.Data(testutil.ParseResponse(w))["items"].([]interface{})
	if len(items) != 1 {
		t.Errorf("Expected 1 open NCR, got %d", len(items))
	}
}
