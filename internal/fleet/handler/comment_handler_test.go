package handler_test

import (
	"net/http"
	"strings"
	"testing"

	"github.com/willnockology/dayboard-hub-new-sub000/internal/fleet/entity"
	"github.com/willnockology/dayboard-hub-new-sub000/internal/fleet/testutil"
)

func TestCommentThreadAndUnread(t *testing.T) {
	env := testutil.NewTestEnv(t)
	alice := testutil.CrewToken("alice", "Alice")
	bob := testutil.CrewToken("bob", "Bob")
	parent := entity.NewID()
	base := "/api/v1/records/" + parent + "/comments"

	w := testutil.DoRequest(env.Router, "POST", base, map[string]interface{}{"message": "Hatch cover cracked"}, alice)
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
	}
	comment := testutil.Data(testutil.ParseResponse(w))
	if comment["author_name"] != "Alice" {
		t.Errorf("Expected author Alice, got %v", comment["author_name"])
	}

	w = testutil.DoRequest(env.Router, "GET", base+"/unread", nil, bob)
	if n := testutil.Data(testutil.ParseResponse(w))["unread"]; n != float64(1) {
		t.Fatalf("Expected 1 unread for bob, got %v", n)
	}
	w = testutil.DoRequest(env.Router, "GET", base+"/unread", nil, alice)
	if n := testutil.Data(testutil.ParseResponse(w))["unread"]; n != float64(0) {
		t.Errorf("Expected 0 unread for author, got %v", n)
	}

	w = testutil.DoRequest(env.Router, "POST", base+"/read", nil, bob)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if n := testutil.Data(testutil.ParseResponse(w))["updated"]; n != float64(1) {
		t.Errorf("Expected 1 updated, got %v", n)
	}
	w = testutil.DoRequest(env.Router, "POST", base+"/read", nil, bob)
	if n := testutil.Data(testutil.ParseResponse(w))["updated"]; n != float64(0) {
		t.Errorf("Expected second mark-read to update nothing, got %v", n)
	}

	w = testutil.DoRequest(env.Router, "GET", base, nil, bob)
	items := testutil.Data(testutil.ParseResponse(w))["items"].([]interface{})
	if len(items) != 1 {
		t.Fatalf("Expected 1 comment, got %d", len(items))
	}
	readBy := items[0].(map[string]interface{})["read_by"].([]interface{})
	if len(readBy) != 2 {
		t.Errorf("Expected alice and bob in read_by, got %v", readBy)
	}
}

func TestCommentTooLong(t *testing.T) {
	env := testutil.NewTestEnv(t)
	token := testutil.CrewToken("alice", "Alice")
	base := "/api/v1/records/" + entity.NewID() + "/comments"

	w := testutil.DoRequest(env.Router, "POST", base, map[string]interface{}{"message": strings.Repeat("a", 201)}, token)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400, got %d: %s", w.Code, w.Body.String())
	}

	w = testutil.DoRequest(env.Router, "POST", base, map[string]interface{}{"message": strings.Repeat("ä", 200)}, token)
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected 201 at the limit, got %d: %s", w.Code, w.Body.String())
	}

	w = testutil.DoRequest(env.Router, "POST", base, map[string]interface{}{"message": "  "}, token)
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for blank message, got %d", w.Code)
	}
}
