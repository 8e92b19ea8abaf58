package routes_test

import (
	"net/http"
	"testing"

	"famhealth_backend/internals/testutil"
)

func TestHealthEndpoint(t *testing.T) {
	app, _ := testutil.NewTestApp(t)

	status, body := testutil.DoJSON(t, app, http.MethodGet, "/health", nil, "")
	if status != http.StatusOK {
		t.Fatalf("health: status %d body %v", status, body)
	}
	if body["status"] != "OK" {
		t.Errorf("status field = %v", body["status"])
	}
	if body["database"] != "Connected" {
		t.Errorf("database field = %v", body["database"])
	}
}

// Both the member and health route sets hang off the one authenticated
// /family group; none of them may be reachable without a token.
func TestFamilyGroupIsAuthenticated(t *testing.T) {
	app, _ := testutil.NewTestApp(t)

	paths := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/family/members"},
		{http.MethodPost, "/family/members/initial"},
		{http.MethodGet, "/family/relationships"},
		{http.MethodGet, "/family/members/00000000-0000-4000-8000-000000000001/vitals"},
		{http.MethodGet, "/family/members/00000000-0000-4000-8000-000000000001/vitals/bmi"},
		{http.MethodGet, "/family/members/00000000-0000-4000-8000-000000000001/reports"},
		{http.MethodGet, "/family/members/00000000-0000-4000-8000-000000000001/documents"},
	}
	for _, p := range paths {
		status, body := testutil.DoJSON(t, app, p.method, p.path, nil, "")
		if status != http.StatusUnauthorized {
			t.Errorf("%s %s without token: status %d body %v", p.method, p.path, status, body)
		}
	}
}

// Full journey of one family: register, bootstrap the first member, marry
// in a second one and verify the reciprocal edge shows up on both sides.
func TestFamilyLifecycleScenario(t *testing.T) {
	app, _ := testutil.NewTestApp(t)

	status, body := testutil.DoJSON(t, app, http.MethodPost, "/auth/register", map[string]any{
		"email":       "admin@x.com",
		"password":    "secret1",
		"family_name": "Smiths",
		"first_name":  "Jane",
		"last_name":   "Smith",
	}, "")
	if status != http.StatusCreated {
		t.Fatalf("register: status %d body %v", status, body)
	}

	status, body = testutil.DoJSON(t, app, http.MethodPost, "/auth/login", map[string]any{
		"email":    "admin@x.com",
		"password": "secret1",
	}, "")
	if status != http.StatusOK {
		t.Fatalf("login: status %d body %v", status, body)
	}
	login := testutil.Data(t, body)
	token := login["token"].(string)
	if u := login["user"].(map[string]any); u["family_name"] != "Smiths" {
		t.Errorf("family_name = %v", u["family_name"])
	}

	// bootstrapping with the admin's own email must fail: that user exists
	status, body = testutil.DoJSON(t, app, http.MethodPost, "/family/members/initial", map[string]any{
		"name":     "Jane Smith",
		"email":    "admin@x.com",
		"password": "secret1",
	}, token)
	if status != http.StatusConflict {
		t.Fatalf("initial member with taken email: status %d body %v", status, body)
	}

	status, body = testutil.DoJSON(t, app, http.MethodPost, "/family/members/initial", map[string]any{
		"name":     "Jane Smith",
		"email":    "jane.m@x.com",
		"password": "secret1",
	}, token)
	if status != http.StatusCreated {
		t.Fatalf("initial member: status %d body %v", status, body)
	}
	janeID := testutil.Data(t, body)["id"].(string)

	status, body = testutil.DoJSON(t, app, http.MethodPost, "/family/members", map[string]any{
		"name":     "John Smith",
		"email":    "john@x.com",
		"password": "secret1",
		"relationships": []any{
			map[string]any{"related_member_id": janeID, "relationship_type": "Husband"},
		},
	}, token)
	if status != http.StatusCreated {
		t.Fatalf("add John: status %d body %v", status, body)
	}
	johnID := testutil.Data(t, body)["id"].(string)

	status, body = testutil.DoJSON(t, app, http.MethodGet, "/family/members", nil, token)
	if status != http.StatusOK {
		t.Fatalf("list members: status %d body %v", status, body)
	}
	members := testutil.DataList(t, body)
	if len(members) != 2 {
		t.Fatalf("members = %d, want 2", len(members))
	}

	var janeRels []any
	for _, m := range members {
		member := m.(map[string]any)
		if member["id"] == janeID {
			janeRels = member["relationships"].([]any)
		}
	}
	if len(janeRels) != 1 {
		t.Fatalf("Jane's relationships = %v, want exactly 1", janeRels)
	}
	edge := janeRels[0].(map[string]any)
	if edge["related_member_id"] != johnID || edge["relationship_type"] != "Wife" {
		t.Errorf("Jane's edge = %v, want Wife of John", edge)
	}
}
