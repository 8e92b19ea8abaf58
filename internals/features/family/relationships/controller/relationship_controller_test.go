package controller_test

import (
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"

	"famhealth_backend/internals/testutil"
)

func setupTwoMembers(t *testing.T, app *fiber.App) (token, firstID, secondID string) {
	t.Helper()
	token, _ = testutil.RegisterFamily(t, app, "pair@edge.test", "Pairs", "Pat", "Pair")

	status, body := testutil.DoJSON(t, app, http.MethodPost, "/family/members/initial", map[string]any{
		"name": "Pat Pair", "email": "pat.m@edge.test", "password": "s3cret-pass",
	}, token)
	if status != http.StatusCreated {
		t.Fatalf("initial member: status %d body %v", status, body)
	}
	firstID = testutil.Data(t, body)["id"].(string)

	status, body = testutil.DoJSON(t, app, http.MethodPost, "/family/members", map[string]any{
		"name": "Sam Pair", "email": "sam@edge.test", "password": "s3cret-pass",
		"relationships": []any{},
	}, token)
	if status != http.StatusCreated {
		t.Fatalf("second member: status %d body %v", status, body)
	}
	secondID = testutil.Data(t, body)["id"].(string)
	return token, firstID, secondID
}

func TestAddRelationshipInsertsSingleEdge(t *testing.T) {
	app, _ := testutil.NewTestApp(t)
	token, firstID, secondID := setupTwoMembers(t, app)

	status, body := testutil.DoJSON(t, app, http.MethodPost, "/family/relationships", map[string]any{
		"member_id":         firstID,
		"related_member_id": secondID,
		"relationship_type": "Husband",
	}, token)
	if status != http.StatusCreated {
		t.Fatalf("add edge: status %d body %v", status, body)
	}

	// no reciprocal Wife edge from the generic endpoint
	status, body = testutil.DoJSON(t, app, http.MethodGet, "/family/members/"+secondID, nil, token)
	if status != http.StatusOK {
		t.Fatalf("get second member: status %d body %v", status, body)
	}
	if rels := testutil.Data(t, body)["relationships"].([]any); len(rels) != 0 {
		t.Errorf("generic endpoint created a reciprocal edge: %v", rels)
	}

	status, body = testutil.DoJSON(t, app, http.MethodGet, "/family/members/"+firstID, nil, token)
	if status != http.StatusOK {
		t.Fatalf("get first member: status %d body %v", status, body)
	}
	rels := testutil.Data(t, body)["relationships"].([]any)
	if len(rels) != 1 {
		t.Fatalf("edges = %d, want 1", len(rels))
	}
	if rt := rels[0].(map[string]any)["relationship_type"]; rt != "Husband" {
		t.Errorf("edge type = %v", rt)
	}
}

func TestAddRelationshipRejectsSelfReference(t *testing.T) {
	app, _ := testutil.NewTestApp(t)
	token, firstID, _ := setupTwoMembers(t, app)

	// same id twice never counts as 2 distinct family members
	status, body := testutil.DoJSON(t, app, http.MethodPost, "/family/relationships", map[string]any{
		"member_id":         firstID,
		"related_member_id": firstID,
		"relationship_type": "Cousin",
	}, token)
	if status != http.StatusBadRequest {
		t.Fatalf("self-referential edge: status %d body %v", status, body)
	}
}

func TestAddRelationshipRejectsCrossFamilyTarget(t *testing.T) {
	app, _ := testutil.NewTestApp(t)
	token, firstID, _ := setupTwoMembers(t, app)

	otherToken, _ := testutil.RegisterFamily(t, app, "other@edge.test", "Others", "Omar", "O")
	status, body := testutil.DoJSON(t, app, http.MethodPost, "/family/members/initial", map[string]any{
		"name": "Omar O", "email": "omar.m@edge.test", "password": "s3cret-pass",
	}, otherToken)
	if status != http.StatusCreated {
		t.Fatalf("other family member: status %d body %v", status, body)
	}
	outsiderID := testutil.Data(t, body)["id"].(string)

	status, body = testutil.DoJSON(t, app, http.MethodPost, "/family/relationships", map[string]any{
		"member_id":         firstID,
		"related_member_id": outsiderID,
		"relationship_type": "Brother",
	}, token)
	if status != http.StatusBadRequest {
		t.Fatalf("cross-family edge: status %d body %v", status, body)
	}
}

func TestAddRelationshipRejectsUnknownType(t *testing.T) {
	app, _ := testutil.NewTestApp(t)
	token, firstID, secondID := setupTwoMembers(t, app)

	status, body := testutil.DoJSON(t, app, http.MethodPost, "/family/relationships", map[string]any{
		"member_id":         firstID,
		"related_member_id": secondID,
		"relationship_type": "Nemesis",
	}, token)
	if status != http.StatusBadRequest {
		t.Fatalf("unknown type: status %d body %v", status, body)
	}
}

func TestListRelationshipsGroupsByMember(t *testing.T) {
	app, _ := testutil.NewTestApp(t)
	token, firstID, secondID := setupTwoMembers(t, app)

	for _, e := range []map[string]any{
		{"member_id": firstID, "related_member_id": secondID, "relationship_type": "Father"},
		{"member_id": secondID, "related_member_id": firstID, "relationship_type": "Son"},
	} {
		status, body := testutil.DoJSON(t, app, http.MethodPost, "/family/relationships", e, token)
		if status != http.StatusCreated {
			t.Fatalf("add edge %v: status %d body %v", e, status, body)
		}
	}

	status, body := testutil.DoJSON(t, app, http.MethodGet, "/family/relationships", nil, token)
	if status != http.StatusOK {
		t.Fatalf("list: status %d body %v", status, body)
	}
	grouped := testutil.Data(t, body)
	if len(grouped) != 2 {
		t.Fatalf("groups = %d, want 2: %v", len(grouped), grouped)
	}
	first := grouped[firstID].([]any)
	if len(first) != 1 || first[0].(map[string]any)["relationship_type"] != "Father" {
		t.Errorf("first member's group = %v", first)
	}
	if name := first[0].(map[string]any)["related_member_name"]; name != "Sam Pair" {
		t.Errorf("related member name = %v", name)
	}
}
