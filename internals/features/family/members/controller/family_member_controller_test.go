package controller_test

import (
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"

	memberModel "famhealth_backend/internals/features/family/members/model"
	relationModel "famhealth_backend/internals/features/family/relationships/model"
	vitalModel "famhealth_backend/internals/features/health/vitals/model"
	userModel "famhealth_backend/internals/features/users/user/model"
	"famhealth_backend/internals/testutil"
)

// mustAddInitial bootstraps the family's first member and returns its id.
func mustAddInitial(t *testing.T, app *fiber.App, token, name, email string) string {
	t.Helper()
	status, body := testutil.DoJSON(t, app, http.MethodPost, "/family/members/initial", map[string]any{
		"name":     name,
		"email":    email,
		"password": "s3cret-pass",
	}, token)
	if status != http.StatusCreated {
		t.Fatalf("add initial member %s: status %d body %v", name, status, body)
	}
	return testutil.Data(t, body)["id"].(string)
}

func TestAddInitialMemberBootstrapsEmptyFamily(t *testing.T) {
	app, _ := testutil.NewTestApp(t)
	token, _ := testutil.RegisterFamily(t, app, "root@fam.test", "Roots", "Rae", "Root")

	status, body := testutil.DoJSON(t, app, http.MethodPost, "/family/members/initial", map[string]any{
		"name":     "Rae Root",
		"email":    "rae.member@fam.test",
		"password": "s3cret-pass",
	}, token)
	if status != http.StatusCreated {
		t.Fatalf("add initial: status %d body %v", status, body)
	}
	member := testutil.Data(t, body)
	if member["name"] != "Rae Root" {
		t.Errorf("name = %v", member["name"])
	}
	if rels, ok := member["relationships"].([]any); !ok || len(rels) != 0 {
		t.Errorf("initial member relationships = %v, want empty list", member["relationships"])
	}
}

func TestAddInitialMemberGuard(t *testing.T) {
	app, db := testutil.NewTestApp(t)
	token, _ := testutil.RegisterFamily(t, app, "guard@fam.test", "Guards", "Gia", "Guard")

	status, body := testutil.DoJSON(t, app, http.MethodPost, "/family/members/initial", map[string]any{
		"name":     "Gia Guard",
		"email":    "gia.member@fam.test",
		"password": "s3cret-pass",
	}, token)
	if status != http.StatusCreated {
		t.Fatalf("first initial add: status %d body %v", status, body)
	}

	var usersBefore int64
	db.Model(&userModel.UserModel{}).Count(&usersBefore)

	status, body = testutil.DoJSON(t, app, http.MethodPost, "/family/members/initial", map[string]any{
		"name":     "Second Try",
		"email":    "second@fam.test",
		"password": "s3cret-pass",
	}, token)
	if status != http.StatusBadRequest {
		t.Fatalf("second initial add: status %d body %v", status, body)
	}

	// the rejected call must create nothing
	var usersAfter, members int64
	db.Model(&userModel.UserModel{}).Count(&usersAfter)
	db.Model(&memberModel.FamilyMemberModel{}).Count(&members)
	if usersAfter != usersBefore {
		t.Errorf("users after rejected add = %d, want %d", usersAfter, usersBefore)
	}
	if members != 1 {
		t.Errorf("members = %d, want 1", members)
	}
}

func TestAddInitialMemberEmailConflict(t *testing.T) {
	app, _ := testutil.NewTestApp(t)
	token, _ := testutil.RegisterFamily(t, app, "admin@conf.test", "Confs", "Cal", "Conf")

	// reusing the admin's login email must fail
	status, body := testutil.DoJSON(t, app, http.MethodPost, "/family/members/initial", map[string]any{
		"name":     "Cal Conf",
		"email":    "admin@conf.test",
		"password": "s3cret-pass",
	}, token)
	if status != http.StatusConflict {
		t.Fatalf("initial add with admin email: status %d body %v", status, body)
	}
}

func TestAddMemberRequiresRelationshipsField(t *testing.T) {
	app, _ := testutil.NewTestApp(t)
	token, _ := testutil.RegisterFamily(t, app, "req@fam.test", "Reqs", "Ria", "Req")

	testutil.DoJSON(t, app, http.MethodPost, "/family/members/initial", map[string]any{
		"name": "Ria Req", "email": "ria.member@fam.test", "password": "s3cret-pass",
	}, token)

	// field absent -> rejected
	status, body := testutil.DoJSON(t, app, http.MethodPost, "/family/members", map[string]any{
		"name":     "No Rels",
		"email":    "norels@fam.test",
		"password": "s3cret-pass",
	}, token)
	if status != http.StatusBadRequest {
		t.Fatalf("add without relationships field: status %d body %v", status, body)
	}

	// field present but empty -> accepted
	status, body = testutil.DoJSON(t, app, http.MethodPost, "/family/members", map[string]any{
		"name":          "Empty Rels",
		"email":         "emptyrels@fam.test",
		"password":      "s3cret-pass",
		"relationships": []any{},
	}, token)
	if status != http.StatusCreated {
		t.Fatalf("add with empty relationships: status %d body %v", status, body)
	}
}

func TestAddMemberHusbandCreatesReciprocalWife(t *testing.T) {
	app, _ := testutil.NewTestApp(t)
	token, _ := testutil.RegisterFamily(t, app, "smith@rec.test", "Smiths", "Jane", "Smith")

	janeID := mustAddInitial(t, app, token, "Jane Smith", "jane.m@rec.test")

	status, body := testutil.DoJSON(t, app, http.MethodPost, "/family/members", map[string]any{
		"name":     "John Smith",
		"email":    "john@rec.test",
		"password": "s3cret-pass",
		"relationships": []any{
			map[string]any{"related_member_id": janeID, "relationship_type": "Husband"},
		},
	}, token)
	if status != http.StatusCreated {
		t.Fatalf("add John: status %d body %v", status, body)
	}
	john := testutil.Data(t, body)
	johnRels := john["relationships"].([]any)
	if len(johnRels) != 1 {
		t.Fatalf("John's edges = %d, want 1", len(johnRels))
	}
	edge := johnRels[0].(map[string]any)
	if edge["relationship_type"] != "Husband" || edge["related_member_id"] != janeID {
		t.Errorf("John's edge = %v", edge)
	}

	// Jane got the reciprocal Wife edge
	status, body = testutil.DoJSON(t, app, http.MethodGet, "/family/members/"+janeID, nil, token)
	if status != http.StatusOK {
		t.Fatalf("get Jane: status %d body %v", status, body)
	}
	jane := testutil.Data(t, body)
	janeRels := jane["relationships"].([]any)
	if len(janeRels) != 1 {
		t.Fatalf("Jane's edges = %d, want 1: %v", len(janeRels), janeRels)
	}
	edge = janeRels[0].(map[string]any)
	if edge["relationship_type"] != "Wife" {
		t.Errorf("Jane's reciprocal edge type = %v, want Wife", edge["relationship_type"])
	}
	if edge["related_member_name"] != "John Smith" {
		t.Errorf("Jane's edge related name = %v", edge["related_member_name"])
	}
}

func TestAddMemberMotherIsOneDirectional(t *testing.T) {
	app, _ := testutil.NewTestApp(t)
	token, _ := testutil.RegisterFamily(t, app, "mono@rec.test", "Monos", "Mae", "Mono")

	kidID := mustAddInitial(t, app, token, "Kim Mono", "kim@rec.test")

	status, body := testutil.DoJSON(t, app, http.MethodPost, "/family/members", map[string]any{
		"name":     "Mae Mono",
		"email":    "mae@rec.test",
		"password": "s3cret-pass",
		"relationships": []any{
			map[string]any{"related_member_id": kidID, "relationship_type": "Mother"},
		},
	}, token)
	if status != http.StatusCreated {
		t.Fatalf("add Mae: status %d body %v", status, body)
	}

	status, body = testutil.DoJSON(t, app, http.MethodGet, "/family/members/"+kidID, nil, token)
	if status != http.StatusOK {
		t.Fatalf("get kid: status %d body %v", status, body)
	}
	if rels := testutil.Data(t, body)["relationships"].([]any); len(rels) != 0 {
		t.Errorf("Mother edge produced a reciprocal: %v", rels)
	}
}

func TestAddMemberRollsBackOnInvalidTarget(t *testing.T) {
	app, db := testutil.NewTestApp(t)
	token, _ := testutil.RegisterFamily(t, app, "atomic@fam.test", "Atomics", "Ada", "Atomic")
	adaID := mustAddInitial(t, app, token, "Ada Atomic", "ada.m@fam.test")

	var usersBefore, membersBefore, edgesBefore int64
	db.Model(&userModel.UserModel{}).Count(&usersBefore)
	db.Model(&memberModel.FamilyMemberModel{}).Count(&membersBefore)
	db.Model(&relationModel.FamilyRelationshipModel{}).Count(&edgesBefore)

	// one valid target, one id from nowhere
	status, body := testutil.DoJSON(t, app, http.MethodPost, "/family/members", map[string]any{
		"name":     "Bad Edge",
		"email":    "bad@fam.test",
		"password": "s3cret-pass",
		"relationships": []any{
			map[string]any{"related_member_id": adaID, "relationship_type": "Sister"},
			map[string]any{"related_member_id": "b10cced0-0000-4000-8000-000000000bad", "relationship_type": "Brother"},
		},
	}, token)
	if status != http.StatusBadRequest {
		t.Fatalf("add with invalid target: status %d body %v", status, body)
	}

	// full rollback: no user, member or edge survived
	var usersAfter, membersAfter, edgesAfter int64
	db.Model(&userModel.UserModel{}).Count(&usersAfter)
	db.Model(&memberModel.FamilyMemberModel{}).Count(&membersAfter)
	db.Model(&relationModel.FamilyRelationshipModel{}).Count(&edgesAfter)
	if usersAfter != usersBefore || membersAfter != membersBefore || edgesAfter != edgesBefore {
		t.Errorf("rollback leaked rows: users %d->%d members %d->%d edges %d->%d",
			usersBefore, usersAfter, membersBefore, membersAfter, edgesBefore, edgesAfter)
	}
}

func TestUpdateMemberIsPartial(t *testing.T) {
	app, _ := testutil.NewTestApp(t)
	token, _ := testutil.RegisterFamily(t, app, "upd@fam.test", "Upds", "Uma", "Upd")

	status, body := testutil.DoJSON(t, app, http.MethodPost, "/family/members/initial", map[string]any{
		"name":          "Uma Upd",
		"email":         "uma.m@fam.test",
		"password":      "s3cret-pass",
		"date_of_birth": "1990-04-01",
		"gender":        "female",
	}, token)
	if status != http.StatusCreated {
		t.Fatalf("add initial: status %d body %v", status, body)
	}
	memberID := testutil.Data(t, body)["id"].(string)

	status, body = testutil.DoJSON(t, app, http.MethodPut, "/family/members/"+memberID, map[string]any{
		"name": "Uma Updated",
	}, token)
	if status != http.StatusOK {
		t.Fatalf("update name: status %d body %v", status, body)
	}
	got := testutil.Data(t, body)
	if got["name"] != "Uma Updated" {
		t.Errorf("name = %v", got["name"])
	}
	if got["date_of_birth"] != "1990-04-01" {
		t.Errorf("date_of_birth changed: %v", got["date_of_birth"])
	}
	if got["gender"] != "female" {
		t.Errorf("gender changed: %v", got["gender"])
	}

	// zero supplied fields is a client error
	status, body = testutil.DoJSON(t, app, http.MethodPut, "/family/members/"+memberID, map[string]any{}, token)
	if status != http.StatusBadRequest {
		t.Fatalf("empty update: status %d body %v", status, body)
	}
}

func TestMemberFamilyScoping(t *testing.T) {
	app, _ := testutil.NewTestApp(t)

	tokenA, _ := testutil.RegisterFamily(t, app, "a@scope.test", "Family A", "Ana", "A")
	memberA := mustAddInitial(t, app, tokenA, "Ana A", "ana.m@scope.test")

	tokenB, _ := testutil.RegisterFamily(t, app, "b@scope.test", "Family B", "Ben", "B")
	mustAddInitial(t, app, tokenB, "Ben B", "ben.m@scope.test")

	// family B cannot see, change or delete family A's member
	for _, tc := range []struct {
		name   string
		method string
		path   string
		body   map[string]any
	}{
		{"get", http.MethodGet, "/family/members/" + memberA, nil},
		{"update", http.MethodPut, "/family/members/" + memberA, map[string]any{"name": "Hacked"}},
		{"delete", http.MethodDelete, "/family/members/" + memberA, nil},
	} {
		t.Run(tc.name, func(t *testing.T) {
			status, body := testutil.DoJSON(t, app, tc.method, tc.path, tc.body, tokenB)
			if status != http.StatusNotFound {
				t.Fatalf("cross-family %s: status %d body %v", tc.name, status, body)
			}
		})
	}

	// and B's member list contains only B's member
	status, body := testutil.DoJSON(t, app, http.MethodGet, "/family/members", nil, tokenB)
	if status != http.StatusOK {
		t.Fatalf("list B: status %d body %v", status, body)
	}
	members := testutil.DataList(t, body)
	if len(members) != 1 {
		t.Fatalf("B sees %d members, want 1", len(members))
	}
	if members[0].(map[string]any)["name"] != "Ben B" {
		t.Errorf("B sees member %v", members[0])
	}
}

func TestDeleteMemberCascades(t *testing.T) {
	app, db := testutil.NewTestApp(t)
	token, _ := testutil.RegisterFamily(t, app, "casc@fam.test", "Cascades", "Cas", "Cade")

	keepID := mustAddInitial(t, app, token, "Keep Cade", "keep@fam.test")

	status, body := testutil.DoJSON(t, app, http.MethodPost, "/family/members", map[string]any{
		"name":     "Gone Cade",
		"email":    "gone@fam.test",
		"password": "s3cret-pass",
		"relationships": []any{
			map[string]any{"related_member_id": keepID, "relationship_type": "Husband"},
		},
	}, token)
	if status != http.StatusCreated {
		t.Fatalf("add member: status %d body %v", status, body)
	}
	goneID := testutil.Data(t, body)["id"].(string)

	status, body = testutil.DoJSON(t, app, http.MethodPost, "/family/members/"+goneID+"/vitals", map[string]any{
		"vital_type":  "weight",
		"value":       80.5,
		"unit":        "kg",
		"recorded_at": "2026-08-01T09:00:00Z",
	}, token)
	if status != http.StatusCreated {
		t.Fatalf("record vital: status %d body %v", status, body)
	}

	status, body = testutil.DoJSON(t, app, http.MethodDelete, "/family/members/"+goneID, nil, token)
	if status != http.StatusOK {
		t.Fatalf("delete member: status %d body %v", status, body)
	}

	// edges in both directions and the vitals are gone with the member
	var edges, vitals int64
	db.Model(&relationModel.FamilyRelationshipModel{}).
		Where("member_id = ? OR related_member_id = ?", goneID, goneID).
		Count(&edges)
	db.Model(&vitalModel.HealthVitalModel{}).Where("member_id = ?", goneID).Count(&vitals)
	if edges != 0 {
		t.Errorf("edges referencing deleted member = %d, want 0", edges)
	}
	if vitals != 0 {
		t.Errorf("vitals of deleted member = %d, want 0", vitals)
	}

	status, body = testutil.DoJSON(t, app, http.MethodGet, "/family/members/"+goneID, nil, token)
	if status != http.StatusNotFound {
		t.Fatalf("get after delete: status %d body %v", status, body)
	}
}

func TestDeleteMemberIsAdminOnly(t *testing.T) {
	app, _ := testutil.NewTestApp(t)
	token, _ := testutil.RegisterFamily(t, app, "role@fam.test", "Roles", "Rey", "Role")
	memberID := mustAddInitial(t, app, token, "Rey Role", "rey.m@fam.test")

	// the initial member's linked user is non_admin
	status, body := testutil.DoJSON(t, app, http.MethodPost, "/auth/login", map[string]any{
		"email":    "rey.m@fam.test",
		"password": "s3cret-pass",
	}, "")
	if status != http.StatusOK {
		t.Fatalf("login as member user: status %d body %v", status, body)
	}
	memberToken := testutil.Data(t, body)["token"].(string)

	status, body = testutil.DoJSON(t, app, http.MethodDelete, "/family/members/"+memberID, nil, memberToken)
	if status != http.StatusForbidden {
		t.Fatalf("delete as non_admin: status %d body %v", status, body)
	}

	status, body = testutil.DoJSON(t, app, http.MethodDelete, "/family/members/"+memberID, nil, token)
	if status != http.StatusOK {
		t.Fatalf("delete as admin: status %d body %v", status, body)
	}
}
