package controller_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"

	"famhealth_backend/internals/testutil"
)

func setupMember(t *testing.T, app *fiber.App, tag string) (token, memberID string) {
	t.Helper()
	token, _ = testutil.RegisterFamily(t, app, fmt.Sprintf("admin-%s@vital.test", tag), "Family "+tag, "Ann", tag)

	status, body := testutil.DoJSON(t, app, http.MethodPost, "/family/members/initial", map[string]any{
		"name":     "Ann " + tag,
		"email":    fmt.Sprintf("ann-%s@vital.test", tag),
		"password": "s3cret-pass",
	}, token)
	if status != http.StatusCreated {
		t.Fatalf("initial member: status %d body %v", status, body)
	}
	return token, testutil.Data(t, body)["id"].(string)
}

func recordVital(t *testing.T, app *fiber.App, token, memberID, vitalType string, value float64, unit, recordedAt string) map[string]any {
	t.Helper()
	status, body := testutil.DoJSON(t, app, http.MethodPost, "/family/members/"+memberID+"/vitals", map[string]any{
		"vital_type":  vitalType,
		"value":       value,
		"unit":        unit,
		"recorded_at": recordedAt,
	}, token)
	if status != http.StatusCreated {
		t.Fatalf("record %s: status %d body %v", vitalType, status, body)
	}
	return testutil.Data(t, body)
}

func TestCreateAndListVitals(t *testing.T) {
	app, _ := testutil.NewTestApp(t)
	token, memberID := setupMember(t, app, "list")

	recordVital(t, app, token, memberID, "weight", 81.2, "kg", "2026-08-01T08:00:00Z")
	recordVital(t, app, token, memberID, "weight", 80.4, "kg", "2026-08-10T08:00:00Z")
	recordVital(t, app, token, memberID, "heart_rate", 62, "bpm", "2026-08-10T08:05:00Z")

	status, body := testutil.DoJSON(t, app, http.MethodGet, "/family/members/"+memberID+"/vitals", nil, token)
	if status != http.StatusOK {
		t.Fatalf("list: status %d body %v", status, body)
	}
	all := testutil.DataList(t, body)
	if len(all) != 3 {
		t.Fatalf("vitals = %d, want 3", len(all))
	}
	// newest recorded_at first
	if vt := all[0].(map[string]any)["vital_type"]; vt != "heart_rate" {
		t.Errorf("first listed = %v, want heart_rate", vt)
	}
	pagination, ok := body["pagination"].(map[string]any)
	if !ok {
		t.Fatalf("missing pagination: %v", body)
	}
	if pagination["total"] != float64(3) {
		t.Errorf("pagination total = %v", pagination["total"])
	}

	// type filter
	status, body = testutil.DoJSON(t, app, http.MethodGet, "/family/members/"+memberID+"/vitals?vital_type=weight", nil, token)
	if status != http.StatusOK {
		t.Fatalf("filtered list: status %d body %v", status, body)
	}
	if got := testutil.DataList(t, body); len(got) != 2 {
		t.Errorf("weight vitals = %d, want 2", len(got))
	}
}

func TestCreateVitalRejectsUnknownType(t *testing.T) {
	app, _ := testutil.NewTestApp(t)
	token, memberID := setupMember(t, app, "badtype")

	status, body := testutil.DoJSON(t, app, http.MethodPost, "/family/members/"+memberID+"/vitals", map[string]any{
		"vital_type":  "midichlorians",
		"value":       9000.0,
		"unit":        "count",
		"recorded_at": "2026-08-01T08:00:00Z",
	}, token)
	if status != http.StatusBadRequest {
		t.Fatalf("unknown vital type: status %d body %v", status, body)
	}
}

func TestUpdateVitalIsPartial(t *testing.T) {
	app, _ := testutil.NewTestApp(t)
	token, memberID := setupMember(t, app, "upd")

	vital := recordVital(t, app, token, memberID, "blood_glucose", 5.4, "mmol/L", "2026-08-02T07:30:00Z")
	vitalID := vital["id"].(string)

	status, body := testutil.DoJSON(t, app, http.MethodPut, "/family/vitals/"+vitalID, map[string]any{
		"value": 5.9,
	}, token)
	if status != http.StatusOK {
		t.Fatalf("update: status %d body %v", status, body)
	}
	got := testutil.Data(t, body)
	if got["value"] != 5.9 {
		t.Errorf("value = %v", got["value"])
	}
	if got["unit"] != "mmol/L" {
		t.Errorf("unit changed: %v", got["unit"])
	}

	status, body = testutil.DoJSON(t, app, http.MethodPut, "/family/vitals/"+vitalID, map[string]any{}, token)
	if status != http.StatusBadRequest {
		t.Fatalf("empty update: status %d body %v", status, body)
	}
}

func TestDeleteVital(t *testing.T) {
	app, _ := testutil.NewTestApp(t)
	token, memberID := setupMember(t, app, "del")

	vital := recordVital(t, app, token, memberID, "temperature", 36.7, "°C", "2026-08-03T19:00:00Z")
	vitalID := vital["id"].(string)

	status, body := testutil.DoJSON(t, app, http.MethodDelete, "/family/vitals/"+vitalID, nil, token)
	if status != http.StatusOK {
		t.Fatalf("delete: status %d body %v", status, body)
	}

	status, body = testutil.DoJSON(t, app, http.MethodDelete, "/family/vitals/"+vitalID, nil, token)
	if status != http.StatusNotFound {
		t.Fatalf("delete again: status %d body %v", status, body)
	}
}

func TestVitalFamilyScoping(t *testing.T) {
	app, _ := testutil.NewTestApp(t)
	token, memberID := setupMember(t, app, "mine")
	vital := recordVital(t, app, token, memberID, "weight", 75, "kg", "2026-08-04T08:00:00Z")
	vitalID := vital["id"].(string)

	otherToken, _ := testutil.RegisterFamily(t, app, "intruder@vital.test", "Intruders", "Ivo", "I")

	status, body := testutil.DoJSON(t, app, http.MethodGet, "/family/members/"+memberID+"/vitals", nil, otherToken)
	if status != http.StatusNotFound {
		t.Fatalf("cross-family list: status %d body %v", status, body)
	}
	status, body = testutil.DoJSON(t, app, http.MethodPut, "/family/vitals/"+vitalID, map[string]any{"value": 1.0}, otherToken)
	if status != http.StatusNotFound {
		t.Fatalf("cross-family update: status %d body %v", status, body)
	}
	status, body = testutil.DoJSON(t, app, http.MethodDelete, "/family/vitals/"+vitalID, nil, otherToken)
	if status != http.StatusNotFound {
		t.Fatalf("cross-family delete: status %d body %v", status, body)
	}
}

func TestBMIFromLatestHeightAndWeight(t *testing.T) {
	app, _ := testutil.NewTestApp(t)
	token, memberID := setupMember(t, app, "bmi")

	recordVital(t, app, token, memberID, "height", 182, "cm", "2026-01-05T10:00:00Z")
	recordVital(t, app, token, memberID, "weight", 90, "kg", "2026-07-01T08:00:00Z")
	// stale weight ignored in favour of the newer one
	recordVital(t, app, token, memberID, "weight", 84.5, "kg", "2026-08-20T08:00:00Z")

	status, body := testutil.DoJSON(t, app, http.MethodGet, "/family/members/"+memberID+"/vitals/bmi", nil, token)
	if status != http.StatusOK {
		t.Fatalf("bmi: status %d body %v", status, body)
	}
	got := testutil.Data(t, body)
	// 84.5 / 1.82^2 = 25.51 -> rounded to one decimal
	if got["bmi"] != 25.5 {
		t.Errorf("bmi = %v, want 25.5", got["bmi"])
	}
	if got["height_cm"] != float64(182) {
		t.Errorf("height_cm = %v", got["height_cm"])
	}
	if got["weight_kg"] != 84.5 {
		t.Errorf("weight_kg = %v", got["weight_kg"])
	}
}

func TestBMIReportsStorageFailure(t *testing.T) {
	app, db := testutil.NewTestApp(t)
	token, memberID := setupMember(t, app, "dbfail")

	// a broken vitals store is a server fault, not "nothing recorded yet"
	if err := db.Exec("DROP TABLE health_vitals").Error; err != nil {
		t.Fatalf("drop table: %v", err)
	}

	status, body := testutil.DoJSON(t, app, http.MethodGet, "/family/members/"+memberID+"/vitals/bmi", nil, token)
	if status != http.StatusInternalServerError {
		t.Fatalf("bmi with broken store: status %d body %v", status, body)
	}
}

func TestBMIRequiresBothMeasurements(t *testing.T) {
	app, _ := testutil.NewTestApp(t)
	token, memberID := setupMember(t, app, "nobmi")

	status, body := testutil.DoJSON(t, app, http.MethodGet, "/family/members/"+memberID+"/vitals/bmi", nil, token)
	if status != http.StatusNotFound {
		t.Fatalf("bmi without measurements: status %d body %v", status, body)
	}

	recordVital(t, app, token, memberID, "height", 170, "cm", "2026-08-01T08:00:00Z")
	status, body = testutil.DoJSON(t, app, http.MethodGet, "/family/members/"+memberID+"/vitals/bmi", nil, token)
	if status != http.StatusNotFound {
		t.Fatalf("bmi with height only: status %d body %v", status, body)
	}
}
