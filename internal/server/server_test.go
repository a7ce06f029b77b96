package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v3"

	"github.com/olealberto/msds-460-assignment-two/internal/loader"
	"github.com/olealberto/msds-460-assignment-two/internal/network"
	"github.com/olealberto/msds-460-assignment-two/internal/solver"
	"github.com/olealberto/msds-460-assignment-two/internal/store"
)

func newApp(t *testing.T, st store.Store) *fiber.App {
	t.Helper()
	return New(Config{
		Network: network.Builtin(),
		Store:   st,
		Logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
}

func do(t *testing.T, app *fiber.App, method, path, body string) (int, map[string]interface{}) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req, fiber.TestConfig{Timeout: 10 * time.Second})
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	data, _ := io.ReadAll(resp.Body)
	var out map[string]interface{}
	if len(data) > 0 && data[0] == '{' {
		if err := json.Unmarshal(data, &out); err != nil {
			t.Fatalf("%s %s: invalid JSON %q", method, path, data)
		}
	}
	return resp.StatusCode, out
}

func TestHealthz(t *testing.T) {
	status, body := do(t, newApp(t, nil), http.MethodGet, "/healthz", "")
	if status != http.StatusOK || body["status"] != "ok" {
		t.Errorf("unexpected health response %d %v", status, body)
	}
}

func TestGetNetwork(t *testing.T) {
	status, body := do(t, newApp(t, nil), http.MethodGet, "/network", "")
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	if acts := body["activities"].([]interface{}); len(acts) != 15 {
		t.Errorf("expected 15 activities, got %d", len(acts))
	}
	if roles := body["roles"].([]interface{}); len(roles) != 7 {
		t.Errorf("expected 7 roles, got %d", len(roles))
	}
}

func TestGetScenario(t *testing.T) {
	app := newApp(t, nil)

	status, body := do(t, app, http.MethodGet, "/scenarios/expected", "")
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d: %v", status, body)
	}
	sched := body["schedule"].(map[string]interface{})
	if sched["makespan"] != 390.0 {
		t.Errorf("expected makespan 390, got %v", sched["makespan"])
	}
	if c := body["cost"].(map[string]interface{}); c["total"] != 32380.0 {
		t.Errorf("expected total 32380, got %v", c["total"])
	}

	// aliases resolve
	status, body = do(t, app, http.MethodGet, "/scenarios/worst", "")
	if status != http.StatusOK || body["scenario"] != "pessimistic" {
		t.Errorf("expected pessimistic via alias, got %d %v", status, body["scenario"])
	}
}

func TestGetScenario_Unknown(t *testing.T) {
	status, _ := do(t, newApp(t, nil), http.MethodGet, "/scenarios/likely", "")
	if status != http.StatusNotFound {
		t.Errorf("expected 404, got %d", status)
	}
}

func TestGetScenarios(t *testing.T) {
	status, body := do(t, newApp(t, nil), http.MethodGet, "/scenarios", "")
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	scenarios := body["scenarios"].([]interface{})
	if len(scenarios) != 3 {
		t.Fatalf("expected 3 scenarios, got %d", len(scenarios))
	}
	for i, want := range []string{"optimistic", "pessimistic", "expected"} {
		if got := scenarios[i].(map[string]interface{})["scenario"]; got != want {
			t.Errorf("scenario %d: expected %s, got %v", i, want, got)
		}
	}
}

func TestSolve(t *testing.T) {
	data, err := loader.EncodeJSON(network.Builtin().Definition())
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	status, body := do(t, newApp(t, nil), http.MethodPost, "/solve", string(data))
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d: %v", status, body)
	}
	if len(body["scenarios"].([]interface{})) != 3 {
		t.Errorf("expected 3 scenarios, got %v", body["scenarios"])
	}
}

func TestSolve_InvalidNetwork(t *testing.T) {
	app := newApp(t, nil)
	tests := map[string]string{
		"malformed": `{"durations": `,
		"cycle": `{
  "durations": {"optimistic": {"a": 1, "b": 1}, "pessimistic": {"a": 1, "b": 1}, "expected": {"a": 1, "b": 1}},
  "roles": {"a": ["pm"], "b": ["pm"]},
  "rates": {"pm": 10},
  "precedences": {"a": ["b"], "b": ["a"]}
}`,
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			status, out := do(t, app, http.MethodPost, "/solve", body)
			if status != http.StatusUnprocessableEntity {
				t.Errorf("expected 422, got %d: %v", status, out)
			}
		})
	}
}

func TestRuns(t *testing.T) {
	st := store.NewFileStore(t.TempDir())
	app := newApp(t, st)

	status, body := do(t, app, http.MethodGet, "/scenarios?save=true", "")
	if status != http.StatusCreated {
		t.Fatalf("expected 201, got %d", status)
	}
	id, _ := body["id"].(string)
	if !store.ValidID(id) {
		t.Fatalf("expected a run id, got %v", body["id"])
	}

	status, body = do(t, app, http.MethodGet, "/runs/"+id, "")
	if status != http.StatusOK || body["id"] != id {
		t.Errorf("expected stored run, got %d %v", status, body)
	}

	req := httptest.NewRequest(http.MethodGet, "/runs", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	var list []store.Summary
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	resp.Body.Close()
	if len(list) != 1 || list[0].ID != id || list[0].Scenarios != 3 {
		t.Errorf("unexpected list %+v", list)
	}

	if status, _ := do(t, app, http.MethodDelete, "/runs/"+id, ""); status != http.StatusNoContent {
		t.Errorf("expected 204, got %d", status)
	}
	if status, _ := do(t, app, http.MethodGet, "/runs/"+id, ""); status != http.StatusNotFound {
		t.Errorf("expected 404 after delete, got %d", status)
	}
}

func TestRuns_DisabledWithoutStore(t *testing.T) {
	status, _ := do(t, newApp(t, nil), http.MethodGet, "/runs", "")
	if status != http.StatusNotFound {
		t.Errorf("expected 404 without a store, got %d", status)
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{store.ErrNotFound, http.StatusNotFound},
		{fmt.Errorf("load: %w", network.ErrConfig), http.StatusUnprocessableEntity},
		{loader.ErrFormat, http.StatusUnprocessableEntity},
		{fmt.Errorf("expected scenario: %w", solver.ErrInfeasible), http.StatusUnprocessableEntity},
		{fmt.Errorf("expected scenario: %w", solver.ErrSolver), http.StatusInternalServerError},
		{errors.New("disk on fire"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := statusFor(tt.err); got != tt.want {
			t.Errorf("statusFor(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}
