package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func serve(t *testing.T, h echo.HandlerFunc) (*httptest.ResponseRecorder, readinessResponse) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/health/ready", nil)
	rec := httptest.NewRecorder()
	if err := h(e.NewContext(req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	var body readinessResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &body)
	return rec, body
}

func TestLiveness(t *testing.T) {
	rec, _ := serve(t, NewHealthHandler().Liveness)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestReadiness_AllHealthy(t *testing.T) {
	h := NewHealthDependenciesHandler(map[string]Check{
		"redis": func(context.Context) error { return nil },
	})

	rec, body := serve(t, h.Readiness)
	if rec.Code != http.StatusOK || body.Status != "ok" {
		t.Fatalf("expected ok, got %d %+v", rec.Code, body)
	}
	if body.Dependencies["redis"].Status != "ok" {
		t.Fatalf("unexpected dependency status: %+v", body.Dependencies)
	}
}

func TestReadiness_NoChecks(t *testing.T) {
	rec, body := serve(t, NewHealthDependenciesHandler(nil).Readiness)
	if rec.Code != http.StatusOK || len(body.Dependencies) != 0 {
		t.Fatalf("expected ready with no dependencies, got %d %+v", rec.Code, body)
	}
}

func TestReadiness_Degraded(t *testing.T) {
	h := NewHealthDependenciesHandler(map[string]Check{
		"mongodb": func(context.Context) error { return errors.New("connection refused") },
		"redis":   func(context.Context) error { return nil },
	})

	rec, body := serve(t, h.Readiness)
	if rec.Code != http.StatusServiceUnavailable || body.Status != "degraded" {
		t.Fatalf("expected degraded, got %d %+v", rec.Code, body)
	}
	if body.Dependencies["mongodb"].Error != "connection refused" {
		t.Fatalf("unexpected mongodb status: %+v", body.Dependencies["mongodb"])
	}
}
