package handler

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/yndnr/devloop/internal/server/globals"
)

func newTestMux(t *testing.T, liveReload bool) (*http.ServeMux, *globals.Globals) {
	t.Helper()
	g := globals.New()
	h := New(Config{
		State:        g,
		LiveReload:   liveReload,
		BuildVersion: "v1.2.3",
		Logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	mux := http.NewServeMux()
	h.Register(mux)
	return mux, g
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHandler_Version(t *testing.T) {
	mux, g := newTestMux(t, true)

	rec := get(t, mux, "/api/devloop/version")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if body := rec.Body.String(); body != "0" {
		t.Errorf("body = %q, want 0", body)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
		t.Errorf("Content-Type = %q, want text/plain", ct)
	}

	g.IncrementVersion()
	g.IncrementVersion()
	g.IncrementVersion()

	if body := get(t, mux, "/api/devloop/version").Body.String(); body != "3" {
		t.Errorf("body = %q, want 3", body)
	}
}

func TestHandler_Status(t *testing.T) {
	mux, g := newTestMux(t, true)

	if body := get(t, mux, "/api/devloop/status").Body.String(); body != "" {
		t.Errorf("body = %q, want empty", body)
	}

	g.SetStatus("compiling...")
	if body := get(t, mux, "/api/devloop/status").Body.String(); body != "compiling..." {
		t.Errorf("body = %q, want compiling...", body)
	}

	g.ClearStatus()
	if body := get(t, mux, "/api/devloop/status").Body.String(); body != "" {
		t.Errorf("body = %q, want empty after clear", body)
	}
}

func TestHandler_Script(t *testing.T) {
	mux, _ := newTestMux(t, true)

	rec := get(t, mux, "/api/devloop/livereload.js")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{"/api/devloop/", "250", "0.3", "location.reload", `status.trim() === ""`} {
		if !strings.Contains(body, want) {
			t.Errorf("script missing %q", want)
		}
	}
}

func TestHandler_ProdHidesLiveReload(t *testing.T) {
	mux, _ := newTestMux(t, false)

	for _, path := range []string{
		"/api/devloop/version",
		"/api/devloop/status",
		"/api/devloop/livereload.js",
	} {
		if rec := get(t, mux, path); rec.Code != http.StatusNotFound {
			t.Errorf("GET %s status = %d, want 404", path, rec.Code)
		}
	}

	if rec := get(t, mux, "/health"); rec.Code != http.StatusOK {
		t.Errorf("GET /health status = %d, want 200", rec.Code)
	}
}

func TestHandler_Health(t *testing.T) {
	mux, g := newTestMux(t, true)
	g.IncrementVersion()
	g.SetStatus("busy")

	rec := get(t, mux, "/health")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var resp struct {
		Code string         `json:"code"`
		Data HealthResponse `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Code != "OK" {
		t.Errorf("code = %q, want OK", resp.Code)
	}
	if resp.Data.Status != "healthy" {
		t.Errorf("status = %q, want healthy", resp.Data.Status)
	}
	if resp.Data.Build != "v1.2.3" {
		t.Errorf("build = %q, want v1.2.3", resp.Data.Build)
	}
	if resp.Data.LiveVersion != 1 || !resp.Data.StatusSet {
		t.Errorf("live = (%d, %v), want (1, true)", resp.Data.LiveVersion, resp.Data.StatusSet)
	}
}

func TestHandler_MethodNotAllowed(t *testing.T) {
	mux, _ := newTestMux(t, true)

	req := httptest.NewRequest(http.MethodPost, "/api/devloop/version", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("POST status = %d, want 405", rec.Code)
	}
}

func TestNewErrorResponse(t *testing.T) {
	resp := NewErrorResponse("req-1", "DL-SRV-5000", "boom")
	if resp.Code != "DL-SRV-5000" || resp.Message != "boom" || resp.RequestID != "req-1" {
		t.Errorf("unexpected response: %+v", resp)
	}
	if resp.Timestamp == 0 {
		t.Error("Timestamp should be set")
	}
}
