package interview

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/Abdelgadir-Osman/ai-interview-coach/internal/service/ai"
	interviewService "github.com/Abdelgadir-Osman/ai-interview-coach/internal/service/interview"
	"github.com/Abdelgadir-Osman/ai-interview-coach/internal/store"
)

func setupRouter() *chi.Mux {
	sessions := store.NewSessions(store.NewMemoryKV())
	svc := interviewService.NewService(sessions, ai.NewResolver(nil))
	handler := New(svc)

	r := chi.NewRouter()
	handler.RegisterRoutes(r)
	return r
}

func postJSON(t *testing.T, r http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func TestChatReturnsEnvelope(t *testing.T) {
	r := setupRouter()

	resp := postJSON(t, r, "/chat", map[string]string{"sessionId": "s1", "message": "/start behavioral"})
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var body interviewService.ChatResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.SessionID != "s1" {
		t.Fatalf("sessionId = %q want s1", body.SessionID)
	}
	if strings.TrimSpace(body.Reply) == "" {
		t.Fatal("expected a non-empty reply")
	}
}

func TestChatGeneratesSessionID(t *testing.T) {
	r := setupRouter()

	resp := postJSON(t, r, "/chat", map[string]string{"message": "hi"})
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	var body interviewService.ChatResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.SessionID == "" {
		t.Fatal("expected a generated sessionId")
	}
}

func TestChatRejectsInvalidMode(t *testing.T) {
	r := setupRouter()

	resp := postJSON(t, r, "/chat", map[string]string{"sessionId": "s1", "mode": "wizard"})
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

func TestChatRejectsInvalidLevel(t *testing.T) {
	r := setupRouter()

	resp := postJSON(t, r, "/chat", map[string]string{"sessionId": "s1", "level": "staff"})
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

func TestChatRejectsMalformedBody(t *testing.T) {
	r := setupRouter()

	req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

func TestResetRequiresSessionID(t *testing.T) {
	r := setupRouter()

	resp := postJSON(t, r, "/reset", map[string]string{})
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

func TestResetOK(t *testing.T) {
	r := setupRouter()

	if resp := postJSON(t, r, "/chat", map[string]string{"sessionId": "s1", "message": "/start technical"}); resp.Code != http.StatusOK {
		t.Fatalf("seed chat failed: %d", resp.Code)
	}

	resp := postJSON(t, r, "/reset", map[string]string{"sessionId": "s1"})
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	var body map[string]bool
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !body["ok"] {
		t.Fatalf("expected ok=true, got %v", body)
	}
}

func TestSummaryRequiresSessionID(t *testing.T) {
	r := setupRouter()

	req := httptest.NewRequest(http.MethodGet, "/summary", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

func TestUnknownRouteNotFound(t *testing.T) {
	r := setupRouter()

	req := httptest.NewRequest(http.MethodGet, "/nope", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
}

func TestSummaryReportsState(t *testing.T) {
	r := setupRouter()

	if resp := postJSON(t, r, "/chat", map[string]string{"sessionId": "s1", "message": "/start behavioral"}); resp.Code != http.StatusOK {
		t.Fatalf("seed chat failed: %d", resp.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/summary?sessionId=s1", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	var body interviewService.Summary
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Mode != "behavioral" {
		t.Fatalf("mode = %q want behavioral", body.Mode)
	}
	if body.Stats.QuestionsAnswered != 0 {
		t.Fatalf("questionsAnswered = %d want 0", body.Stats.QuestionsAnswered)
	}
	if len(body.TopSignals) != 3 {
		t.Fatalf("expected top-3 signals, got %d", len(body.TopSignals))
	}
}
