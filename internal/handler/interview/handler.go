// Package interview exposes the coaching service over HTTP.
package interview

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	interviewService "github.com/Abdelgadir-Osman/ai-interview-coach/internal/service/interview"
	"github.com/Abdelgadir-Osman/ai-interview-coach/pkg/utils"
)

// Handler handles the interview REST endpoints.
type Handler struct {
	svc *interviewService.Service
}

// New creates the interview handler.
func New(svc *interviewService.Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes registers the interview routes on the API router.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/chat", h.handleChat)
	r.Post("/reset", h.handleReset)
	r.Get("/summary", h.handleSummary)
}

func (h *Handler) handleChat(w http.ResponseWriter, r *http.Request) {
	var req interviewService.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := req.Validate(); err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	resp, err := h.svc.HandleChat(r.Context(), req)
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "chat failed")
		return
	}

	utils.RespondJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleReset(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		SessionID string `json:"sessionId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.svc.Reset(r.Context(), payload.SessionID); err != nil {
		if errors.Is(err, interviewService.ErrMissingSessionID) {
			utils.RespondError(w, http.StatusBadRequest, "sessionId is required")
			return
		}
		utils.RespondError(w, http.StatusInternalServerError, "reset failed")
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (h *Handler) handleSummary(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("sessionId")

	summary, err := h.svc.GetSummary(r.Context(), sessionID)
	if err != nil {
		if errors.Is(err, interviewService.ErrMissingSessionID) {
			utils.RespondError(w, http.StatusBadRequest, "sessionId query parameter is required")
			return
		}
		utils.RespondError(w, http.StatusInternalServerError, "summary failed")
		return
	}

	utils.RespondJSON(w, http.StatusOK, summary)
}
