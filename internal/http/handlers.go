package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/autostream-agent/server/internal/agent/graph"
	"github.com/autostream-agent/server/internal/agent/model"
	errx "github.com/autostream-agent/server/internal/core/error"
	logx "github.com/autostream-agent/server/pkg/logger"
)

// TurnHandler exposes the agent service over HTTP.
type TurnHandler struct {
	svc graph.Service
}

func NewTurnHandler(svc graph.Service) *TurnHandler {
	return &TurnHandler{svc: svc}
}

// RegisterRoutes mounts the session endpoints on the router.
func (h *TurnHandler) RegisterRoutes(r chi.Router) {
	r.Route("/v1/sessions/{sessionID}", func(r chi.Router) {
		r.Post("/turns", h.handleTurn)
		r.Delete("/", h.handleReset)
	})
}

type turnRequest struct {
	Message    string `json:"message"`
	Credential string `json:"credential,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (h *TurnHandler) handleTurn(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	var req turnRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errx.InvalidInput("malformed request body"))
		return
	}

	result, err := h.svc.ProcessTurn(r.Context(), model.TurnInput{
		SessionID:  sessionID,
		Message:    req.Message,
		Credential: req.Credential,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (h *TurnHandler) handleReset(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	if err := h.svc.ResetSession(r.Context(), sessionID); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logx.Error().Err(err).Msg("failed to encode response")
	}
}

// writeError maps application errors to HTTP responses without leaking
// internal detail: AppError carries its own status and safe message,
// everything else becomes a 500.
func writeError(w http.ResponseWriter, err error) {
	var appErr *errx.AppError
	if errors.As(err, &appErr) {
		writeJSON(w, appErr.Status, errorResponse{Error: appErr.Message})
		return
	}

	logx.Error().Err(err).Msg("unhandled error")
	writeJSON(w, http.StatusInternalServerError, errorResponse{Error: errx.SystemErrorMessage})
}
