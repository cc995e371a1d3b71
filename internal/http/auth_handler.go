package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/example/studio-booking/internal/application"
)

type authService interface {
	Login(ctx context.Context, name, passcode string) (application.Principal, error)
}

type AuthHandler struct {
	service   authService
	responder responder
	logger    *slog.Logger
}

func NewAuthHandler(service authService, logger *slog.Logger) *AuthHandler {
	base := defaultLogger(logger)
	return &AuthHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *AuthHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "AuthHandler", operation, attrs...)
}

// Login checks the submitted staff name against the roster, and the passcode
// against the studio hash when one is configured. On success the caller sends
// the confirmed name back as X-Studio-Staff on subsequent requests.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Login", "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode login request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	name := strings.TrimSpace(req.Staff)
	logger := h.log(r.Context(), "Login", "staff", name)

	principal, err := h.service.Login(r.Context(), name, req.Passcode)
	if err != nil {
		if errors.Is(err, application.ErrUnknownStaff) || errors.Is(err, application.ErrInvalidPasscode) {
			logger.ErrorContext(r.Context(), "login rejected", "error", err, "error_kind", application.ErrorKind(err))
			h.responder.handleServiceError(r.Context(), w, err)
			return
		}
		logger.ErrorContext(r.Context(), "login failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "staff logged in")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, loginResponse{Staff: principal.Staff})
}

type loginRequest struct {
	Staff    string `json:"staff"`
	Passcode string `json:"passcode"`
}

type loginResponse struct {
	Staff string `json:"staff"`
}
