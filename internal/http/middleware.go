package http

import (
	"log/slog"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/example/studio-booking/internal/application"
)

// StaffChecker answers whether a staff label belongs to the configured roster.
type StaffChecker interface {
	IsStaff(name string) bool
}

// RequireStaff rejects mutation requests that do not carry a roster member in
// the X-Studio-Staff header. Paths listed in exempt bypass the check, so the
// login endpoint and the calendar feed stay reachable without the header.
func RequireStaff(checker StaffChecker, logger *slog.Logger, exempt ...string) func(http.Handler) http.Handler {
	responder := newResponder(logger)
	exemptPaths := make(map[string]struct{}, len(exempt))
	for _, path := range exempt {
		exemptPaths[path] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := exemptPaths[r.URL.Path]; ok {
				next.ServeHTTP(w, r)
				return
			}

			name := strings.TrimSpace(r.Header.Get("X-Studio-Staff"))
			if name == "" {
				responder.writeError(r.Context(), w, http.StatusUnauthorized, errMissingStaff)
				return
			}
			if checker == nil || !checker.IsStaff(name) {
				responder.writeJSON(r.Context(), w, http.StatusUnauthorized, errorResponse{
					ErrorCode: "AUTH_UNKNOWN_STAFF",
					Message:   "unknown staff member",
				})
				return
			}

			ctx := ContextWithPrincipal(r.Context(), application.Principal{Staff: name})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequestLogger attaches a request-scoped logger carrying a per-process
// request id, and logs request start and completion.
func RequestLogger(base *slog.Logger) func(http.Handler) http.Handler {
	if base == nil {
		base = slog.Default()
	}
	var counter atomic.Uint64

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := counter.Add(1)
			logger := base.With(
				"request_id", id,
				"method", r.Method,
				"path", r.URL.Path,
			)

			ctx := ContextWithLogger(r.Context(), logger)
			start := time.Now()
			logger.InfoContext(ctx, "request started")
			next.ServeHTTP(w, r.WithContext(ctx))
			logger.InfoContext(ctx, "request completed", "duration", time.Since(start))
		})
	}
}
