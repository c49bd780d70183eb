package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/templui/medtrack/internal/ctxkeys"
	"github.com/templui/medtrack/internal/numsafe"
	"github.com/templui/medtrack/internal/repository"
	"github.com/templui/medtrack/internal/service"
	"github.com/templui/medtrack/internal/service/payment"
)

const maxBodyBytes = 1 << 20

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	err := json.NewEncoder(w).Encode(v)
	if err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// writeSafeJSON is writeJSON for payloads that may carry report data or
// usage counts; integers beyond 2^53 are sent as strings.
func writeSafeJSON(w http.ResponseWriter, status int, v any) {
	err := numsafe.WriteJSON(w, status, v)
	if err != nil {
		slog.Error("failed to encode response", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{"error": msg})
}

func methodNotAllowed(w http.ResponseWriter, allowed ...string) {
	w.Header().Set("Allow", strings.Join(allowed, ", "))
	writeError(w, http.StatusMethodNotAllowed, "method not allowed")
}

// decodeJSON reads a JSON body into v and answers 400 itself on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	err := json.NewDecoder(r.Body).Decode(v)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}

// writeServiceError maps service and repository errors onto status codes.
// Anything unrecognised is logged and becomes a 500.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error, action string) {
	var validationErr *service.ValidationError
	var conflictErr *service.ConflictError
	var quotaErr *service.QuotaError

	switch {
	case errors.As(err, &validationErr):
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": validationErr.Message, "field": validationErr.Field})
	case errors.As(err, &conflictErr):
		writeJSON(w, http.StatusConflict, map[string]any{"error": conflictErr.Error(), "existing": conflictErr.Existing})
	case errors.As(err, &quotaErr):
		writeSafeJSON(w, http.StatusForbidden, map[string]any{"error": quotaErr.Error(), "subscription": quotaErr.Status})
	case errors.Is(err, repository.ErrMedicationNotFound):
		writeError(w, http.StatusNotFound, "medication not found or does not belong to user")
	case errors.Is(err, repository.ErrSideEffectNotFound),
		errors.Is(err, repository.ErrCheckinNotFound),
		errors.Is(err, repository.ErrReportNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrEmailMismatch):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrUnsupportedCurrency):
		writeError(w, http.StatusBadRequest, "currency must be one of: usd, eur")
	case errors.Is(err, service.ErrNoBillingCustomer):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrSupportDisabled), errors.Is(err, payment.ErrNotConfigured):
		writeError(w, http.StatusServiceUnavailable, err.Error())
	default:
		attrs := []any{"error", err, "method", r.Method, "path", r.URL.Path}
		if user := ctxkeys.User(r.Context()); user != nil {
			attrs = append(attrs, "user_id", user.ID)
		}
		if id := ctxkeys.RequestID(r.Context()); id != "" {
			attrs = append(attrs, "request_id", id)
		}
		slog.Error("failed to "+action, attrs...)
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}
