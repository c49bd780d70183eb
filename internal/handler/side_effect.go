package handler

import (
	"net/http"
	"strings"

	"github.com/templui/medtrack/internal/ctxkeys"
	"github.com/templui/medtrack/internal/service"
)

type SideEffectHandler struct {
	sideEffectService *service.SideEffectService
}

func NewSideEffectHandler(sideEffectService *service.SideEffectService) *SideEffectHandler {
	return &SideEffectHandler{
		sideEffectService: sideEffectService,
	}
}

func (h *SideEffectHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	switch r.Method {
	case http.MethodGet:
		effects, err := h.sideEffectService.List(r.Context(), user.ID)
		if err != nil {
			writeServiceError(w, r, err, "list side effects")
			return
		}
		writeJSON(w, http.StatusOK, effects)

	case http.MethodPost:
		var in service.SideEffectInput
		if !decodeJSON(w, r, &in) {
			return
		}
		effect, err := h.sideEffectService.Create(r.Context(), user.ID, in)
		if err != nil {
			writeServiceError(w, r, err, "create side effect")
			return
		}
		writeJSON(w, http.StatusCreated, effect)

	case http.MethodPut:
		var in service.SideEffectInput
		if !decodeJSON(w, r, &in) {
			return
		}
		effect, err := h.sideEffectService.Update(r.Context(), user.ID, in)
		if err != nil {
			writeServiceError(w, r, err, "update side effect")
			return
		}
		writeJSON(w, http.StatusOK, effect)

	case http.MethodDelete:
		id := strings.TrimSpace(r.URL.Query().Get("id"))
		err := h.sideEffectService.Delete(r.Context(), user.ID, id)
		if err != nil {
			writeServiceError(w, r, err, "delete side effect")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"success": true})

	default:
		methodNotAllowed(w, http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete)
	}
}
