package handler

import (
	"net/http"
	"strings"

	"github.com/templui/medtrack/internal/ctxkeys"
	"github.com/templui/medtrack/internal/service"
)

type CheckinHandler struct {
	checkinService *service.CheckinService
}

func NewCheckinHandler(checkinService *service.CheckinService) *CheckinHandler {
	return &CheckinHandler{
		checkinService: checkinService,
	}
}

func (h *CheckinHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	switch r.Method {
	case http.MethodGet:
		if date := r.URL.Query().Get("date"); date != "" {
			checkin, err := h.checkinService.ByDate(r.Context(), user.ID, date)
			if err != nil {
				writeServiceError(w, r, err, "get check-in")
				return
			}
			writeJSON(w, http.StatusOK, checkin)
			return
		}

		checkins, err := h.checkinService.List(r.Context(), user.ID)
		if err != nil {
			writeServiceError(w, r, err, "list check-ins")
			return
		}
		writeJSON(w, http.StatusOK, checkins)

	case http.MethodPost:
		var in service.CheckinInput
		if !decodeJSON(w, r, &in) {
			return
		}
		checkin, err := h.checkinService.Create(r.Context(), user.ID, in)
		if err != nil {
			writeServiceError(w, r, err, "create check-in")
			return
		}
		writeJSON(w, http.StatusCreated, checkin)

	case http.MethodPut:
		var in service.CheckinInput
		if !decodeJSON(w, r, &in) {
			return
		}
		checkin, err := h.checkinService.Update(r.Context(), user.ID, in)
		if err != nil {
			writeServiceError(w, r, err, "update check-in")
			return
		}
		writeJSON(w, http.StatusOK, checkin)

	case http.MethodDelete:
		id := strings.TrimSpace(r.URL.Query().Get("id"))
		err := h.checkinService.Delete(r.Context(), user.ID, id)
		if err != nil {
			writeServiceError(w, r, err, "delete check-in")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"success": true})

	default:
		methodNotAllowed(w, http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete)
	}
}
