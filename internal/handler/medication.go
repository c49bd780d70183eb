package handler

import (
	"net/http"
	"strings"

	"github.com/templui/medtrack/internal/ctxkeys"
	"github.com/templui/medtrack/internal/service"
)

type MedicationHandler struct {
	medicationService *service.MedicationService
}

func NewMedicationHandler(medicationService *service.MedicationService) *MedicationHandler {
	return &MedicationHandler{
		medicationService: medicationService,
	}
}

func (h *MedicationHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	switch r.Method {
	case http.MethodGet:
		meds, err := h.medicationService.List(r.Context(), user.ID)
		if err != nil {
			writeServiceError(w, r, err, "list medications")
			return
		}
		writeJSON(w, http.StatusOK, meds)

	case http.MethodPost:
		var in service.MedicationInput
		if !decodeJSON(w, r, &in) {
			return
		}
		med, err := h.medicationService.Create(r.Context(), user.ID, in)
		if err != nil {
			writeServiceError(w, r, err, "create medication")
			return
		}
		writeJSON(w, http.StatusCreated, med)

	case http.MethodPut:
		var in service.MedicationInput
		if !decodeJSON(w, r, &in) {
			return
		}
		med, err := h.medicationService.Update(r.Context(), user.ID, in)
		if err != nil {
			writeServiceError(w, r, err, "update medication")
			return
		}
		writeJSON(w, http.StatusOK, med)

	case http.MethodDelete:
		id := strings.TrimSpace(r.URL.Query().Get("id"))
		err := h.medicationService.Delete(r.Context(), user.ID, id)
		if err != nil {
			writeServiceError(w, r, err, "delete medication")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"success": true})

	default:
		methodNotAllowed(w, http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete)
	}
}
