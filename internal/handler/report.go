package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/templui/medtrack/internal/ctxkeys"
	"github.com/templui/medtrack/internal/service"
)

type ReportHandler struct {
	reportService *service.ReportService
}

func NewReportHandler(reportService *service.ReportService) *ReportHandler {
	return &ReportHandler{
		reportService: reportService,
	}
}

func (h *ReportHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		if r.URL.Query().Has("id") {
			h.get(w, r)
			return
		}
		h.list(w, r)
	case http.MethodPost:
		h.create(w, r)
	case http.MethodDelete:
		h.delete(w, r)
	default:
		methodNotAllowed(w, http.MethodGet, http.MethodPost, http.MethodDelete)
	}
}

func (h *ReportHandler) list(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	reports, status, err := h.reportService.List(r.Context(), user)
	if err != nil {
		writeServiceError(w, r, err, "list reports")
		return
	}

	writeSafeJSON(w, http.StatusOK, map[string]any{
		"reports":      reports,
		"subscription": status,
	})
}

func (h *ReportHandler) get(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())
	id := r.URL.Query().Get("id")

	includeData, _ := strconv.ParseBool(r.URL.Query().Get("includeData"))
	if includeData {
		data, err := h.reportService.Full(r.Context(), user.ID, id)
		if err != nil {
			writeServiceError(w, r, err, "load report data")
			return
		}
		writeSafeJSON(w, http.StatusOK, data)
		return
	}

	report, err := h.reportService.ByID(r.Context(), user.ID, id)
	if err != nil {
		writeServiceError(w, r, err, "load report")
		return
	}
	writeSafeJSON(w, http.StatusOK, report)
}

func (h *ReportHandler) create(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	var in service.ReportInput
	if !decodeJSON(w, r, &in) {
		return
	}

	report, status, err := h.reportService.Create(r.Context(), user, in)
	if err != nil {
		writeServiceError(w, r, err, "create report")
		return
	}

	slog.Info("report created", "user_id", user.ID, "report_id", report.ID, "reports_created", status.ReportsCreated)
	writeSafeJSON(w, http.StatusCreated, map[string]any{
		"report":       report,
		"subscription": status,
	})
}

func (h *ReportHandler) delete(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	err := h.reportService.Delete(r.Context(), user.ID, r.URL.Query().Get("id"))
	if err != nil {
		writeServiceError(w, r, err, "delete report")
		return
	}
	writeSafeJSON(w, http.StatusOK, map[string]any{"success": true})
}

// writeSafeJSON is used for every report payload so oversized integers
// leave as strings.
