package handler

import (
	"net/http"

	"github.com/templui/medtrack/internal/ctxkeys"
	"github.com/templui/medtrack/internal/service"
)

type SupportHandler struct {
	supportService *service.SupportService
}

func NewSupportHandler(supportService *service.SupportService) *SupportHandler {
	return &SupportHandler{
		supportService: supportService,
	}
}

// Token issues chat credentials for the caller's own support channel.
func (h *SupportHandler) Token(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}
	user := ctxkeys.User(r.Context())

	var in struct {
		Email string `json:"email"`
	}
	if !decodeJSON(w, r, &in) {
		return
	}

	creds, err := h.supportService.Credentials(r.Context(), user, in.Email)
	if err != nil {
		writeServiceError(w, r, err, "issue support credentials")
		return
	}

	writeJSON(w, http.StatusOK, creds)
}
