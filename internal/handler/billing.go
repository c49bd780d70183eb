package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/templui/medtrack/internal/ctxkeys"
	"github.com/templui/medtrack/internal/service"
)

type BillingHandler struct {
	subscriptionService *service.SubscriptionService
	usageService        *service.UsageService
}

func NewBillingHandler(subscriptionService *service.SubscriptionService, usageService *service.UsageService) *BillingHandler {
	return &BillingHandler{
		subscriptionService: subscriptionService,
		usageService:        usageService,
	}
}

// Subscription serves GET (status) and POST (start checkout) on /api/subscription.
func (h *BillingHandler) Subscription(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.status(w, r)
	case http.MethodPost:
		h.checkout(w, r)
	default:
		methodNotAllowed(w, http.MethodGet, http.MethodPost)
	}
}

func (h *BillingHandler) status(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	billing, err := h.subscriptionService.Status(r.Context(), user)
	if err != nil {
		writeServiceError(w, r, err, "get subscription status")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"billing":      billing,
		"subscription": h.usageService.FromBilling(r.Context(), user.ID, billing),
	})
}

func (h *BillingHandler) checkout(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	var in struct {
		Currency string `json:"currency"`
	}
	if !decodeJSON(w, r, &in) {
		return
	}
	if strings.TrimSpace(in.Currency) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "currency is required", "field": "currency"})
		return
	}

	checkoutURL, err := h.subscriptionService.CheckoutURL(r.Context(), user, in.Currency)
	if err != nil {
		writeServiceError(w, r, err, "create checkout")
		return
	}

	slog.Info("redirecting to checkout", "user_id", user.ID, "currency", in.Currency)
	http.Redirect(w, r, checkoutURL, http.StatusSeeOther)
}

// Portal redirects to the provider's self-service billing portal.
func (h *BillingHandler) Portal(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}
	user := ctxkeys.User(r.Context())

	portalURL, err := h.subscriptionService.PortalURL(r.Context(), user)
	if err != nil {
		writeServiceError(w, r, err, "create billing portal session")
		return
	}

	slog.Info("redirecting to customer portal", "user_id", user.ID)
	http.Redirect(w, r, portalURL, http.StatusSeeOther)
}
