package routes

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/templui/medtrack/internal/app"
	"github.com/templui/medtrack/internal/handler"
	"github.com/templui/medtrack/internal/middleware"
)

func SetupRoutes(app *app.App) http.Handler {
	// Handlers
	medications := handler.NewMedicationHandler(app.MedicationService)
	sideEffects := handler.NewSideEffectHandler(app.SideEffectService)
	checkins := handler.NewCheckinHandler(app.CheckinService)
	reports := handler.NewReportHandler(app.ReportService)
	billing := handler.NewBillingHandler(app.SubscriptionService, app.UsageService)
	support := handler.NewSupportHandler(app.SupportService)
	health := handler.NewHealthHandler(app.DB)

	requireUser := middleware.RequireUser(app.IdentityService)
	supportLimiter := middleware.RateLimit(middleware.NewRateLimiter(app.Cfg.SupportRateLimit, app.Cfg.SupportRateLimitBurst))

	mux := http.NewServeMux()

	// ============================================================================
	// PUBLIC ROUTES
	// ============================================================================

	mux.HandleFunc("GET /healthz", health.Healthz)
	mux.Handle("GET /metrics", promhttp.Handler())

	// ============================================================================
	// API ROUTES (bearer token required)
	// Methods are dispatched inside the handlers so unsupported ones get a JSON 405.
	// ============================================================================

	mux.Handle("/api/medications", requireUser(medications))
	mux.Handle("/api/side-effects", requireUser(sideEffects))
	mux.Handle("/api/checkins", requireUser(checkins))
	mux.Handle("/api/reports", requireUser(reports))

	// Billing
	mux.Handle("/api/subscription", requireUser(http.HandlerFunc(billing.Subscription)))
	mux.Handle("/api/subscription/portal", requireUser(http.HandlerFunc(billing.Portal)))

	// Support chat (rate limited before authentication)
	mux.Handle("/api/support/token", supportLimiter(requireUser(http.HandlerFunc(support.Token))))

	// Apply global middleware
	return middleware.Chain(mux,
		middleware.Recover,
		middleware.RequestLogging,
	)
}
