package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/templui/medtrack/internal/ctxkeys"
	"github.com/templui/medtrack/internal/db"
	"github.com/templui/medtrack/internal/middleware"
	"github.com/templui/medtrack/internal/model"
	"github.com/templui/medtrack/internal/repository"
	"github.com/templui/medtrack/internal/service"
	"github.com/templui/medtrack/internal/service/payment"
)

// headerIdentity treats the bearer token as the user id.
type headerIdentity struct{}

func (headerIdentity) Resolve(ctx context.Context, header string) (*model.User, error) {
	id, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || id == "" {
		return nil, service.ErrMissingToken
	}
	return &model.User{ID: id, Email: id + "@example.com"}, nil
}

type stubProvider struct {
	active bool
	calls  int
}

func (p *stubProvider) Name() string { return "stub" }

func (p *stubProvider) Status(ctx context.Context, email string) (*model.BillingStatus, error) {
	p.calls++
	return &model.BillingStatus{HasActiveSubscription: p.active}, nil
}

func (p *stubProvider) CheckoutURL(ctx context.Context, user *model.User, currency string) (string, error) {
	if currency != "usd" && currency != "eur" {
		return "", payment.ErrUnsupportedCurrency
	}
	return "https://checkout.example.com/session", nil
}

func (p *stubProvider) PortalURL(ctx context.Context, email string) (string, error) {
	return "", payment.ErrNoCustomer
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	conn, err := db.Init("sqlite", filepath.Join(t.TempDir(), "test.db")+"?_pragma=busy_timeout(5000)")
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	require.NoError(t, db.RunMigrations(conn.DB, "sqlite"))

	meds := repository.NewMedicationRepository(conn)
	effects := repository.NewSideEffectRepository(conn)
	checkins := repository.NewCheckinRepository(conn)
	provider := &stubProvider{}
	usage := service.NewUsageService(repository.NewUsageRepository(conn), provider)
	reports := service.NewReportService(repository.NewReportRepository(conn), meds, effects, checkins, usage, nil, nil)
	support := service.NewSupportService(service.SupportConfig{})

	requireUser := middleware.RequireUser(headerIdentity{})
	billing := NewBillingHandler(service.NewSubscriptionService(provider), usage)

	mux := http.NewServeMux()
	mux.Handle("/api/medications", requireUser(NewMedicationHandler(service.NewMedicationService(meds))))
	mux.Handle("/api/side-effects", requireUser(NewSideEffectHandler(service.NewSideEffectService(effects, meds))))
	mux.Handle("/api/checkins", requireUser(NewCheckinHandler(service.NewCheckinService(checkins))))
	mux.Handle("/api/reports", requireUser(NewReportHandler(reports)))
	mux.Handle("/api/subscription", requireUser(http.HandlerFunc(billing.Subscription)))
	mux.Handle("/api/subscription/portal", requireUser(http.HandlerFunc(billing.Portal)))
	mux.Handle("/api/support/token", requireUser(http.HandlerFunc(NewSupportHandler(support).Token)))
	mux.HandleFunc("GET /healthz", NewHealthHandler(conn).Healthz)

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

type client struct {
	t    *testing.T
	base string
	user string
}

func (c client) do(method, path string, body any) (*http.Response, map[string]any) {
	c.t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(c.t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, c.base+path, reader)
	require.NoError(c.t, err)
	req.Header.Set("Content-Type", "application/json")
	if c.user != "" {
		req.Header.Set("Authorization", "Bearer "+c.user)
	}

	httpClient := &http.Client{
		CheckRedirect: func(*http.Request, []*http.Request) error { return http.ErrUseLastResponse },
	}
	resp, err := httpClient.Do(req)
	require.NoError(c.t, err)
	defer resp.Body.Close()

	var out map[string]any
	if strings.HasPrefix(resp.Header.Get("Content-Type"), "application/json") {
		var raw json.RawMessage
		require.NoError(c.t, json.NewDecoder(resp.Body).Decode(&raw))
		if len(raw) > 0 && raw[0] == '{' {
			require.NoError(c.t, json.Unmarshal(raw, &out))
		} else {
			out = map[string]any{"items": nil}
			var items []any
			require.NoError(c.t, json.Unmarshal(raw, &items))
			out["items"] = items
		}
	}
	return resp, out
}

func TestReportFlow(t *testing.T) {
	srv := newTestServer(t)
	alice := client{t: t, base: srv.URL, user: "alice"}

	resp, med := alice.do(http.MethodPost, "/api/medications", map[string]any{
		"name":      "Lisinopril",
		"dosage":    "10mg",
		"frequency": "daily",
		"startDate": "2024-01-01",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Nil(t, med["endDate"])
	medID := med["id"].(string)

	resp, effect := alice.do(http.MethodPost, "/api/side-effects", map[string]any{
		"medicationId": medID,
		"symptom":      "Dry cough",
		"severity":     3,
		"timeOfDay":    "morning",
		"date":         "2024-01-05",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "Lisinopril", effect["medicationName"])

	resp, listed := alice.do(http.MethodGet, "/api/reports", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(0), listed["subscription"].(map[string]any)["reportsCreated"])

	resp, created := alice.do(http.MethodPost, "/api/reports", map[string]any{
		"title":     "January",
		"startDate": "2024-01-01",
		"endDate":   "2024-01-31",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	sub := created["subscription"].(map[string]any)
	assert.Equal(t, float64(1), sub["reportsCreated"])
	assert.Equal(t, true, sub["canCreateReport"])

	// Report ids exceed 2^53 and must arrive as strings.
	reportID, ok := created["report"].(map[string]any)["id"].(string)
	require.True(t, ok)

	resp, data := alice.do(http.MethodGet, "/api/reports?id="+reportID+"&includeData=true", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, data["medications"], 1)
	effects := data["sideEffects"].([]any)
	require.Len(t, effects, 1)
	assert.Equal(t, "Lisinopril", effects[0].(map[string]any)["medicationName"])
	assert.Empty(t, data["checkins"])

	resp, _ = alice.do(http.MethodDelete, "/api/reports?id="+reportID, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// Deleting does not refund quota.
	resp, listed = alice.do(http.MethodGet, "/api/reports", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, listed["reports"])
	assert.Equal(t, float64(1), listed["subscription"].(map[string]any)["reportsCreated"])
}

func TestReportQuota(t *testing.T) {
	srv := newTestServer(t)
	bob := client{t: t, base: srv.URL, user: "bob"}

	input := map[string]any{"title": "Weekly", "startDate": "2024-02-01", "endDate": "2024-02-07"}
	for i := 0; i < model.FreeReportLimit; i++ {
		resp, _ := bob.do(http.MethodPost, "/api/reports", input)
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}

	resp, body := bob.do(http.MethodPost, "/api/reports", input)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
	sub := body["subscription"].(map[string]any)
	assert.Equal(t, false, sub["canCreateReport"])
	assert.Equal(t, float64(model.FreeReportLimit), sub["reportsCreated"])
	assert.Equal(t, float64(model.FreeReportLimit), sub["limit"])
}

func TestCheckinConflict(t *testing.T) {
	srv := newTestServer(t)
	alice := client{t: t, base: srv.URL, user: "alice"}

	checkin := map[string]any{"date": "2024-03-01", "overallRating": 4, "sleepQuality": 3, "energyLevel": 5}
	resp, first := alice.do(http.MethodPost, "/api/checkins", checkin)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, body := alice.do(http.MethodPost, "/api/checkins", checkin)
	require.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, first["id"], body["existing"].(map[string]any)["id"])

	resp, byDate := alice.do(http.MethodGet, "/api/checkins?date=2024-03-01", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, first["id"], byDate["id"])

	// Another user may use the same date.
	bob := client{t: t, base: srv.URL, user: "bob"}
	resp, _ = bob.do(http.MethodPost, "/api/checkins", checkin)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
}

func TestErrorMapping(t *testing.T) {
	srv := newTestServer(t)
	alice := client{t: t, base: srv.URL, user: "alice"}
	anonymous := client{t: t, base: srv.URL}

	resp, med := alice.do(http.MethodPost, "/api/medications", map[string]any{
		"name": "Metformin", "dosage": "500mg", "startDate": "2024-01-01",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	tests := []struct {
		name   string
		client client
		method string
		path   string
		body   any
		status int
		field  string
		errMsg string
	}{
		{
			name:   "missing token",
			client: anonymous,
			method: http.MethodGet,
			path:   "/api/medications",
			status: http.StatusUnauthorized,
			errMsg: "authentication required",
		},
		{
			name:   "unsupported method",
			client: alice,
			method: http.MethodPatch,
			path:   "/api/medications",
			status: http.StatusMethodNotAllowed,
			errMsg: "method not allowed",
		},
		{
			name:   "missing name",
			client: alice,
			method: http.MethodPost,
			path:   "/api/medications",
			body:   map[string]any{"dosage": "1mg", "startDate": "2024-01-01"},
			status: http.StatusBadRequest,
			field:  "name",
		},
		{
			name:   "end before start",
			client: alice,
			method: http.MethodPost,
			path:   "/api/medications",
			body:   map[string]any{"name": "X", "dosage": "1mg", "startDate": "2024-02-01", "endDate": "2024-01-01"},
			status: http.StatusBadRequest,
			field:  "endDate",
		},
		{
			name:   "side effect for another user's medication",
			client: client{t: t, base: srv.URL, user: "mallory"},
			method: http.MethodPost,
			path:   "/api/side-effects",
			body:   map[string]any{"medicationId": med["id"], "symptom": "Nausea", "severity": 2, "date": "2024-01-02"},
			status: http.StatusNotFound,
			errMsg: "medication not found or does not belong to user",
		},
		{
			name:   "severity above range",
			client: alice,
			method: http.MethodPost,
			path:   "/api/side-effects",
			body:   map[string]any{"medicationId": med["id"], "symptom": "Nausea", "severity": 11, "date": "2024-01-02"},
			status: http.StatusBadRequest,
			field:  "severity",
		},
		{
			name:   "severity below range",
			client: alice,
			method: http.MethodPost,
			path:   "/api/side-effects",
			body:   map[string]any{"medicationId": med["id"], "symptom": "Nausea", "severity": 0, "date": "2024-01-02"},
			status: http.StatusBadRequest,
			field:  "severity",
		},
		{
			name:   "overall rating below range",
			client: alice,
			method: http.MethodPost,
			path:   "/api/checkins",
			body:   map[string]any{"date": "2024-04-01", "overallRating": 0, "sleepQuality": 5, "energyLevel": 5},
			status: http.StatusBadRequest,
			field:  "overallRating",
		},
		{
			name:   "sleep quality above range",
			client: alice,
			method: http.MethodPost,
			path:   "/api/checkins",
			body:   map[string]any{"date": "2024-04-01", "overallRating": 5, "sleepQuality": 11, "energyLevel": 5},
			status: http.StatusBadRequest,
			field:  "sleepQuality",
		},
		{
			name:   "energy level above range",
			client: alice,
			method: http.MethodPost,
			path:   "/api/checkins",
			body:   map[string]any{"date": "2024-04-01", "overallRating": 5, "sleepQuality": 5, "energyLevel": 11},
			status: http.StatusBadRequest,
			field:  "energyLevel",
		},
		{
			name:   "unknown report",
			client: alice,
			method: http.MethodGet,
			path:   "/api/reports?id=123456789",
			status: http.StatusNotFound,
		},
		{
			name:   "malformed json",
			client: alice,
			method: http.MethodPost,
			path:   "/api/checkins",
			body:   "not an object",
			status: http.StatusBadRequest,
			errMsg: "invalid JSON body",
		},
		{
			name:   "unsupported currency",
			client: alice,
			method: http.MethodPost,
			path:   "/api/subscription",
			body:   map[string]any{"currency": "gbp"},
			status: http.StatusBadRequest,
			errMsg: "currency must be one of: usd, eur",
		},
		{
			name:   "portal without customer",
			client: alice,
			method: http.MethodPost,
			path:   "/api/subscription/portal",
			status: http.StatusNotFound,
		},
		{
			name:   "support email mismatch",
			client: alice,
			method: http.MethodPost,
			path:   "/api/support/token",
			body:   map[string]any{"email": "someone@example.com"},
			status: http.StatusForbidden,
		},
		{
			name:   "support disabled",
			client: alice,
			method: http.MethodPost,
			path:   "/api/support/token",
			body:   map[string]any{"email": "alice@example.com"},
			status: http.StatusServiceUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.client.t = t
			resp, body := tt.client.do(tt.method, tt.path, tt.body)
			assert.Equal(t, tt.status, resp.StatusCode)
			assert.NotEmpty(t, body["error"])
			if tt.field != "" {
				assert.Equal(t, tt.field, body["field"])
			}
			if tt.errMsg != "" {
				assert.Equal(t, tt.errMsg, body["error"])
			}
		})
	}
}

func TestCheckoutRedirect(t *testing.T) {
	srv := newTestServer(t)
	alice := client{t: t, base: srv.URL, user: "alice"}

	resp, _ := alice.do(http.MethodPost, "/api/subscription", map[string]any{"currency": "usd"})
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "https://checkout.example.com/session", resp.Header.Get("Location"))

	resp, body := alice.do(http.MethodGet, "/api/subscription", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, false, body["billing"].(map[string]any)["hasActiveSubscription"])
	assert.Equal(t, true, body["subscription"].(map[string]any)["canCreateReport"])
}

func TestMethodNotAllowedSetsAllow(t *testing.T) {
	srv := newTestServer(t)
	alice := client{t: t, base: srv.URL, user: "alice"}

	resp, _ := alice.do(http.MethodPut, "/api/reports", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
	assert.Equal(t, "GET, POST, DELETE", resp.Header.Get("Allow"))
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestSubscriptionStatusLooksUpBillingOnce(t *testing.T) {
	conn, err := db.Init("sqlite", filepath.Join(t.TempDir(), "test.db")+"?_pragma=busy_timeout(5000)")
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	require.NoError(t, db.RunMigrations(conn.DB, "sqlite"))

	provider := &stubProvider{active: true}
	usage := service.NewUsageService(repository.NewUsageRepository(conn), provider)
	billing := NewBillingHandler(service.NewSubscriptionService(provider), usage)

	req := httptest.NewRequest(http.MethodGet, "/api/subscription", nil)
	req = req.WithContext(ctxkeys.WithUser(req.Context(), &model.User{ID: "carol", Email: "carol@example.com"}))
	rec := httptest.NewRecorder()
	billing.Subscription(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, provider.calls)

	var body struct {
		Billing      model.BillingStatus      `json:"billing"`
		Subscription model.SubscriptionStatus `json:"subscription"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.True(t, body.Billing.HasActiveSubscription)
	assert.True(t, body.Subscription.HasActiveSubscription)
	assert.True(t, body.Subscription.CanCreateReport)
}

func TestQuotaErrorBodyIsNumberSafe(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/reports", nil)
	rec := httptest.NewRecorder()

	writeServiceError(rec, req, &service.QuotaError{Status: model.SubscriptionStatus{
		ReportsCreated: 1 << 60,
		Limit:          model.FreeReportLimit,
	}}, "create report")

	require.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{
		"error": "free report limit reached",
		"subscription": {
			"canCreateReport": false,
			"hasActiveSubscription": false,
			"reportsCreated": "1152921504606846976",
			"limit": 2
		}
	}`, rec.Body.String())
}
