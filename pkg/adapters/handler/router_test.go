package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wadjakorntonsri/wedding-invite/pkg/adapters/repository/logstore"
	"github.com/wadjakorntonsri/wedding-invite/pkg/config"
	"github.com/wadjakorntonsri/wedding-invite/pkg/core/domain"
	"github.com/wadjakorntonsri/wedding-invite/pkg/core/services"
	"go.uber.org/zap"
)

func newHostedRouter() http.Handler {
	cfg := &config.Config{
		DeploymentMode: "hosted",
		AdminPassword:  "s3cret",
		BaseURL:        "https://wedding.example.com",
	}
	logger := zap.NewNop()
	svc := services.NewVisitorService(logstore.New(logger), domain.ModeHosted, logger)
	return NewRouter(cfg, svc, logger)
}

func do(h http.Handler, method, path, body, auth string, headers map[string]string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestTrackHostedHeaders(t *testing.T) {
	h := newHostedRouter()
	rr := do(h, "POST", "/api/track", `{"guestName":"Uncle Rajan","userAgent":"Mozilla/5.0 (iPhone)"}`, "", map[string]string{
		"X-Forwarded-For":            "203.0.113.7, 10.0.0.1",
		"X-Vercel-IP-City":           "Chennai",
		"X-Vercel-IP-Country-Region": "TN",
		"X-Vercel-IP-Country":        "IN",
	})

	require.Equal(t, http.StatusOK, rr.Code)
	body := rr.Body.String()
	assert.Contains(t, body, `"success":true`)
	assert.Contains(t, body, `"stored":"logs"`)
	assert.Contains(t, body, `"ip":"203.0.113.7"`)
	assert.Contains(t, body, `"city":"Chennai"`)
	assert.Contains(t, body, `"deviceType":"Mobile"`)
}

func TestTrackEmptyBodyUsesDefaults(t *testing.T) {
	rr := do(newHostedRouter(), "POST", "/api/track", "", "", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"guestName":"Direct Visit"`)
}

func TestTrackMalformedBody(t *testing.T) {
	rr := do(newHostedRouter(), "POST", "/api/track", `{"guestName":`, "", nil)
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Contains(t, rr.Body.String(), `"success":false`)
	assert.Contains(t, rr.Body.String(), "malformed request body")
}

func TestMethodNegotiation(t *testing.T) {
	h := newHostedRouter()

	tests := []struct {
		method string
		path   string
		status int
	}{
		{"GET", "/api/track", http.StatusMethodNotAllowed},
		{"OPTIONS", "/api/track", http.StatusOK},
		{"OPTIONS", "/api/visitors", http.StatusOK},
		{"PUT", "/api/visitors", http.StatusMethodNotAllowed},
		{"POST", "/api/visitors", http.StatusMethodNotAllowed},
		{"GET", "/healthz", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rr := do(h, tt.method, tt.path, "", "", nil)
			assert.Equal(t, tt.status, rr.Code)
		})
	}
}

func TestVisitorsUnauthorized(t *testing.T) {
	h := newHostedRouter()
	for _, auth := range []string{"", "Bearer wrong", "Bearer 22022026"} {
		rr := do(h, "GET", "/api/visitors", "", auth, nil)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.NotContains(t, rr.Body.String(), "visitors")

		rr = do(h, "DELETE", "/api/visitors", "", auth, nil)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	}
}

func TestVisitorsLogsOnly(t *testing.T) {
	rr := do(newHostedRouter(), "GET", "/api/visitors", "", "Bearer s3cret", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	body := rr.Body.String()
	assert.Contains(t, body, `"source":"logs"`)
	assert.Contains(t, body, `"visitors":[]`)
	assert.Contains(t, body, `"message":`)
}

func TestCreateGuestLink(t *testing.T) {
	h := newHostedRouter()

	rr := do(h, "POST", "/api/guest-links", `{"name":"Uncle Rajan"}`, "Bearer s3cret", nil)
	require.Equal(t, http.StatusCreated, rr.Code)
	assert.JSONEq(t, `{"displayName":"Uncle Rajan","slug":"uncle-rajan","url":"https://wedding.example.com/invite/uncle-rajan"}`, rr.Body.String())

	rr = do(h, "POST", "/api/guest-links", `{"name":"   "}`, "Bearer s3cret", nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = do(h, "POST", "/api/guest-links", `{"name":"Uncle Rajan"}`, "", nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestMetricsOnlyInLocalMode(t *testing.T) {
	rr := do(newHostedRouter(), http.MethodGet, "/metrics", "", "", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestPlainOptionsIsEmptyOK(t *testing.T) {
	for _, path := range []string{"/api/track", "/api/visitors", "/api/guest-links"} {
		rr := do(newHostedRouter(), http.MethodOptions, path, "", "", nil)
		assert.Equal(t, http.StatusOK, rr.Code, path)
		assert.Empty(t, rr.Body.String(), path)
		assert.Equal(t, "*", rr.Header().Get("Access-Control-Allow-Origin"), path)
	}
}
