package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/wadjakorntonsri/wedding-invite/pkg/config"
	"go.uber.org/zap"
)

func TestAdminAuth(t *testing.T) {
	cfg := &config.Config{
		AdminPassword: "testservlet",
	}
	mw := NewMiddleware(cfg, zap.NewNop())

	tests := []struct {
		name           string
		authorization  string
		expectedStatus int
	}{
		{
			name:           "No Header",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "Wrong Secret",
			authorization:  "Bearer nope",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "Missing Scheme",
			authorization:  "testservlet",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "Valid",
			authorization:  "Bearer testservlet",
			expectedStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/api/visitors", nil)
			if tt.authorization != "" {
				req.Header.Set("Authorization", tt.authorization)
			}

			rr := httptest.NewRecorder()
			handler := mw.AdminAuth(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			})

			handler.ServeHTTP(rr, req)

			if status := rr.Code; status != tt.expectedStatus {
				t.Errorf("handler returned wrong status code: got %v want %v",
					status, tt.expectedStatus)
			}
		})
	}
}

func TestCORSAndMethods(t *testing.T) {
	mw := NewMiddleware(&config.Config{AdminPassword: "x"}, zap.NewNop())
	called := false
	h := mw.CORS("GET, POST, OPTIONS", Methods{
		http.MethodPost: func(w http.ResponseWriter, r *http.Request) {
			called = true
			w.WriteHeader(http.StatusOK)
		},
	})

	tests := []struct {
		method         string
		expectedStatus int
		expectCall     bool
	}{
		{method: http.MethodOptions, expectedStatus: http.StatusOK},
		{method: http.MethodPost, expectedStatus: http.StatusOK, expectCall: true},
		{method: http.MethodGet, expectedStatus: http.StatusMethodNotAllowed},
		{method: http.MethodPut, expectedStatus: http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.method, func(t *testing.T) {
			called = false
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, httptest.NewRequest(tt.method, "/api/track", nil))

			assert.Equal(t, tt.expectedStatus, rr.Code)
			assert.Equal(t, tt.expectCall, called)
			assert.Equal(t, "*", rr.Header().Get("Access-Control-Allow-Origin"))
			assert.Equal(t, "Content-Type, Authorization", rr.Header().Get("Access-Control-Allow-Headers"))
		})
	}
}

func TestRecover(t *testing.T) {
	mw := NewMiddleware(&config.Config{}, zap.NewNop())
	h := mw.Recover(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest("POST", "/api/track", nil))
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.JSONEq(t, `{"success":false,"error":"internal server error"}`, rr.Body.String())
}

func TestRecoverAfterHeadersWritten(t *testing.T) {
	mw := NewMiddleware(&config.Config{}, zap.NewNop())
	h := mw.Recover(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
		_, _ = w.Write([]byte("partial"))
		panic("boom")
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest("POST", "/api/track", nil))
	assert.Equal(t, http.StatusAccepted, rr.Code)
	assert.Equal(t, "partial", rr.Body.String())
}
