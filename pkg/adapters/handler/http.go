package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/wadjakorntonsri/wedding-invite/pkg/core/domain"
	"github.com/wadjakorntonsri/wedding-invite/pkg/ports"
	"go.uber.org/zap"
)

const maxBodyBytes = 64 << 10

type HTTPHandler struct {
	service ports.VisitorService
	baseURL string
	logger  *zap.Logger
}

func NewHTTPHandler(service ports.VisitorService, baseURL string, logger *zap.Logger) *HTTPHandler {
	return &HTTPHandler{service: service, baseURL: baseURL, logger: logger}
}

type trackResponse struct {
	Success bool         `json:"success"`
	Stored  string       `json:"stored"`
	Data    domain.Visit `json:"data"`
}

type visitorsResponse struct {
	Success  bool                `json:"success"`
	Source   string              `json:"source"`
	Count    int                 `json:"count"`
	Visitors []domain.Visit      `json:"visitors"`
	Stats    domain.VisitorStats `json:"stats"`
	Message  string              `json:"message,omitempty"`
}

type messageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// GuestLinkRequest payload
type GuestLinkRequest struct {
	Name string `json:"name"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Success: false, Error: msg})
}

func requestMeta(r *http.Request) domain.RequestMeta {
	return domain.RequestMeta{
		ForwardedFor: r.Header.Get("X-Forwarded-For"),
		RealIP:       r.Header.Get("X-Real-IP"),
		RemoteAddr:   r.RemoteAddr,
		GeoCity:      r.Header.Get("X-Vercel-IP-City"),
		GeoRegion:    r.Header.Get("X-Vercel-IP-Country-Region"),
		GeoCountry:   r.Header.Get("X-Vercel-IP-Country"),
	}
}

// decodeTrackInput accepts an empty body (all defaults) but not malformed JSON
func decodeTrackInput(r *http.Request) (domain.TrackInput, error) {
	var in domain.TrackInput
	if r.Body == nil {
		return in, nil
	}
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return in, fmt.Errorf("%w: %v", domain.ErrMalformedBody, err)
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return in, nil
	}
	if err := json.Unmarshal(body, &in); err != nil {
		return in, fmt.Errorf("%w: %v", domain.ErrMalformedBody, err)
	}
	return in, nil
}

// Track records a visit
func (h *HTTPHandler) Track(w http.ResponseWriter, r *http.Request) {
	in, err := decodeTrackInput(r)
	if err != nil {
		h.logger.Error("tracking error", zap.Error(err))
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	res, err := h.service.Track(r.Context(), in, requestMeta(r))
	if err != nil {
		h.logger.Error("tracking error", zap.Error(err))
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, trackResponse{Success: true, Stored: res.Stored, Data: res.Visit})
}

// ListVisitors returns the visitor list, most recent first
func (h *HTTPHandler) ListVisitors(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.List(r.Context())
	if err != nil {
		h.logger.Error("error fetching visitors", zap.Error(err))
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, visitorsResponse{
		Success:  true,
		Source:   list.Source,
		Count:    list.Count,
		Visitors: list.Visitors,
		Stats:    list.Stats,
		Message:  list.Message,
	})
}

// ClearVisitors empties the store
func (h *HTTPHandler) ClearVisitors(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Clear(r.Context()); err != nil {
		h.logger.Error("error clearing visitors", zap.Error(err))
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Success: true, Message: "All visitors cleared"})
}

// CreateGuestLink mints a personalised invitation link. Nothing is stored.
func (h *HTTPHandler) CreateGuestLink(w http.ResponseWriter, r *http.Request) {
	var req GuestLinkRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	writeJSON(w, http.StatusCreated, domain.NewGuestLink(h.baseURL, req.Name))
}
