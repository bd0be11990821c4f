// Package tracker is the client side of visitor tracking: it reports page
// views to the ingest endpoint and reads them back for the admin console.
// Tracking failures never surface as errors; callers get a Result instead.
package tracker

import (
	"context"
	"time"

	"github.com/imroc/req/v3"
	"github.com/wadjakorntonsri/wedding-invite/pkg/core/domain"
	"go.uber.org/zap"
)

// DuplicateWindow absorbs double initialisation of the same page
const DuplicateWindow = 10 * time.Second

// Session remembers the last guest tracked during one page lifetime.
// It is owned by the page initialisation routine and has a single writer.
type Session struct {
	lastKey  string
	lastTime time.Time
}

func NewSession() *Session {
	return &Session{}
}

// admit records key at now unless the same key was admitted less than window ago
func (s *Session) admit(key string, now time.Time, window time.Duration) bool {
	if key == s.lastKey && !s.lastTime.IsZero() && now.Sub(s.lastTime) < window {
		return false
	}
	s.lastKey = key
	s.lastTime = now
	return true
}

// PageContext is what the page can observe about its visitor
type PageContext struct {
	UserAgent    string
	Referrer     string
	Language     string
	ScreenWidth  int
	ScreenHeight int
}

// Payload is the body posted to /api/track
type Payload struct {
	GuestName    string `json:"guestName"`
	Timestamp    string `json:"timestamp"`
	UserAgent    string `json:"userAgent"`
	Referrer     string `json:"referrer"`
	ScreenWidth  int    `json:"screenWidth"`
	ScreenHeight int    `json:"screenHeight"`
	Language     string `json:"language"`
}

// Result is the outcome of one tracking attempt
type Result struct {
	Success bool          `json:"success"`
	Skipped bool          `json:"skipped,omitempty"`
	Reason  string        `json:"reason,omitempty"`
	Stored  string        `json:"stored,omitempty"`
	Data    *domain.Visit `json:"data,omitempty"`
	Error   string        `json:"error,omitempty"`
}

type Emitter struct {
	client *req.Client
	logger *zap.Logger
	now    func() time.Time
	window time.Duration
}

func newClient(baseURL string) *req.Client {
	return req.C().
		SetBaseURL(baseURL).
		SetTimeout(5*time.Second).
		SetUserAgent("wedding-invite").
		SetCommonHeader("Content-Type", "application/json")
}

// NewEmitter posts visits to the tracking API at baseURL
func NewEmitter(baseURL string, logger *zap.Logger) *Emitter {
	return &Emitter{
		client: newClient(baseURL),
		logger: logger,
		now:    time.Now,
		window: DuplicateWindow,
	}
}

// Track reports a page view for guestName (empty for a direct visit).
// A repeat of the session's last guest inside DuplicateWindow is skipped
// without any network I/O.
func (e *Emitter) Track(ctx context.Context, session *Session, guestName string, page PageContext) Result {
	key := guestName
	if key == "" {
		key = domain.DirectVisit
	}

	now := e.now()
	if !session.admit(key, now, e.window) {
		e.logger.Debug("skipping duplicate track", zap.String("guest", key))
		return Result{Success: true, Skipped: true, Reason: "duplicate"}
	}

	referrer := page.Referrer
	if referrer == "" {
		referrer = domain.DirectReferrer
	}
	payload := Payload{
		GuestName:    key,
		Timestamp:    now.UTC().Format("2006-01-02T15:04:05.000Z07:00"),
		UserAgent:    page.UserAgent,
		Referrer:     referrer,
		ScreenWidth:  page.ScreenWidth,
		ScreenHeight: page.ScreenHeight,
		Language:     page.Language,
	}

	var result Result
	resp, err := e.client.R().
		SetContext(ctx).
		SetBodyJsonMarshal(payload).
		SetSuccessResult(&result).
		SetErrorResult(&result).
		Post("/api/track")
	if err != nil {
		e.logger.Info("tracking note", zap.Error(err))
		return Result{Success: false, Error: err.Error()}
	}
	if resp.IsErrorState() && result.Error == "" {
		result.Error = resp.Status
	}

	if result.Success && result.Data != nil {
		e.logger.Info("visit tracked",
			zap.String("guest", result.Data.GuestName),
			zap.String("stored", result.Stored),
		)
	}
	return result
}
