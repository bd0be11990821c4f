package services

import (
	"context"
	"net"
	"net/url"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/wadjakorntonsri/wedding-invite/pkg/core/domain"
	"github.com/wadjakorntonsri/wedding-invite/pkg/ports"
	"go.uber.org/zap"
)

const logsOnlyMessage = "Visitor data is stored in runtime logs. Check the deployment log stream to view visitors."

var (
	mobileAgent = regexp.MustCompile(`(?i)Mobile|Android|iPhone|iPad`)

	visitsTracked = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wedding_visits_tracked_total",
			Help: "Visits accepted by the ingest endpoint, by backend that stored them",
		},
		[]string{"backend"},
	)
)

type VisitorService struct {
	store  ports.VisitorStore
	mode   domain.DeploymentMode
	logger *zap.Logger
	now    func() time.Time
	newID  func() string
}

func NewVisitorService(store ports.VisitorStore, mode domain.DeploymentMode, logger *zap.Logger) *VisitorService {
	return &VisitorService{
		store:  store,
		mode:   mode,
		logger: logger,
		now:    time.Now,
		newID:  newVisitID,
	}
}

// newVisitID returns a time-ordered id. Collisions are tolerated.
func newVisitID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return strconv.FormatInt(time.Now().UnixMilli(), 10)
	}
	return id.String()
}

// ClassifyDevice reports Mobile when the agent mentions a handheld token
func ClassifyDevice(userAgent string) domain.DeviceType {
	if mobileAgent.MatchString(userAgent) {
		return domain.DeviceMobile
	}
	return domain.DeviceDesktop
}

// OriginAddress picks the submitter address: first X-Forwarded-For hop, then
// X-Real-IP, then (local mode only) the socket peer.
func OriginAddress(meta domain.RequestMeta, mode domain.DeploymentMode) string {
	if first, _, _ := strings.Cut(meta.ForwardedFor, ","); strings.TrimSpace(first) != "" {
		return strings.TrimSpace(first)
	}
	if ip := strings.TrimSpace(meta.RealIP); ip != "" {
		return ip
	}
	if mode == domain.ModeLocal && meta.RemoteAddr != "" {
		if host, _, err := net.SplitHostPort(meta.RemoteAddr); err == nil {
			return host
		}
		return meta.RemoteAddr
	}
	return domain.UnknownAddress
}

// ResolveLocation reads platform geo headers in hosted mode. Local mode has no geo.
func ResolveLocation(meta domain.RequestMeta, mode domain.DeploymentMode) domain.Location {
	if mode == domain.ModeLocal {
		return domain.Location{City: "Local", Region: "Dev", Country: "Local"}
	}
	return domain.Location{
		City:    geoValue(meta.GeoCity),
		Region:  geoValue(meta.GeoRegion),
		Country: geoValue(meta.GeoCountry),
	}
}

func geoValue(raw string) string {
	if raw == "" {
		return domain.UnknownLocation
	}
	// city names arrive percent-encoded ("S%C3%A3o%20Paulo")
	if decoded, err := url.PathUnescape(raw); err == nil {
		return decoded
	}
	return raw
}

func (s *VisitorService) buildVisit(in domain.TrackInput, meta domain.RequestMeta) domain.Visit {
	now := s.now().UTC()

	ts := now
	if in.Timestamp != "" {
		if parsed, err := time.Parse(time.RFC3339Nano, in.Timestamp); err == nil {
			ts = parsed
		}
	}

	v := domain.Visit{
		ID:            s.newID(),
		GuestName:     in.GuestName,
		Timestamp:     ts,
		OriginAddress: OriginAddress(meta, s.mode),
		Location:      ResolveLocation(meta, s.mode),
		DeviceType:    ClassifyDevice(in.UserAgent),
		UserAgent:     in.UserAgent,
		Referrer:      in.Referrer,
	}
	if v.GuestName == "" {
		v.GuestName = domain.DirectVisit
	}
	if v.UserAgent == "" {
		v.UserAgent = domain.UnknownAgent
	}
	if v.Referrer == "" {
		v.Referrer = domain.DirectReferrer
	}
	return v
}

func (s *VisitorService) Track(ctx context.Context, in domain.TrackInput, meta domain.RequestMeta) (*domain.TrackResult, error) {
	visit := s.buildVisit(in, meta)

	stored, err := s.store.Append(ctx, visit)
	if err != nil {
		return nil, err
	}

	visitsTracked.WithLabelValues(stored).Inc()
	s.logger.Info("visit tracked",
		zap.String("guest", visit.GuestName),
		zap.String("device", string(visit.DeviceType)),
		zap.String("stored", stored),
	)
	return &domain.TrackResult{Stored: stored, Visit: visit}, nil
}

// List returns every stored visit, most recent first, whatever the store's own order
func (s *VisitorService) List(ctx context.Context) (*domain.VisitorList, error) {
	snap, err := s.store.ReadAll(ctx)
	if err != nil {
		return nil, err
	}

	if !snap.Queryable {
		return &domain.VisitorList{
			Source:   snap.Backend,
			Visitors: []domain.Visit{},
			Message:  logsOnlyMessage,
		}, nil
	}

	visitors := slices.Clone(snap.Visits)
	if visitors == nil {
		visitors = []domain.Visit{}
	}
	if !snap.NewestFirst {
		slices.Reverse(visitors)
	}

	return &domain.VisitorList{
		Source:   snap.Backend,
		Count:    len(visitors),
		Visitors: visitors,
		Stats:    countVisitors(visitors),
	}, nil
}

func countVisitors(visitors []domain.Visit) domain.VisitorStats {
	stats := domain.VisitorStats{Total: len(visitors)}
	for _, v := range visitors {
		switch v.DeviceType {
		case domain.DeviceMobile:
			stats.Mobile++
		case domain.DeviceDesktop:
			stats.Desktop++
		}
		if v.GuestName != domain.DirectVisit {
			stats.Named++
		}
	}
	return stats
}

func (s *VisitorService) Clear(ctx context.Context) error {
	if err := s.store.Clear(ctx); err != nil {
		return err
	}
	s.logger.Info("all visitors cleared", zap.String("backend", s.store.Backend()))
	return nil
}

// Import appends previously exported visits, oldest first, so the store's
// newest entry is the newest visit in the dump
func (s *VisitorService) Import(ctx context.Context, visits []domain.Visit) (int, error) {
	sorted := slices.Clone(visits)
	slices.SortStableFunc(sorted, func(a, b domain.Visit) int {
		return a.Timestamp.Compare(b.Timestamp)
	})

	count := 0
	for _, v := range sorted {
		if _, err := s.store.Append(ctx, v); err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}

// Ensure interface compliance
var _ ports.VisitorService = (*VisitorService)(nil)
