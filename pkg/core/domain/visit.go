package domain

import (
	"errors"
	"time"
)

const (
	DirectVisit     = "Direct Visit"
	UnknownAddress  = "unknown"
	UnknownAgent    = "Unknown"
	DirectReferrer  = "Direct"
	UnknownLocation = "Unknown"
)

// ErrMalformedBody is returned when a track submission is not valid JSON.
var ErrMalformedBody = errors.New("malformed request body")

// DeviceType is the coarse device class derived from the user agent
type DeviceType string

const (
	DeviceMobile  DeviceType = "Mobile"
	DeviceDesktop DeviceType = "Desktop"
)

// DeploymentMode selects how request metadata is interpreted
type DeploymentMode string

const (
	ModeHosted DeploymentMode = "hosted"
	ModeLocal  DeploymentMode = "local"
)

// Location is best-effort geo data for a visit
type Location struct {
	City    string `json:"city"`
	Region  string `json:"region"`
	Country string `json:"country"`
}

// Visit represents one opened invitation page
type Visit struct {
	ID            string     `json:"id"`
	GuestName     string     `json:"guestName"`
	Timestamp     time.Time  `json:"timestamp"`
	OriginAddress string     `json:"ip"` // kept as "ip" so older visitors.json/KV data still decodes
	Location      Location   `json:"location"`
	DeviceType    DeviceType `json:"deviceType"`
	UserAgent     string     `json:"userAgent"`
	Referrer      string     `json:"referrer"`
}

// TrackInput is the untrusted part of a visit, as submitted by the page
type TrackInput struct {
	GuestName string `json:"guestName"`
	Timestamp string `json:"timestamp"`
	UserAgent string `json:"userAgent"`
	Referrer  string `json:"referrer"`
}

// RequestMeta is what the transport layer observed about the submitter
type RequestMeta struct {
	ForwardedFor string
	RealIP       string
	RemoteAddr   string
	GeoCity      string
	GeoRegion    string
	GeoCountry   string
}

// TrackResult reports the stored visit and which backend accepted it
type TrackResult struct {
	Stored string `json:"stored"`
	Visit  Visit  `json:"data"`
}

// VisitorStats are the raw counters shown on the admin console
type VisitorStats struct {
	Total   int `json:"total"`
	Mobile  int `json:"mobile"`
	Desktop int `json:"desktop"`
	Named   int `json:"named"`
}

// VisitorList is the admin view of the store, always most-recent-first
type VisitorList struct {
	Source   string       `json:"source"`
	Count    int          `json:"count"`
	Visitors []Visit      `json:"visitors"`
	Stats    VisitorStats `json:"stats"`
	Message  string       `json:"message,omitempty"`
}

// Snapshot is the raw content of a store. Visits are in the store's own order.
type Snapshot struct {
	Backend     string
	Visits      []Visit
	NewestFirst bool
	Queryable   bool
}
