package tracker

import (
	"context"

	"github.com/imroc/req/v3"
	"github.com/wadjakorntonsri/wedding-invite/pkg/core/domain"
)

// VisitorsResult mirrors GET /api/visitors
type VisitorsResult struct {
	Success  bool                `json:"success"`
	Source   string              `json:"source"`
	Count    int                 `json:"count"`
	Visitors []domain.Visit      `json:"visitors"`
	Stats    domain.VisitorStats `json:"stats"`
	Message  string              `json:"message,omitempty"`
	Error    string              `json:"error,omitempty"`
}

// ClearResult mirrors DELETE /api/visitors
type ClearResult struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// AdminClient reads and clears visitors with the shared admin password
type AdminClient struct {
	client   *req.Client
	password string
}

func NewAdminClient(baseURL, password string) *AdminClient {
	return &AdminClient{client: newClient(baseURL), password: password}
}

func (a *AdminClient) List(ctx context.Context) VisitorsResult {
	var result VisitorsResult
	resp, err := a.client.R().
		SetContext(ctx).
		SetBearerAuthToken(a.password).
		SetSuccessResult(&result).
		SetErrorResult(&result).
		Get("/api/visitors")
	if err != nil {
		return VisitorsResult{Success: false, Error: err.Error(), Visitors: []domain.Visit{}}
	}
	if resp.IsErrorState() {
		result.Success = false
		if result.Error == "" {
			result.Error = resp.Status
		}
	}
	if result.Visitors == nil {
		result.Visitors = []domain.Visit{}
	}
	return result
}

func (a *AdminClient) Clear(ctx context.Context) ClearResult {
	var result ClearResult
	resp, err := a.client.R().
		SetContext(ctx).
		SetBearerAuthToken(a.password).
		SetSuccessResult(&result).
		SetErrorResult(&result).
		Delete("/api/visitors")
	if err != nil {
		return ClearResult{Success: false, Error: err.Error()}
	}
	if resp.IsErrorState() {
		result.Success = false
		if result.Error == "" {
			result.Error = resp.Status
		}
	}
	return result
}
