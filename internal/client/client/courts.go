package client

import (
	"context"
	"net/http"
	"net/url"

	"github.com/dmitrijs2005/courtbook/internal/client/models"
)

func (c *HTTPClient) ListCourts(ctx context.Context, f models.CourtFilter) ([]models.Court, error) {
	q := url.Values{}
	if f.City != "" {
		q.Set("city", f.City)
	}
	if f.Sport != "" {
		q.Set("sport", f.Sport)
	}

	var courts []models.Court
	err := c.do(ctx, request{method: http.MethodGet, path: "/courts", query: q, out: &courts})
	return courts, err
}

func (c *HTTPClient) GetCourt(ctx context.Context, id string) (*models.Court, error) {
	var court models.Court
	if err := c.do(ctx, request{method: http.MethodGet, path: "/courts/" + url.PathEscape(id), out: &court}); err != nil {
		return nil, err
	}
	return &court, nil
}

func (c *HTTPClient) Dashboard(ctx context.Context) (*models.DashboardSummary, error) {
	var d models.DashboardSummary
	if err := c.do(ctx, request{method: http.MethodGet, path: "/owner/dashboard", out: &d}); err != nil {
		return nil, err
	}
	return &d, nil
}
