package restapi

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/kmtdiscovery/admin-console/internal/core/domain"
)

type DashboardClient struct {
	t *Transport
}

func NewDashboardClient(t *Transport) *DashboardClient {
	return &DashboardClient{t: t}
}

func (c *DashboardClient) Homepage(ctx context.Context, token string) (domain.Dashboard, error) {
	resp, err := c.t.Do(ctx, Request{
		Resource: "dashboard",
		Method:   http.MethodGet,
		Path:     "/dashboard/homepage",
		Token:    token,
	})
	if err != nil {
		return domain.Dashboard{}, fmt.Errorf("dashboard: %w", err)
	}

	d, err := DecodeValue[domain.Dashboard](resp.Body, "dashboard")
	if err != nil {
		return domain.Dashboard{}, fmt.Errorf("dashboard: %w", err)
	}
	return d, nil
}

func (c *DashboardClient) Analytics(ctx context.Context, period domain.AnalyticsPeriod, token string) (domain.Analytics, error) {
	if period == "" {
		period = domain.Period30d
	}
	resp, err := c.t.Do(ctx, Request{
		Resource: "dashboard",
		Method:   http.MethodGet,
		Path:     "/dashboard/analytics",
		Query:    url.Values{"period": {string(period)}},
		Token:    token,
	})
	if err != nil {
		return domain.Analytics{}, fmt.Errorf("analytics: %w", err)
	}

	a, err := DecodeValue[domain.Analytics](resp.Body, "analytics")
	if err != nil {
		return domain.Analytics{}, fmt.Errorf("analytics: %w", err)
	}
	return a, nil
}
