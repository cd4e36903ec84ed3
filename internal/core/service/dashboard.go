package service

import (
	"context"

	"github.com/kmtdiscovery/admin-console/internal/core/domain"
	"github.com/kmtdiscovery/admin-console/internal/core/ports"
)

func NewDashboard(client ports.DashboardClient, deps Deps) *Query[domain.Dashboard] {
	return NewQuery[domain.Dashboard]("dashboard data", client.Homepage, deps)
}

// NewAnalytics builds a query for one reporting period; an invalid period
// falls back to 30 days.
func NewAnalytics(client ports.DashboardClient, period domain.AnalyticsPeriod, deps Deps) *Query[domain.Analytics] {
	if !period.Valid() {
		period = domain.Period30d
	}
	return NewQuery[domain.Analytics]("analytics data", func(ctx context.Context, token string) (domain.Analytics, error) {
		return client.Analytics(ctx, period, token)
	}, deps)
}
