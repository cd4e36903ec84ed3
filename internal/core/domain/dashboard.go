package domain

import "time"

type CountByDate struct {
	Count     int       `json:"_count"`
	CreatedAt time.Time `json:"createdAt"`
}

type CountByCategory struct {
	Count    int    `json:"_count"`
	Category string `json:"category"`
}

type CountByStatus struct {
	Count  int    `json:"_count"`
	Status string `json:"status"`
}

type Activity struct {
	Type      string    `json:"type"`
	Action    string    `json:"action"`
	Title     string    `json:"title"`
	User      string    `json:"user"`
	CreatedAt time.Time `json:"createdAt"`
}

// Dashboard is the homepage summary served to administrators.
type Dashboard struct {
	User struct {
		ArticlesCount      int    `json:"articlesCount"`
		BookingsCount      int    `json:"bookingsCount"`
		SubscriptionStatus string `json:"subscriptionStatus"`
		CurrentPlan        string `json:"currentPlan"`
	} `json:"user"`
	Admin struct {
		Users struct {
			Total  int           `json:"total"`
			New    int           `json:"new"`
			Active int           `json:"active"`
			Growth []CountByDate `json:"growth"`
		} `json:"users"`
		Content struct {
			TotalArticles     int    `json:"totalArticles"`
			PublishedArticles int    `json:"publishedArticles"`
			PublishRate       string `json:"publishRate"`
		} `json:"content"`
		Bookings struct {
			Total      int               `json:"total"`
			Categories []CountByCategory `json:"categories"`
		} `json:"bookings"`
		Revenue struct {
			Total         float64         `json:"total"`
			Subscriptions []CountByStatus `json:"subscriptions"`
		} `json:"revenue"`
	} `json:"admin"`
	RecentActivity []Activity `json:"recentActivity"`
	SystemHealth   struct {
		Database string         `json:"database"`
		Metrics  map[string]int `json:"metrics"`
	} `json:"systemHealth"`
	LastUpdated time.Time `json:"lastUpdated"`
}

// AnalyticsPeriod is the reporting window of the analytics endpoint.
type AnalyticsPeriod string

const (
	Period7d  AnalyticsPeriod = "7d"
	Period30d AnalyticsPeriod = "30d"
	Period90d AnalyticsPeriod = "90d"
	Period1y  AnalyticsPeriod = "1y"
)

// Valid reports whether p is one of the supported windows.
func (p AnalyticsPeriod) Valid() bool {
	switch p {
	case Period7d, Period30d, Period90d, Period1y:
		return true
	}
	return false
}

type Analytics struct {
	Period    string `json:"period"`
	DateRange struct {
		Start time.Time `json:"start"`
		End   time.Time `json:"end"`
	} `json:"dateRange"`
	Overview struct {
		Summary string         `json:"summary"`
		Metrics map[string]any `json:"metrics"`
	} `json:"overview"`
	Charts      map[string]any `json:"charts"`
	Insights    map[string]any `json:"insights"`
	Comparison  map[string]any `json:"comparison"`
	LastUpdated time.Time      `json:"lastUpdated"`
}
