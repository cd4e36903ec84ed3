package domain

import "encoding/json"

// Pagination is the paging metadata returned next to a list. The remote API
// uses two key families (currentPage/totalArticles/... and page/total/...);
// both decode into the same struct.
type Pagination struct {
	Page       int  `json:"page"`
	Limit      int  `json:"limit,omitempty"`
	Total      int  `json:"total"`
	TotalPages int  `json:"totalPages"`
	HasNext    bool `json:"hasNext"`
	HasPrev    bool `json:"hasPrev"`
}

type rawPagination struct {
	Page          *int  `json:"page"`
	CurrentPage   *int  `json:"currentPage"`
	Limit         *int  `json:"limit"`
	Total         *int  `json:"total"`
	TotalArticles *int  `json:"totalArticles"`
	TotalContacts *int  `json:"totalContacts"`
	TotalPages    *int  `json:"totalPages"`
	HasNext       *bool `json:"hasNext"`
	HasPrev       *bool `json:"hasPrev"`
}

func (p *Pagination) UnmarshalJSON(b []byte) error {
	var raw rawPagination
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}

	*p = Pagination{
		Page:       firstInt(raw.Page, raw.CurrentPage),
		Limit:      firstInt(raw.Limit),
		Total:      firstInt(raw.Total, raw.TotalArticles, raw.TotalContacts),
		TotalPages: firstInt(raw.TotalPages),
	}
	if p.Page == 0 {
		p.Page = 1
	}

	if raw.HasNext != nil {
		p.HasNext = *raw.HasNext
	} else {
		p.HasNext = p.Page < p.TotalPages
	}
	if raw.HasPrev != nil {
		p.HasPrev = *raw.HasPrev
	} else {
		p.HasPrev = p.Page > 1
	}
	return nil
}

// Empty reports whether no paging field was present.
func (p Pagination) Empty() bool {
	return p.Total == 0 && p.TotalPages == 0 && p.Limit == 0
}

func firstInt(vals ...*int) int {
	for _, v := range vals {
		if v != nil {
			return *v
		}
	}
	return 0
}
