package service

import (
	"strings"

	"github.com/kmtdiscovery/admin-console/internal/core/domain"
)

// GroupBy buckets items by key. Every key in seed is present in the result,
// even when empty.
func GroupBy[T any, K comparable](items []T, key func(T) K, seed ...K) map[K][]T {
	out := make(map[K][]T, len(seed))
	for _, k := range seed {
		out[k] = []T{}
	}
	for _, it := range items {
		k := key(it)
		out[k] = append(out[k], it)
	}
	return out
}

// Filter keeps the items matching every predicate.
func Filter[T any](items []T, preds ...func(T) bool) []T {
	out := make([]T, 0, len(items))
next:
	for _, it := range items {
		for _, p := range preds {
			if !p(it) {
				continue next
			}
		}
		out = append(out, it)
	}
	return out
}

// Paginate returns page (1-based) of size limit and the matching metadata.
// Non-positive arguments default to page 1 and limit 10.
func Paginate[T any](items []T, page, limit int) ([]T, domain.Pagination) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	total := len(items)
	totalPages := (total + limit - 1) / limit
	p := domain.Pagination{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
		HasPrev:    page > 1,
	}

	start := (page - 1) * limit
	if start >= total {
		return []T{}, p
	}
	end := start + limit
	if end > total {
		end = total
	}
	out := make([]T, end-start)
	copy(out, items[start:end])
	return out, p
}

// containsFold reports whether sub is within s, ignoring case.
func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}
