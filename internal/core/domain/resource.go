package domain

// Resource is any entity addressed by a server-assigned, non-empty id.
type Resource interface {
	ResourceID() string
}

// NoInput marks an operation a resource does not offer (users cannot be
// created, invitations cannot be updated).
type NoInput struct{}

// ListQuery carries the query parameters of a list request.
type ListQuery struct {
	Page   int
	Limit  int
	Status string
	Search string
	Extra  map[string]string
}

// Page is the normalized result of a list request.
type Page[T any] struct {
	Items      []T         `json:"items"`
	Pagination *Pagination `json:"pagination,omitempty"`
}
