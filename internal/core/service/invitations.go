package service

import (
	"context"
	"time"

	"github.com/kmtdiscovery/admin-console/internal/core/domain"
	"github.com/kmtdiscovery/admin-console/internal/core/ports"
)

type InvitationClient = ports.ResourceClient[domain.Invitation, domain.CreateInvitationInput, domain.NoInput]

type InvitationStore struct {
	*Store[domain.Invitation, domain.CreateInvitationInput, domain.NoInput]
}

func invitationLabels() Labels[domain.Invitation] {
	return Labels[domain.Invitation]{
		Resource: "invitations",
		Noun:     "invitation",
		Created: func(i domain.Invitation) domain.Notification {
			return domain.Success("Invitation Sent", "Invitation sent to "+i.Email+" successfully.")
		},
		Deleted: func(string) domain.Notification {
			return domain.Success("Invitation Revoked", "Invitation has been revoked successfully.")
		},
	}
}

func NewInvitationStore(client InvitationClient, deps Deps, opts ...Option) *InvitationStore {
	return &InvitationStore{Store: NewStore(client, deps, invitationLabels(), opts...)}
}

func (s *InvitationStore) Send(ctx context.Context, in domain.CreateInvitationInput) (domain.Invitation, error) {
	return s.Create(ctx, in)
}

func (s *InvitationStore) Revoke(ctx context.Context, id string) error {
	return s.Delete(ctx, id)
}

// InvitationFilter narrows the invitation list. Empty fields match everything.
type InvitationFilter struct {
	State  domain.InvitationState
	Role   domain.Role
	Search string
}

// InvitationRow is an invitation with its state resolved at view time.
type InvitationRow struct {
	domain.Invitation
	State domain.InvitationState `json:"state"`
}

type InvitationView struct {
	Invitations []InvitationRow   `json:"invitations"`
	Counts      map[string]int    `json:"counts"`
	Pagination  domain.Pagination `json:"pagination"`
}

// View resolves each invitation's state at now, applies f and pages the result.
// Counts are computed before filtering.
func (s *InvitationStore) View(f InvitationFilter, page, limit int, now time.Time) InvitationView {
	items := s.Items()
	rows := make([]InvitationRow, 0, len(items))
	counts := map[string]int{"total": len(items)}
	for _, st := range []domain.InvitationState{domain.InvitationPending, domain.InvitationAccepted, domain.InvitationExpired} {
		counts[string(st)] = 0
	}
	for _, inv := range items {
		st := inv.State(now)
		counts[string(st)]++
		rows = append(rows, InvitationRow{Invitation: inv, State: st})
	}

	var preds []func(InvitationRow) bool
	if f.State != "" && f.State != "all" {
		preds = append(preds, func(r InvitationRow) bool { return r.State == f.State })
	}
	if f.Role != "" && f.Role != "all" {
		preds = append(preds, func(r InvitationRow) bool { return r.Role == f.Role })
	}
	if f.Search != "" {
		preds = append(preds, func(r InvitationRow) bool {
			return containsFold(r.Email, f.Search) || containsFold(string(r.Role), f.Search)
		})
	}

	out, p := Paginate(Filter(rows, preds...), page, limit)
	return InvitationView{Invitations: out, Counts: counts, Pagination: p}
}
