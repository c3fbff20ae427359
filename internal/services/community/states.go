package community

import (
	"context"

	"github.com/aretw0/silverconnect/internal/services"
	"github.com/aretw0/silverconnect/pkg/domain"
)

type browseCommunity struct{ e *Engine }

func (st *browseCommunity) Kind() domain.StateKind { return domain.KindBrowseCommunity }

func (st *browseCommunity) Successors() []domain.StateKind {
	return []domain.StateKind{domain.KindJoinCommunity}
}

func (st *browseCommunity) Handle(ctx context.Context, s *domain.Session, in domain.Input) domain.Transition {
	if in.Has(FieldInterests) {
		s.Set(FieldInterests, in.Strings(FieldInterests))
	}
	listing, recommended := st.e.Listing(ctx, s.Strings(FieldInterests))
	s.Set(FieldListing, listing)
	s.Set(FieldRecommended, recommended)
	if len(listing) == 0 {
		return domain.TerminalWith(domain.MissingPrecondition("no community available"))
	}
	if !in.Has(services.InputChoice) {
		return domain.Invalid(domain.InvalidInput("choose a community 1-%d", len(listing)))
	}

	idx, v := services.Choose(in, len(listing))
	if v != nil {
		return domain.Invalid(v)
	}
	s.Set(FieldSelected, listing[idx])
	return domain.Continue(domain.KindJoinCommunity)
}

type joinCommunity struct{ e *Engine }

func (st *joinCommunity) Kind() domain.StateKind { return domain.KindJoinCommunity }

func (st *joinCommunity) Successors() []domain.StateKind { return nil }

func (st *joinCommunity) Handle(ctx context.Context, s *domain.Session, in domain.Input) domain.Transition {
	selected := domain.Value[domain.Community](s, FieldSelected)
	if selected.ID == 0 {
		return domain.Invalid(domain.MissingPrecondition("no community selected"))
	}
	yes, v := services.Confirm(in)
	if v != nil {
		return domain.Invalid(v)
	}
	if !yes {
		s.Set(FieldJoined, false)
		return domain.Terminal()
	}
	return st.e.join(ctx, s, selected)
}
