package activity

import (
	"context"

	"github.com/aretw0/silverconnect/internal/services"
	"github.com/aretw0/silverconnect/pkg/domain"
)

type findActivity struct{ e *Engine }

func (st *findActivity) Kind() domain.StateKind { return domain.KindFindActivity }

func (st *findActivity) Successors() []domain.StateKind {
	return []domain.StateKind{domain.KindBookActivity}
}

func (st *findActivity) Handle(ctx context.Context, s *domain.Session, in domain.Input) domain.Transition {
	if in.Has(FieldDifficulty) {
		s.Set(FieldDifficulty, in.String(FieldDifficulty))
	}
	if in.Has(FieldLevel) {
		s.Set(FieldLevel, in.String(FieldLevel))
	}
	if in.Has(FieldInterests) {
		s.Set(FieldInterests, in.Strings(FieldInterests))
	}

	listing := st.e.Listing(ctx, s.String(FieldDifficulty), s.String(FieldLevel), s.Strings(FieldInterests))
	s.Set(FieldListing, listing)
	if len(listing) == 0 {
		return domain.TerminalWith(domain.MissingPrecondition("no activity matches the current filters"))
	}
	if !in.Has(services.InputChoice) {
		return domain.Invalid(domain.InvalidInput("choose an activity 1-%d", len(listing)))
	}

	idx, v := services.Choose(in, len(listing))
	if v != nil {
		return domain.Invalid(v)
	}
	s.Set(FieldSelected, listing[idx])
	return domain.Continue(domain.KindBookActivity)
}

type bookActivity struct{ e *Engine }

func (st *bookActivity) Kind() domain.StateKind { return domain.KindBookActivity }

func (st *bookActivity) Successors() []domain.StateKind { return nil }

func (st *bookActivity) Handle(ctx context.Context, s *domain.Session, in domain.Input) domain.Transition {
	selected := domain.Value[domain.Activity](s, FieldSelected)
	if selected.ID == 0 {
		return domain.Invalid(domain.MissingPrecondition("no activity selected"))
	}
	yes, v := services.Confirm(in)
	if v != nil {
		return domain.Invalid(v)
	}
	if !yes {
		s.Set(FieldBooked, false)
		return domain.Terminal()
	}
	return st.e.book(ctx, s, selected)
}
