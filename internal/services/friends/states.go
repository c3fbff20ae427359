package friends

import (
	"context"
	"slices"
	"strings"

	"github.com/aretw0/silverconnect/pkg/domain"
)

type searchFriends struct{ e *Engine }

func (st *searchFriends) Kind() domain.StateKind { return domain.KindSearchFriends }

func (st *searchFriends) Successors() []domain.StateKind {
	return []domain.StateKind{domain.KindFriendDetail}
}

func (st *searchFriends) Handle(_ context.Context, s *domain.Session, in domain.Input) domain.Transition {
	interest := in.String(FieldInterest)
	s.Set(FieldInterest, interest)
	s.Set(FieldResults, st.e.Search(interest))
	return domain.Continue(domain.KindFriendDetail)
}

type friendDetail struct{ e *Engine }

func (st *friendDetail) Kind() domain.StateKind { return domain.KindFriendDetail }

func (st *friendDetail) Successors() []domain.StateKind {
	return []domain.StateKind{domain.KindSearchFriends}
}

func (st *friendDetail) Handle(_ context.Context, s *domain.Session, in domain.Input) domain.Transition {
	name := in.String(InputName)
	if name == "" {
		return domain.Invalid(domain.MissingPrecondition("select a person by name"))
	}
	person, ok := st.e.Candidate(name)
	if !ok {
		return domain.Invalid(domain.InvalidInput("no person named %q", name))
	}

	actions := in.Strings(InputActions)
	if len(actions) == 0 {
		actions = in.Strings("action")
	}
	friends := s.Strings(FieldFriends)
	befriended := slices.Contains(friends, person.Name)
	for i, action := range actions {
		action = strings.ToLower(action)
		actions[i] = action
		switch action {
		case ActionAdd:
			befriended = true
		case ActionLike:
		case ActionChat:
			if !befriended {
				return domain.Invalid(&domain.Violation{
					Class:  domain.ErrMissingPrecondition,
					Rule:   domain.RuleNotAFriend,
					Reason: person.Name + " is not a friend yet",
				})
			}
		default:
			return domain.Invalid(domain.InvalidInput("unknown action %q", action))
		}
	}

	s.Set(FieldSelectedName, person.Name)
	for _, action := range actions {
		switch action {
		case ActionAdd:
			// friend requests are accepted immediately
			s.Set(FieldAddedNames, appendOnce(s.Strings(FieldAddedNames), person.Name))
			s.Set(FieldFriends, appendOnce(s.Strings(FieldFriends), person.Name))
		case ActionLike:
			s.Set(FieldLikedNames, appendOnce(s.Strings(FieldLikedNames), person.Name))
		case ActionChat:
			st.e.send(s, person.Name, in.String(InputMessage))
		}
	}
	return domain.Continue(domain.KindSearchFriends)
}

type friendChat struct{ e *Engine }

func (st *friendChat) Kind() domain.StateKind { return domain.KindFriendChat }

func (st *friendChat) Successors() []domain.StateKind { return nil }

func (st *friendChat) Handle(_ context.Context, s *domain.Session, in domain.Input) domain.Transition {
	friends := s.Strings(FieldFriends)
	if len(friends) == 0 {
		return domain.Invalid(domain.MissingPrecondition("no friends to chat with"))
	}

	target := friends[0]
	if st.e.target == ChatTargetSelected {
		target = in.String(InputName)
		if target == "" {
			target = s.String(FieldSelectedName)
		}
		if !slices.Contains(friends, target) {
			return domain.Invalid(&domain.Violation{
				Class:  domain.ErrMissingPrecondition,
				Rule:   domain.RuleNotAFriend,
				Reason: "choose one of your friends: " + strings.Join(friends, ", "),
			})
		}
	}
	st.e.send(s, target, in.String(InputMessage))
	return domain.Terminal()
}
