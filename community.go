package silverconnect

import (
	"context"

	"github.com/aretw0/silverconnect/internal/services"
	"github.com/aretw0/silverconnect/internal/services/community"
	"github.com/aretw0/silverconnect/pkg/domain"
	"github.com/aretw0/silverconnect/pkg/runner"
)

// BrowseAndJoinCommunity lists the communities, recommended ones first, and asks io which
// one to join. Data is the new domain.Membership, or nil when the user declined.
func (p *Platform) BrowseAndJoinCommunity(ctx context.Context, io runner.IOHandler, username string, interests []string) Result {
	e := p.current().community
	return p.within(ctx, "browse_community", username, e.Machine(), func(ctx context.Context, s *domain.Session) Result {
		if err := e.Start(s); err != nil {
			return p.fail(err)
		}
		in := domain.Input{}
		if interests != nil {
			in[community.FieldInterests] = interests
		}

		tr, err := p.converse(ctx, io, e.Machine(), s, in, func(s *domain.Session) (question, bool) {
			switch s.CurrentState() {
			case domain.KindBrowseCommunity:
				listing := domain.Value[[]domain.Community](s, community.FieldListing)
				return question{
					field:   services.InputChoice,
					content: p.communitiesView(listing, s.Int(community.FieldRecommended)),
					request: choiceRequest(p.printer.Sprintf("prompt.community"), len(listing)),
				}, true
			case domain.KindJoinCommunity:
				selected := domain.Value[domain.Community](s, community.FieldSelected)
				return question{
					field:   services.InputConfirm,
					request: confirmRequest(p.printer.Sprintf("prompt.join", selected.Name)),
				}, true
			}
			return question{}, false
		})
		return p.outcome(tr, err, func() Result {
			if !s.Bool(community.FieldJoined) {
				return p.ok(nil, "platform.community.declined")
			}
			m := domain.Value[domain.Membership](s, community.FieldMembership)
			return p.ok(m, "platform.community.joined", m.CommunityName)
		})
	})
}

// LeaveCommunity ends the user's membership of communityID.
func (p *Platform) LeaveCommunity(ctx context.Context, username string, communityID int) Result {
	e := p.current().community
	return p.within(ctx, "leave_community", username, e.Machine(), func(ctx context.Context, s *domain.Session) Result {
		if err := e.Leave(ctx, s, communityID); err != nil {
			return p.fail(err)
		}
		c, _ := e.Community(ctx, communityID)
		return p.ok(c, "platform.community.left", c.Name)
	})
}

// MyCommunities lists the user's memberships.
func (p *Platform) MyCommunities(ctx context.Context, username string) Result {
	e := p.current().community
	return p.within(ctx, "my_communities", username, e.Machine(), func(ctx context.Context, s *domain.Session) Result {
		memberships := e.Memberships(s)
		return p.ok(memberships, "platform.community.list", len(memberships))
	})
}
