package silverconnect

import (
	"context"

	"github.com/aretw0/silverconnect/internal/services/chat"
	"github.com/aretw0/silverconnect/internal/services/friends"
	"github.com/aretw0/silverconnect/internal/services/notification"
	"github.com/aretw0/silverconnect/pkg/domain"
)

// FriendQuery searches candidates by interest and optionally acts on one of them.
type FriendQuery struct {
	Interest string
	// Name selects a candidate from the results; empty only searches.
	Name string
	// Actions are any of add, like and chat.
	Actions []string
	Message string
}

// Friends is the friends engine state returned by DiscoverFriends and ChatWithFriend.
type Friends struct {
	Results []domain.Person
	Friends []string
	Liked   []string
	Outbox  []domain.Message
}

func friendsOf(s *domain.Session) Friends {
	return Friends{
		Results: domain.Value[[]domain.Person](s, friends.FieldResults),
		Friends: s.Strings(friends.FieldFriends),
		Liked:   s.Strings(friends.FieldLikedNames),
		Outbox:  domain.Value[[]domain.Message](s, friends.FieldOutbox),
	}
}

// DiscoverFriends searches candidates sharing q.Interest and applies q.Actions to q.Name.
// Friend requests are accepted immediately; chatting requires an existing or just added friend.
func (p *Platform) DiscoverFriends(ctx context.Context, username string, q FriendQuery) Result {
	e := p.current().friends
	return p.within(ctx, "discover_friends", username, e.Machine(), func(ctx context.Context, s *domain.Session) Result {
		m := e.Machine()
		if err := e.Start(s); err != nil {
			return p.fail(err)
		}
		tr, err := m.Step(ctx, s, domain.Input{friends.FieldInterest: q.Interest})
		if err == nil && tr.Err == nil && q.Name != "" {
			tr, err = m.Step(ctx, s, domain.Input{
				friends.InputName:    q.Name,
				friends.InputActions: q.Actions,
				friends.InputMessage: q.Message,
			})
		}
		if tr.IsInvalid() {
			// leave the session ready for the next search
			_ = e.Start(s)
		}
		return p.outcome(tr, err, func() Result {
			f := friendsOf(s)
			return p.ok(f, "platform.friends.found", len(f.Results), len(f.Friends))
		})
	})
}

// ChatWithFriend sends message to a confirmed friend chosen by the chat target policy.
func (p *Platform) ChatWithFriend(ctx context.Context, username, name, message string) Result {
	e := p.current().friends
	return p.within(ctx, "chat_with_friend", username, e.Machine(), func(ctx context.Context, s *domain.Session) Result {
		if err := e.StartChat(s); err != nil {
			return p.fail(err)
		}
		tr, err := e.Machine().Step(ctx, s, domain.Input{friends.InputName: name, friends.InputMessage: message})
		if tr.IsInvalid() {
			_ = e.Start(s)
		}
		return p.outcome(tr, err, func() Result {
			return p.ok(friendsOf(s), "platform.chat.sent", s.String(friends.FieldChatTarget))
		})
	})
}

// SendMessage sends text to friend over the one-to-one chat. The conversation stays open,
// so consecutive messages to the same friend skip ChatStart.
func (p *Platform) SendMessage(ctx context.Context, username, friend, text string) Result {
	e := p.current().chat
	return p.within(ctx, "send_message", username, e.Machine(), func(ctx context.Context, s *domain.Session) Result {
		m := e.Machine()
		if s.CurrentState() != domain.KindChatSendMessage || s.String(chat.FieldFriend) != friend {
			if err := e.Start(s); err != nil {
				return p.fail(err)
			}
			tr, err := m.Step(ctx, s, domain.Input{chat.FieldFriend: friend})
			if err != nil {
				return p.fail(err)
			}
			if tr.Err != nil {
				return p.fail(tr.Err)
			}
		}
		tr, err := m.Step(ctx, s, domain.Input{chat.FieldMessage: text})
		return p.outcome(tr, err, func() Result {
			return p.ok(chat.History(s), "platform.chat.sent", friend)
		})
	})
}

// CheckNotifications builds the notification digest, filling placeholders from the
// user's next booking, first community and first friend.
func (p *Platform) CheckNotifications(ctx context.Context, username string) Result {
	set := p.current()
	in := p.notificationContext(ctx, set, username)
	e := set.notification
	return p.within(ctx, "check_notifications", username, e.Machine(), func(ctx context.Context, s *domain.Session) Result {
		if err := e.Start(s); err != nil {
			return p.fail(err)
		}
		tr, err := e.Machine().RunToCompletion(ctx, s, in)
		return p.outcome(tr, err, func() Result {
			digest := domain.Value[[]domain.Notification](s, notification.FieldNotifications)
			return p.ok(digest, "platform.notifications.ok", len(digest))
		})
	})
}

func (p *Platform) notificationContext(ctx context.Context, set *engineSet, username string) domain.Input {
	in := domain.Input{}
	if username == "" {
		return in
	}
	if bookings := set.activity.Schedule(p.peek(ctx, set.activity.Machine(), username)); len(bookings) > 0 {
		in[notification.InputActivityName] = bookings[0].ActivityName
		in[notification.InputTime] = bookings[0].Time
	}
	if memberships := set.community.Memberships(p.peek(ctx, set.community.Machine(), username)); len(memberships) > 0 {
		in[notification.InputCommunityName] = memberships[0].CommunityName
	}
	if friendList := p.peek(ctx, set.friends.Machine(), username).Strings(friends.FieldFriends); len(friendList) > 0 {
		in[notification.InputFriendName] = friendList[0]
	}
	return in
}
