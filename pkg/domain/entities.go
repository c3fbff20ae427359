package domain

import (
	"math"
	"slices"
	"time"
)

// Activity is a bookable catalog record.
type Activity struct {
	ID              int    `json:"id" yaml:"id"`
	Name            string `json:"name" yaml:"name"`
	Description     string `json:"description" yaml:"description"`
	Time            string `json:"time" yaml:"time"`
	Location        string `json:"location" yaml:"location"`
	Participants    int    `json:"participants" yaml:"participants"`
	MaxParticipants int    `json:"max_participants" yaml:"max_participants"`
	Difficulty      string `json:"difficulty" yaml:"difficulty"`
	Category        string `json:"category" yaml:"category"`
	Instructor      string `json:"instructor,omitempty" yaml:"instructor"`
	Price           string `json:"price,omitempty" yaml:"price"`
	Equipment       string `json:"equipment,omitempty" yaml:"equipment"`
}

// SpotsLeft returns the remaining capacity.
func (a Activity) SpotsLeft() int {
	if left := a.MaxParticipants - a.Participants; left > 0 {
		return left
	}
	return 0
}

// Recommendation is an activity ranked for a user. Score runs from 0 to 1.
type Recommendation struct {
	Activity Activity `json:"activity"`
	Score    float64  `json:"score"`
}

// Match returns the score as a whole percentage.
func (r Recommendation) Match() int {
	return int(math.Round(r.Score * 100))
}

// Community is a joinable catalog record.
type Community struct {
	ID              int    `json:"id" yaml:"id"`
	Name            string `json:"name" yaml:"name"`
	Description     string `json:"description" yaml:"description"`
	Members         int    `json:"members" yaml:"members"`
	Category        string `json:"category" yaml:"category"`
	Location        string `json:"location,omitempty" yaml:"location"`
	MeetingSchedule string `json:"meeting_schedule,omitempty" yaml:"meeting_schedule"`
}

// Person is a friend candidate.
type Person struct {
	Name        string   `json:"name" yaml:"name"`
	Age         int      `json:"age" yaml:"age"`
	Photo       string   `json:"photo,omitempty" yaml:"photo"`
	Interests   []string `json:"interests" yaml:"interests"`
	Description string   `json:"description,omitempty" yaml:"description"`
}

// SharesInterest reports whether the candidate's interests intersect with wanted.
func (p Person) SharesInterest(wanted ...string) bool {
	for _, w := range wanted {
		if slices.Contains(p.Interests, w) {
			return true
		}
	}
	return false
}

// Profile modes.
const (
	ModeFriendship = "friendship"
	ModeRomance    = "romance"
)

// UserRecord is the account stored by a user directory.
type UserRecord struct {
	Username         string   `json:"username" yaml:"username"`
	Email            string   `json:"email" yaml:"email"`
	FullName         string   `json:"full_name" yaml:"full_name"`
	PasswordHash     string   `json:"password_hash" yaml:"password_hash"`
	ProfileCompleted bool     `json:"profile_completed" yaml:"profile_completed"`
	Mode             string   `json:"mode,omitempty" yaml:"mode"`
	Hobbies          []string `json:"hobbies,omitempty" yaml:"hobbies"`
	Story            string   `json:"story,omitempty" yaml:"story"`
	Age              int      `json:"age,omitempty" yaml:"age"`
	ActivityLevel    string   `json:"activity_level,omitempty" yaml:"activity_level"`
}

// Booking is the record of a confirmed activity booking.
type Booking struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	ActivityID   int       `json:"activity_id"`
	ActivityName string    `json:"activity_name"`
	Time         string    `json:"time"`
	Location     string    `json:"location"`
	Category     string    `json:"category"`
	Status       string    `json:"status"`
	BookedAt     time.Time `json:"booked_at"`
}

// Membership is the record of a community join.
type Membership struct {
	Username      string    `json:"username"`
	CommunityID   int       `json:"community_id"`
	CommunityName string    `json:"community_name"`
	Role          string    `json:"role"`
	Status        string    `json:"status"`
	JoinedAt      time.Time `json:"joined_at"`
}

// Notification is one rendered notification.
type Notification struct {
	Category string `json:"category"`
	Text     string `json:"text"`
}

// Message is a chat message.
type Message struct {
	From   string    `json:"from"`
	To     string    `json:"to"`
	Text   string    `json:"text"`
	SentAt time.Time `json:"sent_at"`
}

// Summary aggregates cross-engine data for the dashboard.
type Summary struct {
	FullName          string   `json:"full_name"`
	Communities       []string `json:"communities"`
	Activities        []string `json:"activities"`
	Friends           []string `json:"friends"`
	Notifications     int      `json:"notifications"`
	ProfileCompletion int      `json:"profile_completion"`
	EngagementScore   float64  `json:"engagement_score"`
}
