package domain

// StateKind is the discriminated tag of a state.
type StateKind string

// Idle marks a session with no active state.
const Idle StateKind = ""

// Auth engine states.
const (
	KindSignup         StateKind = "Signup"
	KindProfileSetup   StateKind = "ProfileSetup"
	KindLogin          StateKind = "Login"
	KindOnboarding     StateKind = "Onboarding"
	KindForgotPassword StateKind = "ForgotPassword"
)

// Activity engine states.
const (
	KindFindActivity StateKind = "FindActivity"
	KindBookActivity StateKind = "BookActivity"
)

// Community engine states.
const (
	KindBrowseCommunity StateKind = "BrowseCommunity"
	KindJoinCommunity   StateKind = "JoinCommunity"
)

// Friends engine states.
const (
	KindSearchFriends StateKind = "SearchFriends"
	KindFriendDetail  StateKind = "FriendDetail"
	KindFriendChat    StateKind = "FriendChat"
)

// Notification engine states.
const (
	KindCheckNotifications StateKind = "CheckNotifications"
)

// Settings engine states.
const (
	KindFontSettings  StateKind = "FontSettings"
	KindThemeSettings StateKind = "ThemeSettings"
)

// Dashboard engine states.
const (
	KindViewDashboard     StateKind = "ViewDashboard"
	KindViewProfile       StateKind = "ViewProfile"
	KindDashboardSettings StateKind = "DashboardSettings"
)

// Chat engine states.
const (
	KindChatStart       StateKind = "ChatStart"
	KindChatSendMessage StateKind = "ChatSendMessage"
)

// Engine names, used as the Session engine tag and as metric/log labels.
const (
	EngineAuth         = "auth"
	EngineActivity     = "activity"
	EngineCommunity    = "community"
	EngineFriends      = "friends"
	EngineNotification = "notification"
	EngineSettings     = "settings"
	EngineDashboard    = "dashboard"
	EngineChat         = "chat"
)

// Claim scopes used by the claim ledger.
const (
	ScopeActivity  = "activity"
	ScopeCommunity = "community"
)
