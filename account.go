package silverconnect

import (
	"context"
	"errors"

	"github.com/aretw0/silverconnect/internal/services/auth"
	"github.com/aretw0/silverconnect/pkg/domain"
	"github.com/aretw0/silverconnect/pkg/runner"
)

// SignupForm holds the account fields collected at signup.
type SignupForm struct {
	Username        string
	Email           string
	Password        string
	ConfirmPassword string
	FullName        string
}

func (f SignupForm) input() domain.Input {
	return domain.Input{
		auth.FieldEmail:           f.Email,
		auth.FieldPassword:        f.Password,
		auth.FieldConfirmPassword: f.ConfirmPassword,
		auth.FieldFullName:        f.FullName,
	}
}

// ProfileForm holds the profile chosen after signup.
type ProfileForm struct {
	Mode    string
	Hobbies []string
	Story   string
}

func (f ProfileForm) input() domain.Input {
	in := domain.Input{auth.FieldMode: f.Mode, auth.FieldStory: f.Story}
	if f.Hobbies != nil {
		in[auth.FieldHobbies] = f.Hobbies
	}
	return in
}

// Account is the public view of an auth session.
type Account struct {
	Username         string
	Email            string
	FullName         string
	Mode             string
	Hobbies          []string
	LoggedIn         bool
	ProfileCompleted bool
}

// PasswordReset is returned by ForgotPassword.
type PasswordReset struct {
	Token             string
	TemporaryPassword string
}

func accountOf(s *domain.Session) Account {
	return Account{
		Username:         s.Username(),
		Email:            s.String(auth.FieldEmail),
		FullName:         s.String(auth.FieldFullName),
		Mode:             s.String(auth.FieldMode),
		Hobbies:          s.Strings(auth.FieldHobbies),
		LoggedIn:         s.Bool(auth.FieldLoggedIn),
		ProfileCompleted: s.Bool(auth.FieldProfileCompleted),
	}
}

// forgetSecrets keeps plain passwords out of stored snapshots.
func forgetSecrets(s *domain.Session) {
	s.Set(auth.FieldPassword, "")
	s.Set(auth.FieldConfirmPassword, "")
}

// Signup creates an account. On success the auth session waits at ProfileSetup.
func (p *Platform) Signup(ctx context.Context, form SignupForm) Result {
	e := p.current().auth
	return p.within(ctx, "signup", form.Username, e.Machine(), func(ctx context.Context, s *domain.Session) Result {
		defer forgetSecrets(s)
		if err := e.Start(s, domain.KindSignup); err != nil {
			return p.fail(err)
		}
		tr, err := e.Machine().Step(ctx, s, form.input())
		return p.outcome(tr, err, func() Result {
			return p.ok(accountOf(s), "platform.signup.ok", form.Username)
		})
	})
}

// SetupProfile stores the friendship/romance mode, hobbies and story of an account.
func (p *Platform) SetupProfile(ctx context.Context, username string, form ProfileForm) Result {
	e := p.current().auth
	return p.within(ctx, "setup_profile", username, e.Machine(), func(ctx context.Context, s *domain.Session) Result {
		if err := e.Start(s, domain.KindProfileSetup); err != nil {
			return p.fail(err)
		}
		tr, err := e.Machine().Step(ctx, s, form.input())
		return p.outcome(tr, err, func() Result {
			return p.ok(accountOf(s), "platform.profile.ok", s.String(auth.FieldMode))
		})
	})
}

// Login checks the credentials and completes onboarding.
func (p *Platform) Login(ctx context.Context, username, password string) Result {
	e := p.current().auth
	return p.within(ctx, "login", username, e.Machine(), func(ctx context.Context, s *domain.Session) Result {
		defer forgetSecrets(s)
		if err := e.Start(s, domain.KindLogin); err != nil {
			return p.fail(err)
		}
		tr, err := e.Machine().RunToCompletion(ctx, s, domain.Input{auth.FieldPassword: password})
		return p.outcome(tr, err, func() Result {
			return p.ok(accountOf(s), "platform.login.ok", s.String(auth.FieldFullName))
		})
	})
}

// ForgotPassword issues a reset token and a temporary password. The session then waits
// at Login.
func (p *Platform) ForgotPassword(ctx context.Context, username, email string) Result {
	e := p.current().auth
	return p.within(ctx, "forgot_password", username, e.Machine(), func(ctx context.Context, s *domain.Session) Result {
		defer forgetSecrets(s)
		if err := e.Start(s, domain.KindForgotPassword); err != nil {
			return p.fail(err)
		}
		tr, err := e.Machine().Step(ctx, s, domain.Input{auth.FieldEmail: email})
		return p.outcome(tr, err, func() Result {
			reset := PasswordReset{
				Token:             s.String(auth.FieldResetToken),
				TemporaryPassword: s.String(auth.FieldTemporaryPassword),
			}
			return p.ok(reset, "platform.reset.ok", s.String(auth.FieldEmail))
		})
	})
}

// resumable reports whether an earlier journey created the account and then stopped at
// profile setup or login. A retry continues from there instead of signing up again.
func resumable(s *domain.Session) bool {
	if !s.Bool(auth.FieldRegistered) {
		return false
	}
	switch s.CurrentState() {
	case domain.KindProfileSetup, domain.KindLogin:
		return true
	}
	return false
}

// OnboardingScript is everything a new user provides up front. Interactive choices
// (which community, which activity) are asked through the IOHandler.
type OnboardingScript struct {
	Signup   SignupForm
	Profile  ProfileForm
	Activity ActivityQuery
}

// Journey reports each step of CompleteOnboardingJourney.
type Journey struct {
	Account   Account
	Community Result
	Activity  Result
	Dashboard Result
}

// CompleteOnboardingJourney runs signup, profile setup, login and onboarding in one pass,
// then lets the user join a community and book an activity recommended from their hobbies,
// and finally builds the dashboard. Business rule failures in the later steps are
// reported in the Journey; cancellation stops the journey. When the account was created
// but profile setup or login was rejected, calling it again resumes at that step.
func (p *Platform) CompleteOnboardingJourney(ctx context.Context, io runner.IOHandler, script OnboardingScript) Result {
	e := p.current().auth
	username := script.Signup.Username
	res := p.within(ctx, "onboarding", username, e.Machine(), func(ctx context.Context, s *domain.Session) Result {
		defer forgetSecrets(s)
		if !resumable(s) {
			if err := e.Start(s, domain.KindSignup); err != nil {
				return p.fail(err)
			}
		}
		in := script.Signup.input()
		for k, v := range script.Profile.input() {
			in[k] = v
		}
		tr, err := e.Machine().RunToCompletion(ctx, s, in)
		return p.outcome(tr, err, func() Result {
			return p.ok(accountOf(s), "platform.onboarding.ok", s.String(auth.FieldFullName))
		})
	})
	if !res.Success {
		return res
	}

	journey := Journey{Account: res.Data.(Account)}
	interests := journey.Account.Hobbies

	journey.Community = p.BrowseAndJoinCommunity(ctx, io, username, interests)
	if journey.Community.Canceled() || errors.Is(journey.Community.Err, ErrTooManyAttempts) {
		return Result{Message: journey.Community.Message, Data: journey, Err: journey.Community.Err}
	}

	query := script.Activity
	if query.Interests == nil {
		query.Interests = interests
	}
	journey.Activity = p.FindAndBookActivity(ctx, io, username, query)
	if journey.Activity.Canceled() || errors.Is(journey.Activity.Err, ErrTooManyAttempts) {
		return Result{Message: journey.Activity.Message, Data: journey, Err: journey.Activity.Err}
	}

	journey.Dashboard = p.ShowDashboard(ctx, username)
	res.Data = journey
	return res
}
