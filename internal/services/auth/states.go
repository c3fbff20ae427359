package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aretw0/silverconnect/pkg/domain"
	"github.com/go-playground/validator/v10"
)

// merge copies the given input keys onto the session.
func merge(s *domain.Session, in domain.Input, keys ...string) {
	for _, k := range keys {
		if in.Has(k) {
			s.Set(k, in.String(k))
		}
	}
}

type signupForm struct {
	Username        string `field:"username" validate:"required"`
	Email           string `field:"email" validate:"required"`
	Password        string `field:"password" validate:"required"`
	ConfirmPassword string `field:"confirmPassword" validate:"required,eqfield=Password"`
	FullName        string `field:"fullName" validate:"required"`
}

type signup struct{ e *Engine }

func (st *signup) Kind() domain.StateKind { return domain.KindSignup }

func (st *signup) Successors() []domain.StateKind {
	return []domain.StateKind{domain.KindProfileSetup}
}

func (st *signup) Handle(ctx context.Context, s *domain.Session, in domain.Input) domain.Transition {
	merge(s, in, FieldEmail, FieldPassword, FieldConfirmPassword, FieldFullName)
	form := signupForm{
		Username:        s.Username(),
		Email:           s.String(FieldEmail),
		Password:        s.String(FieldPassword),
		ConfirmPassword: s.String(FieldConfirmPassword),
		FullName:        s.String(FieldFullName),
	}

	if err := st.e.validate.Struct(form); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return domain.Invalid(domain.InvalidInput("%v", err))
		}
		var missing []string
		mismatch := false
		for _, fe := range verrs {
			if fe.Tag() == "eqfield" {
				mismatch = true
				continue
			}
			missing = append(missing, fe.Field())
		}
		if len(missing) > 0 {
			return domain.Invalid(domain.InvalidInput("missing required fields: %s", strings.Join(missing, ", ")))
		}
		if mismatch {
			return domain.Invalid(domain.RuleViolation(domain.RulePasswordMismatch, "password and confirmation do not match"))
		}
	}

	err := st.e.users.Create(ctx, domain.UserRecord{
		Username:     form.Username,
		Email:        form.Email,
		FullName:     form.FullName,
		PasswordHash: HashPassword(form.Password),
	})
	if errors.Is(err, domain.ErrUserExists) {
		return domain.Invalid(domain.RuleViolation(domain.RuleUserExists, "username %q is already taken", form.Username))
	}
	if err != nil {
		return domain.TerminalWith(fmt.Errorf("failed to create account: %w", err))
	}

	s.Set(FieldRegistered, true)
	st.e.logger.Info("account created", "user", form.Username)
	return domain.Continue(domain.KindProfileSetup)
}

type profileSetup struct{ e *Engine }

func (st *profileSetup) Kind() domain.StateKind { return domain.KindProfileSetup }

func (st *profileSetup) Successors() []domain.StateKind {
	return []domain.StateKind{domain.KindLogin}
}

func (st *profileSetup) Handle(ctx context.Context, s *domain.Session, in domain.Input) domain.Transition {
	raw := strings.ToLower(in.String(FieldMode))
	if raw == "" {
		raw = s.String(FieldMode)
	}
	mode, ok := modeAliases[raw]
	if !ok {
		return domain.Invalid(domain.InvalidInput("mode must be %s or %s", domain.ModeFriendship, domain.ModeRomance))
	}
	hobbies := s.Strings(FieldHobbies)
	if in.Has(FieldHobbies) {
		hobbies = in.Strings(FieldHobbies)
	}
	story := s.String(FieldStory)
	if in.Has(FieldStory) {
		story = in.String(FieldStory)
	}

	err := st.e.users.Update(ctx, s.Username(), func(rec *domain.UserRecord) error {
		rec.Mode = mode
		rec.Hobbies = hobbies
		rec.Story = story
		return nil
	})
	if errors.Is(err, domain.ErrUserNotFound) {
		return domain.Invalid(domain.MissingPrecondition("no account for %q", s.Username()))
	}
	if err != nil {
		return domain.TerminalWith(fmt.Errorf("failed to save profile: %w", err))
	}

	s.Set(FieldMode, mode)
	s.Set(FieldHobbies, hobbies)
	s.Set(FieldStory, story)
	return domain.Continue(domain.KindLogin)
}

type login struct{ e *Engine }

func (st *login) Kind() domain.StateKind { return domain.KindLogin }

func (st *login) Successors() []domain.StateKind {
	return []domain.StateKind{domain.KindOnboarding}
}

func (st *login) Handle(ctx context.Context, s *domain.Session, in domain.Input) domain.Transition {
	merge(s, in, FieldPassword)
	rec, err := st.e.users.Lookup(ctx, s.Username())
	if err != nil || rec.PasswordHash != HashPassword(s.String(FieldPassword)) {
		s.Set(FieldLoggedIn, false)
		return domain.Invalid(domain.InvalidInput("invalid credentials"))
	}

	s.Set(FieldLoggedIn, true)
	s.Set(FieldFullName, rec.FullName)
	s.Set(FieldEmail, rec.Email)
	if rec.Mode != "" {
		s.Set(FieldMode, rec.Mode)
	}
	if len(rec.Hobbies) > 0 {
		s.Set(FieldHobbies, rec.Hobbies)
	}
	return domain.Continue(domain.KindOnboarding)
}

type onboarding struct{ e *Engine }

func (st *onboarding) Kind() domain.StateKind { return domain.KindOnboarding }

func (st *onboarding) Successors() []domain.StateKind { return nil }

func (st *onboarding) Handle(ctx context.Context, s *domain.Session, _ domain.Input) domain.Transition {
	err := st.e.users.Update(ctx, s.Username(), func(rec *domain.UserRecord) error {
		rec.ProfileCompleted = true
		return nil
	})
	if err != nil {
		return domain.TerminalWith(fmt.Errorf("failed to complete onboarding: %w", err))
	}
	s.Set(FieldProfileCompleted, true)
	return domain.Terminal()
}

type forgotPassword struct{ e *Engine }

func (st *forgotPassword) Kind() domain.StateKind { return domain.KindForgotPassword }

func (st *forgotPassword) Successors() []domain.StateKind {
	return []domain.StateKind{domain.KindLogin}
}

func (st *forgotPassword) Handle(ctx context.Context, s *domain.Session, in domain.Input) domain.Transition {
	merge(s, in, FieldEmail)
	email := s.String(FieldEmail)
	if email == "" {
		return domain.Invalid(domain.MissingPrecondition("an email address is required to reset the password"))
	}

	token := st.e.tokens()
	err := st.e.users.Update(ctx, s.Username(), func(rec *domain.UserRecord) error {
		rec.PasswordHash = HashPassword(st.e.temporaryPass)
		return nil
	})
	if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
		return domain.TerminalWith(fmt.Errorf("failed to reset password: %w", err))
	}

	s.Set(FieldResetToken, token)
	s.Set(FieldTemporaryPassword, st.e.temporaryPass)
	s.Set(FieldPassword, st.e.temporaryPass)
	st.e.logger.Info("password reset issued", "user", s.Username(), "email", email)
	return domain.Continue(domain.KindLogin)
}
