package user

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/delordemm1/go-accounts-api/internal/notification"
	"github.com/delordemm1/go-accounts-api/internal/notification/templates"
	"github.com/google/uuid"
)

const verificationCodeLength = 6

// Register creates a new, inactive account and mails a one-time verification
// code. With activation skipping enabled the account is born active and no
// code is issued.
func (s *service) Register(ctx context.Context, in RegisterInput) (*User, error) {
	email := normalizeEmail(in.Email)

	if _, err := s.repo.FindByEmail(ctx, email); err == nil {
		return nil, ErrEmailExists
	} else if !errors.Is(err, ErrNotFound) {
		return nil, ErrInternal.WithCause(err)
	}

	passwordHash, err := hashPassword(in.Password)
	if err != nil {
		return nil, ErrInternal.WithCause(fmt.Errorf("failed to hash password: %w", err))
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, ErrInternal.WithCause(err)
	}

	u := &User{
		ID:           id.String(),
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Email:        email,
		PasswordHash: passwordHash,
	}
	if s.cfg.Activation.Skip {
		u.IsActive = true
		u.WasActivated = true
	} else {
		// Registration itself counts as the first activation email, so the
		// resend cooldown starts now.
		now := s.now()
		u.ActivationEmailSentAt = &now
	}

	if err := s.repo.Create(ctx, u); err != nil {
		return nil, ErrInternal.WithCause(fmt.Errorf("failed to create user: %w", err))
	}

	if !s.cfg.Activation.Skip {
		if err := s.issueVerificationCode(ctx, u); err != nil {
			// The account exists; the user can ask for a resend.
			s.log.Error("failed to issue verification code after registration", "user_id", u.ID, "error", err)
		}
	}

	s.log.Info("user registered", "user_id", u.ID, "activation_skipped", s.cfg.Activation.Skip)
	return u, nil
}

// issueVerificationCode mints a fresh 6-digit code, overwrites any previous
// one for the user, and dispatches it by email.
func (s *service) issueVerificationCode(ctx context.Context, u *User) error {
	code, err := generateNumericCode(verificationCodeLength)
	if err != nil {
		return fmt.Errorf("failed to generate verification code: %w", err)
	}

	ttl := time.Duration(s.cfg.Verification.TTLMinutes) * time.Minute
	vt := &VerificationToken{
		UserID:    u.ID,
		Code:      code,
		ExpiresAt: s.now().Add(ttl),
	}
	if err := s.repo.UpsertVerificationToken(ctx, vt); err != nil {
		return fmt.Errorf("failed to store verification code: %w", err)
	}

	return notification.SendTemplate(ctx, s.notifier, templates.VerifyCode, u.Email,
		[]notification.Channel{notification.ChannelEmail}, notification.PriorityHigh,
		templates.VerifyCodeData{
			FirstName:     u.FirstName,
			Code:          code,
			ExpiryMinutes: s.cfg.Verification.TTLMinutes,
			SupportEmail:  s.cfg.SMTP.From,
		})
}

// Login authenticates a user with email and password, creates a server-side
// session, and returns an access token carrying the session ID.
func (s *service) Login(ctx context.Context, in LoginInput) (*AuthResult, error) {
	email := normalizeEmail(in.Email)

	u, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, ErrInternal.WithCause(err)
	}

	if !checkPasswordHash(in.Password, u.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	if !u.IsActive {
		return nil, ErrAccountInactive
	}

	return s.startSession(ctx, u, in.UserAgent, in.IP)
}

// Logout revokes the server-side session named by the access token's sid claim.
func (s *service) Logout(ctx context.Context, sessionID string) error {
	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		return ErrInternal.WithCause(fmt.Errorf("failed to delete session: %w", err))
	}
	return nil
}

// startSession creates a session row and a signed access token for the user.
func (s *service) startSession(ctx context.Context, u *User, userAgent, ip string) (*AuthResult, error) {
	sessionID, err := s.sessions.CreateAuthSession(ctx, u.ID, userAgent, ip)
	if err != nil {
		return nil, ErrInternal.WithCause(fmt.Errorf("failed to create session: %w", err))
	}

	token, err := generateJWT(s.cfg.JWTSecret, u.ID, sessionID)
	if err != nil {
		return nil, ErrInternal.WithCause(fmt.Errorf("failed to sign access token: %w", err))
	}

	return &AuthResult{User: u, AccessToken: token}, nil
}
