package user

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/delordemm1/go-accounts-api/internal/notification"
	"github.com/delordemm1/go-accounts-api/internal/notification/templates"
)

// VerifyEmailCode checks a 6-digit code against the one stored for the email's
// owner and, on success, activates the account and burns the code.
//
// An unknown email and a wrong code both come back as ErrInvalidOTP; callers
// get no signal about which half failed.
func (s *service) VerifyEmailCode(ctx context.Context, email, code string) (*User, error) {
	email = normalizeEmail(email)
	code = strings.TrimSpace(code)

	u, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidOTP
		}
		return nil, ErrInternal.WithCause(err)
	}

	vt, err := s.repo.FindVerificationToken(ctx, u.ID, code)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidOTP
		}
		return nil, ErrInternal.WithCause(err)
	}

	if vt.IsExpired(s.now()) {
		return nil, ErrExpiredOTP
	}

	if err := s.repo.Activate(ctx, u.ID); err != nil {
		return nil, ErrInternal.WithCause(fmt.Errorf("failed to activate user: %w", err))
	}

	// A leftover row would still be unusable (expiry, then overwrite on the
	// next issue), so a failed delete is logged rather than failing the call.
	if err := s.repo.DeleteVerificationToken(ctx, u.ID); err != nil {
		s.log.Warn("failed to delete used verification code", "user_id", u.ID, "error", err)
	}

	u.IsActive = true
	u.WasActivated = true
	s.log.Info("user verified by code", "user_id", u.ID)
	return u, nil
}

// ResendActivationEmail mails a signed activation link to a user who has not
// completed activation yet. It refuses when the account no longer needs one
// (already active, previously activated, or activation is skipped globally)
// and throttles resends to one per cooldown window.
func (s *service) ResendActivationEmail(ctx context.Context, userID string) error {
	u, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrNotFound
		}
		return ErrInternal.WithCause(err)
	}

	if u.IsActive || u.WasActivated || s.cfg.Activation.Skip {
		return ErrActivationEmailAlreadySent
	}

	cooldown := time.Duration(s.cfg.Activation.ResendCooldownSeconds) * time.Second
	if u.ActivationEmailSentAt != nil && s.now().Sub(*u.ActivationEmailSentAt) < cooldown {
		return ErrActivationEmailAlreadySent
	}

	token := s.activationTokens.Make(u)
	url := s.frontendURL(s.cfg.Frontend.ActivationPath, encodeUID(u.ID), token)

	err = notification.SendTemplate(ctx, s.notifier, templates.ActivationLink, u.Email,
		[]notification.Channel{notification.ChannelEmail}, notification.PriorityHigh,
		templates.ActivationLinkData{
			FirstName:    u.FirstName,
			URL:          url,
			SupportEmail: s.cfg.SMTP.From,
		})
	if err != nil {
		return ErrInternal.WithCause(fmt.Errorf("failed to send activation email: %w", err))
	}

	if err := s.repo.SetActivationEmailSentAt(ctx, u.ID, s.now()); err != nil {
		return ErrInternal.WithCause(fmt.Errorf("failed to stamp activation email time: %w", err))
	}

	s.log.Info("activation email resent", "user_id", u.ID)
	return nil
}

// ActivateByLink consumes an activation link of the form uid/token. Every
// failure mode - malformed uid, unknown user, bad signature, expired or
// already-used token - collapses into ErrInvalidActivationLink.
func (s *service) ActivateByLink(ctx context.Context, uidB64, token string) (*AuthResult, error) {
	uid, err := decodeUID(uidB64)
	if err != nil {
		return nil, ErrInvalidActivationLink
	}

	u, err := s.repo.FindByID(ctx, uid)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidActivationLink
		}
		return nil, ErrInternal.WithCause(err)
	}

	// The token signs over IsActive, so a link for an already-activated
	// account fails this check without a separate branch.
	if !s.activationTokens.Check(u, token) {
		return nil, ErrInvalidActivationLink
	}

	if err := s.repo.Activate(ctx, u.ID); err != nil {
		return nil, ErrInternal.WithCause(fmt.Errorf("failed to activate user: %w", err))
	}
	u.IsActive = true
	u.WasActivated = true

	s.log.Info("user activated by link", "user_id", u.ID)
	return s.startSession(ctx, u, "", "")
}
