package user

import (
	"context"
	"errors"
	"fmt"

	"github.com/delordemm1/go-accounts-api/internal/notification"
	"github.com/delordemm1/go-accounts-api/internal/notification/templates"
	"github.com/delordemm1/go-accounts-api/internal/validation"
)

// RequestPasswordReset mails a signed reset link to an active account.
//
// The responses deliberately distinguish "no such account" from "account is
// inactive": clients rely on these messages to route the user to sign-up or
// to the activation flow.
func (s *service) RequestPasswordReset(ctx context.Context, email string) error {
	email = normalizeEmail(email)

	u, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return validation.NewValidationError("email", "user with this email does not exist")
		}
		return ErrInternal.WithCause(err)
	}

	if !u.IsActive {
		return validation.NewValidationError("email", "user is inactive")
	}

	token := s.resetTokens.Make(u)
	url := s.frontendURL(s.cfg.Frontend.PasswordResetPath, encodeUID(u.ID), token)

	err = notification.SendTemplate(ctx, s.notifier, templates.PasswordReset, u.Email,
		[]notification.Channel{notification.ChannelEmail}, notification.PriorityHigh,
		templates.PasswordResetData{
			FirstName:    u.FirstName,
			URL:          url,
			SupportEmail: s.cfg.SMTP.From,
		})
	if err != nil {
		return ErrInternal.WithCause(fmt.Errorf("failed to send password reset email: %w", err))
	}

	s.log.Info("password reset requested", "user_id", u.ID)
	return nil
}

// ConfirmPasswordReset consumes a reset link and sets the new password. Any
// failure in decoding, lookup, or token verification collapses into
// ErrInvalidResetLink. Setting the password rewrites the stored hash, which
// invalidates the token that was just used along with any other outstanding
// reset links.
func (s *service) ConfirmPasswordReset(ctx context.Context, uidB64, token, newPassword string) error {
	uid, err := decodeUID(uidB64)
	if err != nil {
		return ErrInvalidResetLink
	}

	u, err := s.repo.FindByID(ctx, uid)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrInvalidResetLink
		}
		return ErrInternal.WithCause(err)
	}

	if !s.resetTokens.Check(u, token) {
		return ErrInvalidResetLink
	}

	passwordHash, err := hashPassword(newPassword)
	if err != nil {
		return ErrInternal.WithCause(fmt.Errorf("failed to hash password: %w", err))
	}

	if err := s.repo.UpdatePassword(ctx, u.ID, passwordHash); err != nil {
		return ErrInternal.WithCause(fmt.Errorf("failed to update password: %w", err))
	}

	s.log.Info("password reset confirmed", "user_id", u.ID)
	return nil
}
