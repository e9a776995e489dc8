package user

import (
	"context"
	"errors"
	"fmt"
)

// GetProfile returns the user's own profile.
func (s *service) GetProfile(ctx context.Context, userID string) (*User, error) {
	u, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, ErrInternal.WithCause(err)
	}
	return u, nil
}

// CompleteProfile fills in the optional profile fields. Only users who have
// finished activation at least once may complete their profile.
func (s *service) CompleteProfile(ctx context.Context, userID string, in CompleteProfileInput) (*User, error) {
	u, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, ErrInternal.WithCause(err)
	}

	if !u.WasActivated {
		return nil, ErrNotActivated
	}

	if in.FirstName != "" {
		u.FirstName = in.FirstName
	}
	if in.LastName != "" {
		u.LastName = in.LastName
	}
	if in.DateOfBirth != nil {
		u.DateOfBirth = in.DateOfBirth
	}

	if err := s.repo.Update(ctx, u); err != nil {
		return nil, ErrInternal.WithCause(fmt.Errorf("failed to update profile: %w", err))
	}

	s.log.Info("profile completed", "user_id", u.ID)
	return u, nil
}
