package user

import (
	"context"
	"errors"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"
)

// InsertOAuthState stores the CSRF state and PKCE verifier for an in-flight social login.
func (r *repository) InsertOAuthState(ctx context.Context, state *OAuthState) error {
	now := time.Now()
	if state.CreatedAt.IsZero() {
		state.CreatedAt = now
	}
	state.UpdatedAt = now

	query, args, err := r.psql.Insert("oauth_states").
		Columns("state", "provider", "user_id", "verifier", "expires_at", "created_at", "updated_at").
		Values(state.State, string(state.Provider), state.UserID, state.Verifier, state.ExpiresAt, state.CreatedAt, state.UpdatedAt).
		ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, query, args...)
	return err
}

// GetOAuthStateByState retrieves an oauth state by its random state value.
func (r *repository) GetOAuthStateByState(ctx context.Context, state string) (*OAuthState, error) {
	query, args, err := r.psql.Select("state", "provider", "user_id", "verifier", "expires_at", "created_at", "updated_at").
		From("oauth_states").
		Where(squirrel.Eq{"state": state}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, err
	}

	var st OAuthState
	if err := pgxscan.Get(ctx, r.db, &st, query, args...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound.WithCause(err)
		}
		return nil, err
	}
	return &st, nil
}

// DeleteOAuthState removes a consumed state row. Idempotent.
func (r *repository) DeleteOAuthState(ctx context.Context, state string) error {
	query, args, err := r.psql.Delete("oauth_states").
		Where(squirrel.Eq{"state": state}).
		ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, query, args...)
	return err
}

// DeleteExpiredOAuthStates clears abandoned login attempts.
func (r *repository) DeleteExpiredOAuthStates(ctx context.Context) error {
	query, args, err := r.psql.Delete("oauth_states").
		Where(squirrel.Lt{"expires_at": time.Now()}).
		ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, query, args...)
	return err
}
