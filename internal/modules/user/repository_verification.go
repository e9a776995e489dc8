package user

import (
	"context"
	"errors"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"
)

// --- Verification codes (6-digit OTP, one row per user) ---

// UpsertVerificationToken creates or overwrites the user's verification code
// in a single atomic statement. The unique constraint on user_id plus
// ON CONFLICT keeps concurrent issue requests from racing a separate
// get-then-create; last write wins.
func (r *repository) UpsertVerificationToken(ctx context.Context, vt *VerificationToken) error {
	now := time.Now()
	if vt.CreatedAt.IsZero() {
		vt.CreatedAt = now
	}
	vt.UpdatedAt = now

	query, args, err := r.psql.Insert("verification_tokens").
		Columns("user_id", "code", "expires_at", "created_at", "updated_at").
		Values(vt.UserID, vt.Code, vt.ExpiresAt, vt.CreatedAt, vt.UpdatedAt).
		Suffix("ON CONFLICT (user_id) DO UPDATE SET code = EXCLUDED.code, expires_at = EXCLUDED.expires_at, updated_at = EXCLUDED.updated_at").
		ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, query, args...)
	return err
}

// FindVerificationToken looks up the user's code by exact match. A missing
// row means either no code was ever issued or the supplied code is wrong;
// both come back as ErrNotFound.
func (r *repository) FindVerificationToken(ctx context.Context, userID, code string) (*VerificationToken, error) {
	query, args, err := r.psql.Select("user_id", "code", "expires_at", "created_at", "updated_at").
		From("verification_tokens").
		Where(squirrel.Eq{"user_id": userID, "code": code}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, err
	}

	var vt VerificationToken
	if err := pgxscan.Get(ctx, r.db, &vt, query, args...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound.WithCause(err)
		}
		return nil, err
	}
	return &vt, nil
}

// DeleteVerificationToken removes the user's code after successful
// verification, making the code strictly one-shot.
func (r *repository) DeleteVerificationToken(ctx context.Context, userID string) error {
	query, args, err := r.psql.Delete("verification_tokens").
		Where(squirrel.Eq{"user_id": userID}).
		ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, query, args...)
	return err
}
