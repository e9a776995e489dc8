package user

import (
	"context"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/delordemm1/go-accounts-api/internal/database"
)

// Repository defines the interface for database operations for the user module.
// This abstraction allows the service layer to be independent of the database implementation.
type Repository interface {
	Create(ctx context.Context, user *User) error
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByID(ctx context.Context, id string) (*User, error)
	Update(ctx context.Context, user *User) error

	// Activate flips is_active and was_activated in one partial update,
	// leaving every other column untouched.
	Activate(ctx context.Context, userID string) error
	SetActivationEmailSentAt(ctx context.Context, userID string, sentAt time.Time) error
	UpdatePassword(ctx context.Context, userID string, newPasswordHash string) error

	// Verification codes (one row per user, overwritten in place)
	UpsertVerificationToken(ctx context.Context, vt *VerificationToken) error
	FindVerificationToken(ctx context.Context, userID, code string) (*VerificationToken, error)
	DeleteVerificationToken(ctx context.Context, userID string) error

	// OAuth states (for social login)
	InsertOAuthState(ctx context.Context, state *OAuthState) error
	GetOAuthStateByState(ctx context.Context, state string) (*OAuthState, error)
	DeleteOAuthState(ctx context.Context, state string) error
	DeleteExpiredOAuthStates(ctx context.Context) error
}

// repository implements the Repository interface using pgx and squirrel.
type repository struct {
	db   database.DBTX
	psql squirrel.StatementBuilderType
}

// NewRepository creates a new user repository with the given database connection.
func NewRepository(db database.DBTX) Repository {
	return &repository{
		db:   db,
		psql: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}
