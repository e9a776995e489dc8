package user

import (
	"context"
	"errors"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"
)

const userColumns = "id, first_name, last_name, email, password_hash, date_of_birth, " +
	"is_active, was_activated, is_staff, is_superuser, activation_email_sent_at, created_at, updated_at"

// Create inserts a new user record into the database.
func (r *repository) Create(ctx context.Context, user *User) error {
	now := time.Now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	query, args, err := r.psql.Insert("users").
		Columns("id", "first_name", "last_name", "email", "password_hash", "date_of_birth",
			"is_active", "was_activated", "is_staff", "is_superuser", "activation_email_sent_at",
			"created_at", "updated_at").
		Values(user.ID, user.FirstName, user.LastName, user.Email, user.PasswordHash, user.DateOfBirth,
			user.IsActive, user.WasActivated, user.IsStaff, user.IsSuperuser, user.ActivationEmailSentAt,
			user.CreatedAt, user.UpdatedAt).
		ToSql()
	if err != nil {
		return err
	}

	if _, err = r.db.Exec(ctx, query, args...); err != nil {
		// A unique-constraint violation on email surfaces here; the service
		// pre-checks, so anything reaching this point is unexpected.
		return err
	}

	return nil
}

// FindByEmail retrieves a user by their email address.
// It returns ErrNotFound if no user is found.
func (r *repository) FindByEmail(ctx context.Context, email string) (*User, error) {
	return r.findOne(ctx, squirrel.Eq{"email": email})
}

// FindByID retrieves a user by their unique ID.
// It returns ErrNotFound if no user is found.
func (r *repository) FindByID(ctx context.Context, id string) (*User, error) {
	return r.findOne(ctx, squirrel.Eq{"id": id})
}

// Update modifies an existing user's details in the database.
func (r *repository) Update(ctx context.Context, user *User) error {
	user.UpdatedAt = time.Now()

	query, args, err := r.psql.Update("users").
		Set("first_name", user.FirstName).
		Set("last_name", user.LastName).
		Set("email", user.Email).
		Set("password_hash", user.PasswordHash).
		Set("date_of_birth", user.DateOfBirth).
		Set("is_active", user.IsActive).
		Set("was_activated", user.WasActivated).
		Set("activation_email_sent_at", user.ActivationEmailSentAt).
		Set("updated_at", user.UpdatedAt).
		Where(squirrel.Eq{"id": user.ID}).
		ToSql()
	if err != nil {
		return err
	}

	ct, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// Activate sets is_active and was_activated to true, touching nothing else.
func (r *repository) Activate(ctx context.Context, userID string) error {
	query, args, err := r.psql.Update("users").
		Set("is_active", true).
		Set("was_activated", true).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"id": userID}).
		ToSql()
	if err != nil {
		return err
	}

	ct, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// SetActivationEmailSentAt stamps when the last activation email went out.
func (r *repository) SetActivationEmailSentAt(ctx context.Context, userID string, sentAt time.Time) error {
	query, args, err := r.psql.Update("users").
		Set("activation_email_sent_at", sentAt).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"id": userID}).
		ToSql()
	if err != nil {
		return err
	}

	ct, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdatePassword sets a new password hash for a user.
func (r *repository) UpdatePassword(ctx context.Context, userID string, newPasswordHash string) error {
	query, args, err := r.psql.Update("users").
		Set("password_hash", newPasswordHash).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"id": userID}).
		ToSql()
	if err != nil {
		return err
	}

	ct, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// findOne is a helper method to find a single user by a given condition.
func (r *repository) findOne(ctx context.Context, condition squirrel.Sqlizer) (*User, error) {
	query, args, err := r.psql.Select(userColumns).
		From("users").
		Where(condition).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, err
	}

	var user User
	if err := pgxscan.Get(ctx, r.db, &user, query, args...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound.WithCause(err)
		}
		return nil, err
	}

	return &user, nil
}
