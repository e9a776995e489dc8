package user

import (
	"context"
	"testing"

	"github.com/delordemm1/go-accounts-api/internal/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func activeTestUser(t *testing.T, env *testEnv, email string) *User {
	t.Helper()
	u := registerTestUser(t, env, email)
	require.NoError(t, env.repo.Activate(context.Background(), u.ID))
	stored, err := env.repo.FindByID(context.Background(), u.ID)
	require.NoError(t, err)
	return stored
}

func TestRequestPasswordReset_UnknownEmail(t *testing.T) {
	env := newTestEnv(testConfig())

	err := env.svc.RequestPasswordReset(context.Background(), "nobody@example.com")

	var verr *validation.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, err.Error(), "does not exist")
	assert.Zero(t, env.notifier.sentCount())
}

func TestRequestPasswordReset_InactiveUser(t *testing.T) {
	env := newTestEnv(testConfig())

	registerTestUser(t, env, "jane@example.com")
	sentBefore := env.notifier.sentCount()

	err := env.svc.RequestPasswordReset(context.Background(), "jane@example.com")

	var verr *validation.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, err.Error(), "inactive")
	assert.Equal(t, sentBefore, env.notifier.sentCount())
}

func TestRequestPasswordReset_SendsEmail(t *testing.T) {
	env := newTestEnv(testConfig())

	activeTestUser(t, env, "jane@example.com")
	sentBefore := env.notifier.sentCount()

	err := env.svc.RequestPasswordReset(context.Background(), "Jane@Example.com")
	require.NoError(t, err)
	assert.Equal(t, sentBefore+1, env.notifier.sentCount())
	assert.Equal(t, "jane@example.com", env.notifier.lastRecipient())
}

func TestConfirmPasswordReset_Success(t *testing.T) {
	env := newTestEnv(testConfig())
	ctx := context.Background()

	u := activeTestUser(t, env, "jane@example.com")
	token := env.svc.resetTokens.Make(u)

	err := env.svc.ConfirmPasswordReset(ctx, encodeUID(u.ID), token, "a brand new password")
	require.NoError(t, err)

	stored, err := env.repo.FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.NotEqual(t, u.PasswordHash, stored.PasswordHash)
	assert.True(t, checkPasswordHash("a brand new password", stored.PasswordHash))
}

func TestConfirmPasswordReset_TokenDiesWithPasswordChange(t *testing.T) {
	env := newTestEnv(testConfig())
	ctx := context.Background()

	u := activeTestUser(t, env, "jane@example.com")
	token := env.svc.resetTokens.Make(u)

	require.NoError(t, env.svc.ConfirmPasswordReset(ctx, encodeUID(u.ID), token, "first new password"))

	// The stored hash changed, so the same link no longer verifies.
	err := env.svc.ConfirmPasswordReset(ctx, encodeUID(u.ID), token, "second new password")
	assert.ErrorIs(t, err, ErrInvalidResetLink)
}

func TestConfirmPasswordReset_FailuresAreUniform(t *testing.T) {
	env := newTestEnv(testConfig())
	ctx := context.Background()

	u := activeTestUser(t, env, "jane@example.com")
	token := env.svc.resetTokens.Make(u)

	cases := map[string]struct {
		uid   string
		token string
	}{
		"malformed uid": {"***", token},
		"unknown user":  {encodeUID("0198c2f3-0000-7000-8000-000000000000"), token},
		"bad token":     {encodeUID(u.ID), "abc123-notatoken"},
		"empty token":   {encodeUID(u.ID), ""},
	}
	for name, tc := range cases {
		err := env.svc.ConfirmPasswordReset(ctx, tc.uid, tc.token, "whatever password")
		assert.ErrorIs(t, err, ErrInvalidResetLink, name)
	}

	// Password untouched throughout.
	stored, err := env.repo.FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, u.PasswordHash, stored.PasswordHash)
}
