package user

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func registerTestUser(t *testing.T, env *testEnv, email string) *User {
	t.Helper()
	u, err := env.svc.Register(context.Background(), RegisterInput{
		FirstName: "Jane",
		LastName:  "Doe",
		Email:     email,
		Password:  "correct horse battery",
	})
	require.NoError(t, err)
	return u
}

func issuedCode(t *testing.T, env *testEnv, userID string) string {
	t.Helper()
	vt, ok := env.repo.codes[userID]
	require.True(t, ok, "expected a verification code for user %s", userID)
	return vt.Code
}

func TestVerifyEmailCode_Success(t *testing.T) {
	env := newTestEnv(testConfig())
	ctx := context.Background()

	u := registerTestUser(t, env, "jane@example.com")
	require.False(t, u.IsActive)

	code := issuedCode(t, env, u.ID)
	verified, err := env.svc.VerifyEmailCode(ctx, "jane@example.com", code)
	require.NoError(t, err)
	assert.True(t, verified.IsActive)
	assert.True(t, verified.WasActivated)

	stored, err := env.repo.FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.True(t, stored.IsActive)
	assert.True(t, stored.WasActivated)
}

func TestVerifyEmailCode_IsOneShot(t *testing.T) {
	env := newTestEnv(testConfig())
	ctx := context.Background()

	u := registerTestUser(t, env, "jane@example.com")
	code := issuedCode(t, env, u.ID)

	_, err := env.svc.VerifyEmailCode(ctx, "jane@example.com", code)
	require.NoError(t, err)

	// The same code is gone after a successful use.
	_, err = env.svc.VerifyEmailCode(ctx, "jane@example.com", code)
	assert.ErrorIs(t, err, ErrInvalidOTP)
}

func TestVerifyEmailCode_UnknownEmailAndWrongCodeLookAlike(t *testing.T) {
	env := newTestEnv(testConfig())
	ctx := context.Background()

	u := registerTestUser(t, env, "jane@example.com")
	_ = issuedCode(t, env, u.ID)

	_, errUnknown := env.svc.VerifyEmailCode(ctx, "nobody@example.com", "123456")
	_, errWrong := env.svc.VerifyEmailCode(ctx, "jane@example.com", "000000")

	assert.ErrorIs(t, errUnknown, ErrInvalidOTP)
	assert.ErrorIs(t, errWrong, ErrInvalidOTP)
	// Identical outward message, no enumeration signal.
	assert.Equal(t, errUnknown.Error(), errWrong.Error())
}

func TestVerifyEmailCode_Expired(t *testing.T) {
	env := newTestEnv(testConfig())
	ctx := context.Background()

	issued := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	env.setClock(issued)

	u := registerTestUser(t, env, "jane@example.com")
	code := issuedCode(t, env, u.ID)

	env.setClock(issued.Add(11 * time.Minute))
	_, err := env.svc.VerifyEmailCode(ctx, "jane@example.com", code)
	assert.ErrorIs(t, err, ErrExpiredOTP)
}

func TestVerifyEmailCode_ReissueOverwrites(t *testing.T) {
	env := newTestEnv(testConfig())
	ctx := context.Background()

	u := registerTestUser(t, env, "jane@example.com")
	first := issuedCode(t, env, u.ID)

	stored, err := env.repo.FindByID(ctx, u.ID)
	require.NoError(t, err)
	require.NoError(t, env.svc.issueVerificationCode(ctx, stored))
	second := issuedCode(t, env, u.ID)

	if first != second {
		_, err = env.svc.VerifyEmailCode(ctx, "jane@example.com", first)
		assert.ErrorIs(t, err, ErrInvalidOTP, "old code must be dead after reissue")
	}
	_, err = env.svc.VerifyEmailCode(ctx, "jane@example.com", second)
	assert.NoError(t, err)
}

func TestResendActivationEmail_Cooldown(t *testing.T) {
	env := newTestEnv(testConfig())
	ctx := context.Background()

	registeredAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	env.setClock(registeredAt)
	u := registerTestUser(t, env, "jane@example.com")

	// Registration stamped the sent-at; an immediate resend is throttled.
	err := env.svc.ResendActivationEmail(ctx, u.ID)
	assert.ErrorIs(t, err, ErrActivationEmailAlreadySent)

	// Still throttled just inside the window.
	env.setClock(registeredAt.Add(14 * time.Minute))
	err = env.svc.ResendActivationEmail(ctx, u.ID)
	assert.ErrorIs(t, err, ErrActivationEmailAlreadySent)

	// Past the cooldown the resend goes out and restamps the clock.
	env.setClock(registeredAt.Add(16 * time.Minute))
	before := env.notifier.sentCount()
	err = env.svc.ResendActivationEmail(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, before+1, env.notifier.sentCount())
	assert.Equal(t, "jane@example.com", env.notifier.lastRecipient())

	stored, err := env.repo.FindByID(ctx, u.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.ActivationEmailSentAt)
	assert.Equal(t, registeredAt.Add(16*time.Minute), *stored.ActivationEmailSentAt)
}

func TestResendActivationEmail_RefusedForActivatedUsers(t *testing.T) {
	env := newTestEnv(testConfig())
	ctx := context.Background()

	u := registerTestUser(t, env, "jane@example.com")
	require.NoError(t, env.repo.Activate(ctx, u.ID))

	err := env.svc.ResendActivationEmail(ctx, u.ID)
	assert.ErrorIs(t, err, ErrActivationEmailAlreadySent)
}

func TestResendActivationEmail_RefusedWhenActivationSkipped(t *testing.T) {
	cfg := testConfig()
	cfg.Activation.Skip = true
	env := newTestEnv(cfg)
	ctx := context.Background()

	u := registerTestUser(t, env, "jane@example.com")
	assert.True(t, u.IsActive, "skip mode births active accounts")

	err := env.svc.ResendActivationEmail(ctx, u.ID)
	assert.ErrorIs(t, err, ErrActivationEmailAlreadySent)
}

func TestActivateByLink_Success(t *testing.T) {
	env := newTestEnv(testConfig())
	ctx := context.Background()

	u := registerTestUser(t, env, "jane@example.com")
	stored, err := env.repo.FindByID(ctx, u.ID)
	require.NoError(t, err)

	token := env.svc.activationTokens.Make(stored)
	result, err := env.svc.ActivateByLink(ctx, encodeUID(u.ID), token)
	require.NoError(t, err)
	assert.True(t, result.User.IsActive)
	assert.True(t, result.User.WasActivated)
	assert.NotEmpty(t, result.AccessToken)
}

func TestActivateByLink_FailuresAreUniform(t *testing.T) {
	env := newTestEnv(testConfig())
	ctx := context.Background()

	u := registerTestUser(t, env, "jane@example.com")
	stored, err := env.repo.FindByID(ctx, u.ID)
	require.NoError(t, err)
	token := env.svc.activationTokens.Make(stored)

	cases := map[string]struct {
		uid   string
		token string
	}{
		"malformed uid":  {"%%%not-base64%%%", token},
		"unknown user":   {encodeUID("0198c2f3-0000-7000-8000-000000000000"), token},
		"garbage token":  {encodeUID(u.ID), "not-a-real-token"},
		"empty token":    {encodeUID(u.ID), ""},
		"empty uid":      {"", token},
	}
	for name, tc := range cases {
		_, err := env.svc.ActivateByLink(ctx, tc.uid, tc.token)
		assert.ErrorIs(t, err, ErrInvalidActivationLink, name)
	}
}

func TestActivateByLink_TokenDiesAfterUse(t *testing.T) {
	env := newTestEnv(testConfig())
	ctx := context.Background()

	u := registerTestUser(t, env, "jane@example.com")
	stored, err := env.repo.FindByID(ctx, u.ID)
	require.NoError(t, err)
	token := env.svc.activationTokens.Make(stored)

	_, err = env.svc.ActivateByLink(ctx, encodeUID(u.ID), token)
	require.NoError(t, err)

	// The token signed over IsActive=false; the account is now active.
	_, err = env.svc.ActivateByLink(ctx, encodeUID(u.ID), token)
	assert.ErrorIs(t, err, ErrInvalidActivationLink)
}
