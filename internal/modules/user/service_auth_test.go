package user

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister_NewUserIsInactiveAndGetsCode(t *testing.T) {
	env := newTestEnv(testConfig())

	u := registerTestUser(t, env, "Jane@Example.COM")

	assert.Equal(t, "jane@example.com", u.Email, "email is normalized")
	assert.False(t, u.IsActive)
	assert.False(t, u.WasActivated)
	require.NotNil(t, u.ActivationEmailSentAt, "registration counts as the first activation email")

	code := issuedCode(t, env, u.ID)
	assert.Len(t, code, 6)
	assert.Equal(t, 1, env.notifier.sentCount())
	assert.Equal(t, "jane@example.com", env.notifier.lastRecipient())
}

func TestRegister_DuplicateEmail(t *testing.T) {
	env := newTestEnv(testConfig())

	registerTestUser(t, env, "jane@example.com")

	_, err := env.svc.Register(context.Background(), RegisterInput{
		FirstName: "Other",
		LastName:  "Person",
		Email:     "JANE@example.com",
		Password:  "another password",
	})
	assert.ErrorIs(t, err, ErrEmailExists)
}

func TestRegister_SkipActivation(t *testing.T) {
	cfg := testConfig()
	cfg.Activation.Skip = true
	env := newTestEnv(cfg)

	u := registerTestUser(t, env, "jane@example.com")

	assert.True(t, u.IsActive)
	assert.True(t, u.WasActivated)
	assert.Nil(t, u.ActivationEmailSentAt)
	assert.Zero(t, env.notifier.sentCount(), "no verification email in skip mode")
	_, hasCode := env.repo.codes[u.ID]
	assert.False(t, hasCode)
}

func TestLogin_Success(t *testing.T) {
	env := newTestEnv(testConfig())

	activeTestUser(t, env, "jane@example.com")

	result, err := env.svc.Login(context.Background(), LoginInput{
		Email:    "jane@example.com",
		Password: "correct horse battery",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, result.AccessToken)
	assert.Equal(t, "jane@example.com", result.User.Email)
	assert.Len(t, env.sessions.live, 1)
}

func TestLogin_WrongPassword(t *testing.T) {
	env := newTestEnv(testConfig())

	activeTestUser(t, env, "jane@example.com")

	_, err := env.svc.Login(context.Background(), LoginInput{
		Email:    "jane@example.com",
		Password: "wrong password",
	})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_UnknownEmailLooksLikeWrongPassword(t *testing.T) {
	env := newTestEnv(testConfig())

	activeTestUser(t, env, "jane@example.com")

	_, errUnknown := env.svc.Login(context.Background(), LoginInput{
		Email: "nobody@example.com", Password: "whatever",
	})
	_, errWrong := env.svc.Login(context.Background(), LoginInput{
		Email: "jane@example.com", Password: "wrong password",
	})
	assert.ErrorIs(t, errUnknown, ErrInvalidCredentials)
	assert.Equal(t, errUnknown.Error(), errWrong.Error())
}

func TestLogin_InactiveUserRejected(t *testing.T) {
	env := newTestEnv(testConfig())

	registerTestUser(t, env, "jane@example.com")

	_, err := env.svc.Login(context.Background(), LoginInput{
		Email:    "jane@example.com",
		Password: "correct horse battery",
	})
	assert.ErrorIs(t, err, ErrAccountInactive)
}

func TestLogout_RevokesSession(t *testing.T) {
	env := newTestEnv(testConfig())
	ctx := context.Background()

	activeTestUser(t, env, "jane@example.com")
	_, err := env.svc.Login(ctx, LoginInput{
		Email:    "jane@example.com",
		Password: "correct horse battery",
	})
	require.NoError(t, err)
	require.Len(t, env.sessions.live, 1)

	var sessionID string
	for id := range env.sessions.live {
		sessionID = id
	}
	require.NoError(t, env.svc.Logout(ctx, sessionID))
	assert.Empty(t, env.sessions.live)
}

func TestCompleteProfile_RequiresActivation(t *testing.T) {
	env := newTestEnv(testConfig())
	ctx := context.Background()

	u := registerTestUser(t, env, "jane@example.com")

	_, err := env.svc.CompleteProfile(ctx, u.ID, CompleteProfileInput{FirstName: "Janet"})
	assert.ErrorIs(t, err, ErrNotActivated)

	require.NoError(t, env.repo.Activate(ctx, u.ID))
	updated, err := env.svc.CompleteProfile(ctx, u.ID, CompleteProfileInput{FirstName: "Janet"})
	require.NoError(t, err)
	assert.Equal(t, "Janet", updated.FirstName)
	assert.Equal(t, "Doe", updated.LastName, "omitted fields stay put")
}
