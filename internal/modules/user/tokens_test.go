package user

import (
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func testUser() *User {
	return &User{
		ID:           "0198c2f3-aaaa-7bbb-8ccc-123456789abc",
		Email:        "jane@example.com",
		PasswordHash: "$2a$10$abcdefghijklmnopqrstuv",
		IsActive:     false,
	}
}

func TestActivationToken_RoundTrip(t *testing.T) {
	g := NewActivationTokenGenerator("secret", nil, 3600)
	u := testUser()

	token := g.Make(u)
	assert.True(t, g.Check(u, token))
}

func TestActivationToken_Format(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	g := NewActivationTokenGenerator("secret", nil, 3600)
	g.now = fixedClock(now)

	token := g.Make(testUser())

	parts := strings.Split(token, "-")
	require.Len(t, parts, 2)

	ts, err := strconv.ParseInt(parts[0], 36, 64)
	require.NoError(t, err)
	assert.Equal(t, now.Unix(), ts)

	// Shortened hex digest: half of a sha256 hex string.
	assert.Len(t, parts[1], 32)
}

func TestActivationToken_InvalidatedByActivation(t *testing.T) {
	g := NewActivationTokenGenerator("secret", nil, 3600)
	u := testUser()

	token := g.Make(u)
	require.True(t, g.Check(u, token))

	// Activating the account changes the signed-over state.
	u.IsActive = true
	assert.False(t, g.Check(u, token))
}

func TestActivationToken_Expiry(t *testing.T) {
	issued := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	g := NewActivationTokenGenerator("secret", nil, 3600)
	g.now = fixedClock(issued)

	u := testUser()
	token := g.Make(u)

	// Just inside the window.
	g.now = fixedClock(issued.Add(3600 * time.Second))
	assert.True(t, g.Check(u, token))

	// Just past it.
	g.now = fixedClock(issued.Add(3601 * time.Second))
	assert.False(t, g.Check(u, token))
}

func TestResetToken_DefaultTimeout(t *testing.T) {
	issued := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	g := NewPasswordResetTokenGenerator("secret", nil)
	g.now = fixedClock(issued)

	u := testUser()
	token := g.Make(u)

	g.now = fixedClock(issued.Add(86400 * time.Second))
	assert.True(t, g.Check(u, token))

	g.now = fixedClock(issued.Add(86401 * time.Second))
	assert.False(t, g.Check(u, token))
}

func TestResetToken_InvalidatedByPasswordChange(t *testing.T) {
	g := NewPasswordResetTokenGenerator("secret", nil)
	u := testUser()

	token := g.Make(u)
	require.True(t, g.Check(u, token))

	u.PasswordHash = "$2a$10$somethingcompletelydifferent"
	assert.False(t, g.Check(u, token))
}

func TestCheck_MalformedTokensFailClosed(t *testing.T) {
	g := NewActivationTokenGenerator("secret", nil, 3600)
	u := testUser()

	cases := []string{
		"",
		"no-dash-count-is-wrong-here",
		"notbase36!-abcdef",
		"-",
		"abc",
		strings.Repeat("z", 40),
		"zzzzzzzzzzzzzzzzzz-sig", // overflows int64
	}
	for _, tc := range cases {
		assert.False(t, g.Check(u, tc), "token %q should not verify", tc)
	}

	assert.False(t, g.Check(nil, g.Make(u)))
}

func TestCheck_WrongUserRejected(t *testing.T) {
	g := NewActivationTokenGenerator("secret", nil, 3600)
	u := testUser()
	other := testUser()
	other.ID = "0198c2f3-dddd-7eee-8fff-123456789abc"

	token := g.Make(u)
	assert.False(t, g.Check(other, token))
}

func TestCheck_SecretRotationFallback(t *testing.T) {
	old := NewActivationTokenGenerator("old-secret", nil, 3600)
	u := testUser()
	token := old.Make(u)

	// Rotated: new primary secret, old one kept as fallback.
	rotated := NewActivationTokenGenerator("new-secret", []string{"old-secret"}, 3600)
	assert.True(t, rotated.Check(u, token))

	// Without the fallback the old token is dead.
	fresh := NewActivationTokenGenerator("new-secret", nil, 3600)
	assert.False(t, fresh.Check(u, token))
}
