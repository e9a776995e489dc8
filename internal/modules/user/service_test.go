package user

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/delordemm1/go-accounts-api/internal/config"
	"github.com/delordemm1/go-accounts-api/internal/notification"
	"github.com/delordemm1/go-accounts-api/internal/notification/templates"
)

// --- In-memory fakes shared by the service tests ---

type fakeRepo struct {
	mu     sync.Mutex
	users  map[string]*User              // by ID
	codes  map[string]*VerificationToken // by user ID
	states map[string]*OAuthState        // by state
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		users:  make(map[string]*User),
		codes:  make(map[string]*VerificationToken),
		states: make(map[string]*OAuthState),
	}
}

func (r *fakeRepo) Create(ctx context.Context, u *User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Email == u.Email {
			return fmt.Errorf("duplicate email %q", u.Email)
		}
	}
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *fakeRepo) FindByEmail(ctx context.Context, email string) (*User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (r *fakeRepo) FindByID(ctx context.Context, id string) (*User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *fakeRepo) Update(ctx context.Context, u *User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[u.ID]; !ok {
		return ErrNotFound
	}
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *fakeRepo) Activate(ctx context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok {
		return ErrNotFound
	}
	u.IsActive = true
	u.WasActivated = true
	return nil
}

func (r *fakeRepo) SetActivationEmailSentAt(ctx context.Context, userID string, sentAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok {
		return ErrNotFound
	}
	t := sentAt
	u.ActivationEmailSentAt = &t
	return nil
}

func (r *fakeRepo) UpdatePassword(ctx context.Context, userID string, newPasswordHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok {
		return ErrNotFound
	}
	u.PasswordHash = newPasswordHash
	return nil
}

func (r *fakeRepo) UpsertVerificationToken(ctx context.Context, vt *VerificationToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *vt
	r.codes[vt.UserID] = &cp
	return nil
}

func (r *fakeRepo) FindVerificationToken(ctx context.Context, userID, code string) (*VerificationToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	vt, ok := r.codes[userID]
	if !ok || vt.Code != code {
		return nil, ErrNotFound
	}
	cp := *vt
	return &cp, nil
}

func (r *fakeRepo) DeleteVerificationToken(ctx context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.codes, userID)
	return nil
}

func (r *fakeRepo) InsertOAuthState(ctx context.Context, state *OAuthState) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *state
	r.states[state.State] = &cp
	return nil
}

func (r *fakeRepo) GetOAuthStateByState(ctx context.Context, state string) (*OAuthState, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	st, ok := r.states[state]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *st
	return &cp, nil
}

func (r *fakeRepo) DeleteOAuthState(ctx context.Context, state string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.states, state)
	return nil
}

func (r *fakeRepo) DeleteExpiredOAuthStates(ctx context.Context) error {
	return nil
}

// fakeNotifier records every dispatched notification synchronously.
type fakeNotifier struct {
	mu   sync.Mutex
	sent []notification.Notification
}

func (n *fakeNotifier) Send(ctx context.Context, msg notification.Notification) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, msg)
	return nil
}

func (n *fakeNotifier) Render(ctx context.Context, id string, data any) (templates.Rendered, error) {
	return templates.Rendered{Subject: id}, nil
}

func (n *fakeNotifier) sentCount() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.sent)
}

func (n *fakeNotifier) lastRecipient() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.sent) == 0 {
		return ""
	}
	return n.sent[len(n.sent)-1].Recipient
}

// fakeSessions hands out predictable session IDs and tracks deletions.
type fakeSessions struct {
	mu      sync.Mutex
	counter int
	live    map[string]string // session ID -> user ID
}

func newFakeSessions() *fakeSessions {
	return &fakeSessions{live: make(map[string]string)}
}

func (s *fakeSessions) CreateAuthSession(ctx context.Context, userID, userAgent, ip string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counter++
	id := fmt.Sprintf("auth:test-%d", s.counter)
	s.live[id] = userID
	return id, nil
}

func (s *fakeSessions) GetAndExtend(ctx context.Context, sessionID string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	userID, ok := s.live[sessionID]
	if !ok {
		return "", ErrNotFound
	}
	return userID, nil
}

func (s *fakeSessions) Delete(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.live, sessionID)
	return nil
}

// --- Test service wiring ---

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret: "test-jwt-secret",
		SecretKey: "test-secret-key",
		Activation: config.ActivationConfig{
			TokenExpirySeconds:    3600,
			ResendCooldownSeconds: 900,
		},
		Verification: config.VerificationConfig{TTLMinutes: 10},
		Frontend: config.FrontendConfig{
			BaseURL:           "https://app.example.com",
			ActivationPath:    "/activate",
			PasswordResetPath: "/password/reset",
		},
		SMTP: config.SMTPConfig{From: "support@example.com"},
	}
}

type testEnv struct {
	svc      *service
	repo     *fakeRepo
	notifier *fakeNotifier
	sessions *fakeSessions
	cfg      *config.Config
}

func newTestEnv(cfg *config.Config) *testEnv {
	repo := newFakeRepo()
	notifier := &fakeNotifier{}
	sessions := newFakeSessions()

	svc := NewService(ServiceConfig{
		Repo:     repo,
		Logger:   slog.New(slog.DiscardHandler),
		Config:   cfg,
		Notifier: notifier,
		Sessions: sessions,
	}).(*service)

	return &testEnv{svc: svc, repo: repo, notifier: notifier, sessions: sessions, cfg: cfg}
}

// setClock pins the service and both token generators to a fixed time.
func (e *testEnv) setClock(t time.Time) {
	now := func() time.Time { return t }
	e.svc.now = now
	e.svc.activationTokens.now = now
	e.svc.resetTokens.now = now
}
