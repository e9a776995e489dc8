package user

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/delordemm1/go-accounts-api/internal/config"
	"github.com/delordemm1/go-accounts-api/internal/notification"
	"github.com/delordemm1/go-accounts-api/internal/session"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// RegisterInput carries the fields accepted at sign-up.
type RegisterInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
}

// LoginInput carries credentials plus optional audit metadata.
type LoginInput struct {
	Email     string
	Password  string
	UserAgent string
	IP        string
}

// CompleteProfileInput carries the fields a verified user may fill in later.
type CompleteProfileInput struct {
	FirstName   string
	LastName    string
	DateOfBirth *time.Time
}

// AuthResult pairs a user with a freshly minted access token.
type AuthResult struct {
	User        *User
	AccessToken string
}

// Service defines the business operations of the user module.
type Service interface {
	// Registration & login
	Register(ctx context.Context, in RegisterInput) (*User, error)
	Login(ctx context.Context, in LoginInput) (*AuthResult, error)
	Logout(ctx context.Context, sessionID string) error

	// Email verification (6-digit code)
	VerifyEmailCode(ctx context.Context, email, code string) (*User, error)

	// Activation links
	ResendActivationEmail(ctx context.Context, userID string) error
	ActivateByLink(ctx context.Context, uidB64, token string) (*AuthResult, error)

	// Password reset
	RequestPasswordReset(ctx context.Context, email string) error
	ConfirmPasswordReset(ctx context.Context, uidB64, token, newPassword string) error

	// Profile
	GetProfile(ctx context.Context, userID string) (*User, error)
	CompleteProfile(ctx context.Context, userID string, in CompleteProfileInput) (*User, error)

	// Social login
	InitiateOAuth(ctx context.Context, provider OAuthProvider) (redirectURL string, err error)
	HandleOAuthCallback(ctx context.Context, provider OAuthProvider, state, code string) (*AuthResult, error)
}

// ServiceConfig holds the dependencies of the user service.
type ServiceConfig struct {
	Repo     Repository
	Logger   *slog.Logger
	Config   *config.Config
	Notifier notification.Service
	Sessions session.Provider
}

// service is the concrete implementation of the Service interface.
type service struct {
	repo     Repository
	log      *slog.Logger
	cfg      *config.Config
	notifier notification.Service
	sessions session.Provider

	activationTokens *TokenGenerator
	resetTokens      *TokenGenerator
	googleOAuth      *oauth2.Config

	// now is injectable for tests.
	now func() time.Time
}

// NewService creates a new user service with its token generators wired from config.
func NewService(c ServiceConfig) Service {
	return &service{
		repo:     c.Repo,
		log:      c.Logger,
		cfg:      c.Config,
		notifier: c.Notifier,
		sessions: c.Sessions,
		activationTokens: NewActivationTokenGenerator(
			c.Config.SecretKey,
			c.Config.SecretKeyFallbacks,
			c.Config.Activation.TokenExpirySeconds,
		),
		resetTokens: NewPasswordResetTokenGenerator(
			c.Config.SecretKey,
			c.Config.SecretKeyFallbacks,
		),
		googleOAuth: &oauth2.Config{
			ClientID:     c.Config.Google.ClientID,
			ClientSecret: c.Config.Google.ClientSecret,
			RedirectURL:  c.Config.Google.RedirectURL,
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     google.Endpoint,
		},
		now: time.Now,
	}
}

// frontendURL joins the configured frontend base with a path and the uid/token
// pair, producing the link embedded in activation and reset emails.
func (s *service) frontendURL(path, uidB64, token string) string {
	base := strings.TrimRight(s.cfg.Frontend.BaseURL, "/")
	p := strings.Trim(path, "/")
	return fmt.Sprintf("%s/%s/%s/%s", base, p, uidB64, token)
}
