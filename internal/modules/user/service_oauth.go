package user

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
)

// oauthStateTTL bounds how long a social login may sit between the redirect
// and the callback.
const oauthStateTTL = 10 * time.Minute

const googleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

type googleUserInfo struct {
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	GivenName     string `json:"given_name"`
	FamilyName    string `json:"family_name"`
}

// InitiateOAuth starts a social login: it stores a CSRF state plus PKCE
// verifier and returns the provider's consent URL to redirect the client to.
func (s *service) InitiateOAuth(ctx context.Context, provider OAuthProvider) (string, error) {
	if provider != OAuthProviderGOOGLE {
		return "", ErrUnsupportedOAuthProvider
	}

	// Opportunistic cleanup of abandoned login attempts.
	if err := s.repo.DeleteExpiredOAuthStates(ctx); err != nil {
		s.log.Warn("failed to clean up expired oauth states", "error", err)
	}

	state, err := generateSecureToken(32)
	if err != nil {
		return "", ErrInternal.WithCause(fmt.Errorf("failed to generate oauth state: %w", err))
	}
	verifier := oauth2.GenerateVerifier()

	st := &OAuthState{
		State:     state,
		Provider:  provider,
		Verifier:  verifier,
		ExpiresAt: s.now().Add(oauthStateTTL),
	}
	if err := s.repo.InsertOAuthState(ctx, st); err != nil {
		return "", ErrInternal.WithCause(fmt.Errorf("failed to store oauth state: %w", err))
	}

	url := s.googleOAuth.AuthCodeURL(state,
		oauth2.AccessTypeOffline,
		oauth2.S256ChallengeOption(verifier),
	)
	return url, nil
}

// HandleOAuthCallback finishes a social login: it validates the state, swaps
// the code for a token, fetches the provider profile, and provisions or logs
// in the matching local account. Socially provisioned accounts are born
// active: the provider already verified the email address.
func (s *service) HandleOAuthCallback(ctx context.Context, provider OAuthProvider, state, code string) (*AuthResult, error) {
	if provider != OAuthProviderGOOGLE {
		return nil, ErrUnsupportedOAuthProvider
	}

	st, err := s.repo.GetOAuthStateByState(ctx, state)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrOAuthStateInvalid
		}
		return nil, ErrInternal.WithCause(err)
	}

	// One shot: the state is consumed whether the exchange succeeds or not.
	if err := s.repo.DeleteOAuthState(ctx, state); err != nil {
		s.log.Warn("failed to delete consumed oauth state", "error", err)
	}

	if st.Provider != provider {
		return nil, ErrOAuthStateInvalid
	}
	if s.now().After(st.ExpiresAt) {
		return nil, ErrOAuthStateExpired
	}

	token, err := s.googleOAuth.Exchange(ctx, code, oauth2.VerifierOption(st.Verifier))
	if err != nil {
		return nil, ErrOAuthExchangeFailed.WithCause(err)
	}

	info, err := s.fetchGoogleUserInfo(ctx, token)
	if err != nil {
		return nil, ErrOAuthExchangeFailed.WithCause(err)
	}
	if info.Email == "" {
		return nil, ErrOAuthEmailMissing
	}

	u, err := s.findOrCreateSocialUser(ctx, info)
	if err != nil {
		return nil, err
	}

	s.log.Info("user logged in via oauth", "user_id", u.ID, "provider", provider)
	return s.startSession(ctx, u, "", "")
}

func (s *service) fetchGoogleUserInfo(ctx context.Context, token *oauth2.Token) (*googleUserInfo, error) {
	client := s.googleOAuth.Client(ctx, token)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, googleUserInfoURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch userinfo: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("userinfo endpoint returned status %d", resp.StatusCode)
	}

	var info googleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("failed to decode userinfo: %w", err)
	}
	return &info, nil
}

func (s *service) findOrCreateSocialUser(ctx context.Context, info *googleUserInfo) (*User, error) {
	email := normalizeEmail(info.Email)

	u, err := s.repo.FindByEmail(ctx, email)
	if err == nil {
		if !u.IsActive {
			// The provider vouches for the address, which is exactly what
			// activation establishes.
			if err := s.repo.Activate(ctx, u.ID); err != nil {
				return nil, ErrInternal.WithCause(err)
			}
			u.IsActive = true
			u.WasActivated = true
		}
		return u, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, ErrInternal.WithCause(err)
	}

	// Provision a new account. The random password is never told to anyone;
	// a social user who wants password login goes through the reset flow.
	randomPassword, err := generateSecureToken(32)
	if err != nil {
		return nil, ErrInternal.WithCause(err)
	}
	passwordHash, err := hashPassword(randomPassword)
	if err != nil {
		return nil, ErrInternal.WithCause(err)
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, ErrInternal.WithCause(err)
	}

	u = &User{
		ID:           id.String(),
		FirstName:    info.GivenName,
		LastName:     info.FamilyName,
		Email:        email,
		PasswordHash: passwordHash,
		IsActive:     true,
		WasActivated: true,
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, ErrInternal.WithCause(fmt.Errorf("failed to create social user: %w", err))
	}

	s.log.Info("user provisioned via oauth", "user_id", u.ID)
	return u, nil
}
