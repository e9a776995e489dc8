package user

import (
	"context"

	"github.com/delordemm1/go-accounts-api/internal/httpx"
)

// --- DTOs ---

// OAuthLoginRequest names the provider being requested from the URL path.
type OAuthLoginRequest struct {
	Provider string `path:"provider"`
}

// OAuthLoginResponse returns the provider consent URL for the client to follow.
type OAuthLoginResponse struct {
	Body struct {
		RedirectURL string `json:"redirectUrl"`
	}
}

// OAuthCallbackRequest carries the query parameters the provider redirects with.
type OAuthCallbackRequest struct {
	Provider string `path:"provider"`
	Code     string `query:"code"`
	State    string `query:"state"`
}

type OAuthCallbackResponse struct {
	Body struct {
		Token string      `json:"token"`
		User  ProfileBody `json:"user"`
	}
}

// --- Handlers ---

// OAuthLoginHandler starts a social login and returns the consent URL.
func (h *Handler) OAuthLoginHandler(ctx context.Context, input *OAuthLoginRequest) (*OAuthLoginResponse, error) {
	redirectURL, err := h.service.InitiateOAuth(ctx, OAuthProvider(input.Provider))
	if err != nil {
		h.logger.Warn("failed to initiate oauth login", "provider", input.Provider, "error", err)
		return nil, httpx.ToProblem(ctx, err)
	}

	resp := &OAuthLoginResponse{}
	resp.Body.RedirectURL = redirectURL
	return resp, nil
}

// OAuthCallbackHandler finishes a social login and returns an access token.
func (h *Handler) OAuthCallbackHandler(ctx context.Context, input *OAuthCallbackRequest) (*OAuthCallbackResponse, error) {
	result, err := h.service.HandleOAuthCallback(ctx, OAuthProvider(input.Provider), input.State, input.Code)
	if err != nil {
		h.logger.Warn("oauth callback processing failed", "provider", input.Provider, "error", err)
		return nil, httpx.ToProblem(ctx, err)
	}

	resp := &OAuthCallbackResponse{}
	resp.Body.Token = result.AccessToken
	resp.Body.User = toProfileBody(result.User)
	return resp, nil
}
