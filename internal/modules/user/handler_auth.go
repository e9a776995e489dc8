package user

import (
	"context"

	"github.com/delordemm1/go-accounts-api/internal/contextx"
	"github.com/delordemm1/go-accounts-api/internal/httpx"
	"github.com/delordemm1/go-accounts-api/internal/validation"
)

// --- DTOs ---

// RegisterRequest defines the structure for the user registration request body.
type RegisterRequest struct {
	Body struct {
		FirstName       string `json:"firstName" validate:"required,min=2"`
		LastName        string `json:"lastName" validate:"required,min=2"`
		Email           string `json:"email" validate:"required,email"`
		Password        string `json:"password" validate:"required,min=8"`
		ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=Password"`
	}
}

// RegisterResponse defines the structure for a successful registration response.
type RegisterResponse struct {
	Body ProfileBody
}

// LoginRequest defines the structure for the user login request body.
type LoginRequest struct {
	UserAgent string `header:"User-Agent"`
	Body      struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}
}

// LoginResponse defines the structure for a successful login response.
type LoginResponse struct {
	Body struct {
		Token string      `json:"token"`
		User  ProfileBody `json:"user"`
	}
}

type LogoutRequest struct{}

type LogoutResponse struct{}

// --- Handlers ---

// RegisterHandler handles the user registration endpoint.
func (h *Handler) RegisterHandler(ctx context.Context, input *RegisterRequest) (*RegisterResponse, error) {
	if verr := validation.ValidateStruct(&input.Body); verr != nil {
		return nil, httpx.ToProblem(ctx, verr)
	}

	u, err := h.service.Register(ctx, RegisterInput{
		FirstName: input.Body.FirstName,
		LastName:  input.Body.LastName,
		Email:     input.Body.Email,
		Password:  input.Body.Password,
	})
	if err != nil {
		h.logger.Warn("registration failed", "error", err)
		return nil, httpx.ToProblem(ctx, err)
	}

	return &RegisterResponse{Body: toProfileBody(u)}, nil
}

// LoginHandler handles the user login endpoint.
func (h *Handler) LoginHandler(ctx context.Context, input *LoginRequest) (*LoginResponse, error) {
	if verr := validation.ValidateStruct(&input.Body); verr != nil {
		return nil, httpx.ToProblem(ctx, verr)
	}

	result, err := h.service.Login(ctx, LoginInput{
		Email:     input.Body.Email,
		Password:  input.Body.Password,
		UserAgent: input.UserAgent,
	})
	if err != nil {
		h.logger.Warn("login attempt failed", "email", input.Body.Email, "error", err)
		return nil, httpx.ToProblem(ctx, err)
	}

	resp := &LoginResponse{}
	resp.Body.Token = result.AccessToken
	resp.Body.User = toProfileBody(result.User)
	return resp, nil
}

// LogoutHandler revokes the session carried by the current access token.
func (h *Handler) LogoutHandler(ctx context.Context, _ *LogoutRequest) (*LogoutResponse, error) {
	sessionID, ok := contextx.SessionID(ctx)
	if !ok {
		return nil, httpx.ToProblem(ctx, ErrUnauthorized)
	}

	if err := h.service.Logout(ctx, sessionID); err != nil {
		return nil, httpx.ToProblem(ctx, err)
	}

	return &LogoutResponse{}, nil
}
