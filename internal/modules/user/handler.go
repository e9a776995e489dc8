package user

import (
	"log/slog"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

// Handler holds the dependencies for the user module's HTTP handlers.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// NewHandler creates a new handler for the user module.
func NewHandler(service Service, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// RegisterRoutes sets up the routing for the user module. Routes that require
// a logged-in user take the auth middleware at the operation level.
func (h *Handler) RegisterRoutes(api huma.API, auth func(ctx huma.Context, next func(huma.Context))) {
	// --- Registration & login ---
	huma.Register(api, huma.Operation{
		OperationID: "register-user",
		Method:      http.MethodPost,
		Path:        "/users/register",
		Summary:     "Register a new user",
	}, h.RegisterHandler)

	huma.Register(api, huma.Operation{
		OperationID: "login-user",
		Method:      http.MethodPost,
		Path:        "/users/login",
		Summary:     "Log in a user",
	}, h.LoginHandler)

	huma.Register(api, huma.Operation{
		OperationID: "logout-user",
		Method:      http.MethodPost,
		Path:        "/users/logout",
		Summary:     "Log out and revoke the current session",
		Middlewares: huma.Middlewares{auth},
	}, h.LogoutHandler)

	// --- Email verification & activation ---
	huma.Register(api, huma.Operation{
		OperationID: "verify-email-code",
		Method:      http.MethodPost,
		Path:        "/users/verify",
		Summary:     "Verify an account with a 6-digit email code",
	}, h.VerifyEmailCodeHandler)

	huma.Register(api, huma.Operation{
		OperationID: "activate-by-link",
		Method:      http.MethodGet,
		Path:        "/users/activate/{uidb64}/{token}",
		Summary:     "Activate an account via an emailed link",
	}, h.ActivateByLinkHandler)

	huma.Register(api, huma.Operation{
		OperationID: "resend-activation-email",
		Method:      http.MethodPost,
		Path:        "/users/activation-email/resend",
		Summary:     "Resend the activation email",
		Middlewares: huma.Middlewares{auth},
	}, h.ResendActivationEmailHandler)

	// --- Password management ---
	huma.Register(api, huma.Operation{
		OperationID: "forgot-password",
		Method:      http.MethodPost,
		Path:        "/users/password/forgot",
		Summary:     "Initiate password reset",
	}, h.ForgotPasswordHandler)

	huma.Register(api, huma.Operation{
		OperationID: "reset-password",
		Method:      http.MethodPost,
		Path:        "/users/password/reset/{uidb64}/{token}",
		Summary:     "Set a new password using a reset link",
	}, h.ResetPasswordHandler)

	// --- Profile ---
	huma.Register(api, huma.Operation{
		OperationID: "get-profile",
		Method:      http.MethodGet,
		Path:        "/users/profile",
		Summary:     "Get the current user's profile",
		Middlewares: huma.Middlewares{auth},
	}, h.GetProfileHandler)

	huma.Register(api, huma.Operation{
		OperationID: "complete-profile",
		Method:      http.MethodPatch,
		Path:        "/users/profile/complete",
		Summary:     "Complete the current user's profile",
		Middlewares: huma.Middlewares{auth},
	}, h.CompleteProfileHandler)

	// --- OAuth ---
	huma.Register(api, huma.Operation{
		OperationID: "oauth-initiate",
		Method:      http.MethodGet,
		Path:        "/users/oauth/{provider}",
		Summary:     "Initiate OAuth login",
	}, h.OAuthLoginHandler)

	huma.Register(api, huma.Operation{
		OperationID: "oauth-callback",
		Method:      http.MethodGet,
		Path:        "/users/oauth/{provider}/callback",
		Summary:     "Handle OAuth callback",
	}, h.OAuthCallbackHandler)
}

// ProfileBody is the public projection of a User shared by several responses.
type ProfileBody struct {
	ID           string `json:"id"`
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	Email        string `json:"email"`
	DateOfBirth  string `json:"dateOfBirth,omitempty"`
	IsActive     bool   `json:"isActive"`
	WasActivated bool   `json:"wasActivated"`
}

func toProfileBody(u *User) ProfileBody {
	body := ProfileBody{
		ID:           u.ID,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		Email:        u.Email,
		IsActive:     u.IsActive,
		WasActivated: u.WasActivated,
	}
	if u.DateOfBirth != nil {
		body.DateOfBirth = u.DateOfBirth.Format("2006-01-02")
	}
	return body
}
