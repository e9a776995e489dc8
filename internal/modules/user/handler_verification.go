package user

import (
	"context"

	"github.com/delordemm1/go-accounts-api/internal/contextx"
	"github.com/delordemm1/go-accounts-api/internal/httpx"
	"github.com/delordemm1/go-accounts-api/internal/validation"
)

// --- DTOs ---

// VerifyEmailCodeRequest carries the email and the 6-digit code it received.
type VerifyEmailCodeRequest struct {
	Body struct {
		Email string `json:"email" validate:"required,email"`
		Code  string `json:"code" validate:"required,len=6,numeric"`
	}
}

type VerifyEmailCodeResponse struct {
	Body ProfileBody
}

// ActivateByLinkRequest carries the uid/token pair from an emailed link.
type ActivateByLinkRequest struct {
	UIDB64 string `path:"uidb64"`
	Token  string `path:"token"`
}

type ActivateByLinkResponse struct {
	Body struct {
		Token string      `json:"token"`
		User  ProfileBody `json:"user"`
	}
}

type ResendActivationEmailRequest struct{}

type ResendActivationEmailResponse struct {
	Body struct {
		Message string `json:"message"`
	}
}

// --- Handlers ---

// VerifyEmailCodeHandler validates the 6-digit code and activates the account.
func (h *Handler) VerifyEmailCodeHandler(ctx context.Context, input *VerifyEmailCodeRequest) (*VerifyEmailCodeResponse, error) {
	if verr := validation.ValidateStruct(&input.Body); verr != nil {
		return nil, httpx.ToProblem(ctx, verr)
	}

	u, err := h.service.VerifyEmailCode(ctx, input.Body.Email, input.Body.Code)
	if err != nil {
		h.logger.Warn("email code verification failed", "error", err)
		return nil, httpx.ToProblem(ctx, err)
	}

	return &VerifyEmailCodeResponse{Body: toProfileBody(u)}, nil
}

// ActivateByLinkHandler consumes an activation link and logs the user in.
func (h *Handler) ActivateByLinkHandler(ctx context.Context, input *ActivateByLinkRequest) (*ActivateByLinkResponse, error) {
	result, err := h.service.ActivateByLink(ctx, input.UIDB64, input.Token)
	if err != nil {
		h.logger.Warn("link activation failed", "error", err)
		return nil, httpx.ToProblem(ctx, err)
	}

	resp := &ActivateByLinkResponse{}
	resp.Body.Token = result.AccessToken
	resp.Body.User = toProfileBody(result.User)
	return resp, nil
}

// ResendActivationEmailHandler mails a fresh activation link to the current user.
func (h *Handler) ResendActivationEmailHandler(ctx context.Context, _ *ResendActivationEmailRequest) (*ResendActivationEmailResponse, error) {
	userID, ok := contextx.UserID(ctx)
	if !ok {
		return nil, httpx.ToProblem(ctx, ErrUnauthorized)
	}

	if err := h.service.ResendActivationEmail(ctx, userID); err != nil {
		h.logger.Warn("activation email resend refused", "user_id", userID, "error", err)
		return nil, httpx.ToProblem(ctx, err)
	}

	resp := &ResendActivationEmailResponse{}
	resp.Body.Message = "activation email sent"
	return resp, nil
}
