package user

import (
	"context"

	"github.com/delordemm1/go-accounts-api/internal/httpx"
	"github.com/delordemm1/go-accounts-api/internal/validation"
)

// --- DTOs ---

type ForgotPasswordRequest struct {
	Body struct {
		Email string `json:"email" validate:"required,email"`
	}
}

type ForgotPasswordResponse struct {
	Body struct {
		Message string `json:"message"`
	}
}

// ResetPasswordRequest carries the uid/token pair from the emailed link plus
// the new password.
type ResetPasswordRequest struct {
	UIDB64 string `path:"uidb64"`
	Token  string `path:"token"`
	Body   struct {
		Password        string `json:"password" validate:"required,min=8"`
		ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=Password"`
	}
}

type ResetPasswordResponse struct {
	Body struct {
		Message string `json:"message"`
	}
}

// --- Handlers ---

// ForgotPasswordHandler mails a password reset link to an active account.
func (h *Handler) ForgotPasswordHandler(ctx context.Context, input *ForgotPasswordRequest) (*ForgotPasswordResponse, error) {
	if verr := validation.ValidateStruct(&input.Body); verr != nil {
		return nil, httpx.ToProblem(ctx, verr)
	}

	if err := h.service.RequestPasswordReset(ctx, input.Body.Email); err != nil {
		h.logger.Warn("password reset request refused", "error", err)
		return nil, httpx.ToProblem(ctx, err)
	}

	resp := &ForgotPasswordResponse{}
	resp.Body.Message = "password reset email sent"
	return resp, nil
}

// ResetPasswordHandler sets a new password using an emailed reset link.
func (h *Handler) ResetPasswordHandler(ctx context.Context, input *ResetPasswordRequest) (*ResetPasswordResponse, error) {
	if verr := validation.ValidateStruct(&input.Body); verr != nil {
		return nil, httpx.ToProblem(ctx, verr)
	}

	if err := h.service.ConfirmPasswordReset(ctx, input.UIDB64, input.Token, input.Body.Password); err != nil {
		h.logger.Warn("password reset confirmation failed", "error", err)
		return nil, httpx.ToProblem(ctx, err)
	}

	resp := &ResetPasswordResponse{}
	resp.Body.Message = "password has been reset"
	return resp, nil
}
