package user

import (
	"context"
	"time"

	"github.com/delordemm1/go-accounts-api/internal/contextx"
	"github.com/delordemm1/go-accounts-api/internal/httpx"
	"github.com/delordemm1/go-accounts-api/internal/validation"
)

// --- DTOs ---

type GetProfileRequest struct{}

type GetProfileResponse struct {
	Body ProfileBody
}

// CompleteProfileRequest carries the optional fields a verified user fills in
// after activation. Omitted fields are left untouched.
type CompleteProfileRequest struct {
	Body struct {
		FirstName   string `json:"firstName,omitempty" validate:"omitempty,min=2"`
		LastName    string `json:"lastName,omitempty" validate:"omitempty,min=2"`
		DateOfBirth string `json:"dateOfBirth,omitempty" validate:"omitempty,datetime=2006-01-02"`
	}
}

type CompleteProfileResponse struct {
	Body ProfileBody
}

// --- Handlers ---

// GetProfileHandler returns the authenticated user's profile.
func (h *Handler) GetProfileHandler(ctx context.Context, _ *GetProfileRequest) (*GetProfileResponse, error) {
	userID, ok := contextx.UserID(ctx)
	if !ok {
		return nil, httpx.ToProblem(ctx, ErrUnauthorized)
	}

	u, err := h.service.GetProfile(ctx, userID)
	if err != nil {
		return nil, httpx.ToProblem(ctx, err)
	}

	return &GetProfileResponse{Body: toProfileBody(u)}, nil
}

// CompleteProfileHandler fills in the authenticated user's optional fields.
func (h *Handler) CompleteProfileHandler(ctx context.Context, input *CompleteProfileRequest) (*CompleteProfileResponse, error) {
	userID, ok := contextx.UserID(ctx)
	if !ok {
		return nil, httpx.ToProblem(ctx, ErrUnauthorized)
	}

	if verr := validation.ValidateStruct(&input.Body); verr != nil {
		return nil, httpx.ToProblem(ctx, verr)
	}

	in := CompleteProfileInput{
		FirstName: input.Body.FirstName,
		LastName:  input.Body.LastName,
	}
	if input.Body.DateOfBirth != "" {
		dob, err := time.Parse("2006-01-02", input.Body.DateOfBirth)
		if err != nil {
			return nil, httpx.ToProblem(ctx, validation.NewValidationError("dateOfBirth", "must be a valid date in YYYY-MM-DD format"))
		}
		in.DateOfBirth = &dob
	}

	u, err := h.service.CompleteProfile(ctx, userID, in)
	if err != nil {
		h.logger.Warn("profile completion refused", "user_id", userID, "error", err)
		return nil, httpx.ToProblem(ctx, err)
	}

	return &CompleteProfileResponse{Body: toProfileBody(u)}, nil
}
