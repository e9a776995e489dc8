package templates

// VerifyCodeData holds variables for the user.verify_code scenario (6-digit OTP).
type VerifyCodeData struct {
	FirstName     string
	Code          string
	ExpiryMinutes int
	SupportEmail  string
}

// VerifyCode is the typed handle for the user.verify_code template.
var VerifyCode = Expect[VerifyCodeData]("user.verify_code")

// ActivationLinkData holds variables for the user.activation_link scenario.
type ActivationLinkData struct {
	FirstName    string
	URL          string
	SupportEmail string
}

// ActivationLink is the typed handle for the user.activation_link template.
var ActivationLink = Expect[ActivationLinkData]("user.activation_link")

// PasswordResetData holds variables for the user.password_reset scenario.
type PasswordResetData struct {
	FirstName    string
	URL          string
	SupportEmail string
}

// PasswordReset is the typed handle for the user.password_reset template.
var PasswordReset = Expect[PasswordResetData]("user.password_reset")
