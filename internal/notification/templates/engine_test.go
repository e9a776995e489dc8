package templates

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderVerifyCode(t *testing.T) {
	e := NewEngine(Config{}, nil)

	out, err := Render(context.Background(), e, VerifyCode, VerifyCodeData{
		FirstName:     "Jane",
		Code:          "042319",
		ExpiryMinutes: 10,
		SupportEmail:  "support@example.com",
	})
	require.NoError(t, err)

	assert.Equal(t, "Your verification code", out.Subject)
	assert.Contains(t, out.EmailText, "042319")
	assert.Contains(t, out.EmailHTML, "042319")
	assert.Contains(t, out.EmailHTML, "Jane")
}

func TestRenderActivationLink_EscapesHTML(t *testing.T) {
	e := NewEngine(Config{}, nil)

	out, err := Render(context.Background(), e, ActivationLink, ActivationLinkData{
		FirstName:    "<script>alert(1)</script>",
		URL:          "https://app.example.com/activate/abc/def",
		SupportEmail: "support@example.com",
	})
	require.NoError(t, err)

	assert.NotContains(t, out.EmailHTML, "<script>")
	assert.Contains(t, out.EmailHTML, "https://app.example.com/activate/abc/def")
}

func TestRenderUnknownTemplate(t *testing.T) {
	e := NewEngine(Config{}, nil)

	_, err := e.RenderAny(context.Background(), "user.does_not_exist", nil)
	assert.Error(t, err)
}

func TestFlattenSubject(t *testing.T) {
	assert.Equal(t, "Hello there", flattenSubject("  Hello there\n"))
	assert.Equal(t, "Line oneLine two", flattenSubject("Line one\nLine two\n"))
}
