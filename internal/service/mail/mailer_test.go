package mail

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVerificationURL(t *testing.T) {
	t.Parallel()

	assert.Equal(t,
		"https://horizons-ma.pages.dev/verify-email?token=abc123",
		VerificationURL("https://horizons-ma.pages.dev/", "abc123"))

	// Tokens are query-escaped; JWT segments carry no reserved characters but
	// the escaping must hold for any input.
	assert.Equal(t,
		"https://example.com/verify-email?token=a%2Bb",
		VerificationURL("https://example.com/", "a+b"))
}

func TestVerificationHTMLContainsLink(t *testing.T) {
	t.Parallel()

	link := "https://example.com/verify-email?token=abc"
	body := verificationHTML("Jane", link, "support@example.com")

	assert.Contains(t, body, "Jane")
	assert.Contains(t, body, link)
	assert.Contains(t, body, "support@example.com")
}
