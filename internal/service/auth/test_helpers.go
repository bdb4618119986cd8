package auth

import "time"

// NewTestTokenService creates a token service with an injectable time
// function so tests can exercise issue/expiry behavior deterministically.
// The secret must still meet the minimum length requirement.
func NewTestTokenService(
	secret string,
	tokenLifetime time.Duration,
	timeFunc func() time.Time,
) TokenService {
	return &hmacTokenService{
		signingKey:    []byte(secret),
		tokenLifetime: tokenLifetime,
		timeFunc:      timeFunc,
		clockSkew:     0, // No leeway in tests; expiry boundaries stay exact
	}
}
