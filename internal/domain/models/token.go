package models

// TokenPair bundles a short-lived access token with its long-lived
// refresh counterpart. Both are signed JWTs; only the refresh token is
// additionally bound to the account record.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}
