package domain

import "time"

// TokenResponse is the verify endpoint's token grant, OAuth-shaped.
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type,omitempty"`
	ExpiresIn    int64  `json:"expires_in"`
	RefreshToken string `json:"refresh_token,omitempty"`
	Scope        string `json:"scope,omitempty"`
	IDToken      string `json:"id_token,omitempty"`
}

// TokenRecord is the persisted session token. A record missing its access
// token or expiry is not valid at all; partial state collapses to logged-out.
type TokenRecord struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
}

// Valid reports whether the record is usable at the given instant.
func (r TokenRecord) Valid(now time.Time) bool {
	return r.AccessToken != "" && now.Before(r.ExpiresAt)
}
