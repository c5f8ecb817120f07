package models

import "time"

// AuthEvent names a change of the provider's session.
type AuthEvent string

const (
	EventInitialSession AuthEvent = "INITIAL_SESSION"
	EventSignedIn       AuthEvent = "SIGNED_IN"
	EventSignedOut      AuthEvent = "SIGNED_OUT"
	EventTokenRefreshed AuthEvent = "TOKEN_REFRESHED"
	EventUserUpdated    AuthEvent = "USER_UPDATED"
)

// ProviderUser is the auth provider's user object before normalization.
type ProviderUser struct {
	ID           string         `json:"id"`
	Email        string         `json:"email"`
	CreatedAt    string         `json:"created_at"`
	UserMetadata map[string]any `json:"user_metadata,omitempty"`
}

// MetadataName returns user_metadata.name when it is a non-empty string.
func (u *ProviderUser) MetadataName() string {
	if u == nil || u.UserMetadata == nil {
		return ""
	}
	name, _ := u.UserMetadata["name"].(string)
	return name
}

// ProviderSession is an active provider session.
type ProviderSession struct {
	AccessToken  string        `json:"access_token"`
	RefreshToken string        `json:"refresh_token"`
	ExpiresAt    int64         `json:"expires_at,omitempty"`
	User         *ProviderUser `json:"user,omitempty"`
}

// Expired reports whether the session's expiry (unix seconds) is at or before now.
// A zero ExpiresAt is treated as unknown, i.e. not expired.
func (s *ProviderSession) Expired(now time.Time) bool {
	if s == nil {
		return true
	}
	if s.ExpiresAt == 0 {
		return false
	}
	return !now.Before(time.Unix(s.ExpiresAt, 0))
}
