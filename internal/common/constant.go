package common

// Keys of the local key-value store.
const (
	// ThemeKey holds "light" or "dark".
	ThemeKey = "theme"
	// SessionKey holds the JSON-encoded persisted auth session.
	SessionKey = "auth.session"
)

// Header names used against the backend.
const (
	APIKeyHeaderName = "apikey"
	UpsertHeaderName = "x-upsert"
)
