// Package models defines client-side data models used by the memoria client:
// the local User and Memorial shapes, the storage row shape and the auth
// provider's raw user/session objects.
package models

// User is the local identity record.
//
// ID and CreatedAt are assigned by the backend. Name defaults to the local
// part of Email when the provider carries no display name.
type User struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Name      string `json:"name,omitempty"`
	CreatedAt string `json:"created_at"`
}
