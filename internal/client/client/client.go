package client

import (
	"context"

	"github.com/dmitrijs2005/memoria/internal/client/models"
)

// AuthClient is the remote auth provider.
type AuthClient interface {
	// SignUp creates a remote identity. metadata is stored as user_metadata.
	// When the provider opens a session it is kept and SIGNED_IN is emitted.
	SignUp(ctx context.Context, email, password string, metadata map[string]any) (*models.ProviderUser, error)
	SignInWithPassword(ctx context.Context, email, password string) (*models.ProviderUser, error)
	// SignOut ends the session. Without a session it is a no-op.
	SignOut(ctx context.Context) error
	// GetUser returns the user of the active session, or (nil, nil) without one.
	GetUser(ctx context.Context) (*models.ProviderUser, error)
	// OnAuthStateChange registers fn for session changes and returns a disposer.
	OnAuthStateChange(fn func(models.AuthEvent, *models.ProviderSession)) func()
}

// RowStore is the remote "memorials" table.
type RowStore interface {
	SelectMemorials(ctx context.Context, q models.MemorialQuery) ([]models.MemorialRow, error)
	InsertMemorial(ctx context.Context, row models.MemorialRow) (*models.MemorialRow, error)
}

// BlobStore is the remote image bucket. Uploads never overwrite: an
// existing key fails with ErrConflict.
type BlobStore interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) error
	PublicURL(key string) string
}

// SessionPersister keeps the auth session across process restarts.
// Load returns (nil, nil) when nothing is stored.
type SessionPersister interface {
	Load(ctx context.Context) (*models.ProviderSession, error)
	Save(ctx context.Context, s *models.ProviderSession) error
	Clear(ctx context.Context) error
}
