package metadata

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dmitrijs2005/memoria/internal/client/client"
	"github.com/dmitrijs2005/memoria/internal/client/models"
	"github.com/dmitrijs2005/memoria/internal/common"
)

var _ client.SessionPersister = (*SessionPersister)(nil)

// SessionPersister keeps the auth session as JSON under common.SessionKey.
type SessionPersister struct {
	repo Repository
}

func NewSessionPersister(repo Repository) *SessionPersister {
	return &SessionPersister{repo: repo}
}

func (p *SessionPersister) Load(ctx context.Context) (*models.ProviderSession, error) {
	raw, err := p.repo.Get(ctx, common.SessionKey)
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, nil
	}

	var s models.ProviderSession
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("corrupt persisted session: %w", err)
	}
	return &s, nil
}

func (p *SessionPersister) Save(ctx context.Context, s *models.ProviderSession) error {
	if s == nil {
		return p.Clear(ctx)
	}
	raw, err := json.Marshal(s)
	if err != nil {
		return err
	}
	return p.repo.Set(ctx, common.SessionKey, raw)
}

func (p *SessionPersister) Clear(ctx context.Context) error {
	return p.repo.Delete(ctx, common.SessionKey)
}
