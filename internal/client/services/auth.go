// Package services contains the application services of the memoria client:
// the auth gateway and the memorial repository. Both sit on top of the remote
// interfaces in package client and translate provider shapes into models.
package services

import (
	"context"

	"github.com/dmitrijs2005/memoria/internal/client/client"
	"github.com/dmitrijs2005/memoria/internal/client/models"
	"github.com/dmitrijs2005/memoria/internal/common"
	"github.com/dmitrijs2005/memoria/internal/logging"
)

// AuthService is the auth gateway.
//
// Contract:
//   - CurrentUser: the user of the restored session, if any. Never fails;
//     provider errors are logged and reported as no user.
//   - Register: creates the account; the returned name is the supplied one.
//   - Login: password sign-in.
//   - Logout: idempotent. The error is advisory and has already been logged.
//   - OnAuthStateChange: normalized user on every session change, nil when
//     the session ended. Returns a disposer.
type AuthService interface {
	CurrentUser(ctx context.Context) (*models.User, bool)
	Register(ctx context.Context, email, password, name string) (*models.User, error)
	Login(ctx context.Context, email, password string) (*models.User, error)
	Logout(ctx context.Context) error
	OnAuthStateChange(fn func(*models.User)) func()
}

type authService struct {
	client client.AuthClient
	logger logging.Logger
}

func NewAuthService(c client.AuthClient, logger logging.Logger) AuthService {
	return &authService{client: c, logger: logger.With("component", "auth")}
}

// NormalizeUser converts a provider user into the local User. The display
// name is user_metadata.name, or the local part of the email without one.
func NormalizeUser(u *models.ProviderUser) *models.User {
	if u == nil {
		return nil
	}
	name := u.MetadataName()
	if name == "" {
		name = common.LocalPart(u.Email)
	}
	return &models.User{
		ID:        u.ID,
		Email:     u.Email,
		Name:      name,
		CreatedAt: u.CreatedAt,
	}
}

func (a *authService) CurrentUser(ctx context.Context) (*models.User, bool) {
	u, err := a.client.GetUser(ctx)
	if err != nil {
		a.logger.Warn(ctx, "error getting current user", "error", err)
		return nil, false
	}
	if u == nil {
		return nil, false
	}
	return NormalizeUser(u), true
}

func (a *authService) Register(ctx context.Context, email, password, name string) (*models.User, error) {
	var metadata map[string]any
	if name != "" {
		metadata = map[string]any{"name": name}
	}

	pu, err := a.client.SignUp(ctx, email, password, metadata)
	if err != nil {
		a.logger.Info(ctx, "registration rejected", "email", email, "error", err)
		return nil, err
	}
	if pu == nil {
		return nil, common.ErrRegisterFailed
	}

	u := NormalizeUser(pu)
	if name != "" {
		u.Name = name
	}
	a.logger.Info(ctx, "registered", "user_id", u.ID)
	return u, nil
}

func (a *authService) Login(ctx context.Context, email, password string) (*models.User, error) {
	pu, err := a.client.SignInWithPassword(ctx, email, password)
	if err != nil {
		a.logger.Info(ctx, "login rejected", "email", email, "error", err)
		return nil, err
	}
	if pu == nil {
		return nil, common.ErrLoginFailed
	}

	u := NormalizeUser(pu)
	a.logger.Info(ctx, "logged in", "user_id", u.ID)
	return u, nil
}

func (a *authService) Logout(ctx context.Context) error {
	if err := a.client.SignOut(ctx); err != nil {
		a.logger.Warn(ctx, "logout error", "error", err)
		return err
	}
	return nil
}

func (a *authService) OnAuthStateChange(fn func(*models.User)) func() {
	return a.client.OnAuthStateChange(func(event models.AuthEvent, s *models.ProviderSession) {
		if s == nil || s.User == nil {
			fn(nil)
			return
		}
		fn(NormalizeUser(s.User))
	})
}
