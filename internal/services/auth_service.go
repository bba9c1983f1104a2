package services

import (
	"context"
	"strings"

	"restaurant_service/internal/auth"
	"restaurant_service/internal/models"
	"restaurant_service/internal/repository"
)

// TokenResponse is what a successful register, login or refresh returns.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	UserID      uint   `json:"user_id"`
	Role        string `json:"role"`
	Name        string `json:"name"`
}

type RegisterInput struct {
	Name     string
	Login    string
	Password string
	Role     string
}

type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*TokenResponse, error)
	Login(ctx context.Context, login, password string) (*TokenResponse, error)
	Refresh(ctx context.Context, userID uint) (*TokenResponse, error)
	Logout(ctx context.Context, claims *auth.Claims) error
	Me(ctx context.Context, userID uint) (*models.User, error)
	ChangePassword(ctx context.Context, userID uint, oldPassword, newPassword string) error
	// Authenticate resolves a bearer token to its caller, rejecting
	// revoked tokens.
	Authenticate(ctx context.Context, token string) (*auth.Claims, error)
}

type authService struct {
	store   *repository.Store
	issuer  *auth.Issuer
	revoker auth.Revoker
}

func NewAuthService(store *repository.Store, issuer *auth.Issuer, revoker auth.Revoker) AuthService {
	if revoker == nil {
		revoker = auth.NopRevoker{}
	}
	return &authService{store: store, issuer: issuer, revoker: revoker}
}

func (s *authService) Register(ctx context.Context, in RegisterInput) (*TokenResponse, error) {
	role := models.RoleWaiter
	if in.Role != "" {
		r, ok := models.ParseUserRole(in.Role)
		if !ok {
			return nil, invalid("Unknown role %q", in.Role)
		}
		if r == models.RoleAdmin {
			return nil, newError(ErrForbidden, "Admin accounts can only be created by an administrator")
		}
		role = r
	}
	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Name:        strings.TrimSpace(in.Name),
		Login:       strings.TrimSpace(in.Login),
		Password:    hash,
		Role:        string(role),
		IsAvailable: true,
	}
	err = s.store.Transaction(ctx, func(tx *repository.Store) error {
		taken, err := tx.Users.LoginTaken(user.Login, 0)
		if err != nil {
			return err
		}
		if taken {
			return conflict("User with this login already exists")
		}
		return storage(tx.Users.Create(user), "create user")
	})
	if err != nil {
		return nil, err
	}
	return s.tokenFor(user)
}

func (s *authService) Login(ctx context.Context, login, password string) (*TokenResponse, error) {
	user, err := s.store.WithContext(ctx).Users.GetByLogin(strings.TrimSpace(login))
	if err != nil {
		if isNotFound(err) {
			return nil, newError(ErrUnauthorized, "Incorrect login or password")
		}
		return nil, err
	}
	if !auth.CheckPassword(user.Password, password) {
		return nil, newError(ErrUnauthorized, "Incorrect login or password")
	}
	if !user.IsAvailable {
		return nil, newError(ErrForbidden, "User is disabled")
	}
	return s.tokenFor(user)
}

func (s *authService) Refresh(ctx context.Context, userID uint) (*TokenResponse, error) {
	user, err := s.Me(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !user.IsAvailable {
		return nil, newError(ErrForbidden, "User is disabled")
	}
	return s.tokenFor(user)
}

func (s *authService) Logout(ctx context.Context, claims *auth.Claims) error {
	return s.revoker.Revoke(ctx, claims.ID, claims.Remaining(systemClock()))
}

func (s *authService) Me(ctx context.Context, userID uint) (*models.User, error) {
	user, err := s.store.WithContext(ctx).Users.GetByID(userID)
	if err != nil {
		return nil, lookup(err, "User", userID)
	}
	return user, nil
}

func (s *authService) ChangePassword(ctx context.Context, userID uint, oldPassword, newPassword string) error {
	if len(newPassword) < 6 {
		return invalid("New password must be at least 6 characters")
	}
	return s.store.Transaction(ctx, func(tx *repository.Store) error {
		user, err := tx.Users.GetByID(userID)
		if err != nil {
			return lookup(err, "User", userID)
		}
		if !auth.CheckPassword(user.Password, oldPassword) {
			return invalid("Incorrect current password")
		}
		hash, err := auth.HashPassword(newPassword)
		if err != nil {
			return err
		}
		user.Password = hash
		return storage(tx.Users.Update(user), "update password")
	})
}

func (s *authService) Authenticate(ctx context.Context, token string) (*auth.Claims, error) {
	claims, err := s.issuer.Parse(token)
	if err != nil {
		return nil, newError(ErrUnauthorized, "Could not validate credentials")
	}
	revoked, err := s.revoker.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, newError(ErrUnauthorized, "Token has been revoked")
	}
	return claims, nil
}

func (s *authService) tokenFor(user *models.User) (*TokenResponse, error) {
	token, _, err := s.issuer.Issue(user.ID, user.Role)
	if err != nil {
		return nil, err
	}
	return &TokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
		UserID:      user.ID,
		Role:        user.Role,
		Name:        user.Name,
	}, nil
}
