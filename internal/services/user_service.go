package services

import (
	"context"
	"strings"

	"restaurant_service/internal/auth"
	"restaurant_service/internal/models"
	"restaurant_service/internal/repository"
)

type UserInput struct {
	Name        string
	Login       string
	Password    string
	Role        string
	IsAvailable *bool
}

// UserUpdate carries the fields of a partial update; nil means unchanged.
type UserUpdate struct {
	Name        *string
	Login       *string
	Password    *string
	Role        *string
	IsAvailable *bool
}

type UserService interface {
	CreateUser(ctx context.Context, in UserInput) (*models.User, error)
	GetUserByID(ctx context.Context, actor Actor, id uint) (*models.User, error)
	GetAllUsers(ctx context.Context) ([]models.User, error)
	UpdateUser(ctx context.Context, actor Actor, id uint, in UserUpdate) (*models.User, error)
	ReplaceUser(ctx context.Context, id uint, in UserInput) (*models.User, error)
	DeleteUser(ctx context.Context, id uint) error
	PasswordHash(ctx context.Context, login string) (*models.User, error)
}

type userService struct {
	store *repository.Store
}

func NewUserService(store *repository.Store) UserService {
	return &userService{store: store}
}

func (s *userService) CreateUser(ctx context.Context, in UserInput) (*models.User, error) {
	role := models.RoleWaiter
	if in.Role != "" {
		r, ok := models.ParseUserRole(in.Role)
		if !ok {
			return nil, invalid("Unknown role %q", in.Role)
		}
		role = r
	}
	// Hash password
	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	user := &models.User{
		Name:        strings.TrimSpace(in.Name),
		Login:       strings.TrimSpace(in.Login),
		Password:    hash,
		Role:        string(role),
		IsAvailable: in.IsAvailable == nil || *in.IsAvailable,
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
	return user, nil
}

func (s *userService) GetUserByID(ctx context.Context, actor Actor, id uint) (*models.User, error) {
	if !actor.canAccessUser(id) {
		return nil, newError(ErrForbidden, "Not enough permissions")
	}
	user, err := s.store.WithContext(ctx).Users.GetByID(id)
	if err != nil {
		return nil, lookup(err, "User", id)
	}
	return user, nil
}

func (s *userService) GetAllUsers(ctx context.Context) ([]models.User, error) {
	return s.store.WithContext(ctx).Users.GetAll()
}

func (s *userService) UpdateUser(ctx context.Context, actor Actor, id uint, in UserUpdate) (*models.User, error) {
	if !actor.canAccessUser(id) {
		return nil, newError(ErrForbidden, "Not enough permissions")
	}
	if (in.Role != nil || in.IsAvailable != nil) && !actor.IsAdmin() {
		return nil, newError(ErrForbidden, "Only an administrator can change roles or availability")
	}

	var user *models.User
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		var err error
		user, err = tx.Users.GetByID(id)
		if err != nil {
			return lookup(err, "User", id)
		}
		if in.Name != nil {
			user.Name = strings.TrimSpace(*in.Name)
		}
		if in.Login != nil {
			login := strings.TrimSpace(*in.Login)
			taken, err := tx.Users.LoginTaken(login, id)
			if err != nil {
				return err
			}
			if taken {
				return conflict("User with this login already exists")
			}
			user.Login = login
		}
		if in.Password != nil {
			if user.Password, err = auth.HashPassword(*in.Password); err != nil {
				return err
			}
		}
		if in.Role != nil {
			role, ok := models.ParseUserRole(*in.Role)
			if !ok {
				return invalid("Unknown role %q", *in.Role)
			}
			user.Role = string(role)
		}
		if in.IsAvailable != nil {
			user.IsAvailable = *in.IsAvailable
		}
		return storage(tx.Users.Update(user), "update user")
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (s *userService) ReplaceUser(ctx context.Context, id uint, in UserInput) (*models.User, error) {
	role, ok := models.ParseUserRole(in.Role)
	if !ok {
		return nil, invalid("Unknown role %q", in.Role)
	}
	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	var user *models.User
	err = s.store.Transaction(ctx, func(tx *repository.Store) error {
		var err error
		user, err = tx.Users.GetByID(id)
		if err != nil {
			return lookup(err, "User", id)
		}
		login := strings.TrimSpace(in.Login)
		taken, err := tx.Users.LoginTaken(login, id)
		if err != nil {
			return err
		}
		if taken {
			return conflict("User with this login already exists")
		}
		user.Name = strings.TrimSpace(in.Name)
		user.Login = login
		user.Password = hash
		user.Role = string(role)
		user.IsAvailable = in.IsAvailable == nil || *in.IsAvailable
		return storage(tx.Users.Update(user), "update user")
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// DeleteUser refuses to remove a user who still owns orders.
func (s *userService) DeleteUser(ctx context.Context, id uint) error {
	return s.store.Transaction(ctx, func(tx *repository.Store) error {
		if _, err := tx.Users.GetByID(id); err != nil {
			return lookup(err, "User", id)
		}
		owned, err := tx.Orders.CountByWaiter(id)
		if err != nil {
			return err
		}
		if owned > 0 {
			return conflict("User %d still has %d orders", id, owned)
		}
		return storage(tx.Users.Delete(id), "delete user")
	})
}

func (s *userService) PasswordHash(ctx context.Context, login string) (*models.User, error) {
	user, err := s.store.WithContext(ctx).Users.GetByLogin(login)
	if err != nil {
		return nil, lookup(err, "User", login)
	}
	return user, nil
}
