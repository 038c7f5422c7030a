package service

import (
	"context"
	"errors"

	"commerce-backend/internal/domain"
	"commerce-backend/internal/repository"
	"commerce-backend/internal/security"
)

type UserService struct {
	users         repository.UserRepository
	refreshTokens repository.RefreshTokenRepository
}

func NewUserService(users repository.UserRepository, refreshTokens repository.RefreshTokenRepository) *UserService {
	return &UserService{users: users, refreshTokens: refreshTokens}
}

func (s *UserService) Get(ctx context.Context, id uint) (*domain.User, error) {
	return s.users.FindByID(id)
}

type ProfileUpdate struct {
	FirstName *string
	LastName  *string
	Email     *string
	Password  *string
}

// UpdateProfile applies only the fields that were actually supplied. A
// changed email must not collide with another account.
func (s *UserService) UpdateProfile(ctx context.Context, userID uint, in ProfileUpdate) (*domain.User, error) {
	user, err := s.users.FindByID(userID)
	if err != nil {
		return nil, err
	}
	if in.FirstName != nil {
		user.FirstName = *in.FirstName
	}
	if in.LastName != nil {
		user.LastName = *in.LastName
	}
	if in.Email != nil && *in.Email != user.Email {
		if existing, err := s.users.FindByEmail(*in.Email); err == nil && existing.ID != userID {
			return nil, ErrEmailTaken
		} else if err != nil && !errors.Is(err, repository.ErrUserNotFound) {
			return nil, err
		}
		user.Email = *in.Email
	}
	passwordChanged := false
	if in.Password != nil && *in.Password != "" {
		hash, err := security.HashPassword(*in.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
		passwordChanged = true
	}
	if err := s.users.Update(user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	// A password change invalidates every open session for the account.
	if passwordChanged {
		if _, err := s.refreshTokens.RemoveAllForUser(user.ID); err != nil {
			return nil, err
		}
	}
	return user, nil
}

func (s *UserService) List(ctx context.Context) ([]domain.User, error) {
	return s.users.List()
}
