package service

import (
	"context"
	"errors"
	"time"

	"commerce-backend/internal/domain"
	"commerce-backend/internal/observability"
	"commerce-backend/internal/repository"
	"commerce-backend/internal/security"
)

var (
	// ErrAuthFailed deliberately covers both unknown email and wrong password.
	ErrAuthFailed          = errors.New("invalid email or password")
	ErrNoRefreshToken      = errors.New("refresh token required")
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
	ErrEmailTaken          = errors.New("email already registered")
)

type AuthService struct {
	users         repository.UserRepository
	refreshTokens repository.RefreshTokenRepository
	blacklist     TokenBlacklist
	jwtMgr        *security.JWTManager
}

func NewAuthService(users repository.UserRepository, refreshTokens repository.RefreshTokenRepository, blacklist TokenBlacklist, jwtMgr *security.JWTManager) *AuthService {
	return &AuthService{users: users, refreshTokens: refreshTokens, blacklist: blacklist, jwtMgr: jwtMgr}
}

type LoginResult struct {
	User         *domain.User
	AccessToken  string
	RefreshToken string
}

// Login authenticates the user and applies the refresh-token decision matrix:
// a presented token that parses, belongs to this user and is still in the
// stored set is reused without a write; anything else gets a fresh token
// persisted into the set.
func (s *AuthService) Login(ctx context.Context, email, password, presentedRefresh string) (*LoginResult, error) {
	user, err := s.users.FindByEmail(email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			observability.RecordAuthLogin("failure")
			return nil, ErrAuthFailed
		}
		return nil, err
	}
	if !security.CheckPassword(user.PasswordHash, password) {
		observability.RecordAuthLogin("failure")
		return nil, ErrAuthFailed
	}

	access, err := s.jwtMgr.SignAccessToken(user.ID)
	if err != nil {
		return nil, err
	}

	refresh, err := s.resolveRefreshToken(user, presentedRefresh)
	if err != nil {
		return nil, err
	}

	observability.RecordAuthLogin("success")
	return &LoginResult{User: user, AccessToken: access, RefreshToken: refresh}, nil
}

func (s *AuthService) resolveRefreshToken(user *domain.User, presented string) (string, error) {
	if presented != "" {
		claims, err := s.jwtMgr.ParseRefreshToken(presented)
		if err == nil {
			subject, subErr := claims.UserID()
			if subErr == nil && subject == user.ID {
				stored, exErr := s.refreshTokens.Exists(user.ID, presented)
				if exErr != nil {
					return "", exErr
				}
				if stored {
					// Valid, owned, and already persisted: reuse, no write.
					return presented, nil
				}
			}
		}
	}
	return s.mintRefreshToken(user.ID)
}

func (s *AuthService) mintRefreshToken(userID uint) (string, error) {
	refresh, err := s.jwtMgr.SignRefreshToken(userID)
	if err != nil {
		return "", err
	}
	if err := s.refreshTokens.Add(userID, refresh, time.Now().Add(s.jwtMgr.RefreshTTL())); err != nil {
		return "", err
	}
	return refresh, nil
}

// Refresh mints a new access token for the owner of the presented refresh
// token. The refresh token itself is not rotated here; rotation happens on
// the login path.
func (s *AuthService) Refresh(ctx context.Context, presentedRefresh string) (string, error) {
	if presentedRefresh == "" {
		observability.RecordAuthRefresh("no_token")
		return "", ErrNoRefreshToken
	}
	claims, err := s.jwtMgr.ParseRefreshToken(presentedRefresh)
	if err != nil {
		observability.RecordAuthRefresh("invalid")
		return "", ErrInvalidRefreshToken
	}
	subject, err := claims.UserID()
	if err != nil {
		observability.RecordAuthRefresh("invalid")
		return "", ErrInvalidRefreshToken
	}
	userID, err := s.refreshTokens.FindUserIDByToken(presentedRefresh)
	if err != nil {
		if errors.Is(err, repository.ErrRefreshTokenNotFound) {
			observability.RecordAuthRefresh("invalid")
			return "", ErrInvalidRefreshToken
		}
		return "", err
	}
	if userID != subject {
		observability.RecordAuthRefresh("invalid")
		return "", ErrInvalidRefreshToken
	}
	access, err := s.jwtMgr.SignAccessToken(userID)
	if err != nil {
		return "", err
	}
	observability.RecordAuthRefresh("success")
	return access, nil
}

// Logout removes the presented refresh token from its owner's stored set and
// blacklists the presented access token. Both inputs are optional and absent
// state is not an error; calling logout twice is safe.
func (s *AuthService) Logout(ctx context.Context, presentedRefresh, presentedAccess string) error {
	if presentedRefresh != "" {
		if _, err := s.refreshTokens.Remove(presentedRefresh); err != nil {
			return err
		}
	}
	if presentedAccess != "" {
		if err := s.blacklist.Revoke(ctx, presentedAccess); err != nil {
			return err
		}
	}
	observability.RecordAuthLogout("success")
	return nil
}

func (s *AuthService) Register(ctx context.Context, firstName, lastName, email, password string) (*domain.User, error) {
	if _, err := s.users.FindByEmail(email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, err
	}
	hash, err := security.HashPassword(password)
	if err != nil {
		return nil, err
	}
	user := &domain.User{
		FirstName:    firstName,
		LastName:     lastName,
		Email:        email,
		PasswordHash: hash,
		Role:         domain.RoleCustomer,
	}
	if err := s.users.Create(user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	return user, nil
}
