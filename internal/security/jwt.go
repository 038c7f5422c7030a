package security

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

var (
	// ErrMissingSecret is a startup configuration failure, not a per-request one.
	ErrMissingSecret  = errors.New("jwt signing secret is not set")
	ErrTokenExpired   = errors.New("token expired")
	ErrTokenInvalid   = errors.New("token invalid")
	ErrWrongTokenType = errors.New("unexpected token type")
)

type Claims struct {
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}

// UserID parses the subject claim back into a user ID.
func (c *Claims) UserID() (uint, error) {
	id64, err := strconv.ParseUint(c.Subject, 10, 64)
	if err != nil {
		return 0, ErrTokenInvalid
	}
	return uint(id64), nil
}

type JWTManager struct {
	issuer        string
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

func NewJWTManager(issuer, accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) (*JWTManager, error) {
	if accessSecret == "" || refreshSecret == "" {
		return nil, ErrMissingSecret
	}
	if accessTTL <= 0 {
		accessTTL = 15 * time.Minute
	}
	if refreshTTL <= 0 {
		refreshTTL = 7 * 24 * time.Hour
	}
	return &JWTManager{
		issuer:        issuer,
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
	}, nil
}

func (m *JWTManager) AccessTTL() time.Duration  { return m.accessTTL }
func (m *JWTManager) RefreshTTL() time.Duration { return m.refreshTTL }

func (m *JWTManager) SignAccessToken(userID uint) (string, error) {
	return m.sign(userID, TokenTypeAccess, m.accessSecret, m.accessTTL)
}

func (m *JWTManager) SignRefreshToken(userID uint) (string, error) {
	return m.sign(userID, TokenTypeRefresh, m.refreshSecret, m.refreshTTL)
}

func (m *JWTManager) sign(userID uint, tokenType string, secret []byte, ttl time.Duration) (string, error) {
	claims := Claims{
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.issuer,
			Subject:   fmt.Sprintf("%d", userID),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ID:        uuid.NewString(),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

func (m *JWTManager) ParseAccessToken(raw string) (*Claims, error) {
	return m.parse(raw, m.accessSecret, TokenTypeAccess)
}

func (m *JWTManager) ParseRefreshToken(raw string) (*Claims, error) {
	return m.parse(raw, m.refreshSecret, TokenTypeRefresh)
}

func (m *JWTManager) parse(raw string, secret []byte, tokenType string) (*Claims, error) {
	claims := &Claims{}
	tok, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (any, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, ErrTokenInvalid
		}
		return secret, nil
	}, jwt.WithIssuer(m.issuer))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}
	if !tok.Valid {
		return nil, ErrTokenInvalid
	}
	if claims.TokenType != tokenType {
		return nil, ErrWrongTokenType
	}
	return claims, nil
}
