package auth

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

type ctxKey int

const ClaimsKey ctxKey = 1

const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
)

var ErrInvalidToken = errors.New("invalid token")

type Keys struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

type Claims struct {
	jwt.RegisteredClaims
	Roles     []string `json:"roles"`
	TokenType string   `json:"token_type"`
}

func NewKeys(secret string, accessTTL, refreshTTL time.Duration) (*Keys, error) {
	if secret == "" {
		return nil, errors.New("jwt secret is empty")
	}
	return &Keys{secret: []byte(secret), accessTTL: accessTTL, refreshTTL: refreshTTL}, nil
}

// GenerateTokens issues an access/refresh pair for the user.
func (k *Keys) GenerateTokens(userID int64, roles []string) (access string, refresh string, err error) {
	access, err = k.sign(userID, roles, tokenTypeAccess, k.accessTTL)
	if err != nil {
		return "", "", fmt.Errorf("sign access token: %w", err)
	}
	refresh, err = k.sign(userID, roles, tokenTypeRefresh, k.refreshTTL)
	if err != nil {
		return "", "", fmt.Errorf("sign refresh token: %w", err)
	}
	return access, refresh, nil
}

func (k *Keys) sign(userID int64, roles []string, tokenType string, ttl time.Duration) (string, error) {
	now := time.Now().UTC()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "alx-project-nexus",
			Subject:   strconv.FormatInt(userID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Roles:     roles,
		TokenType: tokenType,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(k.secret)
}

// ValidateToken parses an access token. Refresh tokens are rejected.
func (k *Keys) ValidateToken(tokenStr string) (Claims, error) {
	var c Claims
	token, err := jwt.ParseWithClaims(tokenStr, &c, func(t *jwt.Token) (interface{}, error) {
		return k.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return Claims{}, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if !token.Valid || c.TokenType != tokenTypeAccess {
		return Claims{}, ErrInvalidToken
	}
	return c, nil
}

// Identity is the acting party of a request. The zero value is anonymous.
type Identity struct {
	UserID int64
	Roles  []string
}

func (i Identity) Anonymous() bool { return i.UserID == 0 }

func (i Identity) HasRole(role string) bool { return slices.Contains(i.Roles, role) }

// IdentityFromClaims converts validated claims into an Identity.
func IdentityFromClaims(c Claims) (Identity, error) {
	id, err := strconv.ParseInt(c.Subject, 10, 64)
	if err != nil || id <= 0 {
		return Identity{}, fmt.Errorf("%w: bad subject %q", ErrInvalidToken, c.Subject)
	}
	return Identity{UserID: id, Roles: c.Roles}, nil
}

func NewContext(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, ClaimsKey, id)
}

// FromContext returns the identity stored by the authentication middleware,
// or the anonymous identity.
func FromContext(ctx context.Context) Identity {
	id, _ := ctx.Value(ClaimsKey).(Identity)
	return id
}

func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
