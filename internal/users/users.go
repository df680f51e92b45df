package users

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/GodwinCyber/alx-project-nexus/internal/apperr"
	"github.com/GodwinCyber/alx-project-nexus/internal/auth"
	"github.com/GodwinCyber/alx-project-nexus/internal/stores/postgres"
	"github.com/GodwinCyber/alx-project-nexus/pkg/ctxmanage"
	"github.com/GodwinCyber/alx-project-nexus/pkg/logkey"
	"github.com/jackc/pgx/v5"
)

var errBadCredentials = &apperr.Error{Kind: apperr.KindAuthenticationRequired, Msg: "invalid email or password"}

type Conf struct {
	db   postgres.DBPool
	keys *auth.Keys
}

func NewConf(db postgres.DBPool, keys *auth.Keys) (*Conf, error) {
	if db == nil {
		return nil, fmt.Errorf("db is nil")
	}
	if keys == nil {
		return nil, fmt.Errorf("keys is nil")
	}
	return &Conf{db: db, keys: keys}, nil
}

// Roles maps the stored staff flag onto token roles.
func Roles(u User) []string {
	if u.IsStaff {
		return []string{auth.RoleUser, auth.RoleAdmin}
	}
	return []string{auth.RoleUser}
}

func (c *Conf) Register(ctx context.Context, nu NewUser) (User, error) {
	nu.Email = strings.ToLower(strings.TrimSpace(nu.Email))
	if err := apperr.ValidateStruct(nu); err != nil {
		return User{}, err
	}
	hash, err := auth.HashPassword(nu.Password)
	if err != nil {
		return User{}, err
	}

	u := User{Email: nu.Email, Username: nu.Username}
	err = c.db.QueryRow(ctx, `
		INSERT INTO users (email, username, password_hash)
		VALUES ($1, $2, $3)
		RETURNING id, is_staff, created_at
	`, nu.Email, nu.Username, hash).Scan(&u.ID, &u.IsStaff, &u.CreatedAt)
	if err != nil {
		if postgres.IsUniqueViolation(err) {
			return User{}, apperr.Validation("email %s is already registered", nu.Email)
		}
		return User{}, fmt.Errorf("failed to insert user: %w", err)
	}
	slog.Info("user registered", slog.String(logkey.TraceID, ctxmanage.TraceID(ctx)), slog.Int64(logkey.UserID, u.ID))
	return u, nil
}

func (c *Conf) Login(ctx context.Context, email, password string) (Session, error) {
	var (
		u    User
		hash string
	)
	err := c.db.QueryRow(ctx, `
		SELECT id, email, username, password_hash, is_staff, created_at
		FROM users
		WHERE email = $1
	`, strings.ToLower(strings.TrimSpace(email))).Scan(&u.ID, &u.Email, &u.Username, &hash, &u.IsStaff, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Session{}, errBadCredentials
		}
		return Session{}, fmt.Errorf("failed to query user: %w", err)
	}
	if !auth.CheckPassword(hash, password) {
		slog.Warn("login rejected", slog.String(logkey.TraceID, ctxmanage.TraceID(ctx)), slog.Int64(logkey.UserID, u.ID))
		return Session{}, errBadCredentials
	}

	access, refresh, err := c.keys.GenerateTokens(u.ID, Roles(u))
	if err != nil {
		return Session{}, err
	}
	return Session{AccessToken: access, RefreshToken: refresh, User: u}, nil
}

// GetUser lets a signed-in user read their own profile.
func (c *Conf) GetUser(ctx context.Context, viewer auth.Identity, id int64) (User, error) {
	if viewer.Anonymous() {
		return User{}, apperr.ErrAuthenticationRequired
	}
	if viewer.UserID != id {
		return User{}, apperr.NotAuthorized("cannot view another user's profile")
	}
	return c.UserByID(ctx, id)
}

func (c *Conf) UserByID(ctx context.Context, id int64) (User, error) {
	var u User
	err := c.db.QueryRow(ctx, `
		SELECT id, email, username, is_staff, created_at
		FROM users
		WHERE id = $1
	`, id).Scan(&u.ID, &u.Email, &u.Username, &u.IsStaff, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, apperr.NotFound("user", id)
		}
		return User{}, fmt.Errorf("failed to query user: %w", err)
	}
	return u, nil
}
