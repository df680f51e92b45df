// Package catalog manages categories, sub-categories, products and their
// images. Reads are public; writes need the admin role.
package catalog

import (
	"fmt"

	"github.com/GodwinCyber/alx-project-nexus/internal/apperr"
	"github.com/GodwinCyber/alx-project-nexus/internal/auth"
	"github.com/GodwinCyber/alx-project-nexus/internal/stores/postgres"
)

// products below this stock level are reported by the lowStock filter
const LowStockThreshold = 5

type Conf struct {
	db postgres.DBPool
}

func NewConf(db postgres.DBPool) (*Conf, error) {
	if db == nil {
		return nil, fmt.Errorf("db is nil")
	}
	return &Conf{db: db}, nil
}

func requireAdmin(user auth.Identity) error {
	if user.Anonymous() {
		return apperr.ErrAuthenticationRequired
	}
	if !user.HasRole(auth.RoleAdmin) {
		return apperr.NotAuthorized("catalog changes require the %s role", auth.RoleAdmin)
	}
	return nil
}
