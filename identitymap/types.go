package identitymap

import (
	"time"

	"github.com/dmitrymomot/authcore/internal/ids"
)

// User is a row of the user_identities table: the mapping from an external
// identity-provider subject to an internal user id, plus the profile
// fields synced from token claims on every login.
type User struct {
	ID ids.ID

	ExternalProvider  string
	ExternalSubjectID string
	TenantID          *ids.ID

	Email       string
	Username    string
	FirstName   string
	LastName    string
	DisplayName string

	IsActive      bool
	IsSuperadmin  bool
	Metadata      map[string]any

	LastLoginAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
	DeletedAt   *time.Time
}

// Claims is the subset of validated token claims relevant to identity
// mapping and profile sync (populated by package tokenvalidator).
type Claims struct {
	Subject     string
	Email       string
	Username    string // preferred_username
	FirstName   string // given_name
	LastName    string // family_name
	DisplayName string // name
	Metadata    map[string]any
}
