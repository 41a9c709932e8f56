package permcache

import "github.com/dmitrymomot/authcore/internal/ids"

// Scope distinguishes platform-wide roles/permissions from tenant-scoped
// ones.
type Scope string

const (
	ScopePlatform Scope = "platform"
	ScopeTenant   Scope = "tenant"
)

// Role is a row of the roles table.
type Role struct {
	Code        string
	Scope       Scope
	Name        string
	Description string
	IsSystem    bool
}

// Permission is a row of the permissions table, joined in via
// role_permissions for a given user.
type Permission struct {
	Code             string
	Scope            Scope
	Description      string
	IsDangerous      bool
	RequiresMFA      bool
	RequiresApproval bool
	SourceRole       string
}

// summary is a resource -> set<action> index built from a permission list,
// used for fast wildcard matching without re-scanning the flat list.
type summary map[string]map[string]struct{}

func buildSummary(perms []Permission) summary {
	s := make(summary, len(perms))
	for _, p := range perms {
		resource, action, ok := parsePermissionCode(p.Code)
		if !ok {
			continue
		}
		actions, exists := s[resource]
		if !exists {
			actions = make(map[string]struct{})
			s[resource] = actions
		}
		actions[action] = struct{}{}
	}
	return s
}

// matches checks a required "resource:action" code against the summary
// using the four rules of §4.E: exact, resource-wildcard, action-wildcard,
// and full superuser.
func (s summary) matches(required string) bool {
	resource, action, ok := parsePermissionCode(required)
	if !ok {
		return false
	}
	if actions, exists := s[resource]; exists {
		if _, hit := actions[action]; hit {
			return true
		}
		if _, hit := actions[Wildcard]; hit {
			return true
		}
	}
	if actions, exists := s[Wildcard]; exists {
		if _, hit := actions[action]; hit {
			return true
		}
		if _, hit := actions[Wildcard]; hit {
			return true
		}
	}
	return false
}

// scopeKey renders the cache-key scope segment: "platform" or
// "tenant:<id>".
func scopeKey(tenantID *ids.ID) string {
	if tenantID == nil {
		return "platform"
	}
	return "tenant:" + tenantID.String()
}
