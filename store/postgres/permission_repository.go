package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmitrymomot/authcore/internal/apperr"
	"github.com/dmitrymomot/authcore/internal/ids"
	"github.com/dmitrymomot/authcore/permcache"
)

// PermissionRepository implements permcache.Store against the roles,
// permissions, role_permissions, and user_roles tables.
type PermissionRepository struct {
	pool *pgxpool.Pool
}

// NewPermissionRepository creates a permission repository.
func NewPermissionRepository(pool *pgxpool.Pool) *PermissionRepository {
	return &PermissionRepository{pool: pool}
}

func (r *PermissionRepository) LoadUserPermissions(ctx context.Context, userID ids.ID, tenantID *ids.ID) ([]permcache.Permission, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT p.code, p.scope, p.description, p.is_dangerous, p.requires_mfa, p.requires_approval, ur.role_code
		FROM user_roles ur
		JOIN role_permissions rp ON rp.role_code = ur.role_code
		JOIN permissions p ON p.code = rp.permission_code
		WHERE ur.user_id = $1
		  AND (ur.tenant_id IS NOT DISTINCT FROM $2::uuid)
		  AND (ur.expires_at IS NULL OR ur.expires_at > now())
	`, uuid.UUID(userID), tenantUUIDPtr(tenantID))
	if err != nil {
		return nil, fmt.Errorf("postgres: load user permissions: %w", errors.Join(apperr.ErrStorageFailure, err))
	}
	defer rows.Close()

	var perms []permcache.Permission
	for rows.Next() {
		var p permcache.Permission
		if err := rows.Scan(&p.Code, &p.Scope, &p.Description, &p.IsDangerous, &p.RequiresMFA, &p.RequiresApproval, &p.SourceRole); err != nil {
			return nil, fmt.Errorf("postgres: scan permission: %w", errors.Join(apperr.ErrStorageFailure, err))
		}
		perms = append(perms, p)
	}
	return perms, rows.Err()
}

func (r *PermissionRepository) LoadUserRoles(ctx context.Context, userID ids.ID, tenantID *ids.ID) ([]permcache.Role, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT r.code, r.scope, r.name, r.description, r.is_system
		FROM user_roles ur
		JOIN roles r ON r.code = ur.role_code
		WHERE ur.user_id = $1
		  AND (ur.tenant_id IS NOT DISTINCT FROM $2::uuid)
		  AND (ur.expires_at IS NULL OR ur.expires_at > now())
	`, uuid.UUID(userID), tenantUUIDPtr(tenantID))
	if err != nil {
		return nil, fmt.Errorf("postgres: load user roles: %w", errors.Join(apperr.ErrStorageFailure, err))
	}
	defer rows.Close()

	var roles []permcache.Role
	for rows.Next() {
		var role permcache.Role
		if err := rows.Scan(&role.Code, &role.Scope, &role.Name, &role.Description, &role.IsSystem); err != nil {
			return nil, fmt.Errorf("postgres: scan role: %w", errors.Join(apperr.ErrStorageFailure, err))
		}
		roles = append(roles, role)
	}
	return roles, rows.Err()
}

func (r *PermissionRepository) UsersWithRole(ctx context.Context, roleCode string, tenantID *ids.ID) ([]ids.ID, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT user_id FROM user_roles
		WHERE role_code = $1
		  AND (tenant_id IS NOT DISTINCT FROM $2::uuid)
		  AND (expires_at IS NULL OR expires_at > now())
	`, roleCode, tenantUUIDPtr(tenantID))
	if err != nil {
		return nil, fmt.Errorf("postgres: users with role: %w", errors.Join(apperr.ErrStorageFailure, err))
	}
	defer rows.Close()

	var userIDs []ids.ID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("postgres: scan user id: %w", errors.Join(apperr.ErrStorageFailure, err))
		}
		userIDs = append(userIDs, ids.ID(id))
	}
	return userIDs, rows.Err()
}

func tenantUUIDPtr(tenantID *ids.ID) *uuid.UUID {
	if tenantID == nil {
		return nil
	}
	id := uuid.UUID(*tenantID)
	return &id
}
