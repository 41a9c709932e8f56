package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmitrymomot/authcore/identitymap"
	"github.com/dmitrymomot/authcore/internal/apperr"
	"github.com/dmitrymomot/authcore/internal/ids"
	"github.com/dmitrymomot/authcore/pkg/pg"
)

// IdentityRepository implements identitymap.Store against the
// user_identities table.
type IdentityRepository struct {
	pool *pgxpool.Pool
}

// NewIdentityRepository creates an identity repository.
func NewIdentityRepository(pool *pgxpool.Pool) *IdentityRepository {
	return &IdentityRepository{pool: pool}
}

const identityColumns = `
	id, external_provider, external_subject_id, tenant_id,
	email, username, first_name, last_name, display_name,
	is_active, is_superadmin, metadata,
	last_login_at, created_at, updated_at, deleted_at
`

func scanIdentity(row pgx.Row) (identitymap.User, error) {
	var u identitymap.User
	var id uuid.UUID
	var tenantID *uuid.UUID
	var metadata []byte

	err := row.Scan(
		&id, &u.ExternalProvider, &u.ExternalSubjectID, &tenantID,
		&u.Email, &u.Username, &u.FirstName, &u.LastName, &u.DisplayName,
		&u.IsActive, &u.IsSuperadmin, &metadata,
		&u.LastLoginAt, &u.CreatedAt, &u.UpdatedAt, &u.DeletedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return identitymap.User{}, apperr.ErrNotFound
		}
		return identitymap.User{}, fmt.Errorf("postgres: scan identity: %w", errors.Join(apperr.ErrStorageFailure, err))
	}

	u.ID = ids.ID(id)
	if tenantID != nil {
		tid := ids.ID(*tenantID)
		u.TenantID = &tid
	}
	if len(metadata) > 0 {
		if err := json.Unmarshal(metadata, &u.Metadata); err != nil {
			return identitymap.User{}, fmt.Errorf("postgres: unmarshal identity metadata: %w", errors.Join(apperr.ErrStorageFailure, err))
		}
	}
	return u, nil
}

func (r *IdentityRepository) GetByExternalID(ctx context.Context, provider, subjectID string) (identitymap.User, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+identityColumns+` FROM user_identities
		WHERE external_provider = $1 AND external_subject_id = $2 AND deleted_at IS NULL
	`, provider, subjectID)
	return scanIdentity(row)
}

func (r *IdentityRepository) GetByID(ctx context.Context, id ids.ID) (identitymap.User, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+identityColumns+` FROM user_identities WHERE id = $1 AND deleted_at IS NULL
	`, uuid.UUID(id))
	return scanIdentity(row)
}

func (r *IdentityRepository) Insert(ctx context.Context, u identitymap.User) error {
	var tenantID *uuid.UUID
	if u.TenantID != nil {
		tid := uuid.UUID(*u.TenantID)
		tenantID = &tid
	}
	metadata, err := json.Marshal(u.Metadata)
	if err != nil {
		return fmt.Errorf("postgres: marshal identity metadata: %w", err)
	}

	_, err = r.pool.Exec(ctx, `
		INSERT INTO user_identities (
			id, external_provider, external_subject_id, tenant_id,
			email, username, first_name, last_name, display_name,
			is_active, is_superadmin, metadata,
			last_login_at, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`,
		uuid.UUID(u.ID), u.ExternalProvider, u.ExternalSubjectID, tenantID,
		u.Email, u.Username, u.FirstName, u.LastName, u.DisplayName,
		u.IsActive, u.IsSuperadmin, metadata,
		u.LastLoginAt, u.CreatedAt, u.UpdatedAt,
	)
	if err != nil {
		if pg.IsDuplicateKeyError(err) {
			return apperr.ErrUserConflict
		}
		return fmt.Errorf("postgres: insert identity: %w", errors.Join(apperr.ErrStorageFailure, err))
	}
	return nil
}

func (r *IdentityRepository) UpdateMetadata(ctx context.Context, id ids.ID, metadata map[string]any) error {
	data, err := json.Marshal(metadata)
	if err != nil {
		return fmt.Errorf("postgres: marshal identity metadata: %w", err)
	}

	tag, err := r.pool.Exec(ctx, `
		UPDATE user_identities SET metadata = $2, updated_at = now()
		WHERE id = $1 AND deleted_at IS NULL
	`, uuid.UUID(id), data)
	if err != nil {
		return fmt.Errorf("postgres: update identity metadata: %w", errors.Join(apperr.ErrStorageFailure, err))
	}
	if tag.RowsAffected() == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

func (r *IdentityRepository) UpdateProfile(ctx context.Context, id ids.ID, u identitymap.User) error {
	metadata, err := json.Marshal(u.Metadata)
	if err != nil {
		return fmt.Errorf("postgres: marshal identity metadata: %w", err)
	}

	tag, err := r.pool.Exec(ctx, `
		UPDATE user_identities SET
			email = $2, username = $3, first_name = $4, last_name = $5, display_name = $6,
			metadata = $7, last_login_at = $8, updated_at = now()
		WHERE id = $1 AND deleted_at IS NULL
	`, uuid.UUID(id), u.Email, u.Username, u.FirstName, u.LastName, u.DisplayName, metadata, u.LastLoginAt)
	if err != nil {
		return fmt.Errorf("postgres: update identity profile: %w", errors.Join(apperr.ErrStorageFailure, err))
	}
	if tag.RowsAffected() == 0 {
		return apperr.ErrNotFound
	}
	return nil
}
