package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmitrymomot/authcore/internal/apperr"
	"github.com/dmitrymomot/authcore/internal/ids"
	"github.com/dmitrymomot/authcore/pkg/pg"
	"github.com/dmitrymomot/authcore/realm"
)

// RealmRepository implements realm.Store against the realms table.
type RealmRepository struct {
	pool *pgxpool.Pool
}

// NewRealmRepository creates a realm repository.
func NewRealmRepository(pool *pgxpool.Pool) *RealmRepository {
	return &RealmRepository{pool: pool}
}

const realmColumns = `
	id, tenant_id, realm_name, display_name, client_id, client_secret_ref,
	provider_server_url, signing_algorithms, expected_audience, expected_issuer,
	verify_signature, verify_exp, verify_nbf, verify_iat, verify_audience, verify_issuer,
	public_key_ttl_seconds, status, created_at, updated_at
`

func scanRealm(row pgx.Row) (realm.Config, error) {
	var cfg realm.Config
	var id uuid.UUID
	var tenantID *uuid.UUID
	var ttlSeconds int64

	err := row.Scan(
		&id, &tenantID, &cfg.RealmName, &cfg.DisplayName, &cfg.ClientID, &cfg.ClientSecretRef,
		&cfg.ProviderServerURL, &cfg.SigningAlgorithms, &cfg.ExpectedAudience, &cfg.ExpectedIssuer,
		&cfg.VerifySignature, &cfg.VerifyExp, &cfg.VerifyNbf, &cfg.VerifyIat, &cfg.VerifyAudience, &cfg.VerifyIssuer,
		&ttlSeconds, &cfg.Status, &cfg.CreatedAt, &cfg.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return realm.Config{}, apperr.ErrNotFound
		}
		return realm.Config{}, fmt.Errorf("postgres: scan realm: %w", errors.Join(apperr.ErrStorageFailure, err))
	}

	cfg.ID = ids.ID(id)
	if tenantID != nil {
		tid := ids.ID(*tenantID)
		cfg.TenantID = &tid
	}
	cfg.PublicKeyTTL = secondsToDuration(ttlSeconds)
	return cfg, nil
}

func (r *RealmRepository) GetByTenantID(ctx context.Context, tenantID ids.ID) (realm.Config, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+realmColumns+` FROM realms WHERE tenant_id = $1 AND status != 'deleted'`, uuid.UUID(tenantID))
	return scanRealm(row)
}

func (r *RealmRepository) GetByID(ctx context.Context, id ids.ID) (realm.Config, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+realmColumns+` FROM realms WHERE id = $1`, uuid.UUID(id))
	return scanRealm(row)
}

func (r *RealmRepository) GetByProviderAndName(ctx context.Context, providerServerURL, realmName string) (realm.Config, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+realmColumns+` FROM realms WHERE provider_server_url = $1 AND realm_name = $2`, providerServerURL, realmName)
	return scanRealm(row)
}

func (r *RealmRepository) Insert(ctx context.Context, cfg realm.Config) error {
	var tenantID *uuid.UUID
	if cfg.TenantID != nil {
		tid := uuid.UUID(*cfg.TenantID)
		tenantID = &tid
	}

	_, err := r.pool.Exec(ctx, `
		INSERT INTO realms (
			id, tenant_id, realm_name, display_name, client_id, client_secret_ref,
			provider_server_url, signing_algorithms, expected_audience, expected_issuer,
			verify_signature, verify_exp, verify_nbf, verify_iat, verify_audience, verify_issuer,
			public_key_ttl_seconds, status, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)
	`,
		uuid.UUID(cfg.ID), tenantID, cfg.RealmName, cfg.DisplayName, cfg.ClientID, cfg.ClientSecretRef,
		cfg.ProviderServerURL, cfg.SigningAlgorithms, cfg.ExpectedAudience, cfg.ExpectedIssuer,
		cfg.VerifySignature, cfg.VerifyExp, cfg.VerifyNbf, cfg.VerifyIat, cfg.VerifyAudience, cfg.VerifyIssuer,
		int64(cfg.PublicKeyTTL.Seconds()), cfg.Status, cfg.CreatedAt, cfg.UpdatedAt,
	)
	if err != nil {
		if pg.IsDuplicateKeyError(err) {
			return apperr.ErrRealmConflict
		}
		return fmt.Errorf("postgres: insert realm: %w", errors.Join(apperr.ErrStorageFailure, err))
	}
	return nil
}

func (r *RealmRepository) Update(ctx context.Context, id ids.ID, params realm.UpdateParams) (realm.Config, error) {
	_, err := r.pool.Exec(ctx, `
		UPDATE realms SET
			display_name = COALESCE($2, display_name),
			expected_audience = COALESCE($3, expected_audience),
			expected_issuer = COALESCE($4, expected_issuer),
			verify_audience = COALESCE($5, verify_audience),
			verify_issuer = COALESCE($6, verify_issuer),
			public_key_ttl_seconds = COALESCE($7, public_key_ttl_seconds),
			updated_at = now()
		WHERE id = $1
	`,
		uuid.UUID(id), params.DisplayName, params.ExpectedAudience, params.ExpectedIssuer,
		params.VerifyAudience, params.VerifyIssuer, durationPtrToSecondsPtr(params.PublicKeyTTL),
	)
	if err != nil {
		return realm.Config{}, fmt.Errorf("postgres: update realm: %w", errors.Join(apperr.ErrStorageFailure, err))
	}
	return r.GetByID(ctx, id)
}

func (r *RealmRepository) UpdateStatus(ctx context.Context, id ids.ID, status realm.Status) error {
	tag, err := r.pool.Exec(ctx, `UPDATE realms SET status = $2, updated_at = now() WHERE id = $1`, uuid.UUID(id), status)
	if err != nil {
		return fmt.Errorf("postgres: update realm status: %w", errors.Join(apperr.ErrStorageFailure, err))
	}
	if tag.RowsAffected() == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

func (r *RealmRepository) List(ctx context.Context) ([]realm.Config, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+realmColumns+` FROM realms WHERE status != 'deleted' ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("postgres: list realms: %w", errors.Join(apperr.ErrStorageFailure, err))
	}
	defer rows.Close()

	var configs []realm.Config
	for rows.Next() {
		cfg, err := scanRealm(rows)
		if err != nil {
			return nil, err
		}
		configs = append(configs, cfg)
	}
	return configs, rows.Err()
}
