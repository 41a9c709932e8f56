package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmitrymomot/authcore/guest"
	"github.com/dmitrymomot/authcore/internal/apperr"
)

// GuestSessionRepository implements guest.Store against the
// guest_sessions table.
type GuestSessionRepository struct {
	pool *pgxpool.Pool
}

// NewGuestSessionRepository creates a guest session repository.
func NewGuestSessionRepository(pool *pgxpool.Pool) *GuestSessionRepository {
	return &GuestSessionRepository{pool: pool}
}

const guestSessionColumns = `
	id, token, client_ip, user_agent_hash, state, request_count,
	created_at, last_seen_at, expires_at
`

func scanGuestSession(row pgx.Row) (*guest.Session, error) {
	var s guest.Session
	var state string

	err := row.Scan(
		&s.ID, &s.Token, &s.ClientIP, &s.UserAgentHash, &state, &s.RequestCount,
		&s.CreatedAt, &s.LastSeenAt, &s.ExpiresAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, guest.ErrSessionNotFound
		}
		return nil, fmt.Errorf("postgres: scan guest session: %w", errors.Join(apperr.ErrStorageFailure, err))
	}
	s.State = guest.State(state)
	return &s, nil
}

func (r *GuestSessionRepository) Create(ctx context.Context, s *guest.Session) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO guest_sessions (
			id, token, client_ip, user_agent_hash, state, request_count,
			created_at, last_seen_at, expires_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, s.ID, s.Token, s.ClientIP, s.UserAgentHash, string(s.State), s.RequestCount,
		s.CreatedAt, s.LastSeenAt, s.ExpiresAt)
	if err != nil {
		return fmt.Errorf("postgres: insert guest session: %w", errors.Join(apperr.ErrStorageFailure, err))
	}
	return nil
}

func (r *GuestSessionRepository) Get(ctx context.Context, id string) (*guest.Session, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+guestSessionColumns+` FROM guest_sessions WHERE id = $1`, id)
	return scanGuestSession(row)
}

func (r *GuestSessionRepository) Update(ctx context.Context, s *guest.Session) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE guest_sessions SET
			token = $2, state = $3, request_count = $4, last_seen_at = $5, expires_at = $6
		WHERE id = $1
	`, s.ID, s.Token, string(s.State), s.RequestCount, s.LastSeenAt, s.ExpiresAt)
	if err != nil {
		return fmt.Errorf("postgres: update guest session: %w", errors.Join(apperr.ErrStorageFailure, err))
	}
	if tag.RowsAffected() == 0 {
		return guest.ErrSessionNotFound
	}
	return nil
}

func (r *GuestSessionRepository) Delete(ctx context.Context, id string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM guest_sessions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("postgres: delete guest session: %w", errors.Join(apperr.ErrStorageFailure, err))
	}
	return nil
}

func (r *GuestSessionRepository) DeleteExpired(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM guest_sessions WHERE expires_at < now()`)
	if err != nil {
		return fmt.Errorf("postgres: delete expired guest sessions: %w", errors.Join(apperr.ErrStorageFailure, err))
	}
	return nil
}
