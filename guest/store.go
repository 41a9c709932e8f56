package guest

import "context"

// Store persists guest sessions, keyed by session ID. Grounded on the
// shape of pkg/session.Store, narrowed to what guest sessions need: no
// per-user cleanup (guests have no user), no activity-only update (guest
// refresh rewrites the whole record including RequestCount).
type Store interface {
	Create(ctx context.Context, s *Session) error
	Get(ctx context.Context, id string) (*Session, error)
	Update(ctx context.Context, s *Session) error
	Delete(ctx context.Context, id string) error
	DeleteExpired(ctx context.Context) error
}
