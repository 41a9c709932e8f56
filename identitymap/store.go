package identitymap

import (
	"context"

	"github.com/dmitrymomot/authcore/internal/ids"
)

// Store is the persistence contract for user_identities, backed by
// store/postgres.
type Store interface {
	GetByExternalID(ctx context.Context, provider, subjectID string) (User, error)
	GetByID(ctx context.Context, id ids.ID) (User, error)
	Insert(ctx context.Context, u User) error
	UpdateProfile(ctx context.Context, id ids.ID, u User) error
	UpdateMetadata(ctx context.Context, id ids.ID, metadata map[string]any) error
}

// Cache caches mappings keyed by (tenant-or-platform, provider, subject) and
// by internal id.
type Cache interface {
	Get(ctx context.Context, key string) (User, bool)
	Set(ctx context.Context, key string, user User)
	Delete(ctx context.Context, key string)
}
