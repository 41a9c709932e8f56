package permcache

import (
	"context"

	"github.com/dmitrymomot/authcore/internal/ids"
	"github.com/dmitrymomot/authcore/pkg/queue"
)

// invalidationJob is the payload enqueued per affected user when
// InvalidateRole fans out asynchronously instead of invalidating inline.
type invalidationJob struct {
	UserID   ids.ID  `json:"user_id"`
	TenantID *ids.ID `json:"tenant_id,omitempty"`
}

// Enqueuer is the subset of queue.Enqueuer that InvalidateRole drives to
// fan out per-user invalidation jobs instead of invalidating them inline on
// the caller's goroutine.
type Enqueuer interface {
	Enqueue(ctx context.Context, payload any, opts ...queue.EnqueueOption) error
}

// NewInvalidationHandler returns the queue.Handler a caller's queue.Worker
// registers to process invalidationJob tasks enqueued by InvalidateRole.
// Wiring a worker for it is the composition root's job, not svc's: svc only
// knows how to enqueue and how to handle what it enqueued.
func NewInvalidationHandler(svc *Service) queue.Handler {
	return queue.NewTaskHandler(func(ctx context.Context, job invalidationJob) error {
		svc.invalidateUserInline(ctx, job.UserID, job.TenantID)
		return nil
	})
}
