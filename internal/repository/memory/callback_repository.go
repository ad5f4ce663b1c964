package memory

import (
	"time"

	"github.com/patrickmn/go-cache"
)

// CallbackRepository remembers recently processed gateway notifications so
// retry bursts short-circuit before the database path. The state machine's
// no-op rule is the durable idempotency guarantee; this is an in-process
// fast path only.
type CallbackRepository struct {
	cache *cache.Cache
}

func NewCallbackRepository() *CallbackRepository {
	// Gateways retry within minutes; anything older goes through the full
	// path again, which is still a no-op.
	c := cache.New(10*time.Minute, 15*time.Minute)
	return &CallbackRepository{
		cache: c,
	}
}

func (r *CallbackRepository) Seen(key string) bool {
	_, found := r.cache.Get(key)
	return found
}

func (r *CallbackRepository) MarkSeen(key string) {
	r.cache.Set(key, struct{}{}, cache.DefaultExpiration)
}
