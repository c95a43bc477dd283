package callback

import (
	"context"
	"time"

	"github.com/slobi-app/slobi-backend/pkg/redis"
)

const guardScope = "paystack_callback"

// Guard is a best-effort dedupe in front of the purchases unique index.
// Paystack redirects and webhook retries can land the same reference several
// times in quick succession; claiming the reference in Redis lets all but one
// handler short-circuit to a cheap read. Redis being down never blocks a
// callback: the database index remains the authoritative boundary.
type Guard struct {
	store redis.IdempotencyStore
	ttl   time.Duration
}

// NewGuard builds a guard over the provided store. A nil store disables the
// fast path and every claim succeeds.
func NewGuard(store redis.IdempotencyStore, ttl time.Duration) *Guard {
	return &Guard{store: store, ttl: ttl}
}

// Claim attempts to claim the reference. False means another handler holds
// it already. Store errors count as a successful claim.
func (g *Guard) Claim(ctx context.Context, reference string) bool {
	if g == nil || g.store == nil {
		return true
	}
	claimed, err := g.store.SetNX(ctx, g.store.IdempotencyKey(guardScope, reference), "1", g.ttl)
	if err != nil {
		return true
	}
	return claimed
}

// Release frees the claim so a later retry can reprocess the reference,
// typically after a handling failure.
func (g *Guard) Release(ctx context.Context, reference string) {
	if g == nil || g.store == nil {
		return
	}
	_ = g.store.Del(ctx, g.store.IdempotencyKey(guardScope, reference))
}
