// Package cache implements the TTL key-value contract described in
// SPEC_FULL.md §4.3: JSON-encoded values, per-key TTL, single-key and
// glob-pattern invalidation. Failures never propagate to the caller —
// reads degrade to a store hit and writes are fire-and-forget, per the
// spec's error-handling design.
package cache

import (
	"context"
	"time"
)

const (
	ResolvedMembersTTL = 5 * time.Minute
	ScheduleResultTTL  = time.Hour
)

// Cache is the contract the resolver and schedule-result handlers consume.
// Implementations must never return an error that the caller is expected
// to act on — Get returning false means "treat as a miss" whether
// the key was absent or the backend was unreachable.
type Cache interface {
	// Get decodes the stored JSON value for key into dest. ok is false on
	// a miss or any backend error.
	Get(ctx context.Context, key string, dest any) (ok bool)
	// Set JSON-encodes value and stores it under key with the given TTL.
	// Errors are logged by the implementation, never returned.
	Set(ctx context.Context, key string, value any, ttl time.Duration)
	// Invalidate deletes key. A miss is not an error.
	Invalidate(ctx context.Context, key string)
	// InvalidatePattern deletes every key matching the glob pattern
	// (Redis-style: * and ? wildcards) in one batch.
	InvalidatePattern(ctx context.Context, pattern string)
}

func ResolvedMembersKey(rootGroupID string) string {
	return "resolved_members:" + rootGroupID
}

func ResolvedMembersInvalidateAll() string {
	return "resolved_members:*"
}

func ScheduleResultKey(jobID string) string {
	return "schedule_result:" + jobID
}
