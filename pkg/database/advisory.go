package database

import (
	"context"
	"fmt"
	"hash/fnv"
)

// ScopeLockKey derives a stable 64-bit advisory lock key from a scope label
// (e.g. "variety-merge:<plant_type_id>").
func ScopeLockKey(scope string) int64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(scope))
	return int64(h.Sum64())
}

// WithScopeLock runs fn while holding a session-level Postgres advisory lock
// for the scope. Concurrent callers on the same scope block until the holder
// finishes, which serializes merge-apply runs and preserves the one-canonical-
// per-group invariant.
func (db *DB) WithScopeLock(ctx context.Context, scope string, fn func(ctx context.Context) error) error {
	conn, err := db.Pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("failed to acquire connection for scope lock: %w", err)
	}
	defer conn.Release()

	key := ScopeLockKey(scope)
	if _, err := conn.Exec(ctx, "SELECT pg_advisory_lock($1)", key); err != nil {
		return fmt.Errorf("failed to acquire advisory lock for scope %q: %w", scope, err)
	}
	defer func() {
		// Unlock on the same session even if ctx is already done.
		_, _ = conn.Exec(context.Background(), "SELECT pg_advisory_unlock($1)", key)
	}()

	return fn(ctx)
}
