package port

import "context"

type CacheRepository interface {
	// AcquireTransition sets a short-lived key guarding a workflow write,
	// returns false if the key is already held (double-tap)
	AcquireTransition(ctx context.Context, key string) (bool, error)

	// ReleaseTransition drops the key so a failed transition can be retried
	ReleaseTransition(ctx context.Context, key string) error
}
