package services

import "context"

// persistentContext keeps request values but drops cancellation, so
// bookkeeping and lock release still happen after the caller gives up.
func persistentContext(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return context.WithoutCancel(ctx)
}
