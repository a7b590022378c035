package override

import "context"

type snapshotKey struct{}

// WithSnapshot attaches s to ctx for code that cannot reach the Resolver,
// such as template helpers.
func WithSnapshot(ctx context.Context, s *Snapshot) context.Context {
	return context.WithValue(ctx, snapshotKey{}, s)
}

// FromContext returns the snapshot attached to ctx, or nil. A nil snapshot
// answers every query with "no override".
func FromContext(ctx context.Context) *Snapshot {
	if ctx == nil {
		return nil
	}
	s, _ := ctx.Value(snapshotKey{}).(*Snapshot)
	return s
}
