package session

import "context"

var managerCtxKey = &contextKey{"session.manager"}

type contextKey struct {
	name string
}

// WithContext binds the Manager handle into the given context. The manager
// is passed by reference from application start; it is never ambient global
// state.
func WithContext(ctx context.Context, manager *Manager) context.Context {
	return context.WithValue(ctx, managerCtxKey, manager)
}

// FromContext finds the Manager handle in the context.
func FromContext(ctx context.Context) (*Manager, bool) {
	raw, ok := ctx.Value(managerCtxKey).(*Manager)
	return raw, ok
}

// MustFromContext returns the Manager handle or panics with
// ErrNotInitialized when the context carries no initialized manager. Reading
// session state outside an initialized manager scope is a caller-contract
// violation, not a recoverable runtime condition.
func MustFromContext(ctx context.Context) *Manager {
	manager, ok := FromContext(ctx)
	if !ok || !manager.Initialized() {
		panic(ErrNotInitialized)
	}
	return manager
}
