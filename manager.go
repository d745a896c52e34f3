package session

import (
	"context"
	"sync"
	"time"
)

// Manager holds the app-lifetime session state: the current identity and the
// loading flag, plus the bound auth operations. Construct one at application
// start and hand it to consumers by reference (see WithContext); it is the
// single distribution point for "who is logged in".
type Manager struct {
	svc          IdentityService
	store        *Store
	notifier     Notifier
	activitySink ActivitySink
	logger       Logger

	mu       sync.RWMutex
	user     *User
	loading  bool
	sessions []SessionRecord

	initOnce    sync.Once
	initialized bool
}

// NewManager returns a Manager bound to the identity collaborator. The
// manager starts in the loading state until Initialize has run.
func NewManager(svc IdentityService) *Manager {
	return &Manager{
		svc:          svc,
		store:        NewStore(svc),
		notifier:     noopNotifier{},
		activitySink: noopActivitySink{},
		logger:       defLogger{},
		loading:      true,
	}
}

func (m *Manager) WithLogger(logger Logger) *Manager {
	if logger != nil {
		m.logger = logger
	}
	return m
}

// WithNotifier configures the user-visible notification sink.
func (m *Manager) WithNotifier(n Notifier) *Manager {
	m.notifier = normalizeNotifier(n)
	return m
}

// WithActivitySink configures an ActivitySink for emitting auth events.
func (m *Manager) WithActivitySink(sink ActivitySink) *Manager {
	m.activitySink = normalizeActivitySink(sink)
	return m
}

// Store exposes the session store. Operations write through it on success;
// UI code must never mutate it directly.
func (m *Manager) Store() *Store {
	return m.store
}

// Initialize runs the init transition exactly once per manager lifetime:
// read the cached identity and the persisted-credential check, expose the
// identity only when both agree, then leave the loading state. When the two
// reads disagree (cached identity present but credential invalid) the
// stricter condition wins and no identity is exposed.
func (m *Manager) Initialize() {
	m.initOnce.Do(func() {
		var user *User
		if cached := m.store.CurrentUser(); cached != nil && m.store.IsAuthenticated() {
			user = cached
		}

		m.mu.Lock()
		m.user = user
		m.loading = false
		m.initialized = true
		m.mu.Unlock()
	})
}

// Initialized reports whether the init transition has completed.
func (m *Manager) Initialized() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.initialized
}

// CurrentUser returns the identity the manager currently exposes, nil when
// logged out or not yet initialized.
func (m *Manager) CurrentUser() *User {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.user
}

// IsLoading reports whether the init transition or any operation is in
// flight. Overlapping operations are not refcounted: the last one to finish
// determines the final value. Callers that need strict ordering must
// serialize themselves, e.g. by disabling the triggering control.
func (m *Manager) IsLoading() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.loading
}

func (m *Manager) setLoading(v bool) {
	m.mu.Lock()
	m.loading = v
	m.mu.Unlock()
}

func (m *Manager) setUser(user *User) {
	m.mu.Lock()
	m.user = user
	m.mu.Unlock()
}

// refreshUser re-reads the store after a successful mutation and replaces
// the exposed identity.
func (m *Manager) refreshUser() {
	m.setUser(m.store.CurrentUser())
}

func (m *Manager) emit(ctx context.Context, eventType ActivityEventType, metadata map[string]any) {
	sink := normalizeActivitySink(m.activitySink)

	userID := ""
	if u := m.CurrentUser(); u != nil {
		userID = u.ID.String()
	}

	if metadata == nil {
		metadata = map[string]any{}
	}

	event := ActivityEvent{
		EventType:  eventType,
		UserID:     userID,
		Metadata:   metadata,
		OccurredAt: time.Now(),
	}

	if err := sink.Record(ctx, event); err != nil {
		m.logger.Warn("activity sink record error: %v", err)
	}
}
