package session

import "context"

// SessionRecord is a defensively narrowed entry in the set of active
// sessions for the current identity. The only structural guarantee the core
// relies on is an `id` string; everything else stays in Raw and must not be
// assumed.
type SessionRecord struct {
	ID  string
	Raw map[string]any
}

// ParseSessionRecord narrows a loosely typed payload entry. Entries without
// a non-empty string `id` yield a record with an empty ID; they are kept in
// the cache but can never be matched by a revoke.
func ParseSessionRecord(raw map[string]any) SessionRecord {
	rec := SessionRecord{Raw: raw}
	if raw == nil {
		rec.Raw = map[string]any{}
		return rec
	}

	if id, ok := raw["id"].(string); ok {
		rec.ID = id
	}

	return rec
}

// ActiveSessions returns the cached session list.
func (m *Manager) ActiveSessions() []SessionRecord {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]SessionRecord, len(m.sessions))
	copy(out, m.sessions)
	return out
}

// LoadSessions refreshes the active-session cache. This is a background
// refresh: failures are logged, never notified, and leave the previous cache
// untouched. A successful call with a malformed (non-list) payload empties
// the cache rather than crashing on an assumed shape.
func (m *Manager) LoadSessions(ctx context.Context) {
	res, err := m.svc.GetActiveSessions(ctx)
	if err != nil {
		m.logger.Error("load sessions: service call failed: %v", err)
		return
	}

	if !res.Success {
		m.logger.Warn("load sessions failed: %s", res.Message())
		return
	}

	records := make([]SessionRecord, 0, len(res.Data))
	for _, raw := range res.Data {
		records = append(records, ParseSessionRecord(raw))
	}

	m.mu.Lock()
	m.sessions = records
	m.mu.Unlock()
}

// RevokeSession revokes one active session. On success every cached entry
// whose ID equals the target is removed; entries lacking an id are
// conservatively kept since they cannot be proven to be the revoked one. On
// failure the cache is untouched and the user is notified.
func (m *Manager) RevokeSession(ctx context.Context, id string) bool {
	res, err := m.svc.RevokeSession(ctx, id)
	if err != nil {
		m.logger.Error("revoke session: service call failed: %v", err)
		m.notifier.Failure(GenericFailureMessage)
		return false
	}

	if !res.Success {
		m.notifier.Failure(res.Message())
		return false
	}

	m.mu.Lock()
	kept := m.sessions[:0]
	for _, rec := range m.sessions {
		if rec.ID == "" || rec.ID != id {
			kept = append(kept, rec)
		}
	}
	m.sessions = kept
	m.mu.Unlock()

	m.notifier.Success(msgSessionRevoked)
	m.emit(ctx, ActivityEventSessionRevoked, map[string]any{"session_id": id})

	return true
}
