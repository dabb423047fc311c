// internal/app/sync/subs/subs.go

// Package subs manages a keyed set of live subscriptions. Callers
// declare the set they want after each state change; the manager closes
// what is no longer wanted before opening what is new, so two
// subscriptions for the same concern never overlap.
package subs

import (
	"sort"
	"sync"

	"github.com/dalemusser/rolehub/internal/app/realtime"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Key identifies one subscription. Keys must encode everything the
// subscription depends on (collection, ids, filter): when the inputs
// change the key changes, and the manager swaps the subscription.
type Key string

// OpenFunc opens one subscription and returns its cancel.
type OpenFunc func() (realtime.CancelFunc, error)

type Manager struct {
	mu      sync.Mutex
	id      uuid.UUID
	active  map[Key]realtime.CancelFunc
	desired map[Key]struct{}
	gen     uint64
	closed  bool
	log     *zap.Logger
}

func NewManager(logger *zap.Logger) *Manager {
	return &Manager{
		id:     uuid.New(),
		active: make(map[Key]realtime.CancelFunc),
		log:    logger,
	}
}

// Apply moves the active set to the desired one. Stale subscriptions are
// cancelled first, then missing ones opened in sorted key order. An open
// failure is logged and skipped; the next Apply retries it because the
// key is still absent from the active set.
//
// Apply calls may race (watch goroutines resync independently). Each call
// is stamped with a generation and the newest desired set is recorded, so
// an older call that finishes opening a key a newer call no longer wants
// cancels it instead of registering it.
func (m *Manager) Apply(desired map[Key]OpenFunc) {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.gen++
	gen := m.gen
	m.desired = make(map[Key]struct{}, len(desired))
	for key := range desired {
		m.desired[key] = struct{}{}
	}

	var stale []realtime.CancelFunc
	for key, cancel := range m.active {
		if _, ok := desired[key]; !ok {
			stale = append(stale, cancel)
			delete(m.active, key)
		}
	}

	missing := make([]Key, 0, len(desired))
	for key := range desired {
		if _, ok := m.active[key]; !ok {
			missing = append(missing, key)
		}
	}
	sort.Slice(missing, func(i, j int) bool { return missing[i] < missing[j] })
	m.mu.Unlock()

	for _, cancel := range stale {
		cancel()
	}

	for _, key := range missing {
		// An open's initial push can trigger a nested Apply that already
		// opened this key, and a concurrent Apply can drop it from the
		// desired set. Re-check before opening.
		m.mu.Lock()
		_, already := m.active[key]
		wanted := m.wantedLocked(key, gen)
		m.mu.Unlock()
		if already || !wanted {
			continue
		}
		cancel, err := desired[key]()
		if err != nil {
			m.log.Warn("subscription open failed",
				zap.String("manager", m.id.String()),
				zap.String("key", string(key)),
				zap.Error(err))
			continue
		}
		m.mu.Lock()
		switch {
		case m.closed:
			m.mu.Unlock()
			cancel()
			return
		case !m.wantedLocked(key, gen):
			// A newer Apply ran while this open was in flight and no
			// longer wants the key.
			m.mu.Unlock()
			cancel()
		default:
			if _, ok := m.active[key]; ok {
				// A concurrent Apply beat this one to the same key.
				m.mu.Unlock()
				cancel()
				continue
			}
			m.active[key] = cancel
			m.mu.Unlock()
		}
	}
}

// wantedLocked reports whether key survives the newest Apply: either this
// call is still the newest, or the newest desired set includes the key.
func (m *Manager) wantedLocked(key Key, gen uint64) bool {
	if m.gen == gen {
		return true
	}
	_, ok := m.desired[key]
	return ok
}

// Has reports whether a subscription is currently open.
func (m *Manager) Has(key Key) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.active[key]
	return ok
}

// Keys returns the active key set, sorted.
func (m *Manager) Keys() []Key {
	m.mu.Lock()
	keys := make([]Key, 0, len(m.active))
	for key := range m.active {
		keys = append(keys, key)
	}
	m.mu.Unlock()
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// Close cancels everything. The manager accepts no further Apply calls.
func (m *Manager) Close() {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.closed = true
	cancels := make([]realtime.CancelFunc, 0, len(m.active))
	for _, cancel := range m.active {
		cancels = append(cancels, cancel)
	}
	m.active = nil
	m.mu.Unlock()

	for _, cancel := range cancels {
		cancel()
	}
}
