package notify

import (
	"sync"
	"time"
)

type managerEntry struct {
	ctrl *Controller
	refs int
}

// Manager owns one notification controller per signed-in user and tracks how
// many live connections share it, so a second device neither duplicates the
// session nor kills it on disconnect.
type Manager struct {
	matches      MatchSource
	channels     ChannelResolver
	feed         FeedSource
	presenter    Presenter
	advanceDelay time.Duration

	mu      sync.Mutex
	entries map[string]*managerEntry
}

func NewManager(matches MatchSource, channels ChannelResolver, feed FeedSource, presenter Presenter, advanceDelay time.Duration) *Manager {
	return &Manager{
		matches:      matches,
		channels:     channels,
		feed:         feed,
		presenter:    presenter,
		advanceDelay: advanceDelay,
		entries:      make(map[string]*managerEntry),
	}
}

// Attach registers a connection for userID and returns the user's
// controller, creating and attaching it on first use
func (m *Manager) Attach(userID string) *Controller {
	if userID == "" {
		return nil
	}

	m.mu.Lock()
	entry, ok := m.entries[userID]
	if !ok {
		entry = &managerEntry{
			ctrl: NewController(m.matches, m.channels, m.feed, m.presenter, m.advanceDelay),
		}
		m.entries[userID] = entry
	}
	entry.refs++
	ctrl := entry.ctrl
	m.mu.Unlock()

	ctrl.Attach(userID)
	return ctrl
}

// Controller returns the controller attached for userID, or nil
func (m *Manager) Controller(userID string) *Controller {
	m.mu.Lock()
	defer m.mu.Unlock()
	if entry, ok := m.entries[userID]; ok {
		return entry.ctrl
	}
	return nil
}

// Detach drops one connection for userID; the session ends when the last
// connection is gone. Safe to call for unknown users.
func (m *Manager) Detach(userID string) {
	m.mu.Lock()
	entry, ok := m.entries[userID]
	if !ok {
		m.mu.Unlock()
		return
	}
	entry.refs--
	if entry.refs > 0 {
		m.mu.Unlock()
		return
	}
	delete(m.entries, userID)
	m.mu.Unlock()

	entry.ctrl.Detach()
}

// DetachAll ends every session; used on shutdown
func (m *Manager) DetachAll() {
	m.mu.Lock()
	entries := make([]*managerEntry, 0, len(m.entries))
	for _, entry := range m.entries {
		entries = append(entries, entry)
	}
	m.entries = make(map[string]*managerEntry)
	m.mu.Unlock()

	for _, entry := range entries {
		entry.ctrl.Detach()
	}
}
