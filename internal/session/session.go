// Package session persists calculator sessions between runs and requests.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/kobzarvs/qcalc/internal/engine"
	"github.com/kobzarvs/qcalc/internal/history"
	"github.com/kobzarvs/qcalc/internal/logger"
)

var ErrNotFound = errors.New("session not found")

// Snapshot is everything saved for one session.
type Snapshot struct {
	State     engine.State    `json:"state"`
	History   []history.Entry `json:"history,omitempty"`
	LastSaved time.Time       `json:"last_saved"`
}

// Capture builds a snapshot from a live session and its history.
func Capture(s *engine.Session, h *history.List) Snapshot {
	snap := Snapshot{State: s.Export()}
	if h != nil {
		snap.History = h.Entries()
	}
	return snap
}

// Apply restores snap into a live session and its history.
func (snap *Snapshot) Apply(s *engine.Session, h *history.List) {
	if h != nil {
		h.Restore(snap.History)
	}
	s.Restore(snap.State)
}

// Store loads and saves snapshots by session id.
type Store interface {
	Load(ctx context.Context, id string) (*Snapshot, error)
	Save(ctx context.Context, id string, snap *Snapshot) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]string, error)
	Close() error
}

// Manager keeps the latest snapshot of the interactive session and writes it
// to the store on a timer and on Stop.
type Manager struct {
	mu       sync.Mutex
	store    Store
	id       string
	latest   Snapshot
	dirty    bool
	stopChan chan struct{}
	done     chan struct{}
}

// NewManager creates a manager and starts its autosave loop. interval <= 0
// disables the loop; Stop still saves.
func NewManager(store Store, id string, interval time.Duration) *Manager {
	m := &Manager{
		store:    store,
		id:       id,
		stopChan: make(chan struct{}),
		done:     make(chan struct{}),
	}
	if interval > 0 {
		go m.autosaveLoop(interval)
	} else {
		close(m.done)
	}
	return m
}

// Load returns the stored snapshot, or ErrNotFound.
func (m *Manager) Load(ctx context.Context) (*Snapshot, error) {
	snap, err := m.store.Load(ctx, m.id)
	if err != nil {
		return nil, err
	}
	m.mu.Lock()
	m.latest = *snap
	m.mu.Unlock()
	return snap, nil
}

// Update records the current state. Call it from the goroutine that owns
// the engine session.
func (m *Manager) Update(snap Snapshot) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.latest = snap
	m.dirty = true
}

// Save persists the latest snapshot if it changed since the last save.
func (m *Manager) Save(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.dirty {
		return nil
	}

	m.latest.LastSaved = time.Now()
	snap := m.latest
	if err := m.store.Save(ctx, m.id, &snap); err != nil {
		return errors.Wrapf(err, "save session %s", m.id)
	}

	m.dirty = false
	return nil
}

// ForceSave saves even if not dirty
func (m *Manager) ForceSave(ctx context.Context) error {
	m.mu.Lock()
	m.dirty = true
	m.mu.Unlock()
	return m.Save(ctx)
}

func (m *Manager) autosaveLoop(interval time.Duration) {
	defer close(m.done)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := m.Save(context.Background()); err != nil {
				logger.Warn("autosave failed", "error", err)
			}
		case <-m.stopChan:
			return
		}
	}
}

// Stop stops the autosave loop and saves final state
func (m *Manager) Stop(ctx context.Context) error {
	close(m.stopChan)
	<-m.done
	return m.ForceSave(ctx)
}
