package locale

import (
	"context"
	"sync"
)

// MemoryPreferenceStore keeps preferences in process. The zero value is not
// usable; call NewMemoryPreferenceStore.
type MemoryPreferenceStore struct {
	mu    sync.RWMutex
	prefs map[string]string
}

// NewMemoryPreferenceStore returns an empty store.
func NewMemoryPreferenceStore() *MemoryPreferenceStore {
	return &MemoryPreferenceStore{prefs: make(map[string]string)}
}

func (m *MemoryPreferenceStore) Load(_ context.Context, visitorID string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.prefs[visitorID], nil
}

func (m *MemoryPreferenceStore) Save(_ context.Context, visitorID, locale string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.prefs[visitorID] = locale
	return nil
}
