package credentials

import "sync"

// Memory is an in-memory Store used by tests and by commands that must not
// touch the OS keyring (e.g. when running non-interactively in CI).
type Memory struct {
	mu     sync.Mutex
	values map[Key]string
}

// NewMemory creates an empty in-memory store
func NewMemory() *Memory {
	return &Memory{values: make(map[Key]string)}
}

func (m *Memory) Get(key Key) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	value, ok := m.values[key]
	if !ok {
		return "", ErrNotFound
	}
	return value, nil
}

func (m *Memory) Set(key Key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

func (m *Memory) Delete(key Key) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}

func (m *Memory) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, key := range AllKeys {
		delete(m.values, key)
	}
	return nil
}
