//go:build integration

package containers

import (
	"sync"
	"testing"
)

// Manager owns the shared test containers. Suites that need the same
// backing service reuse one container instead of starting their own; Ryuk
// reaps everything when the test process exits.
type Manager struct {
	mu    sync.Mutex
	redis *RedisContainer
}

var (
	managerOnce sync.Once
	manager     *Manager
)

// GetManager returns the process-wide container manager.
func GetManager() *Manager {
	managerOnce.Do(func() {
		manager = &Manager{}
	})
	return manager
}

// GetRedis returns the shared Redis container, starting it on first use.
func (m *Manager) GetRedis(t *testing.T) *RedisContainer {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.redis == nil {
		m.redis = NewRedisContainer(t)
	}
	return m.redis
}
