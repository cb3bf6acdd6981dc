// Package storage defines the health contract shared by the backing stores
// (database, cache, vector index, upload directory) and a registry that
// probes them for the readiness endpoint.
package storage

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"
)

// Client is implemented by every backing store that can be probed.
type Client interface {
	// Name returns a lowercase identifier such as "postgres" or "redis".
	Name() string
	// Ping performs a lightweight round trip to the backend.
	Ping(ctx context.Context) error
}

// HealthStatus is the result of probing one client.
type HealthStatus struct {
	Name    string        `json:"name"`
	Healthy bool          `json:"healthy"`
	Latency time.Duration `json:"latency"`
	Error   string        `json:"error,omitempty"`
}

// Manager holds the registered clients. It is safe for concurrent use.
type Manager struct {
	timeout time.Duration

	mu      sync.RWMutex
	clients map[string]Client
}

// NewManager creates a manager whose probes are bounded by timeout.
func NewManager(timeout time.Duration) *Manager {
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	return &Manager{timeout: timeout, clients: make(map[string]Client)}
}

// Register adds a client under its own name.
func (m *Manager) Register(client Client) error {
	if client == nil {
		return fmt.Errorf("storage client cannot be nil")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	name := client.Name()
	if _, exists := m.clients[name]; exists {
		return fmt.Errorf("storage client %q is already registered", name)
	}
	m.clients[name] = client
	return nil
}

// Names returns the registered names in sorted order.
func (m *Manager) Names() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	names := make([]string, 0, len(m.clients))
	for name := range m.clients {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// HealthCheckAll probes all clients concurrently and returns their
// statuses sorted by name.
func (m *Manager) HealthCheckAll(ctx context.Context) []HealthStatus {
	m.mu.RLock()
	clients := make([]Client, 0, len(m.clients))
	for _, c := range m.clients {
		clients = append(clients, c)
	}
	m.mu.RUnlock()

	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	statuses := make([]HealthStatus, len(clients))
	var wg sync.WaitGroup
	for i, c := range clients {
		wg.Add(1)
		go func(i int, c Client) {
			defer wg.Done()

			start := time.Now()
			err := c.Ping(ctx)
			st := HealthStatus{Name: c.Name(), Healthy: err == nil, Latency: time.Since(start)}
			if err != nil {
				st.Error = err.Error()
			}
			statuses[i] = st
		}(i, c)
	}
	wg.Wait()

	sort.Slice(statuses, func(i, j int) bool { return statuses[i].Name < statuses[j].Name })
	return statuses
}

// AllHealthy reports whether every status is healthy.
func AllHealthy(statuses []HealthStatus) bool {
	for _, s := range statuses {
		if !s.Healthy {
			return false
		}
	}
	return true
}
