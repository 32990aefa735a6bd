// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package editor

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
)

// MemorySessions is a SessionStore in process memory, for tests and
// single-process tools. Sessions are kept encoded so callers never share
// state with the store.
type MemorySessions struct {
	mu       sync.Mutex
	sessions map[string][]byte
}

// NewMemorySessions returns an empty MemorySessions.
func NewMemorySessions() *MemorySessions {
	return &MemorySessions{sessions: make(map[string][]byte)}
}

// Get returns the session, or nil if not found.
func (m *MemorySessions) Get(_ context.Context, id string) (*Session, error) {
	m.mu.Lock()
	payload, ok := m.sessions[id]
	m.mu.Unlock()
	if !ok {
		return nil, nil
	}

	var s Session
	if err := json.Unmarshal(payload, &s); err != nil {
		return nil, fmt.Errorf("session unmarshal: %w", err)
	}
	return &s, nil
}

// Save stores the session.
func (m *MemorySessions) Save(_ context.Context, s *Session) error {
	payload, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("session marshal: %w", err)
	}
	m.mu.Lock()
	m.sessions[s.ID] = payload
	m.mu.Unlock()
	return nil
}

// Delete removes the session.
func (m *MemorySessions) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
	return nil
}
