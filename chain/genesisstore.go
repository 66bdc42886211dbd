// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chain

import (
	"context"
	"sync"
)

// GenesisStore persists and recovers the opaque genesis-related-info
// blob (spec.md §6 "Persisted/serialized state") across restarts. The
// core itself never requires durability (spec.md §1 Non-goals), but an
// embedder backed by a real key-value store (e.g. a luxfi/database
// handle) can satisfy this interface to survive process restarts
// without the Chain depending on any particular storage engine.
type GenesisStore interface {
	Save(ctx context.Context, blob []byte) error
	Load(ctx context.Context) ([]byte, error)
}

// MemGenesisStore is the default, in-process GenesisStore: it holds
// the most recent snapshot in memory and is lost on restart, which is
// sufficient for a single long-lived process and for tests.
type MemGenesisStore struct {
	mu   sync.Mutex
	blob []byte
}

func (m *MemGenesisStore) Save(_ context.Context, blob []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.blob = append([]byte(nil), blob...)
	return nil
}

func (m *MemGenesisStore) Load(_ context.Context) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]byte(nil), m.blob...), nil
}
