/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package history keeps an in-memory undo/redo stack of adjustment
// snapshots per asset, with memory and depth safeguards.
package history

import (
	"sync"
	"time"
)

// Snapshot is one recorded adjustment state for an asset. Blob holds the
// serialized sparse payload and is opaque to the manager; size is
// estimated as len(Blob). TS is when the snapshot was captured.
type Snapshot struct {
	AssetID string
	Blob    []byte
	TS      time.Time
}

// Config controls memory and depth caps and coalescing behavior.
type Config struct {
	// MaxBytes is a soft cap; older entries are pruned when exceeded.
	MaxBytes int
	// MaxPerAsset limits snapshots kept per asset (0 means unlimited).
	MaxPerAsset int
	// MinInterval coalesces snapshots captured within the interval for the
	// same asset, replacing the previous one instead of pushing a new entry.
	MinInterval time.Duration
}

// Manager provides the per-asset undo/redo stacks. Safe for concurrent use.
type Manager struct {
	cfg Config
	mu  sync.Mutex

	undo map[string][]Snapshot
	redo map[string][]Snapshot

	totalBytes int
}

func NewManager(cfg Config) *Manager {
	if cfg.MaxBytes <= 0 {
		cfg.MaxBytes = 8 * 1024 * 1024 // 8 MiB; payloads are small JSON blobs
	}
	if cfg.MinInterval <= 0 {
		cfg.MinInterval = 250 * time.Millisecond
	}
	return &Manager{cfg: cfg, undo: make(map[string][]Snapshot), redo: make(map[string][]Snapshot)}
}

// Push records a snapshot for an asset. If within MinInterval from the
// last snapshot on the same asset, it replaces the last one. Any new
// snapshot clears the redo stack for that asset.
func (m *Manager) Push(s Snapshot) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stack := m.undo[s.AssetID]
	if n := len(stack); n > 0 {
		last := stack[n-1]
		if s.TS.Sub(last.TS) < m.cfg.MinInterval {
			m.totalBytes -= len(last.Blob)
			m.totalBytes += len(s.Blob)
			stack[n-1] = s
			m.undo[s.AssetID] = stack
			m.redo[s.AssetID] = nil
			m.enforceCapsLocked(s.AssetID)
			return
		}
	}
	stack = append(stack, s)
	m.undo[s.AssetID] = stack
	m.totalBytes += len(s.Blob)
	m.redo[s.AssetID] = nil
	m.enforceCapsLocked(s.AssetID)
}

// Undo pops the newest snapshot for the asset onto its redo stack and
// returns it.
func (m *Manager) Undo(assetID string) (Snapshot, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stack := m.undo[assetID]
	if len(stack) == 0 {
		return Snapshot{}, false
	}
	s := stack[len(stack)-1]
	m.undo[assetID] = stack[:len(stack)-1]
	m.totalBytes -= len(s.Blob)
	m.redo[assetID] = append(m.redo[assetID], s)
	return s, true
}

// Redo moves the newest redo entry back onto the undo stack and returns it.
func (m *Manager) Redo(assetID string) (Snapshot, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r := m.redo[assetID]
	if len(r) == 0 {
		return Snapshot{}, false
	}
	s := r[len(r)-1]
	m.redo[assetID] = r[:len(r)-1]
	m.undo[assetID] = append(m.undo[assetID], s)
	m.totalBytes += len(s.Blob)
	m.enforceCapsLocked(assetID)
	return s, true
}

// Clear drops both stacks for an asset to free memory.
func (m *Manager) Clear(assetID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.undo[assetID] {
		m.totalBytes -= len(s.Blob)
	}
	delete(m.undo, assetID)
	delete(m.redo, assetID)
	if m.totalBytes < 0 {
		m.totalBytes = 0
	}
}

// Stats returns current sizes for diagnostics.
func (m *Manager) Stats() (totalBytes int, assets int, totalSnapshots int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	assets = len(m.undo)
	for _, v := range m.undo {
		totalSnapshots += len(v)
	}
	return m.totalBytes, assets, totalSnapshots
}

func (m *Manager) enforceCapsLocked(assetID string) {
	if m.cfg.MaxPerAsset > 0 {
		stack := m.undo[assetID]
		if len(stack) > m.cfg.MaxPerAsset {
			toDrop := len(stack) - m.cfg.MaxPerAsset
			for i := 0; i < toDrop; i++ {
				m.totalBytes -= len(stack[i].Blob)
			}
			m.undo[assetID] = append([]Snapshot{}, stack[toDrop:]...)
		}
	}
	// Global memory cap: prune oldest across all assets.
	for m.cfg.MaxBytes > 0 && m.totalBytes > m.cfg.MaxBytes {
		oldestAsset := ""
		oldestIdx := -1
		var oldestTS time.Time
		for asset, stack := range m.undo {
			if len(stack) == 0 {
				continue
			}
			if oldestIdx == -1 || stack[0].TS.Before(oldestTS) {
				oldestAsset = asset
				oldestIdx = 0
				oldestTS = stack[0].TS
			}
		}
		if oldestIdx == -1 {
			break
		}
		stack := m.undo[oldestAsset]
		m.totalBytes -= len(stack[0].Blob)
		m.undo[oldestAsset] = stack[1:]
		if len(m.undo[oldestAsset]) == 0 {
			delete(m.undo, oldestAsset)
		}
	}
}
