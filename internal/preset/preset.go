/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package preset stores named export presets. Names are unique: saving a
// new preset under a taken name is the one caller-visible failure in this
// layer, so the caller can decide between overwrite and rename.
package preset

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"quickfix/internal/export"
)

// ErrNameTaken reports a save that would collide with another preset's
// name.
var ErrNameTaken = errors.New("preset name already taken")

// ErrNotFound reports a lookup for a preset that does not exist.
var ErrNotFound = errors.New("preset not found")

// Preset is a named export configuration.
type Preset struct {
	ID        int64           `json:"id"`
	Name      string          `json:"name"`
	Settings  export.Settings `json:"settings"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// Store is the preset persistence surface. Save with a zero ID inserts;
// a nonzero ID updates that preset, including renames. Either way a name
// held by a different preset yields ErrNameTaken.
type Store interface {
	Save(ctx context.Context, p Preset) (Preset, error)
	Get(ctx context.Context, id int64) (Preset, error)
	List(ctx context.Context) ([]Preset, error)
	Delete(ctx context.Context, id int64) error
}

// MemoryStore is the in-memory Store, used for tests and ephemeral
// sessions. Safe for concurrent use.
type MemoryStore struct {
	mu     sync.Mutex
	nextID int64
	byID   map[int64]Preset
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{nextID: 1, byID: make(map[int64]Preset)}
}

func (s *MemoryStore) Save(_ context.Context, p Preset) (Preset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, q := range s.byID {
		if q.Name == p.Name && id != p.ID {
			return Preset{}, fmt.Errorf("save preset %q: %w", p.Name, ErrNameTaken)
		}
	}
	now := time.Now().UTC()
	if p.ID == 0 {
		p.ID = s.nextID
		s.nextID++
		p.CreatedAt = now
	} else {
		cur, ok := s.byID[p.ID]
		if !ok {
			return Preset{}, fmt.Errorf("save preset %d: %w", p.ID, ErrNotFound)
		}
		p.CreatedAt = cur.CreatedAt
	}
	p.UpdatedAt = now
	p.Settings = export.Normalize(p.Settings)
	s.byID[p.ID] = p
	return p, nil
}

func (s *MemoryStore) Get(_ context.Context, id int64) (Preset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.byID[id]
	if !ok {
		return Preset{}, fmt.Errorf("preset %d: %w", id, ErrNotFound)
	}
	return p, nil
}

func (s *MemoryStore) List(_ context.Context) ([]Preset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Preset, 0, len(s.byID))
	for _, p := range s.byID {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *MemoryStore) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[id]; !ok {
		return fmt.Errorf("preset %d: %w", id, ErrNotFound)
	}
	delete(s.byID, id)
	return nil
}
