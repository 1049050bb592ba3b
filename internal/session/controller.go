/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package session

import (
	"sync"
	"time"

	"quickfix/internal/adjust"
	"quickfix/internal/crop"
)

// DefaultQuiet is the input-inactivity window after which a pending draft
// commits on its own.
const DefaultQuiet = 350 * time.Millisecond

// Clock schedules the quiet timer. Production uses the wall clock; tests
// inject a manual one and drive time themselves.
type Clock interface {
	AfterFunc(d time.Duration, f func()) Timer
}

// Timer is a stoppable pending callback.
type Timer interface {
	Stop() bool
}

type wallClock struct{}

type wallTimer struct{ t *time.Timer }

func (wallClock) AfterFunc(d time.Duration, f func()) Timer {
	return wallTimer{t: time.AfterFunc(d, f)}
}

func (w wallTimer) Stop() bool { return w.t.Stop() }

// Gesture describes an active pointer drag.
type Gesture struct {
	Handle    crop.Handle
	PointerID int
	StartRect crop.Rect
}

// Config controls the Controller.
type Config struct {
	// Quiet is the debounce window; DefaultQuiet when zero.
	Quiet time.Duration
	// Clock defaults to the wall clock.
	Clock Clock
	// OnCommit receives every committed state. It runs under the
	// controller lock and must not call back into the controller.
	OnCommit func(adjust.State)
}

// Controller owns the live draft for one image. Every input sample mutates
// the draft synchronously so the caller can render it with zero latency;
// the authoritative state only advances on commit. Safe for concurrent use.
type Controller struct {
	mu       sync.Mutex
	quiet    time.Duration
	clock    Clock
	onCommit func(adjust.State)

	phase     Phase
	committed adjust.State
	draft     adjust.State
	dirty     bool
	gesture   *Gesture

	timer Timer
	gen   int
}

// NewController starts in PhaseIdle with the given authoritative state.
func NewController(initial adjust.State, cfg Config) *Controller {
	if cfg.Quiet <= 0 {
		cfg.Quiet = DefaultQuiet
	}
	if cfg.Clock == nil {
		cfg.Clock = wallClock{}
	}
	return &Controller{
		quiet:     cfg.Quiet,
		clock:     cfg.Clock,
		onCommit:  cfg.OnCommit,
		phase:     PhaseIdle,
		committed: initial.Clone(),
		draft:     initial.Clone(),
	}
}

// Phase returns the current machine phase.
func (c *Controller) Phase() Phase {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.phase
}

// Live returns a snapshot of the draft for rendering. Between edit and
// commit this is ahead of Committed.
func (c *Controller) Live() adjust.State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.draft.Clone()
}

// Committed returns the authoritative state.
func (c *Controller) Committed() adjust.State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.committed.Clone()
}

// Gesture returns the active drag, or nil.
func (c *Controller) Gesture() *Gesture {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gesture == nil {
		return nil
	}
	g := *c.gesture
	return &g
}

// Edit applies one input sample to the draft. Outside a gesture it
// restarts the quiet timer; inside one it only updates the draft.
func (c *Controller) Edit(apply func(*adjust.State)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	apply(&c.draft)
	c.dirty = true
	c.step(EventEdit)
}

// BeginDrag opens a pointer gesture. Commits are suppressed until EndDrag
// or Cancel.
func (c *Controller) BeginDrag(h crop.Handle, pointerID int, start crop.Rect) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gesture = &Gesture{Handle: h, PointerID: pointerID, StartRect: start}
	c.step(EventDragBegin)
}

// EndDrag closes the gesture identified by pointerID and commits the draft
// immediately. A release from a stale pointer is ignored.
func (c *Controller) EndDrag(pointerID int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gesture == nil || c.gesture.PointerID != pointerID {
		return
	}
	c.gesture = nil
	c.step(EventDragEnd)
}

// Cancel discards the draft and any pending timer without committing. Used
// when the control is disabled or the edited image changes.
func (c *Controller) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gesture = nil
	c.step(EventCancel)
}

// Flush commits any pending draft now, as if the quiet period elapsed.
func (c *Controller) Flush() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.phase == PhaseIdle && c.dirty {
		c.step(EventQuiet)
	}
}

// Reset replaces both draft and authoritative state, dropping any pending
// edit. Used when switching images.
func (c *Controller) Reset(s adjust.State) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gesture = nil
	c.step(EventCancel)
	c.committed = s.Clone()
	c.draft = s.Clone()
}

func (c *Controller) step(e Event) {
	next, effects := Transition(c.phase, e)
	c.phase = next
	for _, eff := range effects {
		switch eff {
		case EffectArmTimer:
			c.armTimerLocked()
		case EffectDisarmTimer:
			c.disarmTimerLocked()
		case EffectCommit:
			c.commitLocked()
		case EffectDiscard:
			c.draft = c.committed.Clone()
			c.dirty = false
		}
	}
}

func (c *Controller) armTimerLocked() {
	c.disarmTimerLocked()
	c.gen++
	gen := c.gen
	c.timer = c.clock.AfterFunc(c.quiet, func() { c.quietElapsed(gen) })
}

func (c *Controller) disarmTimerLocked() {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.gen++
}

func (c *Controller) quietElapsed(gen int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	// A re-armed or disarmed timer may still fire; the generation check
	// drops the stale callback.
	if gen != c.gen {
		return
	}
	c.timer = nil
	c.step(EventQuiet)
}

func (c *Controller) commitLocked() {
	if c.dirty {
		c.committed = c.draft.Clone()
		c.dirty = false
		if c.onCommit != nil {
			c.onCommit(c.committed.Clone())
		}
	}
	c.step(EventCommitted)
}
