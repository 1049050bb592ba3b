/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package session turns a continuous stream of slider and drag input into
// two things: a live draft adjustment state updated synchronously for
// on-canvas feedback, and a debounced, coalesced commit into the
// authoritative state. The gesture logic is an explicit state machine with
// a pure transition core; the Controller wraps it with the draft, the
// timer and the locking.
package session

// Phase enumerates the machine states.
type Phase int

const (
	// PhaseIdle means no gesture is active; edits arm the quiet timer.
	PhaseIdle Phase = iota
	// PhaseDragging means a pointer gesture is active; commits are
	// suppressed until release.
	PhaseDragging
	// PhaseCommitting is the transient state while a commit is delivered.
	PhaseCommitting
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseDragging:
		return "dragging"
	case PhaseCommitting:
		return "committing"
	}
	return "unknown"
}

// Event enumerates the inputs the machine reacts to.
type Event int

const (
	// EventEdit is one input sample applied to the draft (slider move,
	// drag delta, curve point move).
	EventEdit Event = iota
	// EventDragBegin opens a pointer gesture.
	EventDragBegin
	// EventDragEnd closes the gesture and forces a commit.
	EventDragEnd
	// EventQuiet is the debounce timer firing.
	EventQuiet
	// EventCancel discards the draft without committing.
	EventCancel
	// EventCommitted closes the committing phase.
	EventCommitted
)

// Effect enumerates the side effects the Controller performs on behalf of
// a transition.
type Effect int

const (
	// EffectArmTimer restarts the quiet timer.
	EffectArmTimer Effect = iota
	// EffectDisarmTimer stops any pending timer.
	EffectDisarmTimer
	// EffectCommit promotes the draft to the authoritative state.
	EffectCommit
	// EffectDiscard resets the draft to the authoritative state.
	EffectDiscard
)

// Transition is the pure machine core: given a phase and an event it
// returns the next phase and the effects to run, and nothing else. Rapid
// edits coalesce by construction: an edit only ever re-arms the timer, so
// one commit carries the final draft no matter how many samples arrived.
func Transition(p Phase, e Event) (Phase, []Effect) {
	switch p {
	case PhaseIdle:
		switch e {
		case EventEdit:
			return PhaseIdle, []Effect{EffectArmTimer}
		case EventDragBegin:
			return PhaseDragging, []Effect{EffectDisarmTimer}
		case EventQuiet:
			return PhaseCommitting, []Effect{EffectCommit}
		case EventCancel:
			return PhaseIdle, []Effect{EffectDisarmTimer, EffectDiscard}
		}
	case PhaseDragging:
		switch e {
		case EventEdit, EventDragBegin:
			// Edits land in the draft synchronously; no timer while the
			// pointer is down.
			return PhaseDragging, nil
		case EventQuiet:
			// Suppressed: a quiet period during an active gesture must not
			// fight the pointer.
			return PhaseDragging, nil
		case EventDragEnd:
			return PhaseCommitting, []Effect{EffectDisarmTimer, EffectCommit}
		case EventCancel:
			return PhaseIdle, []Effect{EffectDisarmTimer, EffectDiscard}
		}
	case PhaseCommitting:
		switch e {
		case EventCommitted:
			return PhaseIdle, nil
		}
	}
	return p, nil
}
