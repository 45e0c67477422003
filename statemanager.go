// Copyright © 2026 the AUSAXS authors.
// This file is part of AUSAXS.
//
// AUSAXS is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

package ausaxs

import "sync"

// BodyFlags is the per-body dirty-tracking state (spec §4.3). A fresh
// body starts clean; write APIs on the body flip the relevant flag
// through a Signaller handle, and reset() clears them after a
// recompute.
type BodyFlags struct {
	ExternallyModified bool // coordinates changed (rigid translation/rotation)
	InternallyModified bool // atoms added/removed
	SymmetryModified   map[int]bool // per-symmetry-index dirty bits
	detached           bool
}

// StateManager owns an indexable arena of BodyFlags and hands out plain
// integer indices as "signaller handles" (spec §9: this replaces the
// original shared_ptr signaller graph with cycles — bodies simply store
// their index, and there is nothing to reference-count).
type StateManager struct {
	mu               sync.RWMutex
	flags            []BodyFlags
	hydrationModified bool
}

// NewStateManager allocates a clean arena for n bodies.
func NewStateManager(n int) *StateManager {
	flags := make([]BodyFlags, n)
	return &StateManager{flags: flags}
}

// NumBodies returns the number of tracked bodies.
func (s *StateManager) NumBodies() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.flags)
}

// Grow appends n freshly clean body slots and returns the handle of the
// first one appended (handles are contiguous).
func (s *StateManager) Grow(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	start := len(s.flags)
	s.flags = append(s.flags, make([]BodyFlags, n)...)
	return start
}

// MarkExternallyModified flags a body's coordinates as changed by a
// rigid transform. Thread-safe against concurrent readers during a
// builder run (spec §5).
func (s *StateManager) MarkExternallyModified(handle int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkHandle(handle); err != nil {
		return err
	}
	s.flags[handle].ExternallyModified = true
	return nil
}

// MarkInternallyModified flags a body as having had atoms added or
// removed.
func (s *StateManager) MarkInternallyModified(handle int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkHandle(handle); err != nil {
		return err
	}
	s.flags[handle].InternallyModified = true
	return nil
}

// MarkSymmetryModified flags a single symmetry copy of a body as
// changed.
func (s *StateManager) MarkSymmetryModified(handle, symIndex int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkHandle(handle); err != nil {
		return err
	}
	if s.flags[handle].SymmetryModified == nil {
		s.flags[handle].SymmetryModified = make(map[int]bool)
	}
	s.flags[handle].SymmetryModified[symIndex] = true
	return nil
}

// MarkHydrationModified flags the global hydration shell as changed.
func (s *StateManager) MarkHydrationModified() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hydrationModified = true
}

// Detach marks a body's signaller handle as detached: further mutation
// through it is a StateError (spec §7).
func (s *StateManager) Detach(handle int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkHandle(handle); err != nil {
		return err
	}
	s.flags[handle].detached = true
	return nil
}

func (s *StateManager) checkHandle(handle int) error {
	if handle < 0 || handle >= len(s.flags) {
		return &StateError{Op: "StateManager", Msg: "signaller handle out of range"}
	}
	if s.flags[handle].detached {
		return &StateError{Op: "StateManager", Msg: "signaller handle has been detached"}
	}
	return nil
}

// Snapshot returns a copy of the current flags, for use by
// calculate_all() to decide what to invalidate, plus whether hydration
// changed.
func (s *StateManager) Snapshot() (flags []BodyFlags, hydrationModified bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]BodyFlags, len(s.flags))
	copy(out, s.flags)
	return out, s.hydrationModified
}

// Reset clears all flags after a successful recompute (spec §4.3
// "calling reset() after a recompute clears all flags").
func (s *StateManager) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.flags {
		s.flags[i] = BodyFlags{}
	}
	s.hydrationModified = false
}
