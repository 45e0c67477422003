// Copyright © 2026 the AUSAXS authors.
// This file is part of AUSAXS.
//
// AUSAXS is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

package ausaxs

import (
	"errors"
	"testing"
)

func TestErrorMessagesIncludeContext(t *testing.T) {
	e := &InputError{Op: "Atom.Validate", Value: 3.5, Msg: "NaN coordinate"}
	if got := e.Error(); got == "" {
		t.Fatalf("InputError.Error() is empty")
	}

	c := &ConfigError{Field: "q_min", Value: 2.0, Msg: "out of range"}
	if got := c.Error(); got == "" {
		t.Fatalf("ConfigError.Error() is empty")
	}

	n := &NumericalError{Op: "SmartFitter.Fit", Msg: "singular system"}
	if got := n.Error(); got == "" {
		t.Fatalf("NumericalError.Error() is empty")
	}

	s := &StateError{Op: "StateManager", Msg: "handle detached"}
	if got := s.Error(); got == "" {
		t.Fatalf("StateError.Error() is empty")
	}
}

func TestIOErrorUnwrap(t *testing.T) {
	inner := errors.New("disk full")
	e := &IOError{Path: "/tmp/x.ausx", Err: inner}
	if !errors.Is(e, inner) {
		t.Fatalf("errors.Is should find the wrapped inner error")
	}
	if errors.Unwrap(e) != inner {
		t.Fatalf("Unwrap() should return the inner error")
	}
}
