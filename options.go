// Copyright (c) 2019,CAO HONGJU. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package rtsim

import "go.uber.org/zap"

// An Option configures a Simulator at construction time.
type Option interface {
	apply(*Simulator)
}

// optionFunc wraps a func so it satisfies the Option interface.
type optionFunc func(*Simulator)

func (f optionFunc) apply(s *Simulator) {
	f(s)
}

// WithLogger configures the structured logger the Simulator uses for
// diagnostics (the negative tick budget invariant violation, missed
// deadlines).
// The logger never participates in the deterministic history trace.
func WithLogger(logger *zap.SugaredLogger) Option {
	return optionFunc(func(s *Simulator) {
		if logger == nil {
			return
		}
		s.log = logger
	})
}

// WithRunID tags the Simulator's log lines with an external correlation ID
// (typically a UUID minted by the CLI for a single invocation).
func WithRunID(runID string) Option {
	return optionFunc(func(s *Simulator) {
		s.runID = runID
	})
}
