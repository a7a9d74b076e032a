// Copyright (c) 2019,CAO HONGJU. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package rtsim

import "errors"

// Sentinel errors for internal invariant violations (spec.md §7, taxonomy
// item 3): these are programmer errors, not simulation outcomes. The
// Simulator panics with one of these rather than returning an error, since
// there is no recovery path for a corrupted model state. Style follows
// intuitivelabs/wtimer's flat errors.New sentinel catalogue.
var (
	// ErrEmptyReadyQueue is raised if the ReadyQueue is found empty; the
	// idle sentinel must always occupy it once the Simulator is built.
	ErrEmptyReadyQueue = errors.New("rtsim: ready queue empty, idle sentinel missing")

	// ErrNegativeTickBudget is raised if time_before_tick is driven more
	// than a numeric epsilon below zero, which can only happen from a
	// bookkeeping bug in overhead accounting.
	ErrNegativeTickBudget = errors.New("rtsim: time before tick went negative")

	// ErrNonPositiveTimerPeriod is raised if a TimerControlBlock re-arms to
	// a non-positive period, which would release jobs in an infinite loop.
	ErrNonPositiveTimerPeriod = errors.New("rtsim: timer re-armed to a non-positive period")
)
