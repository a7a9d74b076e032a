// Copyright (c) 2019,CAO HONGJU. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package rtsim

// Overheads is the catalogue of eight kernel-level timing costs the
// Simulator charges against CPU time. It is passed to New explicitly;
// nothing about it is ever read from a package-level global, so a process
// can safely run many Simulators, concurrently or not, with different
// overhead profiles.
type Overheads struct {
	TickRate       float64
	Save           float64
	Load           float64
	DecrementTimer float64
	RestartTimer   float64
	Resume         float64
	AddReady       float64
	GetHPT         float64
}

// EndTaskOverhead is the total overhead of the SAVE -> GET_HPT -> LOAD
// end-of-job sequence, charged in full when the remaining tick budget
// permits it (spec.md §4.5.6).
func (o Overheads) EndTaskOverhead() float64 {
	return o.Save + o.GetHPT + o.Load
}

// PreemptionOverhead is ADD_READY + GET_HPT, the cost of a preemption
// decided at a tick boundary (spec.md §4.5.5 step 3).
func (o Overheads) PreemptionOverhead() float64 {
	return o.AddReady + o.GetHPT
}
