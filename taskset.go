// Copyright (c) 2019,CAO HONGJU. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package rtsim

import "math"

// TaskSet owns a slice of Tasks and exposes the quantities derived from it:
// hyperperiod, maximum offset, and a feasibility-interval hint used only by
// rendering, never by the engine's own steady-state stopping condition.
type TaskSet struct {
	tasks []*Task
}

// NewTaskSet builds a TaskSet from tasks. It does not validate the tasks'
// offsets, periods or deadlines, and neither does the config package's
// parser.
func NewTaskSet(tasks []*Task) *TaskSet {
	ts := &TaskSet{tasks: make([]*Task, len(tasks))}
	copy(ts.tasks, tasks)
	return ts
}

// Tasks returns the task set's tasks.
func (ts *TaskSet) Tasks() []*Task { return ts.tasks }

// AddTask appends task to the set.
func (ts *TaskSet) AddTask(task *Task) {
	ts.tasks = append(ts.tasks, task)
}

// MaxOffset returns the maximum integer-truncated offset across all tasks.
func (ts *TaskSet) MaxOffset() int {
	max := 0
	for _, t := range ts.tasks {
		if o := int(t.Offset); o > max {
			max = o
		}
	}
	return max
}

// Hyperperiod returns the least common multiple of all integer-truncated
// task periods.
func (ts *TaskSet) Hyperperiod() int {
	lcm := 1
	for _, t := range ts.tasks {
		p := int(t.Period)
		if p <= 0 {
			continue
		}
		lcm = lcm * p / gcd(lcm, p)
	}
	return lcm
}

// FeasibilityIntervalHint returns max_offset + 2*hyperperiod, a bound used
// only for rendering extents (spec.md §6.4), never by the simulator's own
// steady-state detection.
func (ts *TaskSet) FeasibilityIntervalHint() int {
	return ts.MaxOffset() + 2*ts.Hyperperiod()
}

func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	if a == 0 {
		return 1
	}
	return int(math.Abs(float64(a)))
}
