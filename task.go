// Copyright (c) 2019,CAO HONGJU. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package rtsim

import "math"

// Reserved task names. IDLE is the always-available background task; TICK
// tags history entries for overheads charged outside any task's own budget.
const (
	IDLE = -1
	TICK = -2
)

// Task is the static, per-workload descriptor of a periodic real-time task.
// Its identity fields never change after construction; the remaining fields
// are mutated by the Simulator as jobs are released and executed.
type Task struct {
	Name         int
	Offset       float64
	WCET         float64
	Period       float64
	Deadline     float64
	InitOverhead float64

	remainingInitTime  float64
	cumulativeCPUTime  float64
	timeSinceLastQuest float64
	jobCounter         int
}

// NewTask builds a Task descriptor. Deadline must not exceed Period
// (constrained-deadline model); callers are expected to validate this
// before constructing a TaskSet, since it is a configuration error rather
// than a runtime invariant.
func NewTask(name int, offset, wcet, period, deadline, initOverhead float64) *Task {
	return &Task{
		Name:              name,
		Offset:            offset,
		WCET:              wcet,
		Period:            period,
		Deadline:          deadline,
		InitOverhead:      initOverhead,
		remainingInitTime: initOverhead,
	}
}

// newIdleTask builds the perpetual idle-job sentinel: infinite budget,
// infinite period, infinite deadline, so it is always ready and never
// completes or misses a deadline.
func newIdleTask() *Task {
	return NewTask(IDLE, 0, math.Inf(1), math.Inf(1), math.Inf(1), 0)
}

// NewJob creates a new job for this task at currentTime, incrementing the
// task's internal release counter. The absolute deadline is computed from
// the counter value *before* the increment, matching the release-then-count
// semantics of the reference scheduler.
func (t *Task) NewJob(currentTime float64) *Job {
	absoluteDeadline := t.Offset + float64(t.jobCounter)*t.Period + t.Deadline
	timeTilDeadline := absoluteDeadline - currentTime
	t.jobCounter++
	return newJob(t, absoluteDeadline, timeTilDeadline)
}

// CumulativeCPUTime reports the total CPU time charged to this task's jobs
// since the task's timer last fired.
func (t *Task) CumulativeCPUTime() float64 { return t.cumulativeCPUTime }

// TimeSinceLastQuest reports simulated time elapsed since this task's timer
// last fired, used to build steady-state snapshots.
func (t *Task) TimeSinceLastQuest() float64 { return t.timeSinceLastQuest }
