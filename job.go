// Copyright (c) 2019,CAO HONGJU. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package rtsim

// Policy selects the priority rule a ReadyQueue orders its jobs by.
type Policy int

const (
	// RM is fixed-priority Rate Monotonic: shorter period, higher priority.
	RM Policy = iota
	// EDF is dynamic-priority Earliest Deadline First: earlier absolute
	// deadline, higher priority.
	EDF
)

// String renders the Policy the way it is spelled in the input file format.
func (p Policy) String() string {
	switch p {
	case RM:
		return "RM"
	case EDF:
		return "EDF"
	default:
		return "UNKNOWN"
	}
}

// Job is a single invocation of a Task: it carries the remaining execution
// budget and the absolute deadline the Simulator tests against, plus the
// fields snapshotted from Task at release time so a Job survives its Task's
// own counters moving on.
type Job struct {
	task *Task

	Name     int
	Offset   float64
	WCET     float64
	Period   float64
	Deadline float64

	AbsoluteDeadline float64
	RemainingTime    float64
	TimeTilDeadline  float64
}

func newJob(task *Task, absoluteDeadline, timeTilDeadline float64) *Job {
	return &Job{
		task:             task,
		Name:             task.Name,
		Offset:           task.Offset,
		WCET:             task.WCET,
		Period:           task.Period,
		Deadline:         task.Deadline,
		AbsoluteDeadline: absoluteDeadline,
		RemainingTime:    task.WCET,
		TimeTilDeadline:  timeTilDeadline,
	}
}

// Task returns the back-reference to the Job's originating Task.
func (j *Job) Task() *Task { return j.task }

// Finished reports whether the job has exhausted its execution budget.
func (j *Job) Finished() bool { return j.RemainingTime <= 0 }

// Idle reports whether this is the perpetual idle-job sentinel.
func (j *Job) Idle() bool { return j.Name == IDLE }

// InitOverhead returns the initialization overhead of the job's task.
func (j *Job) InitOverhead() float64 { return j.task.InitOverhead }

func (j *Job) decrementTimeTilDeadline(d float64) {
	j.TimeTilDeadline -= d
}

// less orders two jobs under the given policy. It is the single place the
// active scheduling policy enters a comparison: callers (ReadyQueue) thread
// Policy explicitly instead of reading a package-level mutable selector.
func less(policy Policy, a, b *Job) bool {
	switch policy {
	case EDF:
		if a.Idle() {
			return false
		}
		if b.Idle() {
			return true
		}
		return a.AbsoluteDeadline < b.AbsoluteDeadline
	default: // RM
		if a.Period == b.Period {
			if a.Name == b.Name {
				return a.AbsoluteDeadline < b.AbsoluteDeadline
			}
			// Reference behavior: higher-numbered task name wins the tie.
			// This contradicts the usual "lower number = higher priority"
			// RM convention; kept as specified (see DESIGN.md).
			return a.Name > b.Name
		}
		return a.Period < b.Period
	}
}
