// Copyright (c) 2019,CAO HONGJU. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package rtsim

// TimerControlBlock is the per-task countdown that releases a new Job
// whenever it reaches the end of its task's period, accounting for an
// initial release offset.
type TimerControlBlock struct {
	task  *Task
	timer float64
}

// NewTimerControlBlock builds a TCB for task. The countdown starts at the
// task's offset if it is positive, otherwise at its period (an offset of
// zero releases the first job immediately, outside the TCB, at Simulator
// construction time).
func NewTimerControlBlock(task *Task) *TimerControlBlock {
	return &TimerControlBlock{
		task:  task,
		timer: initialTimer(task),
	}
}

func initialTimer(task *Task) float64 {
	if task.Offset == 0 {
		return task.Period
	}
	return task.Offset
}

// Task returns the task this TCB releases jobs for.
func (tcb *TimerControlBlock) Task() *Task { return tcb.task }

// Decrement reduces the countdown by tickRate and advances the task's
// time-since-last-release counter. It returns true if the countdown reached
// zero or below, in which case the timer has re-armed to period+timer
// (preserving any negative overshoot, to model release jitter) and the
// task's time-since-last-release and cumulative CPU time counters have been
// reset.
func (tcb *TimerControlBlock) Decrement(tickRate float64) bool {
	tcb.task.timeSinceLastQuest += tickRate
	tcb.timer -= tickRate

	if tcb.timer <= 0 {
		tcb.restart()
		return true
	}
	return false
}

func (tcb *TimerControlBlock) restart() {
	tcb.task.timeSinceLastQuest = 0
	tcb.task.cumulativeCPUTime = 0
	tcb.timer = tcb.task.Period + tcb.timer
	if tcb.timer <= 0 {
		panic(ErrNonPositiveTimerPeriod)
	}
}
