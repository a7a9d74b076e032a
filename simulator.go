// Copyright (c) 2019,CAO HONGJU. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package rtsim

import (
	"context"

	"go.uber.org/zap"
)

// SimResult is the outcome of a single simulation run: whether a deadline
// was missed, and if so at what absolute deadline instant.
type SimResult struct {
	Missed   bool
	MissTime float64
}

// Simulator is the tick-driven discrete-event scheduler loop (spec.md §4.5).
// It is strictly single-threaded: a Simulator must not be shared across
// goroutines while a Run/RunFor call is in flight.
type Simulator struct {
	taskSet    *TaskSet
	tasks      []*Task
	policy     Policy
	overheads  Overheads
	readyQueue *ReadyQueue
	timers     []*TimerControlBlock

	currentTime            float64
	timeBeforeTick         float64
	currentJob             *Job
	lastInterruptedJob     *Job
	history                []HistoryEntry
	hasMissedDeadline      bool
	deadlineMissTime       float64
	contextSwitchFlag      bool
	cumulativeOverheadTime float64
	tasksState             map[int][2]float64

	log   *zap.SugaredLogger
	runID string
}

// New builds a Simulator for taskSet under policy, with the given overhead
// catalogue. TCBs are created for every task, initial jobs are released for
// every task with a zero offset, and the idle sentinel is inserted into the
// ready queue.
func New(taskSet *TaskSet, policy Policy, overheads Overheads, opts ...Option) *Simulator {
	s := &Simulator{
		taskSet:        taskSet,
		tasks:          taskSet.Tasks(),
		policy:         policy,
		overheads:      overheads,
		readyQueue:     NewReadyQueue(policy),
		timeBeforeTick: overheads.TickRate,
		tasksState:     make(map[int][2]float64),
		log:            zap.NewNop().Sugar(),
	}

	for _, option := range opts {
		option.apply(s)
	}

	for _, task := range s.tasks {
		s.timers = append(s.timers, NewTimerControlBlock(task))
		if task.Offset == 0 {
			s.readyQueue.Insert(task.NewJob(s.currentTime))
		}
	}

	idle := newIdleTask()
	s.readyQueue.Insert(idle.NewJob(s.currentTime))

	return s
}

// History returns the simulation's append-only trace.
func (s *Simulator) History() []HistoryEntry { return s.history }

// RunFor runs the simulation up to totalTime of simulated time, or until a
// deadline is missed, whichever comes first (spec.md §4.5.2, bounded mode).
func (s *Simulator) RunFor(ctx context.Context, totalTime float64) SimResult {
	s.dispatch()

	for s.currentTime < totalTime && !s.hasMissedDeadline {
		if ctx.Err() != nil {
			break
		}
		s.step()
	}

	return SimResult{Missed: s.hasMissedDeadline, MissTime: s.deadlineMissTime}
}

// Run searches for a finite feasibility interval: it simulates until the
// per-hyperperiod system-state snapshot repeats, or a deadline is missed
// (spec.md §4.5.2, open-ended mode). It returns the result alongside the
// simulated time at which the proven feasibility interval ends.
func (s *Simulator) Run(ctx context.Context) (SimResult, float64) {
	s.dispatch()

	k := 0
	h := float64(s.taskSet.Hyperperiod())
	var previousState systemState
	havePreviousState := false
	previousStateTime := 0.0

	for !s.hasMissedDeadline {
		if ctx.Err() != nil {
			break
		}

		if s.currentTime > 0 && h > 0 && mod(s.currentTime, h+float64(k)*h) == 0 {
			current := s.snapshotState()
			if havePreviousState && previousState.equal(current) {
				break
			}
			previousState = current
			havePreviousState = true
			previousStateTime = s.currentTime
			s.cumulativeOverheadTime = 0
			k++
		}

		s.step()
	}

	return SimResult{Missed: s.hasMissedDeadline, MissTime: s.deadlineMissTime}, previousStateTime
}

func (s *Simulator) step() {
	if s.timeBeforeTick > 0 {
		s.executeJob()
	} else {
		s.tick()
	}
}

func mod(a, b float64) float64 {
	if b == 0 {
		return a
	}
	r := a - float64(int(a/b))*b
	return r
}

// dispatch sets currentJob to the head of the ready queue. The idle
// sentinel is peeked in place, never popped (spec.md §4.5.3).
func (s *Simulator) dispatch() {
	head := s.readyQueue.Peek()
	if head.Idle() {
		s.currentJob = head
		return
	}
	s.currentJob = s.readyQueue.Pop()
}

// executeJob charges CPU time to the current job for up to the remainder
// of this tick, handling the initialization slice before the ordinary
// slice, and dispatching a new job if the current one just finished
// (spec.md §4.5.4).
func (s *Simulator) executeJob() {
	s.lastInterruptedJob = s.currentJob

	if s.currentJob.task.remainingInitTime > 0 {
		s.executeJobTilTick(true)
		if s.timeBeforeTick <= 0 {
			return
		}
	}

	s.executeJobTilTick(false)

	if s.currentJob.Finished() {
		if s.isCtxFlagNeeded() {
			s.contextSwitchFlag = true
		}
		s.addEndTaskOverhead()
		s.dispatch()
	}
}

func (s *Simulator) executeJobTilTick(initPhase bool) {
	var usedCPUTime float64

	if initPhase {
		usedCPUTime = min(s.timeBeforeTick, s.currentJob.task.remainingInitTime)
		s.timeBeforeTick = max(0, s.timeBeforeTick-s.currentJob.task.remainingInitTime)
		s.cumulativeOverheadTime += usedCPUTime
		s.currentJob.task.remainingInitTime -= usedCPUTime
		s.appendHistory(s.currentJob.Name, usedCPUTime, InitOverhead, "")
	} else {
		usedCPUTime = min(s.timeBeforeTick, s.currentJob.RemainingTime)
		s.timeBeforeTick = max(0, s.timeBeforeTick-s.currentJob.RemainingTime)
		s.currentJob.RemainingTime -= usedCPUTime
		s.appendHistory(s.currentJob.Name, usedCPUTime, Task_, "")
	}

	s.currentJob.task.cumulativeCPUTime += usedCPUTime
	s.decrementTimeTilDeadlines(usedCPUTime)
}

// tick advances simulated time by one tick, releases newly-ready jobs,
// evaluates preemption, and charges tick-boundary overheads, in the order
// spec.md §4.5.5 requires.
func (s *Simulator) tick() {
	s.currentTime += s.overheads.TickRate
	s.timeBeforeTick = s.overheads.TickRate

	s.saveTasksState()
	s.resetCtxFlag()

	someTaskAwoken := s.decrementTimers()

	if s.isPreemptionRequired(someTaskAwoken) {
		s.handlePreemption()
		s.addPreemptionOverhead()
	} else {
		s.addGetHPTOverhead()
	}

	if !s.currentJob.Idle() {
		s.addTickOverhead(s.overheads.Load, "LOAD")
	}
	s.addTickOverhead(s.overheads.Resume, "RESUME")

	if s.timeBeforeTick < -budgetEpsilon {
		s.log.Errorw("time before tick went negative", "run_id", s.runID, "time_before_tick", s.timeBeforeTick)
		panic(ErrNegativeTickBudget)
	}
}

// budgetEpsilon tolerates the floating-point slop of repeated subtraction;
// anything beyond it indicates a bookkeeping bug in overhead accounting
// rather than an expected rounding artifact.
const budgetEpsilon = 1e-9

func (s *Simulator) addGetHPTOverhead() {
	// GET_HPT is owed when the interrupted job had already finished: the
	// tick interrupted the end-of-job overhead sequence before it could
	// charge its own GET_HPT step.
	if s.hasInterruptedJobFinished() {
		s.addPreemptionOverheadCharge(s.overheads.GetHPT, "GET HPT")
	}

	if s.currentJob.Idle() {
		s.dispatch()
	}
}

func (s *Simulator) hasInterruptedJobFinished() bool {
	return s.lastInterruptedJob != nil && s.lastInterruptedJob.RemainingTime == 0
}

func (s *Simulator) isPreemptionRequired(someTaskAwoken bool) bool {
	if s.lastInterruptedJob == nil {
		return false
	}
	awokenHigherPriority := less(s.policy, s.readyQueue.Peek(), s.lastInterruptedJob)
	return someTaskAwoken && awokenHigherPriority
}

func (s *Simulator) handlePreemption() {
	if !s.currentJob.Idle() {
		s.readyQueue.Insert(s.currentJob)
	}
	s.dispatch()
}

func (s *Simulator) addPreemptionOverhead() {
	overhead := s.overheads.GetHPT
	if !s.hasInterruptedJobFinished() && !s.lastInterruptedJob.Idle() {
		s.appendHistory(TICK, s.overheads.AddReady, PreemptionOverhead, "ADD READY")
		overhead += s.overheads.AddReady
	}
	s.appendHistory(TICK, s.overheads.GetHPT, PreemptionOverhead, "GET HPT")
	s.timeBeforeTick -= overhead
	s.cumulativeOverheadTime += overhead
	s.decrementTimeTilDeadlines(overhead)
}

func (s *Simulator) addPreemptionOverheadCharge(overhead float64, label string) {
	s.appendHistory(TICK, overhead, PreemptionOverhead, label)
	s.timeBeforeTick -= overhead
	s.cumulativeOverheadTime += overhead
	s.decrementTimeTilDeadlines(overhead)
}

// addEndTaskOverhead charges the strictly-ordered SAVE -> GET_HPT -> LOAD
// end-of-job sequence against whatever remains of the current tick,
// truncating the sequence as soon as the remaining budget runs out
// (spec.md §4.5.6).
func (s *Simulator) addEndTaskOverhead() {
	timeLeft := s.timeBeforeTick
	var charged float64

	if s.overheads.Save <= timeLeft {
		s.appendHistory(s.currentJob.Name, s.overheads.Save, EndJobOverhead, "SAVE")
		timeLeft -= s.overheads.Save
		charged += s.overheads.Save

		if s.overheads.GetHPT <= timeLeft {
			s.appendHistory(s.currentJob.Name, s.overheads.GetHPT, EndJobOverhead, "GET_HPT")
			timeLeft -= s.overheads.GetHPT
			charged += s.overheads.GetHPT

			if !s.readyQueue.Peek().Idle() {
				if s.overheads.Load <= timeLeft {
					s.appendHistory(s.currentJob.Name, s.overheads.Load, EndJobOverhead, "LOAD")
					charged += s.overheads.Load
				} else {
					s.appendHistory(s.currentJob.Name, timeLeft, EndJobOverhead, "LOAD")
					charged += timeLeft
				}
			}
		} else {
			s.appendHistory(s.currentJob.Name, timeLeft, EndJobOverhead, "GET_HPT")
			charged += timeLeft
		}
	} else {
		s.appendHistory(s.currentJob.Name, timeLeft, EndJobOverhead, "SAVE")
		charged += timeLeft
	}

	s.timeBeforeTick -= charged
	s.cumulativeOverheadTime += charged
	s.decrementTimeTilDeadlines(charged)
}

func (s *Simulator) addTickOverhead(overhead float64, label string) {
	s.appendHistory(TICK, overhead, TickOverhead, label)
	s.timeBeforeTick -= overhead
	s.cumulativeOverheadTime += overhead
	s.decrementTimeTilDeadlines(overhead)
}

func (s *Simulator) isCtxFlagNeeded() bool {
	o := s.overheads
	return o.Save <= s.timeBeforeTick &&
		o.GetHPT+o.Load > s.timeBeforeTick-o.Save
}

func (s *Simulator) resetCtxFlag() {
	if !s.contextSwitchFlag && s.lastInterruptedJob != nil && !s.lastInterruptedJob.Idle() {
		s.addTickOverhead(s.overheads.Save, "SAVE")
	} else {
		s.contextSwitchFlag = false
	}
}

func (s *Simulator) decrementTimers() bool {
	someTaskAwoken := false
	chargedDecrement := false

	for _, tcb := range s.timers {
		taskAwoken := false
		if tcb.Decrement(s.overheads.TickRate) {
			s.readyQueue.Insert(tcb.Task().NewJob(s.currentTime))
			someTaskAwoken = true
			taskAwoken = true
		}

		if !chargedDecrement {
			s.addTickOverhead(s.overheads.DecrementTimer, "DECREMENT TIMER")
			chargedDecrement = true
		}

		if taskAwoken {
			s.addTickOverhead(s.overheads.RestartTimer, "RESTART TIMER")
			s.addTickOverhead(s.overheads.AddReady, "ADD READY")
		}
	}

	return someTaskAwoken
}

// decrementTimeTilDeadlines charges duration against every live job's
// time-til-deadline bookkeeping, then runs the ahead-looking deadline-miss
// predicate of spec.md §4.5.7 against each of them. The idle sentinel is
// always exempt.
func (s *Simulator) decrementTimeTilDeadlines(duration float64) {
	if s.hasMissedDeadline {
		return
	}

	live := make([]*Job, 0, s.readyQueue.Len()+1)
	live = append(live, s.readyQueue.jobs.items...)
	live = append(live, s.currentJob)

	for _, job := range live {
		if job.Idle() {
			continue
		}
		job.decrementTimeTilDeadline(duration)

		slack := job.AbsoluteDeadline - s.currentTime - (s.overheads.TickRate - s.timeBeforeTick)
		if slack < job.RemainingTime {
			s.hasMissedDeadline = true
			s.deadlineMissTime = job.AbsoluteDeadline
			s.history = append(s.history, HistoryEntry{
				TaskName:  job.Name,
				UsedTime:  2, // matches the reference trace's literal marker value
				Type:      MissedDeadline,
				MissedAbs: job.AbsoluteDeadline,
			})
			s.log.Debugw("deadline missed", "run_id", s.runID, "task", job.Name, "absolute_deadline", job.AbsoluteDeadline)
			return
		}
	}
}

func (s *Simulator) saveTasksState() {
	for _, t := range s.tasks {
		s.tasksState[t.Name] = [2]float64{t.TimeSinceLastQuest(), t.CumulativeCPUTime()}
	}
}

type systemState struct {
	overhead float64
	perTask  map[int][2]float64
}

func (s *Simulator) snapshotState() systemState {
	snap := make(map[int][2]float64, len(s.tasksState))
	for k, v := range s.tasksState {
		snap[k] = v
	}
	return systemState{overhead: s.cumulativeOverheadTime, perTask: snap}
}

func (a systemState) equal(b systemState) bool {
	if a.overhead != b.overhead || len(a.perTask) != len(b.perTask) {
		return false
	}
	for k, v := range a.perTask {
		bv, ok := b.perTask[k]
		if !ok || v != bv {
			return false
		}
	}
	return true
}

func (s *Simulator) appendHistory(taskName int, usedTime float64, execType ExecutionType, label string) {
	// Once a deadline is missed the trace ends with its MissedDeadline entry.
	if s.hasMissedDeadline {
		return
	}
	s.history = append(s.history, HistoryEntry{
		TaskName: taskName,
		UsedTime: usedTime,
		Type:     execType,
		Label:    label,
	})
}
