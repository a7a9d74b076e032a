// Copyright (c) 2019,CAO HONGJU. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package rtsim

import "container/heap"

// ReadyQueue is a min-priority multiset of Jobs ordered by a Policy fixed
// at construction time. The idle-job sentinel is inserted once and kept
// inside the queue for the lifetime of the Simulator; Peek is what lets the
// caller observe it without popping it.
type ReadyQueue struct {
	jobs jobHeap
}

// NewReadyQueue builds an empty ReadyQueue ordered under policy.
func NewReadyQueue(policy Policy) *ReadyQueue {
	q := &ReadyQueue{jobs: jobHeap{policy: policy}}
	heap.Init(&q.jobs)
	return q
}

// Len reports the number of jobs currently queued.
func (q *ReadyQueue) Len() int { return q.jobs.Len() }

// Insert adds job to the queue.
func (q *ReadyQueue) Insert(job *Job) {
	heap.Push(&q.jobs, job)
}

// Peek returns the highest-priority job without removing it. It panics if
// the queue is empty, since the idle sentinel is expected to always be
// present for the lifetime of a Simulator.
func (q *ReadyQueue) Peek() *Job {
	if len(q.jobs.items) == 0 {
		panic(ErrEmptyReadyQueue)
	}
	return q.jobs.items[0]
}

// Pop removes and returns the highest-priority job.
func (q *ReadyQueue) Pop() *Job {
	return heap.Pop(&q.jobs).(*Job)
}

// jobHeap implements heap.Interface over a slice of Jobs, ordered by the
// enclosing ReadyQueue's policy.
type jobHeap struct {
	policy Policy
	items  []*Job
}

func (h jobHeap) Len() int { return len(h.items) }

func (h jobHeap) Less(i, j int) bool {
	return less(h.policy, h.items[i], h.items[j])
}

func (h jobHeap) Swap(i, j int) {
	h.items[i], h.items[j] = h.items[j], h.items[i]
}

func (h *jobHeap) Push(x interface{}) {
	h.items = append(h.items, x.(*Job))
}

func (h *jobHeap) Pop() interface{} {
	old := h.items
	n := len(old)
	job := old[n-1]
	old[n-1] = nil
	h.items = old[:n-1]
	return job
}
