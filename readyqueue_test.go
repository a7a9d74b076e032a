// Copyright (c) 2019,CAO HONGJU. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package rtsim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadyQueue_RM_Ordering(t *testing.T) {
	q := NewReadyQueue(RM)

	q.Insert(NewTask(1, 0, 1, 10, 10, 0).NewJob(0))
	q.Insert(NewTask(2, 0, 1, 2, 2, 0).NewJob(0))
	q.Insert(NewTask(3, 0, 1, 5, 5, 0).NewJob(0))
	q.Insert(newIdleTask().NewJob(0))

	require.Equal(t, 4, q.Len())

	got := q.Pop()
	assert.Equal(t, 2, got.Name, "shortest period pops first under RM")

	got = q.Pop()
	assert.Equal(t, 3, got.Name)

	got = q.Pop()
	assert.Equal(t, 1, got.Name)

	assert.True(t, q.Peek().Idle(), "idle sentinel is last and never popped by a real job")
}

func TestReadyQueue_Peek_DoesNotRemove(t *testing.T) {
	q := NewReadyQueue(EDF)
	q.Insert(newIdleTask().NewJob(0))

	before := q.Len()
	head := q.Peek()
	assert.True(t, head.Idle())
	assert.Equal(t, before, q.Len(), "peek must not remove the idle sentinel")
}

func TestReadyQueue_Peek_EmptyPanics(t *testing.T) {
	q := NewReadyQueue(RM)
	assert.Panics(t, func() { q.Peek() })
}
