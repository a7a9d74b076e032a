// Copyright (c) 2019,CAO HONGJU. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package rtsim

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTask_NewJob(t *testing.T) {
	task := NewTask(1, 0, 1, 5, 5, 0)

	j1 := task.NewJob(0)
	assert.Equal(t, 5.0, j1.AbsoluteDeadline)
	assert.Equal(t, 1.0, j1.WCET)

	j2 := task.NewJob(5)
	assert.Equal(t, 10.0, j2.AbsoluteDeadline, "second job counts from the prior job_counter value")
}

func TestJob_Less_RM(t *testing.T) {
	t.Run("shorter period wins", func(t *testing.T) {
		short := NewTask(1, 0, 1, 2, 2, 0).NewJob(0)
		long := NewTask(2, 0, 1, 4, 4, 0).NewJob(0)
		assert.True(t, less(RM, short, long))
		assert.False(t, less(RM, long, short))
	})

	t.Run("equal periods tie-break on name descending", func(t *testing.T) {
		a := NewTask(1, 0, 1, 4, 4, 0).NewJob(0)
		b := NewTask(2, 0, 1, 4, 4, 0).NewJob(0)
		assert.True(t, less(RM, b, a), "higher-numbered name sorts first, per the reference tie-break")
		assert.False(t, less(RM, a, b))
	})

	t.Run("idle sinks to the bottom", func(t *testing.T) {
		real := NewTask(1, 0, 1, 2, 2, 0).NewJob(0)
		idle := newIdleTask().NewJob(0)
		assert.True(t, less(RM, real, idle))
		assert.False(t, less(RM, idle, real))
	})
}

func TestJob_Less_EDF(t *testing.T) {
	t.Run("earlier deadline wins", func(t *testing.T) {
		early := NewTask(1, 0, 1, 4, 2, 0).NewJob(0)
		late := NewTask(2, 0, 1, 4, 4, 0).NewJob(0)
		assert.True(t, less(EDF, early, late))
		assert.False(t, less(EDF, late, early))
	})

	t.Run("idle sinks to the bottom", func(t *testing.T) {
		real := NewTask(1, 0, 1, 4, 4, 0).NewJob(0)
		idle := newIdleTask().NewJob(0)
		assert.True(t, less(EDF, real, idle))
		assert.False(t, less(EDF, idle, real))
	})
}

func TestPolicy_String(t *testing.T) {
	assert.Equal(t, "RM", RM.String())
	assert.Equal(t, "EDF", EDF.String())
}
