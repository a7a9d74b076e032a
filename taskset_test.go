// Copyright (c) 2019,CAO HONGJU. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package rtsim

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTaskSet_Hyperperiod(t *testing.T) {
	ts := NewTaskSet([]*Task{
		NewTask(1, 0, 1, 3, 3, 0),
		NewTask(2, 0, 1, 2, 2, 0),
	})
	assert.Equal(t, 6, ts.Hyperperiod())
}

func TestTaskSet_MaxOffset(t *testing.T) {
	ts := NewTaskSet([]*Task{
		NewTask(1, 2, 1, 5, 5, 0),
		NewTask(2, 7, 1, 10, 10, 0),
	})
	assert.Equal(t, 7, ts.MaxOffset())
}

func TestTaskSet_FeasibilityIntervalHint(t *testing.T) {
	ts := NewTaskSet([]*Task{
		NewTask(1, 1, 1, 3, 3, 0),
		NewTask(2, 0, 1, 2, 2, 0),
	})
	assert.Equal(t, 1+2*6, ts.FeasibilityIntervalHint())
}

func TestTaskSet_AddTask(t *testing.T) {
	ts := NewTaskSet(nil)
	assert.Len(t, ts.Tasks(), 0)
	ts.AddTask(NewTask(IDLE, 0, 0, 0, 0, 0))
	assert.Len(t, ts.Tasks(), 1)
}
