package config

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cnotch/rtsim"
)

const validInput = `Task set
0 1 3 3 0
0 1 2 2 0

Algorithm
RM

System overheads
Tick_rate = 1
Save = 0.1
Load = 0.1
Decrement_timer = 0
Restart_timer = 0
Resume = 0
Add_ready = 0
Get_hpt = 0.1
`

func TestParse_Valid(t *testing.T) {
	taskSet, policy, overheads, err := Parse("valid.txt", strings.NewReader(validInput))
	require.NoError(t, err)

	require.Len(t, taskSet.Tasks(), 2)
	// first-listed task gets the highest name.
	assert.Equal(t, 2, taskSet.Tasks()[0].Name)
	assert.Equal(t, 1, taskSet.Tasks()[1].Name)

	assert.Equal(t, rtsim.RM, policy)
	assert.Equal(t, 1.0, overheads.TickRate)
	assert.Equal(t, 0.1, overheads.Save)
	assert.Equal(t, 0.1, overheads.GetHPT)
}

func TestParse_MissingTaskSetHeader(t *testing.T) {
	input := "Nonsense\n0 1 2 2 0\n"
	_, _, _, err := Parse("bad.txt", strings.NewReader(input))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Task set")
}

func TestParse_MissingAlgorithmHeader(t *testing.T) {
	input := "Task set\n0 1 2 2 0\n\nNot Algorithm\nRM\n\nSystem overheads\nTick_rate = 1\n"
	_, _, _, err := Parse("bad.txt", strings.NewReader(input))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Algorithm")
}

func TestParse_UnknownAlgorithm(t *testing.T) {
	input := "Task set\n0 1 2 2 0\n\nAlgorithm\nFIFO\n\nSystem overheads\nTick_rate = 1\n"
	_, _, _, err := Parse("bad.txt", strings.NewReader(input))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown scheduling algorithm")
}

func TestParse_MalformedNumericField(t *testing.T) {
	input := "Task set\n0 x 2 2 0\n\nAlgorithm\nRM\n\nSystem overheads\nTick_rate = 1\n"
	_, _, _, err := Parse("bad.txt", strings.NewReader(input))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "malformed numeric field")
}

func TestParse_WrongFieldCount(t *testing.T) {
	input := "Task set\n0 1 2 2\n\nAlgorithm\nRM\n\nSystem overheads\nTick_rate = 1\n"
	_, _, _, err := Parse("bad.txt", strings.NewReader(input))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected 5 fields")
}

func TestParse_UnknownOverheadKey(t *testing.T) {
	input := "Task set\n0 1 2 2 0\n\nAlgorithm\nRM\n\nSystem overheads\nFoo = 1\n"
	_, _, _, err := Parse("bad.txt", strings.NewReader(input))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown overhead key")
}

func TestParse_MalformedOverheadLine(t *testing.T) {
	input := "Task set\n0 1 2 2 0\n\nAlgorithm\nRM\n\nSystem overheads\nTick_rate 1\n"
	_, _, _, err := Parse("bad.txt", strings.NewReader(input))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected 'Key = value'")
}

func TestParseFile_MissingFile(t *testing.T) {
	_, _, _, err := ParseFile("/nonexistent/path/does-not-exist.txt")
	require.Error(t, err)
}
