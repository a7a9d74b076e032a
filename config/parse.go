// Package config parses the line-delimited task-set/algorithm/overheads
// input file format described in spec.md §6.1 into the core engine's
// domain types. It is a bespoke scanner rather than an off-the-shelf format
// parser: the grammar is custom to this tool and nothing in this repo's
// dependency pack reads it (see DESIGN.md).
package config

import (
	"bufio"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/cnotch/rtsim"
)

const (
	sectionTaskSet   = "Task set"
	sectionAlgorithm = "Algorithm"
	sectionOverheads = "System overheads"
)

// ParseFile opens path and parses it as an rtsim input file.
func ParseFile(path string) (*rtsim.TaskSet, rtsim.Policy, rtsim.Overheads, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, rtsim.Overheads{}, errors.Wrapf(err, "config: opening %s", path)
	}
	defer f.Close()

	return Parse(path, f)
}

// Parse reads an rtsim input file from r. name is used only to annotate
// error messages with a source file name; it need not be a real path.
func Parse(name string, r io.Reader) (*rtsim.TaskSet, rtsim.Policy, rtsim.Overheads, error) {
	lines, err := readLines(r)
	if err != nil {
		return nil, 0, rtsim.Overheads{}, errors.Wrapf(err, "config: reading %s", name)
	}

	sections, err := splitSections(name, lines)
	if err != nil {
		return nil, 0, rtsim.Overheads{}, err
	}

	tasks, err := parseTasks(name, sections.taskSetStart, sections.taskLines)
	if err != nil {
		return nil, 0, rtsim.Overheads{}, err
	}

	policy, err := parsePolicy(name, sections.algorithmLine, sections.algorithmText)
	if err != nil {
		return nil, 0, rtsim.Overheads{}, err
	}

	overheads, err := parseOverheads(name, sections.overheadsStart, sections.overheadLines)
	if err != nil {
		return nil, 0, rtsim.Overheads{}, err
	}

	return rtsim.NewTaskSet(tasks), policy, overheads, nil
}

func readLines(r io.Reader) ([]string, error) {
	var lines []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}

type sections struct {
	taskSetStart   int
	taskLines      []string
	algorithmLine  int
	algorithmText  string
	overheadsStart int
	overheadLines  []string
}

// splitSections walks the three labeled, blank-line-separated sections in
// the order spec.md §6.1 requires, failing fast (with a 1-based line
// number) the moment a header is missing or out of place.
func splitSections(name string, lines []string) (sections, error) {
	var s sections

	idx := 0
	if idx >= len(lines) || lines[idx] != sectionTaskSet {
		return s, errors.Newf("config: %s:%d: expected %q, got %q", name, idx+1, sectionTaskSet, safeLine(lines, idx))
	}
	idx++
	s.taskSetStart = idx + 1

	for idx < len(lines) && lines[idx] != "" {
		s.taskLines = append(s.taskLines, lines[idx])
		idx++
	}
	idx++ // skip blank separator

	if idx >= len(lines) || lines[idx] != sectionAlgorithm {
		return s, errors.Newf("config: %s:%d: expected %q after %s, got %q", name, idx+1, sectionAlgorithm, sectionTaskSet, safeLine(lines, idx))
	}
	idx++
	s.algorithmLine = idx + 1
	if idx >= len(lines) {
		return s, errors.Newf("config: %s:%d: missing algorithm name", name, idx+1)
	}
	s.algorithmText = strings.ToUpper(strings.TrimSpace(lines[idx]))
	idx++
	for idx < len(lines) && lines[idx] == "" {
		idx++
	}

	if idx >= len(lines) || lines[idx] != sectionOverheads {
		return s, errors.Newf("config: %s:%d: expected %q after %s, got %q", name, idx+1, sectionOverheads, sectionAlgorithm, safeLine(lines, idx))
	}
	idx++
	s.overheadsStart = idx + 1
	s.overheadLines = lines[idx:]

	return s, nil
}

func safeLine(lines []string, idx int) string {
	if idx < 0 || idx >= len(lines) {
		return "<eof>"
	}
	return lines[idx]
}

// parseTasks assigns names len(taskLines)-idx (spec.md §6.1: the
// first-listed task gets the highest number).
func parseTasks(name string, startLine int, taskLines []string) ([]*rtsim.Task, error) {
	tasks := make([]*rtsim.Task, 0, len(taskLines))
	n := len(taskLines)

	for idx, line := range taskLines {
		fields := strings.Fields(line)
		if len(fields) != 5 {
			return nil, errors.Newf("config: %s:%d: expected 5 fields (offset WCET period deadline init_overhead), got %d", name, startLine+idx, len(fields))
		}

		values := make([]float64, 5)
		for i, f := range fields {
			v, err := strconv.ParseFloat(f, 64)
			if err != nil {
				return nil, errors.Wrapf(err, "config: %s:%d: malformed numeric field %q", name, startLine+idx, f)
			}
			values[i] = v
		}

		taskName := n - idx
		tasks = append(tasks, rtsim.NewTask(taskName, values[0], values[1], values[2], values[3], values[4]))
	}

	return tasks, nil
}

func parsePolicy(name string, line int, text string) (rtsim.Policy, error) {
	switch text {
	case "RM":
		return rtsim.RM, nil
	case "EDF":
		return rtsim.EDF, nil
	default:
		return 0, errors.Newf("config: %s:%d: unknown scheduling algorithm %q, known are RM, EDF", name, line, text)
	}
}

var overheadKeys = map[string]func(o *rtsim.Overheads, v float64){
	"Tick_rate":       func(o *rtsim.Overheads, v float64) { o.TickRate = v },
	"Save":            func(o *rtsim.Overheads, v float64) { o.Save = v },
	"Load":            func(o *rtsim.Overheads, v float64) { o.Load = v },
	"Decrement_timer": func(o *rtsim.Overheads, v float64) { o.DecrementTimer = v },
	"Restart_timer":   func(o *rtsim.Overheads, v float64) { o.RestartTimer = v },
	"Resume":          func(o *rtsim.Overheads, v float64) { o.Resume = v },
	"Add_ready":       func(o *rtsim.Overheads, v float64) { o.AddReady = v },
	"Get_hpt":         func(o *rtsim.Overheads, v float64) { o.GetHPT = v },
}

func parseOverheads(name string, startLine int, lines []string) (rtsim.Overheads, error) {
	var o rtsim.Overheads

	for idx, line := range lines {
		if line == "" {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			return o, errors.Newf("config: %s:%d: expected 'Key = value', got %q", name, startLine+idx, line)
		}
		key = strings.TrimSpace(key)
		set, known := overheadKeys[key]
		if !known {
			return o, errors.Newf("config: %s:%d: unknown overhead key %q", name, startLine+idx, key)
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return o, errors.Wrapf(err, "config: %s:%d: malformed numeric field for %s", name, startLine+idx, key)
		}
		set(&o, v)
	}

	return o, nil
}
