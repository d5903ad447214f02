package ioformat

import (
	"bufio"
	"fmt"
	"io"
)

// DisplayMode selects what a STEP block's body carries: every rat's
// current position, or every node's current rat count.
type DisplayMode int

const (
	DisplayRatPositions DisplayMode = iota
	DisplayNodeCounts
)

// StepWriter emits the §6 step stream to an io.Writer (stdout in
// production). It carries zone 0's stream during a simulation run;
// cmd/ratsim's fatal-error path writes its DONE line to stdout directly.
type StepWriter struct {
	w    *bufio.Writer
	mode DisplayMode
}

// NewStepWriter wraps w, buffering writes and flushing after every emitted
// block so a crash mid-run still leaves a readable partial stream.
func NewStepWriter(w io.Writer, mode DisplayMode) *StepWriter {
	return &StepWriter{w: bufio.NewWriter(w), mode: mode}
}

// WriteStep emits one "STEP W H R" block. ratPositions is used when mode is
// DisplayRatPositions (length R); nodeCounts is used when mode is
// DisplayNodeCounts (length W*H). The unused slice is ignored.
func (s *StepWriter) WriteStep(width, height, ratCount int, ratPositions, nodeCounts []int) error {
	if _, err := fmt.Fprintf(s.w, "STEP %d %d %d\n", width, height, ratCount); err != nil {
		return err
	}
	body := ratPositions
	if s.mode == DisplayNodeCounts {
		body = nodeCounts
	}
	for _, v := range body {
		if _, err := fmt.Fprintf(s.w, "%d\n", v); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(s.w, "END"); err != nil {
		return err
	}
	return s.w.Flush()
}

// WriteDone emits the terminal "DONE" line that ends a successful run (§7).
// It is not called on failure; cmd/ratsim then writes DONE itself.
func (s *StepWriter) WriteDone() error {
	if _, err := fmt.Fprintln(s.w, "DONE"); err != nil {
		return err
	}
	return s.w.Flush()
}
