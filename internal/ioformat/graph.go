// Package ioformat implements the external file formats of §6: the graph
// file, the rat file, and the stdout step stream. None of this is part of
// the simulation core — it is the boundary the core's BuildInput and
// rat-position arrays are read across.
package ioformat

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"ratswarm/internal/simerr"
	"ratswarm/internal/topology"
)

// lineScanner wraps bufio.Scanner with the comment/blank-line skipping
// shared by the graph and rat file formats: a line whose first
// non-whitespace character is '#' is a comment.
type lineScanner struct {
	sc      *bufio.Scanner
	lineNum int
}

func newLineScanner(r io.Reader) *lineScanner {
	return &lineScanner{sc: bufio.NewScanner(r)}
}

// next returns the next non-comment, non-blank line, or ok=false at EOF.
func (s *lineScanner) next() (line string, ok bool) {
	for s.sc.Scan() {
		s.lineNum++
		l := strings.TrimSpace(s.sc.Text())
		if l == "" || strings.HasPrefix(l, "#") {
			continue
		}
		return l, true
	}
	return "", false
}

func (s *lineScanner) fields() ([]string, error) {
	line, ok := s.next()
	if !ok {
		return nil, simerr.New(simerr.CodeMalformedInput, "unexpected end of input")
	}
	return strings.Fields(line), nil
}

func parseInts(fields []string, n int, context string) ([]int, error) {
	if len(fields) < n {
		return nil, simerr.New(simerr.CodeMalformedInput,
			fmt.Sprintf("%s: expected %d fields, got %d", context, n, len(fields)))
	}
	out := make([]int, n)
	for i := 0; i < n; i++ {
		v, err := strconv.Atoi(fields[i])
		if err != nil {
			return nil, simerr.Wrap(simerr.CodeMalformedInput, context+": non-integer field", err)
		}
		out[i] = v
	}
	return out, nil
}

// ReadGraphFile parses the graph file format of §6 into a BuildInput. Node
// load-factor values are read (so the field offset stays correct) and
// discarded — §7 notes they "may be discarded".
func ReadGraphFile(r io.Reader) (*topology.BuildInput, error) {
	ls := newLineScanner(r)

	headerFields, err := ls.fields()
	if err != nil {
		return nil, err
	}
	header, err := parseInts(headerFields, 4, "graph header")
	if err != nil {
		return nil, err
	}
	width, height, edgeCount, regionCount := header[0], header[1], header[2], header[3]
	nodeCount := width * height

	for i := 0; i < nodeCount; i++ {
		if _, err := ls.fields(); err != nil {
			return nil, simerr.Wrap(simerr.CodeMalformedInput, "node declaration line", err)
		}
	}

	edges := make([]topology.EdgeRaw, edgeCount)
	for i := 0; i < edgeCount; i++ {
		fields, err := ls.fields()
		if err != nil {
			return nil, simerr.Wrap(simerr.CodeMalformedInput, "edge line", err)
		}
		if len(fields) < 3 || fields[0] != "e" {
			return nil, simerr.New(simerr.CodeMalformedInput, "edge line must start with 'e'")
		}
		ij, err := parseInts(fields[1:], 2, "edge line")
		if err != nil {
			return nil, err
		}
		edges[i] = topology.EdgeRaw{From: ij[0], To: ij[1]}
	}

	regions := make([]topology.RegionSpec, regionCount)
	for i := 0; i < regionCount; i++ {
		fields, err := ls.fields()
		if err != nil {
			return nil, simerr.Wrap(simerr.CodeMalformedInput, "region line", err)
		}
		if len(fields) < 5 || fields[0] != "r" {
			return nil, simerr.New(simerr.CodeMalformedInput, "region line must start with 'r'")
		}
		xywh, err := parseInts(fields[1:], 4, "region line")
		if err != nil {
			return nil, err
		}
		regions[i] = topology.RegionSpec{X: xywh[0], Y: xywh[1], W: xywh[2], H: xywh[3]}
	}

	return &topology.BuildInput{
		Width:   width,
		Height:  height,
		Edges:   edges,
		Regions: regions,
	}, nil
}

// ReadRatFile parses the rat file format of §6: header "N R" followed by R
// node ids, one per line. nodeCount must equal the graph's node count.
func ReadRatFile(r io.Reader, nodeCount int) ([]int, error) {
	ls := newLineScanner(r)

	headerFields, err := ls.fields()
	if err != nil {
		return nil, err
	}
	header, err := parseInts(headerFields, 2, "rat file header")
	if err != nil {
		return nil, err
	}
	n, ratCount := header[0], header[1]
	if n != nodeCount {
		return nil, simerr.New(simerr.CodeMalformedInput,
			fmt.Sprintf("rat file declares N=%d, graph has %d nodes", n, nodeCount))
	}

	positions := make([]int, ratCount)
	for i := 0; i < ratCount; i++ {
		fields, err := ls.fields()
		if err != nil {
			return nil, simerr.Wrap(simerr.CodeMalformedInput, "rat position line", err)
		}
		v, err := parseInts(fields, 1, "rat position line")
		if err != nil {
			return nil, err
		}
		if v[0] < 0 || v[0] >= nodeCount {
			return nil, simerr.New(simerr.CodeMalformedInput, "rat position out of range")
		}
		positions[i] = v[0]
	}
	return positions, nil
}
