package ioformat

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadGraphFileBasic(t *testing.T) {
	src := strings.Join([]string{
		"# a comment line",
		"2 1 2 2",
		"1.0",
		"1.0",
		"e 0 1",
		"e 1 0",
		"r 0 0 1 1",
		"r 1 0 1 1",
	}, "\n")

	in, err := ReadGraphFile(strings.NewReader(src))
	require.NoError(t, err)
	assert.Equal(t, 2, in.Width)
	assert.Equal(t, 1, in.Height)
	require.Len(t, in.Edges, 2)
	assert.Equal(t, 0, in.Edges[0].From)
	assert.Equal(t, 1, in.Edges[0].To)
	require.Len(t, in.Regions, 2)
	assert.Equal(t, 1, in.Regions[1].X)
}

func TestReadGraphFileZeroEdges(t *testing.T) {
	src := "1 1 0 1\n1.0\nr 0 0 1 1\n"
	_, err := ReadGraphFile(strings.NewReader(src))
	require.NoError(t, err) // edgeCount=0, no edge lines read; region line parses fine
}

func TestReadGraphFileTruncated(t *testing.T) {
	src := "2 2 4 1\n1.0\n1.0\n" // missing node lines, edges, regions
	_, err := ReadGraphFile(strings.NewReader(src))
	assert.Error(t, err)
}

func TestReadRatFileBasic(t *testing.T) {
	src := "4 3\n0\n2\n3\n"
	positions, err := ReadRatFile(strings.NewReader(src), 4)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 2, 3}, positions)
}

func TestReadRatFileNodeCountMismatch(t *testing.T) {
	src := "4 1\n0\n"
	_, err := ReadRatFile(strings.NewReader(src), 5)
	assert.Error(t, err)
}

func TestReadRatFileOutOfRangePosition(t *testing.T) {
	src := "2 1\n9\n"
	_, err := ReadRatFile(strings.NewReader(src), 2)
	assert.Error(t, err)
}

func TestStepWriterNodeCounts(t *testing.T) {
	var buf bytes.Buffer
	sw := NewStepWriter(&buf, DisplayNodeCounts)
	require.NoError(t, sw.WriteStep(2, 1, 5, nil, []int{3, 2}))
	require.NoError(t, sw.WriteDone())

	want := "STEP 2 1 5\n3\n2\nEND\nDONE\n"
	assert.Equal(t, want, buf.String())
}

func TestStepWriterRatPositions(t *testing.T) {
	var buf bytes.Buffer
	sw := NewStepWriter(&buf, DisplayRatPositions)
	require.NoError(t, sw.WriteStep(2, 1, 2, []int{0, 1}, nil))

	want := "STEP 2 1 2\n0\n1\nEND\n"
	assert.Equal(t, want, buf.String())
}
