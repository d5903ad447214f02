package topology

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// gridEdges builds the full undirected 4-neighbor edge list (both
// directions, sorted by (head, tail)) for a W×H grid with no wraparound —
// matching §6's "input edges are undirected and unweighted" contract.
func gridEdges(w, h int) []EdgeRaw {
	type pair struct{ a, b int }
	var pairs []pair
	add := func(x1, y1, x2, y2 int) {
		a, b := NodeID(x1, y1, w), NodeID(x2, y2, w)
		pairs = append(pairs, pair{a, b}, pair{b, a})
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if x+1 < w {
				add(x, y, x+1, y)
			}
			if y+1 < h {
				add(x, y, x, y+1)
			}
		}
	}
	// sort by (a, b)
	for i := 1; i < len(pairs); i++ {
		for j := i; j > 0 && (pairs[j-1].a > pairs[j].a || (pairs[j-1].a == pairs[j].a && pairs[j-1].b > pairs[j].b)); j-- {
			pairs[j-1], pairs[j] = pairs[j], pairs[j-1]
		}
	}
	edges := make([]EdgeRaw, len(pairs))
	for i, p := range pairs {
		edges[i] = EdgeRaw{From: p.a, To: p.b}
	}
	return edges
}

func TestBuildGraphSelfEdgeInvariant(t *testing.T) {
	in := &BuildInput{
		Width: 4, Height: 4,
		Edges:   gridEdges(4, 4),
		Regions: []RegionSpec{{X: 0, Y: 0, W: 4, H: 4}},
	}
	g, err := BuildGraph(in, 1)
	require.NoError(t, err)

	// P3: self-edge invariant.
	for n := 0; n < g.NodeCount(); n++ {
		adj := g.Adjacency(n)
		require.NotEmpty(t, adj)
		assert.Equal(t, n, adj[0])
	}
}

func TestBuildGraphRejectsUnsortedEdges(t *testing.T) {
	in := &BuildInput{
		Width: 2, Height: 1,
		Edges:   []EdgeRaw{{From: 1, To: 0}, {From: 0, To: 1}}, // out of order
		Regions: []RegionSpec{{X: 0, Y: 0, W: 2, H: 1}},
	}
	_, err := BuildGraph(in, 1)
	assert.Error(t, err)
}

// TestZoneSetupS4: 2x2 grid, 2 regions of size 1x2, assigned to zones 0 and
// 1. Each zone's import list from the other is the two nodes on the
// opposing side of the boundary: Import(0,1) is the right column and
// Import(1,0) the left column.
func TestZoneSetupS4(t *testing.T) {
	// Grid:
	//  (0,0) (1,0)
	//  (0,1) (1,1)
	// Region A: x=0,y=0,w=1,h=2 (left column) -> zone 0
	// Region B: x=1,y=0,w=1,h=2 (right column) -> zone 1
	in := &BuildInput{
		Width: 2, Height: 2,
		Edges: gridEdges(2, 2),
		Regions: []RegionSpec{
			{X: 0, Y: 0, W: 1, H: 2},
			{X: 1, Y: 0, W: 1, H: 2},
		},
	}
	g, err := BuildGraph(in, 2)
	require.NoError(t, err)

	var zoneOfRegion [2]int
	for _, r := range g.Regions {
		if r.X == 0 {
			zoneOfRegion[0] = r.ZoneID
		} else {
			zoneOfRegion[1] = r.ZoneID
		}
	}
	require.NotEqual(t, zoneOfRegion[0], zoneOfRegion[1])

	zs0 := BuildZoneSetup(g, zoneOfRegion[0])
	zs1 := BuildZoneSetup(g, zoneOfRegion[1])

	// P2: local node list sorted ascending.
	assert.True(t, sort.IntsAreSorted(zs0.LocalNodeList))
	assert.True(t, sort.IntsAreSorted(zs1.LocalNodeList))

	leftCol := []int{NodeID(0, 0, 2), NodeID(0, 1, 2)}
	rightCol := []int{NodeID(1, 0, 2), NodeID(1, 1, 2)}
	assert.ElementsMatch(t, leftCol, zs0.LocalNodeList)
	assert.ElementsMatch(t, rightCol, zs1.LocalNodeList)

	imp01 := zs0.Import[zoneOfRegion[1]]
	imp10 := zs1.Import[zoneOfRegion[0]]
	assert.ElementsMatch(t, rightCol, imp01)
	assert.ElementsMatch(t, leftCol, imp10)

	exp01 := zs0.Export[zoneOfRegion[1]]
	assert.ElementsMatch(t, leftCol, exp01)

	// I2: export(a,b) == import(b,a) as sets.
	assert.ElementsMatch(t, exp01, imp10)
}

func TestZoneSetupI1Partition(t *testing.T) {
	in := &BuildInput{
		Width: 4, Height: 4,
		Edges: gridEdges(4, 4),
		Regions: []RegionSpec{
			{X: 0, Y: 0, W: 2, H: 4},
			{X: 2, Y: 0, W: 2, H: 4},
		},
	}
	g, err := BuildGraph(in, 2)
	require.NoError(t, err)

	seen := make(map[int]bool)
	for z := 0; z < 2; z++ {
		zs := BuildZoneSetup(g, z)
		for _, n := range zs.LocalNodeList {
			assert.False(t, seen[n], "node %d owned by more than one zone", n)
			seen[n] = true
		}
	}
	assert.Len(t, seen, g.NodeCount())
}
