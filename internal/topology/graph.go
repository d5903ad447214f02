// Package topology builds the simulation's grid graph (§3, §4.5): CSR
// adjacency with an explicit leading self-edge per node, rectangular
// regions, and the zone assignment that partitions nodes across workers.
package topology

import (
	"sort"

	"ratswarm/internal/partition"
	"ratswarm/internal/simerr"
	"ratswarm/internal/statkit"
)

// EdgeRaw is one directed half-edge as read from the graph file, before CSR
// construction.
type EdgeRaw struct {
	From, To int
}

// RegionSpec is a region declaration as read from the graph file, before
// node/edge counts and a zone id have been derived.
type RegionSpec struct {
	X, Y, W, H int
}

// BuildInput is everything the graph file format (§6) contributes, prior to
// CSR construction and zone assignment.
type BuildInput struct {
	Width, Height int
	Edges         []EdgeRaw
	Regions       []RegionSpec
}

// Region is a rectangular block of grid nodes, with its derived node/edge
// counts and the zone it was assigned to.
type Region struct {
	X, Y, W, H int
	NodeCount  int
	EdgeCount  int
	ZoneID     int
}

// NodeID maps grid coordinates to the row-major node id used throughout the
// simulation.
func NodeID(x, y, width int) int {
	return y*width + x
}

// Graph is the immutable, once-built node/adjacency/zone structure (§3).
// Neighbor is laid out CSR-style: node n's adjacency list is
// Neighbor[NeighborStart[n]:NeighborStart[n+1]], and its first entry is
// always n itself (I6).
type Graph struct {
	Width, Height int
	NeighborStart []int
	Neighbor      []int
	ZoneOf        []int
	Regions       []Region
}

// NodeCount returns N = Width*Height.
func (g *Graph) NodeCount() int { return g.Width * g.Height }

// Adjacency returns node n's adjacency list, self-edge first.
func (g *Graph) Adjacency(n int) []int {
	return g.Neighbor[g.NeighborStart[n]:g.NeighborStart[n+1]]
}

// BuildGraph constructs the CSR graph from parsed input, validates edge
// ordering (§4.5: "edges ... required to be sorted by (head, tail);
// violations are fatal"), and assigns regions (and therefore nodes) to
// zones via §4.4's assigner.
func BuildGraph(in *BuildInput, zoneCount int) (*Graph, error) {
	n := in.Width * in.Height
	for i := 1; i < len(in.Edges); i++ {
		prev, cur := in.Edges[i-1], in.Edges[i]
		if cur.From < prev.From || (cur.From == prev.From && cur.To < prev.To) {
			return nil, simerr.New(simerr.CodeMalformedInput, "graph edges not sorted by (head, tail)")
		}
	}
	for _, e := range in.Edges {
		if e.From < 0 || e.From >= n || e.To < 0 || e.To >= n {
			return nil, simerr.New(simerr.CodeMalformedInput, "edge endpoint out of range")
		}
	}

	degree := make([]int, n)
	for _, e := range in.Edges {
		degree[e.From]++
	}

	neighborStart := make([]int, n+1)
	for i := 0; i < n; i++ {
		neighborStart[i+1] = neighborStart[i] + 1 + degree[i]
	}

	neighbor := make([]int, neighborStart[n])
	cursor := make([]int, n)
	for i := 0; i < n; i++ {
		neighbor[neighborStart[i]] = i // self-edge, I6
		cursor[i] = neighborStart[i] + 1
	}
	for _, e := range in.Edges {
		neighbor[cursor[e.From]] = e.To
		cursor[e.From]++
	}

	regions := make([]Region, len(in.Regions))
	for i, rs := range in.Regions {
		regions[i] = Region{X: rs.X, Y: rs.Y, W: rs.W, H: rs.H, NodeCount: rs.W * rs.H}
	}
	for i := range regions {
		r := &regions[i]
		var edgeCount int
		for y := r.Y; y < r.Y+r.H; y++ {
			for x := r.X; x < r.X+r.W; x++ {
				node := NodeID(x, y, in.Width)
				edgeCount += neighborStart[node+1] - neighborStart[node]
			}
		}
		r.EdgeCount = edgeCount
	}

	if err := assignZones(regions, zoneCount); err != nil {
		return nil, err
	}

	zoneOf := make([]int, n)
	for _, r := range regions {
		for y := r.Y; y < r.Y+r.H; y++ {
			for x := r.X; x < r.X+r.W; x++ {
				zoneOf[NodeID(x, y, in.Width)] = r.ZoneID
			}
		}
	}

	return &Graph{
		Width:         in.Width,
		Height:        in.Height,
		NeighborStart: neighborStart,
		Neighbor:      neighbor,
		ZoneOf:        zoneOf,
		Regions:       regions,
	}, nil
}

// assignZones implements §4.4: order regions by whichever of node count or
// edge count has the larger raw population standard deviation across
// regions, partition that ordering via the linear partitioner, and assign
// the k-th group to zone k.
func assignZones(regions []Region, zoneCount int) error {
	if len(regions) == 0 {
		return simerr.New(simerr.CodeMalformedInput, "no regions declared")
	}

	nodeCounts := make([]float64, len(regions))
	edgeCounts := make([]float64, len(regions))
	for i, r := range regions {
		nodeCounts[i] = float64(r.NodeCount)
		edgeCounts[i] = float64(r.EdgeCount)
	}

	key := nodeCounts
	if statkit.DataStdDev(edgeCounts) > statkit.DataStdDev(nodeCounts) {
		key = edgeCounts
	}

	order := make([]int, len(regions))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return key[order[a]] < key[order[b]]
	})

	weights := make([]float64, len(regions))
	for pos, regionIdx := range order {
		weights[pos] = key[regionIdx]
	}

	zoneOf := partition.AssignZones(weights, zoneCount)
	for pos, regionIdx := range order {
		z := zoneOf[pos]
		if z < 0 || z >= zoneCount {
			return simerr.New(simerr.CodeInvariantViolation, "zone assigner produced an out-of-range zone id")
		}
		regions[regionIdx].ZoneID = z
	}
	return nil
}
