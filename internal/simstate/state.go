// Package simstate holds the per-zone simulation state of §3 and the
// census/weight bookkeeping of §4.6: rat positions and seeds, per-node rat
// counts and move weights, and the neighbor-accumulated weight arrays the
// batch kernel samples from.
package simstate

import (
	"ratswarm/internal/statkit"
	"ratswarm/internal/topology"
)

// ZoneState is everything one zone's worker goroutine owns. RatPosition and
// RatSeed are sized to the global rat count R but only the entries for rats
// this zone currently owns (Owned.Get(r) == true) are meaningful; a zone
// never inspects or mutates the position/seed of a rat it does not own.
//
// RatCount and NodeWeight are sized to the global node count N but are only
// populated for nodes this zone owns or imports — every other entry is a
// stale zero that nothing reads, except on the display zone, where
// GatherForDisplay fills RatCount at every node before a step is emitted.
type ZoneState struct {
	Graph *topology.Graph
	Setup *topology.ZoneSetup

	RatPosition []int
	RatSeed     []uint32
	Owned       *RatBitset

	RatCount   []int
	NodeWeight []float64

	// SumWeight and NeighborAccumWeight are populated for owned nodes only
	// (§3). NeighborAccumWeight shares the Neighbor array's CSR indexing:
	// offset NeighborStart[n]+k holds the running prefix sum of NodeWeight
	// over n's first k+1 adjacency entries (I5).
	SumWeight           []float64
	NeighborAccumWeight []float64
}

// NewZoneState allocates a ZoneState for r global rats over g.
func NewZoneState(g *topology.Graph, setup *topology.ZoneSetup, r int) *ZoneState {
	return &ZoneState{
		Graph:               g,
		Setup:               setup,
		RatPosition:         make([]int, r),
		RatSeed:             make([]uint32, r),
		Owned:               NewRatBitset(r),
		RatCount:            make([]int, g.NodeCount()),
		NodeWeight:          make([]float64, g.NodeCount()),
		SumWeight:           make([]float64, g.NodeCount()),
		NeighborAccumWeight: make([]float64, len(g.Neighbor)),
	}
}

// TakeCensus recomputes RatCount at every owned node from scratch, from the
// current RatPosition/Owned arrays (P8: running it twice with unchanged
// rat_position must yield identical rat_count).
func (s *ZoneState) TakeCensus() {
	for _, n := range s.Setup.LocalNodeList {
		s.RatCount[n] = 0
	}
	for r := 0; r < s.Owned.Len(); r++ {
		if !s.Owned.Get(r) {
			continue
		}
		s.RatCount[s.RatPosition[r]]++
	}
}

// RecomputeNodeWeight derives node_weight[n] from the current rat_count at n
// and at n's neighbors (owned or imported), per §4.2/§4.6: the ideal load
// factor is driven by how crowded n's neighbors are relative to n, and the
// move-weight curve then turns n's own crowding against that target into a
// sampling bias. Callers must ensure rat_count is current at n and at every
// one of n's neighbors before calling this.
func (s *ZoneState) RecomputeNodeWeight(n int) {
	adj := s.Graph.Adjacency(n)
	own := float64(s.RatCount[n])

	var sum float64
	count := 0
	for _, m := range adj {
		if m == n {
			continue
		}
		sum += statkit.Imbalance(own, float64(s.RatCount[m]))
		count++
	}
	var meanImbalance float64
	if count > 0 {
		meanImbalance = sum / float64(count)
	}
	ilf := statkit.IdealLoadFactor(meanImbalance)
	s.NodeWeight[n] = statkit.MoveWeight(own, ilf)
}

// BatchSize implements §4.6's batch sizing: max(floor(0.02*R), floor(sqrt(R))).
func BatchSize(r int) int {
	byFraction := int(0.02 * float64(r))
	bySqrt := intSqrt(r)
	if byFraction > bySqrt {
		return byFraction
	}
	return bySqrt
}

func intSqrt(n int) int {
	if n <= 0 {
		return 0
	}
	x := n
	for x*x > n {
		x = (x + n/x) / 2
	}
	for (x+1)*(x+1) <= n {
		x++
	}
	return x
}
