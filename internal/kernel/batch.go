package kernel

import (
	"ratswarm/internal/rng"
	"ratswarm/internal/simstate"
	"ratswarm/internal/transport"
)

// FindAllSums implements §4.7 step 1 over owned nodes only: it fills
// SumWeight and NeighborAccumWeight from the current NodeWeight array. It
// requires NodeWeight to be current at every owned node and at every one of
// their neighbors (owned or imported).
func FindAllSums(s *simstate.ZoneState) {
	g := s.Graph
	for _, n := range s.Setup.LocalNodeList {
		start, end := g.NeighborStart[n], g.NeighborStart[n+1]
		var running float64
		for i := start; i < end; i++ {
			running += s.NodeWeight[g.Neighbor[i]]
			s.NeighborAccumWeight[i] = running
		}
		s.SumWeight[n] = running
	}
}

// RunBatch implements §4.7 steps 2-3 over the rat-id range [bstart,
// bstart+bcount): clears export counts, then for each rat this zone
// currently owns within the range, draws a target cumulative weight,
// locates the move, and either relocates the rat locally or hands it off to
// the export buffer of its new zone. Rats processed in ascending id order,
// as required for PRNG-stream determinism (§5).
//
// Returns one export buffer per destination zone touched during this batch
// (a zone with nothing to export is simply absent from the map).
func RunBatch(s *simstate.ZoneState, thisZone, bstart, bcount int) map[int][]transport.RatEnvelope {
	exports := make(map[int][]transport.RatEnvelope)
	g := s.Graph

	for r := bstart; r < bstart+bcount; r++ {
		if !s.Owned.Get(r) {
			continue
		}
		cur := s.RatPosition[r]
		start := g.NeighborStart[cur]
		end := g.NeighborStart[cur+1]

		newSeed, target := rng.NextFloat(rng.Seed(s.RatSeed[r]), s.SumWeight[cur])
		s.RatSeed[r] = uint32(newSeed)

		k := LocateValue(target, s.NeighborAccumWeight[start:end])
		newNode := g.Neighbor[start+k]
		newZone := g.ZoneOf[newNode]

		if newZone == thisZone {
			s.RatPosition[r] = newNode
			s.RatCount[cur]--
			s.RatCount[newNode]++
			continue
		}

		s.RatCount[cur]--
		s.Owned.Clear(r)
		exports[newZone] = append(exports[newZone], transport.RatEnvelope{
			RatID:      r,
			TargetNode: newNode,
			Seed:       s.RatSeed[r],
		})
	}

	return exports
}
