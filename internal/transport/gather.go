package transport

import "ratswarm/internal/simstate"

// SendGatherContribution implements the non-root side of §4.10: a zone
// other than the display zone ships its owned node ids and their current
// rat counts.
func SendGatherContribution(s *simstate.ZoneState, displayZone int, t Transport) {
	payload := GatherPayload{
		NodeIDs: s.Setup.LocalNodeList,
		Counts:  make([]int, len(s.Setup.LocalNodeList)),
	}
	for i, n := range s.Setup.LocalNodeList {
		payload.Counts[i] = s.RatCount[n]
	}
	t.ISendGather(displayZone, payload)
	t.Wait()
}

// GatherForDisplay implements the root side of §4.10: collect every other
// zone's owned-node rat counts into s.RatCount, so the display zone's
// RatCount array reflects the whole grid before it emits a step.
func GatherForDisplay(s *simstate.ZoneState, displayZone, zoneCount int, t Transport) {
	for z := 0; z < zoneCount; z++ {
		if z == displayZone {
			continue
		}
		payload := t.RecvGather(z)
		for i, n := range payload.NodeIDs {
			s.RatCount[n] = payload.Counts[i]
		}
	}
}
