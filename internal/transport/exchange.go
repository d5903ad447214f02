package transport

import "ratswarm/internal/simstate"

// ExchangeRats implements §4.9.1: ship each peer its export buffer of
// migrating rats, then apply every peer's incoming migrations to local
// state.
//
// §4.9's wire description elides zero-length messages so an idle peer pair
// costs no send and no receive; over an in-process channel that saves
// nothing and turns a static peer list into an unreliable oracle for
// "will this peer send me something this batch" (rat migrations are
// data-dependent, unlike the always-populated node-count/weight payloads).
// This implementation instead always sends and always receives across
// every peer, with an explicitly-possibly-empty slice standing in for the
// elided message — see DESIGN.md.
func ExchangeRats(s *simstate.ZoneState, t Transport, exports map[int][]RatEnvelope) {
	peers := s.Setup.Peers()
	for _, peer := range peers {
		t.ISendRats(peer, exports[peer])
	}
	for _, peer := range peers {
		for _, env := range t.RecvRats(peer) {
			s.RatPosition[env.RatID] = env.TargetNode
			s.RatCount[env.TargetNode]++
			s.RatSeed[env.RatID] = env.Seed
			s.Owned.Set(env.RatID)
		}
	}
	t.Wait()
}

// ExchangeNodeCounts implements §4.9.2: ship this zone's export-list rat
// counts to every peer, and overwrite this zone's import-list rat counts
// from every peer's reply, in export/import-list order (I2 guarantees the
// orders line up).
func ExchangeNodeCounts(s *simstate.ZoneState, t Transport) {
	for peer, nodes := range s.Setup.Export {
		payload := make([]int, len(nodes))
		for i, n := range nodes {
			payload[i] = s.RatCount[n]
		}
		t.ISendInts(peer, TagCounts, payload)
	}
	for peer, nodes := range s.Setup.Import {
		payload := t.RecvInts(peer, TagCounts)
		for i, n := range nodes {
			s.RatCount[n] = payload[i]
		}
	}
	t.Wait()
}

// ExchangeNodeWeights implements §4.9.3: identical shape to
// ExchangeNodeCounts but carrying node_weight values.
func ExchangeNodeWeights(s *simstate.ZoneState, t Transport) {
	for peer, nodes := range s.Setup.Export {
		payload := make([]float64, len(nodes))
		for i, n := range nodes {
			payload[i] = s.NodeWeight[n]
		}
		t.ISendFloats(peer, TagWeights, payload)
	}
	for peer, nodes := range s.Setup.Import {
		payload := t.RecvFloats(peer, TagWeights)
		for i, n := range nodes {
			s.NodeWeight[n] = payload[i]
		}
	}
	t.Wait()
}
