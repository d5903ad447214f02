package topology

import "sort"

// ZoneSetup is the per-worker derived structure of §4.5: the nodes a zone
// owns, its local edge count, and the per-peer import/export boundary node
// lists.
type ZoneSetup struct {
	ThisZone       int
	LocalNodeList  []int         // sorted ascending (I1, P2)
	LocalEdgeCount int
	Import         map[int][]int // peer zone -> sorted node ids owned by peer
	Export         map[int][]int // peer zone -> sorted node ids owned by this zone
}

// BuildZoneSetup runs the two-pass derivation described in §4.5.
func BuildZoneSetup(g *Graph, thisZone int) *ZoneSetup {
	n := g.NodeCount()

	// Pass 1: local node list, local edge count, and per-peer import counts
	// (to size pass 2's allocations without resizing).
	var localNodeList []int
	localEdgeCount := 0
	importCount := make(map[int]int)
	seenExternal := make(map[int]bool) // global node id -> already counted as an import

	for nodeID := 0; nodeID < n; nodeID++ {
		if g.ZoneOf[nodeID] != thisZone {
			continue
		}
		localNodeList = append(localNodeList, nodeID)
		localEdgeCount += g.NeighborStart[nodeID+1] - g.NeighborStart[nodeID]

		for _, m := range g.Adjacency(nodeID) {
			peer := g.ZoneOf[m]
			if peer == thisZone {
				continue
			}
			if !seenExternal[m] {
				seenExternal[m] = true
				importCount[peer]++
			}
		}
	}

	// Pass 2: fill import lists (dedup by node id) and export lists (dedup
	// per peer by local node id, via exportMarked).
	importSeen := make(map[int]bool)
	importLists := make(map[int][]int, len(importCount))
	for peer, cnt := range importCount {
		importLists[peer] = make([]int, 0, cnt)
	}
	exportLists := make(map[int][]int)
	exportMarked := make(map[int]map[int]bool) // peer -> local node id -> already exported to peer

	for _, nodeID := range localNodeList {
		for _, m := range g.Adjacency(nodeID) {
			peer := g.ZoneOf[m]
			if peer == thisZone {
				continue
			}
			if !importSeen[m] {
				importSeen[m] = true
				importLists[peer] = append(importLists[peer], m)
			}
			if exportMarked[peer] == nil {
				exportMarked[peer] = make(map[int]bool)
			}
			if !exportMarked[peer][nodeID] {
				exportMarked[peer][nodeID] = true
				exportLists[peer] = append(exportLists[peer], nodeID)
			}
		}
	}

	for peer := range importLists {
		sort.Ints(importLists[peer])
	}
	// Export lists are already ascending: localNodeList is walked in
	// ascending order and each node is appended to a peer's export list at
	// most once.

	return &ZoneSetup{
		ThisZone:       thisZone,
		LocalNodeList:  localNodeList,
		LocalEdgeCount: localEdgeCount,
		Import:         importLists,
		Export:         exportLists,
	}
}

// Peers returns the sorted set of peer zone ids this zone exchanges
// boundary state with (the union of import and export peers).
func (z *ZoneSetup) Peers() []int {
	seen := make(map[int]bool)
	for p := range z.Import {
		seen[p] = true
	}
	for p := range z.Export {
		seen[p] = true
	}
	peers := make([]int, 0, len(seen))
	for p := range seen {
		peers = append(peers, p)
	}
	sort.Ints(peers)
	return peers
}
