// Package partition implements the linear partitioner (§4.3): splitting an
// ordered sequence of non-negative weights into K contiguous groups that
// minimize the sum of squared group totals. It also implements the zone
// assigner (§4.4) built on top of it.
//
// Per §9's design note, the DP working set (cost/choice tables and prefix
// sums) is owned by a solver value created fresh for each call and
// discarded on return — nothing here is package-level mutable state.
package partition

// FindPartition returns a slice of K non-negative block sizes summing to
// len(weights), minimizing the sum over blocks of (block sum)^2 among
// contiguous partitions of weights in order.
//
// Edge cases: k == 1 returns a single block of everything; k >= len(weights)
// returns k entries, the first len(weights) equal to 1 and the rest 0.
func FindPartition(weights []float64, k int) []int {
	n := len(weights)
	if k <= 0 {
		return nil
	}
	if k == 1 {
		return []int{n}
	}
	if k >= n {
		splits := make([]int, k)
		for i := 0; i < n; i++ {
			splits[i] = 1
		}
		return splits
	}

	s := newSolver(weights, k)
	return s.solve()
}

// solver owns the DP tables for one FindPartition call: prefix sums of
// weights, and memoized (cost, choice) tables indexed by (k-1)*n + trim.
type solver struct {
	n      int
	k      int
	prefix []float64 // prefix[i] = sum of weights[0:i]

	// cost[idx] is the minimum achievable sum-of-squares for the state
	// encoded by idx; choice[idx] is the rightmost block length chosen to
	// achieve it. An unfilled slot is recognized by choice[idx] == 0, which
	// is impossible for any solved state (block sizes are >= 1).
	cost   []float64
	choice []int
}

func newSolver(weights []float64, k int) *solver {
	n := len(weights)
	prefix := make([]float64, n+1)
	for i, w := range weights {
		prefix[i+1] = prefix[i] + w
	}
	size := k * n
	if size == 0 {
		size = 1
	}
	return &solver{
		n:      n,
		k:      k,
		prefix: prefix,
		cost:   make([]float64, size),
		choice: make([]int, size),
	}
}

// segmentCost returns (sum of weights[i:i+length))^2.
func (s *solver) segmentCost(i, length int) float64 {
	sum := s.prefix[i+length] - s.prefix[i]
	return sum * sum
}

func (s *solver) index(kk, trim int) int {
	return (kk-1)*s.n + trim
}

// bestCost returns the minimum sum-of-squares for partitioning the first
// n-trim weights into kk contiguous blocks, memoizing both the cost and the
// chosen rightmost block length.
func (s *solver) bestCost(kk, trim int) float64 {
	if kk == 1 {
		length := s.n - trim
		idx := s.index(kk, trim)
		s.choice[idx] = length
		c := s.segmentCost(trim, length)
		s.cost[idx] = c
		return c
	}

	idx := s.index(kk, trim)
	if s.choice[idx] != 0 {
		return s.cost[idx]
	}

	best := -1.0
	bestLen := 0
	maxLen := s.n - trim - kk + 1
	for rlen := 1; rlen <= maxLen; rlen++ {
		segStart := s.n - trim - rlen
		c := s.bestCost(kk-1, trim+rlen) + s.segmentCost(segStart, rlen)
		if best < 0 || c < best {
			best = c
			bestLen = rlen
		}
	}
	s.cost[idx] = best
	s.choice[idx] = bestLen
	return best
}

// solve reconstructs the splits vector by walking the memoized choices from
// (k, 0) back to (1, n - totalConsumed).
func (s *solver) solve() []int {
	s.bestCost(s.k, 0)

	splits := make([]int, s.k)
	trim := 0
	for kk := s.k; kk >= 1; kk-- {
		idx := s.index(kk, trim)
		length := s.choice[idx]
		splits[kk-1] = length
		trim += length
	}
	return splits
}

// AssignZones implements the zone assigner's core mechanics (§4.4): given
// weights already ordered the way the caller wants regions grouped, it
// partitions them via FindPartition and returns a zone id per weight
// (0-indexed, in the same order as weights). The k-th contiguous group
// (per the partitioner's splits) is assigned zone k.
func AssignZones(weights []float64, zoneCount int) []int {
	splits := FindPartition(weights, zoneCount)
	zoneOf := make([]int, len(weights))
	pos := 0
	for zone, size := range splits {
		for i := 0; i < size; i++ {
			zoneOf[pos] = zone
			pos++
		}
	}
	return zoneOf
}

