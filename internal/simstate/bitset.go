package simstate

// RatBitset is the packed zone_rat_bitvector of §3: one bit per rat, set
// iff the rat currently resides in an owned node of this zone. It is a
// membership set, not a list — iteration over all rats in ascending id
// order is done separately, over the rat count, to preserve the
// determinism §5 requires of per-batch processing order.
type RatBitset struct {
	words []uint64
	n     int
}

// NewRatBitset allocates a bitset for n rats, all initially clear.
func NewRatBitset(n int) *RatBitset {
	return &RatBitset{words: make([]uint64, (n+63)/64), n: n}
}

// Get reports whether rat r is currently owned by this zone.
func (b *RatBitset) Get(r int) bool {
	return b.words[r/64]&(1<<uint(r%64)) != 0
}

// Set marks rat r as owned by this zone.
func (b *RatBitset) Set(r int) {
	b.words[r/64] |= 1 << uint(r%64)
}

// Clear marks rat r as not owned by this zone.
func (b *RatBitset) Clear(r int) {
	b.words[r/64] &^= 1 << uint(r%64)
}

// Count returns the number of rats currently owned by this zone.
func (b *RatBitset) Count() int {
	var total int
	for _, w := range b.words {
		for w != 0 {
			w &= w - 1
			total++
		}
	}
	return total
}

// Len returns the total number of rats the bitset tracks membership for.
func (b *RatBitset) Len() int { return b.n }
