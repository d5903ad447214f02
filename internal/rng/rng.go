// Package rng implements the simulation's shared 32-bit linear-congruential
// generator. Every zone runs the same recurrence with the same constants so
// that a rat's draw sequence is identical regardless of which worker process
// currently owns it.
package rng

// Constants fixed by the simulation's PRNG contract. Changing any of these
// changes every reproducible run in the system.
const (
	multiplierSeed = 48271      // M
	multiplierX    = 16807      // V
	modulus        = 1<<31 - 1  // G = 2^31 - 1
	initialSeed    = 418        // I
)

// Seed is a single 32-bit PRNG state value, always kept in [0, modulus).
type Seed uint32

// Rnext advances seed using x as the mixed-in value, returning the new
// state. Both x and the result lie in [0, modulus). The caller is
// responsible for storing the returned value back as the seed.
func Rnext(seed Seed, x uint32) Seed {
	v := (uint64(x)+1)*multiplierX + uint64(seed)*multiplierSeed
	return Seed(v % modulus)
}

// Reseed resets seed to the fixed initial value and folds in each element
// of list in order via Rnext, returning the resulting state.
func Reseed(list []uint32) Seed {
	seed := Seed(initialSeed)
	for _, x := range list {
		seed = Rnext(seed, x)
	}
	return seed
}

// NextFloat draws the next value from seed and scales it into [0, upper).
// It returns the new seed (to be stored back by the caller) and the drawn
// float.
func NextFloat(seed Seed, upper float64) (Seed, float64) {
	next := Rnext(seed, 0)
	return next, float64(next) / float64(modulus) * upper
}

// InitRatSeed derives the initial PRNG seed for rat r under globalSeed,
// per the spec's reseed(rat_seed[r], [global_seed, r]) contract. It is run
// identically by every zone after the initial rat distribution, and must
// never be re-run for a rat that has already migrated (its seed then comes
// from the wire instead — see internal/transport).
func InitRatSeed(globalSeed int64, r int) Seed {
	return Reseed([]uint32{uint32(globalSeed), uint32(r)})
}
