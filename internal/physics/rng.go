package physics

// Rng is a Mulberry32 pseudo-random generator. Two instances built from the
// same seed produce identical sequences forever, which is what lets a whole
// search replay from a single integer. Instances share no state.
type Rng struct {
	state uint32
}

func NewRng(seed uint32) *Rng {
	return &Rng{state: seed}
}

// Float64 returns the next value in [0,1).
func (r *Rng) Float64() float64 {
	r.state += 0x6D2B79F5
	t := r.state
	t = (t ^ (t >> 15)) * (t | 1)
	t ^= t + (t^(t>>7))*(t|61)
	return float64(t^(t>>14)) / 4294967296.0
}

// DeriveAttemptSeed folds the round seed and attempt index into a 32-bit
// generator seed. Splitmix-style mixing keeps consecutive attempts
// decorrelated even though their indices differ by one.
func DeriveAttemptSeed(seed int64, attempt int) uint32 {
	x := uint64(seed)*0x9E3779B97F4A7C15 + uint64(attempt+1)*0xBF58476D1CE4E5B9
	x ^= x >> 31
	x *= 0x94D049BB133111EB
	x ^= x >> 29
	return uint32(x)
}
