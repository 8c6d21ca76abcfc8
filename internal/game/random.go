package game

import (
	"math/rand/v2"
	"sync"
)

// RandomSource supplies every random decision the engine makes.
type RandomSource interface {
	IntN(n int) int
	Shuffle(n int, swap func(i, j int))
}

type seededRandom struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewSeededRandom returns a deterministic source safe for concurrent use.
func NewSeededRandom(seed uint64) RandomSource {
	return &seededRandom{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func (r *seededRandom) IntN(n int) int {
	if n <= 0 {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rng.IntN(n)
}

func (r *seededRandom) Shuffle(n int, swap func(i, j int)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rng.Shuffle(n, swap)
}
