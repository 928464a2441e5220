package quiz

import (
	"math/rand/v2"
	"sync"
	"time"
)

// RandomSource picks a uniform integer in [0, n). Tests inject a fixed one.
type RandomSource interface {
	IntN(n int) int
}

// lockedRand makes a *rand.Rand safe for the many request goroutines sharing
// one Assembler.
type lockedRand struct {
	mu sync.Mutex
	r  *rand.Rand
}

// NewRandomSource returns a goroutine-safe PCG source. A zero seed derives
// one from the clock.
func NewRandomSource(seed uint64) RandomSource {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return &lockedRand{r: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func (l *lockedRand) IntN(n int) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.IntN(n)
}
