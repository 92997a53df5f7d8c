package ext

import (
	"math/rand"
	"sync"
	"time"

	"golang.org/x/exp/constraints"
)

// lockedSource makes the shared generator safe for the table loops.
type lockedSource struct {
	mu  sync.Mutex
	src rand.Source64
}

func (s *lockedSource) Int63() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.src.Int63()
}

func (s *lockedSource) Uint64() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.src.Uint64()
}

func (s *lockedSource) Seed(seed int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.src.Seed(seed)
}

var srand *rand.Rand

func init() {
	srand = rand.New(&lockedSource{src: rand.NewSource(time.Now().UnixNano()).(rand.Source64)})
}

func GetRand() *rand.Rand {
	return srand
}

func IsHit(v int) bool {
	return srand.Intn(100) <= v
}

func IsHitFloat(v float64) bool {
	return RandFloat(0, 1.0) <= v
}

func RandFloat[T constraints.Float](min T, max T) T {
	if max <= min {
		return min
	}
	return T(srand.Float64())*(max-min) + min
}

// RandInt returns a value in [min, max).
func RandInt[T constraints.Integer](min T, max T) T {
	if max <= min {
		return min
	}
	return T(srand.Int63n(int64(max-min))) + min
}

// RandIntInclusive returns a value in [min, max].
func RandIntInclusive[T constraints.Integer](min T, max T) T {
	return RandInt(min, max+1)
}

// RollDice returns a fair die face.
func RollDice() int32 {
	return RandIntInclusive[int32](1, 6)
}
