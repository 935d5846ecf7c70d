package dice

import (
	"crypto/rand"
	"math/big"
	mrand "math/rand"
	"sync"
)

func mustPositive(n int) {
	if n <= 0 {
		panic("dice: Intn called with n <= 0")
	}
}

type cryptoSource struct{}

// NewCryptoSource returns the production Source, drawing from crypto/rand.
//
// Postcondition: Every value returned by Intn is in [0, n).
func NewCryptoSource() Source {
	return cryptoSource{}
}

// Intn panics if n <= 0 or the system entropy source fails.
func (cryptoSource) Intn(n int) int {
	mustPositive(n)
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		panic("dice: crypto/rand failure: " + err.Error())
	}
	return int(v.Int64())
}

// seededSource replays the same sequence for the same seed. It is safe for
// concurrent use.
type seededSource struct {
	mu  sync.Mutex
	rng *mrand.Rand
}

// NewSeededSource returns a deterministic Source for replays and tests.
//
// Postcondition: Every value returned by Intn is in [0, n).
func NewSeededSource(seed int64) Source {
	return &seededSource{rng: mrand.New(mrand.NewSource(seed))}
}

// Intn panics if n <= 0.
func (s *seededSource) Intn(n int) int {
	mustPositive(n)
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Intn(n)
}
