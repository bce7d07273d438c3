package service

import (
	"math/rand"
	"slices"
	"sync"
	"time"

	"github.com/aliskhannn/quiz-bank-bot/internal/domain/entities"
)

// Sampler draws a randomly ordered, size-bounded subset of a bank.
type Sampler struct {
	size int

	mu  sync.Mutex
	rng *rand.Rand
}

// NewSampler creates a sampler for sessions of at most size questions.
// A nil rng is replaced with a time-seeded source.
func NewSampler(size int, rng *rand.Rand) *Sampler {
	if size <= 0 {
		size = entities.DefaultSessionSize
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Sampler{size: size, rng: rng}
}

// Size returns the maximum session length.
func (s *Sampler) Size() int {
	return s.size
}

// Sample shuffles a copy of the bank and keeps the first min(len(bank), size)
// questions. The bank itself is left untouched.
func (s *Sampler) Sample(bank []entities.Question) []entities.Question {
	shuffled := slices.Clone(bank)

	s.mu.Lock()
	s.rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	s.mu.Unlock()

	if len(shuffled) == 0 {
		return []entities.Question{}
	}

	n := min(len(shuffled), s.size)
	return shuffled[:n:n]
}
