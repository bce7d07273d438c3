package service

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aliskhannn/quiz-bank-bot/internal/domain/entities"
)

func makeBank(n int) []entities.Question {
	bank := make([]entities.Question, 0, n)
	for i := 0; i < n; i++ {
		bank = append(bank, entities.Question{
			ID:     fmt.Sprintf("q-%d", i),
			Number: i + 1,
			Text:   fmt.Sprintf("question %d", i+1),
			Options: []entities.Option{
				{ID: fmt.Sprintf("opt-%d-0", i), Label: "a", Text: "right", IsCorrect: true},
				{ID: fmt.Sprintf("opt-%d-1", i), Label: "b", Text: "wrong"},
			},
		})
	}
	return bank
}

func TestSampler_Sample_Size(t *testing.T) {
	sampler := NewSampler(entities.DefaultSessionSize, rand.New(rand.NewSource(1)))

	for _, n := range []int{0, 1, 5, 39, 40, 41, 100} {
		t.Run(fmt.Sprintf("bank of %d", n), func(t *testing.T) {
			bank := makeBank(n)
			session := sampler.Sample(bank)

			require.Len(t, session, min(n, 40))

			known := make(map[string]bool, n)
			for _, q := range bank {
				known[q.ID] = true
			}
			seen := make(map[string]bool, len(session))
			for _, q := range session {
				assert.True(t, known[q.ID], "question %s is not from the bank", q.ID)
				assert.False(t, seen[q.ID], "question %s repeats", q.ID)
				seen[q.ID] = true
			}
		})
	}
}

func TestSampler_Sample_DoesNotMutateBank(t *testing.T) {
	bank := makeBank(50)
	original := make([]entities.Question, len(bank))
	copy(original, bank)

	NewSampler(40, rand.New(rand.NewSource(7))).Sample(bank)

	assert.Equal(t, original, bank)
}

func TestSampler_Sample_KeepsOptionOrder(t *testing.T) {
	bank := makeBank(10)
	session := NewSampler(40, rand.New(rand.NewSource(3))).Sample(bank)

	byID := make(map[string]entities.Question, len(bank))
	for _, q := range bank {
		byID[q.ID] = q
	}
	for _, q := range session {
		assert.Equal(t, byID[q.ID].Options, q.Options)
	}
}

func TestSampler_Sample_SeedIsReproducible(t *testing.T) {
	bank := makeBank(60)

	a := NewSampler(40, rand.New(rand.NewSource(42))).Sample(bank)
	b := NewSampler(40, rand.New(rand.NewSource(42))).Sample(bank)

	assert.Equal(t, a, b)
}

func TestSampler_Sample_EmptyBank(t *testing.T) {
	sampler := NewSampler(40, nil)

	assert.Empty(t, sampler.Sample(nil))
	assert.NotNil(t, sampler.Sample(nil))
	assert.Empty(t, sampler.Sample([]entities.Question{}))
}

func TestNewSampler_DefaultSize(t *testing.T) {
	assert.Equal(t, entities.DefaultSessionSize, NewSampler(0, nil).Size())
	assert.Equal(t, 10, NewSampler(10, nil).Size())
}
