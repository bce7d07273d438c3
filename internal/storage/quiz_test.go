package storage

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aliskhannn/quiz-bank-bot/internal/domain/entities"
)

func testBank() []entities.Question {
	return []entities.Question{
		{ID: "q-0", Number: 1, Text: "one", Options: []entities.Option{{ID: "opt-0-0", Label: "a", IsCorrect: true}}},
		{ID: "q-1", Number: 2, Text: "two", Options: []entities.Option{{ID: "opt-1-0", Label: "a", IsCorrect: true}}},
	}
}

func TestQuizStorage_Bank(t *testing.T) {
	s := NewQuizStorage()

	_, ok := s.Bank(1)
	assert.False(t, ok)

	bank := testBank()
	s.StoreBank(1, bank)

	got, ok := s.Bank(1)
	require.True(t, ok)
	assert.Equal(t, bank, got)

	got[0].Text = "mutated"
	again, _ := s.Bank(1)
	assert.Equal(t, "one", again[0].Text)

	s.DeleteBank(1)
	_, ok = s.Bank(1)
	assert.False(t, ok)
}

func TestQuizStorage_StoreSessionReplacesPrevious(t *testing.T) {
	s := NewQuizStorage()
	now := time.Now()

	first := entities.NewQuizSession("s1", 7, 70, testBank(), now, time.Hour)
	s.StoreSession(first)

	second := entities.NewQuizSession("s2", 7, 70, testBank(), now, time.Hour)
	s.StoreSession(second)

	_, err := s.Session("s1")
	assert.ErrorIs(t, err, ErrSessionNotFound)

	current, err := s.UserSession(7)
	require.NoError(t, err)
	assert.Equal(t, "s2", current.ID)
}

func TestQuizStorage_UpdateSession(t *testing.T) {
	s := NewQuizStorage()
	s.StoreSession(entities.NewQuizSession("s1", 7, 70, testBank(), time.Now(), time.Hour))

	updated, err := s.UpdateSession("s1", func(session *entities.QuizSession) error {
		session.Answers["q-0"] = []string{"opt-0-0"}
		session.Current = 1
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, updated.Current)

	stored, err := s.Session("s1")
	require.NoError(t, err)
	assert.Equal(t, []string{"opt-0-0"}, stored.Answers["q-0"])

	// A failing update leaves the stored session untouched.
	boom := errors.New("boom")
	_, err = s.UpdateSession("s1", func(session *entities.QuizSession) error {
		session.Current = 99
		return boom
	})
	assert.ErrorIs(t, err, boom)

	stored, _ = s.Session("s1")
	assert.Equal(t, 1, stored.Current)

	_, err = s.UpdateSession("missing", func(*entities.QuizSession) error { return nil })
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestQuizStorage_ActiveSessions(t *testing.T) {
	s := NewQuizStorage()
	now := time.Now()

	s.StoreSession(entities.NewQuizSession("a", 1, 1, testBank(), now, time.Hour))
	done := entities.NewQuizSession("b", 2, 2, testBank(), now, time.Hour)
	done.Status = entities.SessionSubmitted
	s.StoreSession(done)

	active := s.ActiveSessions()
	require.Len(t, active, 1)
	assert.Equal(t, "a", active[0].ID)

	s.DeleteUserSession(1)
	assert.Empty(t, s.ActiveSessions())
	_, err := s.UserSession(1)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}
