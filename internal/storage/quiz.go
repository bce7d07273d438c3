package storage

import (
	"errors"
	"slices"
	"sync"

	"github.com/aliskhannn/quiz-bank-bot/internal/domain/entities"
)

var ErrSessionNotFound = errors.New("quiz session not found")

// QuizStorage provides in-memory storage for question banks and quiz sessions.
// Every user owns at most one bank and one session (active or finished).
type QuizStorage struct {
	mu       sync.RWMutex
	banks    map[int64][]entities.Question
	sessions map[string]*entities.QuizSession
	byUser   map[int64]string
}

// NewQuizStorage creates a new QuizStorage.
func NewQuizStorage() *QuizStorage {
	return &QuizStorage{
		banks:    make(map[int64][]entities.Question),
		sessions: make(map[string]*entities.QuizSession),
		byUser:   make(map[int64]string),
	}
}

// StoreBank saves the question bank of a user, replacing the previous one.
func (s *QuizStorage) StoreBank(userID int64, bank []entities.Question) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.banks[userID] = slices.Clone(bank)
}

// Bank returns the question bank of a user.
func (s *QuizStorage) Bank(userID int64) ([]entities.Question, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	bank, ok := s.banks[userID]
	if !ok {
		return nil, false
	}
	return slices.Clone(bank), true
}

// DeleteBank removes the bank of a user.
func (s *QuizStorage) DeleteBank(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.banks, userID)
}

// StoreSession saves a session and makes it the current session of its user.
// The previous session of the user is dropped.
func (s *QuizStorage) StoreSession(session *entities.QuizSession) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if prev, ok := s.byUser[session.UserID]; ok && prev != session.ID {
		delete(s.sessions, prev)
	}
	s.sessions[session.ID] = session.Clone()
	s.byUser[session.UserID] = session.ID
}

// Session returns a copy of the session with the given ID.
func (s *QuizStorage) Session(id string) (*entities.QuizSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return session.Clone(), nil
}

// UserSession returns a copy of the current session of a user.
func (s *QuizStorage) UserSession(userID int64) (*entities.QuizSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byUser[userID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s.sessions[id].Clone(), nil
}

// UpdateSession applies fn to the stored session while holding the lock and
// returns a copy of the result. Changes made by a failing fn are discarded.
func (s *QuizStorage) UpdateSession(id string, fn func(*entities.QuizSession) error) (*entities.QuizSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}

	working := session.Clone()
	if err := fn(working); err != nil {
		return nil, err
	}
	s.sessions[id] = working

	return working.Clone(), nil
}

// ActiveSessions returns copies of all sessions that still accept answers.
func (s *QuizStorage) ActiveSessions() []*entities.QuizSession {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*entities.QuizSession, 0, len(s.sessions))
	for _, session := range s.sessions {
		if session.IsActive() {
			out = append(out, session.Clone())
		}
	}
	return out
}

// DeleteUserSession removes the current session of a user.
func (s *QuizStorage) DeleteUserSession(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id, ok := s.byUser[userID]; ok {
		delete(s.sessions, id)
		delete(s.byUser, userID)
	}
}
