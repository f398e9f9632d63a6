package game

import (
	"context"
	"fmt"
	"sync"

	"github.com/NguyenDinhAn-2002/quiz-game-backend/internal"
)

// MemoryQuizzes is an in-process QuizProvider, used when no database is
// configured and by tests.
type MemoryQuizzes struct {
	mu      sync.RWMutex
	quizzes map[string][]internal.Question
}

func NewMemoryQuizzes() *MemoryQuizzes {
	return &MemoryQuizzes{quizzes: make(map[string][]internal.Question)}
}

func (m *MemoryQuizzes) Add(ref string, questions []internal.Question) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.quizzes[ref] = questions
}

func (m *MemoryQuizzes) GetQuiz(_ context.Context, ref string) ([]internal.Question, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	q, ok := m.quizzes[ref]
	if !ok {
		return nil, fmt.Errorf("quiz %q not found", ref)
	}
	return q, nil
}
