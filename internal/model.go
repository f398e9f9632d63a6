package internal

import (
	"context"
	"sync"
	"time"
)

const (
	// DefaultQuestionTimeLimit applies when a question carries no limit of its own.
	DefaultQuestionTimeLimit = 20 * time.Second

	// GradingWindow is how long the per-player results stay up before the
	// consolidated scoreboard is broadcast.
	GradingWindow = 3 * time.Second

	// AdvanceDelay is how long the scoreboard stays up before the next
	// question is sent automatically.
	AdvanceDelay = 5 * time.Second

	RoomCodeLength = 6
)

// PhaseTimer is the single delayed-callback slot of a Room. A room never has
// more than one outstanding timer; arming a new one cancels the previous.
type PhaseTimer struct {
	StartTime time.Time
	Duration  time.Duration
	Active    bool
	Context   context.Context
	Cancel    context.CancelFunc
}

// Room is one live quiz session.
type Room struct {
	Id     string
	HostId string

	// Players keyed by stable participant id. PlayerOrder preserves insertion
	// order and is the host-migration tie-break.
	Players     map[string]*Player
	PlayerOrder []string

	// Quiz definition, immutable for the session's lifetime.
	QuizRef string
	Quiz    []Question

	// Question lifecycle state.
	CurrentQuestion int
	IsStarted       bool
	Paused          bool
	QuestionEnded   bool

	// Wall-clock bookkeeping for elapsed/remaining computation.
	QuestionStartTime time.Time
	QuestionTimeLimit int // seconds
	PausedElapsed     time.Duration

	Timer *PhaseTimer

	LastActivity time.Time

	Mu sync.RWMutex `json:"-"`
}

// Player is one participant inside a Room. The record survives disconnects
// and is only removed on kick, leave, or room destruction.
type Player struct {
	Id     string `json:"id"`
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
	Score  int    `json:"score"`

	IsHost      bool `json:"is_host"`
	IsConnected bool `json:"is_connected"`

	// Per-question state, reset by the send-question procedure.
	Answered bool             `json:"answered"`
	Answer   *SubmittedAnswer `json:"answer,omitempty"`

	JoinedAt time.Time `json:"joined_at"`
}

// FinalScore is what the orchestrator emits when a game ends. Ordering is
// left to the receiving presentation layer.
type FinalScore struct {
	PlayerID string `json:"player_id"`
	Name     string `json:"name"`
	Avatar   string `json:"avatar"`
	Score    int    `json:"score"`
}
