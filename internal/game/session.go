package game

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/NguyenDinhAn-2002/quiz-game-backend/internal"
)

// QuizProvider supplies immutable, already-validated quiz definitions. The
// orchestrator never mutates or persists them.
type QuizProvider interface {
	GetQuiz(ctx context.Context, ref string) ([]internal.Question, error)
}

// ResultSink consumes final scores when a game ends. Failures are logged and
// never affect the room.
type ResultSink interface {
	SaveResults(ctx context.Context, roomID, quizRef string, scores []internal.FinalScore) error
}

// Config carries the orchestrator timings. Tests shrink the delays.
type Config struct {
	GradingWindow  time.Duration // question-ended -> scoreboard
	AdvanceDelay   time.Duration // scoreboard -> next question
	SweepInterval  time.Duration
	InactiveAfter  time.Duration
	DisableSweeper bool
}

func DefaultConfig() Config {
	return Config{
		GradingWindow: internal.GradingWindow,
		AdvanceDelay:  internal.AdvanceDelay,
		SweepInterval: 1 * time.Minute,
		InactiveAfter: 15 * time.Minute,
	}
}

// Session is the state machine orchestrating every room. All process-scoped
// state (registry, mapper) is injected at construction; Close tears it down
// and releases every outstanding timer.
type Session struct {
	cfg      Config
	registry *Registry
	mapper   *Mapper
	gateway  *Gateway
	quizzes  QuizProvider
	results  ResultSink // nil when no sink is configured

	done chan struct{}
}

func NewSession(cfg Config, quizzes QuizProvider, results ResultSink) *Session {
	mapper := NewMapper()
	s := &Session{
		cfg:      cfg,
		registry: NewRegistry(),
		mapper:   mapper,
		gateway:  NewGateway(mapper),
		quizzes:  quizzes,
		results:  results,
		done:     make(chan struct{}),
	}
	if !cfg.DisableSweeper {
		go s.sweepLoop()
	}
	return s
}

// Close releases every room timer and mapper entry. Sessions are not
// reusable after Close.
func (s *Session) Close() {
	close(s.done)
	for _, room := range s.registry.List() {
		CancelPhaseTimer(room)
		s.mapper.DropRoom(room.Id)
		s.registry.Delete(room.Id)
	}
}

// sweepLoop periodically deletes rooms whose players are all disconnected
// past the inactivity threshold. Independent of per-room timers.
func (s *Session) sweepLoop() {
	ticker := time.NewTicker(s.cfg.SweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			for _, room := range s.registry.SweepInactive(s.cfg.InactiveAfter) {
				s.mapper.DropRoom(room.Id)
				log.Printf("[Sweep] room=%s: deleted after inactivity", room.Id)
			}
		}
	}
}

// CreateRoom allocates a room for the quiz and binds the creating connection
// as host. With HostAsPlayer the host is also inserted as a scored player.
func (s *Session) CreateRoom(ctx context.Context, c *Conn, d internal.CreateRoomData) error {
	quiz, err := s.quizzes.GetQuiz(ctx, d.QuizRef)
	if err != nil {
		return fmt.Errorf("loading quiz %q: %w", d.QuizRef, err)
	}

	room, err := s.registry.Create(d.QuizRef, d.Host.ID, quiz)
	if err != nil {
		return err
	}

	if d.HostAsPlayer {
		room.Mu.Lock()
		s.insertPlayerLocked(room, d.Host)
		room.Mu.Unlock()
	}

	s.mapper.Bind(c, d.Host.ID, room.Id)
	log.Printf("[CreateRoom] room=%s host=%s quiz=%s hostAsPlayer=%v", room.Id, d.Host.ID, d.QuizRef, d.HostAsPlayer)

	s.broadcastSnapshot(room)
	return nil
}

// JoinRoom inserts a new player, or re-associates a returning one without
// touching its score. Rejoining an open question additionally replays the
// question payload to the joining connection only.
func (s *Session) JoinRoom(c *Conn, d internal.JoinRoomData) error {
	room := s.registry.Get(d.RoomID)
	if room == nil {
		return internal.ErrRoomNotFound
	}

	room.Mu.Lock()
	existing := room.Players[d.Participant.ID]
	if existing == nil {
		if room.IsStarted {
			room.Mu.Unlock()
			return internal.ErrGameAlreadyStarted
		}
		for _, p := range room.Players {
			if p.IsConnected && p.Name == d.Participant.Name {
				room.Mu.Unlock()
				return internal.ErrNameConflict
			}
		}
		s.insertPlayerLocked(room, d.Participant)
	} else {
		existing.IsConnected = true
		if d.Participant.Name != "" {
			existing.Name = d.Participant.Name
		}
		if d.Participant.Avatar != "" {
			existing.Avatar = d.Participant.Avatar
		}
	}
	replay, replayOK := s.inflightQuestionLocked(room)
	room.Touch()
	room.Mu.Unlock()

	s.mapper.Bind(c, d.Participant.ID, room.Id)
	log.Printf("[JoinRoom] room=%s player=%s reconnect=%v", room.Id, d.Participant.ID, existing != nil)

	s.broadcastSnapshot(room)
	if existing != nil && replayOK {
		s.gateway.ToConn(c, internal.Message[any]{Type: "new-question", Data: replay})
	}
	return nil
}

// HostReconnect re-binds the host's connection without requiring the host to
// be a registered player.
func (s *Session) HostReconnect(c *Conn, d internal.HostReconnectData) error {
	room := s.registry.Get(d.RoomID)
	if room == nil {
		return internal.ErrRoomNotFound
	}

	room.Mu.Lock()
	if room.HostId != d.HostID {
		room.Mu.Unlock()
		return internal.ErrUnauthorized
	}
	if p := room.Players[d.HostID]; p != nil {
		p.IsConnected = true
	}
	replay, replayOK := s.inflightQuestionLocked(room)
	room.Touch()
	room.Mu.Unlock()

	s.mapper.Bind(c, d.HostID, room.Id)
	log.Printf("[HostReconnect] room=%s host=%s", room.Id, d.HostID)

	s.broadcastSnapshot(room)
	if replayOK {
		s.gateway.ToConn(c, internal.Message[any]{Type: "new-question", Data: replay})
	}
	return nil
}

// StartGame transitions lobby -> first question. Host only.
func (s *Session) StartGame(c *Conn, d internal.RoomActionData) error {
	room, actingID, err := s.resolveRoom(c, d.RoomID)
	if err != nil {
		return err
	}

	room.Mu.Lock()
	if room.HostId != actingID {
		room.Mu.Unlock()
		return internal.ErrUnauthorized
	}
	if room.IsStarted {
		room.Mu.Unlock()
		return internal.ErrInvalidState
	}
	room.IsStarted = true
	room.CurrentQuestion = 0
	room.Touch()
	room.Mu.Unlock()

	log.Printf("[StartGame] room=%s: started with %d questions", room.Id, len(room.Quiz))
	s.sendQuestion(room)
	return nil
}

// LeaveRoom removes the resolved player. Host departure migrates the host
// role to the earliest-joined remaining player, or destroys an emptied room.
func (s *Session) LeaveRoom(c *Conn) error {
	playerID, roomID, ok := s.mapper.Unbind(c)
	if !ok {
		return nil
	}
	room := s.registry.Get(roomID)
	if room == nil {
		return nil
	}

	room.Mu.Lock()
	wasHost := playerID == room.HostId
	room.RemovePlayer(playerID)
	remaining := len(room.Players)

	destroy := false
	switch {
	case wasHost && remaining == 0:
		destroy = true
	case wasHost:
		next := room.NextHost()
		room.HostId = next
		if p := room.Players[next]; p != nil {
			p.IsHost = true
		}
		log.Printf("[LeaveRoom] room=%s: host %s left, migrated to %s", room.Id, playerID, next)
	case remaining == 0 && room.Players[room.HostId] == nil && !s.mapper.HasPlayer(roomID, room.HostId):
		// Last player gone and no host connection left either.
		destroy = true
	}
	endNow := !destroy && room.IsStarted && !room.Paused && !room.QuestionEnded &&
		!room.GameEnded() && room.AllAnswered()
	room.Touch()
	room.Mu.Unlock()

	if destroy {
		log.Printf("[LeaveRoom] room=%s: empty, destroying", room.Id)
		s.destroyRoom(room)
		return nil
	}

	s.broadcastSnapshot(room)
	if endNow {
		s.endQuestion(room)
	}
	return nil
}

// KickPlayer removes the target player, clears its mapper entries, and
// notifies the kicked connection distinctly. Host only.
func (s *Session) KickPlayer(c *Conn, d internal.KickPlayerData) error {
	room, actingID, err := s.resolveRoom(c, d.RoomID)
	if err != nil {
		return err
	}

	room.Mu.Lock()
	if room.HostId != actingID {
		room.Mu.Unlock()
		return internal.ErrUnauthorized
	}
	if room.Players[d.TargetID] == nil {
		room.Mu.Unlock()
		return internal.ErrPlayerNotFound
	}
	room.RemovePlayer(d.TargetID)
	endNow := room.IsStarted && !room.Paused && !room.QuestionEnded &&
		!room.GameEnded() && room.AllAnswered()
	room.Touch()
	room.Mu.Unlock()

	target := s.mapper.ConnFor(room.Id, d.TargetID)
	if target != nil {
		s.gateway.ToConn(target, internal.Message[any]{
			Type: "player-kicked",
			Data: internal.PlayerKickedData{PlayerID: d.TargetID},
		})
	}
	s.mapper.DropPlayer(room.Id, d.TargetID)
	log.Printf("[KickPlayer] room=%s: %s kicked by %s", room.Id, d.TargetID, actingID)

	s.broadcastSnapshot(room)
	if endNow {
		s.endQuestion(room)
	}
	return nil
}

// Disconnect marks the resolved player as disconnected, keeping the record so
// the participant can reconnect with score intact. Never touches timers.
func (s *Session) Disconnect(c *Conn) {
	playerID, roomID, ok := s.mapper.Unbind(c)
	if !ok {
		return
	}
	room := s.registry.Get(roomID)
	if room == nil {
		return
	}

	room.Mu.Lock()
	if p := room.Players[playerID]; p != nil {
		p.IsConnected = false
	}
	room.Mu.Unlock()

	log.Printf("[Disconnect] room=%s player=%s", roomID, playerID)
	s.broadcastSnapshot(room)
}

// Registry exposes the room registry for the HTTP surface.
func (s *Session) Registry() *Registry {
	return s.registry
}

// resolveRoom resolves the acting participant through the connection mapper
// and checks it against the payload's room.
func (s *Session) resolveRoom(c *Conn, roomID string) (*internal.Room, string, error) {
	playerID, boundRoom, ok := s.mapper.Lookup(c)
	if !ok || (roomID != "" && roomID != boundRoom) {
		return nil, "", internal.ErrRoomNotFound
	}
	room := s.registry.Get(boundRoom)
	if room == nil {
		return nil, "", internal.ErrRoomNotFound
	}
	return room, playerID, nil
}

// insertPlayerLocked requires room.Mu held.
func (s *Session) insertPlayerLocked(room *internal.Room, p internal.Participant) {
	room.Players[p.ID] = &internal.Player{
		Id:          p.ID,
		Name:        p.Name,
		Avatar:      p.Avatar,
		IsHost:      p.ID == room.HostId,
		IsConnected: true,
		JoinedAt:    time.Now(),
	}
	room.PlayerOrder = append(room.PlayerOrder, p.ID)
}

// inflightQuestionLocked builds the replay payload for a connection joining
// mid-question. Requires room.Mu held.
func (s *Session) inflightQuestionLocked(room *internal.Room) (internal.NewQuestionData, bool) {
	if !room.IsStarted || room.QuestionEnded || room.GameEnded() {
		return internal.NewQuestionData{}, false
	}
	q, ok := room.CurrentQuestionDef()
	if !ok {
		return internal.NewQuestionData{}, false
	}
	return internal.NewQuestionData{
		Question:          q.View(),
		Index:             room.CurrentQuestion,
		TimeLimit:         room.QuestionTimeLimit,
		QuestionStartTime: room.QuestionStartTime.UnixMilli(),
	}, true
}

func (s *Session) broadcastSnapshot(room *internal.Room) {
	room.Mu.RLock()
	snap := room.Snapshot()
	room.Mu.RUnlock()
	s.gateway.ToRoom(room.Id, internal.Message[any]{Type: "room-updated", Data: snap})
}

func (s *Session) destroyRoom(room *internal.Room) {
	s.registry.Delete(room.Id) // cancels the timer slot
	s.mapper.DropRoom(room.Id)
}
