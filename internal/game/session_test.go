package game

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/NguyenDinhAn-2002/quiz-game-backend/internal"
)

func geoQuiz() []internal.Question {
	return []internal.Question{
		{
			Id:   "q1",
			Type: internal.QuestionSingleChoice,
			Text: "Capital of Vietnam?",
			Options: []internal.Option{
				{Id: "a", Text: "Hanoi", IsCorrect: true},
				{Id: "b", Text: "Da Nang"},
				{Id: "c", Text: "Hue"},
			},
		},
		{
			Id:        "q2",
			Type:      internal.QuestionFreeText,
			Text:      "Largest city?",
			TimeLimit: 15,
			Accepted:  []string{"ho chi minh"},
		},
	}
}

// slowSession keeps the grading/advance chain parked so tests can inspect
// intermediate state.
func slowSession(t *testing.T) *Session {
	t.Helper()
	quizzes := NewMemoryQuizzes()
	quizzes.Add("geo", geoQuiz())
	s := NewSession(Config{
		GradingWindow:  time.Hour,
		AdvanceDelay:   time.Hour,
		SweepInterval:  time.Hour,
		InactiveAfter:  time.Hour,
		DisableSweeper: true,
	}, quizzes, nil)
	t.Cleanup(s.Close)
	return s
}

func createTestRoom(t *testing.T, s *Session, hostAsPlayer bool) (*internal.Room, *Conn, *fakeSender) {
	t.Helper()
	c, snd := newFakeConn()
	err := s.CreateRoom(context.Background(), c, internal.CreateRoomData{
		QuizRef:      "geo",
		Host:         internal.Participant{ID: "host", Name: "Host"},
		HostAsPlayer: hostAsPlayer,
	})
	if err != nil {
		t.Fatalf("CreateRoom() error: %v", err)
	}
	msg, ok := snd.last("room-updated")
	if !ok {
		t.Fatal("CreateRoom() sent no room-updated")
	}
	snap := msg.Data.(internal.RoomSnapshot)
	room := s.registry.Get(snap.RoomID)
	if room == nil {
		t.Fatalf("room %s not registered", snap.RoomID)
	}
	return room, c, snd
}

func joinPlayer(t *testing.T, s *Session, roomID, id, name string) (*Conn, *fakeSender) {
	t.Helper()
	c, snd := newFakeConn()
	err := s.JoinRoom(c, internal.JoinRoomData{
		RoomID:      roomID,
		Participant: internal.Participant{ID: id, Name: name},
	})
	if err != nil {
		t.Fatalf("JoinRoom(%s) error: %v", id, err)
	}
	return c, snd
}

func TestCreateRoom(t *testing.T) {
	s := slowSession(t)

	room, _, _ := createTestRoom(t, s, true)
	room.Mu.RLock()
	defer room.Mu.RUnlock()
	if room.HostId != "host" {
		t.Errorf("HostId = %s, want host", room.HostId)
	}
	p := room.Players["host"]
	if p == nil || !p.IsHost || !p.IsConnected {
		t.Errorf("host-as-player record wrong: %+v", p)
	}
}

func TestCreateRoomHostNotPlaying(t *testing.T) {
	s := slowSession(t)

	room, _, _ := createTestRoom(t, s, false)
	room.Mu.RLock()
	defer room.Mu.RUnlock()
	if len(room.Players) != 0 {
		t.Errorf("room has %d players, want none", len(room.Players))
	}
}

func TestCreateRoomUnknownQuiz(t *testing.T) {
	s := slowSession(t)
	c, _ := newFakeConn()

	err := s.CreateRoom(context.Background(), c, internal.CreateRoomData{
		QuizRef: "missing",
		Host:    internal.Participant{ID: "host"},
	})
	if err == nil {
		t.Fatal("CreateRoom() accepted an unknown quiz ref")
	}
}

func TestJoinRoom(t *testing.T) {
	s := slowSession(t)
	room, _, hostSnd := createTestRoom(t, s, false)

	joinPlayer(t, s, room.Id, "p1", "An")
	joinPlayer(t, s, room.Id, "p2", "Binh")

	msg, ok := hostSnd.last("room-updated")
	if !ok {
		t.Fatal("host received no room-updated after joins")
	}
	snap := msg.Data.(internal.RoomSnapshot)
	if len(snap.Players) != 2 {
		t.Errorf("snapshot has %d players, want 2", len(snap.Players))
	}
}

func TestJoinRoomErrors(t *testing.T) {
	s := slowSession(t)
	room, _, _ := createTestRoom(t, s, false)
	joinPlayer(t, s, room.Id, "p1", "An")

	c, _ := newFakeConn()
	err := s.JoinRoom(c, internal.JoinRoomData{
		RoomID:      "000000",
		Participant: internal.Participant{ID: "px", Name: "X"},
	})
	if !errors.Is(err, internal.ErrRoomNotFound) {
		t.Errorf("unknown room error = %v, want ErrRoomNotFound", err)
	}

	err = s.JoinRoom(c, internal.JoinRoomData{
		RoomID:      room.Id,
		Participant: internal.Participant{ID: "p2", Name: "An"},
	})
	if !errors.Is(err, internal.ErrNameConflict) {
		t.Errorf("duplicate name error = %v, want ErrNameConflict", err)
	}
}

func TestJoinAfterStartRejectedButReconnectAllowed(t *testing.T) {
	s := slowSession(t)
	room, hostConn, _ := createTestRoom(t, s, false)
	p1, _ := joinPlayer(t, s, room.Id, "p1", "An")

	if err := s.StartGame(hostConn, internal.RoomActionData{RoomID: room.Id}); err != nil {
		t.Fatalf("StartGame() error: %v", err)
	}

	c, _ := newFakeConn()
	err := s.JoinRoom(c, internal.JoinRoomData{
		RoomID:      room.Id,
		Participant: internal.Participant{ID: "p9", Name: "Late"},
	})
	if !errors.Is(err, internal.ErrGameAlreadyStarted) {
		t.Errorf("late join error = %v, want ErrGameAlreadyStarted", err)
	}

	// The registered player drops and rejoins mid-question.
	s.Disconnect(p1)
	room.Mu.Lock()
	room.Players["p1"].Score = 14
	room.Mu.Unlock()

	c2, snd2 := newFakeConn()
	err = s.JoinRoom(c2, internal.JoinRoomData{
		RoomID:      room.Id,
		Participant: internal.Participant{ID: "p1", Name: "An"},
	})
	if err != nil {
		t.Fatalf("reconnect error: %v", err)
	}

	room.Mu.RLock()
	p := room.Players["p1"]
	room.Mu.RUnlock()
	if p == nil || !p.IsConnected || p.Score != 14 {
		t.Errorf("reconnect lost player state: %+v", p)
	}
	if _, ok := snd2.last("new-question"); !ok {
		t.Error("reconnecting player did not get the in-flight question replayed")
	}
}

func TestStartGameHostOnly(t *testing.T) {
	s := slowSession(t)
	room, hostConn, _ := createTestRoom(t, s, false)
	p1, p1Snd := joinPlayer(t, s, room.Id, "p1", "An")

	if err := s.StartGame(p1, internal.RoomActionData{RoomID: room.Id}); !errors.Is(err, internal.ErrUnauthorized) {
		t.Errorf("player StartGame error = %v, want ErrUnauthorized", err)
	}

	if err := s.StartGame(hostConn, internal.RoomActionData{RoomID: room.Id}); err != nil {
		t.Fatalf("StartGame() error: %v", err)
	}
	if err := s.StartGame(hostConn, internal.RoomActionData{RoomID: room.Id}); !errors.Is(err, internal.ErrInvalidState) {
		t.Errorf("double StartGame error = %v, want ErrInvalidState", err)
	}

	msg, ok := p1Snd.last("new-question")
	if !ok {
		t.Fatal("player did not receive the first question")
	}
	q := msg.Data.(internal.NewQuestionData)
	if q.Index != 0 || q.Question.Id != "q1" {
		t.Errorf("first question payload wrong: %+v", q)
	}
}

func TestHostMigrationOnLeave(t *testing.T) {
	s := slowSession(t)
	room, hostConn, _ := createTestRoom(t, s, true)
	joinPlayer(t, s, room.Id, "p1", "An")
	joinPlayer(t, s, room.Id, "p2", "Binh")

	if err := s.LeaveRoom(hostConn); err != nil {
		t.Fatalf("LeaveRoom() error: %v", err)
	}

	room.Mu.RLock()
	defer room.Mu.RUnlock()
	if room.HostId != "p1" {
		t.Errorf("HostId = %s, want earliest-joined p1", room.HostId)
	}
	if p := room.Players["p1"]; p == nil || !p.IsHost {
		t.Error("migrated host not flagged IsHost")
	}
	if room.Players["host"] != nil {
		t.Error("departed host still registered as player")
	}
}

func TestLeaveRoomDestroysEmptyRoom(t *testing.T) {
	s := slowSession(t)
	room, hostConn, _ := createTestRoom(t, s, true)

	if err := s.LeaveRoom(hostConn); err != nil {
		t.Fatalf("LeaveRoom() error: %v", err)
	}
	if s.registry.Get(room.Id) != nil {
		t.Error("empty room still registered after host left")
	}
}

func TestKickPlayer(t *testing.T) {
	s := slowSession(t)
	room, hostConn, _ := createTestRoom(t, s, false)
	p1, p1Snd := joinPlayer(t, s, room.Id, "p1", "An")
	joinPlayer(t, s, room.Id, "p2", "Binh")

	if err := s.KickPlayer(p1, internal.KickPlayerData{RoomID: room.Id, TargetID: "p2"}); !errors.Is(err, internal.ErrUnauthorized) {
		t.Errorf("player kick error = %v, want ErrUnauthorized", err)
	}
	if err := s.KickPlayer(hostConn, internal.KickPlayerData{RoomID: room.Id, TargetID: "nobody"}); !errors.Is(err, internal.ErrPlayerNotFound) {
		t.Errorf("missing target error = %v, want ErrPlayerNotFound", err)
	}

	if err := s.KickPlayer(hostConn, internal.KickPlayerData{RoomID: room.Id, TargetID: "p1"}); err != nil {
		t.Fatalf("KickPlayer() error: %v", err)
	}

	room.Mu.RLock()
	gone := room.Players["p1"] == nil
	room.Mu.RUnlock()
	if !gone {
		t.Error("kicked player still registered")
	}
	if _, ok := p1Snd.last("player-kicked"); !ok {
		t.Error("kicked connection did not receive player-kicked")
	}
	if s.mapper.HasPlayer(room.Id, "p1") {
		t.Error("kicked player's connection still bound")
	}
}

func TestDisconnectKeepsRecord(t *testing.T) {
	s := slowSession(t)
	room, _, _ := createTestRoom(t, s, false)
	p1, _ := joinPlayer(t, s, room.Id, "p1", "An")

	room.Mu.Lock()
	room.Players["p1"].Score = 23
	room.Mu.Unlock()

	s.Disconnect(p1)

	room.Mu.RLock()
	defer room.Mu.RUnlock()
	p := room.Players["p1"]
	if p == nil {
		t.Fatal("disconnect removed the player record")
	}
	if p.IsConnected {
		t.Error("player still flagged connected")
	}
	if p.Score != 23 {
		t.Error("disconnect touched the score")
	}
}

func TestHostReconnect(t *testing.T) {
	s := slowSession(t)
	room, hostConn, _ := createTestRoom(t, s, false)
	s.Disconnect(hostConn)

	c, _ := newFakeConn()
	err := s.HostReconnect(c, internal.HostReconnectData{RoomID: room.Id, HostID: "impostor"})
	if !errors.Is(err, internal.ErrUnauthorized) {
		t.Errorf("impostor reconnect error = %v, want ErrUnauthorized", err)
	}

	c2, snd2 := newFakeConn()
	if err := s.HostReconnect(c2, internal.HostReconnectData{RoomID: room.Id, HostID: "host"}); err != nil {
		t.Fatalf("HostReconnect() error: %v", err)
	}
	if !s.mapper.HasPlayer(room.Id, "host") {
		t.Error("host connection not rebound")
	}
	if _, ok := snd2.last("room-updated"); !ok {
		t.Error("reconnected host got no snapshot")
	}
}

func TestSessionCloseReleasesRooms(t *testing.T) {
	quizzes := NewMemoryQuizzes()
	quizzes.Add("geo", geoQuiz())
	s := NewSession(Config{
		GradingWindow:  time.Hour,
		AdvanceDelay:   time.Hour,
		SweepInterval:  time.Hour,
		InactiveAfter:  time.Hour,
		DisableSweeper: true,
	}, quizzes, nil)

	room, _, _ := createTestRoom(t, s, true)
	ArmPhaseTimer(room, time.Hour, func() {})

	s.Close()

	if len(s.registry.List()) != 0 {
		t.Error("Close() left rooms registered")
	}
	room.Mu.RLock()
	active := room.Timer != nil && room.Timer.Active
	room.Mu.RUnlock()
	if active {
		t.Error("Close() left a timer armed")
	}
}
