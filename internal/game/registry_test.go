package game

import (
	"testing"
	"time"

	"github.com/NguyenDinhAn-2002/quiz-game-backend/internal"
)

func TestRegistryCreateAndGet(t *testing.T) {
	r := NewRegistry()
	quiz := []internal.Question{{Id: "q1"}}

	room, err := r.Create("quiz-1", "host", quiz)
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	if len(room.Id) != internal.RoomCodeLength {
		t.Errorf("room code %q, want %d digits", room.Id, internal.RoomCodeLength)
	}
	if room.HostId != "host" || room.QuizRef != "quiz-1" {
		t.Errorf("room identity wrong: %+v", room)
	}
	if got := r.Get(room.Id); got != room {
		t.Error("Get() did not return the created room")
	}
	if got := r.Get("000000x"); got != nil {
		t.Error("Get() returned a room for an unknown code")
	}
}

func TestRegistryCreateCopiesQuiz(t *testing.T) {
	r := NewRegistry()
	quiz := []internal.Question{{Id: "q1"}}

	room, err := r.Create("quiz-1", "host", quiz)
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	quiz[0].Id = "mutated"
	if room.Quiz[0].Id != "q1" {
		t.Error("room shares the caller's quiz slice")
	}
}

func TestRegistryDelete(t *testing.T) {
	r := NewRegistry()
	room, err := r.Create("quiz-1", "host", nil)
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	ArmPhaseTimer(room, time.Hour, func() {})
	r.Delete(room.Id)

	if r.Get(room.Id) != nil {
		t.Error("Delete() left the room registered")
	}
	room.Mu.RLock()
	active := room.Timer != nil && room.Timer.Active
	room.Mu.RUnlock()
	if active {
		t.Error("Delete() left the phase timer armed")
	}
}

func TestSweepInactive(t *testing.T) {
	r := NewRegistry()

	stale, err := r.Create("quiz-1", "host", nil)
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	stale.Mu.Lock()
	stale.Players["p1"] = &internal.Player{Id: "p1"}
	stale.LastActivity = time.Now().Add(-time.Hour)
	stale.Mu.Unlock()

	live, err := r.Create("quiz-1", "host", nil)
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	live.Mu.Lock()
	live.Players["p2"] = &internal.Player{Id: "p2", IsConnected: true}
	live.LastActivity = time.Now().Add(-time.Hour)
	live.Mu.Unlock()

	recent, err := r.Create("quiz-1", "host", nil)
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	swept := r.SweepInactive(30 * time.Minute)
	if len(swept) != 1 || swept[0] != stale {
		t.Fatalf("SweepInactive() swept %d rooms, want just the stale one", len(swept))
	}
	if r.Get(stale.Id) != nil {
		t.Error("stale room still registered after sweep")
	}
	if r.Get(live.Id) == nil {
		t.Error("room with a connected player was swept")
	}
	if r.Get(recent.Id) == nil {
		t.Error("recently active room was swept")
	}
}
