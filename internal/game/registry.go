package game

import (
	"fmt"
	"sync"
	"time"

	"github.com/NguyenDinhAn-2002/quiz-game-backend/internal"
	"github.com/NguyenDinhAn-2002/quiz-game-backend/internal/utils"
)

// Registry owns every active Room. Rooms are addressed by their numeric code
// and exist only for the lifetime of the process.
type Registry struct {
	mu    sync.RWMutex
	rooms map[string]*internal.Room
}

func NewRegistry() *Registry {
	return &Registry{rooms: make(map[string]*internal.Room)}
}

// Create allocates a fresh room code, retrying on collision, and initializes
// the room in the lobby phase.
func (r *Registry) Create(quizRef, hostID string, quiz []internal.Question) (*internal.Room, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for range 10 {
		code, err := utils.GenerateRoomCode()
		if err != nil {
			return nil, fmt.Errorf("generating room code: %w", err)
		}
		if _, exists := r.rooms[code]; exists {
			continue
		}

		room := &internal.Room{
			Id:           code,
			HostId:       hostID,
			Players:      make(map[string]*internal.Player),
			PlayerOrder:  make([]string, 0),
			QuizRef:      quizRef,
			Quiz:         append([]internal.Question(nil), quiz...),
			LastActivity: time.Now(),
		}
		r.rooms[code] = room
		return room, nil
	}
	return nil, fmt.Errorf("failed to allocate a unique room code after 10 attempts")
}

func (r *Registry) Get(id string) *internal.Room {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.rooms[id]
}

// Delete removes a room and releases its timer slot.
func (r *Registry) Delete(id string) {
	r.mu.Lock()
	room := r.rooms[id]
	delete(r.rooms, id)
	r.mu.Unlock()

	if room != nil {
		CancelPhaseTimer(room)
	}
}

func (r *Registry) List() []*internal.Room {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]*internal.Room, 0, len(r.rooms))
	for _, room := range r.rooms {
		list = append(list, room)
	}
	return list
}

// SweepInactive deletes rooms in which every player is disconnected and
// nothing has happened past the threshold. Returns the deleted rooms so the
// caller can drop their connection-mapper entries.
func (r *Registry) SweepInactive(threshold time.Duration) []*internal.Room {
	now := time.Now()
	var swept []*internal.Room

	for _, room := range r.List() {
		room.Mu.RLock()
		stale := room.AllDisconnected() && now.Sub(room.LastActivity) > threshold
		room.Mu.RUnlock()
		if stale {
			swept = append(swept, room)
		}
	}

	for _, room := range swept {
		r.Delete(room.Id)
	}
	return swept
}
