package game

import (
	"context"
	"log"
	"time"

	"github.com/NguyenDinhAn-2002/quiz-game-backend/internal"
)

// ArmPhaseTimer schedules fn to run after d, replacing any outstanding timer
// for the room. fn runs in its own goroutine on natural expiry only; explicit
// cancellation never fires it. fn must re-validate room state itself, since
// the room may have been deleted or re-armed between scheduling and firing.
func ArmPhaseTimer(room *internal.Room, d time.Duration, fn func()) {
	room.Mu.Lock()
	armPhaseTimerLocked(room, d, fn)
	room.Mu.Unlock()
}

// armPhaseTimerLocked requires room.Mu held. Arming in the same critical
// section as the phase-flag mutation keeps flag and timer consistent.
func armPhaseTimerLocked(room *internal.Room, d time.Duration, fn func()) {
	cancelPhaseTimerLocked(room)

	ctx, cancel := context.WithTimeout(context.Background(), d)
	room.Timer = &internal.PhaseTimer{
		StartTime: time.Now(),
		Duration:  d,
		Active:    true,
		Context:   ctx,
		Cancel:    cancel,
	}

	go func() {
		<-ctx.Done()

		room.Mu.Lock()
		if room.Timer != nil && room.Timer.Context == ctx {
			room.Timer.Active = false
		}
		room.Mu.Unlock()

		if ctx.Err() == context.DeadlineExceeded {
			log.Printf("[ArmPhaseTimer] room=%s: timer expired after %v", room.Id, d)
			go fn()
		}
	}()
}

// CancelPhaseTimer stops the room's outstanding timer, if any.
func CancelPhaseTimer(room *internal.Room) {
	room.Mu.Lock()
	defer room.Mu.Unlock()
	cancelPhaseTimerLocked(room)
}

// cancelPhaseTimerLocked requires room.Mu held.
func cancelPhaseTimerLocked(room *internal.Room) {
	if room.Timer == nil || !room.Timer.Active {
		return
	}
	if room.Timer.Cancel != nil {
		room.Timer.Cancel()
	}
	room.Timer.Active = false
}
