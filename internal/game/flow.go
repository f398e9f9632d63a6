package game

import (
	"context"
	"log"
	"time"

	"github.com/NguyenDinhAn-2002/quiz-game-backend/internal"
)

// sendQuestion pushes the question at room.CurrentQuestion to everyone and
// arms the answering timer. Past the last question it ends the game instead.
func (s *Session) sendQuestion(room *internal.Room) {
	room.Mu.Lock()
	if room.GameEnded() {
		room.Mu.Unlock()
		s.endGame(room)
		return
	}
	q, ok := room.CurrentQuestionDef()
	if !ok {
		room.Mu.Unlock()
		return
	}

	for _, p := range room.Players {
		p.ResetQuestionState()
	}
	room.QuestionEnded = false
	room.Paused = false
	room.PausedElapsed = 0
	room.QuestionStartTime = time.Now()
	if q.TimeLimit > 0 {
		room.QuestionTimeLimit = q.TimeLimit
	} else {
		room.QuestionTimeLimit = int(internal.DefaultQuestionTimeLimit / time.Second)
	}
	room.Touch()

	payload := internal.NewQuestionData{
		Question:          q.View(),
		Index:             room.CurrentQuestion,
		TimeLimit:         room.QuestionTimeLimit,
		QuestionStartTime: room.QuestionStartTime.UnixMilli(),
	}
	limit := room.TimeLimit()
	armPhaseTimerLocked(room, limit, func() { s.onQuestionTimeout(room) })
	room.Mu.Unlock()

	log.Printf("[SendQuestion] room=%s index=%d limit=%s", room.Id, payload.Index, limit)
	s.gateway.ToRoom(room.Id, internal.Message[any]{Type: "new-question", Data: payload})
}

// onQuestionTimeout fires when the answering window elapses. The room may
// have been destroyed, paused, or advanced since the timer was armed, so
// every precondition is re-checked.
func (s *Session) onQuestionTimeout(room *internal.Room) {
	if s.registry.Get(room.Id) != room {
		return
	}
	room.Mu.RLock()
	stale := !room.IsStarted || room.QuestionEnded || room.Paused || room.GameEnded()
	index := room.CurrentQuestion
	room.Mu.RUnlock()
	if stale {
		return
	}
	log.Printf("[QuestionTimeout] room=%s index=%d", room.Id, index)
	s.endQuestion(room)
}

// endQuestion closes the answering window, reveals per-player results and the
// answer key, then chains grading -> scoreboard -> advance through the
// single-slot phase timer.
func (s *Session) endQuestion(room *internal.Room) {
	room.Mu.Lock()
	if room.QuestionEnded || !room.IsStarted || room.GameEnded() {
		room.Mu.Unlock()
		return
	}
	room.QuestionEnded = true
	armPhaseTimerLocked(room, s.cfg.GradingWindow, func() { s.showScoreboard(room) })

	q, _ := room.CurrentQuestionDef()
	results := make([]internal.PlayerResult, 0, len(room.PlayerOrder))
	for _, id := range room.PlayerOrder {
		p := room.Players[id]
		if p == nil {
			continue
		}
		results = append(results, internal.PlayerResult{
			PlayerID: p.Id,
			Name:     p.Name,
			Answered: p.Answered,
			Answer:   p.Answer,
			Score:    p.Score,
		})
	}
	payload := internal.QuestionEndedData{
		Results:       results,
		CorrectAnswer: q.AnswerKey(),
		Index:         room.CurrentQuestion,
	}
	room.Touch()
	room.Mu.Unlock()

	log.Printf("[EndQuestion] room=%s index=%d answered=%d", room.Id, payload.Index, countAnswered(results))
	s.gateway.ToRoom(room.Id, internal.Message[any]{Type: "question-ended", Data: payload})
}

// showScoreboard broadcasts the standings after the grading window, then arms
// the advance delay toward the next question.
func (s *Session) showScoreboard(room *internal.Room) {
	if s.registry.Get(room.Id) != room {
		return
	}
	room.Mu.Lock()
	ok := room.IsStarted && room.QuestionEnded && !room.GameEnded()
	if !ok {
		room.Mu.Unlock()
		return
	}
	snap := room.Snapshot()
	armPhaseTimerLocked(room, s.cfg.AdvanceDelay, func() { s.advanceQuestion(room) })
	room.Mu.Unlock()

	s.gateway.ToRoom(room.Id, internal.Message[any]{
		Type: "scoreboard",
		Data: internal.ScoreboardData{Players: snap.Players},
	})
}

// advanceQuestion moves to the next question after the scoreboard dwell.
func (s *Session) advanceQuestion(room *internal.Room) {
	if s.registry.Get(room.Id) != room {
		return
	}
	room.Mu.Lock()
	if !room.IsStarted || !room.QuestionEnded || room.GameEnded() {
		room.Mu.Unlock()
		return
	}
	room.CurrentQuestion++
	room.Mu.Unlock()
	s.sendQuestion(room)
}

// SubmitAnswer grades the sender's answer immediately and privately. Late,
// duplicate, or out-of-phase submissions are ignored without feedback. When
// the last active player answers, the question ends early.
func (s *Session) SubmitAnswer(c *Conn, d internal.SubmitAnswerData) {
	playerID, roomID, ok := s.mapper.Lookup(c)
	if !ok {
		return
	}
	room := s.registry.Get(roomID)
	if room == nil {
		return
	}

	room.Mu.Lock()
	p := room.Players[playerID]
	q, hasQ := room.CurrentQuestionDef()
	if p == nil || !hasQ || !room.IsStarted || room.QuestionEnded || room.Paused || p.Answered {
		room.Mu.Unlock()
		return
	}

	base := ScoreAnswer(q, d.Answer)
	bonus := SpeedBonus(base, time.Since(room.QuestionStartTime), room.TimeLimit())
	gained := base + bonus

	ans := d.Answer
	p.Answered = true
	p.Answer = &ans
	p.Score += gained

	payload := internal.AnswerResultData{
		Correct:       base > 0,
		Score:         gained,
		CorrectAnswer: q.AnswerKey(),
		PlayerAnswer:  &ans,
	}
	allAnswered := room.AllAnswered()
	room.Touch()
	room.Mu.Unlock()

	log.Printf("[SubmitAnswer] room=%s player=%s base=%d bonus=%d", roomID, playerID, base, bonus)
	s.gateway.ToConn(c, internal.Message[any]{Type: "answer-result", Data: payload})

	if allAnswered {
		s.endQuestion(room)
	}
}

// NextQuestion lets the host skip ahead without waiting for the timer chain.
func (s *Session) NextQuestion(c *Conn, d internal.RoomActionData) error {
	room, actingID, err := s.resolveRoom(c, d.RoomID)
	if err != nil {
		return err
	}

	room.Mu.Lock()
	if room.HostId != actingID {
		room.Mu.Unlock()
		return internal.ErrUnauthorized
	}
	if !room.IsStarted || room.GameEnded() {
		room.Mu.Unlock()
		return internal.ErrInvalidState
	}
	room.CurrentQuestion++
	index := room.CurrentQuestion
	room.Mu.Unlock()

	log.Printf("[NextQuestion] room=%s: host advanced to index %d", room.Id, index)
	s.sendQuestion(room)
	return nil
}

// PauseGame freezes an open question: the timer is released and the elapsed
// answering time is latched so Resume can rebase it. Host only.
func (s *Session) PauseGame(c *Conn, d internal.RoomActionData) error {
	room, actingID, err := s.resolveRoom(c, d.RoomID)
	if err != nil {
		return err
	}

	room.Mu.Lock()
	if room.HostId != actingID {
		room.Mu.Unlock()
		return internal.ErrUnauthorized
	}
	if !room.IsStarted || room.QuestionEnded || room.Paused || room.GameEnded() {
		room.Mu.Unlock()
		return internal.ErrInvalidState
	}
	room.Paused = true
	room.PausedElapsed = time.Since(room.QuestionStartTime)
	elapsed := room.PausedElapsed
	cancelPhaseTimerLocked(room)
	room.Touch()
	room.Mu.Unlock()

	log.Printf("[PauseGame] room=%s elapsed=%s", room.Id, elapsed)
	s.broadcastSnapshot(room)
	return nil
}

// ResumeGame rebases the question start so elapsed time continues from where
// Pause latched it, then re-arms the timer with the remaining window.
func (s *Session) ResumeGame(c *Conn, d internal.RoomActionData) error {
	room, actingID, err := s.resolveRoom(c, d.RoomID)
	if err != nil {
		return err
	}

	room.Mu.Lock()
	if room.HostId != actingID {
		room.Mu.Unlock()
		return internal.ErrUnauthorized
	}
	if !room.Paused {
		room.Mu.Unlock()
		return internal.ErrInvalidState
	}
	remaining := room.TimeLimit() - room.PausedElapsed
	room.Paused = false
	room.QuestionStartTime = time.Now().Add(-room.PausedElapsed)
	room.PausedElapsed = 0
	room.Touch()
	if remaining > 0 {
		armPhaseTimerLocked(room, remaining, func() { s.onQuestionTimeout(room) })
	}
	room.Mu.Unlock()

	log.Printf("[ResumeGame] room=%s remaining=%s", room.Id, remaining)
	if remaining <= 0 {
		s.endQuestion(room)
		return nil
	}
	s.broadcastSnapshot(room)
	return nil
}

// endGame broadcasts the final standings and hands them to the result sink.
// The room stays resident for late reconnects until the sweeper collects it.
func (s *Session) endGame(room *internal.Room) {
	room.Mu.Lock()
	room.QuestionEnded = true
	cancelPhaseTimerLocked(room)
	scores := room.FinalScores()
	quizRef := room.QuizRef
	room.Touch()
	room.Mu.Unlock()

	log.Printf("[EndGame] room=%s players=%d", room.Id, len(scores))
	s.gateway.ToRoom(room.Id, internal.Message[any]{
		Type: "game-ended",
		Data: internal.GameEndedData{FinalScores: scores},
	})

	if s.results == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.results.SaveResults(ctx, room.Id, quizRef, scores); err != nil {
			log.Printf("[EndGame] room=%s: saving results failed: %v", room.Id, err)
		}
	}()
}

func countAnswered(results []internal.PlayerResult) int {
	n := 0
	for _, r := range results {
		if r.Answered {
			n++
		}
	}
	return n
}
