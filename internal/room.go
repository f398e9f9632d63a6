package internal

import "time"

// Methods assume the caller holds r.Mu unless noted.

// GameEnded reports whether the question index has run past the quiz.
func (r *Room) GameEnded() bool {
	return r.IsStarted && r.CurrentQuestion >= len(r.Quiz)
}

// CurrentQuestionDef returns the in-flight question definition, or false if
// the index is out of range.
func (r *Room) CurrentQuestionDef() (Question, bool) {
	if r.CurrentQuestion < 0 || r.CurrentQuestion >= len(r.Quiz) {
		return Question{}, false
	}
	return r.Quiz[r.CurrentQuestion], true
}

// TimeLimit returns the effective limit of the in-flight question.
func (r *Room) TimeLimit() time.Duration {
	if r.QuestionTimeLimit > 0 {
		return time.Duration(r.QuestionTimeLimit) * time.Second
	}
	return DefaultQuestionTimeLimit
}

// AllAnswered reports whether every currently-registered player has answered
// the in-flight question. Empty player sets report false so a host-only room
// never fast-forwards.
func (r *Room) AllAnswered() bool {
	if len(r.Players) == 0 {
		return false
	}
	for _, p := range r.Players {
		if !p.Answered {
			return false
		}
	}
	return true
}

// AllDisconnected reports whether no player currently holds a connection.
func (r *Room) AllDisconnected() bool {
	for _, p := range r.Players {
		if p.IsConnected {
			return false
		}
	}
	return true
}

// RemovePlayer deletes a player record and its order slot.
func (r *Room) RemovePlayer(id string) {
	delete(r.Players, id)
	for i, pid := range r.PlayerOrder {
		if pid == id {
			r.PlayerOrder = append(r.PlayerOrder[:i], r.PlayerOrder[i+1:]...)
			break
		}
	}
}

// NextHost returns the earliest-joined remaining player id, or "".
func (r *Room) NextHost() string {
	if len(r.PlayerOrder) == 0 {
		return ""
	}
	return r.PlayerOrder[0]
}

// Snapshot builds the broadcast view of the room in insertion order.
func (r *Room) Snapshot() RoomSnapshot {
	players := make([]PlayerSnapshot, 0, len(r.Players))
	for _, id := range r.PlayerOrder {
		if p := r.Players[id]; p != nil {
			players = append(players, p.Snapshot())
		}
	}
	return RoomSnapshot{
		RoomID:            r.Id,
		HostID:            r.HostId,
		IsStarted:         r.IsStarted,
		Paused:            r.Paused,
		CurrentQuestion:   r.CurrentQuestion,
		QuestionTimeLimit: r.QuestionTimeLimit,
		QuestionStartTime: r.QuestionStartTime.UnixMilli(),
		Players:           players,
	}
}

// FinalScores builds the unsorted end-of-game score list.
func (r *Room) FinalScores() []FinalScore {
	scores := make([]FinalScore, 0, len(r.Players))
	for _, id := range r.PlayerOrder {
		if p := r.Players[id]; p != nil {
			scores = append(scores, FinalScore{
				PlayerID: p.Id,
				Name:     p.Name,
				Avatar:   p.Avatar,
				Score:    p.Score,
			})
		}
	}
	return scores
}

// Touch records activity for the inactivity sweep.
func (r *Room) Touch() {
	r.LastActivity = time.Now()
}
