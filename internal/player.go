package internal

// ResetQuestionState clears the per-question submission state. Called by the
// send-question procedure for every player.
func (p *Player) ResetQuestionState() {
	p.Answered = false
	p.Answer = nil
}

func (p *Player) Snapshot() PlayerSnapshot {
	return PlayerSnapshot{
		ID:          p.Id,
		Name:        p.Name,
		Avatar:      p.Avatar,
		Score:       p.Score,
		IsHost:      p.IsHost,
		IsConnected: p.IsConnected,
	}
}
