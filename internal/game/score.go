package game

import (
	"math"
	"slices"
	"time"

	"github.com/NguyenDinhAn-2002/quiz-game-backend/internal"
	"github.com/NguyenDinhAn-2002/quiz-game-backend/internal/utils"
)

const (
	fullScore         = 10
	multiCorrectGain  = 5
	multiWrongPenalty = 2
	maxSpeedBonus     = 5
)

// ScoreAnswer computes the base score for one submitted answer. Pure and
// deterministic; the speed bonus is the caller's concern. Absent, empty, or
// malformed answers always score 0.
func ScoreAnswer(q internal.Question, ans internal.SubmittedAnswer) int {
	switch q.Type {
	case internal.QuestionSingleChoice:
		if ans.Option == "" {
			return 0
		}
		for _, o := range q.Options {
			if o.IsCorrect && o.Id == ans.Option {
				return fullScore
			}
		}
		return 0

	case internal.QuestionMultipleChoice:
		if len(ans.Options) == 0 {
			return 0
		}
		correct := make(map[string]bool, len(q.Options))
		valid := make(map[string]bool, len(q.Options))
		for _, o := range q.Options {
			valid[o.Id] = true
			if o.IsCorrect {
				correct[o.Id] = true
			}
		}
		score := 0
		seen := make(map[string]bool, len(ans.Options))
		for _, id := range ans.Options {
			if seen[id] || !valid[id] {
				continue
			}
			seen[id] = true
			if correct[id] {
				score += multiCorrectGain
			} else {
				score -= multiWrongPenalty
			}
		}
		return max(score, 0)

	case internal.QuestionOrdering:
		if len(ans.Options) != len(q.Options) {
			return 0
		}
		want := make([]string, 0, len(q.Options))
		for _, o := range q.Options {
			want = append(want, o.Id)
		}
		if slices.Equal(ans.Options, want) {
			return fullScore
		}
		return 0

	case internal.QuestionFreeText:
		candidate := utils.NormalizeAnswer(ans.Text)
		if candidate == "" {
			return 0
		}
		for _, accepted := range q.Accepted {
			if candidate == utils.NormalizeAnswer(accepted) {
				return fullScore
			}
		}
		return 0
	}
	return 0
}

// SpeedBonus rewards correct answers submitted before the limit elapses,
// proportional to time remaining, clamped to [0, 5].
func SpeedBonus(base int, elapsed, limit time.Duration) int {
	if base <= 0 || limit <= 0 || elapsed >= limit {
		return 0
	}
	bonus := int(math.Round(float64(limit-elapsed) / float64(limit) * maxSpeedBonus))
	if bonus < 0 {
		return 0
	}
	return min(bonus, maxSpeedBonus)
}
