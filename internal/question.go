package internal

type QuestionType string

const (
	QuestionSingleChoice   QuestionType = "single-choice"
	QuestionMultipleChoice QuestionType = "multiple-choice"
	QuestionOrdering       QuestionType = "ordering"
	QuestionFreeText       QuestionType = "free-text"
)

// Option is one selectable answer of a choice/ordering question. IsCorrect is
// never sent to clients before the question ends.
type Option struct {
	Id        string `json:"id"`
	Text      string `json:"text"`
	Image     string `json:"image,omitempty"`
	IsCorrect bool   `json:"is_correct"`
}

// Question is one entry of a quiz definition. The orchestrator treats it as
// opaque, already-validated content supplied by the quiz store.
type Question struct {
	Id        string       `json:"id"`
	Type      QuestionType `json:"type"`
	Text      string       `json:"text"`
	Media     string       `json:"media,omitempty"` // image/audio/video URL
	TimeLimit int          `json:"time_limit"`      // seconds, 0 = default
	Options   []Option     `json:"options,omitempty"`
	Accepted  []string     `json:"accepted,omitempty"` // free-text answers
}

// SubmittedAnswer is the tagged answer variant. Exactly one field is
// meaningful for a given question type: Option for single-choice, Options for
// multiple-choice and ordering, Text for free-text.
type SubmittedAnswer struct {
	Option  string   `json:"option,omitempty"`
	Options []string `json:"options,omitempty"`
	Text    string   `json:"text,omitempty"`
}

// CorrectAnswer carries the canonical correct-answer identifiers revealed at
// end of question: option ids for choice/ordering types, accepted strings for
// free-text.
type CorrectAnswer struct {
	Options []string `json:"options,omitempty"`
	Texts   []string `json:"texts,omitempty"`
}

// OptionView is an Option with the correctness flag stripped.
type OptionView struct {
	Id    string `json:"id"`
	Text  string `json:"text"`
	Image string `json:"image,omitempty"`
}

// QuestionView is what clients see while a question is open.
type QuestionView struct {
	Id        string       `json:"id"`
	Type      QuestionType `json:"type"`
	Text      string       `json:"text"`
	Media     string       `json:"media,omitempty"`
	TimeLimit int          `json:"time_limit"`
	Options   []OptionView `json:"options,omitempty"`
}

// View strips the answer key from a question for broadcasting.
func (q Question) View() QuestionView {
	opts := make([]OptionView, 0, len(q.Options))
	for _, o := range q.Options {
		opts = append(opts, OptionView{Id: o.Id, Text: o.Text, Image: o.Image})
	}
	return QuestionView{
		Id:        q.Id,
		Type:      q.Type,
		Text:      q.Text,
		Media:     q.Media,
		TimeLimit: q.TimeLimit,
		Options:   opts,
	}
}

// AnswerKey returns the canonical correct-answer identifiers for q. For
// ordering questions the canonical sequence is the definition's option order.
func (q Question) AnswerKey() CorrectAnswer {
	switch q.Type {
	case QuestionFreeText:
		return CorrectAnswer{Texts: append([]string(nil), q.Accepted...)}
	case QuestionOrdering:
		ids := make([]string, 0, len(q.Options))
		for _, o := range q.Options {
			ids = append(ids, o.Id)
		}
		return CorrectAnswer{Options: ids}
	default:
		ids := make([]string, 0, len(q.Options))
		for _, o := range q.Options {
			if o.IsCorrect {
				ids = append(ids, o.Id)
			}
		}
		return CorrectAnswer{Options: ids}
	}
}
