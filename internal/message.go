package internal

// Message is the wire envelope for every inbound action and outbound event.
type Message[T any] struct {
	Type string `json:"type"`
	Data T      `json:"data"`
}

// Participant is the identity supplied by the caller at create/join time.
type Participant struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
}

// Inbound action payloads.

type CreateRoomData struct {
	QuizRef      string      `json:"quiz_ref"`
	Host         Participant `json:"host"`
	HostAsPlayer bool        `json:"host_as_player"`
}

type JoinRoomData struct {
	RoomID      string      `json:"room_id"`
	Participant Participant `json:"participant"`
}

type RoomActionData struct {
	RoomID   string `json:"room_id"`
	ActingID string `json:"acting_id"`
}

type SubmitAnswerData struct {
	Answer SubmittedAnswer `json:"answer"`
}

type KickPlayerData struct {
	RoomID   string `json:"room_id"`
	ActingID string `json:"acting_id"`
	TargetID string `json:"target_id"`
}

type HostReconnectData struct {
	RoomID string `json:"room_id"`
	HostID string `json:"host_id"`
}

// Outbound event payloads.

// RoomSnapshot is the state view broadcast on every room change. It never
// carries the correct-answer flags.
type RoomSnapshot struct {
	RoomID            string           `json:"room_id"`
	HostID            string           `json:"host_id"`
	IsStarted         bool             `json:"is_started"`
	Paused            bool             `json:"paused"`
	CurrentQuestion   int              `json:"current_question"`
	QuestionTimeLimit int              `json:"question_time_limit"`
	QuestionStartTime int64            `json:"question_start_time_ms"`
	Players           []PlayerSnapshot `json:"players"`
}

type PlayerSnapshot struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Avatar      string `json:"avatar"`
	Score       int    `json:"score"`
	IsHost      bool   `json:"is_host"`
	IsConnected bool   `json:"is_connected"`
}

type NewQuestionData struct {
	Question          QuestionView `json:"question"`
	Index             int          `json:"index"`
	TimeLimit         int          `json:"time_limit"`
	QuestionStartTime int64        `json:"question_start_time_ms"`
}

// AnswerResultData is the private acknowledgment to a submitting connection.
type AnswerResultData struct {
	Correct       bool             `json:"correct"`
	Score         int              `json:"score"`
	CorrectAnswer CorrectAnswer    `json:"correct_answer"`
	PlayerAnswer  *SubmittedAnswer `json:"player_answer,omitempty"`
}

type PlayerResult struct {
	PlayerID string           `json:"player_id"`
	Name     string           `json:"name"`
	Answered bool             `json:"answered"`
	Answer   *SubmittedAnswer `json:"answer,omitempty"`
	Score    int              `json:"score"`
}

type QuestionEndedData struct {
	Results       []PlayerResult `json:"results"`
	CorrectAnswer CorrectAnswer  `json:"correct_answer"`
	Index         int            `json:"index"`
}

type ScoreboardData struct {
	Players []PlayerSnapshot `json:"players"`
}

type GameEndedData struct {
	FinalScores []FinalScore `json:"final_scores"`
}

type PlayerKickedData struct {
	PlayerID string `json:"player_id"`
}

type ErrorData struct {
	Message string `json:"message"`
}
