package domain

import "time"

// OriginType classifies where a player came from.
type OriginType string

const (
	OriginCollege OriginType = "College"
	OriginCountry OriginType = "Country"
	OriginOther   OriginType = "Other"
)

// Player is one immutable catalog record.
type Player struct {
	Name              string     `json:"name"`
	Origin            string     `json:"origin"`
	Type              OriginType `json:"type"`
	Team              string     `json:"team,omitempty"`
	NBAConference     string     `json:"nba_conference,omitempty"`
	CollegeConference string     `json:"college_conference,omitempty"`
	AlternateAnswer   string     `json:"alternate_answer,omitempty"`
	Difficulty        Difficulty `json:"difficulty,omitempty"`
}

// Question is a single prompt handed to the player.
type Question struct {
	Player Player `json:"player"`
}

// Prompt is the text shown to the player.
func (q Question) Prompt() string { return q.Player.Name }

// CorrectAnswer is the origin the player is expected to name.
func (q Question) CorrectAnswer() string { return q.Player.Origin }

// Status is the state of a quiz session.
type Status string

const (
	StatusActive           Status = "active"
	StatusAwaitingContinue Status = "awaiting_continue"
	StatusFinished         Status = "finished"
)

// LeaderboardEntry is one recorded, finished session. Entries are never updated.
type LeaderboardEntry struct {
	ID          int64      `json:"id"`
	Mode        Mode       `json:"mode"`
	Difficulty  Difficulty `json:"difficulty,omitempty"`
	DisplayName string     `json:"displayName"`
	Metric      int        `json:"metric"`
	Total       int        `json:"total"`
	Timestamp   time.Time  `json:"timestamp"`
}

// LeaderboardQuery selects the entries of one board.
type LeaderboardQuery struct {
	Mode       Mode
	Difficulty Difficulty // empty means every difficulty
	Limit      int
}

// AnswerEvent is a single practice-mode answer.
type AnswerEvent struct {
	ID                int64     `json:"id"`
	DisplayName       string    `json:"displayName"`
	PlayerName        string    `json:"playerName"`
	PlayerTeam        string    `json:"playerTeam,omitempty"`
	NBAConference     string    `json:"nbaConference,omitempty"`
	CollegeConference string    `json:"collegeConference,omitempty"`
	Correct           bool      `json:"correct"`
	Timestamp         time.Time `json:"timestamp"`
}
