package domain

import (
	"iter"
	"slices"
)

// GroupAccuracy is the accuracy for one team or conference.
type GroupAccuracy struct {
	Key      string  `json:"key"`
	Attempts int     `json:"attempts"`
	Correct  int     `json:"correct"`
	Accuracy float64 `json:"accuracy"`
}

// Breakdown groups answers by one attribute. Best and Worst only consider
// groups with enough attempts and are nil when none qualify.
type Breakdown struct {
	Groups []GroupAccuracy `json:"groups"`
	Best   *GroupAccuracy  `json:"best,omitempty"`
	Worst  *GroupAccuracy  `json:"worst,omitempty"`
}

// MissedPlayer counts how often a player's origin was answered wrong.
type MissedPlayer struct {
	PlayerName string `json:"playerName"`
	Attempts   int    `json:"attempts"`
	Misses     int    `json:"misses"`
}

// TrendPoint is one answer of the recent window.
type TrendPoint struct {
	Correct bool `json:"correct"`
}

// StatsReport summarises every practice answer of one display name.
type StatsReport struct {
	DisplayName                 string         `json:"displayName"`
	TotalQuestions              int            `json:"totalQuestions"`
	CorrectCount                int            `json:"correctCount"`
	OverallAccuracy             float64        `json:"overallAccuracy"`
	AccuracyByTeam              Breakdown      `json:"accuracyByTeam"`
	AccuracyByNBAConference     Breakdown      `json:"accuracyByNbaConference"`
	AccuracyByCollegeConference Breakdown      `json:"accuracyByCollegeConference"`
	MostMissedPlayers           []MissedPlayer `json:"mostMissedPlayers"`
	Recent                      []TrendPoint   `json:"recentTrend"`
}

// Clone returns a deep copy.
func (r StatsReport) Clone() StatsReport {
	c := r
	c.AccuracyByTeam = r.AccuracyByTeam.Clone()
	c.AccuracyByNBAConference = r.AccuracyByNBAConference.Clone()
	c.AccuracyByCollegeConference = r.AccuracyByCollegeConference.Clone()
	c.MostMissedPlayers = slices.Clone(r.MostMissedPlayers)
	c.Recent = slices.Clone(r.Recent)
	return c
}

// Clone returns a deep copy.
func (b Breakdown) Clone() Breakdown {
	c := Breakdown{Groups: slices.Clone(b.Groups)}
	if b.Best != nil {
		best := *b.Best
		c.Best = &best
	}
	if b.Worst != nil {
		worst := *b.Worst
		c.Worst = &worst
	}
	return c
}

// Trend yields the recent window oldest first. Every call starts over.
func (r StatsReport) Trend() iter.Seq[bool] {
	recent := r.Recent
	return func(yield func(bool) bool) {
		for _, p := range recent {
			if !yield(p.Correct) {
				return
			}
		}
	}
}
