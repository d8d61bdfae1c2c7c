package entity

import "time"

const (
	StatusRunning  = "running"
	StatusFinished = "finished"
	StatusCanceled = "canceled"
)

// Tally counts episode outcomes from the cross player's point of view.
type Tally struct {
	CrossWins   int `json:"cross_wins"`
	NoughtsWins int `json:"noughts_wins"`
	Ties        int `json:"ties"`
}

func (that *Tally) Add(winner Marker) {
	switch winner {
	case Cross:
		that.CrossWins++
	case Noughts:
		that.NoughtsWins++
	default:
		that.Ties++
	}
}

func (that Tally) Games() int {
	return that.CrossWins + that.NoughtsWins + that.Ties
}

// Window is the report over a contiguous block of episodes.
type Window struct {
	FromEpisode    int     `json:"from_episode"`
	ToEpisode      int     `json:"to_episode"`
	Tally          Tally   `json:"tally"`
	CrossWinRate   float64 `json:"cross_win_rate"`
	NoughtsWinRate float64 `json:"noughts_win_rate"`
	Elo            float64 `json:"elo"`
	EloError       float64 `json:"elo_error"`
}

// Run is the report of one training session. Learned values are never part of it.
type Run struct {
	ID        string    `json:"id"`
	Status    string    `json:"status"`
	StartedAt time.Time `json:"started_at"`
	Epochs    int       `json:"epochs"`
	Played    int       `json:"played"`
	Totals    Tally     `json:"totals"`
	Windows   []Window  `json:"windows,omitempty"`
}

func NewRun(id string, epochs int, startedAt time.Time) *Run {
	return &Run{
		ID:        id,
		Status:    StatusRunning,
		StartedAt: startedAt,
		Epochs:    epochs,
	}
}

func (that *Run) Record(winner Marker) {
	that.Played++
	that.Totals.Add(winner)
}

func (that *Run) Finish() {
	that.Status = StatusFinished
}

func (that *Run) Cancel() {
	that.Status = StatusCanceled
}

func (that *Run) IsFinished() bool {
	return that.Status == StatusFinished
}
