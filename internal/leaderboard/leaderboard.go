// Package leaderboard derives contest standings from judged submissions
// and owns the freeze/unfreeze lifecycle of a contest's scoreboard.
package leaderboard

import "time"

// Cell is one contestant's result for one problem.
type Cell struct {
	MemberID         string     `json:"member_id"`
	ProblemID        string     `json:"problem_id"`
	ProblemLetter    string     `json:"problem_letter"`
	ProblemColor     string     `json:"problem_color"`
	IsAccepted       bool       `json:"is_accepted"`
	AcceptedAt       *time.Time `json:"accepted_at"`
	WrongSubmissions int        `json:"wrong_submissions"`
	Penalty          int        `json:"penalty"`
}

// Row is one contestant's full leaderboard entry.
type Row struct {
	MemberID   string `json:"member_id"`
	MemberName string `json:"member_name"`
	Score      int    `json:"score"`
	Penalty    int    `json:"penalty"`
	Cells      []Cell `json:"cells"`
}

// Leaderboard is the ranked standings of a contest at a point in time. It
// is recomputed on every request and never persisted.
type Leaderboard struct {
	ContestID      string    `json:"contest_id"`
	ContestStartAt time.Time `json:"contest_start_at"`
	IsFrozen       bool      `json:"is_frozen"`
	IssuedAt       time.Time `json:"issued_at"`
	Rows           []Row     `json:"rows"`
}
