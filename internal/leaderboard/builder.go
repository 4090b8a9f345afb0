package leaderboard

import (
	"errors"
	"fmt"
	"time"

	"github.com/gavel-oj/gavel/internal/database"
	"github.com/gavel-oj/gavel/internal/database/models"
	"github.com/gavel-oj/gavel/internal/util"
	"gorm.io/gorm"
)

// Builder assembles leaderboards for viewers. All data is loaded up front
// and handed to the pure cell/row helpers; nothing here mutates state.
type Builder struct {
	db           *gorm.DB
	wrongPenalty int
}

func NewBuilder(db *gorm.DB, wrongPenaltyMinutes int) *Builder {
	return &Builder{db: db, wrongPenalty: wrongPenaltyMinutes}
}

type pairKey struct {
	memberID  string
	problemID string
}

// Build computes the full leaderboard of a contest as seen by the given
// viewer at the given instant. An empty viewerID means an anonymous
// (unprivileged) viewer.
func (b *Builder) Build(contestID, viewerID string, now time.Time) (*Leaderboard, error) {
	contest, privileged, err := b.authorize(contestID, viewerID, now)
	if err != nil {
		return nil, err
	}

	contestants, err := database.ListContestants(b.db, contest.ID)
	if err != nil {
		return nil, err
	}

	subs, err := b.loadScoringSubmissions(contest, privileged, now)
	if err != nil {
		return nil, err
	}

	byPair := make(map[pairKey][]models.Submission)
	for _, sub := range subs {
		key := pairKey{sub.MemberID, sub.ProblemID}
		byPair[key] = append(byPair[key], sub)
	}

	rows := make([]Row, 0, len(contestants))
	for i := range contestants {
		member := &contestants[i]
		cells := make([]Cell, 0, len(contest.Problems))
		for j := range contest.Problems {
			problem := &contest.Problems[j]
			pairSubs := byPair[pairKey{member.ID, problem.ID}]
			cells = append(cells, BuildCell(member, problem, pairSubs, contest.StartAt, b.wrongPenalty))
		}
		rows = append(rows, buildRow(member, cells))
	}
	rankRows(rows)

	return &Leaderboard{
		ContestID:      contest.ID,
		ContestStartAt: contest.StartAt,
		IsFrozen:       contest.IsFrozen(now),
		IssuedAt:       now,
		Rows:           rows,
	}, nil
}

// BuildMemberCell resolves a single (member, problem) cell under the same
// authorization rules as Build. It backs incremental push updates, so a
// judged submission does not force a full board recompute on every client.
func (b *Builder) BuildMemberCell(contestID, viewerID, targetMemberID, problemID string, now time.Time) (*Cell, error) {
	contest, privileged, err := b.authorize(contestID, viewerID, now)
	if err != nil {
		return nil, err
	}

	target, err := database.GetContestMember(b.db, targetMemberID, contest.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("member %s: %w", targetMemberID, util.ErrNotFound)
		}
		return nil, err
	}

	var problem *models.Problem
	for i := range contest.Problems {
		if contest.Problems[i].ID == problemID {
			problem = &contest.Problems[i]
			break
		}
	}
	if problem == nil {
		return nil, fmt.Errorf("problem %s: %w", problemID, util.ErrNotFound)
	}

	subs, err := b.loadScoringSubmissions(contest, privileged, now)
	if err != nil {
		return nil, err
	}

	var pairSubs []models.Submission
	for _, sub := range subs {
		if sub.MemberID == target.ID && sub.ProblemID == problem.ID {
			pairSubs = append(pairSubs, sub)
		}
	}

	cell := BuildCell(target, problem, pairSubs, contest.StartAt, b.wrongPenalty)
	return &cell, nil
}

// authorize loads the contest and viewer and enforces the visibility rule:
// a contest that has not started is only visible to ADMIN/ROOT members.
func (b *Builder) authorize(contestID, viewerID string, now time.Time) (*models.Contest, bool, error) {
	contest, err := database.GetContest(b.db, contestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, fmt.Errorf("contest %s: %w", contestID, util.ErrNotFound)
		}
		return nil, false, err
	}

	privileged := false
	if viewerID != "" {
		viewer, err := database.GetContestMember(b.db, viewerID, contest.ID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, false, fmt.Errorf("member %s: %w", viewerID, util.ErrNotFound)
			}
			return nil, false, err
		}
		privileged = viewer.IsPrivileged()
	}

	if !contest.HasStarted(now) && !privileged {
		return nil, false, fmt.Errorf("contest has not started: %w", util.ErrForbidden)
	}

	return contest, privileged, nil
}

// loadScoringSubmissions picks the submission source for a viewer: frozen
// snapshots while the leaderboard is frozen and the viewer is not
// privileged, live data otherwise.
func (b *Builder) loadScoringSubmissions(contest *models.Contest, privileged bool, now time.Time) ([]models.Submission, error) {
	if contest.IsFrozen(now) && !privileged {
		return database.ListJudgedFrozenSubmissions(b.db, contest.ID)
	}
	return database.ListJudgedSubmissions(b.db, contest.ID)
}
