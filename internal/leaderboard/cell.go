package leaderboard

import (
	"sort"
	"time"

	"github.com/gavel-oj/gavel/internal/database/models"
)

// firstAcceptance scans judged submissions in creation order and returns
// the creation time of the earliest accepted one, together with the number
// of wrong submissions made strictly before it. If nothing was accepted,
// every judged wrong submission counts.
func firstAcceptance(subs []models.Submission) (acceptedAt *time.Time, wrong int) {
	for _, sub := range subs {
		if sub.Status != models.SubmissionJudged || sub.Answer == models.AnswerNone {
			continue
		}
		if sub.Answer == models.AnswerAccepted {
			at := sub.CreatedAt
			return &at, wrong
		}
		wrong++
	}
	return nil, wrong
}

// computePenalty returns the penalty of a single cell. Problems that were
// never accepted contribute no penalty no matter how many wrong attempts
// were made; accepted problems cost the whole minutes elapsed since
// contest start plus wrongPenalty per prior wrong submission.
func computePenalty(wrong int, startAt time.Time, acceptedAt *time.Time, wrongPenalty int) int {
	if acceptedAt == nil {
		return 0
	}
	elapsed := int(acceptedAt.Sub(startAt).Minutes())
	return elapsed + wrong*wrongPenalty
}

// BuildCell reduces one member's submission history for one problem into a
// leaderboard cell. The submissions must already be scoped to the
// (member, problem) pair; they are re-sorted by creation time so input
// order does not matter.
func BuildCell(member *models.Member, problem *models.Problem, subs []models.Submission, startAt time.Time, wrongPenalty int) Cell {
	ordered := make([]models.Submission, len(subs))
	copy(ordered, subs)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].CreatedAt.Before(ordered[j].CreatedAt)
	})

	acceptedAt, wrong := firstAcceptance(ordered)

	return Cell{
		MemberID:         member.ID,
		ProblemID:        problem.ID,
		ProblemLetter:    problem.Letter,
		ProblemColor:     problem.Color,
		IsAccepted:       acceptedAt != nil,
		AcceptedAt:       acceptedAt,
		WrongSubmissions: wrong,
		Penalty:          computePenalty(wrong, startAt, acceptedAt, wrongPenalty),
	}
}
