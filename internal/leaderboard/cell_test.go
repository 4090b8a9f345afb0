package leaderboard

import (
	"fmt"
	"testing"
	"time"

	"github.com/gavel-oj/gavel/internal/database/models"
	"github.com/stretchr/testify/assert"
)

var (
	testStart  = time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	testMember = models.Member{ID: "member1", Name: "Alice", Type: models.MemberContestant}
	testProb   = models.Problem{ID: "prob-a", Letter: "A", Color: "#ff0000"}
)

func sub(answer models.SubmissionAnswer, minutesFromStart int) models.Submission {
	return models.Submission{
		ID:        fmt.Sprintf("%s-%d", answer, minutesFromStart),
		CreatedAt: testStart.Add(time.Duration(minutesFromStart) * time.Minute),
		MemberID:  testMember.ID,
		ProblemID: testProb.ID,
		Status:    models.SubmissionJudged,
		Answer:    answer,
	}
}

func TestBuildCellNoSubmissions(t *testing.T) {
	cell := BuildCell(&testMember, &testProb, nil, testStart, 10)

	assert.False(t, cell.IsAccepted)
	assert.Nil(t, cell.AcceptedAt)
	assert.Equal(t, 0, cell.WrongSubmissions)
	assert.Equal(t, 0, cell.Penalty)
	assert.Equal(t, "A", cell.ProblemLetter)
}

func TestBuildCellSingleAcceptance(t *testing.T) {
	cell := BuildCell(&testMember, &testProb, []models.Submission{
		sub(models.AnswerAccepted, 30),
	}, testStart, 10)

	assert.True(t, cell.IsAccepted)
	assert.Equal(t, 0, cell.WrongSubmissions)
	assert.Equal(t, 30, cell.Penalty)
}

func TestBuildCellWrongOnlyHasNoPenalty(t *testing.T) {
	cell := BuildCell(&testMember, &testProb, []models.Submission{
		sub(models.AnswerWrongAnswer, 5),
		sub(models.AnswerTimeLimitExceeded, 12),
		sub(models.AnswerRuntimeError, 40),
	}, testStart, 10)

	assert.False(t, cell.IsAccepted)
	assert.Equal(t, 3, cell.WrongSubmissions)
	assert.Equal(t, 0, cell.Penalty)
}

func TestBuildCellWrongThenAccepted(t *testing.T) {
	cell := BuildCell(&testMember, &testProb, []models.Submission{
		sub(models.AnswerWrongAnswer, 10),
		sub(models.AnswerAccepted, 20),
	}, testStart, 10)

	assert.True(t, cell.IsAccepted)
	assert.Equal(t, 1, cell.WrongSubmissions)
	assert.Equal(t, 30, cell.Penalty) // 20 elapsed + 1 wrong * 10
}

func TestBuildCellIgnoresSubmissionsAfterAcceptance(t *testing.T) {
	cell := BuildCell(&testMember, &testProb, []models.Submission{
		sub(models.AnswerWrongAnswer, 10),
		sub(models.AnswerAccepted, 20),
		sub(models.AnswerWrongAnswer, 25),
		sub(models.AnswerAccepted, 50),
	}, testStart, 10)

	assert.True(t, cell.IsAccepted)
	assert.Equal(t, 1, cell.WrongSubmissions)
	assert.Equal(t, testStart.Add(20*time.Minute), *cell.AcceptedAt)
	assert.Equal(t, 30, cell.Penalty)
}

func TestBuildCellSkipsPendingAndFailed(t *testing.T) {
	pending := sub(models.AnswerNone, 5)
	pending.Status = models.SubmissionJudging
	failed := sub(models.AnswerNone, 8)
	failed.Status = models.SubmissionFailed

	cell := BuildCell(&testMember, &testProb, []models.Submission{
		pending,
		failed,
		sub(models.AnswerAccepted, 15),
	}, testStart, 10)

	assert.True(t, cell.IsAccepted)
	assert.Equal(t, 0, cell.WrongSubmissions)
	assert.Equal(t, 15, cell.Penalty)
}

func TestBuildCellInputOrderDoesNotMatter(t *testing.T) {
	cell := BuildCell(&testMember, &testProb, []models.Submission{
		sub(models.AnswerAccepted, 20),
		sub(models.AnswerWrongAnswer, 10),
	}, testStart, 10)

	assert.Equal(t, 1, cell.WrongSubmissions)
	assert.Equal(t, 30, cell.Penalty)
}

func TestComputePenaltyFloorsWholeMinutes(t *testing.T) {
	acceptedAt := testStart.Add(20*time.Minute + 59*time.Second)
	assert.Equal(t, 20, computePenalty(0, testStart, &acceptedAt, 10))
}
