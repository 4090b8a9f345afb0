package leaderboard

import (
	"testing"
	"time"

	"github.com/gavel-oj/gavel/internal/database"
	"github.com/gavel-oj/gavel/internal/database/models"
	"github.com/gavel-oj/gavel/internal/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFreezeRequiresPrivilegedMember(t *testing.T) {
	db := setupTestDB(t)
	contest := seedContest(t, db)

	_, err := Freeze(db, contest.ID, "bob", time.Now())
	assert.ErrorIs(t, err, util.ErrForbidden)

	_, err = Freeze(db, contest.ID, "ghost", time.Now())
	assert.ErrorIs(t, err, util.ErrNotFound)

	_, err = Freeze(db, "nope", "admin", time.Now())
	assert.ErrorIs(t, err, util.ErrNotFound)
}

func TestFreezeSnapshotsSubmissions(t *testing.T) {
	db := setupTestDB(t)
	contest := seedContest(t, db)

	now := time.Now()
	frozen, err := Freeze(db, contest.ID, "admin", now)
	require.NoError(t, err)
	require.NotNil(t, frozen.FrozenAt)

	reloaded, err := database.GetContest(db, contest.ID)
	require.NoError(t, err)
	require.NotNil(t, reloaded.FrozenAt)

	snapshots, err := database.ListJudgedFrozenSubmissions(db, contest.ID)
	require.NoError(t, err)
	live, err := database.ListJudgedSubmissions(db, contest.ID)
	require.NoError(t, err)
	assert.Len(t, snapshots, len(live))
}

func TestFreezeTwiceIsForbidden(t *testing.T) {
	db := setupTestDB(t)
	contest := seedContest(t, db)

	_, err := Freeze(db, contest.ID, "admin", time.Now())
	require.NoError(t, err)

	_, err = Freeze(db, contest.ID, "admin", time.Now())
	assert.ErrorIs(t, err, util.ErrForbidden)
}

func TestUnfreezeRestoresLiveView(t *testing.T) {
	db := setupTestDB(t)
	contest := seedContest(t, db)
	builder := NewBuilder(db, 10)

	_, err := Unfreeze(db, contest.ID, "admin", time.Now())
	assert.ErrorIs(t, err, util.ErrForbidden, "unfreezing a live contest must fail")

	_, err = Freeze(db, contest.ID, "admin", time.Now())
	require.NoError(t, err)

	late := models.Submission{
		ID:        "late",
		CreatedAt: contest.StartAt.Add(2 * time.Hour),
		ContestID: contest.ID,
		MemberID:  "dave",
		ProblemID: "prob-a",
		Language:  models.LanguageCpp17,
		Status:    models.SubmissionJudged,
		Answer:    models.AnswerAccepted,
	}
	require.NoError(t, database.CreateSubmission(db, &late))

	thawed, err := Unfreeze(db, contest.ID, "admin", time.Now())
	require.NoError(t, err)
	assert.Nil(t, thawed.FrozenAt)

	board, err := builder.Build(contest.ID, "", time.Now())
	require.NoError(t, err)
	assert.False(t, board.IsFrozen)
	assert.Equal(t, 1, findRow(t, board.Rows, "dave").Score)
}

func TestSetContestFrozenAtVersionConflict(t *testing.T) {
	db := setupTestDB(t)
	contest := seedContest(t, db)

	now := time.Now()
	err := database.SetContestFrozenAt(db, contest.ID, contest.Version+5, &now)
	assert.ErrorIs(t, err, util.ErrConflict)

	// The losing writer must not have changed anything.
	reloaded, err := database.GetContest(db, contest.ID)
	require.NoError(t, err)
	assert.Nil(t, reloaded.FrozenAt)
}

func TestAutoFreeze(t *testing.T) {
	db := setupTestDB(t)
	contest := seedContest(t, db)

	due := time.Now().Add(-time.Minute)
	contest.AutoFreezeAt = &due
	require.NoError(t, database.UpdateContest(db, contest))

	AutoFreeze(db, time.Now())

	reloaded, err := database.GetContest(db, contest.ID)
	require.NoError(t, err)
	assert.NotNil(t, reloaded.FrozenAt)

	// A second pass is a no-op for the already frozen contest.
	AutoFreeze(db, time.Now())
}
