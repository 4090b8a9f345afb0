package database

import (
	"fmt"
	"testing"
	"time"

	"github.com/gavel-oj/gavel/internal/database/models"
	"github.com/gavel-oj/gavel/internal/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, Migrate(db))
	return db
}

func seedContest(t *testing.T, db *gorm.DB) *models.Contest {
	t.Helper()
	start := time.Now().Add(-time.Hour)
	contest := models.Contest{
		ID:      "contest1",
		Slug:    "test-contest",
		Title:   "Test Contest",
		StartAt: start,
		EndAt:   start.Add(5 * time.Hour),
	}
	require.NoError(t, CreateContest(db, &contest))
	return &contest
}

func TestSetContestFrozenAtCompareAndSwap(t *testing.T) {
	db := setupTestDB(t)
	contest := seedContest(t, db)

	now := time.Now()
	require.NoError(t, SetContestFrozenAt(db, contest.ID, contest.Version, &now))

	reloaded, err := GetContest(db, contest.ID)
	require.NoError(t, err)
	require.NotNil(t, reloaded.FrozenAt)
	assert.Equal(t, contest.Version+1, reloaded.Version)

	// A writer holding the stale version loses.
	err = SetContestFrozenAt(db, contest.ID, contest.Version, nil)
	assert.ErrorIs(t, err, util.ErrConflict)

	// The current version wins and clears the freeze.
	require.NoError(t, SetContestFrozenAt(db, contest.ID, reloaded.Version, nil))
	reloaded, err = GetContest(db, contest.ID)
	require.NoError(t, err)
	assert.Nil(t, reloaded.FrozenAt)
}

func TestReplaceFrozenSubmissions(t *testing.T) {
	db := setupTestDB(t)
	contest := seedContest(t, db)

	subs := []models.Submission{
		{ID: "s1", CreatedAt: contest.StartAt.Add(10 * time.Minute), ContestID: contest.ID,
			MemberID: "m1", ProblemID: "p1", Status: models.SubmissionJudged, Answer: models.AnswerAccepted},
		{ID: "s2", CreatedAt: contest.StartAt.Add(20 * time.Minute), ContestID: contest.ID,
			MemberID: "m1", ProblemID: "p2", Status: models.SubmissionJudging, Answer: models.AnswerNone},
	}
	require.NoError(t, ReplaceFrozenSubmissions(db, contest.ID, subs))

	judged, err := ListJudgedFrozenSubmissions(db, contest.ID)
	require.NoError(t, err)
	require.Len(t, judged, 1)
	assert.Equal(t, "s1", judged[0].ID)
	assert.Equal(t, contest.StartAt.Add(10*time.Minute).Unix(), judged[0].CreatedAt.Unix())

	// A later freeze replaces the snapshot wholesale.
	require.NoError(t, ReplaceFrozenSubmissions(db, contest.ID, subs[:1]))
	var count int64
	require.NoError(t, db.Model(&models.FrozenSubmission{}).Where("contest_id = ?", contest.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestGetContestMemberScoping(t *testing.T) {
	db := setupTestDB(t)
	contest := seedContest(t, db)

	other := models.Contest{
		ID: "contest2", Slug: "other", Title: "Other",
		StartAt: contest.StartAt, EndAt: contest.EndAt,
	}
	require.NoError(t, CreateContest(db, &other))

	members := []models.Member{
		{ID: "alice", Name: "Alice", Username: "alice", ContestID: &contest.ID, Type: models.MemberContestant},
		{ID: "root", Name: "Root", Username: "root", Type: models.MemberRoot},
	}
	for i := range members {
		require.NoError(t, CreateMember(db, &members[i]))
	}

	// Members resolve only within their own contest.
	got, err := GetContestMember(db, "alice", contest.ID)
	require.NoError(t, err)
	assert.Equal(t, models.MemberContestant, got.Type)

	_, err = GetContestMember(db, "alice", other.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	// Platform-wide members resolve in every contest.
	got, err = GetContestMember(db, "root", contest.ID)
	require.NoError(t, err)
	assert.Equal(t, models.MemberRoot, got.Type)
	got, err = GetContestMember(db, "root", other.ID)
	require.NoError(t, err)
	assert.Equal(t, models.MemberRoot, got.Type)
}

func TestMemberNameUniquePerContest(t *testing.T) {
	db := setupTestDB(t)
	contest := seedContest(t, db)

	other := models.Contest{
		ID: "contest2", Slug: "other", Title: "Other",
		StartAt: contest.StartAt, EndAt: contest.EndAt,
	}
	require.NoError(t, CreateContest(db, &other))

	first := models.Member{ID: "m1", ContestID: &contest.ID, Name: "Alice", Username: "alice1", Type: models.MemberContestant}
	require.NoError(t, CreateMember(db, &first))

	dup := models.Member{ID: "m2", ContestID: &contest.ID, Name: "Alice", Username: "alice2", Type: models.MemberContestant}
	assert.Error(t, CreateMember(db, &dup), "duplicate name within a contest must be rejected")

	// The same name is fine in another contest.
	elsewhere := models.Member{ID: "m3", ContestID: &other.ID, Name: "Alice", Username: "alice3", Type: models.MemberContestant}
	require.NoError(t, CreateMember(db, &elsewhere))
}

func TestDeleteContestRemovesSubmissions(t *testing.T) {
	db := setupTestDB(t)
	contest := seedContest(t, db)

	sub := models.Submission{
		ID: "s1", ContestID: contest.ID, MemberID: "m1", ProblemID: "p1",
		Status: models.SubmissionJudged, Answer: models.AnswerAccepted,
	}
	require.NoError(t, CreateSubmission(db, &sub))
	require.NoError(t, ReplaceFrozenSubmissions(db, contest.ID, []models.Submission{sub}))

	require.NoError(t, DeleteContest(db, contest.ID))

	_, err := GetContest(db, contest.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	var subCount, frozenCount int64
	require.NoError(t, db.Model(&models.Submission{}).Where("contest_id = ?", contest.ID).Count(&subCount).Error)
	require.NoError(t, db.Model(&models.FrozenSubmission{}).Where("contest_id = ?", contest.ID).Count(&frozenCount).Error)
	assert.EqualValues(t, 0, subCount)
	assert.EqualValues(t, 0, frozenCount)
}
