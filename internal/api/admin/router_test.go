package admin

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gavel-oj/gavel/internal/auth"
	"github.com/gavel-oj/gavel/internal/config"
	"github.com/gavel-oj/gavel/internal/database"
	"github.com/gavel-oj/gavel/internal/database/models"
	"github.com/gavel-oj/gavel/internal/util"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const testSecret = "test-secret"

func setupRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	cfg := &config.Config{}
	cfg.Auth.JWT.Secret = testSecret
	cfg.Scoring.WrongPenaltyMinutes = config.DefaultWrongPenaltyMinutes

	return NewAdminRouter(cfg, db), db
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
	require.NoError(t, database.CreateContest(db, &contest))

	problem := models.Problem{ID: "prob-a", ContestID: contest.ID, Letter: "A", Title: "Apples"}
	require.NoError(t, database.CreateProblem(db, &problem))

	for _, m := range []models.Member{
		{ID: "admin", Name: "Admin", Username: "admin", Type: models.MemberAdmin},
		{ID: "judge", Name: "Judge", Username: "judge", Type: models.MemberJudge},
		{ID: "alice", Name: "Alice", Username: "alice", Type: models.MemberContestant},
	} {
		m.ContestID = &contest.ID
		require.NoError(t, database.CreateMember(db, &m))
	}

	return &contest
}

func tokenFor(t *testing.T, memberID string) string {
	t.Helper()
	token, err := auth.GenerateJWT(memberID, testSecret, 1)
	require.NoError(t, err)
	return token
}

func doJSON(r *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestFreezeEndpoint(t *testing.T) {
	r, db := setupRouter(t)
	contest := seedContest(t, db)
	path := "/api/v1/contests/" + contest.ID + "/leaderboard/freeze"

	// No token at all.
	w := doJSON(r, http.MethodPost, path, "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Contestants never reach the handler.
	w = doJSON(r, http.MethodPost, path, tokenFor(t, "alice"), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// Judges are staff but may not change freeze state.
	w = doJSON(r, http.MethodPost, path, tokenFor(t, "judge"), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(r, http.MethodPost, path, tokenFor(t, "admin"), nil)
	require.Equal(t, http.StatusOK, w.Code)

	reloaded, err := database.GetContest(db, contest.ID)
	require.NoError(t, err)
	assert.NotNil(t, reloaded.FrozenAt)

	// Freezing an already frozen leaderboard fails.
	w = doJSON(r, http.MethodPost, path, tokenFor(t, "admin"), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestUnfreezeEndpoint(t *testing.T) {
	r, db := setupRouter(t)
	contest := seedContest(t, db)
	base := "/api/v1/contests/" + contest.ID + "/leaderboard"

	w := doJSON(r, http.MethodPost, base+"/unfreeze", tokenFor(t, "admin"), nil)
	assert.Equal(t, http.StatusForbidden, w.Code, "cannot unfreeze a live leaderboard")

	w = doJSON(r, http.MethodPost, base+"/freeze", tokenFor(t, "admin"), nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(r, http.MethodPost, base+"/unfreeze", tokenFor(t, "admin"), nil)
	require.Equal(t, http.StatusOK, w.Code)

	reloaded, err := database.GetContest(db, contest.ID)
	require.NoError(t, err)
	assert.Nil(t, reloaded.FrozenAt)
}

func TestLeaderboardFrozenViewByRole(t *testing.T) {
	r, db := setupRouter(t)
	contest := seedContest(t, db)
	base := "/api/v1/contests/" + contest.ID + "/leaderboard"

	w := doJSON(r, http.MethodPost, base+"/freeze", tokenFor(t, "admin"), nil)
	require.Equal(t, http.StatusOK, w.Code)

	// Judged after the freeze, so only ADMIN/ROOT may see it.
	late := models.Submission{
		ID:        "late",
		ContestID: contest.ID,
		MemberID:  "alice",
		ProblemID: "prob-a",
		Language:  models.LanguageCpp17,
		Status:    models.SubmissionJudged,
		Answer:    models.AnswerAccepted,
	}
	require.NoError(t, database.CreateSubmission(db, &late))

	aliceScore := func(token string) float64 {
		w := doJSON(r, http.MethodGet, base, token, nil)
		require.Equal(t, http.StatusOK, w.Code)
		var resp util.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		rows := resp.Data.(map[string]interface{})["rows"].([]interface{})
		for _, raw := range rows {
			row := raw.(map[string]interface{})
			if row["member_id"] == "alice" {
				return row["score"].(float64)
			}
		}
		t.Fatal("row for alice not found")
		return 0
	}

	assert.Equal(t, float64(1), aliceScore(tokenFor(t, "admin")))
	// Judges are staff but not privileged viewers; they see the frozen
	// board like everyone else.
	assert.Equal(t, float64(0), aliceScore(tokenFor(t, "judge")))
}

func TestJudgeSubmission(t *testing.T) {
	r, db := setupRouter(t)
	contest := seedContest(t, db)

	sub := models.Submission{
		ID:        "sub1",
		ContestID: contest.ID,
		MemberID:  "alice",
		ProblemID: "prob-a",
		Language:  models.LanguageCpp17,
		Status:    models.SubmissionJudging,
		Answer:    models.AnswerNone,
	}
	require.NoError(t, database.CreateSubmission(db, &sub))

	w := doJSON(r, http.MethodPost, "/api/v1/submissions/sub1/judge", tokenFor(t, "judge"), gin.H{
		"answer": models.AnswerAccepted,
	})
	require.Equal(t, http.StatusOK, w.Code)

	judged, err := database.GetSubmission(db, "sub1")
	require.NoError(t, err)
	assert.Equal(t, models.SubmissionJudged, judged.Status)
	assert.Equal(t, models.AnswerAccepted, judged.Answer)

	// Judging twice without a rejudge is rejected.
	w = doJSON(r, http.MethodPost, "/api/v1/submissions/sub1/judge", tokenFor(t, "judge"), gin.H{
		"answer": models.AnswerWrongAnswer,
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	// Judges may not override verdicts; admins may.
	w = doJSON(r, http.MethodPost, "/api/v1/submissions/sub1/rejudge", tokenFor(t, "judge"), gin.H{
		"answer": models.AnswerWrongAnswer,
	})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(r, http.MethodPost, "/api/v1/submissions/sub1/rejudge", tokenFor(t, "admin"), gin.H{
		"answer": models.AnswerWrongAnswer,
	})
	require.Equal(t, http.StatusOK, w.Code)

	judged, err = database.GetSubmission(db, "sub1")
	require.NoError(t, err)
	assert.Equal(t, models.AnswerWrongAnswer, judged.Answer)

	w = doJSON(r, http.MethodPost, "/api/v1/submissions/sub1/judge", tokenFor(t, "judge"), gin.H{
		"answer": "NOT_A_VERDICT",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestCreateContestValidation(t *testing.T) {
	r, db := setupRouter(t)
	seedContest(t, db)

	start := time.Now()
	w := doJSON(r, http.MethodPost, "/api/v1/contests", tokenFor(t, "admin"), gin.H{
		"slug":     "new-contest",
		"title":    "New Contest",
		"start_at": start,
		"end_at":   start.Add(4 * time.Hour),
	})
	require.Equal(t, http.StatusOK, w.Code)

	// Duplicate slug.
	w = doJSON(r, http.MethodPost, "/api/v1/contests", tokenFor(t, "admin"), gin.H{
		"slug":     "new-contest",
		"title":    "Another",
		"start_at": start,
		"end_at":   start.Add(4 * time.Hour),
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	// End before start.
	w = doJSON(r, http.MethodPost, "/api/v1/contests", tokenFor(t, "admin"), gin.H{
		"slug":     "bad-window",
		"title":    "Bad",
		"start_at": start,
		"end_at":   start.Add(-time.Hour),
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Judges cannot create contests.
	w = doJSON(r, http.MethodPost, "/api/v1/contests", tokenFor(t, "judge"), gin.H{
		"slug":     "judge-contest",
		"title":    "Nope",
		"start_at": start,
		"end_at":   start.Add(time.Hour),
	})
	assert.Equal(t, http.StatusForbidden, w.Code)
}
