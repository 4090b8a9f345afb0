package leaderboard

import (
	"errors"
	"fmt"
	"time"

	"github.com/gavel-oj/gavel/internal/database"
	"github.com/gavel-oj/gavel/internal/database/models"
	"github.com/gavel-oj/gavel/internal/pubsub"
	"github.com/gavel-oj/gavel/internal/util"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Event stream names published on the contest's pubsub topic.
const (
	StreamFrozen   = "leaderboard.frozen"
	StreamUnfrozen = "leaderboard.unfrozen"
	StreamCell     = "leaderboard.cell"
)

// Freeze snapshots the contest's submissions and marks the leaderboard
// frozen. Only ADMIN/ROOT members may freeze, and a frozen contest cannot
// be frozen again. The snapshot and the frozen_at flip commit in one
// transaction; a concurrent freeze loses the version race and gets
// ErrConflict.
func Freeze(db *gorm.DB, contestID, actorID string, now time.Time) (*models.Contest, error) {
	contest, err := requireFreezeActor(db, contestID, actorID)
	if err != nil {
		return nil, err
	}
	if contest.FrozenAt != nil {
		return nil, fmt.Errorf("leaderboard is already frozen: %w", util.ErrForbidden)
	}

	if err := freezeContest(db, contest, now); err != nil {
		return nil, err
	}

	zap.S().Infof("leaderboard frozen for contest %s", contest.ID)
	pubsub.GetBroker().Publish(contest.ID, pubsub.FormatMessage(StreamFrozen, contest.ID))
	return contest, nil
}

// Unfreeze clears frozen_at so every viewer sees live standings again.
// Snapshots are kept; the next freeze replaces them.
func Unfreeze(db *gorm.DB, contestID, actorID string, now time.Time) (*models.Contest, error) {
	contest, err := requireFreezeActor(db, contestID, actorID)
	if err != nil {
		return nil, err
	}
	if contest.FrozenAt == nil {
		return nil, fmt.Errorf("leaderboard is not frozen: %w", util.ErrForbidden)
	}

	if err := database.SetContestFrozenAt(db, contest.ID, contest.Version, nil); err != nil {
		return nil, err
	}
	contest.FrozenAt = nil
	contest.Version++

	zap.S().Infof("leaderboard unfrozen for contest %s", contest.ID)
	pubsub.GetBroker().Publish(contest.ID, pubsub.FormatMessage(StreamUnfrozen, contest.ID))
	return contest, nil
}

// AutoFreeze freezes every contest whose auto_freeze_at has passed and that
// is still live. Called periodically by the server; acts as the system, so
// no member authorization applies.
func AutoFreeze(db *gorm.DB, now time.Time) {
	var due []models.Contest
	if err := db.Where("auto_freeze_at IS NOT NULL AND auto_freeze_at <= ? AND frozen_at IS NULL", now).
		Find(&due).Error; err != nil {
		zap.S().Errorf("auto-freeze scan failed: %v", err)
		return
	}

	for i := range due {
		contest := &due[i]
		if err := freezeContest(db, contest, now); err != nil {
			if errors.Is(err, util.ErrConflict) {
				// Someone froze it first; nothing to do.
				continue
			}
			zap.S().Errorf("auto-freeze of contest %s failed: %v", contest.ID, err)
			continue
		}
		zap.S().Infof("auto-froze leaderboard for contest %s", contest.ID)
		pubsub.GetBroker().Publish(contest.ID, pubsub.FormatMessage(StreamFrozen, contest.ID))
	}
}

func requireFreezeActor(db *gorm.DB, contestID, actorID string) (*models.Contest, error) {
	contest, err := database.GetContest(db, contestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("contest %s: %w", contestID, util.ErrNotFound)
		}
		return nil, err
	}

	actor, err := database.GetContestMember(db, actorID, contest.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("member %s: %w", actorID, util.ErrNotFound)
		}
		return nil, err
	}
	if !actor.IsPrivileged() {
		return nil, fmt.Errorf("member type %s may not change freeze state: %w", actor.Type, util.ErrForbidden)
	}

	return contest, nil
}

// freezeContest writes the snapshot and flips frozen_at atomically. On
// success the in-memory contest reflects the new state.
func freezeContest(db *gorm.DB, contest *models.Contest, now time.Time) error {
	err := db.Transaction(func(tx *gorm.DB) error {
		subs, err := database.ListSubmissionsByContest(tx, contest.ID)
		if err != nil {
			return err
		}
		if err := database.ReplaceFrozenSubmissions(tx, contest.ID, subs); err != nil {
			return err
		}
		return database.SetContestFrozenAt(tx, contest.ID, contest.Version, &now)
	})
	if err != nil {
		return err
	}
	frozenAt := now
	contest.FrozenAt = &frozenAt
	contest.Version++
	return nil
}
