package database

import (
	"time"

	"github.com/gavel-oj/gavel/internal/database/models"
	"github.com/gavel-oj/gavel/internal/util"
	"gorm.io/gorm"
)

// Contest CRUD

func CreateContest(db *gorm.DB, contest *models.Contest) error {
	return db.Create(contest).Error
}

func GetContest(db *gorm.DB, id string) (*models.Contest, error) {
	var contest models.Contest
	if err := db.Preload("Problems", func(db *gorm.DB) *gorm.DB {
		return db.Order("letter asc")
	}).Where("id = ?", id).First(&contest).Error; err != nil {
		return nil, err
	}
	return &contest, nil
}

func GetContestBySlug(db *gorm.DB, slug string) (*models.Contest, error) {
	var contest models.Contest
	if err := db.Where("slug = ?", slug).First(&contest).Error; err != nil {
		return nil, err
	}
	return &contest, nil
}

func GetAllContests(db *gorm.DB) ([]models.Contest, error) {
	var contests []models.Contest
	if err := db.Order("start_at desc").Find(&contests).Error; err != nil {
		return nil, err
	}
	return contests, nil
}

func UpdateContest(db *gorm.DB, contest *models.Contest) error {
	return db.Save(contest).Error
}

func DeleteContest(db *gorm.DB, contestID string) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("contest_id = ?", contestID).Delete(&models.FrozenSubmission{}).Error; err != nil {
			return err
		}
		if err := tx.Where("contest_id = ?", contestID).Delete(&models.Submission{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Contest{}, "id = ?", contestID).Error
	})
}

// SetContestFrozenAt performs a compare-and-swap on the contest's frozen_at
// column guarded by the version counter. A lost race leaves zero rows
// updated, which is surfaced as ErrConflict so the caller can retry.
func SetContestFrozenAt(db *gorm.DB, contestID string, version int64, frozenAt *time.Time) error {
	result := db.Model(&models.Contest{}).
		Where("id = ? AND version = ?", contestID, version).
		Updates(map[string]interface{}{
			"frozen_at": frozenAt,
			"version":   version + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return util.ErrConflict
	}
	return nil
}

// ReplaceFrozenSubmissions clears any prior snapshot for the contest and
// writes a fresh one mirroring the given submissions.
func ReplaceFrozenSubmissions(db *gorm.DB, contestID string, subs []models.Submission) error {
	if err := db.Where("contest_id = ?", contestID).Delete(&models.FrozenSubmission{}).Error; err != nil {
		return err
	}
	if len(subs) == 0 {
		return nil
	}
	frozen := make([]models.FrozenSubmission, 0, len(subs))
	for _, sub := range subs {
		frozen = append(frozen, models.FrozenSubmission{
			ID:          sub.ID,
			ContestID:   sub.ContestID,
			MemberID:    sub.MemberID,
			ProblemID:   sub.ProblemID,
			Language:    sub.Language,
			Status:      sub.Status,
			Answer:      sub.Answer,
			Code:        sub.Code,
			SubmittedAt: sub.CreatedAt,
		})
	}
	return db.Create(&frozen).Error
}

// Member CRUD

func CreateMember(db *gorm.DB, member *models.Member) error {
	return db.Create(member).Error
}

func GetMemberByID(db *gorm.DB, id string) (*models.Member, error) {
	var member models.Member
	if err := db.Where("id = ?", id).First(&member).Error; err != nil {
		return nil, err
	}
	return &member, nil
}

func GetMemberByUsername(db *gorm.DB, username string) (*models.Member, error) {
	var member models.Member
	if err := db.Where("username = ?", username).First(&member).Error; err != nil {
		return nil, err
	}
	return &member, nil
}

func GetMemberBySSOSubject(db *gorm.DB, subject string) (*models.Member, error) {
	var member models.Member
	if err := db.Where("sso_subject = ?", subject).First(&member).Error; err != nil {
		return nil, err
	}
	return &member, nil
}

// GetContestMember resolves a member within contest scope: the member must
// either belong to the contest or be a platform-wide member (no contest).
func GetContestMember(db *gorm.DB, id, contestID string) (*models.Member, error) {
	var member models.Member
	if err := db.Where("id = ? AND (contest_id = ? OR contest_id IS NULL)", id, contestID).
		First(&member).Error; err != nil {
		return nil, err
	}
	return &member, nil
}

func ListContestMembers(db *gorm.DB, contestID string) ([]models.Member, error) {
	var members []models.Member
	if err := db.Where("contest_id = ?", contestID).Order("created_at asc").Find(&members).Error; err != nil {
		return nil, err
	}
	return members, nil
}

func ListContestants(db *gorm.DB, contestID string) ([]models.Member, error) {
	var members []models.Member
	if err := db.Where("contest_id = ? AND type = ?", contestID, models.MemberContestant).
		Order("created_at asc").Find(&members).Error; err != nil {
		return nil, err
	}
	return members, nil
}

func UpdateMember(db *gorm.DB, member *models.Member) error {
	return db.Save(member).Error
}

func DeleteMember(db *gorm.DB, memberID string) error {
	return db.Delete(&models.Member{}, "id = ?", memberID).Error
}

// Problem CRUD

func CreateProblem(db *gorm.DB, problem *models.Problem) error {
	return db.Create(problem).Error
}

func GetProblem(db *gorm.DB, id string) (*models.Problem, error) {
	var problem models.Problem
	if err := db.Where("id = ?", id).First(&problem).Error; err != nil {
		return nil, err
	}
	return &problem, nil
}

func ListProblems(db *gorm.DB, contestID string) ([]models.Problem, error) {
	var problems []models.Problem
	if err := db.Where("contest_id = ?", contestID).Order("letter asc").Find(&problems).Error; err != nil {
		return nil, err
	}
	return problems, nil
}

func UpdateProblem(db *gorm.DB, problem *models.Problem) error {
	return db.Save(problem).Error
}

func DeleteProblem(db *gorm.DB, problemID string) error {
	return db.Delete(&models.Problem{}, "id = ?", problemID).Error
}

// Submission CRUD

func CreateSubmission(db *gorm.DB, sub *models.Submission) error {
	return db.Create(sub).Error
}

func GetSubmission(db *gorm.DB, id string) (*models.Submission, error) {
	var sub models.Submission
	if err := db.Preload("Member").Preload("Problem").Where("id = ?", id).First(&sub).Error; err != nil {
		return nil, err
	}
	return &sub, nil
}

func UpdateSubmission(db *gorm.DB, sub *models.Submission) error {
	return db.Save(sub).Error
}

func ListSubmissionsByContest(db *gorm.DB, contestID string) ([]models.Submission, error) {
	var subs []models.Submission
	if err := db.Where("contest_id = ?", contestID).Order("created_at asc").Find(&subs).Error; err != nil {
		return nil, err
	}
	return subs, nil
}

func ListSubmissionsByMember(db *gorm.DB, memberID string) ([]models.Submission, error) {
	var subs []models.Submission
	if err := db.Preload("Problem").Where("member_id = ?", memberID).
		Order("created_at desc").Find(&subs).Error; err != nil {
		return nil, err
	}
	return subs, nil
}

// ListJudgedSubmissions returns the scoring input for a live leaderboard:
// judged submissions of the contest in creation order.
func ListJudgedSubmissions(db *gorm.DB, contestID string) ([]models.Submission, error) {
	var subs []models.Submission
	if err := db.Where("contest_id = ? AND status = ?", contestID, models.SubmissionJudged).
		Order("created_at asc").Find(&subs).Error; err != nil {
		return nil, err
	}
	return subs, nil
}

// ListJudgedFrozenSubmissions is the frozen counterpart of
// ListJudgedSubmissions. Snapshots are thawed back into submissions so the
// cell builder does not care which source it is fed from.
func ListJudgedFrozenSubmissions(db *gorm.DB, contestID string) ([]models.Submission, error) {
	var frozen []models.FrozenSubmission
	if err := db.Where("contest_id = ? AND status = ?", contestID, models.SubmissionJudged).
		Order("submitted_at asc").Find(&frozen).Error; err != nil {
		return nil, err
	}
	subs := make([]models.Submission, 0, len(frozen))
	for _, f := range frozen {
		subs = append(subs, models.Submission{
			ID:        f.ID,
			CreatedAt: f.SubmittedAt,
			ContestID: f.ContestID,
			MemberID:  f.MemberID,
			ProblemID: f.ProblemID,
			Language:  f.Language,
			Status:    f.Status,
			Answer:    f.Answer,
			Code:      f.Code,
		})
	}
	return subs, nil
}

func ListPendingSubmissions(db *gorm.DB, contestID string) ([]models.Submission, error) {
	var subs []models.Submission
	if err := db.Preload("Member").Preload("Problem").
		Where("contest_id = ? AND status = ?", contestID, models.SubmissionJudging).
		Order("created_at asc").Find(&subs).Error; err != nil {
		return nil, err
	}
	return subs, nil
}

// Clarification CRUD

func CreateClarification(db *gorm.DB, clar *models.Clarification) error {
	return db.Create(clar).Error
}

func GetClarification(db *gorm.DB, id string) (*models.Clarification, error) {
	var clar models.Clarification
	if err := db.Preload("Children").Where("id = ?", id).First(&clar).Error; err != nil {
		return nil, err
	}
	return &clar, nil
}

func ListClarifications(db *gorm.DB, contestID string) ([]models.Clarification, error) {
	var clars []models.Clarification
	if err := db.Preload("Children").
		Where("contest_id = ? AND parent_id IS NULL", contestID).
		Order("created_at asc").Find(&clars).Error; err != nil {
		return nil, err
	}
	return clars, nil
}

func UpdateClarification(db *gorm.DB, clar *models.Clarification) error {
	return db.Save(clar).Error
}

// Announcement CRUD

func CreateAnnouncement(db *gorm.DB, ann *models.Announcement) error {
	return db.Create(ann).Error
}

func ListAnnouncements(db *gorm.DB, contestID string) ([]models.Announcement, error) {
	var anns []models.Announcement
	if err := db.Where("contest_id = ?", contestID).Order("created_at asc").Find(&anns).Error; err != nil {
		return nil, err
	}
	return anns, nil
}

func DeleteAnnouncement(db *gorm.DB, id string) error {
	return db.Delete(&models.Announcement{}, "id = ?", id).Error
}

// Ticket CRUD

func CreateTicket(db *gorm.DB, ticket *models.Ticket) error {
	return db.Create(ticket).Error
}

func GetTicket(db *gorm.DB, id string) (*models.Ticket, error) {
	var ticket models.Ticket
	if err := db.Where("id = ?", id).First(&ticket).Error; err != nil {
		return nil, err
	}
	return &ticket, nil
}

func ListTickets(db *gorm.DB, contestID string, status models.TicketStatus) ([]models.Ticket, error) {
	query := db.Where("contest_id = ?", contestID)
	if status != "" {
		query = query.Where("status = ?", status)
	}
	var tickets []models.Ticket
	if err := query.Order("created_at asc").Find(&tickets).Error; err != nil {
		return nil, err
	}
	return tickets, nil
}

func UpdateTicket(db *gorm.DB, ticket *models.Ticket) error {
	return db.Save(ticket).Error
}
