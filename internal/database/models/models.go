package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"gorm.io/gorm"
)

type MemberType string

const (
	MemberRoot       MemberType = "ROOT"
	MemberAdmin      MemberType = "ADMIN"
	MemberJudge      MemberType = "JUDGE"
	MemberContestant MemberType = "CONTESTANT"
	MemberGuest      MemberType = "GUEST"
)

type SubmissionStatus string

const (
	SubmissionJudging SubmissionStatus = "JUDGING"
	SubmissionFailed  SubmissionStatus = "FAILED"
	SubmissionJudged  SubmissionStatus = "JUDGED"
)

type SubmissionAnswer string

const (
	AnswerNone                SubmissionAnswer = "NO_ANSWER"
	AnswerAccepted            SubmissionAnswer = "ACCEPTED"
	AnswerWrongAnswer         SubmissionAnswer = "WRONG_ANSWER"
	AnswerCompilationError    SubmissionAnswer = "COMPILATION_ERROR"
	AnswerRuntimeError        SubmissionAnswer = "RUNTIME_ERROR"
	AnswerTimeLimitExceeded   SubmissionAnswer = "TIME_LIMIT_EXCEEDED"
	AnswerMemoryLimitExceeded SubmissionAnswer = "MEMORY_LIMIT_EXCEEDED"
)

type Language string

const (
	LanguageCpp17     Language = "CPP_17"
	LanguageJava21    Language = "JAVA_21"
	LanguagePython312 Language = "PYTHON_312"
)

type TicketStatus string

const (
	TicketOpen       TicketStatus = "OPEN"
	TicketInProgress TicketStatus = "IN_PROGRESS"
	TicketResolved   TicketStatus = "RESOLVED"
	TicketRejected   TicketStatus = "REJECTED"
)

type TicketType string

const (
	TicketPrint   TicketType = "PRINT"
	TicketBalloon TicketType = "BALLOON"
	TicketSupport TicketType = "SUPPORT"
)

// JSONMap is a helper type for storing JSON data in the database.
type JSONMap map[string]interface{}

func (m JSONMap) Value() (driver.Value, error) {
	return json.Marshal(m)
}

func (m *JSONMap) Scan(value interface{}) error {
	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}
	return json.Unmarshal(bytes, &m)
}

type Contest struct {
	ID        string `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`

	Slug  string `gorm:"uniqueIndex" json:"slug"`
	Title string `json:"title"`

	StartAt      time.Time  `json:"start_at"`
	EndAt        time.Time  `json:"end_at"`
	AutoFreezeAt *time.Time `json:"auto_freeze_at"`
	FrozenAt     *time.Time `json:"frozen_at"`

	// Version guards concurrent freeze/unfreeze; bumped on every
	// compare-and-swap update of FrozenAt.
	Version int64 `json:"-"`

	Problems []Problem `gorm:"foreignKey:ContestID;constraint:OnDelete:CASCADE" json:"problems,omitempty"`
	Members  []Member  `gorm:"foreignKey:ContestID;constraint:OnDelete:CASCADE" json:"members,omitempty"`
}

func (c *Contest) HasStarted(now time.Time) bool {
	return !c.StartAt.After(now)
}

func (c *Contest) HasEnded(now time.Time) bool {
	return !c.EndAt.After(now)
}

func (c *Contest) IsActive(now time.Time) bool {
	return c.HasStarted(now) && !c.HasEnded(now)
}

func (c *Contest) IsFrozen(now time.Time) bool {
	return c.FrozenAt != nil && !c.FrozenAt.After(now)
}

// Member is a participant of a single contest. ROOT members have no
// contest and act across the whole platform.
type Member struct {
	ID        string `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`

	ContestID *string `gorm:"index;uniqueIndex:idx_members_contest_name" json:"contest_id"`

	// Name is unique per contest; ranking ties break on it, so two rows of
	// the same board never compare equal.
	Name         string     `gorm:"uniqueIndex:idx_members_contest_name" json:"name"`
	Username     string     `gorm:"uniqueIndex" json:"username"`
	PasswordHash string     `json:"-"`
	SSOSubject   *string    `gorm:"uniqueIndex" json:"-"`
	Type         MemberType `json:"type"`
}

// IsPrivileged reports whether the member sees live data while the
// leaderboard is frozen and may manage the contest.
func (m *Member) IsPrivileged() bool {
	return m.Type == MemberAdmin || m.Type == MemberRoot
}

func (m *Member) IsStaff() bool {
	return m.IsPrivileged() || m.Type == MemberJudge
}

type Problem struct {
	ID        string `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`

	ContestID string `gorm:"index" json:"contest_id"`

	Letter        string `gorm:"index" json:"letter"`
	Title         string `json:"title"`
	Color         string `json:"color"`
	TimeLimitMS   int    `json:"time_limit_ms"`
	MemoryLimitMB int    `json:"memory_limit_mb"`
	Statement     string `json:"statement"`
}

type Submission struct {
	ID        string `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time
	UpdatedAt time.Time

	ContestID string  `gorm:"index" json:"contest_id"`
	MemberID  string  `gorm:"index" json:"member_id"`
	Member    Member  `json:"member"`
	ProblemID string  `gorm:"index" json:"problem_id"`
	Problem   Problem `json:"problem"`

	Language Language         `json:"language"`
	Status   SubmissionStatus `gorm:"index" json:"status"`
	Answer   SubmissionAnswer `json:"answer"`
	Code     string           `json:"code"`
}

// FrozenSubmission is an immutable snapshot of a submission's
// scoring-relevant fields, written by the freeze operation. It shares the
// id of the submission it snapshots.
type FrozenSubmission struct {
	ID        string `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time

	ContestID string `gorm:"index" json:"contest_id"`
	MemberID  string `gorm:"index" json:"member_id"`
	ProblemID string `gorm:"index" json:"problem_id"`

	Language    Language         `json:"language"`
	Status      SubmissionStatus `json:"status"`
	Answer      SubmissionAnswer `json:"answer"`
	Code        string           `json:"code"`
	SubmittedAt time.Time        `json:"submitted_at"`
}

type Clarification struct {
	ID        string `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`

	ContestID string  `gorm:"index" json:"contest_id"`
	MemberID  string  `json:"member_id"`
	ProblemID *string `json:"problem_id"`
	ParentID  *string `gorm:"index" json:"parent_id"`

	Question   string  `json:"question"`
	Answer     string  `json:"answer"`
	AnsweredBy *string `json:"answered_by"`

	Children []Clarification `gorm:"foreignKey:ParentID" json:"children,omitempty"`
}

type Announcement struct {
	ID        string `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`

	ContestID string `gorm:"index" json:"contest_id"`
	MemberID  string `json:"member_id"`

	Title   string `json:"title"`
	Content string `json:"content"`
}

// Ticket is a contest-scoped support request. Type-specific fields live in
// the Payload column instead of a per-type table.
type Ticket struct {
	ID        string `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`

	ContestID string `gorm:"index" json:"contest_id"`
	MemberID  string `gorm:"index" json:"member_id"`

	Type    TicketType   `json:"type"`
	Status  TicketStatus `gorm:"index" json:"status"`
	Payload JSONMap      `gorm:"type:text" json:"payload"`
}
