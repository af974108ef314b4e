package models

import "time"

// Manuscript statuses. Transitions between them are validated by
// services.TransitionResearch; nothing else should write the status column.
const (
	ResearchStatusPending               = "pending"
	ResearchStatusUnderReview           = "under_review"
	ResearchStatusPendingEditorDecision = "pending_editor_decision"
	ResearchStatusNeedsRevision         = "needs_revision"
	ResearchStatusAccepted              = "accepted"
	ResearchStatusRejected              = "rejected"
	ResearchStatusPublished             = "published"
)

// Research represents a submitted manuscript, the root entity of the
// editorial workflow.
type Research struct {
	ResearchID         uint       `gorm:"primaryKey;column:research_id" json:"research_id"`
	UserID             uint       `gorm:"column:user_id" json:"user_id"`
	ResearchNumber     string     `gorm:"column:research_number;unique" json:"research_number"`
	Title              string     `gorm:"column:title" json:"title"`
	Abstract           string     `gorm:"column:abstract" json:"abstract"`
	Keywords           *string    `gorm:"column:keywords" json:"keywords,omitempty"`
	Status             string     `gorm:"column:status" json:"status"`
	FileURL            *string    `gorm:"column:file_url" json:"file_url,omitempty"`
	FileID             *uint      `gorm:"column:file_id" json:"file_id,omitempty"`
	PublishedArticleID *uint      `gorm:"column:published_article_id" json:"published_article_id,omitempty"`
	EvaluationDate     *time.Time `gorm:"column:evaluation_date" json:"evaluation_date,omitempty"`
	PublishedDate      *time.Time `gorm:"column:published_date" json:"published_date,omitempty"`
	SubmittedAt        *time.Time `gorm:"column:submitted_at" json:"submitted_at,omitempty"`
	CreateAt           time.Time  `gorm:"column:create_at" json:"create_at"`
	UpdateAt           time.Time  `gorm:"column:update_at" json:"update_at"`
	DeleteAt           *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`

	// Relations
	Owner       User                 `gorm:"foreignKey:UserID" json:"owner,omitempty"`
	Assignments []ReviewerAssignment `gorm:"foreignKey:ResearchID" json:"assignments,omitempty"`
	Reviews     []Review             `gorm:"foreignKey:ResearchID" json:"reviews,omitempty"`
	Revisions   []ResearchRevision   `gorm:"foreignKey:ResearchID" json:"revisions,omitempty"`
}

func (Research) TableName() string {
	return "researches"
}

// IsTerminal reports whether the manuscript can no longer move.
func (r *Research) IsTerminal() bool {
	return r.Status == ResearchStatusRejected || r.Status == ResearchStatusPublished
}
