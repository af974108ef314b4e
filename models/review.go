package models

import "time"

const (
	ReviewStatusPending    = "pending"
	ReviewStatusInProgress = "in_progress"
	ReviewStatusCompleted  = "completed"
)

const (
	RecommendationAccepted      = "accepted"
	RecommendationNeedsRevision = "needs_revision"
	RecommendationRejected      = "rejected"
)

// Review is one reviewer's evaluation of a manuscript. In this workflow a
// review is created already completed; it may be amended until the editor
// decides.
type Review struct {
	ReviewID       uint       `gorm:"primaryKey;column:review_id" json:"review_id"`
	ResearchID     uint       `gorm:"column:research_id;uniqueIndex:idx_review_pair" json:"research_id"`
	ReviewerID     uint       `gorm:"column:reviewer_id;uniqueIndex:idx_review_pair" json:"reviewer_id"`
	Originality    int        `gorm:"column:originality" json:"originality"`
	Methodology    int        `gorm:"column:methodology" json:"methodology"`
	Clarity        int        `gorm:"column:clarity" json:"clarity"`
	Significance   int        `gorm:"column:significance" json:"significance"`
	AverageRating  float64    `gorm:"column:average_rating" json:"average_rating"`
	Recommendation string     `gorm:"column:recommendation" json:"recommendation"`
	Comments       *string    `gorm:"column:comments" json:"comments,omitempty"`
	EditorComments *string    `gorm:"column:editor_comments" json:"-"`
	Status         string     `gorm:"column:status" json:"status"`
	SubmittedAt    *time.Time `gorm:"column:submitted_at" json:"submitted_at,omitempty"`

	// File substitution: an edited manuscript file uploaded by the reviewer
	// replaces the manuscript's file reference. The pre-edit reference is kept
	// here once; a second edited upload does not refresh it.
	EditedFileURL   *string `gorm:"column:edited_file_url" json:"edited_file_url,omitempty"`
	EditedFileID    *uint   `gorm:"column:edited_file_id" json:"edited_file_id,omitempty"`
	OriginalFileURL *string `gorm:"column:original_file_url" json:"original_file_url,omitempty"`
	OriginalFileID  *uint   `gorm:"column:original_file_id" json:"original_file_id,omitempty"`

	CreateAt time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt time.Time `gorm:"column:update_at" json:"update_at"`

	Reviewer *User `gorm:"foreignKey:ReviewerID" json:"reviewer,omitempty"`
}

func (Review) TableName() string {
	return "reviews"
}

// ComputeAverage derives the average rating from the four criteria.
func (r *Review) ComputeAverage() float64 {
	return float64(r.Originality+r.Methodology+r.Clarity+r.Significance) / 4.0
}
