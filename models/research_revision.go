package models

import "time"

const (
	RevisionStatusPending   = "pending"
	RevisionStatusSubmitted = "submitted"
	RevisionStatusApproved  = "approved"
	RevisionStatusRejected  = "rejected"
)

// ResearchRevision is one numbered round of requested changes for a
// manuscript. RevisionNumber is assigned as max+1 per research and never
// reused, even after deletes.
type ResearchRevision struct {
	RevisionID     uint       `gorm:"primaryKey;column:revision_id" json:"revision_id"`
	ResearchID     uint       `gorm:"column:research_id;uniqueIndex:idx_research_revision" json:"research_id"`
	RevisionNumber int        `gorm:"column:revision_number;uniqueIndex:idx_research_revision" json:"revision_number"`
	Notes          *string    `gorm:"column:notes" json:"notes,omitempty"`
	FileURL        *string    `gorm:"column:file_url" json:"file_url,omitempty"`
	FileID         *uint      `gorm:"column:file_id" json:"file_id,omitempty"`
	// OriginalData holds the manuscript's pre-revision file fields as JSON,
	// captured on the first file upload for this revision and never rewritten.
	OriginalData *string    `gorm:"column:original_data" json:"original_data,omitempty"`
	Status       string     `gorm:"column:status" json:"status"`
	Deadline     *time.Time `gorm:"column:deadline" json:"deadline,omitempty"`
	SubmittedAt  *time.Time `gorm:"column:submitted_at" json:"submitted_at,omitempty"`
	CreateAt     time.Time  `gorm:"column:create_at" json:"create_at"`
	UpdateAt     time.Time  `gorm:"column:update_at" json:"update_at"`
}

func (ResearchRevision) TableName() string {
	return "research_revisions"
}
