package models

import "time"

const (
	AssignmentStatusAssigned  = "assigned"
	AssignmentStatusAccepted  = "accepted"
	AssignmentStatusDeclined  = "declined"
	AssignmentStatusCompleted = "completed"
)

// ReviewerAssignment obligates one reviewer to evaluate one manuscript.
// The (research_id, reviewer_id) pair is unique.
type ReviewerAssignment struct {
	AssignmentID uint       `gorm:"primaryKey;column:assignment_id" json:"assignment_id"`
	ResearchID   uint       `gorm:"column:research_id;uniqueIndex:idx_research_reviewer" json:"research_id"`
	ReviewerID   uint       `gorm:"column:reviewer_id;uniqueIndex:idx_research_reviewer" json:"reviewer_id"`
	AssignedBy   uint       `gorm:"column:assigned_by" json:"assigned_by"`
	Deadline     *time.Time `gorm:"column:deadline" json:"deadline,omitempty"`
	Notes        *string    `gorm:"column:notes" json:"notes,omitempty"`
	Status       string     `gorm:"column:status" json:"status"`
	CreateAt     time.Time  `gorm:"column:create_at" json:"create_at"`
	UpdateAt     time.Time  `gorm:"column:update_at" json:"update_at"`

	Reviewer *User `gorm:"foreignKey:ReviewerID" json:"reviewer,omitempty"`
	Assigner *User `gorm:"foreignKey:AssignedBy" json:"assigner,omitempty"`
}

func (ReviewerAssignment) TableName() string {
	return "reviewer_assignments"
}
