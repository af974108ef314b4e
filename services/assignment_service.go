package services

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"journal-api/models"
)

// AssignReviewer creates a reviewer assignment for a manuscript. The
// (research, reviewer) pair is unique; assigning the same reviewer twice is a
// conflict. The reviewer is notified on success.
func AssignReviewer(db *gorm.DB, assignment *models.ReviewerAssignment) error {
	research, err := GetResearch(db, assignment.ResearchID)
	if err != nil {
		return err
	}

	var count int64
	if err := db.Model(&models.ReviewerAssignment{}).
		Where("research_id = ? AND reviewer_id = ?", assignment.ResearchID, assignment.ReviewerID).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrDuplicateAssignment
	}

	now := time.Now()
	assignment.Status = models.AssignmentStatusAssigned
	assignment.CreateAt = now
	assignment.UpdateAt = now

	if err := db.Create(assignment).Error; err != nil {
		return err
	}

	// A manuscript still sitting at pending enters review with its first
	// assignment.
	if research.Status == models.ResearchStatusPending {
		if err := TransitionResearch(db, research, models.ResearchStatusUnderReview); err != nil {
			return err
		}
	}

	id := research.ResearchID
	Notify(db, assignment.ReviewerID, "info", "New review assignment",
		fmt.Sprintf("You have been assigned to review manuscript %s (%s).",
			research.ResearchNumber, research.Title), &id)
	return nil
}

// UpdateAssignmentStatus is the free-form status setter used by reviewers to
// accept or decline and by the review service to force completion.
func UpdateAssignmentStatus(db *gorm.DB, assignmentID uint, status string) (*models.ReviewerAssignment, error) {
	var assignment models.ReviewerAssignment
	if err := db.First(&assignment, "assignment_id = ?", assignmentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAssignmentNotFound
		}
		return nil, err
	}

	now := time.Now()
	if err := db.Model(&models.ReviewerAssignment{}).
		Where("assignment_id = ?", assignmentID).
		Updates(map[string]interface{}{"status": status, "update_at": now}).Error; err != nil {
		return nil, err
	}

	assignment.Status = status
	assignment.UpdateAt = now
	return &assignment, nil
}

// ReviewerStats counts a reviewer's assignments grouped by status.
func ReviewerStats(db *gorm.DB, reviewerID uint) (map[string]int64, error) {
	var rows []struct {
		Status string
		Total  int64
	}
	if err := db.Model(&models.ReviewerAssignment{}).
		Select("status, COUNT(*) AS total").
		Where("reviewer_id = ?", reviewerID).
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	stats := map[string]int64{
		models.AssignmentStatusAssigned:  0,
		models.AssignmentStatusAccepted:  0,
		models.AssignmentStatusDeclined:  0,
		models.AssignmentStatusCompleted: 0,
	}
	for _, r := range rows {
		stats[r.Status] = r.Total
	}
	return stats, nil
}
