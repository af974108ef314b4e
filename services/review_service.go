package services

import (
	"errors"
	"fmt"
	"math"
	"time"

	"gorm.io/gorm"

	"journal-api/models"
)

// ReviewStatsResult aggregates completed reviews for one manuscript.
type ReviewStatsResult struct {
	ResearchID    uint             `json:"research_id"`
	AverageRating float64          `json:"average_rating"`
	CountByStatus map[string]int64 `json:"count_by_status"`
	Total         int64            `json:"total"`
}

// SubmitReview stores one reviewer's completed evaluation. The write path
// (review insert + assignment completion) runs in one transaction; the
// completeness check and notifications follow it.
func SubmitReview(db *gorm.DB, review *models.Review) error {
	research, err := GetResearch(db, review.ResearchID)
	if err != nil {
		return err
	}

	var count int64
	if err := db.Model(&models.Review{}).
		Where("research_id = ? AND reviewer_id = ?", review.ResearchID, review.ReviewerID).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrDuplicateReview
	}

	now := time.Now()
	review.Status = models.ReviewStatusCompleted
	review.SubmittedAt = &now
	review.AverageRating = review.ComputeAverage()
	review.CreateAt = now
	review.UpdateAt = now

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(review).Error; err != nil {
			return err
		}

		// Force the paired assignment to completed. A review without an
		// assignment row (late assignment edits) is still stored.
		return tx.Model(&models.ReviewerAssignment{}).
			Where("research_id = ? AND reviewer_id = ?", review.ResearchID, review.ReviewerID).
			Updates(map[string]interface{}{
				"status":    models.AssignmentStatusCompleted,
				"update_at": now,
			}).Error
	})
	if err != nil {
		return err
	}

	if err := CheckReviewCompleteness(db, review.ResearchID); err != nil {
		return err
	}

	id := research.ResearchID
	Notify(db, research.UserID, "info", "Review received",
		fmt.Sprintf("A review has been submitted for your manuscript %s.", research.ResearchNumber), &id)
	NotifyEditors(db, "info", "Review submitted",
		fmt.Sprintf("A review has been submitted for manuscript %s.", research.ResearchNumber), &id)
	return nil
}

// CheckReviewCompleteness advances a manuscript to pending_editor_decision
// once every assigned review is in. Monotonic and idempotent: it compares the
// completed-review count against the assignment count with >= (reviews whose
// assignment was later removed still count) and only fires while the
// manuscript is exactly under_review, so re-running it is a safe no-op.
func CheckReviewCompleteness(db *gorm.DB, researchID uint) error {
	var assignments int64
	if err := db.Model(&models.ReviewerAssignment{}).
		Where("research_id = ?", researchID).
		Count(&assignments).Error; err != nil {
		return err
	}
	if assignments == 0 {
		return nil
	}

	var completed int64
	if err := db.Model(&models.Review{}).
		Where("research_id = ? AND status = ?", researchID, models.ReviewStatusCompleted).
		Count(&completed).Error; err != nil {
		return err
	}
	if completed < assignments {
		return nil
	}

	research, err := GetResearch(db, researchID)
	if err != nil {
		return err
	}
	if research.Status != models.ResearchStatusUnderReview {
		return nil
	}

	return TransitionResearch(db, research, models.ResearchStatusPendingEditorDecision)
}

// UpdateReview amends an existing review before the editorial decision.
func UpdateReview(db *gorm.DB, reviewID uint, apply func(*models.Review)) (*models.Review, error) {
	var review models.Review
	if err := db.First(&review, "review_id = ?", reviewID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, err
	}

	apply(&review)
	review.AverageRating = review.ComputeAverage()
	review.UpdateAt = time.Now()

	if err := db.Save(&review).Error; err != nil {
		return nil, err
	}
	return &review, nil
}

// ResearchReviewStats returns the average rating over completed reviews,
// rounded to 2 decimals, plus counts per review status.
func ResearchReviewStats(db *gorm.DB, researchID uint) (*ReviewStatsResult, error) {
	var reviews []models.Review
	if err := db.Where("research_id = ?", researchID).Find(&reviews).Error; err != nil {
		return nil, err
	}

	result := &ReviewStatsResult{
		ResearchID: researchID,
		CountByStatus: map[string]int64{
			models.ReviewStatusPending:    0,
			models.ReviewStatusInProgress: 0,
			models.ReviewStatusCompleted:  0,
		},
	}

	var sum float64
	var completed int64
	for _, r := range reviews {
		result.CountByStatus[r.Status]++
		result.Total++
		if r.Status == models.ReviewStatusCompleted {
			sum += r.AverageRating
			completed++
		}
	}
	if completed > 0 {
		result.AverageRating = math.Round(sum/float64(completed)*100) / 100
	}
	return result, nil
}

// SubstituteReviewFile overwrites the manuscript's file reference with an
// edited copy uploaded by the reviewer. The pre-edit reference is backed up
// on the review exactly once; later uploads keep the first backup.
func SubstituteReviewFile(db *gorm.DB, reviewID uint, fileURL string, fileID uint) (*models.Review, error) {
	var review models.Review
	if err := db.First(&review, "review_id = ?", reviewID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, err
	}

	research, err := GetResearch(db, review.ResearchID)
	if err != nil {
		return nil, err
	}
	if research.FileURL == nil {
		return nil, ErrResearchHasNoFile
	}

	now := time.Now()
	err = db.Transaction(func(tx *gorm.DB) error {
		if review.OriginalFileURL == nil {
			review.OriginalFileURL = research.FileURL
			review.OriginalFileID = research.FileID
		}
		review.EditedFileURL = &fileURL
		review.EditedFileID = &fileID
		review.UpdateAt = now
		if err := tx.Save(&review).Error; err != nil {
			return err
		}

		return tx.Model(&models.Research{}).
			Where("research_id = ?", research.ResearchID).
			Updates(map[string]interface{}{
				"file_url":  fileURL,
				"file_id":   fileID,
				"update_at": now,
			}).Error
	})
	if err != nil {
		return nil, err
	}
	return &review, nil
}

// RestoreOriginalFile puts the single backed-up file reference back onto the
// manuscript.
func RestoreOriginalFile(db *gorm.DB, reviewID uint) (*models.Research, error) {
	var review models.Review
	if err := db.First(&review, "review_id = ?", reviewID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, err
	}
	if review.OriginalFileURL == nil {
		return nil, ErrNoOriginalBackup
	}

	research, err := GetResearch(db, review.ResearchID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if err := db.Model(&models.Research{}).
		Where("research_id = ?", research.ResearchID).
		Updates(map[string]interface{}{
			"file_url":  *review.OriginalFileURL,
			"file_id":   review.OriginalFileID,
			"update_at": now,
		}).Error; err != nil {
		return nil, err
	}

	research.FileURL = review.OriginalFileURL
	research.FileID = review.OriginalFileID
	return research, nil
}
