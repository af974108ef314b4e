package services

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"journal-api/models"
)

// SubmitResearch stores a new manuscript. The research number must be unique
// across all manuscripts, soft-deleted ones included. New submissions enter
// the workflow at under_review.
func SubmitResearch(db *gorm.DB, research *models.Research) error {
	var count int64
	if err := db.Model(&models.Research{}).
		Where("research_number = ?", research.ResearchNumber).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrDuplicateResearchNumber
	}

	now := time.Now()
	if research.Status == "" {
		research.Status = models.ResearchStatusUnderReview
	}
	research.SubmittedAt = &now
	research.CreateAt = now
	research.UpdateAt = now

	if err := db.Create(research).Error; err != nil {
		return err
	}

	id := research.ResearchID
	NotifyEditors(db, "info", "New manuscript submitted",
		fmt.Sprintf("Manuscript %s (%s) has been submitted and is awaiting reviewer assignment.",
			research.ResearchNumber, research.Title), &id)
	return nil
}

// GetResearch loads a manuscript by id.
func GetResearch(db *gorm.DB, researchID uint) (*models.Research, error) {
	var research models.Research
	if err := db.First(&research, "research_id = ? AND delete_at IS NULL", researchID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrResearchNotFound
		}
		return nil, err
	}
	return &research, nil
}

// DeleteResearch soft-deletes a manuscript. Published manuscripts stay; their
// article links would dangle otherwise.
func DeleteResearch(db *gorm.DB, researchID uint) error {
	research, err := GetResearch(db, researchID)
	if err != nil {
		return err
	}
	if research.Status == models.ResearchStatusPublished {
		return ErrResearchPublished
	}

	now := time.Now()
	return db.Model(&models.Research{}).
		Where("research_id = ?", researchID).
		Updates(map[string]interface{}{"delete_at": now, "update_at": now}).Error
}
