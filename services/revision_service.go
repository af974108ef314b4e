package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"

	"journal-api/models"
)

// revisionSnapshot holds the manuscript file fields as they were before the
// revision replaced them.
type revisionSnapshot struct {
	FileURL *string `json:"file_url"`
	FileID  *uint   `json:"file_id"`
}

// CreateRevision opens a new revision cycle for a manuscript. The revision
// number is max(existing)+1 per research and is never reused, so deleting a
// revision leaves a permanent gap rather than freeing its number.
func CreateRevision(db *gorm.DB, revision *models.ResearchRevision) error {
	if _, err := GetResearch(db, revision.ResearchID); err != nil {
		return err
	}

	var maxNumber *int
	if err := db.Model(&models.ResearchRevision{}).
		Select("MAX(revision_number)").
		Where("research_id = ?", revision.ResearchID).
		Scan(&maxNumber).Error; err != nil {
		return err
	}

	next := 1
	if maxNumber != nil {
		next = *maxNumber + 1
	}

	now := time.Now()
	revision.RevisionNumber = next
	revision.Status = models.RevisionStatusPending
	revision.CreateAt = now
	revision.UpdateAt = now
	return db.Create(revision).Error
}

// GetRevision loads a revision by id.
func GetRevision(db *gorm.DB, revisionID uint) (*models.ResearchRevision, error) {
	var revision models.ResearchRevision
	if err := db.First(&revision, "revision_id = ?", revisionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRevisionNotFound
		}
		return nil, err
	}
	return &revision, nil
}

// SubmitRevisionFile attaches the revised manuscript file. On the first
// upload for this revision the manuscript's pre-revision file fields are
// snapshotted into original_data; the snapshot is never overwritten by later
// uploads. The manuscript file reference moves to the new file and a
// needs_revision manuscript re-enters under_review. Assigned reviewers and
// all editors/admins are notified.
func SubmitRevisionFile(db *gorm.DB, revisionID uint, fileURL string, fileID uint) (*models.ResearchRevision, error) {
	revision, err := GetRevision(db, revisionID)
	if err != nil {
		return nil, err
	}

	research, err := GetResearch(db, revision.ResearchID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	err = db.Transaction(func(tx *gorm.DB) error {
		if revision.OriginalData == nil {
			snapshot := revisionSnapshot{
				FileURL: research.FileURL,
				FileID:  research.FileID,
			}
			raw, err := json.Marshal(snapshot)
			if err != nil {
				return err
			}
			data := string(raw)
			revision.OriginalData = &data
		}

		revision.FileURL = &fileURL
		revision.FileID = &fileID
		revision.Status = models.RevisionStatusSubmitted
		revision.SubmittedAt = &now
		revision.UpdateAt = now
		if err := tx.Save(revision).Error; err != nil {
			return err
		}

		if err := tx.Model(&models.Research{}).
			Where("research_id = ?", research.ResearchID).
			Updates(map[string]interface{}{
				"file_url":  fileURL,
				"file_id":   fileID,
				"update_at": now,
			}).Error; err != nil {
			return err
		}

		if research.Status == models.ResearchStatusNeedsRevision {
			return TransitionResearch(tx, research, models.ResearchStatusUnderReview)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	id := research.ResearchID
	message := fmt.Sprintf("Revision %d for manuscript %s has been submitted.",
		revision.RevisionNumber, research.ResearchNumber)
	NotifyMany(db, AssignedReviewerIDs(db, research.ResearchID), "info", "Revised manuscript submitted", message, &id)
	NotifyEditors(db, "info", "Revised manuscript submitted", message, &id)
	return revision, nil
}

// SetRevisionStatus approves or rejects a revision. The manuscript status is
// not touched here; the editorial decision is a separate action.
func SetRevisionStatus(db *gorm.DB, revisionID uint, status string) (*models.ResearchRevision, error) {
	revision, err := GetRevision(db, revisionID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if err := db.Model(&models.ResearchRevision{}).
		Where("revision_id = ?", revisionID).
		Updates(map[string]interface{}{"status": status, "update_at": now}).Error; err != nil {
		return nil, err
	}

	revision.Status = status
	revision.UpdateAt = now
	return revision, nil
}

// DeleteRevision removes a revision record. Any stored file is removed first,
// best-effort: a storage failure is logged and never blocks the delete.
func DeleteRevision(db *gorm.DB, revisionID uint) error {
	revision, err := GetRevision(db, revisionID)
	if err != nil {
		return err
	}

	if revision.FileID != nil {
		if err := DeleteStoredFile(db, *revision.FileID); err != nil {
			log.Printf("Warning: failed to delete stored file %d for revision %d: %v",
				*revision.FileID, revisionID, err)
		}
	}

	return db.Delete(&models.ResearchRevision{}, "revision_id = ?", revisionID).Error
}
