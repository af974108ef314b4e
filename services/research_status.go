package services

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"journal-api/models"
)

// researchTransitions is the authoritative edge table for the manuscript
// state machine. Any write to researches.status must go through
// TransitionResearch so an illegal edge cannot slip in from a call site.
var researchTransitions = map[string][]string{
	models.ResearchStatusPending:               {models.ResearchStatusUnderReview},
	models.ResearchStatusUnderReview:           {models.ResearchStatusPendingEditorDecision},
	models.ResearchStatusPendingEditorDecision: {models.ResearchStatusNeedsRevision, models.ResearchStatusAccepted, models.ResearchStatusRejected},
	models.ResearchStatusNeedsRevision:         {models.ResearchStatusUnderReview},
	models.ResearchStatusAccepted:              {models.ResearchStatusPublished},
	models.ResearchStatusRejected:              {},
	models.ResearchStatusPublished:             {},
}

// statusNotification describes the single notification variant fired when a
// manuscript reaches a given status.
type statusNotification struct {
	Type  string
	Title string
	Body  string // fmt template taking the research number
}

var statusNotifications = map[string]statusNotification{
	models.ResearchStatusAccepted: {
		Type:  "success",
		Title: "Manuscript accepted",
		Body:  "Your manuscript %s has been accepted for publication.",
	},
	models.ResearchStatusRejected: {
		Type:  "error",
		Title: "Manuscript rejected",
		Body:  "Your manuscript %s has been rejected.",
	},
	models.ResearchStatusNeedsRevision: {
		Type:  "warning",
		Title: "Revision requested",
		Body:  "Your manuscript %s requires revision. Please check the reviewer comments.",
	},
	models.ResearchStatusPublished: {
		Type:  "success",
		Title: "Manuscript published",
		Body:  "Your manuscript %s has been published.",
	},
}

// CanTransitionResearch reports whether from -> to is a legal edge. A no-op
// write (from == to) is always allowed.
func CanTransitionResearch(from, to string) bool {
	if from == to {
		return true
	}
	for _, allowed := range researchTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// TransitionResearch moves a manuscript along one edge of the state machine.
// Entering accepted stamps evaluation_date; entering published stamps
// published_date. Exactly one notification variant is sent to the owner when
// the status value actually changes; a no-op write sends nothing.
func TransitionResearch(db *gorm.DB, research *models.Research, to string) error {
	if research.Status == to {
		return nil
	}
	if !CanTransitionResearch(research.Status, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, research.Status, to)
	}

	now := time.Now()
	updates := map[string]interface{}{
		"status":    to,
		"update_at": now,
	}
	switch to {
	case models.ResearchStatusAccepted:
		updates["evaluation_date"] = now
	case models.ResearchStatusPublished:
		updates["published_date"] = now
	}

	if err := db.Model(&models.Research{}).
		Where("research_id = ?", research.ResearchID).
		Updates(updates).Error; err != nil {
		return err
	}

	research.Status = to
	research.UpdateAt = now
	switch to {
	case models.ResearchStatusAccepted:
		research.EvaluationDate = &now
	case models.ResearchStatusPublished:
		research.PublishedDate = &now
	}

	if variant, ok := statusNotifications[to]; ok {
		id := research.ResearchID
		Notify(db, research.UserID, variant.Type, variant.Title,
			fmt.Sprintf(variant.Body, research.ResearchNumber), &id)
	}

	return nil
}

// SetResearchStatus is the editorial decision entry point: it loads the
// manuscript and applies one transition.
func SetResearchStatus(db *gorm.DB, researchID uint, to string) (*models.Research, error) {
	var research models.Research
	if err := db.First(&research, "research_id = ? AND delete_at IS NULL", researchID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrResearchNotFound
		}
		return nil, err
	}

	if err := TransitionResearch(db, &research, to); err != nil {
		return nil, err
	}
	return &research, nil
}
