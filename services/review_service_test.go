package services

import (
	"errors"
	"testing"

	"journal-api/models"
)

// Two assignments: the first review keeps the manuscript under review, the
// second completes the set and moves it to pending_editor_decision.
func TestCompletenessTwoReviewers(t *testing.T) {
	db := newTestDB(t)
	owner := createTestUser(t, db, models.RoleResearcher)
	editor := createTestUser(t, db, models.RoleEditor)
	rev1 := createTestUser(t, db, models.RoleReviewer)
	rev2 := createTestUser(t, db, models.RoleReviewer)
	research := createTestResearch(t, db, uint(owner.UserID), "JRN-REV-001")

	assignTestReviewer(t, db, research.ResearchID, uint(rev1.UserID), uint(editor.UserID))
	assignTestReviewer(t, db, research.ResearchID, uint(rev2.UserID), uint(editor.UserID))

	submitTestReview(t, db, research.ResearchID, uint(rev1.UserID))
	if got := researchStatus(t, db, research.ResearchID); got != models.ResearchStatusUnderReview {
		t.Fatalf("after 1 of 2 reviews, status = %q, want under_review", got)
	}

	submitTestReview(t, db, research.ResearchID, uint(rev2.UserID))
	if got := researchStatus(t, db, research.ResearchID); got != models.ResearchStatusPendingEditorDecision {
		t.Fatalf("after 2 of 2 reviews, status = %q, want pending_editor_decision", got)
	}
}

func TestSubmitReviewCompletesAssignment(t *testing.T) {
	db := newTestDB(t)
	owner := createTestUser(t, db, models.RoleResearcher)
	editor := createTestUser(t, db, models.RoleEditor)
	reviewer := createTestUser(t, db, models.RoleReviewer)
	research := createTestResearch(t, db, uint(owner.UserID), "JRN-REV-002")
	assignment := assignTestReviewer(t, db, research.ResearchID, uint(reviewer.UserID), uint(editor.UserID))

	review := submitTestReview(t, db, research.ResearchID, uint(reviewer.UserID))

	if review.Status != models.ReviewStatusCompleted {
		t.Fatalf("review status = %q, want completed", review.Status)
	}
	if review.SubmittedAt == nil {
		t.Fatal("expected submitted_at to be stamped")
	}
	if review.AverageRating != 4.0 {
		t.Fatalf("average rating = %v, want 4.0", review.AverageRating)
	}

	var reloaded models.ReviewerAssignment
	if err := db.First(&reloaded, "assignment_id = ?", assignment.AssignmentID).Error; err != nil {
		t.Fatalf("failed to reload assignment: %v", err)
	}
	if reloaded.Status != models.AssignmentStatusCompleted {
		t.Fatalf("assignment status = %q, want completed", reloaded.Status)
	}
}

func TestSubmitReviewDuplicatePair(t *testing.T) {
	db := newTestDB(t)
	owner := createTestUser(t, db, models.RoleResearcher)
	editor := createTestUser(t, db, models.RoleEditor)
	reviewer := createTestUser(t, db, models.RoleReviewer)
	research := createTestResearch(t, db, uint(owner.UserID), "JRN-REV-003")
	assignment := assignTestReviewer(t, db, research.ResearchID, uint(reviewer.UserID), uint(editor.UserID))
	submitTestReview(t, db, research.ResearchID, uint(reviewer.UserID))

	// Force the assignment back so a violation would be visible.
	if _, err := UpdateAssignmentStatus(db, assignment.AssignmentID, models.AssignmentStatusAccepted); err != nil {
		t.Fatalf("failed to reset assignment: %v", err)
	}

	dup := models.Review{
		ResearchID:     research.ResearchID,
		ReviewerID:     uint(reviewer.UserID),
		Originality:    1,
		Methodology:    1,
		Clarity:        1,
		Significance:   1,
		Recommendation: models.RecommendationRejected,
	}
	if err := SubmitReview(db, &dup); !errors.Is(err, ErrDuplicateReview) {
		t.Fatalf("expected ErrDuplicateReview, got %v", err)
	}

	var count int64
	db.Model(&models.Review{}).Where("research_id = ?", research.ResearchID).Count(&count)
	if count != 1 {
		t.Fatalf("expected 1 review row, got %d", count)
	}

	var reloaded models.ReviewerAssignment
	db.First(&reloaded, "assignment_id = ?", assignment.AssignmentID)
	if reloaded.Status != models.AssignmentStatusAccepted {
		t.Fatalf("assignment status changed on rejected submit: %q", reloaded.Status)
	}
}

func TestCompletenessIdempotentAfterDecision(t *testing.T) {
	db := newTestDB(t)
	owner := createTestUser(t, db, models.RoleResearcher)
	editor := createTestUser(t, db, models.RoleEditor)
	reviewer := createTestUser(t, db, models.RoleReviewer)
	research := createTestResearch(t, db, uint(owner.UserID), "JRN-REV-004")
	assignTestReviewer(t, db, research.ResearchID, uint(reviewer.UserID), uint(editor.UserID))
	submitTestReview(t, db, research.ResearchID, uint(reviewer.UserID))

	if got := researchStatus(t, db, research.ResearchID); got != models.ResearchStatusPendingEditorDecision {
		t.Fatalf("status = %q, want pending_editor_decision", got)
	}

	// Editor decides; a later completeness re-run must not move the status back
	// or error.
	if _, err := SetResearchStatus(db, research.ResearchID, models.ResearchStatusAccepted); err != nil {
		t.Fatalf("editorial decision failed: %v", err)
	}
	if err := CheckReviewCompleteness(db, research.ResearchID); err != nil {
		t.Fatalf("re-running completeness check failed: %v", err)
	}
	if got := researchStatus(t, db, research.ResearchID); got != models.ResearchStatusAccepted {
		t.Fatalf("status = %q, want accepted", got)
	}
}

func TestCompletenessNoAssignmentsIsNoop(t *testing.T) {
	db := newTestDB(t)
	owner := createTestUser(t, db, models.RoleResearcher)
	research := createTestResearch(t, db, uint(owner.UserID), "JRN-REV-005")

	if err := CheckReviewCompleteness(db, research.ResearchID); err != nil {
		t.Fatalf("completeness check with no assignments failed: %v", err)
	}
	if got := researchStatus(t, db, research.ResearchID); got != models.ResearchStatusUnderReview {
		t.Fatalf("status = %q, want under_review", got)
	}
}

// Reviews submitted after their assignment was removed still count toward the
// threshold.
func TestCompletenessCountsOrphanedReviews(t *testing.T) {
	db := newTestDB(t)
	owner := createTestUser(t, db, models.RoleResearcher)
	editor := createTestUser(t, db, models.RoleEditor)
	rev1 := createTestUser(t, db, models.RoleReviewer)
	rev2 := createTestUser(t, db, models.RoleReviewer)
	research := createTestResearch(t, db, uint(owner.UserID), "JRN-REV-006")

	a1 := assignTestReviewer(t, db, research.ResearchID, uint(rev1.UserID), uint(editor.UserID))
	assignTestReviewer(t, db, research.ResearchID, uint(rev2.UserID), uint(editor.UserID))

	submitTestReview(t, db, research.ResearchID, uint(rev1.UserID))
	// The first assignment is removed after its review came in.
	if err := db.Delete(&models.ReviewerAssignment{}, "assignment_id = ?", a1.AssignmentID).Error; err != nil {
		t.Fatalf("failed to delete assignment: %v", err)
	}

	submitTestReview(t, db, research.ResearchID, uint(rev2.UserID))
	if got := researchStatus(t, db, research.ResearchID); got != models.ResearchStatusPendingEditorDecision {
		t.Fatalf("status = %q, want pending_editor_decision", got)
	}
}

func TestResearchReviewStatsRounding(t *testing.T) {
	db := newTestDB(t)
	owner := createTestUser(t, db, models.RoleResearcher)
	editor := createTestUser(t, db, models.RoleEditor)
	rev1 := createTestUser(t, db, models.RoleReviewer)
	rev2 := createTestUser(t, db, models.RoleReviewer)
	rev3 := createTestUser(t, db, models.RoleReviewer)
	research := createTestResearch(t, db, uint(owner.UserID), "JRN-REV-007")
	for _, r := range []*models.User{rev1, rev2, rev3} {
		assignTestReviewer(t, db, research.ResearchID, uint(r.UserID), uint(editor.UserID))
	}

	reviews := []models.Review{
		{ResearchID: research.ResearchID, ReviewerID: uint(rev1.UserID), Originality: 4, Methodology: 4, Clarity: 4, Significance: 5, Recommendation: models.RecommendationAccepted},
		{ResearchID: research.ResearchID, ReviewerID: uint(rev2.UserID), Originality: 3, Methodology: 3, Clarity: 3, Significance: 3, Recommendation: models.RecommendationNeedsRevision},
		{ResearchID: research.ResearchID, ReviewerID: uint(rev3.UserID), Originality: 2, Methodology: 3, Clarity: 3, Significance: 3, Recommendation: models.RecommendationNeedsRevision},
	}
	for i := range reviews {
		if err := SubmitReview(db, &reviews[i]); err != nil {
			t.Fatalf("review %d failed: %v", i, err)
		}
	}

	stats, err := ResearchReviewStats(db, research.ResearchID)
	if err != nil {
		t.Fatalf("stats failed: %v", err)
	}
	// Averages are 4.25, 3.0, 2.75; the mean is 3.3333... -> 3.33.
	if stats.AverageRating != 3.33 {
		t.Fatalf("average = %v, want 3.33", stats.AverageRating)
	}
	if stats.CountByStatus[models.ReviewStatusCompleted] != 3 {
		t.Fatalf("completed count = %d, want 3", stats.CountByStatus[models.ReviewStatusCompleted])
	}
	if stats.Total != 3 {
		t.Fatalf("total = %d, want 3", stats.Total)
	}
}

func TestSubstituteReviewFileFirstEditWins(t *testing.T) {
	db := newTestDB(t)
	owner := createTestUser(t, db, models.RoleResearcher)
	editor := createTestUser(t, db, models.RoleEditor)
	reviewer := createTestUser(t, db, models.RoleReviewer)
	research := createTestResearch(t, db, uint(owner.UserID), "JRN-REV-008")
	assignTestReviewer(t, db, research.ResearchID, uint(reviewer.UserID), uint(editor.UserID))

	// Attach the original manuscript file.
	originalURL := "/uploads/manuscripts/original.pdf"
	fileID := uint(11)
	if err := db.Model(&models.Research{}).
		Where("research_id = ?", research.ResearchID).
		Updates(map[string]interface{}{"file_url": originalURL, "file_id": fileID}).Error; err != nil {
		t.Fatalf("failed to attach file: %v", err)
	}

	review := submitTestReview(t, db, research.ResearchID, uint(reviewer.UserID))

	updated, err := SubstituteReviewFile(db, review.ReviewID, "/uploads/review-edits/edit1.pdf", 21)
	if err != nil {
		t.Fatalf("first substitution failed: %v", err)
	}
	if updated.OriginalFileURL == nil || *updated.OriginalFileURL != originalURL {
		t.Fatalf("backup = %v, want %q", updated.OriginalFileURL, originalURL)
	}

	reloaded, err := GetResearch(db, research.ResearchID)
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if reloaded.FileURL == nil || *reloaded.FileURL != "/uploads/review-edits/edit1.pdf" {
		t.Fatalf("research file = %v, want first edit", reloaded.FileURL)
	}

	// Second substitution must not refresh the backup.
	updated, err = SubstituteReviewFile(db, review.ReviewID, "/uploads/review-edits/edit2.pdf", 22)
	if err != nil {
		t.Fatalf("second substitution failed: %v", err)
	}
	if updated.OriginalFileURL == nil || *updated.OriginalFileURL != originalURL {
		t.Fatalf("backup refreshed on second edit: %v", updated.OriginalFileURL)
	}

	// Restore puts back the one saved level.
	restored, err := RestoreOriginalFile(db, review.ReviewID)
	if err != nil {
		t.Fatalf("restore failed: %v", err)
	}
	if restored.FileURL == nil || *restored.FileURL != originalURL {
		t.Fatalf("restored file = %v, want %q", restored.FileURL, originalURL)
	}
}

func TestRestoreOriginalFileWithoutBackup(t *testing.T) {
	db := newTestDB(t)
	owner := createTestUser(t, db, models.RoleResearcher)
	editor := createTestUser(t, db, models.RoleEditor)
	reviewer := createTestUser(t, db, models.RoleReviewer)
	research := createTestResearch(t, db, uint(owner.UserID), "JRN-REV-009")
	assignTestReviewer(t, db, research.ResearchID, uint(reviewer.UserID), uint(editor.UserID))
	review := submitTestReview(t, db, research.ResearchID, uint(reviewer.UserID))

	if _, err := RestoreOriginalFile(db, review.ReviewID); !errors.Is(err, ErrNoOriginalBackup) {
		t.Fatalf("expected ErrNoOriginalBackup, got %v", err)
	}
}
