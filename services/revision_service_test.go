package services

import (
	"encoding/json"
	"testing"

	"journal-api/models"
)

func TestRevisionNumbering(t *testing.T) {
	db := newTestDB(t)
	owner := createTestUser(t, db, models.RoleResearcher)
	research := createTestResearch(t, db, uint(owner.UserID), "JRN-RVS-001")

	first := models.ResearchRevision{ResearchID: research.ResearchID}
	if err := CreateRevision(db, &first); err != nil {
		t.Fatalf("first revision failed: %v", err)
	}
	if first.RevisionNumber != 1 {
		t.Fatalf("first revision number = %d, want 1", first.RevisionNumber)
	}
	if first.Status != models.RevisionStatusPending {
		t.Fatalf("first revision status = %q, want pending", first.Status)
	}

	second := models.ResearchRevision{ResearchID: research.ResearchID}
	if err := CreateRevision(db, &second); err != nil {
		t.Fatalf("second revision failed: %v", err)
	}
	if second.RevisionNumber != 2 {
		t.Fatalf("second revision number = %d, want 2", second.RevisionNumber)
	}
}

// Deleting a revision must not free its number for reuse.
func TestRevisionNumberNotReusedAfterDelete(t *testing.T) {
	db := newTestDB(t)
	owner := createTestUser(t, db, models.RoleResearcher)
	research := createTestResearch(t, db, uint(owner.UserID), "JRN-RVS-002")

	first := models.ResearchRevision{ResearchID: research.ResearchID}
	if err := CreateRevision(db, &first); err != nil {
		t.Fatalf("first revision failed: %v", err)
	}
	second := models.ResearchRevision{ResearchID: research.ResearchID}
	if err := CreateRevision(db, &second); err != nil {
		t.Fatalf("second revision failed: %v", err)
	}
	if err := DeleteRevision(db, first.RevisionID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	third := models.ResearchRevision{ResearchID: research.ResearchID}
	if err := CreateRevision(db, &third); err != nil {
		t.Fatalf("third revision failed: %v", err)
	}
	if third.RevisionNumber != 3 {
		t.Fatalf("revision number after delete = %d, want 3", third.RevisionNumber)
	}
}

func TestRevisionNumberingPerResearch(t *testing.T) {
	db := newTestDB(t)
	owner := createTestUser(t, db, models.RoleResearcher)
	r1 := createTestResearch(t, db, uint(owner.UserID), "JRN-RVS-003")
	r2 := createTestResearch(t, db, uint(owner.UserID), "JRN-RVS-004")

	rev1 := models.ResearchRevision{ResearchID: r1.ResearchID}
	if err := CreateRevision(db, &rev1); err != nil {
		t.Fatalf("revision for r1 failed: %v", err)
	}
	rev2 := models.ResearchRevision{ResearchID: r2.ResearchID}
	if err := CreateRevision(db, &rev2); err != nil {
		t.Fatalf("revision for r2 failed: %v", err)
	}
	if rev2.RevisionNumber != 1 {
		t.Fatalf("r2 first revision number = %d, want 1", rev2.RevisionNumber)
	}
}

func TestSubmitRevisionFileSnapshotsOnce(t *testing.T) {
	db := newTestDB(t)
	owner := createTestUser(t, db, models.RoleResearcher)
	research := createTestResearch(t, db, uint(owner.UserID), "JRN-RVS-005")

	originalURL := "/uploads/manuscripts/v1.pdf"
	if err := db.Model(&models.Research{}).
		Where("research_id = ?", research.ResearchID).
		Updates(map[string]interface{}{"file_url": originalURL, "file_id": 31}).Error; err != nil {
		t.Fatalf("failed to attach file: %v", err)
	}

	revision := models.ResearchRevision{ResearchID: research.ResearchID}
	if err := CreateRevision(db, &revision); err != nil {
		t.Fatalf("create revision failed: %v", err)
	}

	submitted, err := SubmitRevisionFile(db, revision.RevisionID, "/uploads/revisions/v2.pdf", 32)
	if err != nil {
		t.Fatalf("submit revision file failed: %v", err)
	}
	if submitted.Status != models.RevisionStatusSubmitted {
		t.Fatalf("revision status = %q, want submitted", submitted.Status)
	}
	if submitted.SubmittedAt == nil {
		t.Fatal("expected submitted_at to be stamped")
	}
	if submitted.OriginalData == nil {
		t.Fatal("expected original_data snapshot")
	}

	var snapshot struct {
		FileURL *string `json:"file_url"`
	}
	if err := json.Unmarshal([]byte(*submitted.OriginalData), &snapshot); err != nil {
		t.Fatalf("snapshot is not valid JSON: %v", err)
	}
	if snapshot.FileURL == nil || *snapshot.FileURL != originalURL {
		t.Fatalf("snapshot file_url = %v, want %q", snapshot.FileURL, originalURL)
	}

	// Manuscript file moved to the revised upload.
	reloaded, _ := GetResearch(db, research.ResearchID)
	if reloaded.FileURL == nil || *reloaded.FileURL != "/uploads/revisions/v2.pdf" {
		t.Fatalf("research file = %v, want revised upload", reloaded.FileURL)
	}

	// A second upload must not overwrite the first snapshot.
	resubmitted, err := SubmitRevisionFile(db, revision.RevisionID, "/uploads/revisions/v3.pdf", 33)
	if err != nil {
		t.Fatalf("second upload failed: %v", err)
	}
	if err := json.Unmarshal([]byte(*resubmitted.OriginalData), &snapshot); err != nil {
		t.Fatalf("snapshot is not valid JSON: %v", err)
	}
	if snapshot.FileURL == nil || *snapshot.FileURL != originalURL {
		t.Fatalf("snapshot was overwritten: %v", snapshot.FileURL)
	}
}

func TestSubmitRevisionFileResubmitsManuscript(t *testing.T) {
	db := newTestDB(t)
	owner := createTestUser(t, db, models.RoleResearcher)
	editor := createTestUser(t, db, models.RoleEditor)
	reviewer := createTestUser(t, db, models.RoleReviewer)
	research := createTestResearch(t, db, uint(owner.UserID), "JRN-RVS-006")
	assignTestReviewer(t, db, research.ResearchID, uint(reviewer.UserID), uint(editor.UserID))

	if _, err := SetResearchStatus(db, research.ResearchID, models.ResearchStatusPendingEditorDecision); err != nil {
		t.Fatalf("transition failed: %v", err)
	}
	if _, err := SetResearchStatus(db, research.ResearchID, models.ResearchStatusNeedsRevision); err != nil {
		t.Fatalf("transition failed: %v", err)
	}

	revision := models.ResearchRevision{ResearchID: research.ResearchID}
	if err := CreateRevision(db, &revision); err != nil {
		t.Fatalf("create revision failed: %v", err)
	}

	reviewerNotifs := notificationCount(t, db, uint(reviewer.UserID))
	editorNotifs := notificationCount(t, db, uint(editor.UserID))

	if _, err := SubmitRevisionFile(db, revision.RevisionID, "/uploads/revisions/r1.pdf", 41); err != nil {
		t.Fatalf("submit revision file failed: %v", err)
	}

	if got := researchStatus(t, db, research.ResearchID); got != models.ResearchStatusUnderReview {
		t.Fatalf("status after resubmission = %q, want under_review", got)
	}
	if got := notificationCount(t, db, uint(reviewer.UserID)); got != reviewerNotifs+1 {
		t.Fatalf("reviewer notifications = %d, want %d", got, reviewerNotifs+1)
	}
	if got := notificationCount(t, db, uint(editor.UserID)); got != editorNotifs+1 {
		t.Fatalf("editor notifications = %d, want %d", got, editorNotifs+1)
	}
}

func TestSetRevisionStatusDoesNotTouchResearch(t *testing.T) {
	db := newTestDB(t)
	owner := createTestUser(t, db, models.RoleResearcher)
	research := createTestResearch(t, db, uint(owner.UserID), "JRN-RVS-007")

	revision := models.ResearchRevision{ResearchID: research.ResearchID}
	if err := CreateRevision(db, &revision); err != nil {
		t.Fatalf("create revision failed: %v", err)
	}

	updated, err := SetRevisionStatus(db, revision.RevisionID, models.RevisionStatusApproved)
	if err != nil {
		t.Fatalf("approve failed: %v", err)
	}
	if updated.Status != models.RevisionStatusApproved {
		t.Fatalf("revision status = %q, want approved", updated.Status)
	}
	if got := researchStatus(t, db, research.ResearchID); got != models.ResearchStatusUnderReview {
		t.Fatalf("research status changed by revision approval: %q", got)
	}
}
