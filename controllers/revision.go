package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"journal-api/config"
	"journal-api/models"
	"journal-api/services"
)

type CreateRevisionRequest struct {
	Notes    *string    `json:"notes"`
	Deadline *time.Time `json:"deadline"`
}

// CreateRevision opens a new revision cycle for a manuscript.
// POST /api/v1/researches/:id/revisions
func CreateRevision(c *gin.Context) {
	researchID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req CreateRevisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	revision := models.ResearchRevision{
		ResearchID: researchID,
		Notes:      req.Notes,
		Deadline:   req.Deadline,
	}

	if err := services.CreateRevision(config.DB, &revision); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"revision": revision})
}

// GetResearchRevisions lists the revision cycles of one manuscript.
// GET /api/v1/researches/:id/revisions
func GetResearchRevisions(c *gin.Context) {
	researchID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var revisions []models.ResearchRevision
	if err := config.DB.Where("research_id = ?", researchID).
		Order("revision_number ASC").
		Find(&revisions).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load revisions"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"revisions": revisions, "total": len(revisions)})
}

// UploadRevisionFile submits the revised manuscript file for a revision.
// POST /api/v1/revisions/:id/file
func UploadRevisionFile(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	revision, err := services.GetRevision(config.DB, id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	research, err := services.GetResearch(config.DB, revision.ResearchID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	userID, _ := getCurrentUserID(c)
	if research.UserID != userID && !isEditorOrAdmin(c) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Insufficient permissions"})
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded"})
		return
	}

	record, url, err := services.StoreFile(config.DB, c, file, userID, "revisions")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save file"})
		return
	}

	updated, err := services.SubmitRevisionFile(config.DB, id, url, record.FileID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"revision": updated})
}

// ApproveRevision marks a revision approved. The manuscript decision itself
// stays a separate editorial action.
// PUT /api/v1/revisions/:id/approve
func ApproveRevision(c *gin.Context) {
	setRevisionStatus(c, models.RevisionStatusApproved)
}

// RejectRevision marks a revision rejected.
// PUT /api/v1/revisions/:id/reject
func RejectRevision(c *gin.Context) {
	setRevisionStatus(c, models.RevisionStatusRejected)
}

func setRevisionStatus(c *gin.Context, status string) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	revision, err := services.SetRevisionStatus(config.DB, id, status)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"revision": revision})
}

// DeleteRevision removes a revision cycle.
// DELETE /api/v1/revisions/:id
func DeleteRevision(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := services.DeleteRevision(config.DB, id); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Revision deleted"})
}
