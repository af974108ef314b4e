package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"journal-api/config"
	"journal-api/models"
	"journal-api/services"
	"journal-api/utils"
)

type SubmitResearchRequest struct {
	ResearchNumber string  `json:"research_number" binding:"required"`
	Title          string  `json:"title" binding:"required"`
	Abstract       string  `json:"abstract" binding:"required"`
	Keywords       *string `json:"keywords"`
}

// SubmitResearch handles a new manuscript submission.
// POST /api/v1/researches
func SubmitResearch(c *gin.Context) {
	userID, ok := getCurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found"})
		return
	}

	var req SubmitResearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	research := models.Research{
		UserID:         userID,
		ResearchNumber: utils.SanitizeInput(req.ResearchNumber),
		Title:          utils.SanitizeInput(req.Title),
		Abstract:       req.Abstract,
		Keywords:       req.Keywords,
	}

	if err := services.SubmitResearch(config.DB, &research); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"research": research})
}

// GetResearches lists manuscripts scoped by role: researchers see their own,
// reviewers see the ones assigned to them, editors and admins see all.
// GET /api/v1/researches
func GetResearches(c *gin.Context) {
	userID, _ := getCurrentUserID(c)
	roleID, _ := getCurrentRoleID(c)

	query := config.DB.Preload("Owner").Where("delete_at IS NULL")

	switch roleID {
	case models.RoleResearcher:
		query = query.Where("user_id = ?", userID)
	case models.RoleReviewer:
		query = query.Where("research_id IN (?)",
			config.DB.Model(&models.ReviewerAssignment{}).
				Select("research_id").
				Where("reviewer_id = ?", userID))
	}

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var researches []models.Research
	if err := query.Order("create_at DESC").Find(&researches).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load manuscripts"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"researches": researches, "total": len(researches)})
}

// GetResearchByID returns one manuscript with its assignments, reviews and
// revisions.
// GET /api/v1/researches/:id
func GetResearchByID(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var research models.Research
	if err := config.DB.Preload("Owner").Preload("Assignments").
		Preload("Reviews").Preload("Revisions").
		First(&research, "research_id = ? AND delete_at IS NULL", id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Research not found"})
		return
	}

	userID, _ := getCurrentUserID(c)
	roleID, _ := getCurrentRoleID(c)
	if roleID == models.RoleResearcher && research.UserID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Insufficient permissions"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"research": research})
}

type StatusUpdateRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateResearchStatus applies an editorial decision (or any other legal
// transition) to a manuscript.
// PUT /api/v1/researches/:id/status
func UpdateResearchStatus(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req StatusUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	switch req.Status {
	case models.ResearchStatusPending, models.ResearchStatusUnderReview,
		models.ResearchStatusPendingEditorDecision, models.ResearchStatusNeedsRevision,
		models.ResearchStatusAccepted, models.ResearchStatusRejected,
		models.ResearchStatusPublished:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown status value"})
		return
	}

	research, err := services.SetResearchStatus(config.DB, id, req.Status)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"research": research})
}

// DeleteResearch soft-deletes a manuscript.
// DELETE /api/v1/researches/:id
func DeleteResearch(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	research, err := services.GetResearch(config.DB, id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	userID, _ := getCurrentUserID(c)
	if !isEditorOrAdmin(c) && research.UserID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Insufficient permissions"})
		return
	}

	if err := services.DeleteResearch(config.DB, id); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Research deleted"})
}

// UploadResearchFile attaches the manuscript PDF.
// POST /api/v1/researches/:id/file
func UploadResearchFile(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	research, err := services.GetResearch(config.DB, id)
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

	record, url, err := services.StoreFile(config.DB, c, file, userID, "manuscripts")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save file"})
		return
	}

	if err := config.DB.Model(&models.Research{}).
		Where("research_id = ?", id).
		Updates(map[string]interface{}{"file_url": url, "file_id": record.FileID}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to link file"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"file": record, "file_url": url})
}
