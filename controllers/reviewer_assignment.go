package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"journal-api/config"
	"journal-api/models"
	"journal-api/services"
)

type AssignReviewerRequest struct {
	ReviewerID uint       `json:"reviewer_id" binding:"required"`
	Deadline   *time.Time `json:"deadline"`
	Notes      *string    `json:"notes"`
}

// AssignReviewer assigns a reviewer to a manuscript.
// POST /api/v1/researches/:id/reviewers
func AssignReviewer(c *gin.Context) {
	researchID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req AssignReviewerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var reviewer models.User
	if err := config.DB.First(&reviewer,
		"user_id = ? AND delete_at IS NULL", req.ReviewerID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Reviewer not found"})
		return
	}

	assignerID, _ := getCurrentUserID(c)
	assignment := models.ReviewerAssignment{
		ResearchID: researchID,
		ReviewerID: req.ReviewerID,
		AssignedBy: assignerID,
		Deadline:   req.Deadline,
		Notes:      req.Notes,
	}

	if err := services.AssignReviewer(config.DB, &assignment); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"assignment": assignment})
}

// GetResearchAssignments lists the reviewer assignments of one manuscript.
// GET /api/v1/researches/:id/reviewers
func GetResearchAssignments(c *gin.Context) {
	researchID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var assignments []models.ReviewerAssignment
	if err := config.DB.Preload("Reviewer").
		Where("research_id = ?", researchID).
		Order("create_at ASC").
		Find(&assignments).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load assignments"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"assignments": assignments, "total": len(assignments)})
}

// UpdateAssignmentStatus lets a reviewer accept or decline, and an editor
// force a status.
// PUT /api/v1/assignments/:id/status
func UpdateAssignmentStatus(c *gin.Context) {
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
	case models.AssignmentStatusAssigned, models.AssignmentStatusAccepted,
		models.AssignmentStatusDeclined, models.AssignmentStatusCompleted:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown status value"})
		return
	}

	var assignment models.ReviewerAssignment
	if err := config.DB.First(&assignment, "assignment_id = ?", id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Assignment not found"})
		return
	}

	userID, _ := getCurrentUserID(c)
	if !isEditorOrAdmin(c) && assignment.ReviewerID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Insufficient permissions"})
		return
	}

	updated, err := services.UpdateAssignmentStatus(config.DB, id, req.Status)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"assignment": updated})
}

// GetReviewerStats returns a reviewer's assignment counts grouped by status.
// GET /api/v1/reviewers/:id/stats
func GetReviewerStats(c *gin.Context) {
	reviewerID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	userID, _ := getCurrentUserID(c)
	if !isEditorOrAdmin(c) && reviewerID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Insufficient permissions"})
		return
	}

	stats, err := services.ReviewerStats(config.DB, reviewerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load stats"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"reviewer_id": reviewerID, "stats": stats})
}
