package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"journal-api/config"
	"journal-api/models"
	"journal-api/services"
)

type CreateIssueRequest struct {
	IssueNumber string     `json:"issue_number" binding:"required"`
	Title       *string    `json:"title"`
	MaxArticles int        `json:"max_articles" binding:"required"`
	PublishDate *time.Time `json:"publish_date"`
}

type UpdateIssueRequest struct {
	Title       *string    `json:"title"`
	MaxArticles *int       `json:"max_articles"`
	Status      *string    `json:"status"`
	PublishDate *time.Time `json:"publish_date"`
}

// CreateIssue creates a new journal issue.
// POST /api/v1/issues
func CreateIssue(c *gin.Context) {
	var req CreateIssueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.MaxArticles <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "max_articles must be positive"})
		return
	}

	issue := models.Issue{
		IssueNumber: req.IssueNumber,
		Title:       req.Title,
		MaxArticles: req.MaxArticles,
		PublishDate: req.PublishDate,
	}

	if err := services.CreateIssue(config.DB, &issue); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"issue": issue})
}

// GetIssues lists all issues.
// GET /api/v1/issues
func GetIssues(c *gin.Context) {
	query := config.DB.Model(&models.Issue{})
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var issues []models.Issue
	if err := query.Order("create_at DESC").Find(&issues).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load issues"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"issues": issues, "total": len(issues)})
}

// GetIssueByID returns one issue with its articles.
// GET /api/v1/issues/:id
func GetIssueByID(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var issue models.Issue
	if err := config.DB.Preload("Articles").
		First(&issue, "issue_id = ?", id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Issue not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"issue": issue})
}

// UpdateIssue patches an issue; lowering max_articles below the current
// article count is refused.
// PUT /api/v1/issues/:id
func UpdateIssue(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateIssueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updates := map[string]interface{}{}
	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.MaxArticles != nil {
		if *req.MaxArticles <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "max_articles must be positive"})
			return
		}
		updates["max_articles"] = *req.MaxArticles
	}
	if req.Status != nil {
		switch *req.Status {
		case models.IssueStatusPlanned, models.IssueStatusInProgress, models.IssueStatusPublished:
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown status value"})
			return
		}
		updates["status"] = *req.Status
	}
	if req.PublishDate != nil {
		updates["publish_date"] = *req.PublishDate
	}
	if len(updates) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Nothing to update"})
		return
	}

	issue, err := services.UpdateIssue(config.DB, id, updates)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"issue": issue})
}

// PublishIssue publishes an issue and cascades to its articles. Calling it
// again on a published issue advances late-added articles.
// POST /api/v1/issues/:id/publish
func PublishIssue(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	issue, err := services.PublishIssue(config.DB, id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"issue": issue})
}

// DeleteIssue removes an empty issue.
// DELETE /api/v1/issues/:id
func DeleteIssue(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := services.DeleteIssue(config.DB, id); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Issue deleted"})
}
