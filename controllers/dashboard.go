package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"journal-api/config"
	"journal-api/models"
)

// GetDashboardStats returns the editorial overview: manuscripts per status,
// open review assignments and issues in progress.
// GET /api/v1/dashboard/stats
func GetDashboardStats(c *gin.Context) {
	var statusRows []struct {
		Status string
		Total  int64
	}
	if err := config.DB.Model(&models.Research{}).
		Select("status, COUNT(*) AS total").
		Where("delete_at IS NULL").
		Group("status").
		Scan(&statusRows).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load stats"})
		return
	}

	researchByStatus := map[string]int64{}
	for _, row := range statusRows {
		researchByStatus[row.Status] = row.Total
	}

	var pendingReviews int64
	config.DB.Model(&models.ReviewerAssignment{}).
		Where("status IN ?", []string{models.AssignmentStatusAssigned, models.AssignmentStatusAccepted}).
		Count(&pendingReviews)

	var openIssues int64
	config.DB.Model(&models.Issue{}).
		Where("status <> ?", models.IssueStatusPublished).
		Count(&openIssues)

	var publishedArticles int64
	config.DB.Model(&models.Article{}).
		Where("status = ?", models.ArticleStatusPublished).
		Count(&publishedArticles)

	c.JSON(http.StatusOK, gin.H{
		"research_by_status": researchByStatus,
		"pending_reviews":    pendingReviews,
		"open_issues":        openIssues,
		"published_articles": publishedArticles,
	})
}
