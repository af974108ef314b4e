package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"journal-api/config"
	"journal-api/models"
	"journal-api/services"
	"journal-api/utils"
)

type SubmitReviewRequest struct {
	Originality    int     `json:"originality" binding:"required"`
	Methodology    int     `json:"methodology" binding:"required"`
	Clarity        int     `json:"clarity" binding:"required"`
	Significance   int     `json:"significance" binding:"required"`
	Recommendation string  `json:"recommendation" binding:"required"`
	Comments       *string `json:"comments"`
	EditorComments *string `json:"editor_comments"`
}

func validateReviewRequest(req *SubmitReviewRequest) (string, bool) {
	for _, rating := range []int{req.Originality, req.Methodology, req.Clarity, req.Significance} {
		if !utils.ValidateRating(rating) {
			return "Ratings must be between 1 and 5", false
		}
	}
	switch req.Recommendation {
	case models.RecommendationAccepted, models.RecommendationNeedsRevision, models.RecommendationRejected:
	default:
		return "Unknown recommendation value", false
	}
	return "", true
}

// SubmitReview stores one reviewer's evaluation of a manuscript; only the
// assigned reviewer may submit for their own pair.
// POST /api/v1/researches/:id/reviews
func SubmitReview(c *gin.Context) {
	researchID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req SubmitReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if msg, ok := validateReviewRequest(&req); !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}

	reviewerID, _ := getCurrentUserID(c)
	review := models.Review{
		ResearchID:     researchID,
		ReviewerID:     reviewerID,
		Originality:    req.Originality,
		Methodology:    req.Methodology,
		Clarity:        req.Clarity,
		Significance:   req.Significance,
		Recommendation: req.Recommendation,
		Comments:       req.Comments,
		EditorComments: req.EditorComments,
	}

	if err := services.SubmitReview(config.DB, &review); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"review": review})
}

// GetResearchReviews lists the reviews of one manuscript. Researchers never
// see confidential editor comments; the json tag on the model hides them.
// GET /api/v1/researches/:id/reviews
func GetResearchReviews(c *gin.Context) {
	researchID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var reviews []models.Review
	if err := config.DB.Preload("Reviewer").
		Where("research_id = ?", researchID).
		Order("create_at ASC").
		Find(&reviews).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load reviews"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"reviews": reviews, "total": len(reviews)})
}

// UpdateReview amends a review before the editorial decision.
// PUT /api/v1/reviews/:id
func UpdateReview(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req SubmitReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if msg, ok := validateReviewRequest(&req); !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}

	var existing models.Review
	if err := config.DB.First(&existing, "review_id = ?", id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Review not found"})
		return
	}

	userID, _ := getCurrentUserID(c)
	if !isEditorOrAdmin(c) && existing.ReviewerID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Insufficient permissions"})
		return
	}

	review, err := services.UpdateReview(config.DB, id, func(r *models.Review) {
		r.Originality = req.Originality
		r.Methodology = req.Methodology
		r.Clarity = req.Clarity
		r.Significance = req.Significance
		r.Recommendation = req.Recommendation
		r.Comments = req.Comments
		r.EditorComments = req.EditorComments
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"review": review})
}

// GetReviewStats returns the aggregate rating and per-status counts of a
// manuscript's reviews.
// GET /api/v1/researches/:id/reviews/stats
func GetReviewStats(c *gin.Context) {
	researchID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	stats, err := services.ResearchReviewStats(config.DB, researchID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load stats"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"stats": stats})
}

// UploadReviewFile lets the reviewer substitute an edited manuscript file.
// POST /api/v1/reviews/:id/file
func UploadReviewFile(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var existing models.Review
	if err := config.DB.First(&existing, "review_id = ?", id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Review not found"})
		return
	}

	userID, _ := getCurrentUserID(c)
	if existing.ReviewerID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Insufficient permissions"})
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded"})
		return
	}

	record, url, err := services.StoreFile(config.DB, c, file, userID, "review-edits")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save file"})
		return
	}

	review, err := services.SubstituteReviewFile(config.DB, id, url, record.FileID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"review": review})
}

// RestoreOriginalFile reverts the manuscript file to the single backed-up
// version saved when the reviewer first substituted it.
// POST /api/v1/reviews/:id/restore-original
func RestoreOriginalFile(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	research, err := services.RestoreOriginalFile(config.DB, id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"research": research})
}
