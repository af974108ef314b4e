package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"journal-api/config"
	"journal-api/models"
	"journal-api/services"
)

type CreateArticleRequest struct {
	ArticleNumber string  `json:"article_number" binding:"required"`
	IssueID       uint    `json:"issue_id" binding:"required"`
	ResearchID    *uint   `json:"research_id"`
	Title         string  `json:"title" binding:"required"`
	Authors       *string `json:"authors"`
	Pages         *string `json:"pages"`
	PdfURL        *string `json:"pdf_url"`
}

type UpdateArticleRequest struct {
	IssueID *uint   `json:"issue_id"`
	Title   *string `json:"title"`
	Authors *string `json:"authors"`
	Pages   *string `json:"pages"`
	PdfURL  *string `json:"pdf_url"`
}

// CreateArticle places an article into an issue, optionally publishing its
// source manuscript.
// POST /api/v1/articles
func CreateArticle(c *gin.Context) {
	var req CreateArticleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	article := models.Article{
		ArticleNumber: req.ArticleNumber,
		IssueID:       req.IssueID,
		ResearchID:    req.ResearchID,
		Title:         req.Title,
		Authors:       req.Authors,
		Pages:         req.Pages,
		PdfURL:        req.PdfURL,
	}

	if err := services.CreateArticle(config.DB, &article); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"article": article})
}

// GetArticles lists articles, optionally filtered by issue.
// GET /api/v1/articles
func GetArticles(c *gin.Context) {
	query := config.DB.Model(&models.Article{})
	if issue := c.Query("issue_id"); issue != "" {
		query = query.Where("issue_id = ?", issue)
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var articles []models.Article
	if err := query.Order("create_at DESC").Find(&articles).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load articles"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"articles": articles, "total": len(articles)})
}

// GetArticleByID returns one article.
// GET /api/v1/articles/:id
func GetArticleByID(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	article, err := services.GetArticle(config.DB, id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"article": article})
}

// UpdateArticle patches an article; moving it between issues re-checks the
// destination capacity and recomputes both issues' stats.
// PUT /api/v1/articles/:id
func UpdateArticle(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateArticleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updates := map[string]interface{}{}
	if req.IssueID != nil {
		updates["issue_id"] = *req.IssueID
	}
	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.Authors != nil {
		updates["authors"] = *req.Authors
	}
	if req.Pages != nil {
		updates["pages"] = *req.Pages
	}
	if req.PdfURL != nil {
		updates["pdf_url"] = *req.PdfURL
	}
	if len(updates) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Nothing to update"})
		return
	}

	article, err := services.UpdateArticle(config.DB, id, updates)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"article": article})
}

// DeleteArticle removes an article and reverts its source manuscript to
// accepted.
// DELETE /api/v1/articles/:id
func DeleteArticle(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := services.RemoveArticle(config.DB, id); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Article deleted"})
}

// VerifyArticle is the public endpoint behind the QR verification artifact.
// GET /api/v1/articles/:id/verify
func VerifyArticle(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	article, err := services.GetArticle(config.DB, id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	var issue models.Issue
	_ = config.DB.First(&issue, "issue_id = ?", article.IssueID).Error

	c.JSON(http.StatusOK, gin.H{
		"article_number": article.ArticleNumber,
		"title":          article.Title,
		"authors":        article.Authors,
		"status":         article.Status,
		"published_date": article.PublishedDate,
		"issue_number":   issue.IssueNumber,
	})
}
