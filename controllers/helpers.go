package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"journal-api/models"
	"journal-api/services"
)

func getCurrentUserID(c *gin.Context) (uint, bool) {
	if v, ok := c.Get("userID"); ok {
		switch t := v.(type) {
		case int:
			return uint(t), true
		case int64:
			return uint(t), true
		case uint:
			return t, true
		}
	}
	return 0, false
}

func getCurrentRoleID(c *gin.Context) (int, bool) {
	if v, ok := c.Get("roleID"); ok {
		if t, ok := v.(int); ok {
			return t, true
		}
	}
	return 0, false
}

func isEditorOrAdmin(c *gin.Context) bool {
	role, ok := getCurrentRoleID(c)
	return ok && (role == models.RoleEditor || role == models.RoleAdmin)
}

func parseIDParam(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	n, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || n == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name})
		return 0, false
	}
	return uint(n), true
}

// respondServiceError maps workflow service errors onto HTTP status codes:
// not-found 404, uniqueness conflicts 409, business-rule violations 422,
// anything else 500.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrResearchNotFound),
		errors.Is(err, services.ErrAssignmentNotFound),
		errors.Is(err, services.ErrReviewNotFound),
		errors.Is(err, services.ErrRevisionNotFound),
		errors.Is(err, services.ErrIssueNotFound),
		errors.Is(err, services.ErrArticleNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrDuplicateResearchNumber),
		errors.Is(err, services.ErrDuplicateAssignment),
		errors.Is(err, services.ErrDuplicateReview),
		errors.Is(err, services.ErrDuplicateIssueNumber),
		errors.Is(err, services.ErrDuplicateArticleNumber),
		errors.Is(err, services.ErrResearchAlreadyLinked):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrInvalidTransition),
		errors.Is(err, services.ErrIssueAtCapacity),
		errors.Is(err, services.ErrIssueNotEmpty),
		errors.Is(err, services.ErrMaxBelowArticles),
		errors.Is(err, services.ErrResearchPublished),
		errors.Is(err, services.ErrNoOriginalBackup),
		errors.Is(err, services.ErrResearchHasNoFile):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
