package services

import "errors"

// Sentinel errors returned by the workflow services. Controllers map these to
// HTTP status codes: conflicts to 409, business-rule violations to 422,
// missing entities to 404.
var (
	ErrResearchNotFound   = errors.New("research not found")
	ErrAssignmentNotFound = errors.New("reviewer assignment not found")
	ErrReviewNotFound     = errors.New("review not found")
	ErrRevisionNotFound   = errors.New("revision not found")
	ErrIssueNotFound      = errors.New("issue not found")
	ErrArticleNotFound    = errors.New("article not found")

	ErrDuplicateResearchNumber = errors.New("research number already exists")
	ErrDuplicateAssignment     = errors.New("reviewer is already assigned to this research")
	ErrDuplicateReview         = errors.New("reviewer has already reviewed this research")
	ErrDuplicateIssueNumber    = errors.New("issue number already exists")
	ErrDuplicateArticleNumber  = errors.New("article number already exists")
	ErrResearchAlreadyLinked   = errors.New("research is already linked to a published article")

	ErrInvalidTransition = errors.New("invalid status transition")
	ErrIssueAtCapacity   = errors.New("issue has reached its maximum number of articles")
	ErrIssueNotEmpty     = errors.New("issue still contains articles")
	ErrMaxBelowArticles  = errors.New("max_articles cannot be lower than the current article count")
	ErrResearchPublished = errors.New("research is published and cannot be deleted")
	ErrNoOriginalBackup  = errors.New("no original file backup exists for this review")
	ErrResearchHasNoFile = errors.New("research has no file to substitute")
)
