package services

import (
	"errors"
	"math"
	"time"

	"gorm.io/gorm"

	"journal-api/models"
	"journal-api/utils"
)

// CreateIssue stores a new issue. Issue numbers are unique.
func CreateIssue(db *gorm.DB, issue *models.Issue) error {
	var count int64
	if err := db.Model(&models.Issue{}).
		Where("issue_number = ?", issue.IssueNumber).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrDuplicateIssueNumber
	}

	now := time.Now()
	if issue.Status == "" {
		issue.Status = models.IssueStatusPlanned
	}
	issue.CreateAt = now
	issue.UpdateAt = now
	return db.Create(issue).Error
}

// GetIssue loads an issue by id.
func GetIssue(db *gorm.DB, issueID uint) (*models.Issue, error) {
	var issue models.Issue
	if err := db.First(&issue, "issue_id = ?", issueID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrIssueNotFound
		}
		return nil, err
	}
	return &issue, nil
}

// RecomputeIssueStats is the single source of truth for the three derived
// issue fields. It recounts the actual article rows, sums their parsed page
// ranges and recomputes the progress percentage. Runs under the issue lock.
func RecomputeIssueStats(db *gorm.DB, issueID uint) (*models.Issue, error) {
	var issue *models.Issue
	err := withIssueLock(issueID, func() error {
		var innerErr error
		issue, innerErr = recomputeIssueStatsLocked(db, issueID)
		return innerErr
	})
	return issue, err
}

// recomputeIssueStatsLocked does the actual recomputation; callers must hold
// the issue lock.
func recomputeIssueStatsLocked(db *gorm.DB, issueID uint) (*models.Issue, error) {
	issue, err := GetIssue(db, issueID)
	if err != nil {
		return nil, err
	}

	var articles []models.Article
	if err := db.Where("issue_id = ?", issueID).Find(&articles).Error; err != nil {
		return nil, err
	}

	totalPages := 0
	for _, a := range articles {
		if a.Pages != nil {
			totalPages += utils.CountPages(*a.Pages)
		}
	}

	progress := 0
	if issue.MaxArticles > 0 {
		progress = int(math.Round(float64(len(articles)) / float64(issue.MaxArticles) * 100))
		if progress > 100 {
			progress = 100
		}
	}

	now := time.Now()
	updates := map[string]interface{}{
		"total_articles":      len(articles),
		"total_pages":         totalPages,
		"progress_percentage": progress,
		"update_at":           now,
	}
	if err := db.Model(&models.Issue{}).
		Where("issue_id = ?", issueID).
		Updates(updates).Error; err != nil {
		return nil, err
	}

	issue.TotalArticles = len(articles)
	issue.TotalPages = totalPages
	issue.ProgressPercentage = progress
	issue.UpdateAt = now
	return issue, nil
}

// UpdateIssue applies a patch to an issue. Lowering max_articles below the
// current article count would corrupt the capacity invariant and is refused.
func UpdateIssue(db *gorm.DB, issueID uint, updates map[string]interface{}) (*models.Issue, error) {
	var issue *models.Issue
	err := withIssueLock(issueID, func() error {
		var innerErr error
		issue, innerErr = GetIssue(db, issueID)
		if innerErr != nil {
			return innerErr
		}

		if raw, ok := updates["max_articles"]; ok {
			if max, ok := raw.(int); ok && max < issue.TotalArticles {
				return ErrMaxBelowArticles
			}
		}

		updates["update_at"] = time.Now()
		if innerErr = db.Model(&models.Issue{}).
			Where("issue_id = ?", issueID).
			Updates(updates).Error; innerErr != nil {
			return innerErr
		}

		issue, innerErr = GetIssue(db, issueID)
		return innerErr
	})
	return issue, err
}

// PublishIssue publishes an issue and cascades to its articles. Every article
// still ready_to_publish is advanced with one shared timestamp; articles
// published earlier keep their date. Re-running publish on an already
// published issue is the supported way to catch up late-added articles; the
// issue's own status and publish_date are only written the first time.
func PublishIssue(db *gorm.DB, issueID uint) (*models.Issue, error) {
	var issue *models.Issue
	err := withIssueLock(issueID, func() error {
		var innerErr error
		issue, innerErr = GetIssue(db, issueID)
		if innerErr != nil {
			return innerErr
		}

		now := time.Now()
		return db.Transaction(func(tx *gorm.DB) error {
			var articles []models.Article
			if err := tx.Where("issue_id = ? AND status = ?", issueID, models.ArticleStatusReadyToPublish).
				Find(&articles).Error; err != nil {
				return err
			}

			for _, article := range articles {
				if err := tx.Model(&models.Article{}).
					Where("article_id = ?", article.ArticleID).
					Updates(map[string]interface{}{
						"status":         models.ArticleStatusPublished,
						"published_date": now,
						"update_at":      now,
					}).Error; err != nil {
					return err
				}

				if article.ResearchID != nil {
					research, err := GetResearch(tx, *article.ResearchID)
					if err != nil {
						if errors.Is(err, ErrResearchNotFound) {
							continue
						}
						return err
					}
					if err := TransitionResearch(tx, research, models.ResearchStatusPublished); err != nil &&
						!errors.Is(err, ErrInvalidTransition) {
						return err
					}
				}
			}

			if issue.Status != models.IssueStatusPublished {
				if err := tx.Model(&models.Issue{}).
					Where("issue_id = ?", issueID).
					Updates(map[string]interface{}{
						"status":              models.IssueStatusPublished,
						"publish_date":        now,
						"progress_percentage": 100,
						"update_at":           now,
					}).Error; err != nil {
					return err
				}
				issue.Status = models.IssueStatusPublished
				issue.PublishDate = &now
				issue.ProgressPercentage = 100
			}
			return nil
		})
	})
	return issue, err
}

// DeleteIssue removes an empty issue; issues still holding articles are
// refused.
func DeleteIssue(db *gorm.DB, issueID uint) error {
	return withIssueLock(issueID, func() error {
		if _, err := GetIssue(db, issueID); err != nil {
			return err
		}

		var count int64
		if err := db.Model(&models.Article{}).
			Where("issue_id = ?", issueID).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrIssueNotEmpty
		}

		return db.Delete(&models.Issue{}, "issue_id = ?", issueID).Error
	})
}
