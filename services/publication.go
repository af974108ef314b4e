package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"journal-api/models"
)

// CreateArticle persists an article into an issue. The capacity check and the
// insert run under the issue lock inside one transaction, so two concurrent
// creations cannot both pass the check. When the article originates from a
// manuscript, the manuscript is flipped to published and linked; the
// verification artifact is generated best-effort afterwards.
func CreateArticle(db *gorm.DB, article *models.Article) error {
	var count int64
	if err := db.Model(&models.Article{}).
		Where("article_number = ?", article.ArticleNumber).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrDuplicateArticleNumber
	}

	err := withIssueLock(article.IssueID, func() error {
		issue, err := GetIssue(db, article.IssueID)
		if err != nil {
			return err
		}

		var current int64
		if err := db.Model(&models.Article{}).
			Where("issue_id = ?", article.IssueID).
			Count(&current).Error; err != nil {
			return err
		}
		if current >= int64(issue.MaxArticles) {
			return ErrIssueAtCapacity
		}

		var research *models.Research
		if article.ResearchID != nil {
			research, err = GetResearch(db, *article.ResearchID)
			if err != nil {
				return err
			}
			if research.PublishedArticleID != nil {
				return ErrResearchAlreadyLinked
			}
		}

		now := time.Now()
		if article.Status == "" {
			article.Status = models.ArticleStatusReadyToPublish
		}
		article.CreateAt = now
		article.UpdateAt = now

		if err := db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(article).Error; err != nil {
				return err
			}

			if research != nil {
				if err := TransitionResearch(tx, research, models.ResearchStatusPublished); err != nil {
					return err
				}
				return tx.Model(&models.Research{}).
					Where("research_id = ?", research.ResearchID).
					Update("published_article_id", article.ArticleID).Error
			}
			return nil
		}); err != nil {
			return err
		}

		_, err = recomputeIssueStatsLocked(db, article.IssueID)
		return err
	})
	if err != nil {
		return err
	}

	GenerateArticleQR(db, article)
	return nil
}

// GetArticle loads an article by id.
func GetArticle(db *gorm.DB, articleID uint) (*models.Article, error) {
	var article models.Article
	if err := db.First(&article, "article_id = ?", articleID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrArticleNotFound
		}
		return nil, err
	}
	return &article, nil
}

// RemoveArticle deletes an article. A linked manuscript is unlinked and
// reverted to accepted (the unlink path deliberately bypasses the forward
// transition table: published is otherwise terminal).
func RemoveArticle(db *gorm.DB, articleID uint) error {
	article, err := GetArticle(db, articleID)
	if err != nil {
		return err
	}

	return withIssueLock(article.IssueID, func() error {
		now := time.Now()
		if err := db.Transaction(func(tx *gorm.DB) error {
			if article.ResearchID != nil {
				if err := tx.Model(&models.Research{}).
					Where("research_id = ?", *article.ResearchID).
					Updates(map[string]interface{}{
						"status":               models.ResearchStatusAccepted,
						"published_article_id": nil,
						"published_date":       nil,
						"update_at":            now,
					}).Error; err != nil {
					return err
				}
			}
			return tx.Delete(&models.Article{}, "article_id = ?", articleID).Error
		}); err != nil {
			return err
		}

		_, err := recomputeIssueStatsLocked(db, article.IssueID)
		return err
	})
}

// UpdateArticle applies a patch. Moving the article to another issue
// re-checks the destination's capacity (same rule as creation) and recomputes
// stats on both issues.
func UpdateArticle(db *gorm.DB, articleID uint, updates map[string]interface{}) (*models.Article, error) {
	article, err := GetArticle(db, articleID)
	if err != nil {
		return nil, err
	}

	oldIssueID := article.IssueID
	newIssueID := oldIssueID
	if raw, ok := updates["issue_id"]; ok {
		if id, ok := raw.(uint); ok {
			newIssueID = id
		}
	}

	apply := func() error {
		if newIssueID != oldIssueID {
			issue, err := GetIssue(db, newIssueID)
			if err != nil {
				return err
			}
			var current int64
			if err := db.Model(&models.Article{}).
				Where("issue_id = ?", newIssueID).
				Count(&current).Error; err != nil {
				return err
			}
			if current >= int64(issue.MaxArticles) {
				return ErrIssueAtCapacity
			}
		}

		updates["update_at"] = time.Now()
		return db.Model(&models.Article{}).
			Where("article_id = ?", articleID).
			Updates(updates).Error
	}

	if newIssueID != oldIssueID {
		err = withIssueLock(newIssueID, apply)
	} else {
		err = withIssueLock(oldIssueID, apply)
	}
	if err != nil {
		return nil, err
	}

	if _, err := RecomputeIssueStats(db, oldIssueID); err != nil {
		return nil, err
	}
	if newIssueID != oldIssueID {
		if _, err := RecomputeIssueStats(db, newIssueID); err != nil {
			return nil, err
		}
	}

	return GetArticle(db, articleID)
}
