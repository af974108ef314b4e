package services

import (
	"errors"
	"testing"

	"journal-api/models"
)

func TestCreateIssueDuplicateNumber(t *testing.T) {
	db := newTestDB(t)
	createTestIssue(t, db, "2026-1", 10)

	dup := models.Issue{IssueNumber: "2026-1", MaxArticles: 5}
	if err := CreateIssue(db, &dup); !errors.Is(err, ErrDuplicateIssueNumber) {
		t.Fatalf("expected ErrDuplicateIssueNumber, got %v", err)
	}
}

func TestRecomputeIssueStats(t *testing.T) {
	db := newTestDB(t)
	issue := createTestIssue(t, db, "2026-2", 4)

	pages1 := "1-12"
	pages2 := "13-19"
	pagesBad := "n/a"
	articles := []models.Article{
		{ArticleNumber: "ART-001", IssueID: issue.IssueID, Title: "One", Pages: &pages1},
		{ArticleNumber: "ART-002", IssueID: issue.IssueID, Title: "Two", Pages: &pages2},
		{ArticleNumber: "ART-003", IssueID: issue.IssueID, Title: "Three", Pages: &pagesBad},
	}
	for i := range articles {
		if err := CreateArticle(db, &articles[i]); err != nil {
			t.Fatalf("article %d failed: %v", i, err)
		}
	}

	updated, err := RecomputeIssueStats(db, issue.IssueID)
	if err != nil {
		t.Fatalf("recompute failed: %v", err)
	}
	if updated.TotalArticles != 3 {
		t.Fatalf("total_articles = %d, want 3", updated.TotalArticles)
	}
	// 12 + 7 + 0 (malformed pages contribute nothing).
	if updated.TotalPages != 19 {
		t.Fatalf("total_pages = %d, want 19", updated.TotalPages)
	}
	// round(3/4*100) = 75
	if updated.ProgressPercentage != 75 {
		t.Fatalf("progress = %d, want 75", updated.ProgressPercentage)
	}

	// Idempotent: a second run with no article changes yields identical output.
	again, err := RecomputeIssueStats(db, issue.IssueID)
	if err != nil {
		t.Fatalf("second recompute failed: %v", err)
	}
	if again.TotalArticles != updated.TotalArticles ||
		again.TotalPages != updated.TotalPages ||
		again.ProgressPercentage != updated.ProgressPercentage {
		t.Fatalf("recompute not idempotent: %+v vs %+v", again, updated)
	}
}

func TestRecomputeIssueStatsZeroMax(t *testing.T) {
	db := newTestDB(t)
	issue := models.Issue{IssueNumber: "2026-3", MaxArticles: 0}
	if err := CreateIssue(db, &issue); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	updated, err := RecomputeIssueStats(db, issue.IssueID)
	if err != nil {
		t.Fatalf("recompute failed: %v", err)
	}
	if updated.ProgressPercentage != 0 {
		t.Fatalf("progress with max_articles=0 = %d, want 0", updated.ProgressPercentage)
	}
}

func TestUpdateIssueRefusesLoweringMaxBelowCount(t *testing.T) {
	db := newTestDB(t)
	issue := createTestIssue(t, db, "2026-4", 3)

	for _, number := range []string{"ART-010", "ART-011"} {
		article := models.Article{ArticleNumber: number, IssueID: issue.IssueID, Title: number}
		if err := CreateArticle(db, &article); err != nil {
			t.Fatalf("article %s failed: %v", number, err)
		}
	}

	_, err := UpdateIssue(db, issue.IssueID, map[string]interface{}{"max_articles": 1})
	if !errors.Is(err, ErrMaxBelowArticles) {
		t.Fatalf("expected ErrMaxBelowArticles, got %v", err)
	}

	// Lowering to the exact count is allowed.
	updated, err := UpdateIssue(db, issue.IssueID, map[string]interface{}{"max_articles": 2})
	if err != nil {
		t.Fatalf("lowering to count failed: %v", err)
	}
	if updated.MaxArticles != 2 {
		t.Fatalf("max_articles = %d, want 2", updated.MaxArticles)
	}
}

// Publishing advances ready articles with one shared timestamp and leaves
// already published articles untouched.
func TestPublishIssueCascade(t *testing.T) {
	db := newTestDB(t)
	issue := createTestIssue(t, db, "2026-5", 5)

	ready := models.Article{ArticleNumber: "ART-020", IssueID: issue.IssueID, Title: "Ready"}
	if err := CreateArticle(db, &ready); err != nil {
		t.Fatalf("ready article failed: %v", err)
	}
	published := models.Article{ArticleNumber: "ART-021", IssueID: issue.IssueID, Title: "Published"}
	if err := CreateArticle(db, &published); err != nil {
		t.Fatalf("published article failed: %v", err)
	}

	// First publish advances both ready articles.
	if _, err := PublishIssue(db, issue.IssueID); err != nil {
		t.Fatalf("first publish failed: %v", err)
	}
	var early models.Article
	db.First(&early, "article_id = ?", published.ArticleID)
	if early.Status != models.ArticleStatusPublished || early.PublishedDate == nil {
		t.Fatalf("expected second article published, got %+v", early)
	}
	firstDate := *early.PublishedDate

	// Reset the first article to simulate a late addition, then re-publish.
	if err := db.Model(&models.Article{}).
		Where("article_id = ?", ready.ArticleID).
		Updates(map[string]interface{}{"status": models.ArticleStatusReadyToPublish, "published_date": nil}).Error; err != nil {
		t.Fatalf("reset failed: %v", err)
	}

	updated, err := PublishIssue(db, issue.IssueID)
	if err != nil {
		t.Fatalf("second publish failed: %v", err)
	}
	if updated.Status != models.IssueStatusPublished {
		t.Fatalf("issue status = %q, want published", updated.Status)
	}
	if updated.ProgressPercentage != 100 {
		t.Fatalf("issue progress = %d, want 100", updated.ProgressPercentage)
	}

	var late models.Article
	db.First(&late, "article_id = ?", ready.ArticleID)
	if late.Status != models.ArticleStatusPublished || late.PublishedDate == nil {
		t.Fatalf("late article not caught up: %+v", late)
	}

	var untouched models.Article
	db.First(&untouched, "article_id = ?", published.ArticleID)
	if untouched.PublishedDate == nil || !untouched.PublishedDate.Equal(firstDate) {
		t.Fatalf("already published article's date changed: %v vs %v", untouched.PublishedDate, firstDate)
	}
}

func TestDeleteIssueRefusesWhenNotEmpty(t *testing.T) {
	db := newTestDB(t)
	issue := createTestIssue(t, db, "2026-6", 2)

	article := models.Article{ArticleNumber: "ART-030", IssueID: issue.IssueID, Title: "Held"}
	if err := CreateArticle(db, &article); err != nil {
		t.Fatalf("article failed: %v", err)
	}

	if err := DeleteIssue(db, issue.IssueID); !errors.Is(err, ErrIssueNotEmpty) {
		t.Fatalf("expected ErrIssueNotEmpty, got %v", err)
	}

	if err := RemoveArticle(db, article.ArticleID); err != nil {
		t.Fatalf("remove article failed: %v", err)
	}
	if err := DeleteIssue(db, issue.IssueID); err != nil {
		t.Fatalf("delete empty issue failed: %v", err)
	}
}
