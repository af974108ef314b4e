package services

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"journal-api/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	t.Setenv("UPLOAD_PATH", t.TempDir())

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql db: %v", err)
	}
	// A single shared in-memory database.
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(
		&models.Role{},
		&models.User{},
		&models.Research{},
		&models.ReviewerAssignment{},
		&models.Review{},
		&models.ResearchRevision{},
		&models.Issue{},
		&models.Article{},
		&models.Notification{},
		&models.FileUpload{},
	)
	if err != nil {
		t.Fatalf("failed to migrate test db: %v", err)
	}

	return db
}

var testUserSeq atomic.Int64

func createTestUser(t *testing.T, db *gorm.DB, roleID int) *models.User {
	t.Helper()
	now := time.Now()
	user := models.User{
		UserFname: "Test",
		UserLname: "User",
		Email:     fmt.Sprintf("user-%d@example.org", testUserSeq.Add(1)),
		Password:  "irrelevant",
		RoleID:    roleID,
		CreateAt:  &now,
		UpdateAt:  &now,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	return &user
}

func createTestResearch(t *testing.T, db *gorm.DB, ownerID uint, number string) *models.Research {
	t.Helper()
	research := models.Research{
		UserID:         ownerID,
		ResearchNumber: number,
		Title:          "A Study of " + number,
		Abstract:       "Abstract.",
	}
	if err := SubmitResearch(db, &research); err != nil {
		t.Fatalf("failed to submit research %s: %v", number, err)
	}
	return &research
}

func createTestIssue(t *testing.T, db *gorm.DB, number string, maxArticles int) *models.Issue {
	t.Helper()
	issue := models.Issue{
		IssueNumber: number,
		MaxArticles: maxArticles,
	}
	if err := CreateIssue(db, &issue); err != nil {
		t.Fatalf("failed to create issue %s: %v", number, err)
	}
	return &issue
}

func assignTestReviewer(t *testing.T, db *gorm.DB, researchID, reviewerID, assignerID uint) *models.ReviewerAssignment {
	t.Helper()
	assignment := models.ReviewerAssignment{
		ResearchID: researchID,
		ReviewerID: reviewerID,
		AssignedBy: assignerID,
	}
	if err := AssignReviewer(db, &assignment); err != nil {
		t.Fatalf("failed to assign reviewer %d: %v", reviewerID, err)
	}
	return &assignment
}

func submitTestReview(t *testing.T, db *gorm.DB, researchID, reviewerID uint) *models.Review {
	t.Helper()
	review := models.Review{
		ResearchID:     researchID,
		ReviewerID:     reviewerID,
		Originality:    4,
		Methodology:    4,
		Clarity:        3,
		Significance:   5,
		Recommendation: models.RecommendationAccepted,
	}
	if err := SubmitReview(db, &review); err != nil {
		t.Fatalf("failed to submit review by %d: %v", reviewerID, err)
	}
	return &review
}

func researchStatus(t *testing.T, db *gorm.DB, researchID uint) string {
	t.Helper()
	research, err := GetResearch(db, researchID)
	if err != nil {
		t.Fatalf("failed to reload research %d: %v", researchID, err)
	}
	return research.Status
}

func notificationCount(t *testing.T, db *gorm.DB, userID uint) int64 {
	t.Helper()
	var count int64
	if err := db.Model(&models.Notification{}).
		Where("user_id = ?", userID).
		Count(&count).Error; err != nil {
		t.Fatalf("failed to count notifications: %v", err)
	}
	return count
}
