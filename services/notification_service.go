package services

import (
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"

	"journal-api/config"
	"journal-api/models"
)

// Notification side channel. Every call here is best-effort: a failed insert
// or mail is logged and never bubbles back into the workflow operation that
// triggered it.

func Notify(db *gorm.DB, userID uint, notifType, title, message string, researchID *uint) {
	now := time.Now()
	notif := models.Notification{
		UserID:            userID,
		Title:             title,
		Message:           message,
		Type:              notifType,
		RelatedResearchID: researchID,
		IsRead:            false,
		CreateAt:          now,
	}
	if err := db.Create(&notif).Error; err != nil {
		log.Printf("Warning: failed to store notification for user %d: %v", userID, err)
		return
	}

	sendNotificationMail(db, userID, title, message)
}

func NotifyMany(db *gorm.DB, userIDs []uint, notifType, title, message string, researchID *uint) {
	seen := make(map[uint]bool, len(userIDs))
	for _, id := range userIDs {
		if id == 0 || seen[id] {
			continue
		}
		seen[id] = true
		Notify(db, id, notifType, title, message, researchID)
	}
}

// NotifyEditors fans a notification out to every editor and admin account.
func NotifyEditors(db *gorm.DB, notifType, title, message string, researchID *uint) {
	NotifyMany(db, EditorAndAdminIDs(db), notifType, title, message, researchID)
}

// EditorAndAdminIDs returns the user ids of all active editors and admins.
func EditorAndAdminIDs(db *gorm.DB) []uint {
	var rows []struct{ UserID uint }
	if err := db.Model(&models.User{}).
		Select("user_id").
		Where("role_id IN ? AND delete_at IS NULL", []int{models.RoleEditor, models.RoleAdmin}).
		Scan(&rows).Error; err != nil {
		log.Printf("Warning: failed to load editor/admin ids: %v", err)
		return nil
	}

	ids := make([]uint, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.UserID)
	}
	return ids
}

// AssignedReviewerIDs returns the reviewer ids currently assigned to a
// research, declined assignments excluded.
func AssignedReviewerIDs(db *gorm.DB, researchID uint) []uint {
	var rows []struct{ ReviewerID uint }
	if err := db.Model(&models.ReviewerAssignment{}).
		Select("reviewer_id").
		Where("research_id = ? AND status <> ?", researchID, models.AssignmentStatusDeclined).
		Scan(&rows).Error; err != nil {
		log.Printf("Warning: failed to load reviewer ids for research %d: %v", researchID, err)
		return nil
	}

	ids := make([]uint, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.ReviewerID)
	}
	return ids
}

func sendNotificationMail(db *gorm.DB, userID uint, title, message string) {
	var user models.User
	if err := db.Select("user_id, email").First(&user, "user_id = ? AND delete_at IS NULL", userID).Error; err != nil {
		return
	}
	if user.Email == "" {
		return
	}

	html := fmt.Sprintf("<p>%s</p>", message)
	if err := config.SendMail([]string{user.Email}, title, html); err != nil {
		log.Printf("Warning: failed to send notification mail to %s: %v", user.Email, err)
	}
}
