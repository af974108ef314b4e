package services

import (
	"fmt"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"journal-api/models"
)

// UploadBasePath returns the root directory for stored files.
func UploadBasePath() string {
	path := os.Getenv("UPLOAD_PATH")
	if path == "" {
		path = "./uploads"
	}
	return path
}

// PublicFileURL maps a stored path to the URL the API serves it under.
func PublicFileURL(storedPath string) string {
	base := strings.TrimRight(os.Getenv("PUBLIC_BASE_URL"), "/")
	rel := strings.TrimPrefix(filepath.ToSlash(storedPath), strings.TrimPrefix(filepath.ToSlash(UploadBasePath()), "./"))
	rel = strings.TrimPrefix(rel, "./")
	rel = strings.TrimPrefix(rel, "/")
	return fmt.Sprintf("%s/uploads/%s", base, rel)
}

// StoreFile saves an uploaded file under UPLOAD_PATH/subdir with a
// uuid-suffixed name and records it in file_uploads. Returns the record and
// its public URL.
func StoreFile(db *gorm.DB, c *gin.Context, file *multipart.FileHeader, uploaderID uint, subdir string) (*models.FileUpload, string, error) {
	dir := filepath.Join(UploadBasePath(), subdir)
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return nil, "", err
	}

	ext := filepath.Ext(file.Filename)
	name := strings.TrimSuffix(filepath.Base(file.Filename), ext)
	stored := fmt.Sprintf("%s-%s%s", name, uuid.NewString()[:8], ext)
	fullPath := filepath.Join(dir, stored)

	if err := c.SaveUploadedFile(file, fullPath); err != nil {
		return nil, "", err
	}

	now := time.Now()
	record := models.FileUpload{
		OriginalName: file.Filename,
		StoredPath:   fullPath,
		FileSize:     file.Size,
		MimeType:     file.Header.Get("Content-Type"),
		IsPublic:     false,
		UploadedBy:   uploaderID,
		UploadedAt:   now,
		CreateAt:     now,
		UpdateAt:     now,
	}
	if err := db.Create(&record).Error; err != nil {
		// The file is on disk but unrecorded; remove it so it cannot leak.
		os.Remove(fullPath)
		return nil, "", err
	}

	return &record, PublicFileURL(fullPath), nil
}

// DeleteStoredFile removes a stored file from disk and soft-deletes its
// record. A missing file on disk is not an error.
func DeleteStoredFile(db *gorm.DB, fileID uint) error {
	var record models.FileUpload
	if err := db.First(&record, "file_id = ? AND delete_at IS NULL", fileID).Error; err != nil {
		return err
	}

	if err := os.Remove(record.StoredPath); err != nil && !os.IsNotExist(err) {
		return err
	}

	now := time.Now()
	return db.Model(&models.FileUpload{}).
		Where("file_id = ?", fileID).
		Updates(map[string]interface{}{"delete_at": now, "update_at": now}).Error
}
