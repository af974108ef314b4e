package services

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	qrcode "github.com/skip2/go-qrcode"
	"gorm.io/gorm"

	"journal-api/models"
)

// GenerateArticleQR writes a verification QR code PNG for a published or
// ready article and records its path. Strictly best-effort: any failure is
// logged and the article stays valid without the artifact.
func GenerateArticleQR(db *gorm.DB, article *models.Article) {
	base := strings.TrimRight(os.Getenv("PUBLIC_BASE_URL"), "/")
	verifyURL := fmt.Sprintf("%s/api/v1/articles/%d/verify", base, article.ArticleID)

	dir := filepath.Join(UploadBasePath(), "qrcodes")
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		log.Printf("Warning: failed to create qrcode directory: %v", err)
		return
	}

	path := filepath.Join(dir, fmt.Sprintf("article-%d.png", article.ArticleID))
	if err := qrcode.WriteFile(verifyURL, qrcode.Medium, 256, path); err != nil {
		log.Printf("Warning: failed to generate QR code for article %d: %v", article.ArticleID, err)
		return
	}

	now := time.Now()
	if err := db.Model(&models.Article{}).
		Where("article_id = ?", article.ArticleID).
		Updates(map[string]interface{}{"qr_code_path": path, "update_at": now}).Error; err != nil {
		log.Printf("Warning: failed to record QR code path for article %d: %v", article.ArticleID, err)
		return
	}
	article.QrCodePath = &path
}
