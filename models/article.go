package models

import "time"

const (
	ArticleStatusReadyToPublish = "ready_to_publish"
	ArticleStatusPublished      = "published"
)

// Article is the publishable artifact placed into an Issue. ResearchID links
// back to the source manuscript when the article came out of the workflow;
// manually entered articles leave it nil. The unique index keeps the link 1:1.
type Article struct {
	ArticleID     uint       `gorm:"primaryKey;column:article_id" json:"article_id"`
	ArticleNumber string     `gorm:"column:article_number;unique" json:"article_number"`
	IssueID       uint       `gorm:"column:issue_id" json:"issue_id"`
	ResearchID    *uint      `gorm:"column:research_id;unique" json:"research_id,omitempty"`
	Title         string     `gorm:"column:title" json:"title"`
	Authors       *string    `gorm:"column:authors" json:"authors,omitempty"`
	Pages         *string    `gorm:"column:pages" json:"pages,omitempty"` // "start-end"
	PdfURL        *string    `gorm:"column:pdf_url" json:"pdf_url,omitempty"`
	QrCodePath    *string    `gorm:"column:qr_code_path" json:"qr_code_path,omitempty"`
	Status        string     `gorm:"column:status" json:"status"`
	PublishedDate *time.Time `gorm:"column:published_date" json:"published_date,omitempty"`
	CreateAt      time.Time  `gorm:"column:create_at" json:"create_at"`
	UpdateAt      time.Time  `gorm:"column:update_at" json:"update_at"`

	Issue *Issue `gorm:"foreignKey:IssueID" json:"issue,omitempty"`
}

func (Article) TableName() string {
	return "articles"
}
