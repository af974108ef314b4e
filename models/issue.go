package models

import "time"

const (
	IssueStatusPlanned    = "planned"
	IssueStatusInProgress = "in_progress"
	IssueStatusPublished  = "published"
)

// Issue is a bounded container of articles. TotalArticles, TotalPages and
// ProgressPercentage are derived; services.RecomputeIssueStats is their only
// writer.
type Issue struct {
	IssueID            uint       `gorm:"primaryKey;column:issue_id" json:"issue_id"`
	IssueNumber        string     `gorm:"column:issue_number;unique" json:"issue_number"`
	Title              *string    `gorm:"column:title" json:"title,omitempty"`
	MaxArticles        int        `gorm:"column:max_articles" json:"max_articles"`
	TotalArticles      int        `gorm:"column:total_articles" json:"total_articles"`
	TotalPages         int        `gorm:"column:total_pages" json:"total_pages"`
	ProgressPercentage int        `gorm:"column:progress_percentage" json:"progress_percentage"`
	Status             string     `gorm:"column:status" json:"status"`
	PublishDate        *time.Time `gorm:"column:publish_date" json:"publish_date,omitempty"`
	CreateAt           time.Time  `gorm:"column:create_at" json:"create_at"`
	UpdateAt           time.Time  `gorm:"column:update_at" json:"update_at"`

	Articles []Article `gorm:"foreignKey:IssueID" json:"articles,omitempty"`
}

func (Issue) TableName() string {
	return "issues"
}
