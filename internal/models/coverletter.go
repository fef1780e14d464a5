package models

import "time"

type CoverLetterStatus string

const (
	CoverLetterDraft     CoverLetterStatus = "draft"
	CoverLetterCompleted CoverLetterStatus = "completed"
)

type CoverLetter struct {
	ID     string `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	UserID string `gorm:"column:user_id;type:uuid;index;not null" json:"user_id"`

	Content        string            `gorm:"column:content;type:text" json:"content"`
	JobDescription *string           `gorm:"column:job_description;type:text" json:"job_description,omitempty"`
	CompanyName    string            `gorm:"column:company_name;type:text;not null" json:"company_name"`
	JobTitle       string            `gorm:"column:job_title;type:text;not null" json:"job_title"`
	Status         CoverLetterStatus `gorm:"column:status;type:text" json:"status"`

	// Cosine similarity between the job description and the stored résumé
	// embedding, when both exist.
	MatchScore *float64 `gorm:"column:match_score" json:"match_score,omitempty"`

	CreatedAt time.Time `gorm:"column:created_at;type:timestamptz" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;type:timestamptz" json:"updated_at"`
}

func (CoverLetter) TableName() string { return "cover_letters" }
