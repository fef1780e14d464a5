package models

import (
	"time"

	"github.com/pgvector/pgvector-go"
)

// Resume is the one markdown résumé per user (upserted in place). The
// content embedding backs the cover-letter match score.
type Resume struct {
	ID     string `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	UserID string `gorm:"column:user_id;type:uuid;uniqueIndex;not null" json:"user_id"`

	Content string `gorm:"column:content;type:text" json:"content"`

	ContentEmbedding pgvector.Vector `gorm:"column:content_embedding;type:vector(768)" json:"-"`

	CreatedAt time.Time `gorm:"column:created_at;type:timestamptz" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;type:timestamptz" json:"updated_at"`
}

func (Resume) TableName() string { return "resumes" }

// ResumeFile is an uploaded source document (existing résumé, portfolio)
// stored in object storage, with only the metadata kept relationally.
type ResumeFile struct {
	ID     string `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	UserID string `gorm:"column:user_id;type:uuid;index;not null" json:"user_id"`

	FileName string `gorm:"column:file_name;type:text" json:"file_name"`
	FilePath string `gorm:"column:file_path;type:text" json:"file_path"` // object key, not a public URL
	FileSize int    `gorm:"column:file_size" json:"file_size"`
	MimeType string `gorm:"column:mime_type;type:text" json:"mime_type"`

	UploadAt time.Time `gorm:"column:upload_at;type:timestamptz" json:"upload_at"`
}

func (ResumeFile) TableName() string { return "resume_files" }
