package models

import (
	"time"

	"gorm.io/datatypes"
)

// CategoryScore is one entry of the fixed five-category rubric.
type CategoryScore struct {
	Name    string `json:"name"`
	Score   int    `json:"score"`
	Comment string `json:"comment"`
}

// Band groups a numeric score for presentation.
type Band string

const (
	BandGood    Band = "good"
	BandAverage Band = "average"
	BandPoor    Band = "poor"
)

func BandFor(score int) Band {
	switch {
	case score >= 80:
		return BandGood
	case score >= 60:
		return BandAverage
	default:
		return BandPoor
	}
}

// Feedback is the structured critique for one interview, produced entirely
// by parsing model output. One row per interview; a retake replaces it.
type Feedback struct {
	ID          string `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	InterviewID string `gorm:"column:interview_id;type:uuid;uniqueIndex;not null" json:"interview_id"`
	UserID      string `gorm:"column:user_id;type:uuid;index;not null" json:"user_id"`

	TotalScore int    `gorm:"column:total_score" json:"total_score"`
	Grade      string `gorm:"column:grade;type:text" json:"grade"`

	// JSON list of CategoryScore.
	CategoryScores datatypes.JSON `gorm:"column:category_scores;type:jsonb" json:"category_scores"`
	// JSON string arrays.
	Strengths           datatypes.JSON `gorm:"column:strengths;type:jsonb" json:"strengths"`
	AreasForImprovement datatypes.JSON `gorm:"column:areas_for_improvement;type:jsonb" json:"areas_for_improvement"`

	FinalAssessment string `gorm:"column:final_assessment;type:text" json:"final_assessment"`

	// The transcript the score was derived from, kept for display.
	Transcript datatypes.JSON `gorm:"column:transcript;type:jsonb" json:"transcript"`

	CreatedAt time.Time `gorm:"column:created_at;type:timestamptz" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;type:timestamptz" json:"updated_at"`
}

func (Feedback) TableName() string { return "feedbacks" }

func (f *Feedback) Band() Band { return BandFor(f.TotalScore) }
