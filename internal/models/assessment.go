package models

import (
	"time"

	"gorm.io/datatypes"
)

// QuizQuestion is one generated multiple-choice question. Answer holds the
// correct option; UserAnswer and IsCorrect are filled when a result is saved.
type QuizQuestion struct {
	Question    string   `json:"question"`
	Options     []string `json:"options"`
	Answer      string   `json:"answer"`
	UserAnswer  string   `json:"userAnswer,omitempty"`
	IsCorrect   bool     `json:"isCorrect"`
	Explanation string   `json:"explanation,omitempty"`
}

// Assessment stores one completed quiz run.
type Assessment struct {
	ID     string `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	UserID string `gorm:"column:user_id;type:uuid;index;not null" json:"user_id"`

	QuizScore float64 `gorm:"column:quiz_score" json:"quiz_score"`
	Category  string  `gorm:"column:category;type:text" json:"category"`

	// JSON list of QuizQuestion with user answers folded in.
	Questions datatypes.JSON `gorm:"column:questions;type:jsonb" json:"questions"`

	ImprovementTip *string `gorm:"column:improvement_tip;type:text" json:"improvement_tip,omitempty"`

	CreatedAt time.Time `gorm:"column:created_at;type:timestamptz" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;type:timestamptz" json:"updated_at"`
}

func (Assessment) TableName() string { return "assessments" }
