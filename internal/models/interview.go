package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

type InterviewType string

const (
	InterviewTechnical    InterviewType = "technical"
	InterviewBehavioral   InterviewType = "behavioral"
	InterviewSystemDesign InterviewType = "system-design"
	InterviewCaseStudy    InterviewType = "case-study"
	InterviewCoding       InterviewType = "coding"
	InterviewGeneral      InterviewType = "general"
)

func ValidInterviewType(t InterviewType) bool {
	switch t {
	case InterviewTechnical, InterviewBehavioral, InterviewSystemDesign,
		InterviewCaseStudy, InterviewCoding, InterviewGeneral:
		return true
	}
	return false
}

// Interview holds one generated question set. Immutable after creation; the
// attached feedback row is the only thing that changes afterwards.
type Interview struct {
	ID     string `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	UserID string `gorm:"column:user_id;type:uuid;index;not null" json:"user_id"`
	MockID string `gorm:"column:mock_id;type:text;uniqueIndex" json:"mock_id"`

	Position    string        `gorm:"column:position;type:text;not null" json:"position"`
	Description string        `gorm:"column:description;type:text" json:"description"`
	Experience  int           `gorm:"column:experience" json:"experience"`
	Type        InterviewType `gorm:"column:type;type:text" json:"type"`

	// JSON array of question strings, in asking order.
	Questions datatypes.JSON `gorm:"column:questions;type:jsonb" json:"questions"`

	CreatedAt time.Time `gorm:"column:created_at;type:timestamptz" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;type:timestamptz" json:"updated_at"`
}

func (Interview) TableName() string { return "interviews" }

func (i *Interview) QuestionList() ([]string, error) {
	var qs []string
	if err := json.Unmarshal(i.Questions, &qs); err != nil {
		return nil, err
	}
	return qs, nil
}

func (i *Interview) SetQuestions(qs []string) error {
	b, err := json.Marshal(qs)
	if err != nil {
		return err
	}
	i.Questions = datatypes.JSON(b)
	return nil
}
