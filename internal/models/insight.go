package models

import (
	"time"

	"gorm.io/datatypes"
)

type DemandLevel string

const (
	DemandHigh   DemandLevel = "High"
	DemandMedium DemandLevel = "Medium"
	DemandLow    DemandLevel = "Low"
)

type MarketOutlook string

const (
	OutlookPositive MarketOutlook = "Positive"
	OutlookNeutral  MarketOutlook = "Neutral"
	OutlookNegative MarketOutlook = "Negative"
)

type SalaryRange struct {
	Role     string  `json:"role"`
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
	Median   float64 `json:"median"`
	Location string  `json:"location,omitempty"`
}

// IndustryInsight is the shared per-industry cache row. One model call fills
// it; every user in the same industry reuses it until NextUpdate passes.
type IndustryInsight struct {
	ID       string `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Industry string `gorm:"column:industry;type:text;uniqueIndex;not null" json:"industry"`

	SalaryRanges      datatypes.JSON `gorm:"column:salary_ranges;type:jsonb" json:"salary_ranges"`
	GrowthRate        float64        `gorm:"column:growth_rate" json:"growth_rate"`
	DemandLevel       DemandLevel    `gorm:"column:demand_level;type:text" json:"demand_level"`
	TopSkills         datatypes.JSON `gorm:"column:top_skills;type:jsonb" json:"top_skills"`
	MarketOutlook     MarketOutlook  `gorm:"column:market_outlook;type:text" json:"market_outlook"`
	KeyTrends         datatypes.JSON `gorm:"column:key_trends;type:jsonb" json:"key_trends"`
	RecommendedSkills datatypes.JSON `gorm:"column:recommended_skills;type:jsonb" json:"recommended_skills"`

	LastUpdated time.Time `gorm:"column:last_updated;type:timestamptz" json:"last_updated"`
	NextUpdate  time.Time `gorm:"column:next_update;type:timestamptz;index" json:"next_update"`
}

func (IndustryInsight) TableName() string { return "industry_insights" }

// UserInsight is the per-user copy, tailored to skills and experience.
type UserInsight struct {
	ID       string `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	UserID   string `gorm:"column:user_id;type:uuid;uniqueIndex;not null" json:"user_id"`
	Industry string `gorm:"column:industry;type:text;not null" json:"industry"`

	SalaryRanges      datatypes.JSON `gorm:"column:salary_ranges;type:jsonb" json:"salary_ranges"`
	GrowthRate        float64        `gorm:"column:growth_rate" json:"growth_rate"`
	DemandLevel       DemandLevel    `gorm:"column:demand_level;type:text" json:"demand_level"`
	TopSkills         datatypes.JSON `gorm:"column:top_skills;type:jsonb" json:"top_skills"`
	MarketOutlook     MarketOutlook  `gorm:"column:market_outlook;type:text" json:"market_outlook"`
	KeyTrends         datatypes.JSON `gorm:"column:key_trends;type:jsonb" json:"key_trends"`
	RecommendedSkills datatypes.JSON `gorm:"column:recommended_skills;type:jsonb" json:"recommended_skills"`

	LastUpdated time.Time `gorm:"column:last_updated;type:timestamptz" json:"last_updated"`
	NextUpdate  time.Time `gorm:"column:next_update;type:timestamptz" json:"next_update"`
}

func (UserInsight) TableName() string { return "user_insights" }
