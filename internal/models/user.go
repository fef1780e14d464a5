package models

import (
	"time"

	"github.com/lib/pq"
)

// User mirrors the identity provider's subject into a local row. AuthID is
// the external subject; every owned row hangs off the local ID.
type User struct {
	ID     string `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	AuthID string `gorm:"column:auth_id;type:text;uniqueIndex" json:"auth_id"`

	Email string `gorm:"column:email;type:text" json:"email"`
	Name  string `gorm:"column:name;type:text" json:"name"`

	Industry   string         `gorm:"column:industry;type:text" json:"industry"`
	Experience *int           `gorm:"column:experience" json:"experience,omitempty"`
	Bio        string         `gorm:"column:bio;type:text" json:"bio"`
	Skills     pq.StringArray `gorm:"column:skills;type:text[]" json:"skills"`

	CreatedAt time.Time `gorm:"column:created_at;type:timestamptz" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;type:timestamptz" json:"updated_at"`
}

func (User) TableName() string { return "users" }

// Onboarded means the user picked an industry; insights and quizzes need it.
func (u *User) Onboarded() bool { return u != nil && u.Industry != "" }
