package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

const (
	ProjectStatusPending  = "pending"
	ProjectStatusApproved = "approved"
)

// StringList stores an ordered list of URLs as a JSON array in a text column.
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	data, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

func (l *StringList) Scan(value interface{}) error {
	if value == nil {
		*l = StringList{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return fmt.Errorf("unsupported type for StringList: %T", value)
	}
}

// Project is a fundable project. It is created in pending status and becomes
// publicly visible only after an admin approves it. The aggregate columns
// (raised_amount, supporters_count, impact_score) are written only through
// donation settlement, plus a one-time impact analysis bump at creation; both
// use atomic increment expressions, never read-modify-write.
type Project struct {
	ID                   uint       `gorm:"primaryKey" json:"id"`
	Title                string     `gorm:"size:255;not null" json:"title"`
	Description          string     `gorm:"type:text" json:"description"`
	OwnerEmail           string     `gorm:"size:255;index" json:"owner_email"`
	Images               StringList `gorm:"type:text" json:"images"`
	PDFDescription       string     `gorm:"size:500" json:"pdfDescription,omitempty"`
	Status               string     `gorm:"size:20;default:pending;index" json:"status"`
	Category             string     `gorm:"size:100" json:"category"`
	GoalAmount           float64    `gorm:"type:decimal(12,2)" json:"goalAmount"`
	RaisedAmount         float64    `gorm:"type:decimal(12,2);default:0" json:"raisedAmount"`
	ImpactScore          int        `gorm:"default:0" json:"impactScore"`
	SupportersCount      int        `gorm:"default:0" json:"supportersCount"`
	Location             string     `gorm:"size:255" json:"location"`
	NeedsVolunteers      bool       `gorm:"default:false" json:"needsVolunteers"`
	VolunteerFormURL     string     `gorm:"size:500" json:"volunteerFormUrl,omitempty"`
	VolunteerDescription string     `gorm:"type:text" json:"volunteerDescription,omitempty"`
	CreatedAt            time.Time  `json:"created_at"`
	UpdatedAt            time.Time  `json:"updated_at"`
}

func (Project) TableName() string { return "projects" }

// IsApproved reports whether the project is publicly visible.
func (p *Project) IsApproved() bool { return p.Status == ProjectStatusApproved }
