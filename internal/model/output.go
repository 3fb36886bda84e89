package model

import "time"

type OutputStatus string

const (
	OutputPending  OutputStatus = "PENDING"
	OutputReviewed OutputStatus = "REVIEWED"
	OutputReturned OutputStatus = "RETURNED"
)

// StudentOutput is work a student hands in outside the quiz flow (essays,
// project files) for manual review by an admin.
type StudentOutput struct {
	BaseModel
	UserID       uint         `gorm:"index;not null" json:"userId"`
	Type         string       `gorm:"size:30;not null" json:"type"`
	Title        string       `gorm:"size:255;not null" json:"title"`
	Content      string       `gorm:"type:text" json:"content"`
	FileURL      string       `gorm:"size:255" json:"fileUrl"`
	CourseID     *uint        `json:"courseId"`
	ModuleID     *uint        `json:"moduleId"`
	Status       OutputStatus `gorm:"size:20;default:'PENDING';index" json:"status"`
	AdminComment string       `gorm:"type:text" json:"adminComment"`
	SubmittedAt  time.Time    `json:"submittedAt"`
	ReviewedAt   *time.Time   `json:"reviewedAt"`
	ReviewedByID *uint        `json:"reviewedById"`
	User         *User        `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (StudentOutput) TableName() string {
	return "student_outputs"
}
