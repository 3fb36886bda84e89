package model

import "time"

type EnrollmentStatus string

const (
	EnrollmentActive  EnrollmentStatus = "active"
	EnrollmentDropped EnrollmentStatus = "dropped"
)

type Enrollment struct {
	BaseModel
	UserID       uint             `gorm:"uniqueIndex:idx_enrollment_user_course;not null" json:"userId"`
	CourseID     uint             `gorm:"uniqueIndex:idx_enrollment_user_course;not null" json:"courseId"`
	Status       EnrollmentStatus `gorm:"size:20;default:'active'" json:"status"`
	EnrolledVia  string           `gorm:"size:30" json:"enrolledVia"`
	InviteCodeID *uint            `json:"inviteCodeId"`
	EnrolledAt   time.Time        `json:"enrolledAt"`
}

func (Enrollment) TableName() string {
	return "enrollments"
}

// InviteCode is a redeemable token granting enrollment in a course.
// UsageCount is only ever incremented inside the enrollment transaction.
type InviteCode struct {
	BaseModel
	CourseID    uint       `gorm:"index;not null" json:"courseId"`
	Code        string     `gorm:"size:30;uniqueIndex;not null" json:"code"`
	UsageLimit  int        `gorm:"default:0" json:"usageLimit"` // 0 = unlimited
	UsageCount  int        `gorm:"default:0" json:"usageCount"`
	ExpiresAt   *time.Time `json:"expiresAt"`
	IsActive    bool       `gorm:"default:true" json:"isActive"`
	Note        string     `gorm:"size:255" json:"note"`
	CreatedByID uint       `gorm:"index" json:"createdById"`
}

func (InviteCode) TableName() string {
	return "invite_codes"
}

type InviteCodeUse struct {
	BaseModel
	InviteCodeID uint `gorm:"index;not null" json:"inviteCodeId"`
	UserID       uint `gorm:"index;not null" json:"userId"`
}

func (InviteCodeUse) TableName() string {
	return "invite_code_uses"
}
