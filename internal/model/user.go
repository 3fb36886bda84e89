package model

import (
	"time"
)

type UserRole string

const (
	Student    UserRole = "student"
	Instructor UserRole = "instructor"
	Admin      UserRole = "admin"
)

type Language string

const (
	English  Language = "en"
	Filipino Language = "fil"
)

type User struct {
	BaseModel
	Name          string   `gorm:"size:100;not null" json:"name"`
	Email         string   `gorm:"size:100;unique;not null" json:"email"`
	Password      string   `gorm:"size:100;not null" json:"-"`
	Role          UserRole `gorm:"size:20;default:'student'" json:"role"`
	Language      Language `gorm:"size:10;default:'en'" json:"language"`
	Region        string   `gorm:"size:50" json:"region"`
	PhoneNumber   string   `gorm:"size:30" json:"phoneNumber"`
	Avatar        string   `gorm:"size:255" json:"avatar"`
	IsActive      bool     `gorm:"default:true" json:"isActive"`
	EmailVerified bool     `gorm:"default:false" json:"emailVerified"`
	LastLogin     time.Time `json:"lastLogin"`
	LastSeen      time.Time `json:"lastSeen"`
}

func (User) TableName() string {
	return "users"
}

type OtpPurpose string

const (
	OtpEmailVerification OtpPurpose = "EMAIL_VERIFICATION"
	OtpPasswordReset     OtpPurpose = "PASSWORD_RESET"
)

// OtpChallenge stores a bcrypt hash of the emailed code, never the code itself.
type OtpChallenge struct {
	UUIDBase
	UserID    uint       `gorm:"index;not null" json:"userId"`
	Email     string     `gorm:"size:100;index;not null" json:"email"`
	Code      string     `gorm:"size:100;not null" json:"-"`
	Purpose   OtpPurpose `gorm:"size:30;not null" json:"purpose"`
	Attempts  int        `gorm:"default:0" json:"attempts"`
	IsUsed    bool       `gorm:"default:false" json:"isUsed"`
	ExpiresAt time.Time  `json:"expiresAt"`
}

func (OtpChallenge) TableName() string {
	return "otp_challenges"
}
