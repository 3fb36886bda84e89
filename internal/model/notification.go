package model

type NotificationType string

const (
	NotifyModuleUnlocked      NotificationType = "MODULE_UNLOCKED"
	NotifyEnrollmentConfirmed NotificationType = "ENROLLMENT_CONFIRMED"
	NotifyReplyInThread       NotificationType = "REPLY_IN_THREAD"
	NotifyOutputReviewed      NotificationType = "OUTPUT_REVIEWED"
)

// Notification carries both language variants; the client picks per the
// user's language setting.
type Notification struct {
	BaseModel
	UserID   uint             `gorm:"index;not null" json:"userId"`
	Type     NotificationType `gorm:"size:40;not null" json:"type"`
	TitleEn  string           `gorm:"size:255;not null" json:"titleEn"`
	TitleFil string           `gorm:"size:255" json:"titleFil"`
	BodyEn   string           `gorm:"type:text" json:"bodyEn"`
	BodyFil  string           `gorm:"type:text" json:"bodyFil"`
	Link     string           `gorm:"size:255" json:"link"`
	IsRead   bool             `gorm:"default:false;index" json:"isRead"`
}

func (Notification) TableName() string {
	return "notifications"
}
