package model

type DiscussionThread struct {
	BaseModel
	ModuleID uint              `gorm:"index;not null" json:"moduleId"`
	UserID   uint              `gorm:"index;not null" json:"userId"`
	TitleEn  string            `gorm:"size:255;not null" json:"titleEn"`
	TitleFil string            `gorm:"size:255" json:"titleFil"`
	BodyEn   string            `gorm:"type:text" json:"bodyEn"`
	BodyFil  string            `gorm:"type:text" json:"bodyFil"`
	IsPinned bool              `gorm:"default:false" json:"isPinned"`
	IsLocked bool              `gorm:"default:false" json:"isLocked"`
	User     *User             `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Replies  []DiscussionReply `gorm:"foreignKey:ThreadID" json:"replies,omitempty"`
}

func (DiscussionThread) TableName() string {
	return "discussion_threads"
}

type DiscussionReply struct {
	BaseModel
	ThreadID uint   `gorm:"index;not null" json:"threadId"`
	UserID   uint   `gorm:"index;not null" json:"userId"`
	Body     string `gorm:"type:text;not null" json:"body"`
	User     *User  `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (DiscussionReply) TableName() string {
	return "discussion_replies"
}
