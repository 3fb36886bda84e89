package model

type CourseStatus string

const (
	CourseDraft     CourseStatus = "draft"
	CoursePublished CourseStatus = "published"
	CourseArchived  CourseStatus = "archived"
)

type Course struct {
	BaseModel
	Slug           string       `gorm:"size:255;uniqueIndex;not null" json:"slug"`
	TitleEn        string       `gorm:"size:255;not null" json:"titleEn"`
	TitleFil       string       `gorm:"size:255" json:"titleFil"`
	DescriptionEn  string       `gorm:"type:text" json:"descriptionEn"`
	DescriptionFil string       `gorm:"type:text" json:"descriptionFil"`
	ThumbnailURL   string       `gorm:"size:255" json:"thumbnailUrl"`
	Status         CourseStatus `gorm:"size:20;default:'draft'" json:"status"`
	IsInviteOnly   bool         `gorm:"default:false" json:"isInviteOnly"`
	Order          int          `gorm:"default:0" json:"order"`
	CreatedByID    uint         `gorm:"index" json:"createdById"`
	Modules        []Module     `gorm:"foreignKey:CourseID" json:"modules,omitempty"`
}

func (Course) TableName() string {
	return "courses"
}

// Module is a gated content unit within a course. Order defines the unlock
// sequence; the requires* flags drive the per-user lock state machine.
type Module struct {
	BaseModel
	CourseID             uint     `gorm:"index;not null" json:"courseId"`
	TitleEn              string   `gorm:"size:255;not null" json:"titleEn"`
	TitleFil             string   `gorm:"size:255" json:"titleFil"`
	DescriptionEn        string   `gorm:"type:text" json:"descriptionEn"`
	DescriptionFil       string   `gorm:"type:text" json:"descriptionFil"`
	Order                int      `gorm:"default:0" json:"order"`
	RequiresPreTest      bool     `gorm:"default:false" json:"requiresPreTest"`
	RequiresAllLessons   bool     `gorm:"default:true" json:"requiresAllLessons"`
	RequiresPostTest     bool     `gorm:"default:false" json:"requiresPostTest"`
	PassingScoreToUnlock int      `gorm:"default:70" json:"passingScoreToUnlock"`
	Lessons              []Lesson `gorm:"foreignKey:ModuleID" json:"lessons,omitempty"`
	Quizzes              []Quiz   `gorm:"foreignKey:ModuleID" json:"quizzes,omitempty"`
}

func (Module) TableName() string {
	return "modules"
}
