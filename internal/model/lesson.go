package model

import "time"

type LessonStatus string

const (
	LessonDraft     LessonStatus = "draft"
	LessonPublished LessonStatus = "published"
	LessonArchived  LessonStatus = "archived"
)

type Lesson struct {
	BaseModel
	ModuleID     uint             `gorm:"index;not null" json:"moduleId"`
	TitleEn      string           `gorm:"size:255;not null" json:"titleEn"`
	TitleFil     string           `gorm:"size:255" json:"titleFil"`
	BodyEn       string           `gorm:"type:text" json:"bodyEn"`
	BodyFil      string           `gorm:"type:text" json:"bodyFil"`
	YoutubeID    string           `gorm:"size:50" json:"youtubeId"`
	Mp4URL       string           `gorm:"size:255" json:"mp4Url"`
	DurationSecs int              `gorm:"default:0" json:"durationSecs"`
	Order        int              `gorm:"default:0" json:"order"`
	Status       LessonStatus     `gorm:"size:20;default:'draft'" json:"status"`
	Materials    []LessonMaterial `gorm:"foreignKey:LessonID" json:"materials,omitempty"`
}

func (Lesson) TableName() string {
	return "lessons"
}

type LessonMaterial struct {
	BaseModel
	LessonID uint   `gorm:"index;not null" json:"lessonId"`
	Title    string `gorm:"size:255;not null" json:"title"`
	FileURL  string `gorm:"size:255;not null" json:"fileUrl"`
	Order    int    `gorm:"default:0" json:"order"`
}

func (LessonMaterial) TableName() string {
	return "lesson_materials"
}

// LessonProgress is the source of truth for watch progress, one row per
// (user, lesson). IsCompleted reflects the threshold at time of last write;
// CompletedAt is stamped on the first completion and never cleared after.
type LessonProgress struct {
	BaseModel
	UserID          uint       `gorm:"uniqueIndex:idx_lesson_progress_user_lesson;not null" json:"userId"`
	LessonID        uint       `gorm:"uniqueIndex:idx_lesson_progress_user_lesson;not null" json:"lessonId"`
	WatchedPercent  int        `gorm:"default:0" json:"watchedPercent"`
	LastWatchedSecs int        `gorm:"default:0" json:"lastWatchedSecs"`
	IsCompleted     bool       `gorm:"default:false" json:"isCompleted"`
	CompletedAt     *time.Time `json:"completedAt"`
}

func (LessonProgress) TableName() string {
	return "lesson_progress"
}

// ModuleProgress is a derived aggregate over LessonProgress, fully recomputed
// on every lesson write in the module rather than patched incrementally.
type ModuleProgress struct {
	BaseModel
	UserID           uint       `gorm:"uniqueIndex:idx_module_progress_user_module;not null" json:"userId"`
	ModuleID         uint       `gorm:"uniqueIndex:idx_module_progress_user_module;not null" json:"moduleId"`
	LessonsCompleted int        `gorm:"default:0" json:"lessonsCompleted"`
	TotalLessons     int        `gorm:"default:0" json:"totalLessons"`
	PercentComplete  int        `gorm:"default:0" json:"percentComplete"`
	IsCompleted      bool       `gorm:"default:false" json:"isCompleted"`
	CompletedAt      *time.Time `json:"completedAt"`
}

func (ModuleProgress) TableName() string {
	return "module_progress"
}
