package model

import "time"

type QuizType string

const (
	QuizPreTest  QuizType = "PRE_TEST"
	QuizPostTest QuizType = "POST_TEST"
	QuizPractice QuizType = "PRACTICE"
)

type Quiz struct {
	BaseModel
	ModuleID       uint       `gorm:"index;not null" json:"moduleId"`
	TitleEn        string     `gorm:"size:255;not null" json:"titleEn"`
	TitleFil       string     `gorm:"size:255" json:"titleFil"`
	Type           QuizType   `gorm:"size:20;default:'PRACTICE'" json:"type"`
	PassingScore   int        `gorm:"default:70" json:"passingScore"`
	// No column default: zero means unlimited and must survive the insert.
	MaxAttempts    int        `json:"maxAttempts"`
	TimeLimitMin   int        `gorm:"default:0" json:"timeLimitMin"`
	BlocksProgress bool       `gorm:"default:true" json:"blocksProgress"`
	IsPublished    bool       `gorm:"default:false" json:"isPublished"`
	Questions      []Question `gorm:"foreignKey:QuizID" json:"questions,omitempty"`
}

func (Quiz) TableName() string {
	return "quizzes"
}

type Question struct {
	BaseModel
	QuizID  uint           `gorm:"index;not null" json:"quizId"`
	TextEn  string         `gorm:"type:text;not null" json:"textEn"`
	TextFil string         `gorm:"type:text" json:"textFil"`
	Order   int            `gorm:"default:0" json:"order"`
	Points  int            `gorm:"default:1" json:"points"`
	Options []AnswerOption `gorm:"foreignKey:QuestionID" json:"options,omitempty"`
}

func (Question) TableName() string {
	return "questions"
}

type AnswerOption struct {
	BaseModel
	QuestionID uint   `gorm:"index;not null" json:"questionId"`
	TextEn     string `gorm:"type:text;not null" json:"textEn"`
	TextFil    string `gorm:"type:text" json:"textFil"`
	IsCorrect  bool   `gorm:"default:false" json:"isCorrect"`
	Order      int    `gorm:"default:0" json:"order"`
}

func (AnswerOption) TableName() string {
	return "answer_options"
}

// QuizAttempt is the graded record of one submission. Its IsPassed flag and
// the quiz type are the only signals the module gate consumes.
type QuizAttempt struct {
	BaseModel
	UserID      uint         `gorm:"index:idx_attempt_user_quiz;not null" json:"userId"`
	QuizID      uint         `gorm:"index:idx_attempt_user_quiz;not null" json:"quizId"`
	AttemptNum  int          `gorm:"not null" json:"attemptNum"`
	Score       int          `gorm:"default:0" json:"score"`
	MaxScore    int          `gorm:"default:0" json:"maxScore"`
	Percentage  int          `gorm:"default:0" json:"percentage"`
	IsPassed    bool         `gorm:"default:false" json:"isPassed"`
	SubmittedAt time.Time    `json:"submittedAt"`
	Answers     []QuizAnswer `gorm:"foreignKey:AttemptID" json:"answers,omitempty"`
}

func (QuizAttempt) TableName() string {
	return "quiz_attempts"
}

type QuizAnswer struct {
	BaseModel
	AttemptID        uint  `gorm:"index;not null" json:"attemptId"`
	QuestionID       uint  `gorm:"index;not null" json:"questionId"`
	SelectedOptionID *uint `json:"selectedOptionId"`
	IsCorrect        bool  `gorm:"default:false" json:"isCorrect"`
}

func (QuizAnswer) TableName() string {
	return "quiz_answers"
}
