package model

import "time"

type LockReason string

const (
	LockAwaitingPretest   LockReason = "AWAITING_PRETEST"
	LockLessonsIncomplete LockReason = "LESSONS_INCOMPLETE"
	LockQuizFailed        LockReason = "QUIZ_FAILED"
	LockUnlocked          LockReason = "UNLOCKED"
)

// ModuleLockStatus is the per-user, per-module access-control record.
// Created exactly once when the user becomes eligible to see the module;
// after that only the gate service's explicit transitions may change it.
type ModuleLockStatus struct {
	BaseModel
	UserID         uint       `gorm:"uniqueIndex:idx_lock_status_user_module;not null" json:"userId"`
	ModuleID       uint       `gorm:"uniqueIndex:idx_lock_status_user_module;not null" json:"moduleId"`
	IsUnlocked     bool       `gorm:"default:false" json:"isUnlocked"`
	LockReason     LockReason `gorm:"size:32;default:'AWAITING_PRETEST'" json:"lockReason"`
	PretestPassed  bool       `gorm:"default:false" json:"pretestPassed"`
	PosttestPassed bool       `gorm:"default:false" json:"posttestPassed"`
	AllLessonsDone bool       `gorm:"default:false" json:"allLessonsDone"`
	UnlockedAt     *time.Time `json:"unlockedAt"`
}

func (ModuleLockStatus) TableName() string {
	return "module_lock_status"
}
