package repository

import (
	"aral_lms_backend/internal/model"

	"gorm.io/gorm"
)

// ProgressRepository serves the read paths over LessonProgress and
// ModuleProgress. All writes go through the progress and gate services,
// which run their own transactions.
type ProgressRepository struct {
	DB *gorm.DB
}

func NewProgressRepository(db *gorm.DB) *ProgressRepository {
	return &ProgressRepository{DB: db}
}

func (r *ProgressRepository) FindLessonProgress(userID, lessonID uint) (*model.LessonProgress, error) {
	var progress model.LessonProgress
	err := r.DB.
		Where("user_id = ? AND lesson_id = ?", userID, lessonID).
		First(&progress).Error
	return &progress, err
}

func (r *ProgressRepository) FindModuleProgress(userID, moduleID uint) (*model.ModuleProgress, error) {
	var progress model.ModuleProgress
	err := r.DB.
		Where("user_id = ? AND module_id = ?", userID, moduleID).
		First(&progress).Error
	return &progress, err
}

func (r *ProgressRepository) ListModuleProgressByUser(userID uint, moduleIDs []uint) ([]model.ModuleProgress, error) {
	var rows []model.ModuleProgress
	if len(moduleIDs) == 0 {
		return rows, nil
	}
	err := r.DB.
		Where("user_id = ? AND module_id IN ?", userID, moduleIDs).
		Find(&rows).Error
	return rows, err
}
