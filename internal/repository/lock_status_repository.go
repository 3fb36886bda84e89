package repository

import (
	"aral_lms_backend/internal/model"

	"gorm.io/gorm"
)

// LockStatusRepository is read-only by design: ModuleLockStatus rows are
// written exclusively by the module gate service.
type LockStatusRepository struct {
	DB *gorm.DB
}

func NewLockStatusRepository(db *gorm.DB) *LockStatusRepository {
	return &LockStatusRepository{DB: db}
}

func (r *LockStatusRepository) FindByUserModule(userID, moduleID uint) (*model.ModuleLockStatus, error) {
	var lock model.ModuleLockStatus
	err := r.DB.
		Where("user_id = ? AND module_id = ?", userID, moduleID).
		First(&lock).Error
	return &lock, err
}

func (r *LockStatusRepository) ListByUser(userID uint, moduleIDs []uint) ([]model.ModuleLockStatus, error) {
	var rows []model.ModuleLockStatus
	if len(moduleIDs) == 0 {
		return rows, nil
	}
	err := r.DB.
		Where("user_id = ? AND module_id IN ?", userID, moduleIDs).
		Find(&rows).Error
	return rows, err
}
