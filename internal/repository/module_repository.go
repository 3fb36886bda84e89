package repository

import (
	"aral_lms_backend/internal/model"

	"gorm.io/gorm"
)

type ModuleRepository struct {
	DB *gorm.DB
}

func NewModuleRepository(db *gorm.DB) *ModuleRepository {
	return &ModuleRepository{DB: db}
}

func (r *ModuleRepository) Create(mod *model.Module) error {
	return r.DB.Create(mod).Error
}

func (r *ModuleRepository) FindByID(id uint) (*model.Module, error) {
	var mod model.Module
	err := r.DB.First(&mod, id).Error
	return &mod, err
}

func (r *ModuleRepository) ListByCourse(courseID uint) ([]model.Module, error) {
	var modules []model.Module
	err := r.DB.
		Where("course_id = ?", courseID).
		Order("`order` ASC").
		Find(&modules).Error
	return modules, err
}

func (r *ModuleRepository) Update(mod *model.Module) error {
	return r.DB.Save(mod).Error
}

func (r *ModuleRepository) Delete(id uint) error {
	return r.DB.Delete(&model.Module{}, id).Error
}
