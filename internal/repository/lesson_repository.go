package repository

import (
	"aral_lms_backend/internal/model"

	"gorm.io/gorm"
)

type LessonRepository struct {
	DB *gorm.DB
}

func NewLessonRepository(db *gorm.DB) *LessonRepository {
	return &LessonRepository{DB: db}
}

func (r *LessonRepository) Create(lesson *model.Lesson) error {
	return r.DB.Create(lesson).Error
}

func (r *LessonRepository) FindByID(id uint) (*model.Lesson, error) {
	var lesson model.Lesson
	err := r.DB.First(&lesson, id).Error
	return &lesson, err
}

func (r *LessonRepository) FindByIDWithMaterials(id uint) (*model.Lesson, error) {
	var lesson model.Lesson
	err := r.DB.
		Preload("Materials", func(db *gorm.DB) *gorm.DB {
			return db.Order("`order` ASC")
		}).
		First(&lesson, id).Error
	return &lesson, err
}

func (r *LessonRepository) Update(lesson *model.Lesson) error {
	return r.DB.Save(lesson).Error
}

func (r *LessonRepository) Delete(id uint) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("lesson_id = ?", id).Delete(&model.LessonMaterial{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Lesson{}, id).Error
	})
}

func (r *LessonRepository) AddMaterial(material *model.LessonMaterial) error {
	return r.DB.Create(material).Error
}
