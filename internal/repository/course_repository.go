package repository

import (
	"aral_lms_backend/internal/model"

	"gorm.io/gorm"
)

type CourseRepository struct {
	DB *gorm.DB
}

func NewCourseRepository(db *gorm.DB) *CourseRepository {
	return &CourseRepository{DB: db}
}

func (r *CourseRepository) Create(course *model.Course) error {
	return r.DB.Create(course).Error
}

func (r *CourseRepository) FindByID(id uint) (*model.Course, error) {
	var course model.Course
	err := r.DB.First(&course, id).Error
	return &course, err
}

func (r *CourseRepository) FindBySlug(slug string) (*model.Course, error) {
	var course model.Course
	err := r.DB.
		Preload("Modules", func(db *gorm.DB) *gorm.DB {
			return db.Order("`order` ASC")
		}).
		Preload("Modules.Lessons", func(db *gorm.DB) *gorm.DB {
			return db.Order("`order` ASC")
		}).
		Preload("Modules.Quizzes").
		Where("slug = ?", slug).
		First(&course).Error
	return &course, err
}

func (r *CourseRepository) SlugExists(slug string) (bool, error) {
	var count int64
	err := r.DB.Model(&model.Course{}).Where("slug = ?", slug).Count(&count).Error
	return count > 0, err
}

// ListForAdmin returns every course ordered by position.
func (r *CourseRepository) ListForAdmin() ([]model.Course, error) {
	var courses []model.Course
	err := r.DB.Order("`order` ASC").Find(&courses).Error
	return courses, err
}

// ListForStudent returns published non-invite-only courses plus any course
// the user holds an active enrollment in.
func (r *CourseRepository) ListForStudent(userID uint) ([]model.Course, error) {
	var courses []model.Course
	err := r.DB.
		Where("(status = ? AND is_invite_only = ?) OR id IN (?)",
			model.CoursePublished, false,
			r.DB.Model(&model.Enrollment{}).
				Select("course_id").
				Where("user_id = ? AND status = ?", userID, model.EnrollmentActive),
		).
		Order("`order` ASC").
		Find(&courses).Error
	return courses, err
}

func (r *CourseRepository) Update(course *model.Course) error {
	return r.DB.Save(course).Error
}

func (r *CourseRepository) Delete(id uint) error {
	return r.DB.Delete(&model.Course{}, id).Error
}
