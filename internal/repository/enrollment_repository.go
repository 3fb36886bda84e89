package repository

import (
	"aral_lms_backend/internal/model"

	"gorm.io/gorm"
)

type EnrollmentRepository struct {
	DB *gorm.DB
}

func NewEnrollmentRepository(db *gorm.DB) *EnrollmentRepository {
	return &EnrollmentRepository{DB: db}
}

func (r *EnrollmentRepository) ListByUser(userID uint) ([]model.Enrollment, error) {
	var enrollments []model.Enrollment
	err := r.DB.Where("user_id = ?", userID).Find(&enrollments).Error
	return enrollments, err
}

func (r *EnrollmentRepository) CountActiveByCourse(courseID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.Enrollment{}).
		Where("course_id = ? AND status = ?", courseID, model.EnrollmentActive).
		Count(&count).Error
	return count, err
}

func (r *EnrollmentRepository) CreateInviteCode(code *model.InviteCode) error {
	return r.DB.Create(code).Error
}

func (r *EnrollmentRepository) InviteCodeExists(code string) (bool, error) {
	var count int64
	err := r.DB.Model(&model.InviteCode{}).Where("code = ?", code).Count(&count).Error
	return count > 0, err
}

func (r *EnrollmentRepository) ListInviteCodes(courseID uint) ([]model.InviteCode, error) {
	var codes []model.InviteCode
	err := r.DB.
		Where("course_id = ?", courseID).
		Order("created_at DESC").
		Find(&codes).Error
	return codes, err
}
