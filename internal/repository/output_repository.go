package repository

import (
	"aral_lms_backend/internal/model"

	"gorm.io/gorm"
)

type OutputRepository struct {
	DB *gorm.DB
}

func NewOutputRepository(db *gorm.DB) *OutputRepository {
	return &OutputRepository{DB: db}
}

func (r *OutputRepository) Create(output *model.StudentOutput) error {
	return r.DB.Create(output).Error
}

func (r *OutputRepository) FindByID(id uint) (*model.StudentOutput, error) {
	var output model.StudentOutput
	err := r.DB.Preload("User").First(&output, id).Error
	if err != nil {
		return nil, err
	}
	return &output, nil
}

func (r *OutputRepository) ListByUser(userID uint) ([]model.StudentOutput, error) {
	var outputs []model.StudentOutput
	err := r.DB.
		Where("user_id = ?", userID).
		Order("submitted_at DESC").
		Find(&outputs).Error
	return outputs, err
}

// ListForReview returns submissions for the review queue, oldest first so
// nothing starves. courseID and status of zero value mean no filter.
func (r *OutputRepository) ListForReview(courseID uint, status model.OutputStatus, offset, limit int) ([]model.StudentOutput, int64, error) {
	var outputs []model.StudentOutput
	var total int64

	query := r.DB.Model(&model.StudentOutput{})
	if courseID != 0 {
		query = query.Where("course_id = ?", courseID)
	}
	if status != "" {
		query = query.Where("status = ?", status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Preload("User").
		Order("submitted_at ASC").
		Offset(offset).Limit(limit).
		Find(&outputs).Error
	if err != nil {
		return nil, 0, err
	}

	return outputs, total, nil
}

func (r *OutputRepository) Update(output *model.StudentOutput) error {
	return r.DB.Save(output).Error
}
