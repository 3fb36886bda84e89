package repository

import (
	"aral_lms_backend/internal/model"
	"time"

	"gorm.io/gorm"
)

type OtpRepository struct {
	DB *gorm.DB
}

func NewOtpRepository(db *gorm.DB) *OtpRepository {
	return &OtpRepository{DB: db}
}

func (r *OtpRepository) Create(challenge *model.OtpChallenge) error {
	return r.DB.Create(challenge).Error
}

// FindLatestActive returns the newest unused, unexpired challenge for the
// email and purpose.
func (r *OtpRepository) FindLatestActive(email string, purpose model.OtpPurpose) (*model.OtpChallenge, error) {
	var challenge model.OtpChallenge
	err := r.DB.
		Where("email = ? AND purpose = ? AND is_used = ? AND expires_at > ?", email, purpose, false, time.Now()).
		Order("created_at DESC").
		First(&challenge).Error
	return &challenge, err
}

func (r *OtpRepository) Update(challenge *model.OtpChallenge) error {
	return r.DB.Save(challenge).Error
}
