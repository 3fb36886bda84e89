package service

import (
	"errors"

	"aral_lms_backend/internal/model"
	"aral_lms_backend/internal/repository"
	"aral_lms_backend/internal/util"

	"gorm.io/gorm"
)

type UserService struct {
	DB       *gorm.DB
	UserRepo *repository.UserRepository
}

func NewUserService(db *gorm.DB, userRepo *repository.UserRepository) *UserService {
	return &UserService{DB: db, UserRepo: userRepo}
}

func (s *UserService) GetProfile(userID uint) (*model.User, error) {
	user, err := s.UserRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// UpdateProfile lets the user change their display fields; role, email and
// verification state are not touchable here.
func (s *UserService) UpdateProfile(userID uint, name string, language model.Language, region, phoneNumber string) (*model.User, error) {
	user, err := s.GetProfile(userID)
	if err != nil {
		return nil, err
	}
	if name != "" {
		user.Name = name
	}
	if language != "" {
		user.Language = language
	}
	if region != "" {
		user.Region = region
	}
	if phoneNumber != "" {
		user.PhoneNumber = phoneNumber
	}
	if err := s.UserRepo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) ListUsers(page, pageSize int) ([]model.User, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	var users []model.User
	var total int64
	if err := s.DB.Model(&model.User{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := s.DB.
		Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&users).Error
	return users, total, err
}

func (s *UserService) SetUserActive(userID uint, active bool) error {
	user, err := s.GetProfile(userID)
	if err != nil {
		return err
	}
	user.IsActive = active
	return s.UserRepo.Update(user)
}

func (s *UserService) SetUserRole(userID uint, role model.UserRole) error {
	user, err := s.GetProfile(userID)
	if err != nil {
		return err
	}
	user.Role = role
	return s.UserRepo.Update(user)
}

// PlatformStats is the admin dashboard summary.
type PlatformStats struct {
	TotalUsers       int64 `json:"totalUsers"`
	ActiveUsers      int64 `json:"activeUsers"`
	TotalCourses     int64 `json:"totalCourses"`
	TotalEnrollments int64 `json:"totalEnrollments"`
	ModulesUnlocked  int64 `json:"modulesUnlocked"`
	QuizAttempts     int64 `json:"quizAttempts"`
	PendingOutputs   int64 `json:"pendingOutputs"`
}

func (s *UserService) GetPlatformStats() (*PlatformStats, error) {
	stats := &PlatformStats{}
	counts := []struct {
		model interface{}
		query func(*gorm.DB) *gorm.DB
		dst   *int64
	}{
		{&model.User{}, nil, &stats.TotalUsers},
		{&model.User{}, func(db *gorm.DB) *gorm.DB { return db.Where("is_active = ?", true) }, &stats.ActiveUsers},
		{&model.Course{}, nil, &stats.TotalCourses},
		{&model.Enrollment{}, func(db *gorm.DB) *gorm.DB { return db.Where("status = ?", model.EnrollmentActive) }, &stats.TotalEnrollments},
		{&model.ModuleLockStatus{}, func(db *gorm.DB) *gorm.DB { return db.Where("is_unlocked = ?", true) }, &stats.ModulesUnlocked},
		{&model.QuizAttempt{}, nil, &stats.QuizAttempts},
		{&model.StudentOutput{}, func(db *gorm.DB) *gorm.DB { return db.Where("status = ?", model.OutputPending) }, &stats.PendingOutputs},
	}
	for _, c := range counts {
		q := s.DB.Model(c.model)
		if c.query != nil {
			q = c.query(q)
		}
		if err := q.Count(c.dst).Error; err != nil {
			return nil, err
		}
	}
	return stats, nil
}
