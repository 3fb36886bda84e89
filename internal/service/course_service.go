package service

import (
	"errors"
	"strings"
	"time"

	"aral_lms_backend/internal/model"
	"aral_lms_backend/internal/repository"
	"aral_lms_backend/internal/util"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"aral_lms_backend/pkg/logger"
)

type CourseService struct {
	DB             *gorm.DB
	CourseRepo     *repository.CourseRepository
	EnrollmentRepo *repository.EnrollmentRepository
	Gate           *ModuleGateService
	Notifier       Notifier
}

func NewCourseService(db *gorm.DB, courseRepo *repository.CourseRepository, enrollmentRepo *repository.EnrollmentRepository, gate *ModuleGateService, notifier Notifier) *CourseService {
	return &CourseService{
		DB:             db,
		CourseRepo:     courseRepo,
		EnrollmentRepo: enrollmentRepo,
		Gate:           gate,
		Notifier:       notifier,
	}
}

func (s *CourseService) ListCourses(userID uint, isAdmin bool) ([]model.Course, error) {
	if isAdmin {
		return s.CourseRepo.ListForAdmin()
	}
	return s.CourseRepo.ListForStudent(userID)
}

func (s *CourseService) GetCourseBySlug(slug string) (*model.Course, error) {
	course, err := s.CourseRepo.FindBySlug(slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCourseNotFound
		}
		return nil, err
	}
	return course, nil
}

func (s *CourseService) CreateCourse(course *model.Course) error {
	if course.Slug == "" {
		course.Slug = util.Slugify(course.TitleEn)
	}
	exists, err := s.CourseRepo.SlugExists(course.Slug)
	if err != nil {
		return err
	}
	if exists {
		course.Slug = course.Slug + "-" + strings.ToLower(util.GenerateRandomString(4))
	}
	return s.CourseRepo.Create(course)
}

func (s *CourseService) UpdateCourse(course *model.Course) error {
	return s.CourseRepo.Update(course)
}

func (s *CourseService) DeleteCourse(id uint) error {
	return s.CourseRepo.Delete(id)
}

// EnrollWithCode redeems an invite code. Code validation, the enrollment
// insert, the usage increment and the use record are one transaction, so a
// racing double-submission of the same code leaves exactly one enrollment
// and one increment. The first module's lock entry is initialized in the
// same transaction; the confirmation notification goes out after commit.
func (s *CourseService) EnrollWithCode(userID uint, code string) (*model.Enrollment, error) {
	var enrollment *model.Enrollment
	var course model.Course

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var invite model.InviteCode
		err := tx.Where("code = ?", code).First(&invite).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return util.ErrInviteInvalid
			}
			return err
		}
		if !invite.IsActive {
			return util.ErrInviteInvalid
		}
		if invite.ExpiresAt != nil && invite.ExpiresAt.Before(time.Now()) {
			return util.ErrInviteExpired
		}
		if invite.UsageLimit > 0 && invite.UsageCount >= invite.UsageLimit {
			return util.ErrInviteLimitReached
		}

		if err := tx.First(&course, invite.CourseID).Error; err != nil {
			return err
		}

		var existing model.Enrollment
		err = tx.Where("user_id = ? AND course_id = ?", userID, invite.CourseID).
			First(&existing).Error
		if err == nil {
			return util.ErrAlreadyEnrolled
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		enrollment = &model.Enrollment{
			UserID:       userID,
			CourseID:     invite.CourseID,
			Status:       model.EnrollmentActive,
			EnrolledVia:  "invite_code",
			InviteCodeID: &invite.ID,
			EnrolledAt:   time.Now(),
		}
		if err := tx.Create(enrollment).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return util.ErrAlreadyEnrolled
			}
			return err
		}

		// Guarded increment: the WHERE re-checks the limit so two racing
		// redemptions cannot push the count past it.
		res := tx.Model(&model.InviteCode{}).
			Where("id = ? AND (usage_limit = 0 OR usage_count < usage_limit)", invite.ID).
			UpdateColumn("usage_count", gorm.Expr("usage_count + 1"))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return util.ErrInviteLimitReached
		}

		use := model.InviteCodeUse{InviteCodeID: invite.ID, UserID: userID}
		if err := tx.Create(&use).Error; err != nil {
			return err
		}

		var first model.Module
		err = tx.Where("course_id = ?", invite.CourseID).
			Order("`order` ASC").
			First(&first).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil // course without modules yet
			}
			return err
		}
		_, _, err = s.Gate.InitializeEntryTx(tx, userID, &first)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.notifyEnrollmentConfirmed(userID, &course)
	return enrollment, nil
}

func (s *CourseService) notifyEnrollmentConfirmed(userID uint, course *model.Course) {
	if s.Notifier == nil {
		return
	}
	titleFil := course.TitleFil
	if titleFil == "" {
		titleFil = course.TitleEn
	}
	s.Notifier.Notify(userID, NotificationInput{
		Type:     model.NotifyEnrollmentConfirmed,
		TitleEn:  "Enrollment confirmed",
		TitleFil: "Kumpirmado ang iyong pagpapatala",
		BodyEn:   "You are now enrolled in \"" + course.TitleEn + "\".",
		BodyFil:  "Naka-enroll ka na sa \"" + titleFil + "\".",
		Link:     "/courses/" + course.Slug,
	})
	logger.Log.Info("user enrolled",
		zap.Uint("userId", userID),
		zap.Uint("courseId", course.ID))
}

// CreateInviteCode generates a unique short code with the course prefix,
// retrying on the rare collision.
func (s *CourseService) CreateInviteCode(courseID, createdByID uint, usageLimit int, expiresAt *time.Time, note string) (*model.InviteCode, error) {
	if _, err := s.CourseRepo.FindByID(courseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCourseNotFound
		}
		return nil, err
	}

	var code string
	for i := 0; i < 5; i++ {
		candidate := util.GenerateInviteCode("")
		exists, err := s.EnrollmentRepo.InviteCodeExists(candidate)
		if err != nil {
			return nil, err
		}
		if !exists {
			code = candidate
			break
		}
	}
	if code == "" {
		return nil, errors.New("could not generate a unique invite code")
	}

	invite := &model.InviteCode{
		CourseID:    courseID,
		Code:        code,
		UsageLimit:  usageLimit,
		ExpiresAt:   expiresAt,
		IsActive:    true,
		Note:        note,
		CreatedByID: createdByID,
	}
	if err := s.EnrollmentRepo.CreateInviteCode(invite); err != nil {
		return nil, err
	}
	return invite, nil
}

func (s *CourseService) ListInviteCodes(courseID uint) ([]model.InviteCode, error) {
	return s.EnrollmentRepo.ListInviteCodes(courseID)
}

func (s *CourseService) CountActiveEnrollments(courseID uint) (int64, error) {
	return s.EnrollmentRepo.CountActiveByCourse(courseID)
}

func (s *CourseService) ListEnrollments(userID uint) ([]model.Enrollment, error) {
	return s.EnrollmentRepo.ListByUser(userID)
}
