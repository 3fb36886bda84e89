package service

import (
	"errors"
	"math"
	"time"

	"aral_lms_backend/internal/model"
	"aral_lms_backend/internal/repository"
	"aral_lms_backend/internal/util"

	"gorm.io/gorm"
)

// ProgressService owns LessonProgress and ModuleProgress. Module progress is
// fully recomputed from lesson rows on every write rather than patched
// incrementally, so the aggregate can never drift.
type ProgressService struct {
	DB           *gorm.DB
	ProgressRepo *repository.ProgressRepository
	LockRepo     *repository.LockStatusRepository
	Gate         *ModuleGateService
}

func NewProgressService(db *gorm.DB, progressRepo *repository.ProgressRepository, lockRepo *repository.LockStatusRepository, gate *ModuleGateService) *ProgressService {
	return &ProgressService{DB: db, ProgressRepo: progressRepo, LockRepo: lockRepo, Gate: gate}
}

// RecordLessonProgress upserts the user's watch progress for a lesson and
// recomputes the parent module's aggregate in the same transaction.
// IsCompleted reflects the threshold at time of this write; CompletedAt is
// stamped on the first completion and kept even if a later write drops the
// percentage back below the threshold.
func (s *ProgressService) RecordLessonProgress(userID, lessonID uint, watchedPercent, lastWatchedSecs int) (*model.LessonProgress, error) {
	if watchedPercent < 0 || watchedPercent > 100 {
		return nil, util.ErrInvalidWatchedPercent
	}

	var result *model.LessonProgress
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var lesson model.Lesson
		if err := tx.First(&lesson, lessonID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return util.ErrLessonNotFound
			}
			return err
		}

		progress := model.LessonProgress{UserID: userID, LessonID: lessonID}
		err := tx.
			Where("user_id = ? AND lesson_id = ?", userID, lessonID).
			First(&progress).Error
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		completed := watchedPercent >= util.LessonCompletionPercent
		progress.WatchedPercent = watchedPercent
		progress.LastWatchedSecs = lastWatchedSecs
		if completed && !progress.IsCompleted {
			now := time.Now()
			progress.CompletedAt = &now
		}
		progress.IsCompleted = completed

		if err := tx.Save(&progress).Error; err != nil {
			if !errors.Is(err, gorm.ErrDuplicatedKey) {
				return err
			}
			// A racing first write created the row; redo on the fresh one.
			if err := s.retrySave(tx, userID, lessonID, watchedPercent, lastWatchedSecs, &progress); err != nil {
				return err
			}
		}

		if err := s.RecalculateModuleProgress(tx, userID, lesson.ModuleID); err != nil {
			return err
		}
		result = &progress
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *ProgressService) retrySave(tx *gorm.DB, userID, lessonID uint, watchedPercent, lastWatchedSecs int, out *model.LessonProgress) error {
	var progress model.LessonProgress
	err := tx.
		Where("user_id = ? AND lesson_id = ?", userID, lessonID).
		First(&progress).Error
	if err != nil {
		return err
	}
	completed := watchedPercent >= util.LessonCompletionPercent
	progress.WatchedPercent = watchedPercent
	progress.LastWatchedSecs = lastWatchedSecs
	if completed && !progress.IsCompleted {
		now := time.Now()
		progress.CompletedAt = &now
	}
	progress.IsCompleted = completed
	if err := tx.Save(&progress).Error; err != nil {
		return err
	}
	*out = progress
	return nil
}

// RecalculateModuleProgress recomputes the module aggregate from scratch:
// published lessons only, completed rows among them. When the module just
// became fully complete it hands the transition to the gate, which is the
// only path by which the progress side touches lock state.
func (s *ProgressService) RecalculateModuleProgress(tx *gorm.DB, userID, moduleID uint) error {
	var mod model.Module
	if err := tx.First(&mod, moduleID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrModuleNotFound
		}
		return err
	}

	var lessonIDs []uint
	err := tx.Model(&model.Lesson{}).
		Where("module_id = ? AND status = ?", moduleID, model.LessonPublished).
		Pluck("id", &lessonIDs).Error
	if err != nil {
		return err
	}

	total := len(lessonIDs)
	var completedCount int64
	if total > 0 {
		err = tx.Model(&model.LessonProgress{}).
			Where("user_id = ? AND lesson_id IN ? AND is_completed = ?", userID, lessonIDs, true).
			Count(&completedCount).Error
		if err != nil {
			return err
		}
	}

	percent := 0
	if total > 0 {
		percent = int(math.Round(100 * float64(completedCount) / float64(total)))
	}
	isCompleted := total > 0 && int(completedCount) == total

	progress := model.ModuleProgress{UserID: userID, ModuleID: moduleID}
	err = tx.
		Where("user_id = ? AND module_id = ?", userID, moduleID).
		First(&progress).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	justCompleted := isCompleted && !progress.IsCompleted
	progress.LessonsCompleted = int(completedCount)
	progress.TotalLessons = total
	progress.PercentComplete = percent
	progress.IsCompleted = isCompleted
	if justCompleted {
		now := time.Now()
		progress.CompletedAt = &now
	}

	if err := tx.Save(&progress).Error; err != nil {
		return err
	}

	if justCompleted && mod.RequiresAllLessons {
		return s.Gate.MarkAllLessonsDone(tx, userID, &mod)
	}
	return nil
}

// LessonProgressFor returns the user's progress row for a lesson, nil when
// they have not watched it yet.
func (s *ProgressService) LessonProgressFor(userID, lessonID uint) (*model.LessonProgress, error) {
	progress, err := s.ProgressRepo.FindLessonProgress(userID, lessonID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return progress, nil
}

// ModuleProgressFor returns the user's aggregate and lock row for a module;
// either may be nil when the user has not touched or reached it.
func (s *ProgressService) ModuleProgressFor(userID, moduleID uint) (*model.ModuleProgress, *model.ModuleLockStatus, error) {
	progress, err := s.ProgressRepo.FindModuleProgress(userID, moduleID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, err
		}
		progress = nil
	}
	lock, err := s.LockRepo.FindByUserModule(userID, moduleID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, err
		}
		lock = nil
	}
	return progress, lock, nil
}

// ModuleOverview is one row of the per-course progress listing: the module
// plus the user's aggregate and lock status, either of which may be absent
// when the user has not touched or reached the module yet.
type ModuleOverview struct {
	Module     model.Module            `json:"module"`
	Progress   *model.ModuleProgress   `json:"progress"`
	LockStatus *model.ModuleLockStatus `json:"lockStatus"`
}

// CourseProgressOverview returns the course's modules in order, each joined
// with the user's progress and lock rows. Requires an active enrollment.
func (s *ProgressService) CourseProgressOverview(userID, courseID uint) ([]ModuleOverview, error) {
	var enrollment model.Enrollment
	err := s.DB.
		Where("user_id = ? AND course_id = ? AND status = ?", userID, courseID, model.EnrollmentActive).
		First(&enrollment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrNotEnrolled
		}
		return nil, err
	}

	var modules []model.Module
	err = s.DB.
		Where("course_id = ?", courseID).
		Order("`order` ASC").
		Find(&modules).Error
	if err != nil {
		return nil, err
	}

	moduleIDs := make([]uint, len(modules))
	for i, m := range modules {
		moduleIDs[i] = m.ID
	}

	progressRows, err := s.ProgressRepo.ListModuleProgressByUser(userID, moduleIDs)
	if err != nil {
		return nil, err
	}
	lockRows, err := s.LockRepo.ListByUser(userID, moduleIDs)
	if err != nil {
		return nil, err
	}

	progressByModule := make(map[uint]*model.ModuleProgress, len(progressRows))
	for i := range progressRows {
		progressByModule[progressRows[i].ModuleID] = &progressRows[i]
	}
	lockByModule := make(map[uint]*model.ModuleLockStatus, len(lockRows))
	for i := range lockRows {
		lockByModule[lockRows[i].ModuleID] = &lockRows[i]
	}

	overview := make([]ModuleOverview, len(modules))
	for i, m := range modules {
		overview[i] = ModuleOverview{
			Module:     m,
			Progress:   progressByModule[m.ID],
			LockStatus: lockByModule[m.ID],
		}
	}
	return overview, nil
}
