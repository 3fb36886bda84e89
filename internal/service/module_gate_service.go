package service

import (
	"errors"
	"fmt"
	"time"

	"aral_lms_backend/internal/model"
	"aral_lms_backend/internal/util"
	"aral_lms_backend/pkg/logger"
	"aral_lms_backend/pkg/monitoring"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ModuleGateService is the sole writer of ModuleLockStatus. Every transition
// goes through one of its operations; nothing else in the codebase may touch
// the table, which keeps the state machine auditable in one file.
//
// Reason sequence, strictly forward:
//
//	AWAITING_PRETEST -> LESSONS_INCOMPLETE -> QUIZ_FAILED -> UNLOCKED
type ModuleGateService struct {
	DB       *gorm.DB
	Notifier Notifier
}

func NewModuleGateService(db *gorm.DB, notifier Notifier) *ModuleGateService {
	return &ModuleGateService{DB: db, Notifier: notifier}
}

// GetModuleLockStatus returns gorm.ErrRecordNotFound when the user has no
// entry for the module yet.
func (s *ModuleGateService) GetModuleLockStatus(userID, moduleID uint) (*model.ModuleLockStatus, error) {
	var status model.ModuleLockStatus
	err := s.DB.
		Where("user_id = ? AND module_id = ?", userID, moduleID).
		First(&status).Error
	if err != nil {
		return nil, err
	}
	return &status, nil
}

// InitializeEntry creates the user's lock row for a module, typically on
// enrollment for the course's first module. No-op if the row already exists.
func (s *ModuleGateService) InitializeEntry(userID, moduleID uint) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		var mod model.Module
		if err := tx.First(&mod, moduleID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return util.ErrModuleNotFound
			}
			return err
		}
		_, _, err := s.InitializeEntryTx(tx, userID, &mod)
		return err
	})
}

// InitializeEntryTx is the read-if-absent, insert-if-absent primitive. An
// existing row is returned untouched: first writer wins, re-invocation must
// never reset a state that has already advanced. A duplicate-key error from
// a racing create resolves to the same no-op.
func (s *ModuleGateService) InitializeEntryTx(tx *gorm.DB, userID uint, mod *model.Module) (*model.ModuleLockStatus, bool, error) {
	return s.initializeEntryTx(tx, userID, mod, false)
}

// stampReached marks the cascade path: the created row gets unlocked_at set
// even when the module still waits on its pre-test, recording when the user
// first became eligible to see it.
func (s *ModuleGateService) initializeEntryTx(tx *gorm.DB, userID uint, mod *model.Module, stampReached bool) (*model.ModuleLockStatus, bool, error) {
	var existing model.ModuleLockStatus
	err := tx.
		Where("user_id = ? AND module_id = ?", userID, mod.ID).
		First(&existing).Error
	if err == nil {
		return &existing, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	status := newLockStatus(userID, mod)
	if stampReached && status.UnlockedAt == nil {
		now := time.Now()
		status.UnlockedAt = &now
	}
	if err := tx.Create(status).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			err = tx.
				Where("user_id = ? AND module_id = ?", userID, mod.ID).
				First(&existing).Error
			if err != nil {
				return nil, false, err
			}
			return &existing, false, nil
		}
		return nil, false, err
	}
	return status, true, nil
}

// newLockStatus picks the initial state from the module's own flags. A module
// without a pre-test starts fully UNLOCKED even when lesson or post-test
// requirements are set; those gates only constrain the cascade to the next
// module, not entry into this one.
func newLockStatus(userID uint, mod *model.Module) *model.ModuleLockStatus {
	status := &model.ModuleLockStatus{
		UserID:   userID,
		ModuleID: mod.ID,
	}
	if mod.RequiresPreTest {
		status.IsUnlocked = false
		status.LockReason = model.LockAwaitingPretest
	} else {
		now := time.Now()
		status.IsUnlocked = true
		status.LockReason = model.LockUnlocked
		status.UnlockedAt = &now
	}
	return status
}

// ApplyQuizResult consumes a graded PRE_TEST or POST_TEST outcome for the
// module. Any other quiz type is rejected with ErrInvalidQuizType; practice
// quizzes never gate anything.
func (s *ModuleGateService) ApplyQuizResult(userID, moduleID uint, quizType model.QuizType, passed bool) error {
	if quizType != model.QuizPreTest && quizType != model.QuizPostTest {
		return util.ErrInvalidQuizType
	}

	var unlockedNext *model.Module
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var mod model.Module
		if err := tx.First(&mod, moduleID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return util.ErrModuleNotFound
			}
			return err
		}
		next, err := s.ApplyQuizResultTx(tx, userID, &mod, quizType, passed)
		if err != nil {
			return err
		}
		unlockedNext = next
		return nil
	})
	if err != nil {
		return err
	}

	if unlockedNext != nil {
		s.NotifyModuleUnlocked(userID, unlockedNext)
	}
	return nil
}

// ApplyQuizResultTx applies the transition inside the caller's transaction
// and returns the next module reached by the cascade, if any, so the caller
// can emit the notification after commit.
func (s *ModuleGateService) ApplyQuizResultTx(tx *gorm.DB, userID uint, mod *model.Module, quizType model.QuizType, passed bool) (*model.Module, error) {
	if quizType == model.QuizPostTest && !passed {
		// Stays QUIZ_FAILED; a failed post-test writes nothing, it does
		// not even materialize a lock row that isn't there yet.
		return nil, nil
	}

	status, _, err := s.InitializeEntryTx(tx, userID, mod)
	if err != nil {
		return nil, err
	}

	switch quizType {
	case model.QuizPreTest:
		status.PretestPassed = passed
		status.IsUnlocked = passed
		if passed {
			if mod.RequiresAllLessons {
				status.LockReason = model.LockLessonsIncomplete
			} else {
				status.LockReason = model.LockUnlocked
			}
			monitoring.ModuleUnlockCounter.WithLabelValues("pretest").Inc()
		} else {
			status.LockReason = model.LockAwaitingPretest
		}
		return nil, tx.Save(status).Error

	case model.QuizPostTest:
		now := time.Now()
		status.PosttestPassed = true
		status.IsUnlocked = true
		status.LockReason = model.LockUnlocked
		if status.UnlockedAt == nil {
			status.UnlockedAt = &now
		}
		if err := tx.Save(status).Error; err != nil {
			return nil, err
		}
		monitoring.ModuleUnlockCounter.WithLabelValues("posttest").Inc()
		return s.cascadeUnlockNext(tx, userID, mod)

	default:
		return nil, util.ErrInvalidQuizType
	}
}

// MarkAllLessonsDone is called by the progress recompute when the module
// just became fully complete. It only acts when the current reason is
// exactly LESSONS_INCOMPLETE, so it can never regress an advanced state or
// resurrect a row the pre-test still blocks.
func (s *ModuleGateService) MarkAllLessonsDone(tx *gorm.DB, userID uint, mod *model.Module) error {
	var status model.ModuleLockStatus
	err := tx.
		Where("user_id = ? AND module_id = ?", userID, mod.ID).
		First(&status).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}
	if status.LockReason != model.LockLessonsIncomplete {
		return nil
	}

	status.AllLessonsDone = true
	if mod.RequiresPostTest {
		status.LockReason = model.LockQuizFailed
	} else {
		status.LockReason = model.LockUnlocked
		status.IsUnlocked = true
		if status.UnlockedAt == nil {
			now := time.Now()
			status.UnlockedAt = &now
		}
		monitoring.ModuleUnlockCounter.WithLabelValues("lessons").Inc()
	}
	return tx.Save(&status).Error
}

// cascadeUnlockNext initializes the lock row for the next module by order
// within the same course. The next module's own requiresPreTest flag picks
// its initial state. Returns nil at course end.
func (s *ModuleGateService) cascadeUnlockNext(tx *gorm.DB, userID uint, from *model.Module) (*model.Module, error) {
	var next model.Module
	err := tx.
		Where("course_id = ? AND `order` > ?", from.CourseID, from.Order).
		Order("`order` ASC").
		First(&next).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	if _, created, err := s.initializeEntryTx(tx, userID, &next, true); err != nil {
		return nil, err
	} else if created {
		monitoring.ModuleUnlockCounter.WithLabelValues("cascade").Inc()
	}
	return &next, nil
}

// NotifyModuleUnlocked runs after the gating transaction committed; the
// notification is not part of its atomicity guarantee.
func (s *ModuleGateService) NotifyModuleUnlocked(userID uint, mod *model.Module) {
	if s.Notifier == nil {
		return
	}
	titleFil := mod.TitleFil
	if titleFil == "" {
		titleFil = mod.TitleEn
	}
	s.Notifier.Notify(userID, NotificationInput{
		Type:     model.NotifyModuleUnlocked,
		TitleEn:  "New module unlocked",
		TitleFil: "May bagong module na bukas na",
		BodyEn:   fmt.Sprintf("You can now start \"%s\".", mod.TitleEn),
		BodyFil:  fmt.Sprintf("Maaari mo nang simulan ang \"%s\".", titleFil),
		Link:     fmt.Sprintf("/modules/%d", mod.ID),
	})
	logger.Log.Info("module unlocked",
		zap.Uint("userId", userID),
		zap.Uint("moduleId", mod.ID))
}
