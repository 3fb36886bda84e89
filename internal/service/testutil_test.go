package service

import (
	"fmt"
	"sync"
	"testing"

	"aral_lms_backend/internal/model"
	"aral_lms_backend/internal/repository"
	"aral_lms_backend/pkg/database"
	"aral_lms_backend/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func init() {
	logger.Log = zap.NewNop()
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrating test database: %v", err)
	}
	return db
}

// recordingNotifier captures notification events for assertions.
type recordingNotifier struct {
	mu     sync.Mutex
	events []recordedEvent
}

type recordedEvent struct {
	UserID uint
	Input  NotificationInput
}

func (r *recordingNotifier) Notify(userID uint, input NotificationInput) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, recordedEvent{UserID: userID, Input: input})
}

func (r *recordingNotifier) Events() []recordedEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]recordedEvent, len(r.events))
	copy(out, r.events)
	return out
}

func newProgressSvc(db *gorm.DB, gate *ModuleGateService) *ProgressService {
	return NewProgressService(db,
		repository.NewProgressRepository(db),
		repository.NewLockStatusRepository(db),
		gate)
}

func createUser(t *testing.T, db *gorm.DB, email string) *model.User {
	t.Helper()
	user := &model.User{
		Name:          "Test User",
		Email:         email,
		Password:      "hashed",
		Role:          model.Student,
		IsActive:      true,
		EmailVerified: true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("creating user: %v", err)
	}
	return user
}

func createCourse(t *testing.T, db *gorm.DB, slug string) *model.Course {
	t.Helper()
	course := &model.Course{
		Slug:    slug,
		TitleEn: "Test Course",
		Status:  model.CoursePublished,
	}
	if err := db.Create(course).Error; err != nil {
		t.Fatalf("creating course: %v", err)
	}
	return course
}

type moduleFlags struct {
	preTest    bool
	allLessons bool
	postTest   bool
}

func createModule(t *testing.T, db *gorm.DB, courseID uint, order int, flags moduleFlags) *model.Module {
	t.Helper()
	mod := &model.Module{
		CourseID:           courseID,
		TitleEn:            fmt.Sprintf("Module %d", order),
		TitleFil:           fmt.Sprintf("Modyul %d", order),
		Order:              order,
		RequiresPreTest:    flags.preTest,
		RequiresAllLessons: flags.allLessons,
		RequiresPostTest:   flags.postTest,
	}
	if err := db.Create(mod).Error; err != nil {
		t.Fatalf("creating module: %v", err)
	}
	return mod
}

func createLesson(t *testing.T, db *gorm.DB, moduleID uint, order int, status model.LessonStatus) *model.Lesson {
	t.Helper()
	lesson := &model.Lesson{
		ModuleID: moduleID,
		TitleEn:  fmt.Sprintf("Lesson %d", order),
		Order:    order,
		Status:   status,
	}
	if err := db.Create(lesson).Error; err != nil {
		t.Fatalf("creating lesson: %v", err)
	}
	return lesson
}

func lockStatusFor(t *testing.T, db *gorm.DB, userID, moduleID uint) *model.ModuleLockStatus {
	t.Helper()
	var status model.ModuleLockStatus
	if err := db.Where("user_id = ? AND module_id = ?", userID, moduleID).First(&status).Error; err != nil {
		t.Fatalf("loading lock status: %v", err)
	}
	return &status
}
