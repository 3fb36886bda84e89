package service

import (
	"testing"

	"aral_lms_backend/internal/model"
	"aral_lms_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestInitializeEntryPreTestModuleStartsLocked(t *testing.T) {
	db := newTestDB(t)
	gate := NewModuleGateService(db, nil)
	user := createUser(t, db, "gate1@test.ph")
	course := createCourse(t, db, "gate-course-1")
	mod := createModule(t, db, course.ID, 1, moduleFlags{preTest: true, allLessons: true})

	require.NoError(t, gate.InitializeEntry(user.ID, mod.ID))

	status := lockStatusFor(t, db, user.ID, mod.ID)
	assert.False(t, status.IsUnlocked)
	assert.Equal(t, model.LockAwaitingPretest, status.LockReason)
	assert.Nil(t, status.UnlockedAt)
}

func TestInitializeEntryOpenModuleStartsUnlocked(t *testing.T) {
	db := newTestDB(t)
	gate := NewModuleGateService(db, nil)
	user := createUser(t, db, "gate2@test.ph")
	course := createCourse(t, db, "gate-course-2")
	mod := createModule(t, db, course.ID, 1, moduleFlags{allLessons: true, postTest: true})

	require.NoError(t, gate.InitializeEntry(user.ID, mod.ID))

	status := lockStatusFor(t, db, user.ID, mod.ID)
	assert.True(t, status.IsUnlocked)
	assert.Equal(t, model.LockUnlocked, status.LockReason)
	require.NotNil(t, status.UnlockedAt)
}

func TestInitializeEntryDoesNotResetAdvancedState(t *testing.T) {
	db := newTestDB(t)
	gate := NewModuleGateService(db, nil)
	user := createUser(t, db, "gate3@test.ph")
	course := createCourse(t, db, "gate-course-3")
	mod := createModule(t, db, course.ID, 1, moduleFlags{preTest: true, allLessons: true})

	require.NoError(t, gate.InitializeEntry(user.ID, mod.ID))
	require.NoError(t, gate.ApplyQuizResult(user.ID, mod.ID, model.QuizPreTest, true))

	// Re-initialization must leave the advanced row untouched.
	require.NoError(t, gate.InitializeEntry(user.ID, mod.ID))

	status := lockStatusFor(t, db, user.ID, mod.ID)
	assert.Equal(t, model.LockLessonsIncomplete, status.LockReason)
	assert.True(t, status.PretestPassed)

	var count int64
	db.Model(&model.ModuleLockStatus{}).
		Where("user_id = ? AND module_id = ?", user.ID, mod.ID).
		Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestInitializeEntryUnknownModule(t *testing.T) {
	db := newTestDB(t)
	gate := NewModuleGateService(db, nil)
	user := createUser(t, db, "gate4@test.ph")

	err := gate.InitializeEntry(user.ID, 999)
	assert.ErrorIs(t, err, util.ErrModuleNotFound)
}

func TestApplyQuizResultRejectsPractice(t *testing.T) {
	db := newTestDB(t)
	gate := NewModuleGateService(db, nil)

	err := gate.ApplyQuizResult(1, 1, model.QuizPractice, true)
	assert.ErrorIs(t, err, util.ErrInvalidQuizType)
}

func TestApplyQuizResultPretestFail(t *testing.T) {
	db := newTestDB(t)
	gate := NewModuleGateService(db, nil)
	user := createUser(t, db, "gate5@test.ph")
	course := createCourse(t, db, "gate-course-5")
	mod := createModule(t, db, course.ID, 1, moduleFlags{preTest: true, allLessons: true})

	require.NoError(t, gate.ApplyQuizResult(user.ID, mod.ID, model.QuizPreTest, false))

	status := lockStatusFor(t, db, user.ID, mod.ID)
	assert.False(t, status.IsUnlocked)
	assert.False(t, status.PretestPassed)
	assert.Equal(t, model.LockAwaitingPretest, status.LockReason)
	assert.Nil(t, status.UnlockedAt)
}

func TestApplyQuizResultPretestPass(t *testing.T) {
	db := newTestDB(t)
	gate := NewModuleGateService(db, nil)
	user := createUser(t, db, "gate6@test.ph")
	course := createCourse(t, db, "gate-course-6")
	withLessons := createModule(t, db, course.ID, 1, moduleFlags{preTest: true, allLessons: true})
	withoutLessons := createModule(t, db, course.ID, 2, moduleFlags{preTest: true})

	require.NoError(t, gate.ApplyQuizResult(user.ID, withLessons.ID, model.QuizPreTest, true))
	status := lockStatusFor(t, db, user.ID, withLessons.ID)
	assert.True(t, status.IsUnlocked)
	assert.True(t, status.PretestPassed)
	assert.Equal(t, model.LockLessonsIncomplete, status.LockReason)
	// Passing the pre-test opens the module but does not stamp unlocked_at;
	// only the post-test path and the cascade do.
	assert.Nil(t, status.UnlockedAt)

	require.NoError(t, gate.ApplyQuizResult(user.ID, withoutLessons.ID, model.QuizPreTest, true))
	status = lockStatusFor(t, db, user.ID, withoutLessons.ID)
	assert.True(t, status.IsUnlocked)
	assert.Equal(t, model.LockUnlocked, status.LockReason)
}

func TestApplyQuizResultPosttestFailIsNoOp(t *testing.T) {
	db := newTestDB(t)
	gate := NewModuleGateService(db, nil)
	user := createUser(t, db, "gate7@test.ph")
	course := createCourse(t, db, "gate-course-7")
	mod := createModule(t, db, course.ID, 1, moduleFlags{allLessons: true, postTest: true})
	createModule(t, db, course.ID, 2, moduleFlags{})

	require.NoError(t, gate.InitializeEntry(user.ID, mod.ID))
	before := lockStatusFor(t, db, user.ID, mod.ID)

	require.NoError(t, gate.ApplyQuizResult(user.ID, mod.ID, model.QuizPostTest, false))

	after := lockStatusFor(t, db, user.ID, mod.ID)
	assert.Equal(t, before.LockReason, after.LockReason)
	assert.False(t, after.PosttestPassed)

	// Failing must not touch the next module either.
	var count int64
	db.Model(&model.ModuleLockStatus{}).
		Where("user_id = ?", user.ID).
		Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestApplyQuizResultPosttestFailCreatesNoRow(t *testing.T) {
	db := newTestDB(t)
	gate := NewModuleGateService(db, nil)
	user := createUser(t, db, "gate7b@test.ph")
	course := createCourse(t, db, "gate-course-7b")
	mod := createModule(t, db, course.ID, 1, moduleFlags{postTest: true})

	require.NoError(t, gate.ApplyQuizResult(user.ID, mod.ID, model.QuizPostTest, false))

	var count int64
	db.Model(&model.ModuleLockStatus{}).
		Where("user_id = ?", user.ID).
		Count(&count)
	assert.EqualValues(t, 0, count)
}

func TestApplyQuizResultPosttestPassCascades(t *testing.T) {
	db := newTestDB(t)
	notifier := &recordingNotifier{}
	gate := NewModuleGateService(db, notifier)
	user := createUser(t, db, "gate8@test.ph")
	course := createCourse(t, db, "gate-course-8")
	current := createModule(t, db, course.ID, 1, moduleFlags{postTest: true})
	next := createModule(t, db, course.ID, 2, moduleFlags{preTest: true})

	require.NoError(t, gate.ApplyQuizResult(user.ID, current.ID, model.QuizPostTest, true))

	status := lockStatusFor(t, db, user.ID, current.ID)
	assert.True(t, status.PosttestPassed)
	assert.Equal(t, model.LockUnlocked, status.LockReason)

	// The next module's own pre-test flag picks its initial state, but the
	// cascade stamps unlocked_at either way: it records when the module
	// became reachable.
	nextStatus := lockStatusFor(t, db, user.ID, next.ID)
	assert.False(t, nextStatus.IsUnlocked)
	assert.Equal(t, model.LockAwaitingPretest, nextStatus.LockReason)
	require.NotNil(t, nextStatus.UnlockedAt)

	events := notifier.Events()
	require.Len(t, events, 1)
	assert.Equal(t, user.ID, events[0].UserID)
	assert.Equal(t, model.NotifyModuleUnlocked, events[0].Input.Type)
	assert.Contains(t, events[0].Input.BodyEn, next.TitleEn)
}

func TestApplyQuizResultPosttestPassCascadeOpenNext(t *testing.T) {
	db := newTestDB(t)
	gate := NewModuleGateService(db, &recordingNotifier{})
	user := createUser(t, db, "gate9@test.ph")
	course := createCourse(t, db, "gate-course-9")
	current := createModule(t, db, course.ID, 1, moduleFlags{postTest: true})
	next := createModule(t, db, course.ID, 2, moduleFlags{allLessons: true})

	require.NoError(t, gate.ApplyQuizResult(user.ID, current.ID, model.QuizPostTest, true))

	nextStatus := lockStatusFor(t, db, user.ID, next.ID)
	assert.True(t, nextStatus.IsUnlocked)
	assert.Equal(t, model.LockUnlocked, nextStatus.LockReason)
	require.NotNil(t, nextStatus.UnlockedAt)
}

func TestApplyQuizResultPosttestPassAtCourseEnd(t *testing.T) {
	db := newTestDB(t)
	notifier := &recordingNotifier{}
	gate := NewModuleGateService(db, notifier)
	user := createUser(t, db, "gate10@test.ph")
	course := createCourse(t, db, "gate-course-10")
	last := createModule(t, db, course.ID, 3, moduleFlags{postTest: true})

	require.NoError(t, gate.ApplyQuizResult(user.ID, last.ID, model.QuizPostTest, true))

	status := lockStatusFor(t, db, user.ID, last.ID)
	assert.Equal(t, model.LockUnlocked, status.LockReason)
	assert.Empty(t, notifier.Events())
}

func TestMarkAllLessonsDoneOnlyActsWhenLessonsIncomplete(t *testing.T) {
	db := newTestDB(t)
	gate := NewModuleGateService(db, nil)
	user := createUser(t, db, "gate11@test.ph")
	course := createCourse(t, db, "gate-course-11")
	mod := createModule(t, db, course.ID, 1, moduleFlags{preTest: true, allLessons: true, postTest: true})

	// Row absent: nothing happens.
	require.NoError(t, gate.MarkAllLessonsDone(db, user.ID, mod))
	var count int64
	db.Model(&model.ModuleLockStatus{}).Where("user_id = ?", user.ID).Count(&count)
	assert.EqualValues(t, 0, count)

	// Still awaiting the pre-test: lesson completion must not bypass it.
	require.NoError(t, gate.InitializeEntry(user.ID, mod.ID))
	require.NoError(t, gate.MarkAllLessonsDone(db, user.ID, mod))
	status := lockStatusFor(t, db, user.ID, mod.ID)
	assert.Equal(t, model.LockAwaitingPretest, status.LockReason)
	assert.False(t, status.AllLessonsDone)

	require.NoError(t, gate.ApplyQuizResult(user.ID, mod.ID, model.QuizPreTest, true))
	require.NoError(t, gate.MarkAllLessonsDone(db, user.ID, mod))
	status = lockStatusFor(t, db, user.ID, mod.ID)
	assert.True(t, status.AllLessonsDone)
	assert.Equal(t, model.LockQuizFailed, status.LockReason)
}

func TestMarkAllLessonsDoneUnlocksWithoutPosttest(t *testing.T) {
	db := newTestDB(t)
	gate := NewModuleGateService(db, nil)
	user := createUser(t, db, "gate12@test.ph")
	course := createCourse(t, db, "gate-course-12")
	mod := createModule(t, db, course.ID, 1, moduleFlags{preTest: true, allLessons: true})

	require.NoError(t, gate.ApplyQuizResult(user.ID, mod.ID, model.QuizPreTest, true))
	require.NoError(t, gate.MarkAllLessonsDone(db, user.ID, mod))

	status := lockStatusFor(t, db, user.ID, mod.ID)
	assert.True(t, status.AllLessonsDone)
	assert.True(t, status.IsUnlocked)
	assert.Equal(t, model.LockUnlocked, status.LockReason)
}

// The full forward walk through every reason a fully gated module can carry.
func TestGateFullSequence(t *testing.T) {
	db := newTestDB(t)
	gate := NewModuleGateService(db, &recordingNotifier{})
	user := createUser(t, db, "gate13@test.ph")
	course := createCourse(t, db, "gate-course-13")
	mod := createModule(t, db, course.ID, 1, moduleFlags{preTest: true, allLessons: true, postTest: true})
	createModule(t, db, course.ID, 2, moduleFlags{})

	require.NoError(t, gate.InitializeEntry(user.ID, mod.ID))
	assert.Equal(t, model.LockAwaitingPretest, lockStatusFor(t, db, user.ID, mod.ID).LockReason)

	require.NoError(t, gate.ApplyQuizResult(user.ID, mod.ID, model.QuizPreTest, false))
	assert.Equal(t, model.LockAwaitingPretest, lockStatusFor(t, db, user.ID, mod.ID).LockReason)

	require.NoError(t, gate.ApplyQuizResult(user.ID, mod.ID, model.QuizPreTest, true))
	assert.Equal(t, model.LockLessonsIncomplete, lockStatusFor(t, db, user.ID, mod.ID).LockReason)

	require.NoError(t, gate.MarkAllLessonsDone(db, user.ID, mod))
	assert.Equal(t, model.LockQuizFailed, lockStatusFor(t, db, user.ID, mod.ID).LockReason)

	require.NoError(t, gate.ApplyQuizResult(user.ID, mod.ID, model.QuizPostTest, false))
	assert.Equal(t, model.LockQuizFailed, lockStatusFor(t, db, user.ID, mod.ID).LockReason)

	require.NoError(t, gate.ApplyQuizResult(user.ID, mod.ID, model.QuizPostTest, true))
	final := lockStatusFor(t, db, user.ID, mod.ID)
	assert.Equal(t, model.LockUnlocked, final.LockReason)
	assert.True(t, final.PretestPassed)
	assert.True(t, final.PosttestPassed)
	assert.True(t, final.AllLessonsDone)
	require.NotNil(t, final.UnlockedAt)
}

func TestGetModuleLockStatusAbsent(t *testing.T) {
	db := newTestDB(t)
	gate := NewModuleGateService(db, nil)

	_, err := gate.GetModuleLockStatus(1, 1)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
