package service

import (
	"testing"

	"aral_lms_backend/internal/model"
	"aral_lms_backend/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// A module without a pre-test starts fully UNLOCKED at enrollment. From
// there the lessons-done transition has no LESSONS_INCOMPLETE state to act
// on, so completing every lesson updates the aggregate but never cascades:
// the next module's row stays absent until a real gate sequence reaches it.
func TestOpenFirstModuleNeverCascades(t *testing.T) {
	db := newTestDB(t)
	notifier := &recordingNotifier{}
	gate := NewModuleGateService(db, notifier)
	courses := NewCourseService(db,
		repository.NewCourseRepository(db),
		repository.NewEnrollmentRepository(db),
		gate, notifier)
	progress := newProgressSvc(db, gate)

	student := createUser(t, db, "open-module@test.ph")
	course := createCourse(t, db, "open-module-course")
	first := createModule(t, db, course.ID, 1, moduleFlags{allLessons: true})
	second := createModule(t, db, course.ID, 2, moduleFlags{preTest: true})
	lesson := createLesson(t, db, first.ID, 1, model.LessonPublished)
	invite := createInvite(t, db, course.ID, "ARAL-OPEN1", 0, nil)

	_, err := courses.EnrollWithCode(student.ID, invite.Code)
	require.NoError(t, err)

	firstStatus := lockStatusFor(t, db, student.ID, first.ID)
	assert.True(t, firstStatus.IsUnlocked)
	assert.Equal(t, model.LockUnlocked, firstStatus.LockReason)
	require.NotNil(t, firstStatus.UnlockedAt)

	_, err = progress.RecordLessonProgress(student.ID, lesson.ID, 100, 240)
	require.NoError(t, err)

	var aggregate model.ModuleProgress
	require.NoError(t, db.Where("user_id = ? AND module_id = ?", student.ID, first.ID).First(&aggregate).Error)
	assert.True(t, aggregate.IsCompleted)

	// The lock row was already past LESSONS_INCOMPLETE, so nothing moved.
	firstStatus = lockStatusFor(t, db, student.ID, first.ID)
	assert.Equal(t, model.LockUnlocked, firstStatus.LockReason)
	assert.False(t, firstStatus.AllLessonsDone)

	var secondCount int64
	db.Model(&model.ModuleLockStatus{}).
		Where("user_id = ? AND module_id = ?", student.ID, second.ID).
		Count(&secondCount)
	assert.EqualValues(t, 0, secondCount)
}

// Full student path through a two-module course: enroll by invite, pass the
// pre-test, watch every lesson, pass the post-test, and land in the next
// module with its own gate applied.
func TestStudentJourneyThroughCourse(t *testing.T) {
	db := newTestDB(t)
	notifier := &recordingNotifier{}
	gate := NewModuleGateService(db, notifier)
	courses := NewCourseService(db,
		repository.NewCourseRepository(db),
		repository.NewEnrollmentRepository(db),
		gate, notifier)
	progress := newProgressSvc(db, gate)
	quizzes := NewQuizService(db, repository.NewQuizRepository(db), gate)

	student := createUser(t, db, "journey@test.ph")
	course := createCourse(t, db, "journey-course")
	first := createModule(t, db, course.ID, 1, moduleFlags{preTest: true, allLessons: true, postTest: true})
	second := createModule(t, db, course.ID, 2, moduleFlags{allLessons: true})
	lessons := []*model.Lesson{
		createLesson(t, db, first.ID, 1, model.LessonPublished),
		createLesson(t, db, first.ID, 2, model.LessonPublished),
	}
	pretest := createQuizFixture(t, db, first.ID, model.QuizPreTest, 70, 3)
	posttest := createQuizFixture(t, db, first.ID, model.QuizPostTest, 70, 3)
	invite := createInvite(t, db, course.ID, "ARAL-JRNY1", 0, nil)

	// Enrollment seeds the first module's lock row, locked behind its pre-test.
	_, err := courses.EnrollWithCode(student.ID, invite.Code)
	require.NoError(t, err)
	assert.Equal(t, model.LockAwaitingPretest, lockStatusFor(t, db, student.ID, first.ID).LockReason)

	// Failing the pre-test keeps the module locked.
	result, err := quizzes.SubmitQuiz(student.ID, pretest.ID, answersFor(pretest, false, false))
	require.NoError(t, err)
	assert.False(t, result.Passed)
	assert.False(t, lockStatusFor(t, db, student.ID, first.ID).IsUnlocked)

	result, err = quizzes.SubmitQuiz(student.ID, pretest.ID, answersFor(pretest, true, true))
	require.NoError(t, err)
	assert.True(t, result.Passed)
	assert.Equal(t, model.LockLessonsIncomplete, lockStatusFor(t, db, student.ID, first.ID).LockReason)

	// Watching one of two lessons is not enough.
	_, err = progress.RecordLessonProgress(student.ID, lessons[0].ID, 100, 300)
	require.NoError(t, err)
	assert.Equal(t, model.LockLessonsIncomplete, lockStatusFor(t, db, student.ID, first.ID).LockReason)

	_, err = progress.RecordLessonProgress(student.ID, lessons[1].ID, 95, 280)
	require.NoError(t, err)
	assert.Equal(t, model.LockQuizFailed, lockStatusFor(t, db, student.ID, first.ID).LockReason)

	// Passing the post-test finishes the module and opens the next one.
	result, err = quizzes.SubmitQuiz(student.ID, posttest.ID, answersFor(posttest, true, true))
	require.NoError(t, err)
	assert.True(t, result.Passed)

	firstStatus := lockStatusFor(t, db, student.ID, first.ID)
	assert.Equal(t, model.LockUnlocked, firstStatus.LockReason)
	assert.True(t, firstStatus.PretestPassed)
	assert.True(t, firstStatus.AllLessonsDone)
	assert.True(t, firstStatus.PosttestPassed)

	secondStatus := lockStatusFor(t, db, student.ID, second.ID)
	assert.True(t, secondStatus.IsUnlocked)
	assert.Equal(t, model.LockUnlocked, secondStatus.LockReason)

	// Enrollment confirmation plus the unlock of the second module.
	events := notifier.Events()
	require.Len(t, events, 2)
	assert.Equal(t, model.NotifyEnrollmentConfirmed, events[0].Input.Type)
	assert.Equal(t, model.NotifyModuleUnlocked, events[1].Input.Type)

	// The overview reflects the whole journey.
	overview, err := progress.CourseProgressOverview(student.ID, course.ID)
	require.NoError(t, err)
	require.Len(t, overview, 2)
	require.NotNil(t, overview[0].Progress)
	assert.Equal(t, 100, overview[0].Progress.PercentComplete)
	require.NotNil(t, overview[1].LockStatus)
	assert.True(t, overview[1].LockStatus.IsUnlocked)
}
