package service

import (
	"testing"

	"aral_lms_backend/internal/model"
	"aral_lms_backend/internal/repository"
	"aral_lms_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newDiscussionService(db *gorm.DB, notifier Notifier) *DiscussionService {
	return NewDiscussionService(repository.NewDiscussionRepository(db), notifier)
}

func createThread(t *testing.T, svc *DiscussionService, moduleID, userID uint, title string) *model.DiscussionThread {
	t.Helper()
	thread := &model.DiscussionThread{
		ModuleID: moduleID,
		UserID:   userID,
		TitleEn:  title,
		BodyEn:   "opening post",
	}
	require.NoError(t, svc.CreateThread(thread))
	return thread
}

func TestReplyNotifiesThreadAuthor(t *testing.T) {
	db := newTestDB(t)
	notifier := &recordingNotifier{}
	svc := newDiscussionService(db, notifier)
	author := createUser(t, db, "disc1a@test.ph")
	replier := createUser(t, db, "disc1b@test.ph")
	course := createCourse(t, db, "disc-course-1")
	mod := createModule(t, db, course.ID, 1, moduleFlags{})

	thread := createThread(t, svc, mod.ID, author.ID, "Kumusta everyone")

	reply, err := svc.Reply(replier.ID, thread.ID, "Kumusta rin!")
	require.NoError(t, err)
	assert.Equal(t, thread.ID, reply.ThreadID)

	events := notifier.Events()
	require.Len(t, events, 1)
	assert.Equal(t, author.ID, events[0].UserID)
	assert.Equal(t, model.NotifyReplyInThread, events[0].Input.Type)

	// Replying to your own thread stays quiet.
	_, err = svc.Reply(author.ID, thread.ID, "bumping this")
	require.NoError(t, err)
	assert.Len(t, notifier.Events(), 1)
}

func TestReplyToLockedThread(t *testing.T) {
	db := newTestDB(t)
	svc := newDiscussionService(db, nil)
	author := createUser(t, db, "disc2@test.ph")
	course := createCourse(t, db, "disc-course-2")
	mod := createModule(t, db, course.ID, 1, moduleFlags{})

	thread := createThread(t, svc, mod.ID, author.ID, "Locked topic")
	require.NoError(t, svc.SetLocked(thread.ID, true))

	_, err := svc.Reply(author.ID, thread.ID, "too late")
	assert.ErrorIs(t, err, util.ErrThreadLocked)
}

func TestDeleteThreadPermissions(t *testing.T) {
	db := newTestDB(t)
	svc := newDiscussionService(db, nil)
	author := createUser(t, db, "disc3a@test.ph")
	other := createUser(t, db, "disc3b@test.ph")
	course := createCourse(t, db, "disc-course-3")
	mod := createModule(t, db, course.ID, 1, moduleFlags{})

	thread := createThread(t, svc, mod.ID, author.ID, "Mine to delete")

	err := svc.DeleteThread(thread.ID, other.ID, model.Student)
	assert.ErrorIs(t, err, util.ErrPermissionDenied)

	// An admin may remove any thread.
	require.NoError(t, svc.DeleteThread(thread.ID, other.ID, model.Admin))
	_, err = svc.GetThread(thread.ID)
	assert.ErrorIs(t, err, util.ErrThreadNotFound)
}

func TestListThreadsPagination(t *testing.T) {
	db := newTestDB(t)
	svc := newDiscussionService(db, nil)
	author := createUser(t, db, "disc4@test.ph")
	course := createCourse(t, db, "disc-course-4")
	mod := createModule(t, db, course.ID, 1, moduleFlags{})

	for i := 0; i < 25; i++ {
		createThread(t, svc, mod.ID, author.ID, "Thread")
	}

	first, total, err := svc.ListThreads(mod.ID, 1, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 25, total)
	assert.Len(t, first, 20)

	second, _, err := svc.ListThreads(mod.ID, 2, 20)
	require.NoError(t, err)
	assert.Len(t, second, 5)

	// Out-of-range values fall back to defaults.
	clamped, _, err := svc.ListThreads(mod.ID, 0, 1000)
	require.NoError(t, err)
	assert.Len(t, clamped, 20)
}
