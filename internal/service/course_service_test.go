package service

import (
	"strings"
	"testing"
	"time"

	"aral_lms_backend/internal/model"
	"aral_lms_backend/internal/repository"
	"aral_lms_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newCourseService(db *gorm.DB, notifier Notifier) *CourseService {
	gate := NewModuleGateService(db, notifier)
	return NewCourseService(db,
		repository.NewCourseRepository(db),
		repository.NewEnrollmentRepository(db),
		gate, notifier)
}

func createInvite(t *testing.T, db *gorm.DB, courseID uint, code string, usageLimit int, expiresAt *time.Time) *model.InviteCode {
	t.Helper()
	invite := &model.InviteCode{
		CourseID:   courseID,
		Code:       code,
		UsageLimit: usageLimit,
		ExpiresAt:  expiresAt,
		IsActive:   true,
	}
	if err := db.Create(invite).Error; err != nil {
		t.Fatalf("creating invite code: %v", err)
	}
	return invite
}

func TestEnrollWithCode(t *testing.T) {
	db := newTestDB(t)
	notifier := &recordingNotifier{}
	svc := newCourseService(db, notifier)
	user := createUser(t, db, "enroll1@test.ph")
	course := createCourse(t, db, "enroll-course-1")
	first := createModule(t, db, course.ID, 1, moduleFlags{preTest: true})
	createModule(t, db, course.ID, 2, moduleFlags{})
	invite := createInvite(t, db, course.ID, "ARAL-TEST01", 5, nil)

	enrollment, err := svc.EnrollWithCode(user.ID, invite.Code)
	require.NoError(t, err)
	assert.Equal(t, course.ID, enrollment.CourseID)
	assert.Equal(t, model.EnrollmentActive, enrollment.Status)
	assert.Equal(t, "invite_code", enrollment.EnrolledVia)
	require.NotNil(t, enrollment.InviteCodeID)
	assert.Equal(t, invite.ID, *enrollment.InviteCodeID)

	var reloaded model.InviteCode
	require.NoError(t, db.First(&reloaded, invite.ID).Error)
	assert.Equal(t, 1, reloaded.UsageCount)

	var uses int64
	db.Model(&model.InviteCodeUse{}).Where("invite_code_id = ?", invite.ID).Count(&uses)
	assert.EqualValues(t, 1, uses)

	// Only the first module gets a lock entry, per its own pre-test flag.
	status := lockStatusFor(t, db, user.ID, first.ID)
	assert.Equal(t, model.LockAwaitingPretest, status.LockReason)
	var lockCount int64
	db.Model(&model.ModuleLockStatus{}).Where("user_id = ?", user.ID).Count(&lockCount)
	assert.EqualValues(t, 1, lockCount)

	events := notifier.Events()
	require.Len(t, events, 1)
	assert.Equal(t, model.NotifyEnrollmentConfirmed, events[0].Input.Type)
	assert.Contains(t, events[0].Input.Link, course.Slug)
}

func TestEnrollWithCodeDuplicate(t *testing.T) {
	db := newTestDB(t)
	svc := newCourseService(db, nil)
	user := createUser(t, db, "enroll2@test.ph")
	course := createCourse(t, db, "enroll-course-2")
	invite := createInvite(t, db, course.ID, "ARAL-TEST02", 0, nil)

	_, err := svc.EnrollWithCode(user.ID, invite.Code)
	require.NoError(t, err)

	_, err = svc.EnrollWithCode(user.ID, invite.Code)
	assert.ErrorIs(t, err, util.ErrAlreadyEnrolled)

	// The failed redemption must not count against the code.
	var reloaded model.InviteCode
	require.NoError(t, db.First(&reloaded, invite.ID).Error)
	assert.Equal(t, 1, reloaded.UsageCount)
}

func TestEnrollWithCodeUnknown(t *testing.T) {
	db := newTestDB(t)
	svc := newCourseService(db, nil)
	user := createUser(t, db, "enroll3@test.ph")

	_, err := svc.EnrollWithCode(user.ID, "ARAL-NOPE")
	assert.ErrorIs(t, err, util.ErrInviteInvalid)
}

func TestEnrollWithCodeInactive(t *testing.T) {
	db := newTestDB(t)
	svc := newCourseService(db, nil)
	user := createUser(t, db, "enroll4@test.ph")
	course := createCourse(t, db, "enroll-course-4")
	invite := createInvite(t, db, course.ID, "ARAL-TEST04", 0, nil)
	require.NoError(t, db.Model(invite).Update("is_active", false).Error)

	_, err := svc.EnrollWithCode(user.ID, invite.Code)
	assert.ErrorIs(t, err, util.ErrInviteInvalid)
}

func TestEnrollWithCodeExpired(t *testing.T) {
	db := newTestDB(t)
	svc := newCourseService(db, nil)
	user := createUser(t, db, "enroll5@test.ph")
	course := createCourse(t, db, "enroll-course-5")
	past := time.Now().Add(-time.Hour)
	invite := createInvite(t, db, course.ID, "ARAL-TEST05", 0, &past)

	_, err := svc.EnrollWithCode(user.ID, invite.Code)
	assert.ErrorIs(t, err, util.ErrInviteExpired)
}

func TestEnrollWithCodeLimitReached(t *testing.T) {
	db := newTestDB(t)
	svc := newCourseService(db, nil)
	course := createCourse(t, db, "enroll-course-6")
	invite := createInvite(t, db, course.ID, "ARAL-TEST06", 1, nil)

	first := createUser(t, db, "enroll6a@test.ph")
	second := createUser(t, db, "enroll6b@test.ph")

	_, err := svc.EnrollWithCode(first.ID, invite.Code)
	require.NoError(t, err)

	_, err = svc.EnrollWithCode(second.ID, invite.Code)
	assert.ErrorIs(t, err, util.ErrInviteLimitReached)

	var enrollments int64
	db.Model(&model.Enrollment{}).Where("course_id = ?", course.ID).Count(&enrollments)
	assert.EqualValues(t, 1, enrollments)
}

func TestEnrollWithCodeCourseWithoutModules(t *testing.T) {
	db := newTestDB(t)
	svc := newCourseService(db, nil)
	user := createUser(t, db, "enroll7@test.ph")
	course := createCourse(t, db, "enroll-course-7")
	invite := createInvite(t, db, course.ID, "ARAL-TEST07", 0, nil)

	enrollment, err := svc.EnrollWithCode(user.ID, invite.Code)
	require.NoError(t, err)
	assert.Equal(t, course.ID, enrollment.CourseID)
}

func TestCreateCourseSlug(t *testing.T) {
	db := newTestDB(t)
	svc := newCourseService(db, nil)

	course := &model.Course{TitleEn: "Basic Filipino Grammar"}
	require.NoError(t, svc.CreateCourse(course))
	assert.Equal(t, "basic-filipino-grammar", course.Slug)

	// A second course with the same title gets a suffixed slug.
	dup := &model.Course{TitleEn: "Basic Filipino Grammar"}
	require.NoError(t, svc.CreateCourse(dup))
	assert.NotEqual(t, course.Slug, dup.Slug)
	assert.True(t, strings.HasPrefix(dup.Slug, "basic-filipino-grammar-"))
}

func TestCreateInviteCode(t *testing.T) {
	db := newTestDB(t)
	svc := newCourseService(db, nil)
	admin := createUser(t, db, "enroll8@test.ph")
	course := createCourse(t, db, "enroll-course-8")

	invite, err := svc.CreateInviteCode(course.ID, admin.ID, 10, nil, "pilot batch")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(invite.Code, "ARAL-"))
	assert.Equal(t, 10, invite.UsageLimit)
	assert.True(t, invite.IsActive)

	_, err = svc.CreateInviteCode(999, admin.ID, 0, nil, "")
	assert.ErrorIs(t, err, util.ErrCourseNotFound)
}

func TestListCoursesVisibility(t *testing.T) {
	db := newTestDB(t)
	svc := newCourseService(db, nil)
	published := createCourse(t, db, "list-published")
	draft := &model.Course{Slug: "list-draft", TitleEn: "Draft", Status: model.CourseDraft}
	require.NoError(t, db.Create(draft).Error)

	visible, err := svc.ListCourses(0, false)
	require.NoError(t, err)
	require.Len(t, visible, 1)
	assert.Equal(t, published.ID, visible[0].ID)

	all, err := svc.ListCourses(0, true)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
