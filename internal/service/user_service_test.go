package service

import (
	"testing"

	"aral_lms_backend/internal/model"
	"aral_lms_backend/internal/repository"
	"aral_lms_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetProfile(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db, repository.NewUserRepository(db))
	user := createUser(t, db, "user1@test.ph")

	profile, err := svc.GetProfile(user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.Email, profile.Email)

	_, err = svc.GetProfile(999)
	assert.ErrorIs(t, err, util.ErrUserNotFound)
}

func TestUpdateProfileTouchesOnlyProfileFields(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db, repository.NewUserRepository(db))
	user := createUser(t, db, "user2@test.ph")

	updated, err := svc.UpdateProfile(user.ID, "Bagong Pangalan", model.Filipino, "NCR", "+639171234567")
	require.NoError(t, err)
	assert.Equal(t, "Bagong Pangalan", updated.Name)
	assert.Equal(t, model.Filipino, updated.Language)
	assert.Equal(t, "NCR", updated.Region)

	// Email, role and password are untouched.
	var reloaded model.User
	require.NoError(t, db.First(&reloaded, user.ID).Error)
	assert.Equal(t, user.Email, reloaded.Email)
	assert.Equal(t, user.Role, reloaded.Role)
	assert.Equal(t, user.Password, reloaded.Password)
}

func TestSetUserRoleAndActive(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db, repository.NewUserRepository(db))
	user := createUser(t, db, "user3@test.ph")

	require.NoError(t, svc.SetUserRole(user.ID, model.Instructor))
	require.NoError(t, svc.SetUserActive(user.ID, false))

	var reloaded model.User
	require.NoError(t, db.First(&reloaded, user.ID).Error)
	assert.Equal(t, model.Instructor, reloaded.Role)
	assert.False(t, reloaded.IsActive)
}

func TestGetPlatformStats(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db, repository.NewUserRepository(db))
	gate := NewModuleGateService(db, nil)

	active := createUser(t, db, "user4a@test.ph")
	inactive := createUser(t, db, "user4b@test.ph")
	require.NoError(t, db.Model(inactive).Update("is_active", false).Error)

	course := createCourse(t, db, "stats-course")
	mod := createModule(t, db, course.ID, 1, moduleFlags{})
	require.NoError(t, gate.InitializeEntry(active.ID, mod.ID))

	stats, err := svc.GetPlatformStats()
	require.NoError(t, err)
	assert.EqualValues(t, 2, stats.TotalUsers)
	assert.EqualValues(t, 1, stats.ActiveUsers)
	assert.EqualValues(t, 1, stats.TotalCourses)
	assert.EqualValues(t, 1, stats.ModulesUnlocked)
	assert.EqualValues(t, 0, stats.PendingOutputs)
}
