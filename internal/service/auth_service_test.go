package service

import (
	"regexp"
	"testing"
	"time"

	"aral_lms_backend/internal/config"
	"aral_lms_backend/internal/model"
	"aral_lms_backend/internal/repository"
	"aral_lms_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// capturingMailer records outgoing mail so tests can read the OTP code
// straight out of the body.
type capturingMailer struct {
	sent []capturedMail
}

type capturedMail struct {
	ToEmail   string
	Subject   string
	PlainText string
}

func (m *capturingMailer) Send(toName, toEmail, subject, plainText, htmlBody string) error {
	m.sent = append(m.sent, capturedMail{ToEmail: toEmail, Subject: subject, PlainText: plainText})
	return nil
}

var otpPattern = regexp.MustCompile(`\d{6}`)

func (m *capturingMailer) lastCode(t *testing.T) string {
	t.Helper()
	require.NotEmpty(t, m.sent)
	code := otpPattern.FindString(m.sent[len(m.sent)-1].PlainText)
	require.NotEmpty(t, code, "no OTP code in mail body")
	return code
}

func newAuthService(db *gorm.DB, mailer Mailer) *AuthService {
	cfg := &config.Config{}
	cfg.JWT.Secret = "test-secret-test-secret-test-secret"
	cfg.JWT.ExpireTime = time.Hour
	return NewAuthService(cfg, repository.NewUserRepository(db), repository.NewOtpRepository(db), mailer)
}

func TestRegisterAndVerifyEmail(t *testing.T) {
	db := newTestDB(t)
	mailer := &capturingMailer{}
	svc := newAuthService(db, mailer)

	user, err := svc.Register("Juan Dela Cruz", "juan@test.ph", "password123", model.Filipino)
	require.NoError(t, err)
	assert.Equal(t, model.Student, user.Role)
	assert.Equal(t, model.Filipino, user.Language)
	assert.False(t, user.EmailVerified)
	assert.NotEqual(t, "password123", user.Password)

	// Unverified accounts cannot log in yet.
	_, _, err = svc.Login("juan@test.ph", "password123")
	assert.ErrorIs(t, err, util.ErrEmailNotVerified)

	require.NoError(t, svc.VerifyEmail("juan@test.ph", mailer.lastCode(t)))

	token, logged, err := svc.Login("juan@test.ph", "password123")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, user.ID, logged.ID)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	db := newTestDB(t)
	svc := newAuthService(db, &capturingMailer{})

	_, err := svc.Register("First", "dup@test.ph", "password123", model.English)
	require.NoError(t, err)

	_, err = svc.Register("Second", "dup@test.ph", "password456", model.English)
	assert.ErrorIs(t, err, util.ErrEmailRegistered)
}

func TestLoginRejections(t *testing.T) {
	db := newTestDB(t)
	mailer := &capturingMailer{}
	svc := newAuthService(db, mailer)

	_, err := svc.Register("Maria", "maria@test.ph", "password123", model.English)
	require.NoError(t, err)
	require.NoError(t, svc.VerifyEmail("maria@test.ph", mailer.lastCode(t)))

	// Unknown email and wrong password yield the same error.
	_, _, err = svc.Login("nobody@test.ph", "password123")
	assert.ErrorIs(t, err, util.ErrInvalidCredentials)
	_, _, err = svc.Login("maria@test.ph", "wrong-password")
	assert.ErrorIs(t, err, util.ErrInvalidCredentials)

	require.NoError(t, db.Model(&model.User{}).Where("email = ?", "maria@test.ph").Update("is_active", false).Error)
	_, _, err = svc.Login("maria@test.ph", "password123")
	assert.ErrorIs(t, err, util.ErrAccountDisabled)
}

func TestVerifyEmailWrongCodeBurnsAttempts(t *testing.T) {
	db := newTestDB(t)
	mailer := &capturingMailer{}
	svc := newAuthService(db, mailer)

	_, err := svc.Register("Pedro", "pedro@test.ph", "password123", model.English)
	require.NoError(t, err)

	for i := 0; i < otpMaxAttempts; i++ {
		err = svc.VerifyEmail("pedro@test.ph", "000000")
		assert.ErrorIs(t, err, util.ErrOtpInvalid)
	}

	// Attempts exhausted: even the right code is refused now.
	err = svc.VerifyEmail("pedro@test.ph", mailer.lastCode(t))
	assert.ErrorIs(t, err, util.ErrOtpTooManyAttempts)
}

func TestVerifyEmailCodeIsSingleUse(t *testing.T) {
	db := newTestDB(t)
	mailer := &capturingMailer{}
	svc := newAuthService(db, mailer)

	_, err := svc.Register("Ana", "ana@test.ph", "password123", model.English)
	require.NoError(t, err)

	code := mailer.lastCode(t)
	require.NoError(t, svc.VerifyEmail("ana@test.ph", code))
	err = svc.VerifyEmail("ana@test.ph", code)
	assert.ErrorIs(t, err, util.ErrOtpNotFound)
}

func TestPasswordResetFlow(t *testing.T) {
	db := newTestDB(t)
	mailer := &capturingMailer{}
	svc := newAuthService(db, mailer)

	_, err := svc.Register("Liza", "liza@test.ph", "oldpassword1", model.English)
	require.NoError(t, err)
	require.NoError(t, svc.VerifyEmail("liza@test.ph", mailer.lastCode(t)))

	require.NoError(t, svc.RequestPasswordReset("liza@test.ph"))
	require.NoError(t, svc.ResetPassword("liza@test.ph", mailer.lastCode(t), "newpassword1"))

	_, _, err = svc.Login("liza@test.ph", "oldpassword1")
	assert.ErrorIs(t, err, util.ErrInvalidCredentials)
	_, logged, err := svc.Login("liza@test.ph", "newpassword1")
	require.NoError(t, err)
	assert.Equal(t, "liza@test.ph", logged.Email)
}

func TestPasswordResetUnknownEmailIsSilent(t *testing.T) {
	db := newTestDB(t)
	mailer := &capturingMailer{}
	svc := newAuthService(db, mailer)

	require.NoError(t, svc.RequestPasswordReset("ghost@test.ph"))
	assert.Empty(t, mailer.sent)
}
