package util

import "errors"

var (
	ErrUserNotFound          = errors.New("user not found")
	ErrEmailRegistered       = errors.New("email already registered")
	ErrInvalidCredentials    = errors.New("invalid credentials")
	ErrEmailNotVerified      = errors.New("please verify your email first")
	ErrAccountDisabled       = errors.New("account is deactivated")
	ErrOtpNotFound           = errors.New("OTP not found or expired")
	ErrOtpInvalid            = errors.New("invalid OTP code")
	ErrOtpTooManyAttempts    = errors.New("too many attempts, request a new OTP")
	ErrPermissionDenied      = errors.New("permission denied")
	ErrCourseNotFound        = errors.New("course not found")
	ErrModuleNotFound        = errors.New("module not found")
	ErrLessonNotFound        = errors.New("lesson not found")
	ErrQuizNotFound          = errors.New("quiz not found")
	ErrThreadNotFound        = errors.New("thread not found")
	ErrThreadLocked          = errors.New("thread is locked")
	ErrInvalidWatchedPercent = errors.New("watched percent must be between 0 and 100")
	ErrInvalidQuizType       = errors.New("quiz type does not gate module access")
	ErrMaxAttemptsReached    = errors.New("maximum attempts reached")
	ErrInviteInvalid         = errors.New("invalid or inactive invite code")
	ErrInviteExpired         = errors.New("invite code expired")
	ErrInviteLimitReached    = errors.New("invite code limit reached")
	ErrAlreadyEnrolled       = errors.New("already enrolled")
	ErrNotEnrolled           = errors.New("not enrolled")
)
