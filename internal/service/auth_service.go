package service

import (
	"errors"
	"fmt"
	"time"

	"aral_lms_backend/internal/config"
	"aral_lms_backend/internal/model"
	"aral_lms_backend/internal/repository"
	"aral_lms_backend/internal/util"
	"aral_lms_backend/pkg/logger"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	otpTTL         = 15 * time.Minute
	otpMaxAttempts = 5
)

type AuthService struct {
	Config   *config.Config
	UserRepo *repository.UserRepository
	OtpRepo  *repository.OtpRepository
	Mailer   Mailer
}

func NewAuthService(cfg *config.Config, userRepo *repository.UserRepository, otpRepo *repository.OtpRepository, mailer Mailer) *AuthService {
	return &AuthService{Config: cfg, UserRepo: userRepo, OtpRepo: otpRepo, Mailer: mailer}
}

// Register creates the account and mails a verification code. The user
// cannot log in until the code is confirmed.
func (s *AuthService) Register(name, email, password string, language model.Language) (*model.User, error) {
	if _, err := s.UserRepo.FindByEmail(email); err == nil {
		return nil, util.ErrEmailRegistered
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	if language == "" {
		language = model.English
	}

	user := &model.User{
		Name:     name,
		Email:    email,
		Password: string(hashed),
		Role:     model.Student,
		Language: language,
		IsActive: true,
	}
	if err := s.UserRepo.Create(user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, util.ErrEmailRegistered
		}
		return nil, err
	}

	if err := s.sendOtp(user, model.OtpEmailVerification); err != nil {
		logger.Log.Error("failed to send verification OTP",
			zap.String("email", email), zap.Error(err))
	}
	return user, nil
}

// Login returns a signed JWT. The same credential error is returned for a
// wrong password and an unknown email.
func (s *AuthService) Login(email, password string) (string, *model.User, error) {
	user, err := s.UserRepo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, util.ErrInvalidCredentials
		}
		return "", nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", nil, util.ErrInvalidCredentials
	}
	if !user.IsActive {
		return "", nil, util.ErrAccountDisabled
	}
	if !user.EmailVerified {
		return "", nil, util.ErrEmailNotVerified
	}

	token, err := util.GenerateJWT(user, s.Config.JWT.Secret, s.Config.JWT.ExpireTime)
	if err != nil {
		return "", nil, err
	}

	if err := s.UserRepo.UpdateLastLogin(user.ID); err != nil {
		logger.Log.Warn("failed to update last login", zap.Uint("userId", user.ID), zap.Error(err))
	}
	return token, user, nil
}

// VerifyEmail confirms the emailed code. The stored code is a bcrypt hash;
// each failed comparison burns one attempt.
func (s *AuthService) VerifyEmail(email, code string) error {
	challenge, err := s.OtpRepo.FindLatestActive(email, model.OtpEmailVerification)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrOtpNotFound
		}
		return err
	}
	if err := s.consumeOtp(challenge, code); err != nil {
		return err
	}
	return s.UserRepo.MarkEmailVerified(challenge.UserID)
}

// RequestPasswordReset always reports success to the caller so the endpoint
// cannot be used to probe which emails are registered.
func (s *AuthService) RequestPasswordReset(email string) error {
	user, err := s.UserRepo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}
	if err := s.sendOtp(user, model.OtpPasswordReset); err != nil {
		logger.Log.Error("failed to send password reset OTP",
			zap.String("email", email), zap.Error(err))
	}
	return nil
}

func (s *AuthService) ResetPassword(email, code, newPassword string) error {
	challenge, err := s.OtpRepo.FindLatestActive(email, model.OtpPasswordReset)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrOtpNotFound
		}
		return err
	}
	if err := s.consumeOtp(challenge, code); err != nil {
		return err
	}

	user, err := s.UserRepo.FindByID(challenge.UserID)
	if err != nil {
		return err
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.Password = string(hashed)
	return s.UserRepo.Update(user)
}

func (s *AuthService) ResendVerification(email string) error {
	user, err := s.UserRepo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}
	if user.EmailVerified {
		return nil
	}
	return s.sendOtp(user, model.OtpEmailVerification)
}

func (s *AuthService) sendOtp(user *model.User, purpose model.OtpPurpose) error {
	code := util.GenerateOtp()
	hashed, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	challenge := &model.OtpChallenge{
		UserID:    user.ID,
		Email:     user.Email,
		Code:      string(hashed),
		Purpose:   purpose,
		ExpiresAt: time.Now().Add(otpTTL),
	}
	if err := s.OtpRepo.Create(challenge); err != nil {
		return err
	}

	subject := "Your verification code"
	if purpose == model.OtpPasswordReset {
		subject = "Your password reset code"
	}
	body := fmt.Sprintf("Hi %s,\n\nYour code is %s. It expires in 15 minutes.", user.Name, code)
	html := fmt.Sprintf("<p>Hi %s,</p><p>Your code is <strong>%s</strong>. It expires in 15 minutes.</p>", user.Name, code)
	return s.Mailer.Send(user.Name, user.Email, subject, body, html)
}

func (s *AuthService) consumeOtp(challenge *model.OtpChallenge, code string) error {
	if challenge.IsUsed || time.Now().After(challenge.ExpiresAt) {
		return util.ErrOtpNotFound
	}
	if challenge.Attempts >= otpMaxAttempts {
		return util.ErrOtpTooManyAttempts
	}

	if err := bcrypt.CompareHashAndPassword([]byte(challenge.Code), []byte(code)); err != nil {
		challenge.Attempts++
		if updErr := s.OtpRepo.Update(challenge); updErr != nil {
			logger.Log.Warn("failed to record OTP attempt", zap.Error(updErr))
		}
		return util.ErrOtpInvalid
	}

	challenge.IsUsed = true
	return s.OtpRepo.Update(challenge)
}
