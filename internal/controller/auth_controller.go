package controller

import (
	"errors"

	"aral_lms_backend/internal/model"
	"aral_lms_backend/internal/service"
	"aral_lms_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AuthController struct {
	AuthService *service.AuthService
}

func NewAuthController(authService *service.AuthService) *AuthController {
	return &AuthController{AuthService: authService}
}

type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Language string `json:"language" binding:"omitempty,oneof=en fil"`
}

func (c *AuthController) Register(ctx *gin.Context) {
	var req RegisterRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	user, err := c.AuthService.Register(req.Name, req.Email, req.Password, model.Language(req.Language))
	if err != nil {
		if errors.Is(err, util.ErrEmailRegistered) {
			util.Conflict(ctx, err.Error())
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Created(ctx, gin.H{"id": user.ID})
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (c *AuthController) Login(ctx *gin.Context) {
	var req LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	token, user, err := c.AuthService.Login(req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrInvalidCredentials):
			util.Unauthorized(ctx)
		case errors.Is(err, util.ErrEmailNotVerified), errors.Is(err, util.ErrAccountDisabled):
			util.Error(ctx, 403, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, gin.H{"token": token, "user": user})
}

type VerifyEmailRequest struct {
	Email string `json:"email" binding:"required,email"`
	Code  string `json:"code" binding:"required,len=6"`
}

func (c *AuthController) VerifyEmail(ctx *gin.Context) {
	var req VerifyEmailRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.AuthService.VerifyEmail(req.Email, req.Code); err != nil {
		handleOtpError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"verified": true})
}

type EmailRequest struct {
	Email string `json:"email" binding:"required,email"`
}

func (c *AuthController) ResendVerification(ctx *gin.Context) {
	var req EmailRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	if err := c.AuthService.ResendVerification(req.Email); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"sent": true})
}

func (c *AuthController) RequestPasswordReset(ctx *gin.Context) {
	var req EmailRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	if err := c.AuthService.RequestPasswordReset(req.Email); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	// Always succeeds so the endpoint cannot probe registered emails.
	util.Success(ctx, gin.H{"sent": true})
}

type ResetPasswordRequest struct {
	Email       string `json:"email" binding:"required,email"`
	Code        string `json:"code" binding:"required,len=6"`
	NewPassword string `json:"newPassword" binding:"required,min=8"`
}

func (c *AuthController) ResetPassword(ctx *gin.Context) {
	var req ResetPasswordRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	if err := c.AuthService.ResetPassword(req.Email, req.Code, req.NewPassword); err != nil {
		handleOtpError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"reset": true})
}

func handleOtpError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, util.ErrOtpNotFound), errors.Is(err, util.ErrOtpInvalid):
		util.BadRequest(ctx, err.Error())
	case errors.Is(err, util.ErrOtpTooManyAttempts):
		util.Error(ctx, 429, err.Error())
	default:
		util.LogInternalError(ctx, err)
	}
}
