package controller

import (
	"errors"

	"aral_lms_backend/internal/service"
	"aral_lms_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ProgressController struct {
	ProgressService *service.ProgressService
}

func NewProgressController(progressService *service.ProgressService) *ProgressController {
	return &ProgressController{ProgressService: progressService}
}

type LessonProgressRequest struct {
	LessonID        uint `json:"lessonId" binding:"required"`
	WatchedPercent  *int `json:"watchedPercent" binding:"required"`
	LastWatchedSecs int  `json:"lastWatchedSecs"`
}

func (c *ProgressController) RecordLessonProgress(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	var req LessonProgressRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	progress, err := c.ProgressService.RecordLessonProgress(claims.UserID, req.LessonID, *req.WatchedPercent, req.LastWatchedSecs)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrInvalidWatchedPercent):
			util.BadRequest(ctx, err.Error())
		case errors.Is(err, util.ErrLessonNotFound), errors.Is(err, util.ErrModuleNotFound):
			util.NotFound(ctx)
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, progress)
}

func (c *ProgressController) GetLessonProgress(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	progress, err := c.ProgressService.LessonProgressFor(claims.UserID, util.MustParseUint(ctx.Param("id")))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, progress)
}

func (c *ProgressController) GetModuleProgress(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	progress, lock, err := c.ProgressService.ModuleProgressFor(claims.UserID, util.MustParseUint(ctx.Param("id")))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"progress": progress, "lockStatus": lock})
}

func (c *ProgressController) GetCourseProgress(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	overview, err := c.ProgressService.CourseProgressOverview(claims.UserID, util.MustParseUint(ctx.Param("id")))
	if err != nil {
		if errors.Is(err, util.ErrNotEnrolled) {
			util.Forbidden(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, overview)
}
