package controller

import (
	"errors"

	"aral_lms_backend/internal/model"
	"aral_lms_backend/internal/service"
	"aral_lms_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// ContentController covers instructor-side module and lesson management,
// including uploads.
type ContentController struct {
	LessonService *service.LessonService
	Gate          *service.ModuleGateService
}

func NewContentController(lessonService *service.LessonService, gate *service.ModuleGateService) *ContentController {
	return &ContentController{LessonService: lessonService, Gate: gate}
}

type ModuleRequest struct {
	CourseID             uint   `json:"courseId" binding:"required"`
	TitleEn              string `json:"titleEn" binding:"required"`
	TitleFil             string `json:"titleFil"`
	DescriptionEn        string `json:"descriptionEn"`
	DescriptionFil       string `json:"descriptionFil"`
	Order                int    `json:"order"`
	RequiresPreTest      bool   `json:"requiresPreTest"`
	RequiresAllLessons   *bool  `json:"requiresAllLessons"`
	RequiresPostTest     bool   `json:"requiresPostTest"`
	PassingScoreToUnlock int    `json:"passingScoreToUnlock"`
}

func (c *ContentController) CreateModule(ctx *gin.Context) {
	var req ModuleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	mod := &model.Module{
		CourseID:         req.CourseID,
		TitleEn:          req.TitleEn,
		TitleFil:         req.TitleFil,
		DescriptionEn:    req.DescriptionEn,
		DescriptionFil:   req.DescriptionFil,
		Order:            req.Order,
		RequiresPreTest:  req.RequiresPreTest,
		RequiresPostTest: req.RequiresPostTest,
	}
	mod.RequiresAllLessons = req.RequiresAllLessons == nil || *req.RequiresAllLessons
	if req.PassingScoreToUnlock > 0 {
		mod.PassingScoreToUnlock = req.PassingScoreToUnlock
	}

	if err := c.LessonService.CreateModule(mod); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Created(ctx, mod)
}

func (c *ContentController) GetModule(ctx *gin.Context) {
	mod, err := c.LessonService.GetModule(util.MustParseUint(ctx.Param("id")))
	if err != nil {
		if errors.Is(err, util.ErrModuleNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, mod)
}

func (c *ContentController) ListModules(ctx *gin.Context) {
	modules, err := c.LessonService.ListModules(util.MustParseUint(ctx.Param("id")))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, modules)
}

// GetModuleLockStatus exposes the caller's own lock state for a module.
func (c *ContentController) GetModuleLockStatus(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	status, err := c.Gate.GetModuleLockStatus(claims.UserID, util.MustParseUint(ctx.Param("id")))
	if err != nil {
		util.NotFound(ctx)
		return
	}
	util.Success(ctx, status)
}

func (c *ContentController) UpdateModule(ctx *gin.Context) {
	mod, err := c.LessonService.GetModule(util.MustParseUint(ctx.Param("id")))
	if err != nil {
		util.NotFound(ctx)
		return
	}

	var req ModuleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	mod.TitleEn = req.TitleEn
	mod.TitleFil = req.TitleFil
	mod.DescriptionEn = req.DescriptionEn
	mod.DescriptionFil = req.DescriptionFil
	mod.Order = req.Order
	mod.RequiresPreTest = req.RequiresPreTest
	mod.RequiresPostTest = req.RequiresPostTest
	if req.RequiresAllLessons != nil {
		mod.RequiresAllLessons = *req.RequiresAllLessons
	}
	if req.PassingScoreToUnlock > 0 {
		mod.PassingScoreToUnlock = req.PassingScoreToUnlock
	}

	if err := c.LessonService.UpdateModule(mod); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, mod)
}

func (c *ContentController) DeleteModule(ctx *gin.Context) {
	if err := c.LessonService.DeleteModule(util.MustParseUint(ctx.Param("id"))); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"deleted": true})
}

type LessonRequest struct {
	ModuleID  uint   `json:"moduleId" binding:"required"`
	TitleEn   string `json:"titleEn" binding:"required"`
	TitleFil  string `json:"titleFil"`
	BodyEn    string `json:"bodyEn"`
	BodyFil   string `json:"bodyFil"`
	YoutubeID string `json:"youtubeId"`
	Order     int    `json:"order"`
	Status    string `json:"status" binding:"omitempty,oneof=draft published archived"`
}

func (c *ContentController) CreateLesson(ctx *gin.Context) {
	var req LessonRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	lesson := &model.Lesson{
		ModuleID:  req.ModuleID,
		TitleEn:   req.TitleEn,
		TitleFil:  req.TitleFil,
		BodyEn:    req.BodyEn,
		BodyFil:   req.BodyFil,
		YoutubeID: req.YoutubeID,
		Order:     req.Order,
	}
	if req.Status != "" {
		lesson.Status = model.LessonStatus(req.Status)
	}

	if err := c.LessonService.CreateLesson(lesson); err != nil {
		if errors.Is(err, util.ErrModuleNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Created(ctx, lesson)
}

func (c *ContentController) GetLesson(ctx *gin.Context) {
	lesson, err := c.LessonService.GetLesson(util.MustParseUint(ctx.Param("id")))
	if err != nil {
		if errors.Is(err, util.ErrLessonNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, lesson)
}

func (c *ContentController) UpdateLesson(ctx *gin.Context) {
	lesson, err := c.LessonService.GetLesson(util.MustParseUint(ctx.Param("id")))
	if err != nil {
		util.NotFound(ctx)
		return
	}

	var req LessonRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	lesson.TitleEn = req.TitleEn
	lesson.TitleFil = req.TitleFil
	lesson.BodyEn = req.BodyEn
	lesson.BodyFil = req.BodyFil
	lesson.YoutubeID = req.YoutubeID
	lesson.Order = req.Order
	if req.Status != "" {
		lesson.Status = model.LessonStatus(req.Status)
	}

	if err := c.LessonService.UpdateLesson(lesson); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, lesson)
}

func (c *ContentController) DeleteLesson(ctx *gin.Context) {
	if err := c.LessonService.DeleteLesson(util.MustParseUint(ctx.Param("id"))); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"deleted": true})
}

func (c *ContentController) UploadVideo(ctx *gin.Context) {
	lessonID := util.MustParseUint(ctx.Param("id"))
	file, err := ctx.FormFile("video")
	if err != nil {
		util.BadRequest(ctx, "video file is required")
		return
	}

	lesson, err := c.LessonService.UploadVideo(ctx.Request.Context(), lessonID, file)
	if err != nil {
		if errors.Is(err, util.ErrLessonNotFound) {
			util.NotFound(ctx)
		} else {
			util.BadRequest(ctx, err.Error())
		}
		return
	}
	util.Success(ctx, lesson)
}

func (c *ContentController) UploadMaterial(ctx *gin.Context) {
	lessonID := util.MustParseUint(ctx.Param("id"))
	title := ctx.PostForm("title")
	if title == "" {
		util.BadRequest(ctx, "title is required")
		return
	}
	file, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "file is required")
		return
	}

	material, err := c.LessonService.AddMaterial(ctx.Request.Context(), lessonID, title, file)
	if err != nil {
		if errors.Is(err, util.ErrLessonNotFound) {
			util.NotFound(ctx)
		} else {
			util.BadRequest(ctx, err.Error())
		}
		return
	}
	util.Created(ctx, material)
}
