package controller

import (
	"errors"
	"strconv"

	"aral_lms_backend/internal/model"
	"aral_lms_backend/internal/service"
	"aral_lms_backend/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type OutputController struct {
	OutputService *service.OutputService
}

func NewOutputController(outputService *service.OutputService) *OutputController {
	return &OutputController{OutputService: outputService}
}

// Submit accepts multipart form data: type, title, content, optional
// courseId/moduleId, optional file.
func (c *OutputController) Submit(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	outputType := ctx.PostForm("type")
	title := ctx.PostForm("title")
	if outputType == "" || title == "" {
		util.BadRequest(ctx, "type and title are required")
		return
	}
	content := ctx.PostForm("content")

	var courseID, moduleID *uint
	if v := ctx.PostForm("courseId"); v != "" {
		id := util.MustParseUint(v)
		courseID = &id
	}
	if v := ctx.PostForm("moduleId"); v != "" {
		id := util.MustParseUint(v)
		moduleID = &id
	}

	file, _ := ctx.FormFile("file")

	output, err := c.OutputService.Submit(ctx.Request.Context(), claims.UserID, outputType, title, content, courseID, moduleID, file)
	if err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	util.Created(ctx, output)
}

func (c *OutputController) ListMine(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	outputs, err := c.OutputService.ListMine(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, outputs)
}

func (c *OutputController) ListForReview(ctx *gin.Context) {
	courseID := util.MustParseUint(ctx.Query("courseId"))
	status := model.OutputStatus(ctx.Query("status"))
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))

	outputs, total, err := c.OutputService.ListForReview(courseID, status, page, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, util.PageResponse{List: outputs, Total: total, Page: page, Limit: limit})
}

type ReviewRequest struct {
	Status  string `json:"status" binding:"required,oneof=REVIEWED RETURNED"`
	Comment string `json:"comment"`
}

func (c *OutputController) Review(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	var req ReviewRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	output, err := c.OutputService.Review(util.MustParseUint(ctx.Param("id")), claims.UserID, model.OutputStatus(req.Status), req.Comment)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, output)
}
