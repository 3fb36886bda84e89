package controller

import (
	"errors"
	"strconv"

	"aral_lms_backend/internal/model"
	"aral_lms_backend/internal/service"
	"aral_lms_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type DiscussionController struct {
	DiscussionService *service.DiscussionService
}

func NewDiscussionController(discussionService *service.DiscussionService) *DiscussionController {
	return &DiscussionController{DiscussionService: discussionService}
}

func (c *DiscussionController) ListThreads(ctx *gin.Context) {
	moduleID := util.MustParseUint(ctx.Param("id"))
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))

	threads, total, err := c.DiscussionService.ListThreads(moduleID, page, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, util.PageResponse{List: threads, Total: total, Page: page, Limit: limit})
}

func (c *DiscussionController) GetThread(ctx *gin.Context) {
	thread, err := c.DiscussionService.GetThread(util.MustParseUint(ctx.Param("id")))
	if err != nil {
		if errors.Is(err, util.ErrThreadNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, thread)
}

type ThreadRequest struct {
	ModuleID uint   `json:"moduleId" binding:"required"`
	TitleEn  string `json:"titleEn" binding:"required"`
	TitleFil string `json:"titleFil"`
	BodyEn   string `json:"bodyEn"`
	BodyFil  string `json:"bodyFil"`
}

func (c *DiscussionController) CreateThread(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	var req ThreadRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	thread := &model.DiscussionThread{
		ModuleID: req.ModuleID,
		UserID:   claims.UserID,
		TitleEn:  req.TitleEn,
		TitleFil: req.TitleFil,
		BodyEn:   req.BodyEn,
		BodyFil:  req.BodyFil,
	}
	if err := c.DiscussionService.CreateThread(thread); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Created(ctx, thread)
}

type ReplyRequest struct {
	Body string `json:"body" binding:"required"`
}

func (c *DiscussionController) Reply(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	var req ReplyRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	reply, err := c.DiscussionService.Reply(claims.UserID, util.MustParseUint(ctx.Param("id")), req.Body)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrThreadNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrThreadLocked):
			util.Forbidden(ctx)
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Created(ctx, reply)
}

func (c *DiscussionController) DeleteThread(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	err := c.DiscussionService.DeleteThread(util.MustParseUint(ctx.Param("id")), claims.UserID, claims.Role)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrThreadNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrPermissionDenied):
			util.Forbidden(ctx)
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, gin.H{"deleted": true})
}

func (c *DiscussionController) DeleteReply(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	err := c.DiscussionService.DeleteReply(util.MustParseUint(ctx.Param("id")), claims.UserID, claims.Role)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrThreadNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrPermissionDenied):
			util.Forbidden(ctx)
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, gin.H{"deleted": true})
}

type ModerateRequest struct {
	Pinned *bool `json:"pinned"`
	Locked *bool `json:"locked"`
}

func (c *DiscussionController) Moderate(ctx *gin.Context) {
	threadID := util.MustParseUint(ctx.Param("id"))
	var req ModerateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if req.Pinned != nil {
		if err := c.DiscussionService.SetPinned(threadID, *req.Pinned); err != nil {
			if errors.Is(err, util.ErrThreadNotFound) {
				util.NotFound(ctx)
			} else {
				util.LogInternalError(ctx, err)
			}
			return
		}
	}
	if req.Locked != nil {
		if err := c.DiscussionService.SetLocked(threadID, *req.Locked); err != nil {
			if errors.Is(err, util.ErrThreadNotFound) {
				util.NotFound(ctx)
			} else {
				util.LogInternalError(ctx, err)
			}
			return
		}
	}
	util.Success(ctx, gin.H{"updated": true})
}
