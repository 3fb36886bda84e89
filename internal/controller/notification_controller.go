package controller

import (
	"strconv"

	"aral_lms_backend/internal/service"
	"aral_lms_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type NotificationController struct {
	NotificationService *service.NotificationService
	Hub                 *service.NotificationHub
}

func NewNotificationController(notificationService *service.NotificationService, hub *service.NotificationHub) *NotificationController {
	return &NotificationController{NotificationService: notificationService, Hub: hub}
}

func (c *NotificationController) List(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	notifications, total, unread, err := c.NotificationService.List(claims.UserID, (page-1)*limit, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{
		"list":        notifications,
		"total":       total,
		"unreadCount": unread,
		"page":        page,
		"limit":       limit,
	})
}

func (c *NotificationController) MarkRead(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if err := c.NotificationService.MarkRead(util.MustParseUint(ctx.Param("id")), claims.UserID); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"read": true})
}

func (c *NotificationController) MarkAllRead(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if err := c.NotificationService.MarkAllRead(claims.UserID); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"read": true})
}

// Stream upgrades to a websocket that receives the user's notifications as
// they are created.
func (c *NotificationController) Stream(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	service.ServeWs(c.Hub, ctx.Writer, ctx.Request, claims.UserID)
}
