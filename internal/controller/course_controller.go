package controller

import (
	"errors"
	"time"

	"aral_lms_backend/internal/model"
	"aral_lms_backend/internal/service"
	"aral_lms_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type CourseController struct {
	CourseService *service.CourseService
}

func NewCourseController(courseService *service.CourseService) *CourseController {
	return &CourseController{CourseService: courseService}
}

func (c *CourseController) ListCourses(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	isStaff := claims != nil && (claims.Role == model.Admin || claims.Role == model.Instructor)
	var userID uint
	if claims != nil {
		userID = claims.UserID
	}

	courses, err := c.CourseService.ListCourses(userID, isStaff)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, courses)
}

func (c *CourseController) GetCourse(ctx *gin.Context) {
	course, err := c.CourseService.GetCourseBySlug(ctx.Param("slug"))
	if err != nil {
		if errors.Is(err, util.ErrCourseNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, course)
}

type CourseRequest struct {
	TitleEn        string `json:"titleEn" binding:"required"`
	TitleFil       string `json:"titleFil"`
	DescriptionEn  string `json:"descriptionEn"`
	DescriptionFil string `json:"descriptionFil"`
	Slug           string `json:"slug"`
	Status         string `json:"status" binding:"omitempty,oneof=draft published archived"`
	IsInviteOnly   bool   `json:"isInviteOnly"`
	Order          int    `json:"order"`
}

func (c *CourseController) CreateCourse(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	var req CourseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	course := &model.Course{
		Slug:           req.Slug,
		TitleEn:        req.TitleEn,
		TitleFil:       req.TitleFil,
		DescriptionEn:  req.DescriptionEn,
		DescriptionFil: req.DescriptionFil,
		IsInviteOnly:   req.IsInviteOnly,
		Order:          req.Order,
		CreatedByID:    claims.UserID,
	}
	if req.Status != "" {
		course.Status = model.CourseStatus(req.Status)
	}

	if err := c.CourseService.CreateCourse(course); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Created(ctx, course)
}

func (c *CourseController) UpdateCourse(ctx *gin.Context) {
	courseID := util.MustParseUint(ctx.Param("id"))
	course, err := c.CourseService.CourseRepo.FindByID(courseID)
	if err != nil {
		util.NotFound(ctx)
		return
	}

	var req CourseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	course.TitleEn = req.TitleEn
	course.TitleFil = req.TitleFil
	course.DescriptionEn = req.DescriptionEn
	course.DescriptionFil = req.DescriptionFil
	course.IsInviteOnly = req.IsInviteOnly
	course.Order = req.Order
	if req.Status != "" {
		course.Status = model.CourseStatus(req.Status)
	}

	if err := c.CourseService.UpdateCourse(course); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, course)
}

func (c *CourseController) DeleteCourse(ctx *gin.Context) {
	if err := c.CourseService.DeleteCourse(util.MustParseUint(ctx.Param("id"))); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"deleted": true})
}

type EnrollRequest struct {
	Code string `json:"code" binding:"required"`
}

func (c *CourseController) Enroll(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	var req EnrollRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	enrollment, err := c.CourseService.EnrollWithCode(claims.UserID, req.Code)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrAlreadyEnrolled):
			util.Conflict(ctx, err.Error())
		case errors.Is(err, util.ErrInviteInvalid),
			errors.Is(err, util.ErrInviteExpired),
			errors.Is(err, util.ErrInviteLimitReached):
			util.BadRequest(ctx, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Created(ctx, enrollment)
}

func (c *CourseController) ListMyEnrollments(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	enrollments, err := c.CourseService.ListEnrollments(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, enrollments)
}

type InviteCodeRequest struct {
	UsageLimit int        `json:"usageLimit"`
	ExpiresAt  *time.Time `json:"expiresAt"`
	Note       string     `json:"note"`
}

func (c *CourseController) CreateInviteCode(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	courseID := util.MustParseUint(ctx.Param("id"))

	var req InviteCodeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	invite, err := c.CourseService.CreateInviteCode(courseID, claims.UserID, req.UsageLimit, req.ExpiresAt, req.Note)
	if err != nil {
		if errors.Is(err, util.ErrCourseNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Created(ctx, invite)
}

func (c *CourseController) ListInviteCodes(ctx *gin.Context) {
	courseID := util.MustParseUint(ctx.Param("id"))
	codes, err := c.CourseService.ListInviteCodes(courseID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	enrolled, err := c.CourseService.CountActiveEnrollments(courseID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"inviteCodes": codes, "activeEnrollments": enrolled})
}
