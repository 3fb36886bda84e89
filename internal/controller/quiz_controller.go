package controller

import (
	"errors"

	"aral_lms_backend/internal/model"
	"aral_lms_backend/internal/service"
	"aral_lms_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type QuizController struct {
	QuizService *service.QuizService
}

func NewQuizController(quizService *service.QuizService) *QuizController {
	return &QuizController{QuizService: quizService}
}

func (c *QuizController) GetQuiz(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	quiz, err := c.QuizService.GetQuizForTaking(claims.UserID, util.MustParseUint(ctx.Param("id")))
	if err != nil {
		switch {
		case errors.Is(err, util.ErrQuizNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrMaxAttemptsReached):
			util.Forbidden(ctx)
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, quiz)
}

type SubmitQuizRequest struct {
	Answers []service.AnswerSubmission `json:"answers" binding:"required"`
}

func (c *QuizController) SubmitQuiz(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	var req SubmitQuizRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.QuizService.SubmitQuiz(claims.UserID, util.MustParseUint(ctx.Param("id")), req.Answers)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrQuizNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrMaxAttemptsReached):
			util.Forbidden(ctx)
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, result)
}

func (c *QuizController) AttemptHistory(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	attempts, err := c.QuizService.AttemptHistory(claims.UserID, util.MustParseUint(ctx.Param("id")))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, attempts)
}

type QuizRequest struct {
	ModuleID       uint   `json:"moduleId" binding:"required"`
	TitleEn        string `json:"titleEn" binding:"required"`
	TitleFil       string `json:"titleFil"`
	Type           string `json:"type" binding:"required,oneof=PRE_TEST POST_TEST PRACTICE"`
	PassingScore   int    `json:"passingScore"`
	MaxAttempts    *int   `json:"maxAttempts"`
	TimeLimitMin   int    `json:"timeLimitMin"`
	BlocksProgress *bool  `json:"blocksProgress"`
	IsPublished    bool   `json:"isPublished"`
}

func (c *QuizController) CreateQuiz(ctx *gin.Context) {
	var req QuizRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	quiz := &model.Quiz{
		ModuleID:     req.ModuleID,
		TitleEn:      req.TitleEn,
		TitleFil:     req.TitleFil,
		Type:         model.QuizType(req.Type),
		TimeLimitMin: req.TimeLimitMin,
		IsPublished:  req.IsPublished,
	}
	if req.PassingScore > 0 {
		quiz.PassingScore = req.PassingScore
	}
	// Omitted means three attempts; an explicit 0 means unlimited.
	quiz.MaxAttempts = 3
	if req.MaxAttempts != nil {
		quiz.MaxAttempts = *req.MaxAttempts
	}
	quiz.BlocksProgress = req.BlocksProgress == nil || *req.BlocksProgress

	if err := c.QuizService.CreateQuiz(quiz); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Created(ctx, quiz)
}

func (c *QuizController) GetQuizAdmin(ctx *gin.Context) {
	quiz, err := c.QuizService.GetQuizAdmin(util.MustParseUint(ctx.Param("id")))
	if err != nil {
		if errors.Is(err, util.ErrQuizNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, quiz)
}

func (c *QuizController) UpdateQuiz(ctx *gin.Context) {
	quiz, err := c.QuizService.GetQuizAdmin(util.MustParseUint(ctx.Param("id")))
	if err != nil {
		util.NotFound(ctx)
		return
	}

	var req QuizRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	quiz.TitleEn = req.TitleEn
	quiz.TitleFil = req.TitleFil
	quiz.Type = model.QuizType(req.Type)
	quiz.TimeLimitMin = req.TimeLimitMin
	quiz.IsPublished = req.IsPublished
	if req.PassingScore > 0 {
		quiz.PassingScore = req.PassingScore
	}
	if req.MaxAttempts != nil {
		quiz.MaxAttempts = *req.MaxAttempts
	}
	if req.BlocksProgress != nil {
		quiz.BlocksProgress = *req.BlocksProgress
	}

	if err := c.QuizService.UpdateQuiz(quiz); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, quiz)
}

func (c *QuizController) DeleteQuiz(ctx *gin.Context) {
	if err := c.QuizService.DeleteQuiz(util.MustParseUint(ctx.Param("id"))); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"deleted": true})
}

type QuestionRequest struct {
	TextEn  string `json:"textEn" binding:"required"`
	TextFil string `json:"textFil"`
	Order   int    `json:"order"`
	Points  int    `json:"points"`
	Options []struct {
		TextEn    string `json:"textEn" binding:"required"`
		TextFil   string `json:"textFil"`
		IsCorrect bool   `json:"isCorrect"`
		Order     int    `json:"order"`
	} `json:"options" binding:"required,min=2"`
}

func (c *QuizController) AddQuestion(ctx *gin.Context) {
	quizID := util.MustParseUint(ctx.Param("id"))
	var req QuestionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	question := &model.Question{
		QuizID:  quizID,
		TextEn:  req.TextEn,
		TextFil: req.TextFil,
		Order:   req.Order,
		Points:  req.Points,
	}
	if question.Points == 0 {
		question.Points = 1
	}
	for _, o := range req.Options {
		question.Options = append(question.Options, model.AnswerOption{
			TextEn:    o.TextEn,
			TextFil:   o.TextFil,
			IsCorrect: o.IsCorrect,
			Order:     o.Order,
		})
	}

	if err := c.QuizService.AddQuestion(question); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Created(ctx, question)
}

func (c *QuizController) UpdateQuestion(ctx *gin.Context) {
	var req QuestionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	question := &model.Question{
		QuizID:  util.MustParseUint(ctx.Param("id")),
		TextEn:  req.TextEn,
		TextFil: req.TextFil,
		Order:   req.Order,
		Points:  req.Points,
	}
	question.ID = util.MustParseUint(ctx.Param("questionId"))
	if question.Points == 0 {
		question.Points = 1
	}
	for _, o := range req.Options {
		question.Options = append(question.Options, model.AnswerOption{
			TextEn:    o.TextEn,
			TextFil:   o.TextFil,
			IsCorrect: o.IsCorrect,
			Order:     o.Order,
		})
	}

	if err := c.QuizService.UpdateQuestion(question); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, question)
}

func (c *QuizController) DeleteQuestion(ctx *gin.Context) {
	if err := c.QuizService.DeleteQuestion(util.MustParseUint(ctx.Param("questionId"))); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"deleted": true})
}
