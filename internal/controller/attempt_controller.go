package controller

import (
	"github.com/Nishashahzad/ISLAMIC-CENTER-LMS/internal/service"
	"github.com/Nishashahzad/ISLAMIC-CENTER-LMS/internal/util"

	"github.com/gin-gonic/gin"
)

type AttemptController struct {
	Service *service.AttemptService
	Reports *service.ReportService
}

func NewAttemptController(svc *service.AttemptService, reports *service.ReportService) *AttemptController {
	return &AttemptController{Service: svc, Reports: reports}
}

type FinishAttemptRequest struct {
	TimeTakenMinutes int `json:"timeTakenMinutes"`
}

type SubmitQuizRequest struct {
	Answers          []service.AnswerInput `json:"answers"`
	TimeTakenMinutes int                   `json:"timeTakenMinutes"`
}

// @Summary Start an attempt
// @Tags Attempts
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Quiz ID"
// @Success 201 {object} util.Response{data=model.Attempt}
// @Failure 403 {object} util.Response
// @Router /student/quizzes/{id}/attempts [post]
func (c *AttemptController) StartAttempt(ctx *gin.Context) {
	user, ok := caller(ctx)
	if !ok {
		return
	}
	quizID, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	attempt, err := c.Service.Start(ctx.Request.Context(), user.UserID, quizID)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Created(ctx, attempt)
}

// @Summary Answer one question of an open attempt
// @Tags Attempts
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param attemptId path int true "Attempt ID"
// @Param body body service.AnswerInput true "Answer"
// @Success 200 {object} util.Response{data=model.Answer}
// @Failure 409 {object} util.Response
// @Router /student/attempts/{attemptId}/answers [post]
func (c *AttemptController) SubmitAnswer(ctx *gin.Context) {
	user, ok := caller(ctx)
	if !ok {
		return
	}
	attemptID, ok := pathID(ctx, "attemptId")
	if !ok {
		return
	}
	var req service.AnswerInput
	if !bindJSON(ctx, &req) {
		return
	}
	answer, err := c.Service.SubmitAnswer(ctx.Request.Context(), user.UserID, attemptID, req)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, answer)
}

// @Summary Finish an attempt and total its score
// @Tags Attempts
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param attemptId path int true "Attempt ID"
// @Param body body FinishAttemptRequest false "Time taken"
// @Success 200 {object} util.Response{data=service.AttemptView}
// @Failure 409 {object} util.Response
// @Router /student/attempts/{attemptId}/finish [post]
func (c *AttemptController) FinishAttempt(ctx *gin.Context) {
	user, ok := caller(ctx)
	if !ok {
		return
	}
	attemptID, ok := pathID(ctx, "attemptId")
	if !ok {
		return
	}
	var req FinishAttemptRequest
	if ctx.Request.ContentLength > 0 && !bindJSON(ctx, &req) {
		return
	}
	view, err := c.Service.Finish(ctx.Request.Context(), user.UserID, attemptID, req.TimeTakenMinutes)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, view)
}

// @Summary Submit a whole quiz in one call
// @Tags Attempts
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Quiz ID"
// @Param body body SubmitQuizRequest true "Answers"
// @Success 201 {object} util.Response{data=service.AttemptView}
// @Router /student/quizzes/{id}/submit [post]
func (c *AttemptController) SubmitQuiz(ctx *gin.Context) {
	user, ok := caller(ctx)
	if !ok {
		return
	}
	quizID, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	var req SubmitQuizRequest
	if !bindJSON(ctx, &req) {
		return
	}
	view, err := c.Service.SubmitQuiz(ctx.Request.Context(), user.UserID, quizID, req.Answers, req.TimeTakenMinutes)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Created(ctx, view)
}

// @Summary Read an attempt with its answers
// @Tags Attempts
// @Produce json
// @Security ApiKeyAuth
// @Param attemptId path int true "Attempt ID"
// @Success 200 {object} util.Response{data=service.AttemptView}
// @Router /attempts/{attemptId} [get]
func (c *AttemptController) GetAttempt(ctx *gin.Context) {
	user, ok := caller(ctx)
	if !ok {
		return
	}
	attemptID, ok := pathID(ctx, "attemptId")
	if !ok {
		return
	}
	view, err := c.Service.GetAttempt(ctx.Request.Context(), attemptID, user.UserID)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, view)
}

// @Summary The caller's finished attempts
// @Tags Attempts
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]service.ResultView}
// @Router /student/results [get]
func (c *AttemptController) StudentResults(ctx *gin.Context) {
	user, ok := caller(ctx)
	if !ok {
		return
	}
	results, err := c.Reports.StudentResults(ctx.Request.Context(), user.UserID)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, results)
}
