package controller

import (
	"github.com/Nishashahzad/ISLAMIC-CENTER-LMS/internal/service"
	"github.com/Nishashahzad/ISLAMIC-CENTER-LMS/internal/util"

	"github.com/gin-gonic/gin"
)

type QuizController struct {
	Service *service.QuizService
	Reports *service.ReportService
}

func NewQuizController(svc *service.QuizService, reports *service.ReportService) *QuizController {
	return &QuizController{Service: svc, Reports: reports}
}

// CreateQuizRequest takes dates as "2006-01-02" or RFC 3339.
type CreateQuizRequest struct {
	SubjectName     string                  `json:"subjectName"`
	Title           string                  `json:"title"`
	Description     string                  `json:"description"`
	StartDate       string                  `json:"startDate"`
	EndDate         string                  `json:"endDate"`
	TotalMarks      int                     `json:"totalMarks"`
	DurationMinutes int                     `json:"durationMinutes"`
	Questions       []service.QuestionInput `json:"questions"`
}

type PublishRequest struct {
	Publish *bool `json:"publish"`
}

// @Summary Create a quiz with its questions
// @Tags Quizzes
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body CreateQuizRequest true "Quiz"
// @Success 201 {object} util.Response{data=service.CreateQuizResult}
// @Failure 400 {object} util.Response
// @Failure 403 {object} util.Response
// @Router /teacher/quizzes [post]
func (c *QuizController) CreateQuiz(ctx *gin.Context) {
	user, ok := caller(ctx)
	if !ok {
		return
	}
	var req CreateQuizRequest
	if !bindJSON(ctx, &req) {
		return
	}
	start, end, err := window("startDate", req.StartDate, "endDate", req.EndDate)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}

	res, err := c.Service.CreateQuiz(ctx.Request.Context(), user.UserID, service.QuizInput{
		SubjectName:     req.SubjectName,
		Title:           req.Title,
		Description:     req.Description,
		StartDate:       start,
		EndDate:         end,
		TotalMarks:      req.TotalMarks,
		DurationMinutes: req.DurationMinutes,
		Questions:       req.Questions,
	})
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Created(ctx, res)
}

// @Summary List the caller's quizzes
// @Tags Quizzes
// @Produce json
// @Security ApiKeyAuth
// @Param subject query string false "Subject filter"
// @Success 200 {object} util.Response
// @Router /teacher/quizzes [get]
func (c *QuizController) ListQuizzes(ctx *gin.Context) {
	user, ok := caller(ctx)
	if !ok {
		return
	}
	quizzes, err := c.Service.ListTeacherQuizzes(ctx.Request.Context(), user.UserID, ctx.Query("subject"))
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, quizzes)
}

// @Summary Read a quiz with answers (owner)
// @Tags Quizzes
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Quiz ID"
// @Success 200 {object} util.Response
// @Failure 403 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /teacher/quizzes/{id} [get]
func (c *QuizController) GetQuiz(ctx *gin.Context) {
	user, ok := caller(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	quiz, err := c.Service.GetQuiz(ctx.Request.Context(), id, user.UserID)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, quiz)
}

// @Summary Publish or unpublish a quiz
// @Tags Quizzes
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Quiz ID"
// @Param body body PublishRequest false "Defaults to publish"
// @Success 200 {object} util.Response
// @Router /teacher/quizzes/{id}/publish [post]
func (c *QuizController) PublishQuiz(ctx *gin.Context) {
	user, ok := caller(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	var req PublishRequest
	if ctx.Request.ContentLength > 0 && !bindJSON(ctx, &req) {
		return
	}
	publish := req.Publish == nil || *req.Publish

	if err := c.Service.PublishQuiz(ctx.Request.Context(), id, user.UserID, publish); err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"quizId": id, "isPublished": publish})
}

// @Summary Delete a quiz and all its attempts
// @Tags Quizzes
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Quiz ID"
// @Success 200 {object} util.Response
// @Router /teacher/quizzes/{id} [delete]
func (c *QuizController) DeleteQuiz(ctx *gin.Context) {
	user, ok := caller(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	if err := c.Service.DeleteQuiz(ctx.Request.Context(), id, user.UserID); err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"deleted": id})
}

// @Summary Finished attempts of a quiz, best first
// @Tags Quizzes
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Quiz ID"
// @Success 200 {object} util.Response{data=[]service.ResultView}
// @Router /teacher/quizzes/{id}/results [get]
func (c *QuizController) QuizResults(ctx *gin.Context) {
	user, ok := caller(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	results, err := c.Reports.QuizResults(ctx.Request.Context(), id, user.UserID)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, results)
}

// @Summary Read a published quiz without answers
// @Tags Quizzes
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Quiz ID"
// @Success 200 {object} util.Response{data=service.StudentQuiz}
// @Failure 403 {object} util.Response
// @Router /student/quizzes/{id} [get]
func (c *QuizController) GetStudentQuiz(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	quiz, err := c.Service.GetQuizForStudent(ctx.Request.Context(), id)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, quiz)
}
