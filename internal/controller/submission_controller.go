package controller

import (
	"github.com/Nishashahzad/ISLAMIC-CENTER-LMS/internal/service"
	"github.com/Nishashahzad/ISLAMIC-CENTER-LMS/internal/util"

	"github.com/gin-gonic/gin"
)

type SubmissionController struct {
	Service        *service.SubmissionService
	Reports        *service.ReportService
	MaxUploadBytes int64
	DefaultDays    int
}

func NewSubmissionController(svc *service.SubmissionService, reports *service.ReportService, maxUploadBytes int64, defaultDays int) *SubmissionController {
	return &SubmissionController{Service: svc, Reports: reports, MaxUploadBytes: maxUploadBytes, DefaultDays: defaultDays}
}

type GradeRequest struct {
	MarksObtained *int   `json:"marksObtained" binding:"required"`
	Feedback      string `json:"feedback"`
}

type AutoGradeRequest struct {
	// TeacherUserID optionally names the owning teacher, as the portal sends it.
	TeacherUserID string `json:"teacherUserId"`
}

// @Summary Submit an assignment
// @Description multipart/form-data with submission_text and/or file
// @Tags Submissions
// @Accept mpfd
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Assignment ID"
// @Param submission_text formData string false "Answer text"
// @Param file formData file false "Answer file"
// @Success 201 {object} util.Response{data=model.Submission}
// @Failure 403 {object} util.Response "late submission"
// @Failure 409 {object} util.Response "already submitted"
// @Router /student/assignments/{id}/submit [post]
func (c *SubmissionController) Submit(ctx *gin.Context) {
	user, ok := caller(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	file, err := readUpload(ctx, "file", c.MaxUploadBytes)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	sub, err := c.Service.Submit(ctx.Request.Context(), user.UserID, id, ctx.PostForm("submission_text"), file)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Created(ctx, sub)
}

// @Summary Record a zero grade for a missed deadline
// @Tags Submissions
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Assignment ID"
// @Param body body AutoGradeRequest false "Owning teacher"
// @Success 201 {object} util.Response{data=model.Submission}
// @Failure 409 {object} util.Response "already submitted or not yet overdue"
// @Router /student/assignments/{id}/auto-grade [post]
func (c *SubmissionController) AutoGrade(ctx *gin.Context) {
	user, ok := caller(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	var req AutoGradeRequest
	if ctx.Request.ContentLength > 0 && !bindJSON(ctx, &req) {
		return
	}
	sub, err := c.Service.AutoGrade(ctx.Request.Context(), user.UserID, id, req.TeacherUserID)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Created(ctx, sub)
}

// @Summary Grade a submission
// @Tags Submissions
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Submission ID"
// @Param body body GradeRequest true "Marks and feedback"
// @Success 200 {object} util.Response{data=model.Submission}
// @Failure 400 {object} util.Response
// @Router /teacher/submissions/{id}/grade [post]
func (c *SubmissionController) Grade(ctx *gin.Context) {
	user, ok := caller(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	var req GradeRequest
	if !bindJSON(ctx, &req) {
		return
	}
	sub, err := c.Service.Grade(ctx.Request.Context(), id, user.UserID, *req.MarksObtained, req.Feedback)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, sub)
}

// @Summary Ungraded submissions on the caller's assignments
// @Tags Submissions
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]service.SubmissionView}
// @Router /teacher/submissions/pending [get]
func (c *SubmissionController) PendingGrading(ctx *gin.Context) {
	user, ok := caller(ctx)
	if !ok {
		return
	}
	list, err := c.Reports.PendingGrading(ctx.Request.Context(), user.UserID)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, list)
}

// @Summary The caller's submissions
// @Tags Submissions
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]service.SubmissionView}
// @Router /student/submissions [get]
func (c *SubmissionController) StudentSubmissions(ctx *gin.Context) {
	user, ok := caller(ctx)
	if !ok {
		return
	}
	list, err := c.Reports.StudentSubmissions(ctx.Request.Context(), user.UserID)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, list)
}

// @Summary Read a submission
// @Tags Submissions
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Submission ID"
// @Success 200 {object} util.Response{data=model.Submission}
// @Router /submissions/{id} [get]
func (c *SubmissionController) GetSubmission(ctx *gin.Context) {
	user, ok := caller(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	sub, err := c.Service.GetSubmission(ctx.Request.Context(), id, user.UserID)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, sub)
}

// @Summary Download a submission's file
// @Tags Submissions
// @Produce octet-stream
// @Security ApiKeyAuth
// @Param id path int true "Submission ID"
// @Success 200 {file} file
// @Router /submissions/{id}/file [get]
func (c *SubmissionController) DownloadFile(ctx *gin.Context) {
	user, ok := caller(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	sub, data, err := c.Service.File(ctx.Request.Context(), id, user.UserID)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	sendFile(ctx, sub.FileName, data)
}

// @Summary Assignments and quizzes closing soon
// @Tags Submissions
// @Produce json
// @Security ApiKeyAuth
// @Param days query int false "Window in days"
// @Success 200 {object} util.Response{data=[]repository.DeadlineRow}
// @Router /student/deadlines [get]
func (c *SubmissionController) Deadlines(ctx *gin.Context) {
	user, ok := caller(ctx)
	if !ok {
		return
	}
	days, ok := queryInt(ctx, "days", c.DefaultDays)
	if !ok {
		return
	}
	rows, err := c.Reports.UpcomingDeadlines(ctx.Request.Context(), user.UserID, days)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, rows)
}
