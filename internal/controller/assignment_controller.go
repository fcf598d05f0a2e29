package controller

import (
	"strconv"

	"github.com/Nishashahzad/ISLAMIC-CENTER-LMS/internal/service"
	"github.com/Nishashahzad/ISLAMIC-CENTER-LMS/internal/util"

	"github.com/gin-gonic/gin"
)

type AssignmentController struct {
	Service        *service.AssignmentService
	Submissions    *service.SubmissionService
	Reports        *service.ReportService
	MaxUploadBytes int64
}

func NewAssignmentController(svc *service.AssignmentService, submissions *service.SubmissionService, reports *service.ReportService, maxUploadBytes int64) *AssignmentController {
	return &AssignmentController{Service: svc, Submissions: submissions, Reports: reports, MaxUploadBytes: maxUploadBytes}
}

type TeacherAutoGradeRequest struct {
	StudentUserID string `json:"studentUserId" binding:"required"`
}

// @Summary Create an assignment
// @Description multipart/form-data; the brief file is optional. Dates are "2006-01-02" or RFC 3339; a plain due date runs to the end of that day.
// @Tags Assignments
// @Accept mpfd
// @Produce json
// @Security ApiKeyAuth
// @Param subject_name formData string true "Subject"
// @Param title formData string true "Title"
// @Param description formData string false "Description"
// @Param start_date formData string true "Start date"
// @Param due_date formData string true "Due date"
// @Param total_marks formData int false "Total marks, default 100"
// @Param file formData file false "Brief"
// @Success 201 {object} util.Response{data=model.Assignment}
// @Router /teacher/assignments [post]
func (c *AssignmentController) CreateAssignment(ctx *gin.Context) {
	user, ok := caller(ctx)
	if !ok {
		return
	}

	start, due, err := window("start_date", ctx.PostForm("start_date"), "due_date", ctx.PostForm("due_date"))
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	totalMarks := 0
	if raw := ctx.PostForm("total_marks"); raw != "" {
		if totalMarks, err = strconv.Atoi(raw); err != nil {
			util.RespondError(ctx, util.NewValidationError("invalid total marks",
				util.FieldError{Field: "total_marks", Error: "must be an integer"}))
			return
		}
	}
	brief, err := readUpload(ctx, "file", c.MaxUploadBytes)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}

	a, err := c.Service.CreateAssignment(ctx.Request.Context(), user.UserID, service.AssignmentInput{
		SubjectName: ctx.PostForm("subject_name"),
		Title:       ctx.PostForm("title"),
		Description: ctx.PostForm("description"),
		StartDate:   start,
		DueDate:     due,
		TotalMarks:  totalMarks,
	}, brief)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Created(ctx, a)
}

// @Summary List the caller's assignments
// @Tags Assignments
// @Produce json
// @Security ApiKeyAuth
// @Param subject query string false "Subject filter"
// @Success 200 {object} util.Response
// @Router /teacher/assignments [get]
func (c *AssignmentController) ListAssignments(ctx *gin.Context) {
	user, ok := caller(ctx)
	if !ok {
		return
	}
	list, err := c.Service.ListTeacherAssignments(ctx.Request.Context(), user.UserID, ctx.Query("subject"))
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, list)
}

// @Summary Delete an assignment with its submissions
// @Tags Assignments
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Assignment ID"
// @Success 200 {object} util.Response
// @Router /teacher/assignments/{id} [delete]
func (c *AssignmentController) DeleteAssignment(ctx *gin.Context) {
	user, ok := caller(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	if err := c.Service.DeleteAssignment(ctx.Request.Context(), id, user.UserID); err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"deleted": id})
}

// @Summary Submissions of an assignment with counts
// @Tags Assignments
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Assignment ID"
// @Success 200 {object} util.Response{data=service.AssignmentSubmissions}
// @Router /teacher/assignments/{id}/submissions [get]
func (c *AssignmentController) AssignmentSubmissions(ctx *gin.Context) {
	user, ok := caller(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	res, err := c.Reports.AssignmentSubmissions(ctx.Request.Context(), id, user.UserID)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, res)
}

// @Summary Auto-grade a student who missed the deadline
// @Tags Assignments
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Assignment ID"
// @Param body body TeacherAutoGradeRequest true "Student"
// @Success 201 {object} util.Response{data=model.Submission}
// @Failure 409 {object} util.Response
// @Router /teacher/assignments/{id}/auto-grade [post]
func (c *AssignmentController) AutoGradeStudent(ctx *gin.Context) {
	user, ok := caller(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	var req TeacherAutoGradeRequest
	if !bindJSON(ctx, &req) {
		return
	}
	sub, err := c.Submissions.AutoGrade(ctx.Request.Context(), req.StudentUserID, id, user.UserID)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Created(ctx, sub)
}

// @Summary Download an assignment's brief
// @Tags Assignments
// @Produce octet-stream
// @Security ApiKeyAuth
// @Param id path int true "Assignment ID"
// @Success 200 {file} file
// @Router /assignments/{id}/file [get]
func (c *AssignmentController) DownloadBrief(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	a, data, err := c.Service.Brief(ctx.Request.Context(), id)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	sendFile(ctx, a.FileName, data)
}
