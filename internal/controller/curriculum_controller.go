package controller

import (
	"github.com/Nishashahzad/ISLAMIC-CENTER-LMS/internal/curriculum"
	"github.com/Nishashahzad/ISLAMIC-CENTER-LMS/internal/service"
	"github.com/Nishashahzad/ISLAMIC-CENTER-LMS/internal/util"

	"github.com/gin-gonic/gin"
)

type CurriculumController struct {
	Service *service.CurriculumService
	Catalog *curriculum.Catalog
}

func NewCurriculumController(svc *service.CurriculumService, catalog *curriculum.Catalog) *CurriculumController {
	return &CurriculumController{Service: svc, Catalog: catalog}
}

// @Summary Curriculum years
// @Tags Curriculum
// @Produce json
// @Success 200 {object} util.Response
// @Router /curriculum/years [get]
func (c *CurriculumController) Years(ctx *gin.Context) {
	util.Success(ctx, c.Catalog.Years())
}

// @Summary Subjects by year, or for one year
// @Tags Curriculum
// @Produce json
// @Param year query int false "Year number"
// @Success 200 {object} util.Response
// @Router /curriculum/subjects [get]
func (c *CurriculumController) Subjects(ctx *gin.Context) {
	year, ok := queryInt(ctx, "year", 0)
	if !ok {
		return
	}
	if year == 0 {
		util.Success(ctx, c.Catalog.SubjectsByYear())
		return
	}
	subjects, found := c.Catalog.SubjectsForYear(year)
	if !found {
		util.NotFound(ctx)
		return
	}
	util.Success(ctx, subjects)
}

// @Summary Subjects the caller may author for
// @Tags Curriculum
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=service.TeacherSubjects}
// @Router /teacher/subjects [get]
func (c *CurriculumController) TeacherSubjects(ctx *gin.Context) {
	user, ok := caller(ctx)
	if !ok {
		return
	}
	res, err := c.Service.TeacherSubjects(ctx.Request.Context(), user.UserID)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, res)
}
