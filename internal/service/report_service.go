package service

import (
	"context"
	"sort"
	"time"

	"github.com/Nishashahzad/ISLAMIC-CENTER-LMS/internal/curriculum"
	"github.com/Nishashahzad/ISLAMIC-CENTER-LMS/internal/model"
	"github.com/Nishashahzad/ISLAMIC-CENTER-LMS/internal/repository"
	"github.com/Nishashahzad/ISLAMIC-CENTER-LMS/internal/util"
)

type ResultView struct {
	repository.AttemptResultRow
	Percentage float64 `json:"percentage"`
	Grade      string  `json:"grade"`
}

type SubmissionView struct {
	repository.SubmissionRow
	// Percentage is set once the submission carries marks.
	Percentage *float64 `json:"percentage,omitempty"`
}

type SubmissionStats struct {
	Total      int `json:"total"`
	Graded     int `json:"graded"`
	Pending    int `json:"pending"`
	AutoGraded int `json:"autoGraded"`
}

type AssignmentSubmissions struct {
	Assignment  *model.Assignment `json:"assignment"`
	Submissions []SubmissionView  `json:"submissions"`
	Stats       SubmissionStats   `json:"stats"`
}

type ReportService struct {
	Users       *repository.UserRepository
	Quizzes     *repository.QuizRepository
	Assignments *repository.AssignmentRepository
	Reports     *repository.ReportRepository
	Catalog     *curriculum.Catalog
	Now         Clock
}

func NewReportService(
	users *repository.UserRepository,
	quizzes *repository.QuizRepository,
	assignments *repository.AssignmentRepository,
	reports *repository.ReportRepository,
	catalog *curriculum.Catalog,
) *ReportService {
	return &ReportService{
		Users:       users,
		Quizzes:     quizzes,
		Assignments: assignments,
		Reports:     reports,
		Catalog:     catalog,
		Now:         time.Now,
	}
}

func toResultViews(rows []repository.AttemptResultRow) []ResultView {
	out := make([]ResultView, 0, len(rows))
	for _, r := range rows {
		pct := Percentage(r.TotalScore, r.TotalMarks)
		out = append(out, ResultView{AttemptResultRow: r, Percentage: pct, Grade: LetterGrade(pct)})
	}
	return out
}

func toSubmissionViews(rows []repository.SubmissionRow) []SubmissionView {
	out := make([]SubmissionView, 0, len(rows))
	for _, r := range rows {
		v := SubmissionView{SubmissionRow: r}
		if r.MarksObtained != nil {
			pct := Percentage(*r.MarksObtained, r.TotalMarks)
			v.Percentage = &pct
		}
		out = append(out, v)
	}
	return out
}

// StudentResults lists the student's finished attempts.
func (s *ReportService) StudentResults(ctx context.Context, studentUserID string) ([]ResultView, error) {
	student, err := resolveStudent(ctx, s.Users, studentUserID)
	if err != nil {
		return nil, err
	}
	rows, err := s.Reports.StudentResults(ctx, student.ID)
	if err != nil {
		return nil, util.Storage("student results", err)
	}
	return toResultViews(rows), nil
}

// QuizResults lists finished attempts of a quiz the teacher owns, best first.
func (s *ReportService) QuizResults(ctx context.Context, quizID uint, teacherUserID string) ([]ResultView, error) {
	teacher, err := resolveTeacher(ctx, s.Users, teacherUserID)
	if err != nil {
		return nil, err
	}
	quiz, err := s.Quizzes.FindByID(ctx, quizID)
	if err != nil {
		return nil, util.Storage("find quiz", err)
	}
	if quiz.TeacherID != teacher.ID {
		return nil, util.ErrNotOwner
	}
	rows, err := s.Reports.QuizResults(ctx, quiz.ID)
	if err != nil {
		return nil, util.Storage("quiz results", err)
	}
	return toResultViews(rows), nil
}

func (s *ReportService) StudentSubmissions(ctx context.Context, studentUserID string) ([]SubmissionView, error) {
	student, err := resolveStudent(ctx, s.Users, studentUserID)
	if err != nil {
		return nil, err
	}
	rows, err := s.Reports.StudentSubmissions(ctx, student.ID)
	if err != nil {
		return nil, util.Storage("student submissions", err)
	}
	return toSubmissionViews(rows), nil
}

// AssignmentSubmissions lists submissions of an assignment the teacher owns with counts.
func (s *ReportService) AssignmentSubmissions(ctx context.Context, assignmentID uint, teacherUserID string) (*AssignmentSubmissions, error) {
	teacher, err := resolveTeacher(ctx, s.Users, teacherUserID)
	if err != nil {
		return nil, err
	}
	assignment, err := s.Assignments.FindByID(ctx, assignmentID)
	if err != nil {
		return nil, util.Storage("find assignment", err)
	}
	if assignment.TeacherID != teacher.ID {
		return nil, util.ErrNotOwner
	}
	rows, err := s.Reports.AssignmentSubmissions(ctx, assignment.ID)
	if err != nil {
		return nil, util.Storage("assignment submissions", err)
	}

	res := &AssignmentSubmissions{
		Assignment:  assignment,
		Submissions: toSubmissionViews(rows),
	}
	for _, r := range rows {
		res.Stats.Total++
		if r.MarksObtained == nil {
			res.Stats.Pending++
		} else {
			res.Stats.Graded++
		}
		if r.AutoGraded {
			res.Stats.AutoGraded++
		}
	}
	return res, nil
}

// PendingGrading is the teacher's queue of submissions without marks.
func (s *ReportService) PendingGrading(ctx context.Context, teacherUserID string) ([]SubmissionView, error) {
	teacher, err := resolveTeacher(ctx, s.Users, teacherUserID)
	if err != nil {
		return nil, err
	}
	rows, err := s.Reports.PendingGrading(ctx, teacher.ID)
	if err != nil {
		return nil, util.Storage("pending grading", err)
	}
	return toSubmissionViews(rows), nil
}

// UpcomingDeadlines lists assignments and quizzes closing within the next days,
// soonest first. Students with a curriculum year only see that year's subjects.
func (s *ReportService) UpcomingDeadlines(ctx context.Context, studentUserID string, days int) ([]repository.DeadlineRow, error) {
	student, err := resolveStudent(ctx, s.Users, studentUserID)
	if err != nil {
		return nil, err
	}
	if days <= 0 {
		return nil, util.NewValidationError("invalid window", util.FieldError{Field: "days", Error: "must be greater than 0"})
	}

	var subjects []string
	if s.Catalog != nil && student.CurrentYear > 0 {
		if list, ok := s.Catalog.SubjectsForYear(student.CurrentYear); ok {
			for _, subj := range list {
				subjects = append(subjects, subj.Name)
			}
		}
	}

	now := s.Now()
	rows, err := s.Reports.Deadlines(ctx, student.ID, subjects, now, now.AddDate(0, 0, days))
	if err != nil {
		return nil, util.Storage("upcoming deadlines", err)
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].DueDate.Before(rows[j].DueDate) })
	return rows, nil
}
