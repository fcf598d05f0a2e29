package repository

import (
	"context"
	"time"

	"github.com/Nishashahzad/ISLAMIC-CENTER-LMS/internal/model"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// ReportRepository serves the read-only joins behind result and submission listings.
type ReportRepository struct {
	DB *gorm.DB
}

func NewReportRepository(db *gorm.DB) *ReportRepository {
	return &ReportRepository{DB: db}
}

type AttemptResultRow struct {
	AttemptID        uint                `json:"attemptId"`
	QuizID           uint                `json:"quizId"`
	QuizTitle        string              `json:"quizTitle"`
	SubjectName      string              `json:"subjectName"`
	TeacherName      string              `json:"teacherName"`
	StudentID        uint                `json:"studentId"`
	StudentUserID    string              `json:"studentUserId"`
	StudentName      string              `json:"studentName"`
	Status           model.AttemptStatus `json:"status"`
	TotalScore       int                 `json:"totalScore"`
	TotalMarks       int                 `json:"totalMarks"`
	TimeTakenMinutes int                 `json:"timeTakenMinutes"`
	StartedAt        time.Time           `json:"startedAt"`
	SubmittedAt      *time.Time          `json:"submittedAt"`
}

func (r *ReportRepository) attemptResults(ctx context.Context) *gorm.DB {
	return r.DB.WithContext(ctx).
		Table("quiz_attempts a").
		Select("a.id AS attempt_id, a.quiz_id, q.title AS quiz_title, q.subject_name, " +
			"COALESCE(t.full_name, '') AS teacher_name, a.student_id, COALESCE(s.user_id, '') AS student_user_id, COALESCE(s.full_name, '') AS student_name, " +
			"a.status, a.total_score, q.total_marks, a.time_taken_minutes, a.started_at, a.submitted_at").
		Joins("JOIN quizzes q ON q.id = a.quiz_id").
		Joins("LEFT JOIN users t ON t.id = q.teacher_id").
		Joins("LEFT JOIN users s ON s.id = a.student_id")
}

// StudentResults lists the student's finished attempts, newest first.
func (r *ReportRepository) StudentResults(ctx context.Context, studentID uint) ([]AttemptResultRow, error) {
	var rows []AttemptResultRow
	err := r.attemptResults(ctx).
		Where("a.student_id = ? AND a.status = ?", studentID, model.AttemptFinished).
		Order("a.submitted_at DESC, a.id DESC").
		Scan(&rows).Error
	return rows, errors.Wrap(err, "student results")
}

// QuizResults lists finished attempts of one quiz, best score first.
func (r *ReportRepository) QuizResults(ctx context.Context, quizID uint) ([]AttemptResultRow, error) {
	var rows []AttemptResultRow
	err := r.attemptResults(ctx).
		Where("a.quiz_id = ? AND a.status = ?", quizID, model.AttemptFinished).
		Order("a.total_score DESC, a.submitted_at ASC, a.id ASC").
		Scan(&rows).Error
	return rows, errors.Wrap(err, "quiz results")
}

type SubmissionRow struct {
	SubmissionID    uint                   `json:"submissionId"`
	AssignmentID    uint                   `json:"assignmentId"`
	AssignmentTitle string                 `json:"assignmentTitle"`
	SubjectName     string                 `json:"subjectName"`
	TeacherName     string                 `json:"teacherName"`
	TotalMarks      int                    `json:"totalMarks"`
	DueDate         time.Time              `json:"dueDate"`
	StudentID       uint                   `json:"studentId"`
	StudentUserID   string                 `json:"studentUserId"`
	StudentName     string                 `json:"studentName"`
	SubmissionText  string                 `json:"submissionText"`
	FileName        string                 `json:"fileName,omitempty"`
	FilePath        string                 `json:"filePath,omitempty"`
	SubmissionDate  time.Time              `json:"submissionDate"`
	MarksObtained   *int                   `json:"marksObtained"`
	Feedback        string                 `json:"feedback"`
	Status          model.SubmissionStatus `json:"status"`
	AutoGraded      bool                   `json:"autoGraded"`
	GradedBy        *uint                  `json:"gradedBy,omitempty"`
	GraderName      *string                `json:"graderName,omitempty"`
	GradedDate      *time.Time             `json:"gradedDate,omitempty"`
}

func (r *ReportRepository) submissions(ctx context.Context) *gorm.DB {
	return r.DB.WithContext(ctx).
		Table("assignment_submissions sb").
		Select("sb.id AS submission_id, sb.assignment_id, a.title AS assignment_title, a.subject_name, " +
			"COALESCE(t.full_name, '') AS teacher_name, a.total_marks, a.due_date, sb.student_id, " +
			"COALESCE(s.user_id, '') AS student_user_id, COALESCE(s.full_name, '') AS student_name, sb.submission_text, sb.file_name, sb.file_path, " +
			"sb.submission_date, sb.marks_obtained, sb.feedback, sb.status, sb.auto_graded, sb.graded_by, " +
			"g.full_name AS grader_name, sb.graded_date").
		Joins("JOIN assignments a ON a.id = sb.assignment_id").
		Joins("LEFT JOIN users t ON t.id = a.teacher_id").
		Joins("LEFT JOIN users s ON s.id = sb.student_id").
		Joins("LEFT JOIN users g ON g.id = sb.graded_by")
}

func (r *ReportRepository) StudentSubmissions(ctx context.Context, studentID uint) ([]SubmissionRow, error) {
	var rows []SubmissionRow
	err := r.submissions(ctx).
		Where("sb.student_id = ?", studentID).
		Order("sb.submission_date DESC, sb.id DESC").
		Scan(&rows).Error
	return rows, errors.Wrap(err, "student submissions")
}

func (r *ReportRepository) AssignmentSubmissions(ctx context.Context, assignmentID uint) ([]SubmissionRow, error) {
	var rows []SubmissionRow
	err := r.submissions(ctx).
		Where("sb.assignment_id = ?", assignmentID).
		Order("sb.submission_date DESC, sb.id DESC").
		Scan(&rows).Error
	return rows, errors.Wrap(err, "assignment submissions")
}

// PendingGrading lists ungraded submissions on the teacher's assignments, oldest first.
func (r *ReportRepository) PendingGrading(ctx context.Context, teacherID uint) ([]SubmissionRow, error) {
	var rows []SubmissionRow
	err := r.submissions(ctx).
		Where("a.teacher_id = ? AND sb.marks_obtained IS NULL", teacherID).
		Order("sb.submission_date ASC, sb.id ASC").
		Scan(&rows).Error
	return rows, errors.Wrap(err, "pending grading")
}

type DeadlineRow struct {
	Kind        string    `json:"kind"` // quiz or assignment
	ID          uint      `json:"id"`
	Title       string    `json:"title"`
	SubjectName string    `json:"subjectName"`
	TeacherName string    `json:"teacherName"`
	DueDate     time.Time `json:"dueDate"`
	TotalMarks  int       `json:"totalMarks"`
	Done        bool      `json:"done"`
}

// Deadlines lists assignments due and published quizzes closing within [from, to].
// Done is set when the student already submitted or finished an attempt.
// An empty subjects list matches every subject.
func (r *ReportRepository) Deadlines(ctx context.Context, studentID uint, subjects []string, from, to time.Time) ([]DeadlineRow, error) {
	type row struct {
		ID          uint
		Title       string
		SubjectName string
		TeacherName string
		DueDate     time.Time
		TotalMarks  int
		Done        int64
	}

	var assignments []row
	aq := r.DB.WithContext(ctx).
		Table("assignments a").
		Select("a.id, a.title, a.subject_name, COALESCE(t.full_name, '') AS teacher_name, a.due_date, a.total_marks, "+
			"(SELECT COUNT(*) FROM assignment_submissions sb WHERE sb.assignment_id = a.id AND sb.student_id = ?) AS done", studentID).
		Joins("LEFT JOIN users t ON t.id = a.teacher_id").
		Where("a.due_date >= ? AND a.due_date <= ?", from, to)
	if len(subjects) > 0 {
		aq = aq.Where("a.subject_name IN ?", subjects)
	}
	if err := aq.Scan(&assignments).Error; err != nil {
		return nil, errors.Wrap(err, "upcoming assignments")
	}

	var quizzes []row
	qq := r.DB.WithContext(ctx).
		Table("quizzes q").
		Select("q.id, q.title, q.subject_name, COALESCE(t.full_name, '') AS teacher_name, q.end_date AS due_date, q.total_marks, "+
			"(SELECT COUNT(*) FROM quiz_attempts qa WHERE qa.quiz_id = q.id AND qa.student_id = ? AND qa.status = ?) AS done",
			studentID, model.AttemptFinished).
		Joins("LEFT JOIN users t ON t.id = q.teacher_id").
		Where("q.is_published = ? AND q.end_date >= ? AND q.end_date <= ?", true, from, to)
	if len(subjects) > 0 {
		qq = qq.Where("q.subject_name IN ?", subjects)
	}
	if err := qq.Scan(&quizzes).Error; err != nil {
		return nil, errors.Wrap(err, "upcoming quizzes")
	}

	out := make([]DeadlineRow, 0, len(assignments)+len(quizzes))
	for _, a := range assignments {
		out = append(out, DeadlineRow{Kind: "assignment", ID: a.ID, Title: a.Title, SubjectName: a.SubjectName,
			TeacherName: a.TeacherName, DueDate: a.DueDate, TotalMarks: a.TotalMarks, Done: a.Done > 0})
	}
	for _, q := range quizzes {
		out = append(out, DeadlineRow{Kind: "quiz", ID: q.ID, Title: q.Title, SubjectName: q.SubjectName,
			TeacherName: q.TeacherName, DueDate: q.DueDate, TotalMarks: q.TotalMarks, Done: q.Done > 0})
	}
	return out, nil
}
