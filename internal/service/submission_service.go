package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/Nishashahzad/ISLAMIC-CENTER-LMS/internal/config"
	"github.com/Nishashahzad/ISLAMIC-CENTER-LMS/internal/model"
	"github.com/Nishashahzad/ISLAMIC-CENTER-LMS/internal/repository"
	"github.com/Nishashahzad/ISLAMIC-CENTER-LMS/internal/util"
	"github.com/Nishashahzad/ISLAMIC-CENTER-LMS/pkg/logger"
	"github.com/Nishashahzad/ISLAMIC-CENTER-LMS/pkg/monitoring"
	"github.com/Nishashahzad/ISLAMIC-CENTER-LMS/pkg/tracing"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

var errNoFileStore = errors.New("no file store configured")

// SubmissionService runs the assignment lifecycle:
// unsubmitted -> submitted -> graded, or unsubmitted -> auto-graded once overdue.
type SubmissionService struct {
	Users       *repository.UserRepository
	Assignments *repository.AssignmentRepository
	Submissions *repository.SubmissionRepository
	Files       FileStore
	Notifier    Notifier
	Now         Clock

	feedback atomic.Value // string
}

func NewSubmissionService(
	users *repository.UserRepository,
	assignments *repository.AssignmentRepository,
	submissions *repository.SubmissionRepository,
	files FileStore,
	notifier Notifier,
	autoGradeFeedback string,
) *SubmissionService {
	s := &SubmissionService{
		Users:       users,
		Assignments: assignments,
		Submissions: submissions,
		Files:       files,
		Notifier:    notifier,
		Now:         time.Now,
	}
	s.SetAutoGradeFeedback(autoGradeFeedback)
	return s
}

// SetAutoGradeFeedback changes the message stored on auto-graded submissions.
func (s *SubmissionService) SetAutoGradeFeedback(msg string) {
	if strings.TrimSpace(msg) == "" {
		msg = config.DefaultAutoGradeFeedback
	}
	s.feedback.Store(msg)
}

func (s *SubmissionService) AutoGradeFeedback() string {
	if v, ok := s.feedback.Load().(string); ok {
		return v
	}
	return config.DefaultAutoGradeFeedback
}

// Submit records a student's submission. It is rejected after the due date and
// when a real submission already exists; an auto-graded one is replaced.
func (s *SubmissionService) Submit(ctx context.Context, studentUserID string, assignmentID uint, text string, file *FileUpload) (sub *model.Submission, err error) {
	ctx, span := tracing.Start(ctx, "SubmissionService.Submit", attribute.Int64("assignment", int64(assignmentID)))
	defer func() { tracing.End(span, err) }()

	student, err := resolveStudent(ctx, s.Users, studentUserID)
	if err != nil {
		return nil, err
	}
	assignment, err := s.Assignments.FindByID(ctx, assignmentID)
	if err != nil {
		return nil, util.Storage("find assignment", err)
	}
	now := s.Now()
	if assignment.Overdue(now) {
		return nil, util.ErrLateSubmission
	}
	existing, err := s.Submissions.FindByAssignmentAndStudent(ctx, assignment.ID, student.ID)
	switch {
	case err == nil && !existing.AutoGraded:
		return nil, util.ErrAlreadySubmitted
	case err != nil && !errors.Is(err, util.ErrNotFound):
		return nil, util.Storage("find submission", err)
	}

	hasFile := file != nil && len(file.Data) > 0
	if strings.TrimSpace(text) == "" && !hasFile {
		return nil, util.NewValidationError("submission is empty",
			util.FieldError{Field: "submissionText", Error: "text or a file is required"})
	}

	sub = &model.Submission{
		AssignmentID:   assignment.ID,
		StudentID:      student.ID,
		SubmissionText: text,
		SubmissionDate: now,
		Status:         model.SubmissionSubmitted,
	}
	if hasFile {
		if s.Files == nil {
			return nil, util.Storage("store submission file", errNoFileStore)
		}
		ref, err := s.Files.Store(ctx, file.Data, file.Name)
		if err != nil {
			return nil, err
		}
		sub.FileName = file.Name
		sub.FilePath = ref
	}

	replaced, err := s.Submissions.Submit(ctx, sub)
	if err != nil {
		removeFile(ctx, s.Files, sub.FilePath)
		return nil, util.Storage("submit assignment", err)
	}

	event := monitoring.EventSubmitted
	if replaced {
		event = monitoring.EventResubmitted
	}
	monitoring.GradingEvents.WithLabelValues(event).Inc()
	logger.Log.Info("Assignment submitted",
		zap.Uint("assignmentId", assignment.ID),
		zap.Uint("studentId", student.ID),
		zap.Bool("replacedAutoGrade", replaced),
	)
	return sub, nil
}

// Grade records the owning teacher's marks and feedback, then notifies the
// student. Notification failures are logged only.
func (s *SubmissionService) Grade(ctx context.Context, submissionID uint, teacherUserID string, marks int, feedback string) (sub *model.Submission, err error) {
	ctx, span := tracing.Start(ctx, "SubmissionService.Grade", attribute.Int64("submission", int64(submissionID)))
	defer func() { tracing.End(span, err) }()

	teacher, err := resolveTeacher(ctx, s.Users, teacherUserID)
	if err != nil {
		return nil, err
	}
	sub, err = s.Submissions.FindByID(ctx, submissionID)
	if err != nil {
		return nil, util.Storage("find submission", err)
	}
	assignment := sub.Assignment
	if assignment == nil {
		if assignment, err = s.Assignments.FindByID(ctx, sub.AssignmentID); err != nil {
			return nil, util.Storage("find assignment", err)
		}
	}
	if assignment.TeacherID != teacher.ID {
		return nil, util.ErrNotOwner
	}
	if marks < 0 || marks > assignment.TotalMarks {
		return nil, util.NewValidationError("marks out of range",
			util.FieldError{Field: "marksObtained", Error: fmt.Sprintf("must be between 0 and %d", assignment.TotalMarks)})
	}

	now := s.Now()
	if err := s.Submissions.Grade(ctx, sub.ID, marks, feedback, teacher.ID, now); err != nil {
		return nil, util.Storage("grade submission", err)
	}
	sub.MarksObtained = &marks
	sub.Feedback = feedback
	sub.GradedBy = &teacher.ID
	sub.GradedDate = &now
	sub.Status = model.SubmissionGraded

	monitoring.GradingEvents.WithLabelValues(monitoring.EventGraded).Inc()
	notifyBestEffort(ctx, s.Notifier, sub.StudentID, "Assignment graded",
		fmt.Sprintf("Your submission for %q was graded: %d/%d.", assignment.Title, marks, assignment.TotalMarks))
	return sub, nil
}

// AutoGrade gives a zero grade to a student who missed the deadline. It is
// safe to call repeatedly: once any submission exists it reports
// util.ErrAlreadySubmitted. teacherUserID is optional; when set it must own the
// assignment.
func (s *SubmissionService) AutoGrade(ctx context.Context, studentUserID string, assignmentID uint, teacherUserID string) (sub *model.Submission, err error) {
	ctx, span := tracing.Start(ctx, "SubmissionService.AutoGrade", attribute.Int64("assignment", int64(assignmentID)))
	defer func() { tracing.End(span, err) }()

	student, err := resolveStudent(ctx, s.Users, studentUserID)
	if err != nil {
		return nil, err
	}
	assignment, err := s.Assignments.FindByID(ctx, assignmentID)
	if err != nil {
		return nil, util.Storage("find assignment", err)
	}
	if teacherUserID != "" {
		teacher, err := resolveTeacher(ctx, s.Users, teacherUserID)
		if err != nil {
			return nil, err
		}
		if assignment.TeacherID != teacher.ID {
			return nil, util.ErrNotOwner
		}
	}

	_, err = s.Submissions.FindByAssignmentAndStudent(ctx, assignment.ID, student.ID)
	if err == nil {
		return nil, util.ErrAlreadySubmitted
	}
	if !errors.Is(err, util.ErrNotFound) {
		return nil, util.Storage("find submission", err)
	}

	now := s.Now()
	if !assignment.Overdue(now) {
		return nil, util.ErrNotYetOverdue
	}

	zero := 0
	sub = &model.Submission{
		AssignmentID:   assignment.ID,
		StudentID:      student.ID,
		SubmissionDate: now,
		MarksObtained:  &zero,
		Feedback:       s.AutoGradeFeedback(),
		GradedDate:     &now,
		Status:         model.SubmissionGraded,
		AutoGraded:     true,
	}
	if err := s.Submissions.CreateAutoGraded(ctx, sub); err != nil {
		return nil, util.Storage("auto-grade", err)
	}

	monitoring.GradingEvents.WithLabelValues(monitoring.EventAutoGraded).Inc()
	logger.Log.Info("Assignment auto-graded",
		zap.Uint("assignmentId", assignment.ID),
		zap.Uint("studentId", student.ID),
	)
	notifyBestEffort(ctx, s.Notifier, student.ID, "Assignment auto-graded",
		fmt.Sprintf("%q was not submitted before the deadline and received 0/%d.", assignment.Title, assignment.TotalMarks))
	return sub, nil
}

// GetSubmission is visible to the submitting student and the assignment owner.
func (s *SubmissionService) GetSubmission(ctx context.Context, submissionID uint, callerUserID string) (*model.Submission, error) {
	caller, err := s.Users.FindByUserID(ctx, callerUserID)
	if err != nil {
		return nil, util.Storage("resolve caller", err)
	}
	sub, err := s.Submissions.FindByID(ctx, submissionID)
	if err != nil {
		return nil, util.Storage("find submission", err)
	}
	if sub.StudentID == caller.ID {
		return sub, nil
	}
	if sub.Assignment != nil && sub.Assignment.TeacherID == caller.ID {
		return sub, nil
	}
	return nil, util.ErrNotOwner
}

// File returns a submission's attached file to anyone allowed to read the submission.
func (s *SubmissionService) File(ctx context.Context, submissionID uint, callerUserID string) (*model.Submission, []byte, error) {
	sub, err := s.GetSubmission(ctx, submissionID, callerUserID)
	if err != nil {
		return nil, nil, err
	}
	if sub.FilePath == "" || s.Files == nil {
		return nil, nil, util.ErrFileNotFound
	}
	data, err := s.Files.Resolve(ctx, sub.FilePath)
	if err != nil {
		return nil, nil, util.Storage("resolve submission file", err)
	}
	return sub, data, nil
}
