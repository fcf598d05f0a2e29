package service

import (
	"context"
	"time"

	"github.com/Nishashahzad/ISLAMIC-CENTER-LMS/internal/curriculum"
	"github.com/Nishashahzad/ISLAMIC-CENTER-LMS/internal/model"
	"github.com/Nishashahzad/ISLAMIC-CENTER-LMS/internal/repository"
	"github.com/Nishashahzad/ISLAMIC-CENTER-LMS/internal/util"
	"github.com/Nishashahzad/ISLAMIC-CENTER-LMS/pkg/logger"

	"go.uber.org/zap"
)

// DefaultAssignmentMarks applies when an assignment is created without a total.
const DefaultAssignmentMarks = 100

type AssignmentInput struct {
	SubjectName string    `json:"subjectName" validate:"required,max=255"`
	Title       string    `json:"title" validate:"required,max=255"`
	Description string    `json:"description"`
	StartDate   time.Time `json:"startDate" validate:"required"`
	DueDate     time.Time `json:"dueDate" validate:"required,gtefield=StartDate"`
	TotalMarks  int       `json:"totalMarks" validate:"gte=0"`
}

// FileUpload is an uploaded file held in memory.
type FileUpload struct {
	Name string
	Data []byte
}

type AssignmentService struct {
	Users       *repository.UserRepository
	Assignments *repository.AssignmentRepository
	Catalog     *curriculum.Catalog
	Files       FileStore
}

func NewAssignmentService(users *repository.UserRepository, assignments *repository.AssignmentRepository, catalog *curriculum.Catalog, files FileStore) *AssignmentService {
	return &AssignmentService{
		Users:       users,
		Assignments: assignments,
		Catalog:     catalog,
		Files:       files,
	}
}

func (s *AssignmentService) CreateAssignment(ctx context.Context, teacherUserID string, in AssignmentInput, brief *FileUpload) (*model.Assignment, error) {
	teacher, err := resolveTeacher(ctx, s.Users, teacherUserID)
	if err != nil {
		return nil, err
	}
	if err := validateStruct(&in); err != nil {
		return nil, err
	}
	if err := checkSubject(s.Catalog, teacher, in.SubjectName); err != nil {
		return nil, err
	}

	a := &model.Assignment{
		TeacherID:   teacher.ID,
		SubjectName: in.SubjectName,
		Title:       in.Title,
		Description: in.Description,
		StartDate:   in.StartDate,
		DueDate:     in.DueDate,
		TotalMarks:  in.TotalMarks,
	}
	if a.TotalMarks == 0 {
		a.TotalMarks = DefaultAssignmentMarks
	}

	if brief != nil && len(brief.Data) > 0 {
		if s.Files == nil {
			return nil, util.Storage("store brief", errNoFileStore)
		}
		ref, err := s.Files.Store(ctx, brief.Data, brief.Name)
		if err != nil {
			return nil, err
		}
		a.FileName = brief.Name
		a.FilePath = ref
	}

	if err := s.Assignments.Create(ctx, a); err != nil {
		return nil, util.Storage("create assignment", err)
	}
	logger.Log.Info("Assignment created",
		zap.Uint("assignmentId", a.ID),
		zap.Uint("teacherId", teacher.ID),
		zap.Time("dueDate", a.DueDate),
	)
	return a, nil
}

// DeleteAssignment removes an assignment the teacher owns along with its submissions.
func (s *AssignmentService) DeleteAssignment(ctx context.Context, assignmentID uint, teacherUserID string) error {
	teacher, err := resolveTeacher(ctx, s.Users, teacherUserID)
	if err != nil {
		return err
	}
	a, err := s.Assignments.FindByID(ctx, assignmentID)
	if err != nil {
		return util.Storage("find assignment", err)
	}
	if a.TeacherID != teacher.ID {
		return util.ErrNotOwner
	}
	files, err := s.Assignments.SubmissionFiles(ctx, a.ID)
	if err != nil {
		return util.Storage("list submission files", err)
	}
	if err := s.Assignments.Delete(ctx, a.ID); err != nil {
		return util.Storage("delete assignment", err)
	}

	removeFile(ctx, s.Files, a.FilePath)
	for _, ref := range files {
		removeFile(ctx, s.Files, ref)
	}
	logger.Log.Info("Assignment deleted", zap.Uint("assignmentId", a.ID))
	return nil
}

func (s *AssignmentService) ListTeacherAssignments(ctx context.Context, teacherUserID, subject string) ([]model.Assignment, error) {
	teacher, err := resolveTeacher(ctx, s.Users, teacherUserID)
	if err != nil {
		return nil, err
	}
	list, err := s.Assignments.ListByTeacher(ctx, teacher.ID, subject)
	if err != nil {
		return nil, util.Storage("list assignments", err)
	}
	return list, nil
}

// Brief returns the assignment and its attached brief file.
func (s *AssignmentService) Brief(ctx context.Context, assignmentID uint) (*model.Assignment, []byte, error) {
	a, err := s.Assignments.FindByID(ctx, assignmentID)
	if err != nil {
		return nil, nil, util.Storage("find assignment", err)
	}
	if a.FilePath == "" || s.Files == nil {
		return nil, nil, util.ErrFileNotFound
	}
	data, err := s.Files.Resolve(ctx, a.FilePath)
	if err != nil {
		return nil, nil, util.Storage("resolve brief", err)
	}
	return a, data, nil
}
