package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Nishashahzad/ISLAMIC-CENTER-LMS/internal/curriculum"
	"github.com/Nishashahzad/ISLAMIC-CENTER-LMS/internal/model"
	"github.com/Nishashahzad/ISLAMIC-CENTER-LMS/internal/repository"
	"github.com/Nishashahzad/ISLAMIC-CENTER-LMS/internal/util"
	"github.com/Nishashahzad/ISLAMIC-CENTER-LMS/pkg/logger"
	"github.com/Nishashahzad/ISLAMIC-CENTER-LMS/pkg/tracing"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

type QuizInput struct {
	SubjectName     string          `json:"subjectName" validate:"required,max=255"`
	Title           string          `json:"title" validate:"required,max=255"`
	Description     string          `json:"description"`
	StartDate       time.Time       `json:"startDate" validate:"required"`
	EndDate         time.Time       `json:"endDate" validate:"required,gtefield=StartDate"`
	TotalMarks      int             `json:"totalMarks" validate:"gte=0"`
	DurationMinutes int             `json:"durationMinutes" validate:"gte=0"`
	Questions       []QuestionInput `json:"questions" validate:"required,min=1,dive"`
}

type QuestionInput struct {
	QuestionText  string             `json:"questionText" validate:"required"`
	QuestionType  model.QuestionType `json:"questionType" validate:"required,oneof=mcq true_false short_answer"`
	Marks         int                `json:"marks" validate:"gt=0"`
	CorrectAnswer string             `json:"correctAnswer"`
	Options       []OptionInput      `json:"options" validate:"dive"`
}

type OptionInput struct {
	OptionText string `json:"optionText" validate:"required"`
	IsCorrect  bool   `json:"isCorrect"`
}

type CreateQuizResult struct {
	QuizID         uint `json:"quizId"`
	QuestionsCount int  `json:"questionsCount"`
	OptionsCount   int  `json:"optionsCount"`
}

// StudentQuiz is the quiz as a student sees it: no correctness data.
type StudentQuiz struct {
	ID              uint              `json:"id"`
	SubjectName     string            `json:"subjectName"`
	Title           string            `json:"title"`
	Description     string            `json:"description"`
	TeacherName     string            `json:"teacherName"`
	StartDate       time.Time         `json:"startDate"`
	EndDate         time.Time         `json:"endDate"`
	TotalMarks      int               `json:"totalMarks"`
	DurationMinutes int               `json:"durationMinutes"`
	QuestionsCount  int               `json:"questionsCount"`
	Questions       []StudentQuestion `json:"questions"`
}

type StudentQuestion struct {
	ID           uint               `json:"id"`
	QuestionText string             `json:"questionText"`
	QuestionType model.QuestionType `json:"questionType"`
	Marks        int                `json:"marks"`
	Position     int                `json:"position"`
	Options      []StudentOption    `json:"options"`
}

type StudentOption struct {
	ID         uint   `json:"id"`
	OptionText string `json:"optionText"`
	Position   int    `json:"position"`
}

type QuizService struct {
	Users   *repository.UserRepository
	Quizzes *repository.QuizRepository
	Catalog *curriculum.Catalog
}

func NewQuizService(users *repository.UserRepository, quizzes *repository.QuizRepository, catalog *curriculum.Catalog) *QuizService {
	return &QuizService{
		Users:   users,
		Quizzes: quizzes,
		Catalog: catalog,
	}
}

// CreateQuiz validates and stores a quiz with its questions and options.
func (s *QuizService) CreateQuiz(ctx context.Context, teacherUserID string, in QuizInput) (res *CreateQuizResult, err error) {
	ctx, span := tracing.Start(ctx, "QuizService.CreateQuiz", attribute.String("teacher", teacherUserID))
	defer func() { tracing.End(span, err) }()

	teacher, err := resolveTeacher(ctx, s.Users, teacherUserID)
	if err != nil {
		return nil, err
	}
	if err := validateQuizInput(&in); err != nil {
		return nil, err
	}
	if err := checkSubject(s.Catalog, teacher, in.SubjectName); err != nil {
		return nil, err
	}

	quiz := &model.Quiz{
		TeacherID:       teacher.ID,
		SubjectName:     in.SubjectName,
		Title:           in.Title,
		Description:     in.Description,
		StartDate:       in.StartDate,
		EndDate:         in.EndDate,
		TotalMarks:      in.TotalMarks,
		DurationMinutes: in.DurationMinutes,
		Questions:       make([]model.Question, 0, len(in.Questions)),
	}

	sumMarks := 0
	for _, qi := range in.Questions {
		q := model.Question{
			QuestionText:  qi.QuestionText,
			QuestionType:  qi.QuestionType,
			Marks:         qi.Marks,
			CorrectAnswer: qi.CorrectAnswer,
		}
		for _, oi := range qi.Options {
			q.Options = append(q.Options, model.Option{OptionText: oi.OptionText, IsCorrect: oi.IsCorrect})
			if qi.QuestionType.IsChoice() && oi.IsCorrect && q.CorrectAnswer == "" {
				q.CorrectAnswer = oi.OptionText
			}
		}
		sumMarks += qi.Marks
		quiz.Questions = append(quiz.Questions, q)
	}
	if quiz.TotalMarks == 0 {
		quiz.TotalMarks = sumMarks
	}

	optionsCount, err := s.Quizzes.CreateWithQuestions(ctx, quiz)
	if err != nil {
		return nil, util.Storage("create quiz", err)
	}

	logger.Log.Info("Quiz created",
		zap.Uint("quizId", quiz.ID),
		zap.Uint("teacherId", teacher.ID),
		zap.Int("questions", quiz.QuestionsCount),
	)

	return &CreateQuizResult{
		QuizID:         quiz.ID,
		QuestionsCount: quiz.QuestionsCount,
		OptionsCount:   optionsCount,
	}, nil
}

func validateQuizInput(in *QuizInput) error {
	if err := validateStruct(in); err != nil {
		return err
	}

	var fields []util.FieldError
	for i, q := range in.Questions {
		path := fmt.Sprintf("questions[%d]", i)
		if q.QuestionType.IsChoice() {
			if len(q.Options) == 0 {
				fields = append(fields, util.FieldError{Field: path + ".options", Error: "choice questions need at least one option"})
				continue
			}
			correct := 0
			for _, o := range q.Options {
				if o.IsCorrect {
					correct++
				}
			}
			if correct != 1 {
				fields = append(fields, util.FieldError{Field: path + ".options", Error: "exactly one option must be marked correct"})
			}
		} else if normalizeAnswer(q.CorrectAnswer) == "" {
			fields = append(fields, util.FieldError{Field: path + ".correctAnswer", Error: "is required for short answer questions"})
		}
	}
	if len(fields) > 0 {
		return util.NewValidationError("invalid questions", fields...)
	}
	return nil
}

// PublishQuiz publishes or unpublishes a quiz the teacher owns.
func (s *QuizService) PublishQuiz(ctx context.Context, quizID uint, teacherUserID string, publish bool) error {
	quiz, _, err := s.ownedQuiz(ctx, quizID, teacherUserID)
	if err != nil {
		return err
	}
	if quiz.IsPublished == publish {
		return nil
	}
	if err := s.Quizzes.SetPublished(ctx, quiz.ID, publish); err != nil {
		return util.Storage("publish quiz", err)
	}
	logger.Log.Info("Quiz publication changed", zap.Uint("quizId", quiz.ID), zap.Bool("published", publish))
	return nil
}

// DeleteQuiz removes a quiz the teacher owns, with its questions, options,
// attempts and answers.
func (s *QuizService) DeleteQuiz(ctx context.Context, quizID uint, teacherUserID string) (err error) {
	ctx, span := tracing.Start(ctx, "QuizService.DeleteQuiz", attribute.Int64("quiz", int64(quizID)))
	defer func() { tracing.End(span, err) }()

	quiz, _, err := s.ownedQuiz(ctx, quizID, teacherUserID)
	if err != nil {
		return err
	}
	if err := s.Quizzes.Delete(ctx, quiz.ID); err != nil {
		return util.Storage("delete quiz", err)
	}
	logger.Log.Info("Quiz deleted", zap.Uint("quizId", quiz.ID))
	return nil
}

// GetQuiz is the owning teacher's full read, including correctness data.
func (s *QuizService) GetQuiz(ctx context.Context, quizID uint, teacherUserID string) (*model.Quiz, error) {
	if _, _, err := s.ownedQuiz(ctx, quizID, teacherUserID); err != nil {
		return nil, err
	}
	quiz, err := s.Quizzes.FindWithQuestions(ctx, quizID)
	if err != nil {
		return nil, util.Storage("load quiz", err)
	}
	return quiz, nil
}

// GetQuizForStudent returns a published quiz with correctness data stripped.
func (s *QuizService) GetQuizForStudent(ctx context.Context, quizID uint) (*StudentQuiz, error) {
	quiz, err := s.Quizzes.FindWithQuestions(ctx, quizID)
	if err != nil {
		return nil, util.Storage("load quiz", err)
	}
	if !quiz.IsPublished {
		return nil, util.ErrQuizNotPublished
	}

	view := &StudentQuiz{
		ID:              quiz.ID,
		SubjectName:     quiz.SubjectName,
		Title:           quiz.Title,
		Description:     quiz.Description,
		StartDate:       quiz.StartDate,
		EndDate:         quiz.EndDate,
		TotalMarks:      quiz.TotalMarks,
		DurationMinutes: quiz.DurationMinutes,
		QuestionsCount:  quiz.QuestionsCount,
		Questions:       make([]StudentQuestion, 0, len(quiz.Questions)),
	}
	if quiz.Teacher != nil {
		view.TeacherName = quiz.Teacher.FullName
	}
	for _, q := range quiz.Questions {
		sq := StudentQuestion{
			ID:           q.ID,
			QuestionText: q.QuestionText,
			QuestionType: q.QuestionType,
			Marks:        q.Marks,
			Position:     q.Position,
			Options:      make([]StudentOption, 0, len(q.Options)),
		}
		for _, o := range q.Options {
			sq.Options = append(sq.Options, StudentOption{ID: o.ID, OptionText: o.OptionText, Position: o.Position})
		}
		view.Questions = append(view.Questions, sq)
	}
	return view, nil
}

func (s *QuizService) ListTeacherQuizzes(ctx context.Context, teacherUserID, subject string) ([]model.Quiz, error) {
	teacher, err := resolveTeacher(ctx, s.Users, teacherUserID)
	if err != nil {
		return nil, err
	}
	quizzes, err := s.Quizzes.ListByTeacher(ctx, teacher.ID, subject)
	if err != nil {
		return nil, util.Storage("list quizzes", err)
	}
	return quizzes, nil
}

func (s *QuizService) ownedQuiz(ctx context.Context, quizID uint, teacherUserID string) (*model.Quiz, *model.User, error) {
	teacher, err := resolveTeacher(ctx, s.Users, teacherUserID)
	if err != nil {
		return nil, nil, err
	}
	quiz, err := s.Quizzes.FindByID(ctx, quizID)
	if err != nil {
		return nil, nil, util.Storage("find quiz", err)
	}
	if quiz.TeacherID != teacher.ID {
		return nil, nil, util.ErrNotOwner
	}
	return quiz, teacher, nil
}
