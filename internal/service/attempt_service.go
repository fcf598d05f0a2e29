package service

import (
	"context"
	"time"

	"github.com/Nishashahzad/ISLAMIC-CENTER-LMS/internal/model"
	"github.com/Nishashahzad/ISLAMIC-CENTER-LMS/internal/repository"
	"github.com/Nishashahzad/ISLAMIC-CENTER-LMS/internal/util"
	"github.com/Nishashahzad/ISLAMIC-CENTER-LMS/pkg/logger"
	"github.com/Nishashahzad/ISLAMIC-CENTER-LMS/pkg/monitoring"
	"github.com/Nishashahzad/ISLAMIC-CENTER-LMS/pkg/tracing"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

type AnswerInput struct {
	QuestionID       uint   `json:"questionId" validate:"required"`
	SelectedOptionID *uint  `json:"selectedOptionId"`
	AnswerText       string `json:"answerText"`
}

// AttemptView is an attempt with its score expressed against the quiz total.
type AttemptView struct {
	*model.Attempt
	QuizTitle  string  `json:"quizTitle"`
	TotalMarks int     `json:"totalMarks"`
	Percentage float64 `json:"percentage"`
	Grade      string  `json:"grade"`
}

func newAttemptView(a *model.Attempt, quiz *model.Quiz) *AttemptView {
	pct := Percentage(a.TotalScore, quiz.TotalMarks)
	return &AttemptView{
		Attempt:    a,
		QuizTitle:  quiz.Title,
		TotalMarks: quiz.TotalMarks,
		Percentage: pct,
		Grade:      LetterGrade(pct),
	}
}

type AttemptService struct {
	Users    *repository.UserRepository
	Quizzes  *repository.QuizRepository
	Attempts *repository.AttemptRepository
	Now      Clock
}

func NewAttemptService(users *repository.UserRepository, quizzes *repository.QuizRepository, attempts *repository.AttemptRepository) *AttemptService {
	return &AttemptService{
		Users:    users,
		Quizzes:  quizzes,
		Attempts: attempts,
		Now:      time.Now,
	}
}

func availability(quiz *model.Quiz, now time.Time) error {
	if !quiz.IsPublished {
		return util.ErrQuizNotPublished
	}
	if !quiz.OpenAt(now) {
		return util.ErrQuizOutsideWindow
	}
	return nil
}

// Start opens a new attempt for a published quiz inside its availability window.
func (s *AttemptService) Start(ctx context.Context, studentUserID string, quizID uint) (a *model.Attempt, err error) {
	ctx, span := tracing.Start(ctx, "AttemptService.Start", attribute.Int64("quiz", int64(quizID)))
	defer func() { tracing.End(span, err) }()

	student, err := resolveStudent(ctx, s.Users, studentUserID)
	if err != nil {
		return nil, err
	}
	quiz, err := s.Quizzes.FindByID(ctx, quizID)
	if err != nil {
		return nil, util.Storage("find quiz", err)
	}
	now := s.Now()
	if err := availability(quiz, now); err != nil {
		return nil, err
	}

	attempt := &model.Attempt{
		QuizID:    quiz.ID,
		StudentID: student.ID,
		Status:    model.AttemptInProgress,
		StartedAt: now,
	}
	if err := s.Attempts.Create(ctx, attempt); err != nil {
		return nil, util.Storage("start attempt", err)
	}
	monitoring.GradingEvents.WithLabelValues(monitoring.EventAttemptStarted).Inc()
	return attempt, nil
}

// SubmitAnswer scores and records one answer. Answering the same question
// again replaces the earlier answer.
func (s *AttemptService) SubmitAnswer(ctx context.Context, studentUserID string, attemptID uint, in AnswerInput) (*model.Answer, error) {
	if err := validateStruct(&in); err != nil {
		return nil, err
	}
	attempt, err := s.ownedOpenAttempt(ctx, studentUserID, attemptID)
	if err != nil {
		return nil, err
	}
	question, err := s.Quizzes.FindQuestion(ctx, attempt.QuizID, in.QuestionID)
	if err != nil {
		return nil, util.Storage("find question", err)
	}

	answer, err := buildAnswer(attempt.ID, question, in)
	if err != nil {
		return nil, err
	}
	if err := s.Attempts.UpsertAnswer(ctx, answer); err != nil {
		return nil, util.Storage("record answer", err)
	}
	monitoring.GradingEvents.WithLabelValues(monitoring.EventAnswerRecorded).Inc()
	return answer, nil
}

func buildAnswer(attemptID uint, q *model.Question, in AnswerInput) (*model.Answer, error) {
	correct, marks, err := ScoreAnswer(q, in.SelectedOptionID, in.AnswerText)
	if err != nil {
		return nil, err
	}
	answer := &model.Answer{
		AttemptID:     attemptID,
		QuestionID:    q.ID,
		IsCorrect:     correct,
		MarksObtained: marks,
	}
	if q.QuestionType.IsChoice() {
		answer.SelectedOptionID = in.SelectedOptionID
	} else {
		answer.AnswerText = in.AnswerText
	}
	return answer, nil
}

// Finish totals the attempt's answers and closes it.
func (s *AttemptService) Finish(ctx context.Context, studentUserID string, attemptID uint, timeTakenMinutes int) (v *AttemptView, err error) {
	ctx, span := tracing.Start(ctx, "AttemptService.Finish", attribute.Int64("attempt", int64(attemptID)))
	defer func() { tracing.End(span, err) }()

	if timeTakenMinutes < 0 {
		return nil, util.NewValidationError("invalid time taken",
			util.FieldError{Field: "timeTakenMinutes", Error: "must be at least 0"})
	}
	attempt, err := s.ownedOpenAttempt(ctx, studentUserID, attemptID)
	if err != nil {
		return nil, err
	}
	return s.finish(ctx, attempt, timeTakenMinutes)
}

func (s *AttemptService) finish(ctx context.Context, attempt *model.Attempt, timeTakenMinutes int) (*AttemptView, error) {
	now := s.Now()
	total, err := s.Attempts.Finish(ctx, attempt.ID, timeTakenMinutes, now)
	if err != nil {
		return nil, util.Storage("finish attempt", err)
	}
	return s.finished(ctx, attempt, total, timeTakenMinutes, now)
}

func (s *AttemptService) finished(ctx context.Context, attempt *model.Attempt, total, timeTakenMinutes int, now time.Time) (*AttemptView, error) {
	attempt.TotalScore = total
	attempt.TimeTakenMinutes = timeTakenMinutes
	attempt.Status = model.AttemptFinished
	attempt.SubmittedAt = &now

	quiz, err := s.Quizzes.FindByID(ctx, attempt.QuizID)
	if err != nil {
		return nil, util.Storage("find quiz", err)
	}
	view := newAttemptView(attempt, quiz)

	monitoring.GradingEvents.WithLabelValues(monitoring.EventAttemptFinished).Inc()
	monitoring.AttemptPercentage.Observe(view.Percentage)
	logger.Log.Info("Attempt finished",
		zap.Uint("attemptId", attempt.ID),
		zap.Uint("quizId", attempt.QuizID),
		zap.Int("score", total),
	)
	return view, nil
}

// SubmitQuiz starts, answers and finishes an attempt in one call. Every answer
// is scored before anything is written, and the writes share one transaction.
func (s *AttemptService) SubmitQuiz(ctx context.Context, studentUserID string, quizID uint, answers []AnswerInput, timeTakenMinutes int) (v *AttemptView, err error) {
	ctx, span := tracing.Start(ctx, "AttemptService.SubmitQuiz", attribute.Int64("quiz", int64(quizID)))
	defer func() { tracing.End(span, err) }()

	if timeTakenMinutes < 0 {
		return nil, util.NewValidationError("invalid time taken",
			util.FieldError{Field: "timeTakenMinutes", Error: "must be at least 0"})
	}
	student, err := resolveStudent(ctx, s.Users, studentUserID)
	if err != nil {
		return nil, err
	}
	quiz, err := s.Quizzes.FindWithQuestions(ctx, quizID)
	if err != nil {
		return nil, util.Storage("load quiz", err)
	}
	now := s.Now()
	if err := availability(quiz, now); err != nil {
		return nil, err
	}

	questions := make(map[uint]*model.Question, len(quiz.Questions))
	for i := range quiz.Questions {
		questions[quiz.Questions[i].ID] = &quiz.Questions[i]
	}
	scored := make([]*model.Answer, 0, len(answers))
	for _, in := range answers {
		if err := validateStruct(&in); err != nil {
			return nil, err
		}
		q, ok := questions[in.QuestionID]
		if !ok {
			return nil, util.ErrQuestionNotFound
		}
		answer, err := buildAnswer(0, q, in)
		if err != nil {
			return nil, err
		}
		scored = append(scored, answer)
	}

	attempt := &model.Attempt{
		QuizID:    quiz.ID,
		StudentID: student.ID,
		Status:    model.AttemptInProgress,
		StartedAt: now,
	}
	total, err := s.Attempts.CreateFinished(ctx, attempt, scored, timeTakenMinutes, now)
	if err != nil {
		return nil, util.Storage("submit quiz", err)
	}
	monitoring.GradingEvents.WithLabelValues(monitoring.EventAttemptStarted).Inc()
	return s.finished(ctx, attempt, total, timeTakenMinutes, now)
}

// GetAttempt returns an attempt with its answers to the student who made it
// or the teacher who owns the quiz.
func (s *AttemptService) GetAttempt(ctx context.Context, attemptID uint, callerUserID string) (*AttemptView, error) {
	caller, err := s.Users.FindByUserID(ctx, callerUserID)
	if err != nil {
		return nil, util.Storage("resolve caller", err)
	}
	attempt, err := s.Attempts.FindWithAnswers(ctx, attemptID)
	if err != nil {
		return nil, util.Storage("find attempt", err)
	}
	quiz, err := s.Quizzes.FindByID(ctx, attempt.QuizID)
	if err != nil {
		return nil, util.Storage("find quiz", err)
	}
	if attempt.StudentID != caller.ID && quiz.TeacherID != caller.ID {
		return nil, util.ErrNotOwner
	}
	return newAttemptView(attempt, quiz), nil
}

func (s *AttemptService) ownedOpenAttempt(ctx context.Context, studentUserID string, attemptID uint) (*model.Attempt, error) {
	student, err := resolveStudent(ctx, s.Users, studentUserID)
	if err != nil {
		return nil, err
	}
	attempt, err := s.Attempts.FindByID(ctx, attemptID)
	if err != nil {
		return nil, util.Storage("find attempt", err)
	}
	if attempt.StudentID != student.ID {
		return nil, util.ErrNotOwner
	}
	if attempt.Status == model.AttemptFinished {
		return nil, util.ErrAttemptFinished
	}
	return attempt, nil
}
