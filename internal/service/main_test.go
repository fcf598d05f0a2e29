package service

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Nishashahzad/ISLAMIC-CENTER-LMS/internal/curriculum"
	"github.com/Nishashahzad/ISLAMIC-CENTER-LMS/internal/model"
	"github.com/Nishashahzad/ISLAMIC-CENTER-LMS/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var dbSeq int64

// env wires every service against a private in-memory database.
type env struct {
	t   *testing.T
	ctx context.Context
	db  *gorm.DB
	now time.Time

	users       *repository.UserRepository
	quizRepo    *repository.QuizRepository
	attemptRepo *repository.AttemptRepository
	assignRepo  *repository.AssignmentRepository
	subRepo     *repository.SubmissionRepository

	quizzes     *QuizService
	attempts    *AttemptService
	assignments *AssignmentService
	submissions *SubmissionService
	reports     *ReportService
	notifier    *recordingNotifier
	files       *memFiles
}

func newEnv(t *testing.T) *env {
	t.Helper()

	dsn := fmt.Sprintf("file:svc%d?mode=memory&cache=shared&_pragma=foreign_keys(1)", atomic.AddInt64(&dbSeq, 1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(model.All()...))

	e := &env{
		t:           t,
		ctx:         context.Background(),
		db:          db,
		now:         time.Date(2025, 1, 9, 12, 0, 0, 0, time.UTC),
		users:       repository.NewUserRepository(db),
		quizRepo:    repository.NewQuizRepository(db),
		attemptRepo: repository.NewAttemptRepository(db),
		assignRepo:  repository.NewAssignmentRepository(db),
		subRepo:     repository.NewSubmissionRepository(db),
		notifier:    &recordingNotifier{},
		files:       newMemFiles(),
	}
	clock := func() time.Time { return e.now }
	catalog := curriculum.Default()

	e.quizzes = NewQuizService(e.users, e.quizRepo, catalog)
	e.attempts = NewAttemptService(e.users, e.quizRepo, e.attemptRepo)
	e.attempts.Now = clock
	e.assignments = NewAssignmentService(e.users, e.assignRepo, catalog, e.files)
	e.submissions = NewSubmissionService(e.users, e.assignRepo, e.subRepo, e.files, e.notifier, "")
	e.submissions.Now = clock
	e.reports = NewReportService(e.users, e.quizRepo, e.assignRepo, repository.NewReportRepository(db), catalog)
	e.reports.Now = clock
	return e
}

func (e *env) user(userID string, role model.UserRole, subject string) *model.User {
	e.t.Helper()
	u := &model.User{UserID: userID, FullName: "User " + userID, Role: role, Subject: subject}
	require.NoError(e.t, e.users.Create(e.ctx, u))
	return u
}

func (e *env) teacher(userID string) *model.User {
	return e.user(userID, model.Teacher, "Aqaid")
}

func (e *env) student(userID string) *model.User {
	return e.user(userID, model.Student, "")
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func endOfDay(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 23, 59, 59, 0, time.UTC)
}

// mcqQuiz has one mcq question worth 10 marks with options A, B (correct), C.
func mcqQuiz() QuizInput {
	return QuizInput{
		SubjectName: "Aqaid",
		Title:       "Aqaid basics",
		StartDate:   day(2025, 1, 1),
		EndDate:     endOfDay(2025, 1, 31),
		TotalMarks:  10,
		Questions: []QuestionInput{{
			QuestionText: "Pick B",
			QuestionType: model.QuestionMCQ,
			Marks:        10,
			Options: []OptionInput{
				{OptionText: "A"},
				{OptionText: "B", IsCorrect: true},
				{OptionText: "C"},
			},
		}},
	}
}

func (e *env) publishedQuiz(teacherUserID string, in QuizInput) *model.Quiz {
	e.t.Helper()
	res, err := e.quizzes.CreateQuiz(e.ctx, teacherUserID, in)
	require.NoError(e.t, err)
	require.NoError(e.t, e.quizzes.PublishQuiz(e.ctx, res.QuizID, teacherUserID, true))
	quiz, err := e.quizzes.GetQuiz(e.ctx, res.QuizID, teacherUserID)
	require.NoError(e.t, err)
	return quiz
}

func optionID(q *model.Question, text string) *uint {
	for i := range q.Options {
		if q.Options[i].OptionText == text {
			id := q.Options[i].ID
			return &id
		}
	}
	return nil
}

type notification struct {
	RecipientID uint
	Title       string
	Message     string
}

type recordingNotifier struct {
	sent []notification
	err  error
}

func (n *recordingNotifier) Notify(ctx context.Context, recipientID uint, title, message string) error {
	if n.err != nil {
		return n.err
	}
	n.sent = append(n.sent, notification{recipientID, title, message})
	return nil
}

type memFiles struct {
	data map[string][]byte
	seq  int
}

func newMemFiles() *memFiles {
	return &memFiles{data: make(map[string][]byte)}
}

func (m *memFiles) Store(ctx context.Context, data []byte, suggestedName string) (string, error) {
	m.seq++
	ref := fmt.Sprintf("mem/%d-%s", m.seq, suggestedName)
	m.data[ref] = append([]byte(nil), data...)
	return ref, nil
}

func (m *memFiles) Resolve(ctx context.Context, ref string) ([]byte, error) {
	data, ok := m.data[ref]
	if !ok {
		return nil, fmt.Errorf("no file %s", ref)
	}
	return data, nil
}

func (m *memFiles) Delete(ctx context.Context, ref string) error {
	if _, ok := m.data[ref]; !ok {
		return fmt.Errorf("no file %s", ref)
	}
	delete(m.data, ref)
	return nil
}
