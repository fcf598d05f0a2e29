package app

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/Nishashahzad/ISLAMIC-CENTER-LMS/internal/config"
	"github.com/Nishashahzad/ISLAMIC-CENTER-LMS/internal/model"
	"github.com/Nishashahzad/ISLAMIC-CENTER-LMS/internal/util"
	"github.com/Nishashahzad/ISLAMIC-CENTER-LMS/pkg/database"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-with-at-least-32-characters"

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Kind    string          `json:"kind"`
	Data    json.RawMessage `json:"data"`
}

type testServer struct {
	t   *testing.T
	app *App
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dir := t.TempDir()
	cfg := &config.Config{
		Server:    config.ServerConfig{Port: "0", Mode: "test"},
		Database:  config.DatabaseConfig{Driver: database.DriverSQLite, Path: filepath.Join(dir, "lms.db"), MaxOpenConns: 1},
		JWT:       config.JWTConfig{Secret: testSecret, ExpireTime: time.Hour},
		Storage:   config.StorageConfig{Type: util.StorageLocal, LocalPath: filepath.Join(dir, "uploads"), MaxUploadMB: 1},
		CORS:      config.CORSConfig{AllowedOrigins: []string{"*"}},
		RateLimit: config.RateLimitConfig{MaxRequests: 10000, WindowMinutes: 1},
		Grading:   config.GradingConfig{AutoGradeFeedback: config.DefaultAutoGradeFeedback, UpcomingDays: 7},
	}

	dialector, err := database.Dialector(&cfg.Database)
	require.NoError(t, err)
	db, err := database.Open(dialector, &cfg.Database, cfg.Server.Mode)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	a := New(cfg, db, nil, nil)
	t.Cleanup(func() { a.Close(context.Background()) })
	return &testServer{t: t, app: a}
}

func (s *testServer) token(userID string, role model.UserRole) string {
	tok, err := util.GenerateJWT(userID, role, testSecret, time.Hour)
	require.NoError(s.t, err)
	return tok
}

func (s *testServer) do(method, path, token string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	s.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(s.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return s.serve(req, token)
}

func (s *testServer) form(path, token string, fields map[string]string, fileName string, file []byte) (*httptest.ResponseRecorder, envelope) {
	s.t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(s.t, w.WriteField(k, v))
	}
	if fileName != "" {
		part, err := w.CreateFormFile("file", fileName)
		require.NoError(s.t, err)
		_, err = part.Write(file)
		require.NoError(s.t, err)
	}
	require.NoError(s.t, w.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return s.serve(req, token)
}

func (s *testServer) serve(req *http.Request, token string) (*httptest.ResponseRecorder, envelope) {
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.app.Router.ServeHTTP(rec, req)

	var env envelope
	if bytes.HasPrefix(bytes.TrimSpace(rec.Body.Bytes()), []byte("{")) {
		require.NoError(s.t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	}
	return rec, env
}

func decode(t *testing.T, raw json.RawMessage, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(raw, v), string(raw))
}

// seed syncs an admin-pushed roster: one teacher of Aqaid and two students.
func (s *testServer) seed() (admin, teacher, student, other string) {
	admin = s.token("ADM-1", model.Admin)
	profiles := []map[string]interface{}{
		{"userId": "T-1", "fullName": "Ustadh Bilal", "role": "teacher", "subject": "Aqaid"},
		{"userId": "S-1", "fullName": "Aisha Khan", "role": "student", "email": "aisha@example.com"},
		{"userId": "S-2", "fullName": "Omar Farooq", "role": "student"},
	}
	for _, p := range profiles {
		rec, _ := s.do(http.MethodPut, "/api/admin/users", admin, p)
		require.Equal(s.t, http.StatusOK, rec.Code, rec.Body.String())
	}
	return admin, s.token("T-1", model.Teacher), s.token("S-1", model.Student), s.token("S-2", model.Student)
}

func TestPublicRoutes(t *testing.T) {
	s := newTestServer(t)

	rec, env := s.do(http.MethodGet, "/api/health", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, string(env.Data), `"redis":"disabled"`)

	rec, _ = s.do(http.MethodGet, "/api/curriculum/years", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = s.do(http.MethodGet, "/api/curriculum/subjects?year=1", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = s.do(http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthAndRoles(t *testing.T) {
	s := newTestServer(t)
	_, teacher, student, _ := s.seed()

	rec, _ := s.do(http.MethodGet, "/api/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, _ = s.do(http.MethodGet, "/api/teacher/quizzes", student, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, _ = s.do(http.MethodGet, "/api/student/results", teacher, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, _ = s.do(http.MethodPut, "/api/admin/users", teacher, map[string]string{"userId": "X"})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, env := s.do(http.MethodGet, "/api/me", student, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var me model.User
	decode(t, env.Data, &me)
	assert.Equal(t, "Aisha Khan", me.FullName)

	rec, env = s.do(http.MethodGet, "/api/teacher/quizzes/abc", teacher, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "validation_error", env.Kind)

	rec, env = s.do(http.MethodGet, "/api/teacher/quizzes/999", teacher, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "not_found", env.Kind)
}

func TestQuizFlowOverHTTP(t *testing.T) {
	s := newTestServer(t)
	_, teacher, student, other := s.seed()

	today := time.Now().UTC()
	rec, env := s.do(http.MethodPost, "/api/teacher/quizzes", teacher, map[string]interface{}{
		"subjectName": "Aqaid",
		"title":       "Pillars of Iman",
		"startDate":   today.AddDate(0, 0, -1).Format(util.DateFormat),
		"endDate":     today.AddDate(0, 0, 1).Format(util.DateFormat),
		"questions": []map[string]interface{}{
			{
				"questionText": "How many pillars of Iman are there?",
				"questionType": "mcq",
				"marks":        10,
				"options": []map[string]interface{}{
					{"optionText": "Five"},
					{"optionText": "Six", "isCorrect": true},
				},
			},
		},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created struct {
		QuizID         uint `json:"quizId"`
		QuestionsCount int  `json:"questionsCount"`
		OptionsCount   int  `json:"optionsCount"`
	}
	decode(t, env.Data, &created)
	assert.Equal(t, 1, created.QuestionsCount)
	assert.Equal(t, 2, created.OptionsCount)

	quizPath := fmt.Sprintf("/api/student/quizzes/%d", created.QuizID)

	rec, env = s.do(http.MethodGet, quizPath, student, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "not_available", env.Kind)

	rec, _ = s.do(http.MethodPost, fmt.Sprintf("/api/teacher/quizzes/%d/publish", created.QuizID), teacher, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec, env = s.do(http.MethodGet, quizPath, student, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.NotContains(t, rec.Body.String(), "isCorrect")
	assert.NotContains(t, rec.Body.String(), "correctAnswer")
	var view struct {
		Questions []struct {
			ID      uint `json:"id"`
			Options []struct {
				ID         uint   `json:"id"`
				OptionText string `json:"optionText"`
			} `json:"options"`
		} `json:"questions"`
	}
	decode(t, env.Data, &view)
	require.Len(t, view.Questions, 1)
	require.Len(t, view.Questions[0].Options, 2)
	q := view.Questions[0]
	six := q.Options[1].ID
	require.Equal(t, "Six", q.Options[1].OptionText)

	rec, env = s.do(http.MethodPost, quizPath+"/submit", student, map[string]interface{}{
		"answers":          []map[string]interface{}{{"questionId": q.ID, "selectedOptionId": six}},
		"timeTakenMinutes": 4,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var result struct {
		ID         uint    `json:"id"`
		TotalScore int     `json:"totalScore"`
		Percentage float64 `json:"percentage"`
		Grade      string  `json:"grade"`
	}
	decode(t, env.Data, &result)
	assert.Equal(t, 10, result.TotalScore)
	assert.Equal(t, 100.0, result.Percentage)
	assert.Equal(t, "A+", result.Grade)

	attemptPath := fmt.Sprintf("/api/attempts/%d", result.ID)
	rec, _ = s.do(http.MethodGet, attemptPath, student, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	rec, _ = s.do(http.MethodGet, attemptPath, other, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, env = s.do(http.MethodPost, fmt.Sprintf("/api/student/attempts/%d/answers", result.ID), student,
		map[string]interface{}{"questionId": q.ID, "selectedOptionId": six})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "attempt_finished", env.Kind)

	rec, env = s.do(http.MethodGet, fmt.Sprintf("/api/teacher/quizzes/%d/results", created.QuizID), teacher, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var rows []map[string]interface{}
	decode(t, env.Data, &rows)
	require.Len(t, rows, 1)
	assert.Equal(t, "Aisha Khan", rows[0]["studentName"])

	rec, env = s.do(http.MethodGet, "/api/student/results", student, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, env.Data, &rows)
	assert.Len(t, rows, 1)

	rec, _ = s.do(http.MethodDelete, fmt.Sprintf("/api/teacher/quizzes/%d", created.QuizID), teacher, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	rec, _ = s.do(http.MethodGet, attemptPath, student, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAssignmentFlowOverHTTP(t *testing.T) {
	s := newTestServer(t)
	_, teacher, student, other := s.seed()

	today := time.Now().UTC()
	rec, env := s.form("/api/teacher/assignments", teacher, map[string]string{
		"subject_name": "Aqaid",
		"title":        "Essay on Tawheed",
		"start_date":   today.AddDate(0, 0, -3).Format(util.DateFormat),
		"due_date":     today.AddDate(0, 0, 2).Format(util.DateFormat),
		"total_marks":  "20",
	}, "brief.txt", []byte("Write 500 words on Tawheed."))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var open model.Assignment
	decode(t, env.Data, &open)
	assert.Equal(t, 20, open.TotalMarks)

	rec, _ = s.do(http.MethodGet, fmt.Sprintf("/api/assignments/%d/file", open.ID), student, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Write 500 words on Tawheed.", rec.Body.String())

	rec, env = s.form("/api/teacher/assignments", teacher, map[string]string{
		"subject_name": "Aqaid",
		"title":        "Reading log",
		"start_date":   today.AddDate(0, 0, -10).Format(util.DateFormat),
		"due_date":     today.AddDate(0, 0, -2).Format(util.DateFormat),
	}, "", nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var closed model.Assignment
	decode(t, env.Data, &closed)
	assert.Equal(t, 100, closed.TotalMarks)

	submitPath := fmt.Sprintf("/api/student/assignments/%d/submit", open.ID)
	rec, env = s.form(submitPath, student, map[string]string{"submission_text": "Tawheed is the oneness of Allah."},
		"essay.txt", []byte("full essay"))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var sub model.Submission
	decode(t, env.Data, &sub)
	assert.Equal(t, "essay.txt", sub.FileName)

	rec, env = s.form(submitPath, student, map[string]string{"submission_text": "again"}, "", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "already_submitted", env.Kind)

	rec, env = s.form(submitPath, other, nil, "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "validation_error", env.Kind)

	rec, env = s.form(submitPath, other, nil, "virus.exe", []byte("MZ"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "validation_error", env.Kind)

	rec, env = s.form(fmt.Sprintf("/api/student/assignments/%d/submit", closed.ID), student,
		map[string]string{"submission_text": "late"}, "", nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "late_submission", env.Kind)

	rec, env = s.do(http.MethodPost, fmt.Sprintf("/api/student/assignments/%d/auto-grade", open.ID), student, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec, env = s.do(http.MethodPost, fmt.Sprintf("/api/student/assignments/%d/auto-grade", closed.ID), student, nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var auto model.Submission
	decode(t, env.Data, &auto)
	assert.True(t, auto.AutoGraded)
	require.NotNil(t, auto.MarksObtained)
	assert.Equal(t, 0, *auto.MarksObtained)

	rec, env = s.do(http.MethodGet, "/api/teacher/submissions/pending", teacher, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var pending []map[string]interface{}
	decode(t, env.Data, &pending)
	require.Len(t, pending, 1)

	gradePath := fmt.Sprintf("/api/teacher/submissions/%d/grade", sub.ID)
	rec, env = s.do(http.MethodPost, gradePath, teacher, map[string]interface{}{"marksObtained": 21})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "validation_error", env.Kind)

	rec, _ = s.do(http.MethodPost, gradePath, teacher, map[string]interface{}{"feedback": "missing marks"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, env = s.do(http.MethodPost, gradePath, teacher, map[string]interface{}{"marksObtained": 18, "feedback": "Well argued"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	decode(t, env.Data, &sub)
	require.NotNil(t, sub.MarksObtained)
	assert.Equal(t, 18, *sub.MarksObtained)
	assert.Equal(t, model.SubmissionGraded, sub.Status)

	rec, env = s.do(http.MethodGet, fmt.Sprintf("/api/teacher/assignments/%d/submissions", open.ID), teacher, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, string(env.Data), `"graded":1`)

	rec, _ = s.do(http.MethodGet, fmt.Sprintf("/api/submissions/%d", sub.ID), other, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	filePath := fmt.Sprintf("/api/submissions/%d/file", sub.ID)
	req := httptest.NewRequest(http.MethodGet, filePath+"?token="+student, nil)
	rec = httptest.NewRecorder()
	s.app.Router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "full essay", rec.Body.String())
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "essay.txt")

	rec, env = s.do(http.MethodGet, "/api/notifications", student, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var notes []model.Notification
	decode(t, env.Data, &notes)
	require.NotEmpty(t, notes)

	rec, _ = s.do(http.MethodPatch, fmt.Sprintf("/api/notifications/%d/read", notes[0].ID), other, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec, _ = s.do(http.MethodPatch, fmt.Sprintf("/api/notifications/%d/read", notes[0].ID), student, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, env = s.do(http.MethodGet, "/api/student/deadlines?days=7", student, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var deadlines []map[string]interface{}
	decode(t, env.Data, &deadlines)
	require.Len(t, deadlines, 1)
	assert.Equal(t, "Essay on Tawheed", deadlines[0]["title"])
	assert.Equal(t, true, deadlines[0]["done"])
}
