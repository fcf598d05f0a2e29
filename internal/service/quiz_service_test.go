package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/Nishashahzad/ISLAMIC-CENTER-LMS/internal/model"
	"github.com/Nishashahzad/ISLAMIC-CENTER-LMS/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateQuizRoundTrip(t *testing.T) {
	e := newEnv(t)
	e.teacher("T1")

	const n, m = 4, 3
	in := QuizInput{
		SubjectName: "Aqaid",
		Title:       "Round trip",
		StartDate:   day(2025, 1, 1),
		EndDate:     endOfDay(2025, 1, 31),
	}
	for i := 0; i < n; i++ {
		q := QuestionInput{
			QuestionText: fmt.Sprintf("Q%d", i),
			QuestionType: model.QuestionMCQ,
			Marks:        i + 1,
		}
		for j := 0; j < m; j++ {
			q.Options = append(q.Options, OptionInput{OptionText: fmt.Sprintf("Q%d-O%d", i, j), IsCorrect: j == i%m})
		}
		in.Questions = append(in.Questions, q)
	}

	res, err := e.quizzes.CreateQuiz(e.ctx, "T1", in)
	require.NoError(t, err)
	assert.Equal(t, n, res.QuestionsCount)
	assert.Equal(t, n*m, res.OptionsCount)

	quiz, err := e.quizzes.GetQuiz(e.ctx, res.QuizID, "T1")
	require.NoError(t, err)
	assert.Equal(t, n, quiz.QuestionsCount)
	assert.Equal(t, 1+2+3+4, quiz.TotalMarks, "total defaults to the sum of marks")
	require.Len(t, quiz.Questions, n)
	for i, q := range quiz.Questions {
		assert.Equal(t, fmt.Sprintf("Q%d", i), q.QuestionText)
		require.Len(t, q.Options, m)
		for j, o := range q.Options {
			assert.Equal(t, fmt.Sprintf("Q%d-O%d", i, j), o.OptionText)
		}
		assert.Equal(t, fmt.Sprintf("Q%d-O%d", i, i%m), q.CorrectAnswer, "correct answer derived from flagged option")
	}
}

func TestCreateQuizValidation(t *testing.T) {
	e := newEnv(t)
	e.teacher("T1")

	tests := []struct {
		name   string
		mutate func(*QuizInput)
	}{
		{"no questions", func(in *QuizInput) { in.Questions = nil }},
		{"choice without options", func(in *QuizInput) { in.Questions[0].Options = nil }},
		{"no correct option", func(in *QuizInput) { in.Questions[0].Options[1].IsCorrect = false }},
		{"two correct options", func(in *QuizInput) { in.Questions[0].Options[0].IsCorrect = true }},
		{"zero marks", func(in *QuizInput) { in.Questions[0].Marks = 0 }},
		{"end before start", func(in *QuizInput) { in.EndDate = in.StartDate.AddDate(0, 0, -1) }},
		{"unknown type", func(in *QuizInput) { in.Questions[0].QuestionType = "essay" }},
		{"short answer without answer", func(in *QuizInput) {
			in.Questions[0] = QuestionInput{QuestionText: "Name it", QuestionType: model.QuestionShortAnswer, Marks: 2}
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := mcqQuiz()
			tt.mutate(&in)
			_, err := e.quizzes.CreateQuiz(e.ctx, "T1", in)
			require.Error(t, err)
			assert.True(t, errors.Is(err, util.ErrValidation), "got %v", err)
		})
	}

	var count int64
	require.NoError(t, e.db.Model(&model.Quiz{}).Count(&count).Error)
	assert.Zero(t, count, "rejected input writes nothing")
}

func TestCreateQuizRejections(t *testing.T) {
	e := newEnv(t)
	e.teacher("T1")
	e.student("S1")

	_, err := e.quizzes.CreateQuiz(e.ctx, "nobody", mcqQuiz())
	assert.ErrorIs(t, err, util.ErrNotFound)

	_, err = e.quizzes.CreateQuiz(e.ctx, "S1", mcqQuiz())
	assert.ErrorIs(t, err, util.ErrNotFound, "students are not teachers")

	in := mcqQuiz()
	in.SubjectName = "Mantiq"
	_, err = e.quizzes.CreateQuiz(e.ctx, "T1", in)
	assert.ErrorIs(t, err, util.ErrForbidden)
}

func TestPublishAndDeleteAreOwnerGated(t *testing.T) {
	e := newEnv(t)
	e.teacher("T1")
	e.teacher("T2")
	e.student("S1")

	quiz := e.publishedQuiz("T1", mcqQuiz())

	assert.ErrorIs(t, e.quizzes.PublishQuiz(e.ctx, quiz.ID, "T2", false), util.ErrForbidden)
	assert.ErrorIs(t, e.quizzes.DeleteQuiz(e.ctx, quiz.ID, "T2"), util.ErrForbidden)
	_, err := e.quizzes.GetQuiz(e.ctx, quiz.ID, "T2")
	assert.ErrorIs(t, err, util.ErrForbidden)

	require.NoError(t, e.quizzes.PublishQuiz(e.ctx, quiz.ID, "T1", false))
	_, err = e.quizzes.GetQuizForStudent(e.ctx, quiz.ID)
	assert.ErrorIs(t, err, util.ErrNotAvailable)
	require.NoError(t, e.quizzes.PublishQuiz(e.ctx, quiz.ID, "T1", true))

	attempt, err := e.attempts.Start(e.ctx, "S1", quiz.ID)
	require.NoError(t, err)
	_, err = e.attempts.SubmitAnswer(e.ctx, "S1", attempt.ID, AnswerInput{
		QuestionID:       quiz.Questions[0].ID,
		SelectedOptionID: optionID(&quiz.Questions[0], "B"),
	})
	require.NoError(t, err)

	require.NoError(t, e.quizzes.DeleteQuiz(e.ctx, quiz.ID, "T1"))
	for _, m := range []interface{}{&model.Quiz{}, &model.Question{}, &model.Option{}, &model.Attempt{}, &model.Answer{}} {
		var count int64
		require.NoError(t, e.db.Model(m).Count(&count).Error)
		assert.Zero(t, count, "%T rows left after delete", m)
	}
	_, err = e.quizzes.GetQuiz(e.ctx, quiz.ID, "T1")
	assert.ErrorIs(t, err, util.ErrNotFound)
}

func TestGetQuizForStudentStripsAnswers(t *testing.T) {
	e := newEnv(t)
	e.teacher("T1")

	in := mcqQuiz()
	in.Questions = append(in.Questions, QuestionInput{
		QuestionText:  "Capital of faith?",
		QuestionType:  model.QuestionShortAnswer,
		Marks:         5,
		CorrectAnswer: "Tawheed",
	})
	quiz := e.publishedQuiz("T1", in)

	view, err := e.quizzes.GetQuizForStudent(e.ctx, quiz.ID)
	require.NoError(t, err)
	assert.Equal(t, "User T1", view.TeacherName)
	require.Len(t, view.Questions, 2)
	assert.Len(t, view.Questions[0].Options, 3)
	assert.Empty(t, view.Questions[1].Options)

	raw, err := json.Marshal(view)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "isCorrect")
	assert.NotContains(t, string(raw), "correctAnswer")
	assert.NotContains(t, string(raw), "Tawheed")
}

func TestListTeacherQuizzes(t *testing.T) {
	e := newEnv(t)
	e.user("T1", model.Teacher, "Aqaid, Mantiq")

	_, err := e.quizzes.CreateQuiz(e.ctx, "T1", mcqQuiz())
	require.NoError(t, err)

	list, err := e.quizzes.ListTeacherQuizzes(e.ctx, "T1", "Aqaid")
	require.NoError(t, err)
	assert.Len(t, list, 1)

	list, err = e.quizzes.ListTeacherQuizzes(e.ctx, "T1", "Mantiq")
	require.NoError(t, err)
	assert.Empty(t, list)
}
