package service

import (
	"errors"
	"testing"

	"github.com/Nishashahzad/ISLAMIC-CENTER-LMS/internal/model"
	"github.com/Nishashahzad/ISLAMIC-CENTER-LMS/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestAttemptScoring(t *testing.T) {
	tests := []struct {
		name    string
		pick    string
		score   int
		pct     float64
		correct bool
	}{
		{"correct option", "B", 10, 100.0, true},
		{"wrong option", "A", 0, 0.0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newEnv(t)
			e.teacher("T1")
			e.student("S1")
			quiz := e.publishedQuiz("T1", mcqQuiz())

			attempt, err := e.attempts.Start(e.ctx, "S1", quiz.ID)
			require.NoError(t, err)
			assert.Equal(t, model.AttemptInProgress, attempt.Status)

			answer, err := e.attempts.SubmitAnswer(e.ctx, "S1", attempt.ID, AnswerInput{
				QuestionID:       quiz.Questions[0].ID,
				SelectedOptionID: optionID(&quiz.Questions[0], tt.pick),
			})
			require.NoError(t, err)
			assert.Equal(t, tt.correct, answer.IsCorrect)

			view, err := e.attempts.Finish(e.ctx, "S1", attempt.ID, 5)
			require.NoError(t, err)
			assert.Equal(t, tt.score, view.TotalScore)
			assert.Equal(t, tt.pct, view.Percentage)
			assert.Equal(t, model.AttemptFinished, view.Status)
			require.NotNil(t, view.SubmittedAt)
			assert.Equal(t, e.now, *view.SubmittedAt)
		})
	}
}

func TestAttemptTotalIsSumOfAnswers(t *testing.T) {
	e := newEnv(t)
	e.teacher("T1")
	e.student("S1")

	in := mcqQuiz()
	in.TotalMarks = 0
	in.Questions = append(in.Questions,
		QuestionInput{
			QuestionText: "The earth is round",
			QuestionType: model.QuestionTrueFalse,
			Marks:        4,
			Options:      []OptionInput{{OptionText: "True", IsCorrect: true}, {OptionText: "False"}},
		},
		QuestionInput{
			QuestionText:  "First pillar",
			QuestionType:  model.QuestionShortAnswer,
			Marks:         6,
			CorrectAnswer: "Shahada",
		},
	)
	quiz := e.publishedQuiz("T1", in)
	assert.Equal(t, 20, quiz.TotalMarks)

	attempt, err := e.attempts.Start(e.ctx, "S1", quiz.ID)
	require.NoError(t, err)

	answers := []AnswerInput{
		{QuestionID: quiz.Questions[0].ID, SelectedOptionID: optionID(&quiz.Questions[0], "B")},
		{QuestionID: quiz.Questions[1].ID, SelectedOptionID: optionID(&quiz.Questions[1], "False")},
		{QuestionID: quiz.Questions[2].ID, AnswerText: "  shahada "},
	}
	for _, a := range answers {
		_, err := e.attempts.SubmitAnswer(e.ctx, "S1", attempt.ID, a)
		require.NoError(t, err)
	}

	view, err := e.attempts.Finish(e.ctx, "S1", attempt.ID, 12)
	require.NoError(t, err)
	assert.Equal(t, 16, view.TotalScore)
	assert.Equal(t, 80.0, view.Percentage)
	assert.Equal(t, "A", view.Grade)

	full, err := e.attempts.GetAttempt(e.ctx, attempt.ID, "S1")
	require.NoError(t, err)
	sum := 0
	for _, a := range full.Answers {
		sum += a.MarksObtained
	}
	assert.Equal(t, full.TotalScore, sum)
	assert.Equal(t, 12, full.TimeTakenMinutes)
}

func TestSubmitAnswerReplacesEarlierAnswer(t *testing.T) {
	e := newEnv(t)
	e.teacher("T1")
	e.student("S1")
	quiz := e.publishedQuiz("T1", mcqQuiz())
	q := &quiz.Questions[0]

	attempt, err := e.attempts.Start(e.ctx, "S1", quiz.ID)
	require.NoError(t, err)

	for _, pick := range []string{"A", "B", "B"} {
		_, err := e.attempts.SubmitAnswer(e.ctx, "S1", attempt.ID, AnswerInput{QuestionID: q.ID, SelectedOptionID: optionID(q, pick)})
		require.NoError(t, err)
	}

	var answers []model.Answer
	require.NoError(t, e.db.Where("attempt_id = ?", attempt.ID).Find(&answers).Error)
	require.Len(t, answers, 1)
	assert.True(t, answers[0].IsCorrect)
	assert.Equal(t, 10, answers[0].MarksObtained)
}

func TestFinishedAttemptIsClosed(t *testing.T) {
	e := newEnv(t)
	e.teacher("T1")
	e.student("S1")
	quiz := e.publishedQuiz("T1", mcqQuiz())
	q := &quiz.Questions[0]

	attempt, err := e.attempts.Start(e.ctx, "S1", quiz.ID)
	require.NoError(t, err)
	_, err = e.attempts.Finish(e.ctx, "S1", attempt.ID, 1)
	require.NoError(t, err)

	_, err = e.attempts.Finish(e.ctx, "S1", attempt.ID, 1)
	assert.ErrorIs(t, err, util.ErrAttemptFinished)

	_, err = e.attempts.SubmitAnswer(e.ctx, "S1", attempt.ID, AnswerInput{QuestionID: q.ID, SelectedOptionID: optionID(q, "B")})
	assert.ErrorIs(t, err, util.ErrAttemptFinished)

	// the repository guard holds even when the status check above is bypassed
	err = e.attemptRepo.UpsertAnswer(e.ctx, &model.Answer{AttemptID: attempt.ID, QuestionID: q.ID, MarksObtained: 10})
	assert.ErrorIs(t, err, util.ErrAttemptFinished)
	_, err = e.attemptRepo.Finish(e.ctx, attempt.ID, 1, e.now)
	assert.ErrorIs(t, err, util.ErrAttemptFinished)

	view, err := e.attempts.GetAttempt(e.ctx, attempt.ID, "S1")
	require.NoError(t, err)
	assert.Zero(t, view.TotalScore)
	assert.Empty(t, view.Answers)
}

func TestStartRequiresAvailableQuiz(t *testing.T) {
	e := newEnv(t)
	e.teacher("T1")
	e.student("S1")

	res, err := e.quizzes.CreateQuiz(e.ctx, "T1", mcqQuiz())
	require.NoError(t, err)

	_, err = e.attempts.Start(e.ctx, "S1", res.QuizID)
	assert.ErrorIs(t, err, util.ErrNotAvailable, "unpublished")

	require.NoError(t, e.quizzes.PublishQuiz(e.ctx, res.QuizID, "T1", true))

	e.now = day(2024, 12, 31)
	_, err = e.attempts.Start(e.ctx, "S1", res.QuizID)
	assert.ErrorIs(t, err, util.ErrNotAvailable, "before window")

	e.now = day(2025, 2, 1)
	_, err = e.attempts.Start(e.ctx, "S1", res.QuizID)
	assert.ErrorIs(t, err, util.ErrNotAvailable, "after window")

	e.now = endOfDay(2025, 1, 31)
	_, err = e.attempts.Start(e.ctx, "S1", res.QuizID)
	assert.NoError(t, err, "end date is inclusive")

	_, err = e.attempts.Start(e.ctx, "T1", res.QuizID)
	assert.ErrorIs(t, err, util.ErrNotFound, "teachers cannot attempt")

	_, err = e.attempts.Start(e.ctx, "S1", 999)
	assert.ErrorIs(t, err, util.ErrNotFound)

	quiz, err := e.quizRepo.FindByID(e.ctx, res.QuizID)
	require.NoError(t, err)
	assert.Equal(t, 1, quiz.Attempts)
}

func TestSubmitAnswerValidation(t *testing.T) {
	e := newEnv(t)
	e.teacher("T1")
	e.student("S1")
	e.student("S2")
	quiz := e.publishedQuiz("T1", mcqQuiz())
	other := e.publishedQuiz("T1", mcqQuiz())
	q := &quiz.Questions[0]

	attempt, err := e.attempts.Start(e.ctx, "S1", quiz.ID)
	require.NoError(t, err)

	_, err = e.attempts.SubmitAnswer(e.ctx, "S1", attempt.ID, AnswerInput{QuestionID: q.ID, SelectedOptionID: optionID(&other.Questions[0], "B")})
	assert.ErrorIs(t, err, util.ErrValidation, "option from another question")

	_, err = e.attempts.SubmitAnswer(e.ctx, "S1", attempt.ID, AnswerInput{QuestionID: q.ID})
	assert.ErrorIs(t, err, util.ErrValidation, "no option selected")

	_, err = e.attempts.SubmitAnswer(e.ctx, "S1", attempt.ID, AnswerInput{})
	assert.ErrorIs(t, err, util.ErrValidation, "missing question")

	_, err = e.attempts.SubmitAnswer(e.ctx, "S1", attempt.ID, AnswerInput{QuestionID: other.Questions[0].ID, SelectedOptionID: optionID(&other.Questions[0], "B")})
	assert.ErrorIs(t, err, util.ErrNotFound, "question from another quiz")

	_, err = e.attempts.SubmitAnswer(e.ctx, "S2", attempt.ID, AnswerInput{QuestionID: q.ID, SelectedOptionID: optionID(q, "B")})
	assert.ErrorIs(t, err, util.ErrForbidden, "someone else's attempt")

	_, err = e.attempts.Finish(e.ctx, "S1", attempt.ID, -1)
	assert.ErrorIs(t, err, util.ErrValidation)
}

func TestSubmitQuiz(t *testing.T) {
	e := newEnv(t)
	e.teacher("T1")
	e.student("S1")
	quiz := e.publishedQuiz("T1", mcqQuiz())
	q := &quiz.Questions[0]

	_, err := e.attempts.SubmitQuiz(e.ctx, "S1", quiz.ID, []AnswerInput{{QuestionID: q.ID, SelectedOptionID: new(uint)}}, 3)
	assert.ErrorIs(t, err, util.ErrValidation)
	var count int64
	require.NoError(t, e.db.Model(&model.Attempt{}).Count(&count).Error)
	assert.Zero(t, count, "a bad answer writes nothing")

	view, err := e.attempts.SubmitQuiz(e.ctx, "S1", quiz.ID, []AnswerInput{{QuestionID: q.ID, SelectedOptionID: optionID(q, "B")}}, 3)
	require.NoError(t, err)
	assert.Equal(t, 10, view.TotalScore)
	assert.Equal(t, 100.0, view.Percentage)
	assert.Equal(t, "A+", view.Grade)
	assert.Equal(t, "Aqaid basics", view.QuizTitle)
	assert.Equal(t, model.AttemptFinished, view.Status)
}

func TestSubmitQuizWritesNothingWhenAnAnswerFails(t *testing.T) {
	e := newEnv(t)
	e.teacher("T1")
	e.student("S1")
	quiz := e.publishedQuiz("T1", mcqQuiz())
	q := &quiz.Questions[0]

	err := e.db.Callback().Create().Before("gorm:create").Register("test:fail_answers", func(tx *gorm.DB) {
		if tx.Statement.Table == "quiz_answers" {
			tx.AddError(errors.New("disk failure"))
		}
	})
	require.NoError(t, err)

	_, err = e.attempts.SubmitQuiz(e.ctx, "S1", quiz.ID, []AnswerInput{{QuestionID: q.ID, SelectedOptionID: optionID(q, "B")}}, 3)
	assert.ErrorIs(t, err, util.ErrStorageFailure)

	var attempts, answers int64
	require.NoError(t, e.db.Model(&model.Attempt{}).Count(&attempts).Error)
	require.NoError(t, e.db.Model(&model.Answer{}).Count(&answers).Error)
	assert.Zero(t, attempts)
	assert.Zero(t, answers)

	stored, err := e.quizRepo.FindByID(e.ctx, quiz.ID)
	require.NoError(t, err)
	assert.Zero(t, stored.Attempts)
}

func TestFinishedAttemptRejectsLateAnswerInRepository(t *testing.T) {
	e := newEnv(t)
	e.teacher("T1")
	e.student("S1")
	quiz := e.publishedQuiz("T1", mcqQuiz())
	q := &quiz.Questions[0]

	view, err := e.attempts.SubmitQuiz(e.ctx, "S1", quiz.ID, []AnswerInput{{QuestionID: q.ID, SelectedOptionID: optionID(q, "B")}}, 3)
	require.NoError(t, err)

	err = e.attemptRepo.UpsertAnswer(e.ctx, &model.Answer{AttemptID: view.ID, QuestionID: q.ID, MarksObtained: 10, IsCorrect: true})
	assert.ErrorIs(t, err, util.ErrAttemptFinished)
	_, err = e.attemptRepo.Finish(e.ctx, view.ID, 5, e.now)
	assert.ErrorIs(t, err, util.ErrAttemptFinished)

	stored, err := e.attemptRepo.FindWithAnswers(e.ctx, view.ID)
	require.NoError(t, err)
	require.Len(t, stored.Answers, 1)
	assert.Equal(t, stored.Answers[0].MarksObtained, stored.TotalScore)
}

func TestGetAttemptAccess(t *testing.T) {
	e := newEnv(t)
	e.teacher("T1")
	e.teacher("T2")
	e.student("S1")
	e.student("S2")
	quiz := e.publishedQuiz("T1", mcqQuiz())

	attempt, err := e.attempts.Start(e.ctx, "S1", quiz.ID)
	require.NoError(t, err)

	_, err = e.attempts.GetAttempt(e.ctx, attempt.ID, "S1")
	assert.NoError(t, err)
	_, err = e.attempts.GetAttempt(e.ctx, attempt.ID, "T1")
	assert.NoError(t, err)
	_, err = e.attempts.GetAttempt(e.ctx, attempt.ID, "S2")
	assert.ErrorIs(t, err, util.ErrForbidden)
	_, err = e.attempts.GetAttempt(e.ctx, attempt.ID, "T2")
	assert.ErrorIs(t, err, util.ErrForbidden)
	_, err = e.attempts.GetAttempt(e.ctx, 404, "S1")
	assert.ErrorIs(t, err, util.ErrNotFound)
}
