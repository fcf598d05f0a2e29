package service

import (
	"math"
	"strings"

	"github.com/Nishashahzad/ISLAMIC-CENTER-LMS/internal/model"
	"github.com/Nishashahzad/ISLAMIC-CENTER-LMS/internal/util"
)

// Percentage is score/total as a percentage rounded to two decimals. A quiz
// without marks scores 0.
func Percentage(score, total int) float64 {
	if total <= 0 {
		return 0
	}
	return math.Round(float64(score)/float64(total)*100*100) / 100
}

// LetterGrade maps a percentage onto the school's grading bands.
func LetterGrade(pct float64) string {
	switch {
	case pct >= 90:
		return "A+"
	case pct >= 80:
		return "A"
	case pct >= 70:
		return "B"
	case pct >= 60:
		return "C"
	case pct >= 50:
		return "D"
	default:
		return "F"
	}
}

func normalizeAnswer(s string) string {
	return strings.TrimSpace(strings.ToLower(s))
}

// ScoreAnswer decides correctness and marks for one answer to q.
func ScoreAnswer(q *model.Question, selectedOptionID *uint, answerText string) (correct bool, marks int, err error) {
	if q.QuestionType.IsChoice() {
		if selectedOptionID == nil {
			return false, 0, util.NewValidationError("an option must be selected",
				util.FieldError{Field: "selectedOptionId", Error: "is required"})
		}
		var selected *model.Option
		for i := range q.Options {
			if q.Options[i].ID == *selectedOptionID {
				selected = &q.Options[i]
				break
			}
		}
		if selected == nil {
			return false, 0, util.NewValidationError("option does not belong to the question",
				util.FieldError{Field: "selectedOptionId", Error: "unknown option"})
		}
		correct = selected.IsCorrect
	} else {
		correct = normalizeAnswer(answerText) == normalizeAnswer(q.CorrectAnswer)
	}

	if correct {
		marks = q.Marks
	}
	return correct, marks, nil
}
