package model

import "time"

type AttemptStatus string

const (
	AttemptInProgress AttemptStatus = "in_progress"
	AttemptFinished   AttemptStatus = "finished"
)

// swagger:model Attempt
type Attempt struct {
	BaseModel

	QuizID           uint          `gorm:"index;not null" json:"quizId"`
	StudentID        uint          `gorm:"index;not null" json:"studentId"`
	Status           AttemptStatus `gorm:"size:20;not null;default:'in_progress'" json:"status"`
	TotalScore       int           `gorm:"default:0" json:"totalScore"`
	TimeTakenMinutes int           `gorm:"default:0" json:"timeTakenMinutes"`
	StartedAt        time.Time     `json:"startedAt"`
	SubmittedAt      *time.Time    `json:"submittedAt,omitempty"`

	Answers []Answer `gorm:"foreignKey:AttemptID" json:"answers,omitempty"`
}

func (Attempt) TableName() string {
	return "quiz_attempts"
}

// Answer is keyed by (attempt, question); a repeated answer replaces the previous one.
// swagger:model Answer
type Answer struct {
	BaseModel

	AttemptID        uint   `gorm:"not null;uniqueIndex:idx_answer_attempt_question" json:"attemptId"`
	QuestionID       uint   `gorm:"not null;uniqueIndex:idx_answer_attempt_question" json:"questionId"`
	SelectedOptionID *uint  `json:"selectedOptionId,omitempty"`
	AnswerText       string `gorm:"type:text" json:"answerText"`
	IsCorrect        bool   `gorm:"default:false" json:"isCorrect"`
	MarksObtained    int    `gorm:"default:0" json:"marksObtained"`
}

func (Answer) TableName() string {
	return "quiz_answers"
}
