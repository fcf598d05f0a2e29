package model

import "time"

type QuestionType string

const (
	QuestionMCQ         QuestionType = "mcq"
	QuestionTrueFalse   QuestionType = "true_false"
	QuestionShortAnswer QuestionType = "short_answer"
)

// IsChoice reports whether answers select an option rather than free text.
func (t QuestionType) IsChoice() bool {
	return t == QuestionMCQ || t == QuestionTrueFalse
}

func (t QuestionType) Valid() bool {
	return t.IsChoice() || t == QuestionShortAnswer
}

// swagger:model Quiz
type Quiz struct {
	BaseModel

	TeacherID       uint      `gorm:"index;not null" json:"teacherId"`
	SubjectName     string    `gorm:"size:255;index;not null" json:"subjectName"`
	Title           string    `gorm:"size:255;not null" json:"title"`
	Description     string    `gorm:"type:text" json:"description"`
	StartDate       time.Time `json:"startDate"`
	EndDate         time.Time `json:"endDate"`
	TotalMarks      int       `gorm:"default:0" json:"totalMarks"`
	DurationMinutes int       `gorm:"default:0" json:"durationMinutes"`
	QuestionsCount  int       `gorm:"default:0" json:"questionsCount"`
	IsPublished     bool      `gorm:"default:false" json:"isPublished"`
	Attempts        int       `gorm:"default:0" json:"attempts"` // running counter

	Teacher   *User      `gorm:"foreignKey:TeacherID" json:"teacher,omitempty"`
	Questions []Question `gorm:"foreignKey:QuizID" json:"questions,omitempty"`
}

func (Quiz) TableName() string {
	return "quizzes"
}

// OpenAt reports whether the quiz accepts attempts at t.
func (q *Quiz) OpenAt(t time.Time) bool {
	return q.IsPublished && !t.Before(q.StartDate) && !t.After(q.EndDate)
}

// swagger:model Question
type Question struct {
	BaseModel

	QuizID        uint         `gorm:"index;not null" json:"quizId"`
	QuestionText  string       `gorm:"type:text;not null" json:"questionText"`
	QuestionType  QuestionType `gorm:"size:20;not null" json:"questionType"`
	Marks         int          `gorm:"not null" json:"marks"`
	CorrectAnswer string       `gorm:"type:text" json:"correctAnswer,omitempty"`
	Position      int          `gorm:"not null;default:0" json:"position"`

	Options []Option `gorm:"foreignKey:QuestionID" json:"options,omitempty"`
}

func (Question) TableName() string {
	return "questions"
}

// swagger:model Option
type Option struct {
	BaseModel

	QuestionID uint   `gorm:"index;not null" json:"questionId"`
	OptionText string `gorm:"type:text;not null" json:"optionText"`
	IsCorrect  bool   `gorm:"default:false" json:"isCorrect"`
	Position   int    `gorm:"not null;default:0" json:"position"`
}

func (Option) TableName() string {
	return "question_options"
}
