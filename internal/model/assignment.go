package model

import "time"

type SubmissionStatus string

const (
	SubmissionSubmitted SubmissionStatus = "submitted"
	SubmissionGraded    SubmissionStatus = "graded"
)

// swagger:model Assignment
type Assignment struct {
	BaseModel

	TeacherID   uint      `gorm:"index;not null" json:"teacherId"`
	SubjectName string    `gorm:"size:255;index;not null" json:"subjectName"`
	Title       string    `gorm:"size:255;not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	FileName    string    `gorm:"size:255" json:"fileName,omitempty"`
	FilePath    string    `gorm:"size:500" json:"filePath,omitempty"`
	StartDate   time.Time `json:"startDate"`
	DueDate     time.Time `json:"dueDate"`
	TotalMarks  int       `gorm:"default:0" json:"totalMarks"`
	Submissions int       `gorm:"default:0" json:"submissions"` // running counter

	Teacher *User `gorm:"foreignKey:TeacherID" json:"teacher,omitempty"`
}

func (Assignment) TableName() string {
	return "assignments"
}

// Overdue reports whether t is past the due date.
func (a *Assignment) Overdue(t time.Time) bool {
	return t.After(a.DueDate)
}

// Submission: at most one row per (assignment, student), enforced by
// idx_submission_assignment_student.
// swagger:model Submission
type Submission struct {
	BaseModel

	AssignmentID   uint             `gorm:"not null;uniqueIndex:idx_submission_assignment_student" json:"assignmentId"`
	StudentID      uint             `gorm:"not null;uniqueIndex:idx_submission_assignment_student;index" json:"studentId"`
	SubmissionText string           `gorm:"type:text" json:"submissionText"`
	FileName       string           `gorm:"size:255" json:"fileName,omitempty"`
	FilePath       string           `gorm:"size:500" json:"filePath,omitempty"`
	SubmissionDate time.Time        `json:"submissionDate"`
	MarksObtained  *int             `json:"marksObtained"`
	Feedback       string           `gorm:"type:text" json:"feedback"`
	GradedBy       *uint            `json:"gradedBy,omitempty"`
	GradedDate     *time.Time       `json:"gradedDate,omitempty"`
	Status         SubmissionStatus `gorm:"size:20;not null;default:'submitted'" json:"status"`
	AutoGraded     bool             `gorm:"default:false" json:"autoGraded"`

	Assignment *Assignment `gorm:"foreignKey:AssignmentID" json:"assignment,omitempty"`
}

func (Submission) TableName() string {
	return "assignment_submissions"
}
