package service

import (
	"context"

	"github.com/Nishashahzad/ISLAMIC-CENTER-LMS/internal/curriculum"
	"github.com/Nishashahzad/ISLAMIC-CENTER-LMS/internal/model"
	"github.com/Nishashahzad/ISLAMIC-CENTER-LMS/internal/repository"
)

type TeacherSubjects struct {
	Teacher         *model.User `json:"teacher"`
	TeacherSubject  string      `json:"teacherSubject"`
	MatchedSubjects []string    `json:"matchedSubjects"`
	AllSubjects     []string    `json:"allSubjects"`
}

type CurriculumService struct {
	Users   *repository.UserRepository
	Catalog *curriculum.Catalog
}

func NewCurriculumService(users *repository.UserRepository, catalog *curriculum.Catalog) *CurriculumService {
	return &CurriculumService{Users: users, Catalog: catalog}
}

// TeacherSubjects lists the catalog subjects a teacher may author for.
func (s *CurriculumService) TeacherSubjects(ctx context.Context, teacherUserID string) (*TeacherSubjects, error) {
	teacher, err := resolveTeacher(ctx, s.Users, teacherUserID)
	if err != nil {
		return nil, err
	}
	matched := s.Catalog.TeacherSubjects(teacher.Subject)
	if teacher.Role == model.Admin {
		matched = s.Catalog.SubjectNames()
	}
	return &TeacherSubjects{
		Teacher:         teacher,
		TeacherSubject:  teacher.Subject,
		MatchedSubjects: matched,
		AllSubjects:     s.Catalog.SubjectNames(),
	}, nil
}
