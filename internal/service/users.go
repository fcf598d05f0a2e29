package service

import (
	"context"
	"errors"

	"github.com/Nishashahzad/ISLAMIC-CENTER-LMS/internal/curriculum"
	"github.com/Nishashahzad/ISLAMIC-CENTER-LMS/internal/model"
	"github.com/Nishashahzad/ISLAMIC-CENTER-LMS/internal/repository"
	"github.com/Nishashahzad/ISLAMIC-CENTER-LMS/internal/util"
)

func resolveTeacher(ctx context.Context, users *repository.UserRepository, userID string) (*model.User, error) {
	user, err := users.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, util.ErrNotFound) {
			return nil, util.ErrTeacherNotFound
		}
		return nil, util.Storage("resolve teacher", err)
	}
	if !user.IsTeacher() {
		return nil, util.ErrTeacherNotFound
	}
	return user, nil
}

func resolveStudent(ctx context.Context, users *repository.UserRepository, userID string) (*model.User, error) {
	user, err := users.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, util.ErrNotFound) {
			return nil, util.ErrStudentNotFound
		}
		return nil, util.Storage("resolve student", err)
	}
	if !user.IsStudent() {
		return nil, util.ErrStudentNotFound
	}
	return user, nil
}

// checkSubject gates authoring on the teacher's declared subject. Admins may
// author for any subject.
func checkSubject(catalog *curriculum.Catalog, teacher *model.User, subject string) error {
	if teacher.Role == model.Admin || catalog == nil {
		return nil
	}
	if !catalog.Allows(teacher.Subject, subject) {
		return util.ErrSubjectMismatch
	}
	return nil
}
