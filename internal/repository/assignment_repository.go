package repository

import (
	"context"

	"github.com/Nishashahzad/ISLAMIC-CENTER-LMS/internal/model"
	"github.com/Nishashahzad/ISLAMIC-CENTER-LMS/internal/util"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type AssignmentRepository struct {
	DB *gorm.DB
}

func NewAssignmentRepository(db *gorm.DB) *AssignmentRepository {
	return &AssignmentRepository{DB: db}
}

func (r *AssignmentRepository) Create(ctx context.Context, a *model.Assignment) error {
	return errors.Wrap(r.DB.WithContext(ctx).Omit("Teacher").Create(a).Error, "create assignment")
}

func (r *AssignmentRepository) FindByID(ctx context.Context, id uint) (*model.Assignment, error) {
	var a model.Assignment
	err := r.DB.WithContext(ctx).First(&a, id).Error
	if err != nil {
		return nil, findErr(err, util.ErrAssignmentNotFound, "find assignment")
	}
	return &a, nil
}

// ListByTeacher returns the teacher's assignments, newest first. An empty subject lists all.
func (r *AssignmentRepository) ListByTeacher(ctx context.Context, teacherID uint, subject string) ([]model.Assignment, error) {
	query := r.DB.WithContext(ctx).Where("teacher_id = ?", teacherID)
	if subject != "" {
		query = query.Where("subject_name = ?", subject)
	}
	var list []model.Assignment
	err := query.Order("created_at DESC, id DESC").Find(&list).Error
	return list, errors.Wrap(err, "list teacher assignments")
}

// SubmissionFiles returns the stored file references of the assignment's submissions.
func (r *AssignmentRepository) SubmissionFiles(ctx context.Context, id uint) ([]string, error) {
	var refs []string
	err := r.DB.WithContext(ctx).Model(&model.Submission{}).
		Where("assignment_id = ? AND file_path <> ''", id).
		Pluck("file_path", &refs).Error
	return refs, errors.Wrap(err, "list submission files")
}

// Delete removes the assignment and its submissions.
func (r *AssignmentRepository) Delete(ctx context.Context, id uint) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("assignment_id = ?", id).Delete(&model.Submission{}).Error; err != nil {
			return errors.Wrap(err, "delete assignment submissions")
		}
		return errors.Wrap(tx.Delete(&model.Assignment{}, id).Error, "delete assignment")
	})
}
