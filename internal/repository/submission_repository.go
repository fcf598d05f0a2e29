package repository

import (
	"context"
	"time"

	"github.com/Nishashahzad/ISLAMIC-CENTER-LMS/internal/model"
	"github.com/Nishashahzad/ISLAMIC-CENTER-LMS/internal/util"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type SubmissionRepository struct {
	DB *gorm.DB
}

func NewSubmissionRepository(db *gorm.DB) *SubmissionRepository {
	return &SubmissionRepository{DB: db}
}

func (r *SubmissionRepository) FindByID(ctx context.Context, id uint) (*model.Submission, error) {
	var s model.Submission
	err := r.DB.WithContext(ctx).Preload("Assignment").First(&s, id).Error
	if err != nil {
		return nil, findErr(err, util.ErrSubmissionNotFound, "find submission")
	}
	return &s, nil
}

func (r *SubmissionRepository) FindByAssignmentAndStudent(ctx context.Context, assignmentID, studentID uint) (*model.Submission, error) {
	var s model.Submission
	err := r.DB.WithContext(ctx).
		Where("assignment_id = ? AND student_id = ?", assignmentID, studentID).
		First(&s).Error
	if err != nil {
		return nil, findErr(err, util.ErrSubmissionNotFound, "find student submission")
	}
	return &s, nil
}

func (r *SubmissionRepository) ListByAssignment(ctx context.Context, assignmentID uint) ([]model.Submission, error) {
	var list []model.Submission
	err := r.DB.WithContext(ctx).
		Where("assignment_id = ?", assignmentID).
		Order("submission_date DESC, id DESC").
		Find(&list).Error
	return list, errors.Wrap(err, "list assignment submissions")
}

// Submit stores a real submission. An auto-graded row for the same pair is
// replaced in the same transaction; any other existing row, including one
// inserted concurrently, yields util.ErrAlreadySubmitted.
func (r *SubmissionRepository) Submit(ctx context.Context, s *model.Submission) (replaced bool, err error) {
	err = r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("assignment_id = ? AND student_id = ? AND auto_graded = ?", s.AssignmentID, s.StudentID, true).
			Delete(&model.Submission{})
		if res.Error != nil {
			return errors.Wrap(res.Error, "remove auto-graded submission")
		}
		replaced = res.RowsAffected > 0

		if err := tx.Omit("Assignment").Create(s).Error; err != nil {
			if isDuplicateKey(err) {
				return util.ErrAlreadySubmitted
			}
			return errors.Wrap(err, "create submission")
		}

		// the replaced row already counted towards the total
		if replaced {
			return nil
		}
		return incrementSubmissions(tx, s.AssignmentID)
	})
	return replaced, err
}

// CreateAutoGraded inserts the zero-mark submission for a missed deadline. A
// row that already exists for the pair yields util.ErrAlreadySubmitted.
func (r *SubmissionRepository) CreateAutoGraded(ctx context.Context, s *model.Submission) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Assignment").Create(s).Error; err != nil {
			if isDuplicateKey(err) {
				return util.ErrAlreadySubmitted
			}
			return errors.Wrap(err, "create auto-graded submission")
		}
		return incrementSubmissions(tx, s.AssignmentID)
	})
}

// Grade records a teacher's grade.
func (r *SubmissionRepository) Grade(ctx context.Context, id uint, marks int, feedback string, gradedBy uint, at time.Time) error {
	err := r.DB.WithContext(ctx).Model(&model.Submission{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"marks_obtained": marks,
			"feedback":       feedback,
			"graded_by":      gradedBy,
			"graded_date":    at,
			"status":         model.SubmissionGraded,
		}).Error
	return errors.Wrap(err, "grade submission")
}

func incrementSubmissions(tx *gorm.DB, assignmentID uint) error {
	err := tx.Model(&model.Assignment{}).
		Where("id = ?", assignmentID).
		UpdateColumn("submissions", gorm.Expr("submissions + ?", 1)).Error
	return errors.Wrap(err, "increment assignment submissions")
}
