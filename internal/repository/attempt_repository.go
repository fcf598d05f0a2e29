package repository

import (
	"context"
	"time"

	"github.com/Nishashahzad/ISLAMIC-CENTER-LMS/internal/model"
	"github.com/Nishashahzad/ISLAMIC-CENTER-LMS/internal/util"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AttemptRepository struct {
	DB *gorm.DB
}

func NewAttemptRepository(db *gorm.DB) *AttemptRepository {
	return &AttemptRepository{DB: db}
}

func createAttempt(tx *gorm.DB, attempt *model.Attempt) error {
	if err := tx.Omit("Answers").Create(attempt).Error; err != nil {
		return errors.Wrap(err, "create attempt")
	}
	err := tx.Model(&model.Quiz{}).
		Where("id = ?", attempt.QuizID).
		UpdateColumn("attempts", gorm.Expr("attempts + ?", 1)).Error
	return errors.Wrap(err, "increment quiz attempts")
}

// Create stores a new attempt and bumps the quiz's attempt counter.
func (r *AttemptRepository) Create(ctx context.Context, attempt *model.Attempt) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return createAttempt(tx, attempt)
	})
}

// CreateFinished stores a whole attempt at once: the attempt, the counter bump,
// its answers and the final score either all land or none do.
func (r *AttemptRepository) CreateFinished(ctx context.Context, attempt *model.Attempt, answers []*model.Answer, timeTakenMinutes int, at time.Time) (int, error) {
	var total int
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := createAttempt(tx, attempt); err != nil {
			return err
		}
		for _, answer := range answers {
			answer.AttemptID = attempt.ID
			if err := upsertAnswer(tx, answer); err != nil {
				return err
			}
		}
		var err error
		total, err = finishAttempt(tx, attempt.ID, timeTakenMinutes, at)
		return err
	})
	return total, err
}

func (r *AttemptRepository) FindByID(ctx context.Context, id uint) (*model.Attempt, error) {
	var attempt model.Attempt
	err := r.DB.WithContext(ctx).First(&attempt, id).Error
	if err != nil {
		return nil, findErr(err, util.ErrAttemptNotFound, "find attempt")
	}
	return &attempt, nil
}

func (r *AttemptRepository) FindWithAnswers(ctx context.Context, id uint) (*model.Attempt, error) {
	var attempt model.Attempt
	err := r.DB.WithContext(ctx).
		Preload("Answers", func(db *gorm.DB) *gorm.DB {
			return db.Order("question_id ASC")
		}).
		First(&attempt, id).Error
	if err != nil {
		return nil, findErr(err, util.ErrAttemptNotFound, "find attempt with answers")
	}
	return &attempt, nil
}

// lockOpenAttempt takes a row lock on the attempt while it is in progress, so
// answer writes and finish are serialized. SQLite ignores the locking clause and
// serializes writers on its own.
func lockOpenAttempt(tx *gorm.DB, id uint) error {
	var attempt model.Attempt
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Select("id").
		Where("id = ? AND status = ?", id, model.AttemptInProgress).
		Take(&attempt).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return util.ErrAttemptFinished
	}
	return errors.Wrap(err, "lock attempt")
}

func upsertAnswer(tx *gorm.DB, answer *model.Answer) error {
	if err := lockOpenAttempt(tx, answer.AttemptID); err != nil {
		return err
	}
	err := tx.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "attempt_id"}, {Name: "question_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"selected_option_id",
			"answer_text",
			"is_correct",
			"marks_obtained",
			"updated_at",
		}),
	}).Create(answer).Error
	return errors.Wrap(err, "upsert answer")
}

func finishAttempt(tx *gorm.DB, id uint, timeTakenMinutes int, at time.Time) (int, error) {
	if err := lockOpenAttempt(tx, id); err != nil {
		return 0, err
	}
	var sum struct{ Total int }
	err := tx.Model(&model.Answer{}).
		Select("COALESCE(SUM(marks_obtained), 0) AS total").
		Where("attempt_id = ?", id).
		Scan(&sum).Error
	if err != nil {
		return 0, errors.Wrap(err, "sum attempt marks")
	}

	res := tx.Model(&model.Attempt{}).
		Where("id = ? AND status = ?", id, model.AttemptInProgress).
		Updates(map[string]interface{}{
			"status":             model.AttemptFinished,
			"total_score":        sum.Total,
			"time_taken_minutes": timeTakenMinutes,
			"submitted_at":       at,
		})
	if res.Error != nil {
		return 0, errors.Wrap(res.Error, "finish attempt")
	}
	if res.RowsAffected == 0 {
		return 0, util.ErrAttemptFinished
	}
	return sum.Total, nil
}

// UpsertAnswer stores the answer for (attempt, question), replacing any earlier one.
// The write only lands while the attempt is still in progress.
func (r *AttemptRepository) UpsertAnswer(ctx context.Context, answer *model.Answer) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return upsertAnswer(tx, answer)
	})
}

// Finish closes an in-progress attempt with the sum of its answer marks. A second
// finish, concurrent or not, gets util.ErrAttemptFinished.
func (r *AttemptRepository) Finish(ctx context.Context, id uint, timeTakenMinutes int, at time.Time) (int, error) {
	var total int
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		total, err = finishAttempt(tx, id, timeTakenMinutes, at)
		return err
	})
	return total, err
}
