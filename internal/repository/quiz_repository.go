package repository

import (
	"context"

	"github.com/Nishashahzad/ISLAMIC-CENTER-LMS/internal/model"
	"github.com/Nishashahzad/ISLAMIC-CENTER-LMS/internal/util"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type QuizRepository struct {
	DB *gorm.DB
}

func NewQuizRepository(db *gorm.DB) *QuizRepository {
	return &QuizRepository{DB: db}
}

// CreateWithQuestions writes the quiz, then each question and its options in
// order, in one transaction. IDs are filled in on the passed structs.
func (r *QuizRepository) CreateWithQuestions(ctx context.Context, quiz *model.Quiz) (optionsCount int, err error) {
	err = r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		questions := quiz.Questions
		quiz.QuestionsCount = len(questions)
		if err := tx.Omit("Questions", "Teacher").Create(quiz).Error; err != nil {
			return errors.Wrap(err, "create quiz")
		}

		optionsCount = 0
		for i := range questions {
			q := &questions[i]
			q.QuizID = quiz.ID
			q.Position = i
			if err := tx.Omit("Options").Create(q).Error; err != nil {
				return errors.Wrapf(err, "create question %d", i)
			}
			for j := range q.Options {
				opt := &q.Options[j]
				opt.QuestionID = q.ID
				opt.Position = j
				if err := tx.Create(opt).Error; err != nil {
					return errors.Wrapf(err, "create option %d of question %d", j, i)
				}
				optionsCount++
			}
		}
		quiz.Questions = questions
		return nil
	})
	return optionsCount, err
}

func (r *QuizRepository) FindByID(ctx context.Context, id uint) (*model.Quiz, error) {
	var quiz model.Quiz
	err := r.DB.WithContext(ctx).First(&quiz, id).Error
	if err != nil {
		return nil, findErr(err, util.ErrQuizNotFound, "find quiz")
	}
	return &quiz, nil
}

// FindWithQuestions loads the quiz with its teacher and its questions and
// options in insertion order.
func (r *QuizRepository) FindWithQuestions(ctx context.Context, id uint) (*model.Quiz, error) {
	var quiz model.Quiz
	err := r.DB.WithContext(ctx).
		Preload("Teacher").
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC, id ASC")
		}).
		Preload("Questions.Options", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC, id ASC")
		}).
		First(&quiz, id).Error
	if err != nil {
		return nil, findErr(err, util.ErrQuizNotFound, "find quiz with questions")
	}
	return &quiz, nil
}

// ListByTeacher returns the teacher's quizzes, newest first. An empty subject lists all.
func (r *QuizRepository) ListByTeacher(ctx context.Context, teacherID uint, subject string) ([]model.Quiz, error) {
	query := r.DB.WithContext(ctx).Where("teacher_id = ?", teacherID)
	if subject != "" {
		query = query.Where("subject_name = ?", subject)
	}
	var quizzes []model.Quiz
	err := query.Order("created_at DESC, id DESC").Find(&quizzes).Error
	return quizzes, errors.Wrap(err, "list teacher quizzes")
}

func (r *QuizRepository) SetPublished(ctx context.Context, id uint, published bool) error {
	err := r.DB.WithContext(ctx).Model(&model.Quiz{}).
		Where("id = ?", id).
		Update("is_published", published).Error
	return errors.Wrap(err, "set quiz published")
}

// FindQuestion loads a question of quizID with its options.
func (r *QuizRepository) FindQuestion(ctx context.Context, quizID, questionID uint) (*model.Question, error) {
	var q model.Question
	err := r.DB.WithContext(ctx).
		Preload("Options", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC, id ASC")
		}).
		Where("id = ? AND quiz_id = ?", questionID, quizID).
		First(&q).Error
	if err != nil {
		return nil, findErr(err, util.ErrQuestionNotFound, "find question")
	}
	return &q, nil
}

// Delete removes the quiz and everything under it in one transaction.
func (r *QuizRepository) Delete(ctx context.Context, id uint) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		attemptIDs := tx.Model(&model.Attempt{}).Select("id").Where("quiz_id = ?", id)
		if err := tx.Where("attempt_id IN (?)", attemptIDs).Delete(&model.Answer{}).Error; err != nil {
			return errors.Wrap(err, "delete quiz answers")
		}
		if err := tx.Where("quiz_id = ?", id).Delete(&model.Attempt{}).Error; err != nil {
			return errors.Wrap(err, "delete quiz attempts")
		}
		questionIDs := tx.Model(&model.Question{}).Select("id").Where("quiz_id = ?", id)
		if err := tx.Where("question_id IN (?)", questionIDs).Delete(&model.Option{}).Error; err != nil {
			return errors.Wrap(err, "delete quiz options")
		}
		if err := tx.Where("quiz_id = ?", id).Delete(&model.Question{}).Error; err != nil {
			return errors.Wrap(err, "delete quiz questions")
		}
		if err := tx.Delete(&model.Quiz{}, id).Error; err != nil {
			return errors.Wrap(err, "delete quiz")
		}
		return nil
	})
}
