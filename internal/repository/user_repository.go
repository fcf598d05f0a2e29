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

type UserRepository struct {
	DB *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{DB: db}
}

func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	return errors.Wrap(r.DB.WithContext(ctx).Create(user).Error, "create user")
}

func (r *UserRepository) FindByID(ctx context.Context, id uint) (*model.User, error) {
	var user model.User
	err := r.DB.WithContext(ctx).First(&user, id).Error
	if err != nil {
		return nil, findErr(err, util.ErrUserNotFound, "find user")
	}
	return &user, nil
}

// FindByUserID resolves the external account id carried in tokens.
func (r *UserRepository) FindByUserID(ctx context.Context, userID string) (*model.User, error) {
	var user model.User
	err := r.DB.WithContext(ctx).Where("user_id = ?", userID).First(&user).Error
	if err != nil {
		return nil, findErr(err, util.ErrUserNotFound, "find user by user id")
	}
	return &user, nil
}

// Upsert creates or refreshes the profile synced from the account system,
// keyed by the external user id.
func (r *UserRepository) Upsert(ctx context.Context, user *model.User) error {
	err := r.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"full_name", "email", "role", "subject", "current_year", "updated_at"}),
	}).Create(user).Error
	if err != nil {
		return errors.Wrap(err, "upsert user")
	}
	// the conflicting row's id is not reported the same way by every driver
	found, err := r.FindByUserID(ctx, user.UserID)
	if err != nil {
		return err
	}
	*user = *found
	return nil
}

func (r *UserRepository) UpdateLastSeen(userID string) error {
	err := r.DB.Model(&model.User{}).
		Where("user_id = ?", userID).
		UpdateColumn("last_seen_at", time.Now()).Error
	return errors.Wrap(err, "update last seen")
}
