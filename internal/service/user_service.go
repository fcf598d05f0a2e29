package service

import (
	"context"

	"github.com/Nishashahzad/ISLAMIC-CENTER-LMS/internal/model"
	"github.com/Nishashahzad/ISLAMIC-CENTER-LMS/internal/repository"
	"github.com/Nishashahzad/ISLAMIC-CENTER-LMS/internal/util"
	"github.com/Nishashahzad/ISLAMIC-CENTER-LMS/pkg/logger"

	"go.uber.org/zap"
)

// UserInput is a profile pushed by the portal's account system.
type UserInput struct {
	UserID      string         `json:"userId" validate:"required,max=64"`
	FullName    string         `json:"fullName" validate:"required,max=100"`
	Email       string         `json:"email" validate:"omitempty,email,max=100"`
	Role        model.UserRole `json:"role" validate:"required,oneof=student teacher admin"`
	Subject     string         `json:"subject" validate:"max=255"`
	CurrentYear int            `json:"currentYear" validate:"gte=0,lte=5"`
}

type UserService struct {
	Users *repository.UserRepository
}

func NewUserService(users *repository.UserRepository) *UserService {
	return &UserService{Users: users}
}

// Sync creates or refreshes a user profile.
func (s *UserService) Sync(ctx context.Context, in UserInput) (*model.User, error) {
	if err := validateStruct(&in); err != nil {
		return nil, err
	}
	user := &model.User{
		UserID:      in.UserID,
		FullName:    in.FullName,
		Email:       in.Email,
		Role:        in.Role,
		Subject:     in.Subject,
		CurrentYear: in.CurrentYear,
	}
	if err := s.Users.Upsert(ctx, user); err != nil {
		return nil, util.Storage("sync user", err)
	}
	logger.Log.Info("User synced", zap.String("userId", user.UserID), zap.String("role", string(user.Role)))
	return user, nil
}

func (s *UserService) Me(ctx context.Context, userID string) (*model.User, error) {
	user, err := s.Users.FindByUserID(ctx, userID)
	if err != nil {
		return nil, util.Storage("find user", err)
	}
	return user, nil
}
