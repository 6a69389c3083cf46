package service

import (
	"context"
	"fmt"
	"time"

	"coursebot/internal/domain"
	"coursebot/internal/repository"

	"go.uber.org/zap"
)

// storeErr tags a repository failure with domain.ErrStore
func storeErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", domain.ErrStore, op, err)
}

// UserService handles user profiles and the activity log
type UserService struct {
	userRepo repository.UserRepository
	window   time.Duration
	logger   *zap.Logger
}

// NewUserService creates a new user service. window bounds "active" users.
func NewUserService(userRepo repository.UserRepository, window time.Duration, logger *zap.Logger) *UserService {
	return &UserService{
		userRepo: userRepo,
		window:   window,
		logger:   logger,
	}
}

// Touch creates the user or refreshes name, handle and last-seen time
func (s *UserService) Touch(ctx context.Context, user domain.User) error {
	if err := s.userRepo.SaveUser(ctx, user); err != nil {
		return storeErr("save user", err)
	}
	return nil
}

// GetUser returns a user or nil if unknown
func (s *UserService) GetUser(ctx context.Context, userID int64) (*domain.User, error) {
	u, err := s.userRepo.GetUser(ctx, userID)
	if err != nil {
		return nil, storeErr("get user", err)
	}
	return u, nil
}

// Record appends an activity entry. Failures are logged and swallowed.
func (s *UserService) Record(ctx context.Context, userID int64, typ domain.ActivityType, message, response string) {
	err := s.userRepo.SaveActivity(ctx, domain.Activity{
		UserID:   userID,
		Type:     typ,
		Message:  message,
		Response: response,
	})
	if err != nil {
		s.logger.Warn("Failed to save activity",
			zap.Error(err),
			zap.Int64("user_id", userID),
			zap.String("activity", string(typ)),
		)
	}
}

// ActiveUsers returns users with activity inside the window, most recent first
func (s *UserService) ActiveUsers(ctx context.Context) ([]domain.ActiveUser, error) {
	users, err := s.userRepo.GetActiveUsers(ctx, time.Now().Add(-s.window))
	if err != nil {
		return nil, storeErr("get active users", err)
	}
	return users, nil
}

// Window returns the activity window
func (s *UserService) Window() time.Duration {
	return s.window
}
