package service

import (
	"context"
	"time"

	"coursebot/internal/domain"
	"coursebot/internal/repository"

	"go.uber.org/zap"
)

// StatsService collects counters for the admin
type StatsService struct {
	userRepo  repository.UserRepository
	orderRepo repository.OrderRepository
	window    time.Duration
	logger    *zap.Logger
}

// NewStatsService creates a new stats service
func NewStatsService(userRepo repository.UserRepository, orderRepo repository.OrderRepository, window time.Duration, logger *zap.Logger) *StatsService {
	return &StatsService{
		userRepo:  userRepo,
		orderRepo: orderRepo,
		window:    window,
		logger:    logger,
	}
}

// Collect returns user, draft and per-status order counters
func (s *StatsService) Collect(ctx context.Context) (*domain.Stats, error) {
	stats, err := s.userRepo.GetStats(ctx, time.Now().Add(-s.window))
	if err != nil {
		s.logger.Error("Failed to collect user stats", zap.Error(err))
		return nil, storeErr("user stats", err)
	}

	counts, err := s.orderRepo.CountOrdersByStatus(ctx)
	if err != nil {
		s.logger.Error("Failed to count orders", zap.Error(err))
		return nil, storeErr("count orders", err)
	}
	stats.OrdersByStatus = counts

	return stats, nil
}
