package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"coursebot/internal/domain"
	"coursebot/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestStatsService_Collect(t *testing.T) {
	tests := []struct {
		name          string
		userStats     *domain.Stats
		userErr       error
		counts        map[domain.OrderStatus]int
		countErr      error
		expectedError bool
	}{
		{
			name:      "successful collection",
			userStats: &domain.Stats{TotalUsers: 10, ActiveUsers: 3, OpenSelections: 2},
			counts:    map[domain.OrderStatus]int{domain.StatusWorking: 4, domain.StatusPaid: 1},
		},
		{
			name:          "user stats error",
			userErr:       fmt.Errorf("db error"),
			expectedError: true,
		},
		{
			name:          "order count error",
			userStats:     &domain.Stats{TotalUsers: 1},
			countErr:      fmt.Errorf("db error"),
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			userRepo := new(testutil.MockUserRepository)
			orderRepo := new(testutil.MockOrderRepository)

			userRepo.On("GetStats", mock.Anything, mock.AnythingOfType("time.Time")).Return(tt.userStats, tt.userErr)
			if tt.userErr == nil {
				orderRepo.On("CountOrdersByStatus", mock.Anything).Return(tt.counts, tt.countErr)
			}

			service := NewStatsService(userRepo, orderRepo, 24*time.Hour, testutil.NewTestLogger())

			stats, err := service.Collect(context.Background())

			if tt.expectedError {
				assert.Error(t, err)
				assert.True(t, errors.Is(err, domain.ErrStore))
				assert.Nil(t, stats)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, 10, stats.TotalUsers)
				assert.Equal(t, 4, stats.OrdersByStatus[domain.StatusWorking])
			}

			userRepo.AssertExpectations(t)
			orderRepo.AssertExpectations(t)
		})
	}
}
