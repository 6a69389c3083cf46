package repository

import (
	"context"
	"time"

	"coursebot/internal/domain"
)

// UserRepository defines user and activity log operations
type UserRepository interface {
	SaveUser(ctx context.Context, user domain.User) error
	GetUser(ctx context.Context, userID int64) (*domain.User, error)
	SaveActivity(ctx context.Context, activity domain.Activity) error
	GetActiveUsers(ctx context.Context, since time.Time) ([]domain.ActiveUser, error)
	GetStats(ctx context.Context, since time.Time) (*domain.Stats, error)
}

// SelectionRepository defines draft operations. One row per user.
type SelectionRepository interface {
	GetSelection(ctx context.Context, userID int64) (*domain.Selection, error)
	UpsertSelection(ctx context.Context, userID int64, patch domain.SelectionPatch) error
	DeleteSelection(ctx context.Context, userID int64) error
}

// OrderRepository defines order operations
type OrderRepository interface {
	CreateOrder(ctx context.Context, order domain.Order) (int64, error)
	GetOrder(ctx context.Context, orderID int64) (*domain.Order, error)
	ListOrders(ctx context.Context, status *domain.OrderStatus) ([]domain.Order, error)
	UpdateOrderStatus(ctx context.Context, orderID int64, status domain.OrderStatus) (bool, error)
	UpdateOrderComment(ctx context.Context, orderID int64, comment string) (bool, error)
	DeleteOrder(ctx context.Context, orderID int64) (bool, error)
	CountOrdersByStatus(ctx context.Context) (map[domain.OrderStatus]int, error)
}
