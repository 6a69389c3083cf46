package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"coursebot/internal/domain"
	"coursebot/internal/messenger"
	"coursebot/internal/repository"

	"go.uber.org/zap"
)

const defaultNotifyTimeout = 10 * time.Second

// OrderOptions configures notifications sent by OrderService
type OrderOptions struct {
	AdminID        int64
	ManagerContact string
	NotifyTimeout  time.Duration
}

// OrderService turns complete drafts into orders and manages their status
type OrderService struct {
	orderRepo     repository.OrderRepository
	selectionRepo repository.SelectionRepository
	users         *UserService
	catalog       *domain.Catalog
	messenger     messenger.Messenger
	opts          OrderOptions
	logger        *zap.Logger

	// Per-user checkout locks
	checkoutMux   sync.Mutex
	checkoutLocks map[int64]*sync.Mutex

	notifyMux     sync.Mutex
	notifyClosed  bool
	notifications sync.WaitGroup
}

// NewOrderService creates a new order service
func NewOrderService(
	orderRepo repository.OrderRepository,
	selectionRepo repository.SelectionRepository,
	users *UserService,
	catalog *domain.Catalog,
	msg messenger.Messenger,
	opts OrderOptions,
	logger *zap.Logger,
) *OrderService {
	if opts.NotifyTimeout <= 0 {
		opts.NotifyTimeout = defaultNotifyTimeout
	}
	return &OrderService{
		orderRepo:     orderRepo,
		selectionRepo: selectionRepo,
		users:         users,
		catalog:       catalog,
		messenger:     msg,
		opts:          opts,
		logger:        logger,
		checkoutLocks: make(map[int64]*sync.Mutex),
	}
}

// CreateOrder persists an order built from complete fields and returns its id
func (s *OrderService) CreateOrder(ctx context.Context, order domain.Order) (int64, error) {
	if order.Subject == "" || order.Variant == "" || order.Package == "" || order.Price <= 0 {
		return 0, fmt.Errorf("%w: order is incomplete", domain.ErrPrecondition)
	}
	order.Status = domain.StatusWorking

	id, err := s.orderRepo.CreateOrder(ctx, order)
	if err != nil {
		return 0, storeErr("create order", err)
	}
	return id, nil
}

// Checkout converts the user's complete draft into an order and clears the draft.
// Without a complete draft it fails with domain.ErrPrecondition.
func (s *OrderService) Checkout(ctx context.Context, user domain.User) (*domain.Order, error) {
	lock := s.userLock(user.ID)
	lock.Lock()
	defer lock.Unlock()

	sel, err := s.selectionRepo.GetSelection(ctx, user.ID)
	if err != nil {
		return nil, storeErr("get selection", err)
	}
	if !sel.IsComplete() {
		return nil, fmt.Errorf("%w: draft is %s", domain.ErrPrecondition, sel.Stage())
	}

	order := domain.Order{
		UserID:           user.ID,
		Subject:          sel.Subject,
		Variant:          sel.Variant,
		Package:          s.catalog.PackageName(sel.Package),
		Price:            sel.Price,
		Status:           domain.StatusWorking,
		CreatedAt:        time.Now(),
		CustomerName:     user.FirstName,
		CustomerUsername: user.Username,
	}

	id, err := s.CreateOrder(ctx, order)
	if err != nil {
		return nil, err
	}
	order.ID = id
	order.UpdatedAt = order.CreatedAt

	// A draft left next to its order would be checked out again
	if err := s.selectionRepo.DeleteSelection(ctx, user.ID); err != nil {
		if _, rbErr := s.orderRepo.DeleteOrder(ctx, id); rbErr != nil {
			s.logger.Error("Failed to roll back order after draft clear failure",
				zap.Error(rbErr),
				zap.Int64("user_id", user.ID),
				zap.Int64("order_id", id),
			)
		}
		return nil, storeErr("clear draft", err)
	}

	s.logger.Info("Order created",
		zap.Int64("user_id", user.ID),
		zap.Int64("order_id", id),
		zap.Int("price", order.Price),
	)
	s.users.Record(ctx, user.ID, domain.ActivityOrderCreated, fmt.Sprintf("Создан заказ #%d", id), "")

	if s.opts.AdminID != 0 {
		text := NewOrderNotice(order, user)
		s.notifyAsync(func(ctx context.Context) {
			if err := s.messenger.Send(ctx, s.opts.AdminID, text, OrderActionRows(id)...); err != nil {
				s.logger.Error("Failed to notify admin about new order", zap.Error(err), zap.Int64("order_id", id))
			}
		})
	}

	return &order, nil
}

// ListOrders returns orders oldest first. filter is "all" or a status value.
func (s *OrderService) ListOrders(ctx context.Context, filter string) ([]domain.Order, error) {
	var status *domain.OrderStatus
	if filter != "" && filter != domain.StatusFilterAll {
		st, err := domain.ParseOrderStatus(filter)
		if err != nil {
			return nil, err
		}
		status = &st
	}

	orders, err := s.orderRepo.ListOrders(ctx, status)
	if err != nil {
		return nil, storeErr("list orders", err)
	}
	return orders, nil
}

// GetOrder returns the order or an error wrapping domain.ErrNotFound
func (s *OrderService) GetOrder(ctx context.Context, orderID int64) (*domain.Order, error) {
	order, err := s.orderRepo.GetOrder(ctx, orderID)
	if err != nil {
		return nil, storeErr("get order", err)
	}
	if order == nil {
		return nil, fmt.Errorf("%w: order #%d", domain.ErrNotFound, orderID)
	}
	return order, nil
}

// SetStatus changes the order status; false if the order does not exist.
// The owner is notified asynchronously for every status except working.
func (s *OrderService) SetStatus(ctx context.Context, orderID int64, status domain.OrderStatus) (bool, error) {
	if !status.Valid() {
		return false, fmt.Errorf("%w: unknown order status %q", domain.ErrInvalidInput, status)
	}

	order, err := s.orderRepo.GetOrder(ctx, orderID)
	if err != nil {
		return false, storeErr("get order", err)
	}
	if order == nil {
		return false, nil
	}

	ok, err := s.orderRepo.UpdateOrderStatus(ctx, orderID, status)
	if err != nil {
		return false, storeErr("update order status", err)
	}
	if !ok {
		return false, nil
	}

	s.logger.Info("Order status changed",
		zap.Int64("order_id", orderID),
		zap.String("from", string(order.Status)),
		zap.String("to", string(status)),
	)

	label := s.catalog.StatusLabel(status)
	if text := StatusNotice(orderID, status, label, s.opts.ManagerContact); text != "" {
		ownerID := order.UserID
		s.notifyAsync(func(ctx context.Context) {
			if err := s.messenger.Send(ctx, ownerID, text); err != nil {
				s.logger.Error("Failed to notify user about order status",
					zap.Error(err),
					zap.Int64("user_id", ownerID),
					zap.Int64("order_id", orderID),
				)
				return
			}
			s.users.Record(ctx, ownerID, domain.ActivityOrderStatusUpdate,
				fmt.Sprintf("Статус заказа #%d изменен на %s", orderID, label), text)
		})
	}

	return true, nil
}

// SetComment overwrites the admin comment; false if the order does not exist
func (s *OrderService) SetComment(ctx context.Context, orderID int64, comment string) (bool, error) {
	ok, err := s.orderRepo.UpdateOrderComment(ctx, orderID, comment)
	if err != nil {
		return false, storeErr("update order comment", err)
	}
	return ok, nil
}

// DeleteOrder removes the order permanently; false if it does not exist
func (s *OrderService) DeleteOrder(ctx context.Context, orderID int64) (bool, error) {
	ok, err := s.orderRepo.DeleteOrder(ctx, orderID)
	if err != nil {
		return false, storeErr("delete order", err)
	}
	if ok {
		s.logger.Info("Order deleted", zap.Int64("order_id", orderID))
	}
	return ok, nil
}

// Wait blocks until in-flight notifications finish
func (s *OrderService) Wait() {
	s.notifications.Wait()
}

// Shutdown stops accepting notifications and waits for in-flight ones.
// Notifications requested afterwards are dropped.
func (s *OrderService) Shutdown() {
	s.notifyMux.Lock()
	s.notifyClosed = true
	s.notifyMux.Unlock()

	s.notifications.Wait()
}

func (s *OrderService) notifyAsync(fn func(ctx context.Context)) {
	s.notifyMux.Lock()
	defer s.notifyMux.Unlock()
	if s.notifyClosed {
		s.logger.Warn("Notification dropped during shutdown")
		return
	}
	s.notifications.Add(1)
	go func() {
		defer s.notifications.Done()
		ctx, cancel := context.WithTimeout(context.Background(), s.opts.NotifyTimeout)
		defer cancel()
		fn(ctx)
	}()
}

func (s *OrderService) userLock(userID int64) *sync.Mutex {
	s.checkoutMux.Lock()
	defer s.checkoutMux.Unlock()

	lock, exists := s.checkoutLocks[userID]
	if !exists {
		lock = &sync.Mutex{}
		s.checkoutLocks[userID] = lock
	}
	return lock
}
