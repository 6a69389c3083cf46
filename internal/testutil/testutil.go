package testutil

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"coursebot/internal/domain"
	"coursebot/internal/messenger"

	"go.uber.org/zap"
)

// NewTestLogger creates a no-op logger for tests
func NewTestLogger() *zap.Logger {
	return zap.NewNop()
}

// NewTestUser creates a test user
func NewTestUser(userID int64, firstName, username string) domain.User {
	return domain.User{
		ID:         userID,
		FirstName:  firstName,
		Username:   username,
		CreatedAt:  time.Now(),
		LastSeenAt: time.Now(),
	}
}

// MemoryStore implements every repository interface in memory.
// Order identifiers come from a counter and are never reused.
type MemoryStore struct {
	mu         sync.Mutex
	users      map[int64]domain.User
	activities []domain.Activity
	selections map[int64]domain.Selection
	orders     map[int64]domain.Order
	lastOrder  int64
	now        func() time.Time
}

// NewMemoryStore creates an empty store
func NewMemoryStore() *MemoryStore {
	start := time.Now()
	var tick int64
	return &MemoryStore{
		users:      make(map[int64]domain.User),
		selections: make(map[int64]domain.Selection),
		orders:     make(map[int64]domain.Order),
		// strictly increasing so creation order is observable
		now: func() time.Time {
			tick++
			return start.Add(time.Duration(tick) * time.Millisecond)
		},
	}
}

func (s *MemoryStore) SaveUser(_ context.Context, user domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if existing, ok := s.users[user.ID]; ok {
		existing.FirstName = user.FirstName
		existing.Username = user.Username
		existing.LastSeenAt = now
		s.users[user.ID] = existing
		return nil
	}
	user.CreatedAt = now
	user.LastSeenAt = now
	s.users[user.ID] = user
	return nil
}

func (s *MemoryStore) GetUser(_ context.Context, userID int64) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[userID]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (s *MemoryStore) SaveActivity(_ context.Context, activity domain.Activity) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[activity.UserID]; !ok {
		return fmt.Errorf("activity for unknown user %d", activity.UserID)
	}
	activity.ID = int64(len(s.activities) + 1)
	activity.CreatedAt = s.now()
	s.activities = append(s.activities, activity)
	return nil
}

func (s *MemoryStore) GetActiveUsers(_ context.Context, since time.Time) ([]domain.ActiveUser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	latest := make(map[int64]domain.Activity)
	for _, a := range s.activities {
		if !a.CreatedAt.After(since) {
			continue
		}
		if prev, ok := latest[a.UserID]; !ok || a.CreatedAt.After(prev.CreatedAt) {
			latest[a.UserID] = a
		}
	}

	result := make([]domain.ActiveUser, 0, len(latest))
	for userID, a := range latest {
		last := a.Message
		if last == "" {
			last = string(a.Type)
		}
		result = append(result, domain.ActiveUser{
			User:           s.users[userID],
			LastActivity:   last,
			LastActivityAt: a.CreatedAt,
		})
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].LastActivityAt.After(result[j].LastActivityAt)
	})
	return result, nil
}

func (s *MemoryStore) GetStats(ctx context.Context, since time.Time) (*domain.Stats, error) {
	active, _ := s.GetActiveUsers(ctx, since)

	s.mu.Lock()
	defer s.mu.Unlock()

	return &domain.Stats{
		TotalUsers:     len(s.users),
		ActiveUsers:    len(active),
		OpenSelections: len(s.selections),
	}, nil
}

// Activities returns a copy of the activity log
func (s *MemoryStore) Activities() []domain.Activity {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.Activity, len(s.activities))
	copy(out, s.activities)
	return out
}

func (s *MemoryStore) GetSelection(_ context.Context, userID int64) (*domain.Selection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sel, ok := s.selections[userID]
	if !ok {
		return nil, nil
	}
	return &sel, nil
}

func (s *MemoryStore) UpsertSelection(_ context.Context, userID int64, patch domain.SelectionPatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	sel, ok := s.selections[userID]
	if !ok {
		sel = domain.Selection{UserID: userID, CreatedAt: now}
	}

	fields := []struct {
		set   bool
		apply func()
		clear func()
	}{
		{patch.Subject != nil, func() { sel.Subject = *patch.Subject }, func() { sel.Subject = "" }},
		{patch.Variant != nil, func() { sel.Variant = *patch.Variant }, func() { sel.Variant = "" }},
		{patch.Package != nil, func() { sel.Package = *patch.Package }, func() { sel.Package = "" }},
		{patch.Price != nil, func() { sel.Price = *patch.Price }, func() { sel.Price = 0 }},
	}

	last := -1
	for i, f := range fields {
		if f.set {
			last = i
		}
	}
	for i, f := range fields {
		switch {
		case f.set:
			f.apply()
		case patch.ResetForward && i > last:
			f.clear()
		case !ok:
			f.clear()
		}
	}

	sel.UpdatedAt = now
	s.selections[userID] = sel
	return nil
}

func (s *MemoryStore) DeleteSelection(_ context.Context, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.selections, userID)
	return nil
}

func (s *MemoryStore) CreateOrder(_ context.Context, order domain.Order) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if order.Price <= 0 {
		return 0, errors.New("price must be positive")
	}
	if order.Status == "" {
		order.Status = domain.StatusWorking
	}

	s.lastOrder++
	order.ID = s.lastOrder
	order.CreatedAt = s.now()
	order.UpdatedAt = order.CreatedAt
	s.orders[order.ID] = order
	return order.ID, nil
}

func (s *MemoryStore) GetOrder(_ context.Context, orderID int64) (*domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.orders[orderID]
	if !ok {
		return nil, nil
	}
	s.withCustomer(&o)
	return &o, nil
}

func (s *MemoryStore) ListOrders(_ context.Context, status *domain.OrderStatus) ([]domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var result []domain.Order
	for _, o := range s.orders {
		if status != nil && o.Status != *status {
			continue
		}
		s.withCustomer(&o)
		result = append(result, o)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].ID < result[j].ID
		}
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result, nil
}

func (s *MemoryStore) UpdateOrderStatus(_ context.Context, orderID int64, status domain.OrderStatus) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.orders[orderID]
	if !ok {
		return false, nil
	}
	o.Status = status
	o.UpdatedAt = s.now()
	s.orders[orderID] = o
	return true, nil
}

func (s *MemoryStore) UpdateOrderComment(_ context.Context, orderID int64, comment string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.orders[orderID]
	if !ok {
		return false, nil
	}
	o.Comment = comment
	o.UpdatedAt = s.now()
	s.orders[orderID] = o
	return true, nil
}

func (s *MemoryStore) DeleteOrder(_ context.Context, orderID int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.orders[orderID]; !ok {
		return false, nil
	}
	delete(s.orders, orderID)
	return true, nil
}

func (s *MemoryStore) CountOrdersByStatus(_ context.Context) (map[domain.OrderStatus]int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	counts := make(map[domain.OrderStatus]int)
	for _, o := range s.orders {
		counts[o.Status]++
	}
	return counts, nil
}

func (s *MemoryStore) withCustomer(o *domain.Order) {
	if u, ok := s.users[o.UserID]; ok {
		o.CustomerName = u.FirstName
		o.CustomerUsername = u.Username
	}
}

// SentMessage is a message captured by FakeMessenger
type SentMessage struct {
	ChatID int64
	Text   string
	Rows   [][]messenger.Button
}

// FakeMessenger records outgoing messages and fails for selected chats
type FakeMessenger struct {
	mu     sync.Mutex
	sent   []SentMessage
	failOn map[int64]bool
}

// NewFakeMessenger creates a messenger that fails for the given chat ids
func NewFakeMessenger(failOn ...int64) *FakeMessenger {
	f := &FakeMessenger{failOn: make(map[int64]bool)}
	for _, id := range failOn {
		f.failOn[id] = true
	}
	return f
}

func (f *FakeMessenger) Send(_ context.Context, chatID int64, text string, rows ...[]messenger.Button) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failOn[chatID] {
		return fmt.Errorf("%w: chat %d unreachable", domain.ErrTransport, chatID)
	}
	f.sent = append(f.sent, SentMessage{ChatID: chatID, Text: text, Rows: rows})
	return nil
}

// SentTo returns the messages delivered to chatID
func (f *FakeMessenger) SentTo(chatID int64) []SentMessage {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []SentMessage
	for _, m := range f.sent {
		if m.ChatID == chatID {
			out = append(out, m)
		}
	}
	return out
}
