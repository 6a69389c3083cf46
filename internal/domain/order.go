package domain

import (
	"fmt"
	"time"
)

// OrderStatus is an order label. Any status may follow any other.
type OrderStatus string

const (
	StatusWorking   OrderStatus = "working"
	StatusReady     OrderStatus = "ready"
	StatusDelivered OrderStatus = "delivered"
	StatusPaid      OrderStatus = "paid"
)

// StatusFilterAll selects every order regardless of status
const StatusFilterAll = "all"

// OrderStatuses lists statuses in display order
var OrderStatuses = []OrderStatus{StatusWorking, StatusReady, StatusDelivered, StatusPaid}

// Valid reports whether s is a known status
func (s OrderStatus) Valid() bool {
	for _, st := range OrderStatuses {
		if s == st {
			return true
		}
	}
	return false
}

// ParseOrderStatus converts a raw value into an OrderStatus
func ParseOrderStatus(raw string) (OrderStatus, error) {
	s := OrderStatus(raw)
	if !s.Valid() {
		return "", fmt.Errorf("%w: unknown order status %q", ErrInvalidInput, raw)
	}
	return s, nil
}

// Order is a finalized order
type Order struct {
	ID        int64
	UserID    int64
	Subject   string
	Variant   string
	Package   string
	Price     int
	Status    OrderStatus
	Comment   string
	CreatedAt time.Time
	UpdatedAt time.Time

	// Filled by listings that join the owner
	CustomerName     string
	CustomerUsername string
}
