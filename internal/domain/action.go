package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// OrderAction is an admin action on a single order
type OrderAction string

const (
	ActionReady     OrderAction = "ready"
	ActionDelivered OrderAction = "delivered"
	ActionPaid      OrderAction = "paid"
	ActionComment   OrderAction = "comment"
	ActionDelete    OrderAction = "delete"
)

const (
	orderActionPrefix = "order-action"
	quickReplyPrefix  = "quick-reply"
)

// Status returns the order status an action sets, if any
func (a OrderAction) Status() (OrderStatus, bool) {
	switch a {
	case ActionReady:
		return StatusReady, true
	case ActionDelivered:
		return StatusDelivered, true
	case ActionPaid:
		return StatusPaid, true
	}
	return "", false
}

func (a OrderAction) valid() bool {
	switch a {
	case ActionReady, ActionDelivered, ActionPaid, ActionComment, ActionDelete:
		return true
	}
	return false
}

// ButtonAction is a decoded inline button payload.
// Exactly one of Order or QuickReply is meaningful.
type ButtonAction struct {
	Order      OrderAction
	OrderID    int64
	QuickReply bool
	TargetUser int64
}

// OrderActionPayload builds "order-action:<action>:<orderId>"
func OrderActionPayload(action OrderAction, orderID int64) string {
	return fmt.Sprintf("%s:%s:%d", orderActionPrefix, action, orderID)
}

// QuickReplyPayload builds "quick-reply:<userId>"
func QuickReplyPayload(userID int64) string {
	return fmt.Sprintf("%s:%d", quickReplyPrefix, userID)
}

// ParseButtonAction decodes a payload built by OrderActionPayload or QuickReplyPayload
func ParseButtonAction(payload string) (ButtonAction, error) {
	parts := strings.Split(payload, ":")

	switch {
	case len(parts) == 3 && parts[0] == orderActionPrefix:
		action := OrderAction(parts[1])
		if !action.valid() {
			return ButtonAction{}, fmt.Errorf("%w: unknown order action %q", ErrInvalidInput, parts[1])
		}
		id, err := parseID(parts[2])
		if err != nil {
			return ButtonAction{}, err
		}
		return ButtonAction{Order: action, OrderID: id}, nil

	case len(parts) == 2 && parts[0] == quickReplyPrefix:
		id, err := parseID(parts[1])
		if err != nil {
			return ButtonAction{}, err
		}
		return ButtonAction{QuickReply: true, TargetUser: id}, nil
	}

	return ButtonAction{}, fmt.Errorf("%w: unknown payload %q", ErrInvalidInput, payload)
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: bad identifier %q", ErrInvalidInput, raw)
	}
	return id, nil
}
