package domain

import "time"

// User represents a bot user
type User struct {
	ID         int64
	FirstName  string
	Username   string
	CreatedAt  time.Time
	LastSeenAt time.Time
}

// DisplayName returns the name shown to the administrator
func (u User) DisplayName() string {
	if u.FirstName != "" {
		return u.FirstName
	}
	if u.Username != "" {
		return "@" + u.Username
	}
	return "Пользователь"
}

// ActiveUser is a user with their most recent activity inside the window
type ActiveUser struct {
	User
	LastActivity   string
	LastActivityAt time.Time
}

// ActivityType tags an activity log entry
type ActivityType string

const (
	ActivityStart             ActivityType = "start"
	ActivityMenuClick         ActivityType = "menu_click"
	ActivitySubjectSelected   ActivityType = "subject_selected"
	ActivityVariantEntered    ActivityType = "variant_entered"
	ActivityPackageSelected   ActivityType = "package_selected"
	ActivityCartView          ActivityType = "cart_view"
	ActivityEmptyCart         ActivityType = "empty_cart"
	ActivityOrderCreated      ActivityType = "order_created"
	ActivityClearChat         ActivityType = "clear_chat"
	ActivityConsultation      ActivityType = "consultation_request"
	ActivityUnknownMessage    ActivityType = "unknown_message"
	ActivityAdminReply        ActivityType = "admin_reply"
	ActivityBroadcast         ActivityType = "broadcast"
	ActivityOrderStatusUpdate ActivityType = "order_status_update"
)

// Activity is an append-only audit entry
type Activity struct {
	ID        int64
	UserID    int64
	Type      ActivityType
	Message   string
	Response  string
	CreatedAt time.Time
}

// Stats aggregates counters for the admin /stats command
type Stats struct {
	TotalUsers     int
	ActiveUsers    int
	OpenSelections int
	OrdersByStatus map[OrderStatus]int
}
