package postgres

import (
	"context"
	"database/sql"
	"time"

	"coursebot/internal/domain"
)

// UserRepo implements repository.UserRepository
type UserRepo struct {
	db *sql.DB
}

// NewUserRepo creates a new user repository
func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{db: db}
}

// SaveUser creates the user or refreshes name, handle and last-seen time
func (r *UserRepo) SaveUser(ctx context.Context, user domain.User) error {
	query := `
		INSERT INTO users (user_id, first_name, username, last_seen)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (user_id)
		DO UPDATE SET first_name = EXCLUDED.first_name, username = EXCLUDED.username, last_seen = NOW()
	`
	_, err := r.db.ExecContext(ctx, query, user.ID, user.FirstName, nullString(user.Username))
	return err
}

// GetUser returns a user or nil if it doesn't exist
func (r *UserRepo) GetUser(ctx context.Context, userID int64) (*domain.User, error) {
	var u domain.User
	var username sql.NullString
	query := `SELECT user_id, first_name, username, created_at, last_seen FROM users WHERE user_id = $1`
	err := r.db.QueryRowContext(ctx, query, userID).Scan(&u.ID, &u.FirstName, &username, &u.CreatedAt, &u.LastSeenAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	u.Username = username.String
	return &u, nil
}

// SaveActivity appends an entry to the activity log
func (r *UserRepo) SaveActivity(ctx context.Context, activity domain.Activity) error {
	query := `
		INSERT INTO user_activities (user_id, activity_type, message_text, bot_response)
		VALUES ($1, $2, $3, $4)
	`
	_, err := r.db.ExecContext(ctx, query,
		activity.UserID, string(activity.Type), nullString(activity.Message), nullString(activity.Response),
	)
	return err
}

// GetActiveUsers returns users with activity after since, most recent first
func (r *UserRepo) GetActiveUsers(ctx context.Context, since time.Time) ([]domain.ActiveUser, error) {
	query := `
		SELECT u.user_id, u.first_name, u.username, u.created_at, u.last_seen,
			a.activity_type, a.message_text, a.created_at
		FROM users u
		JOIN LATERAL (
			SELECT activity_type, message_text, created_at
			FROM user_activities
			WHERE user_id = u.user_id AND created_at > $1
			ORDER BY created_at DESC
			LIMIT 1
		) a ON TRUE
		ORDER BY a.created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []domain.ActiveUser
	for rows.Next() {
		var au domain.ActiveUser
		var username, message sql.NullString
		var activityType string
		if err := rows.Scan(
			&au.ID, &au.FirstName, &username, &au.CreatedAt, &au.LastSeenAt,
			&activityType, &message, &au.LastActivityAt,
		); err != nil {
			return nil, err
		}
		au.Username = username.String
		au.LastActivity = message.String
		if au.LastActivity == "" {
			au.LastActivity = activityType
		}
		users = append(users, au)
	}

	return users, rows.Err()
}

// GetStats returns user counters. Orders are counted by OrderRepo.
func (r *UserRepo) GetStats(ctx context.Context, since time.Time) (*domain.Stats, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM users),
			(SELECT COUNT(DISTINCT user_id) FROM user_activities WHERE created_at > $1),
			(SELECT COUNT(*) FROM selections)
	`

	var s domain.Stats
	err := r.db.QueryRowContext(ctx, query, since).Scan(&s.TotalUsers, &s.ActiveUsers, &s.OpenSelections)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
