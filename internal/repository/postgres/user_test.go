package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"coursebot/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func TestUserRepo_SaveUser(t *testing.T) {
	tests := []struct {
		name     string
		user     domain.User
		username interface{}
	}{
		{
			name:     "with username",
			user:     domain.User{ID: 123, FirstName: "Ivan", Username: "ivan"},
			username: "ivan",
		},
		{
			name:     "without username",
			user:     domain.User{ID: 456, FirstName: "Anna"},
			username: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			assert.NoError(t, err)
			defer db.Close()

			repo := NewUserRepo(db)

			mock.ExpectExec("INSERT INTO users").
				WithArgs(tt.user.ID, tt.user.FirstName, tt.username).
				WillReturnResult(sqlmock.NewResult(1, 1))

			err = repo.SaveUser(context.Background(), tt.user)

			assert.NoError(t, err)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestUserRepo_GetUser(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name          string
		userID        int64
		mockRows      *sqlmock.Rows
		mockError     error
		expectedNil   bool
		expectedError bool
	}{
		{
			name:   "user found",
			userID: 123,
			mockRows: sqlmock.NewRows([]string{"user_id", "first_name", "username", "created_at", "last_seen"}).
				AddRow(123, "Ivan", "ivan", now, now),
		},
		{
			name:        "user not exists",
			userID:      789,
			mockError:   sql.ErrNoRows,
			expectedNil: true,
		},
		{
			name:          "database error",
			userID:        5,
			mockError:     fmt.Errorf("connection reset"),
			expectedNil:   true,
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			assert.NoError(t, err)
			defer db.Close()

			repo := NewUserRepo(db)

			query := "SELECT user_id, first_name, username, created_at, last_seen FROM users WHERE user_id = \\$1"

			if tt.mockError != nil {
				mock.ExpectQuery(query).WithArgs(tt.userID).WillReturnError(tt.mockError)
			} else {
				mock.ExpectQuery(query).WithArgs(tt.userID).WillReturnRows(tt.mockRows)
			}

			user, err := repo.GetUser(context.Background(), tt.userID)

			if tt.expectedError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			if tt.expectedNil {
				assert.Nil(t, user)
			} else {
				assert.Equal(t, "Ivan", user.FirstName)
				assert.Equal(t, "ivan", user.Username)
			}

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestUserRepo_SaveActivity(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := NewUserRepo(db)

	mock.ExpectExec("INSERT INTO user_activities").
		WithArgs(int64(123), "menu_click", "Корзина", nil).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err = repo.SaveActivity(context.Background(), domain.Activity{
		UserID:  123,
		Type:    domain.ActivityMenuClick,
		Message: "Корзина",
	})

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepo_GetActiveUsers(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := NewUserRepo(db)

	now := time.Now()
	since := now.Add(-24 * time.Hour)

	rows := sqlmock.NewRows([]string{
		"user_id", "first_name", "username", "created_at", "last_seen",
		"activity_type", "message_text", "created_at",
	}).
		AddRow(1, "Ivan", "ivan", now, now, "menu_click", "Корзина", now).
		AddRow(2, "Anna", nil, now, now, "start", nil, now.Add(-time.Hour))

	mock.ExpectQuery("SELECT u.user_id, u.first_name").
		WithArgs(since).
		WillReturnRows(rows)

	users, err := repo.GetActiveUsers(context.Background(), since)

	assert.NoError(t, err)
	assert.Len(t, users, 2)
	assert.Equal(t, int64(1), users[0].ID)
	assert.Equal(t, "Корзина", users[0].LastActivity)
	assert.Equal(t, "", users[1].Username)
	assert.Equal(t, "start", users[1].LastActivity)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepo_GetActiveUsers_QueryError(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := NewUserRepo(db)
	since := time.Now()

	mock.ExpectQuery("SELECT u.user_id, u.first_name").
		WithArgs(since).
		WillReturnError(fmt.Errorf("query error"))

	users, err := repo.GetActiveUsers(context.Background(), since)

	assert.Error(t, err)
	assert.Nil(t, users)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepo_GetStats(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := NewUserRepo(db)
	since := time.Now()

	mock.ExpectQuery("SELECT \\(SELECT COUNT\\(\\*\\) FROM users\\)").
		WithArgs(since).
		WillReturnRows(sqlmock.NewRows([]string{"total", "active", "selections"}).AddRow(10, 4, 2))

	stats, err := repo.GetStats(context.Background(), since)

	assert.NoError(t, err)
	assert.Equal(t, 10, stats.TotalUsers)
	assert.Equal(t, 4, stats.ActiveUsers)
	assert.Equal(t, 2, stats.OpenSelections)
	assert.NoError(t, mock.ExpectationsWereMet())
}
