package postgres

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"
	"testing"
	"time"

	"coursebot/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string { return &s }
func intPtr(v int) *int       { return &v }

func TestSelectionRepo_GetSelection(t *testing.T) {
	now := time.Now()
	columns := []string{"user_id", "subject", "variant", "package", "price", "created_at", "updated_at"}

	tests := []struct {
		name          string
		mockRows      *sqlmock.Rows
		mockError     error
		expected      *domain.Selection
		expectedError bool
	}{
		{
			name:     "complete draft",
			mockRows: sqlmock.NewRows(columns).AddRow(123, "A", "27", "basic", 3000, now, now),
			expected: &domain.Selection{
				UserID: 123, Subject: "A", Variant: "27", Package: "basic", Price: 3000,
				CreatedAt: now, UpdatedAt: now,
			},
		},
		{
			name:     "subject only",
			mockRows: sqlmock.NewRows(columns).AddRow(123, "A", nil, nil, nil, now, now),
			expected: &domain.Selection{UserID: 123, Subject: "A", CreatedAt: now, UpdatedAt: now},
		},
		{
			name:      "no draft",
			mockError: sql.ErrNoRows,
			expected:  nil,
		},
		{
			name:          "database error",
			mockError:     fmt.Errorf("db error"),
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			assert.NoError(t, err)
			defer db.Close()

			repo := NewSelectionRepo(db)

			query := "SELECT user_id, subject, variant, package, price, created_at, updated_at FROM selections WHERE user_id = \\$1"
			if tt.mockError != nil {
				mock.ExpectQuery(query).WithArgs(int64(123)).WillReturnError(tt.mockError)
			} else {
				mock.ExpectQuery(query).WithArgs(int64(123)).WillReturnRows(tt.mockRows)
			}

			selection, err := repo.GetSelection(context.Background(), 123)

			if tt.expectedError {
				assert.Error(t, err)
				assert.Nil(t, selection)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expected, selection)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestSelectionRepo_UpsertSelection(t *testing.T) {
	tests := []struct {
		name  string
		patch domain.SelectionPatch
		args  []driver.Value
	}{
		{
			name:  "subject resets forward fields",
			patch: domain.SelectionPatch{Subject: strPtr("A"), ResetForward: true},
			args:  []driver.Value{int64(1), "A", nil, nil, nil, false, false, false, false},
		},
		{
			name:  "variant keeps subject and resets package",
			patch: domain.SelectionPatch{Variant: strPtr("27"), ResetForward: true},
			args:  []driver.Value{int64(1), nil, "27", nil, nil, true, false, false, false},
		},
		{
			name:  "package and price keep earlier fields",
			patch: domain.SelectionPatch{Package: strPtr("basic"), Price: intPtr(3000)},
			args:  []driver.Value{int64(1), nil, nil, "basic", int64(3000), true, true, false, false},
		},
		{
			name:  "partial update without reset keeps everything else",
			patch: domain.SelectionPatch{Variant: strPtr("5")},
			args:  []driver.Value{int64(1), nil, "5", nil, nil, true, false, true, true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			assert.NoError(t, err)
			defer db.Close()

			repo := NewSelectionRepo(db)

			mock.ExpectExec("INSERT INTO selections").
				WithArgs(tt.args...).
				WillReturnResult(sqlmock.NewResult(1, 1))

			err = repo.UpsertSelection(context.Background(), 1, tt.patch)

			assert.NoError(t, err)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestSelectionRepo_DeleteSelection(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := NewSelectionRepo(db)

	mock.ExpectExec("DELETE FROM selections WHERE user_id = \\$1").
		WithArgs(int64(123)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = repo.DeleteSelection(context.Background(), 123)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
