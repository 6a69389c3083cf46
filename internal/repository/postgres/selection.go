package postgres

import (
	"context"
	"database/sql"

	"coursebot/internal/domain"
)

// SelectionRepo implements repository.SelectionRepository
type SelectionRepo struct {
	db *sql.DB
}

// NewSelectionRepo creates a new selection repository
func NewSelectionRepo(db *sql.DB) *SelectionRepo {
	return &SelectionRepo{db: db}
}

// GetSelection returns the user's draft or nil if there is none
func (r *SelectionRepo) GetSelection(ctx context.Context, userID int64) (*domain.Selection, error) {
	var s domain.Selection
	var subject, variant, pkg sql.NullString
	var price sql.NullInt64
	query := `
		SELECT user_id, subject, variant, package, price, created_at, updated_at
		FROM selections
		WHERE user_id = $1
	`
	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&s.UserID, &subject, &variant, &pkg, &price, &s.CreatedAt, &s.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	s.Subject = subject.String
	s.Variant = variant.String
	s.Package = pkg.String
	s.Price = int(price.Int64)
	return &s, nil
}

// UpsertSelection applies a partial update in a single statement.
// Each keep flag preserves the stored column instead of the new value.
func (r *SelectionRepo) UpsertSelection(ctx context.Context, userID int64, patch domain.SelectionPatch) error {
	keep := keepFlags(patch)
	query := `
		INSERT INTO selections (user_id, subject, variant, package, price)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id) DO UPDATE SET
			subject = CASE WHEN $6 THEN selections.subject ELSE EXCLUDED.subject END,
			variant = CASE WHEN $7 THEN selections.variant ELSE EXCLUDED.variant END,
			package = CASE WHEN $8 THEN selections.package ELSE EXCLUDED.package END,
			price = CASE WHEN $9 THEN selections.price ELSE EXCLUDED.price END,
			updated_at = NOW()
	`
	_, err := r.db.ExecContext(ctx, query,
		userID,
		nullStringPtr(patch.Subject),
		nullStringPtr(patch.Variant),
		nullStringPtr(patch.Package),
		nullIntPtr(patch.Price),
		keep[0], keep[1], keep[2], keep[3],
	)
	return err
}

// DeleteSelection removes the draft entirely
func (r *SelectionRepo) DeleteSelection(ctx context.Context, userID int64) error {
	query := `DELETE FROM selections WHERE user_id = $1`
	_, err := r.db.ExecContext(ctx, query, userID)
	return err
}

// keepFlags returns, per column in flow order, whether the stored value survives the patch
func keepFlags(patch domain.SelectionPatch) [4]bool {
	set := [4]bool{patch.Subject != nil, patch.Variant != nil, patch.Package != nil, patch.Price != nil}

	last := -1
	for i, ok := range set {
		if ok {
			last = i
		}
	}

	var keep [4]bool
	for i := range set {
		switch {
		case set[i]:
			keep[i] = false
		case patch.ResetForward && i > last:
			keep[i] = false
		default:
			keep[i] = true
		}
	}
	return keep
}

func nullStringPtr(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func nullIntPtr(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}
