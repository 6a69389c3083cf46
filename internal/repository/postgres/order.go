package postgres

import (
	"context"
	"database/sql"

	"coursebot/internal/domain"
)

// OrderRepo implements repository.OrderRepository
type OrderRepo struct {
	db *sql.DB
}

// NewOrderRepo creates a new order repository
func NewOrderRepo(db *sql.DB) *OrderRepo {
	return &OrderRepo{db: db}
}

const orderColumns = `o.id, o.user_id, o.subject, o.variant, o.package, o.price, o.status, o.comment,
			o.created_at, o.updated_at, COALESCE(u.first_name, ''), COALESCE(u.username, '')`

// CreateOrder inserts an order and returns the identifier assigned by the sequence
func (r *OrderRepo) CreateOrder(ctx context.Context, order domain.Order) (int64, error) {
	status := order.Status
	if status == "" {
		status = domain.StatusWorking
	}

	var id int64
	query := `
		INSERT INTO orders (user_id, subject, variant, package, price, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	err := r.db.QueryRowContext(ctx, query,
		order.UserID, order.Subject, order.Variant, order.Package, order.Price, string(status),
	).Scan(&id)
	return id, err
}

// GetOrder returns an order or nil if it doesn't exist
func (r *OrderRepo) GetOrder(ctx context.Context, orderID int64) (*domain.Order, error) {
	query := `
		SELECT ` + orderColumns + `
		FROM orders o
		LEFT JOIN users u ON u.user_id = o.user_id
		WHERE o.id = $1
	`
	o, err := scanOrder(r.db.QueryRowContext(ctx, query, orderID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return o, nil
}

// ListOrders returns orders oldest first, optionally filtered by status
func (r *OrderRepo) ListOrders(ctx context.Context, status *domain.OrderStatus) ([]domain.Order, error) {
	query := `
		SELECT ` + orderColumns + `
		FROM orders o
		LEFT JOIN users u ON u.user_id = o.user_id
		WHERE ($1::text IS NULL OR o.status = $1)
		ORDER BY o.created_at ASC, o.id ASC
	`

	var filter sql.NullString
	if status != nil {
		filter = sql.NullString{String: string(*status), Valid: true}
	}

	rows, err := r.db.QueryContext(ctx, query, filter)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *o)
	}

	return orders, rows.Err()
}

// UpdateOrderStatus sets the status; false means no such order
func (r *OrderRepo) UpdateOrderStatus(ctx context.Context, orderID int64, status domain.OrderStatus) (bool, error) {
	query := `UPDATE orders SET status = $1, updated_at = NOW() WHERE id = $2`
	return r.execAffected(ctx, query, string(status), orderID)
}

// UpdateOrderComment overwrites the admin comment; false means no such order
func (r *OrderRepo) UpdateOrderComment(ctx context.Context, orderID int64, comment string) (bool, error) {
	query := `UPDATE orders SET comment = $1, updated_at = NOW() WHERE id = $2`
	return r.execAffected(ctx, query, comment, orderID)
}

// DeleteOrder removes the order; false means no such order
func (r *OrderRepo) DeleteOrder(ctx context.Context, orderID int64) (bool, error) {
	query := `DELETE FROM orders WHERE id = $1`
	return r.execAffected(ctx, query, orderID)
}

// CountOrdersByStatus returns the number of orders per status
func (r *OrderRepo) CountOrdersByStatus(ctx context.Context) (map[domain.OrderStatus]int, error) {
	query := `SELECT status, COUNT(*) FROM orders GROUP BY status`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[domain.OrderStatus]int)
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		counts[domain.OrderStatus(status)] = n
	}

	return counts, rows.Err()
}

func (r *OrderRepo) execAffected(ctx context.Context, query string, args ...interface{}) (bool, error) {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanOrder(row rowScanner) (*domain.Order, error) {
	var o domain.Order
	var status string
	var comment sql.NullString
	if err := row.Scan(
		&o.ID, &o.UserID, &o.Subject, &o.Variant, &o.Package, &o.Price, &status, &comment,
		&o.CreatedAt, &o.UpdatedAt, &o.CustomerName, &o.CustomerUsername,
	); err != nil {
		return nil, err
	}
	o.Status = domain.OrderStatus(status)
	o.Comment = comment.String
	return &o, nil
}
