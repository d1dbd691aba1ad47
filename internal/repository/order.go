package repository

import (
	"context"
	"errors"
	"fmt"

	"dataseller/internal/entities"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type OrderRepository struct {
	db *pgxpool.Pool
}

func NewOrderRepository(db *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{db: db}
}

// Create inserts the order. A zero ProductID becomes NULL so orders
// survive a missing catalog row.
func (r *OrderRepository) Create(ctx context.Context, o *entities.Order) error {
	return r.db.QueryRow(ctx, `
		INSERT INTO orders (reference, customer_id, product_id, network, bundle_size, phone_to_recharge, amount, status)
		VALUES ($1, $2, NULLIF($3, 0), $4, $5, $6, $7, $8)
		RETURNING id, created_at
	`, o.Reference, o.CustomerID, o.ProductID, o.Network, o.BundleSize, o.PhoneToRecharge, o.Amount, o.Status).Scan(&o.ID, &o.CreatedAt)
}

// GetByReference returns nil when no order carries the reference.
func (r *OrderRepository) GetByReference(ctx context.Context, reference string) (*entities.Order, error) {
	var o entities.Order
	err := r.db.QueryRow(ctx, `
		SELECT id, reference, customer_id, COALESCE(product_id, 0), network, bundle_size, phone_to_recharge, amount, status, created_at, completed_at
		FROM orders WHERE reference = $1
	`, reference).Scan(&o.ID, &o.Reference, &o.CustomerID, &o.ProductID, &o.Network, &o.BundleSize, &o.PhoneToRecharge, &o.Amount, &o.Status, &o.CreatedAt, &o.CompletedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// List returns recent orders, optionally filtered by status.
func (r *OrderRepository) List(ctx context.Context, status string, limit int) ([]entities.Order, error) {
	query := `
		SELECT id, reference, customer_id, COALESCE(product_id, 0), network, bundle_size, phone_to_recharge, amount, status, created_at, completed_at
		FROM orders`
	args := []any{}
	if status != "" {
		query += " WHERE status = $1"
		args = append(args, status)
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT %d", limit)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := []entities.Order{}
	for rows.Next() {
		var o entities.Order
		if err := rows.Scan(&o.ID, &o.Reference, &o.CustomerID, &o.ProductID, &o.Network, &o.BundleSize, &o.PhoneToRecharge, &o.Amount, &o.Status, &o.CreatedAt, &o.CompletedAt); err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

func (r *OrderRepository) UpdateStatus(ctx context.Context, reference, status string) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE orders
		SET status = $2,
		    completed_at = CASE WHEN $2 IN ('completed', 'failed') THEN NOW() ELSE completed_at END
		WHERE reference = $1
	`, reference, status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("order %s not found", reference)
	}
	return nil
}

// RecordTransaction attaches a payment record to an order.
func (r *OrderRepository) RecordTransaction(ctx context.Context, t *entities.Transaction) error {
	return r.db.QueryRow(ctx, `
		INSERT INTO transactions (order_id, bank_reference, amount, is_verified, verification_method, bank_name)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`, t.OrderID, t.BankReference, t.Amount, t.IsVerified, t.VerificationMethod, t.BankName).Scan(&t.ID, &t.CreatedAt)
}

func (r *OrderRepository) TransactionsFor(ctx context.Context, orderID int64) ([]entities.Transaction, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, order_id, COALESCE(bank_reference, ''), amount, is_verified, COALESCE(verification_method, ''), COALESCE(bank_name, ''), created_at
		FROM transactions WHERE order_id = $1 ORDER BY created_at
	`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	txs := []entities.Transaction{}
	for rows.Next() {
		var t entities.Transaction
		if err := rows.Scan(&t.ID, &t.OrderID, &t.BankReference, &t.Amount, &t.IsVerified, &t.VerificationMethod, &t.BankName, &t.CreatedAt); err != nil {
			return nil, err
		}
		txs = append(txs, t)
	}
	return txs, rows.Err()
}
