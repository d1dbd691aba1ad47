package repository

import (
	"context"
	"errors"

	"dataseller/internal/entities"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type CustomerRepository struct {
	db *pgxpool.Pool
}

func NewCustomerRepository(db *pgxpool.Pool) *CustomerRepository {
	return &CustomerRepository{db: db}
}

// Upsert creates the customer on first contact and refreshes
// last_interaction on every message. Name is only written when non-empty
// so a later nameless webhook does not erase a known profile name.
func (r *CustomerRepository) Upsert(ctx context.Context, phoneNumber, name string) (*entities.Customer, error) {
	var c entities.Customer
	err := r.db.QueryRow(ctx, `
		INSERT INTO customers (phone_number, name, last_interaction)
		VALUES ($1, NULLIF($2, ''), NOW())
		ON CONFLICT (phone_number) DO UPDATE
		SET last_interaction = NOW(),
		    name = COALESCE(NULLIF(EXCLUDED.name, ''), customers.name)
		RETURNING id, phone_number, COALESCE(name, ''), is_active, total_purchases, last_interaction, created_at
	`, phoneNumber, name).Scan(&c.ID, &c.PhoneNumber, &c.Name, &c.IsActive, &c.TotalPurchases, &c.LastInteraction, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// GetByPhone returns nil when the customer does not exist.
func (r *CustomerRepository) GetByPhone(ctx context.Context, phoneNumber string) (*entities.Customer, error) {
	var c entities.Customer
	err := r.db.QueryRow(ctx, `
		SELECT id, phone_number, COALESCE(name, ''), is_active, total_purchases, last_interaction, created_at
		FROM customers WHERE phone_number = $1
	`, phoneNumber).Scan(&c.ID, &c.PhoneNumber, &c.Name, &c.IsActive, &c.TotalPurchases, &c.LastInteraction, &c.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CustomerRepository) List(ctx context.Context, limit int) ([]entities.Customer, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, phone_number, COALESCE(name, ''), is_active, total_purchases, last_interaction, created_at
		FROM customers ORDER BY last_interaction DESC LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	customers := []entities.Customer{}
	for rows.Next() {
		var c entities.Customer
		if err := rows.Scan(&c.ID, &c.PhoneNumber, &c.Name, &c.IsActive, &c.TotalPurchases, &c.LastInteraction, &c.CreatedAt); err != nil {
			return nil, err
		}
		customers = append(customers, c)
	}
	return customers, rows.Err()
}

// IncrementPurchases bumps the lifetime purchase counter after an order
// completes.
func (r *CustomerRepository) IncrementPurchases(ctx context.Context, customerID int64) error {
	_, err := r.db.Exec(ctx,
		"UPDATE customers SET total_purchases = total_purchases + 1 WHERE id = $1", customerID)
	return err
}
