package repository

import (
	"context"
	"fmt"
	"log/slog"

	"dataseller/internal/catalog"

	"github.com/jackc/pgx/v5/pgxpool"
)

type ProductRepository struct {
	db *pgxpool.Pool
}

func NewProductRepository(db *pgxpool.Pool) *ProductRepository {
	return &ProductRepository{db: db}
}

// SyncFromCatalog upserts every catalog offer into the products table so
// orders reference stable rows.
func (r *ProductRepository) SyncFromCatalog(ctx context.Context, c *catalog.Catalog, logger *slog.Logger) error {
	count := 0
	for _, network := range c.Networks() {
		for _, offer := range c.PlansFor(network) {
			_, err := r.db.Exec(ctx, `
				INSERT INTO products (network, data_size, price, validity_period, is_available)
				VALUES ($1, $2, $3, $4, TRUE)
				ON CONFLICT (network, data_size) DO UPDATE
				SET price = EXCLUDED.price,
				    validity_period = EXCLUDED.validity_period,
				    is_available = TRUE
			`, offer.Network, offer.Size, offer.Price, offer.Validity)
			if err != nil {
				return fmt.Errorf("sync product %s %s: %w", offer.Network, offer.Size, err)
			}
			count++
		}
	}
	logger.Info("catalog synced to products table", "offers", count)
	return nil
}

// ProductID resolves the row backing a (network, size) offer.
func (r *ProductRepository) ProductID(ctx context.Context, network catalog.Network, size string) (int, error) {
	var id int
	err := r.db.QueryRow(ctx,
		"SELECT id FROM products WHERE network = $1 AND data_size = $2 AND is_available",
		network, size).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("lookup product %s %s: %w", network, size, err)
	}
	return id, nil
}
