package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"lbucks-bot/internal/model"
)

// ShopRepository handles shop item persistence.
type ShopRepository struct {
	pool *pgxpool.Pool
}

// NewShopRepository creates a new ShopRepository instance.
func NewShopRepository(pool *pgxpool.Pool) *ShopRepository {
	return &ShopRepository{pool: pool}
}

// GetAll retrieves every shop item ordered by price.
func (r *ShopRepository) GetAll(ctx context.Context) ([]*model.ShopItem, error) {
	const query = `
		SELECT item_id, price, stock
		FROM shop_items
		ORDER BY price ASC
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get shop items: %w", err)
	}
	defer rows.Close()

	var items []*model.ShopItem
	for rows.Next() {
		var item model.ShopItem
		if err := rows.Scan(&item.ItemID, &item.Price, &item.Stock); err != nil {
			return nil, fmt.Errorf("failed to scan shop item: %w", err)
		}
		items = append(items, &item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating shop items: %w", err)
	}

	return items, nil
}

// GetByID retrieves a single shop item.
// Returns ErrItemNotFound if the item does not exist.
func (r *ShopRepository) GetByID(ctx context.Context, itemID string) (*model.ShopItem, error) {
	const query = `
		SELECT item_id, price, stock
		FROM shop_items
		WHERE item_id = $1
	`

	var item model.ShopItem
	err := r.pool.QueryRow(ctx, query, itemID).Scan(&item.ItemID, &item.Price, &item.Stock)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrItemNotFound
		}
		return nil, fmt.Errorf("failed to get shop item: %w", err)
	}

	return &item, nil
}

// DecrementStock reduces an item's stock by 1, returns true if successful.
// Fails (returns false) when the item is out of stock.
func (r *ShopRepository) DecrementStock(ctx context.Context, itemID string) (bool, error) {
	const query = `
		UPDATE shop_items
		SET stock = stock - 1
		WHERE item_id = $1 AND stock > 0
	`

	result, err := r.pool.Exec(ctx, query, itemID)
	if err != nil {
		return false, fmt.Errorf("failed to decrement stock: %w", err)
	}
	return result.RowsAffected() > 0, nil
}

// IncrementStock returns one unit of an item to the shelf.
// Used when an admin cancels a redemption.
func (r *ShopRepository) IncrementStock(ctx context.Context, itemID string) error {
	const query = `
		UPDATE shop_items
		SET stock = stock + 1
		WHERE item_id = $1
	`

	result, err := r.pool.Exec(ctx, query, itemID)
	if err != nil {
		return fmt.Errorf("failed to increment stock: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrItemNotFound
	}
	return nil
}

// SetStock sets an item's stock to an exact value.
func (r *ShopRepository) SetStock(ctx context.Context, itemID string, stock int) error {
	const query = `
		UPDATE shop_items
		SET stock = $2
		WHERE item_id = $1
	`

	result, err := r.pool.Exec(ctx, query, itemID, stock)
	if err != nil {
		return fmt.Errorf("failed to set stock: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrItemNotFound
	}
	return nil
}

// SetPrice sets an item's price to an exact value.
func (r *ShopRepository) SetPrice(ctx context.Context, itemID string, price int64) error {
	const query = `
		UPDATE shop_items
		SET price = $2
		WHERE item_id = $1
	`

	result, err := r.pool.Exec(ctx, query, itemID, price)
	if err != nil {
		return fmt.Errorf("failed to set price: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrItemNotFound
	}
	return nil
}
