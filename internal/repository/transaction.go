package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"lbucks-bot/internal/model"
)

// TransactionRepository handles transaction data persistence.
type TransactionRepository struct {
	pool *pgxpool.Pool
}

// NewTransactionRepository creates a new TransactionRepository instance.
func NewTransactionRepository(pool *pgxpool.Pool) *TransactionRepository {
	return &TransactionRepository{pool: pool}
}

// Create creates a new transaction record.
func (r *TransactionRepository) Create(ctx context.Context, userID string, amount int64, txType string, description *string) (*model.Transaction, error) {
	const query = `
		INSERT INTO transactions (user_id, amount, type, description, created_at)
		VALUES ($1, $2, $3, $4, NOW())
		RETURNING id, user_id, amount, type, description, created_at
	`

	var tx model.Transaction
	err := r.pool.QueryRow(ctx, query, userID, amount, txType, description).Scan(
		&tx.ID,
		&tx.UserID,
		&tx.Amount,
		&tx.Type,
		&tx.Description,
		&tx.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create transaction: %w", err)
	}

	return &tx, nil
}

// GetByUserID retrieves all transactions for a user, ordered by creation time (newest first).
func (r *TransactionRepository) GetByUserID(ctx context.Context, userID string, limit int) ([]*model.Transaction, error) {
	const query = `
		SELECT id, user_id, amount, type, description, created_at
		FROM transactions
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := r.pool.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get transactions: %w", err)
	}
	defer rows.Close()

	var transactions []*model.Transaction
	for rows.Next() {
		var tx model.Transaction
		err := rows.Scan(
			&tx.ID,
			&tx.UserID,
			&tx.Amount,
			&tx.Type,
			&tx.Description,
			&tx.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		transactions = append(transactions, &tx)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transactions: %w", err)
	}

	return transactions, nil
}

// GetByUserIDAndType retrieves transactions for a user filtered by type.
func (r *TransactionRepository) GetByUserIDAndType(ctx context.Context, userID string, txType string, limit int) ([]*model.Transaction, error) {
	const query = `
		SELECT id, user_id, amount, type, description, created_at
		FROM transactions
		WHERE user_id = $1 AND type = $2
		ORDER BY created_at DESC
		LIMIT $3
	`

	rows, err := r.pool.Query(ctx, query, userID, txType, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get transactions: %w", err)
	}
	defer rows.Close()

	var transactions []*model.Transaction
	for rows.Next() {
		var tx model.Transaction
		err := rows.Scan(
			&tx.ID,
			&tx.UserID,
			&tx.Amount,
			&tx.Type,
			&tx.Description,
			&tx.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		transactions = append(transactions, &tx)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transactions: %w", err)
	}

	return transactions, nil
}
