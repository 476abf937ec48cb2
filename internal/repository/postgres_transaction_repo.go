package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/hitoshi/kakeibo/internal/model"
)

// PostgresTransactionRepo はPostgreSQLを使用した取引リポジトリ。
type PostgresTransactionRepo struct {
	db *sql.DB
}

// NewPostgresTransactionRepo はPostgresTransactionRepoを生成する。
func NewPostgresTransactionRepo(db *sql.DB) *PostgresTransactionRepo {
	return &PostgresTransactionRepo{db: db}
}

// Create は取引を1件作成する。
func (r *PostgresTransactionRepo) Create(ctx context.Context, txn *model.Transaction) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO transactions (id, user_public_id, date, type, category, amount, payment_method, description, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		txn.ID, txn.UserPublicID, txn.Date, txn.Type, txn.Category,
		txn.Amount, txn.PaymentMethod, txn.Description, txn.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert transaction: %w", err)
	}
	return nil
}

// ListByUser は指定ユーザーの取引一覧を返す。該当なしの場合は空スライスを返す。
func (r *PostgresTransactionRepo) ListByUser(ctx context.Context, userPublicID string) ([]model.TransactionRow, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT date, type, category, amount, payment_method
		 FROM transactions
		 WHERE user_public_id = $1
		 ORDER BY date DESC, created_at DESC`,
		userPublicID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	result := []model.TransactionRow{}
	for rows.Next() {
		var (
			row  model.TransactionRow
			date time.Time
		)
		if err := rows.Scan(&date, &row.Type, &row.Category, &row.Amount, &row.PaymentMethod); err != nil {
			return nil, fmt.Errorf("failed to scan transaction row: %w", err)
		}
		row.Date = date.Format("2006-01-02")
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transaction rows: %w", err)
	}

	return result, nil
}

// compile-time interface check
var _ TransactionRepository = (*PostgresTransactionRepo)(nil)
