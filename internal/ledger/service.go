// Package ledger は取引の記録と照会のドメインロジックを提供する。
package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/hitoshi/kakeibo/internal/model"
	"github.com/hitoshi/kakeibo/internal/repository"
)

// dateLayout は取引日付の受け付けフォーマット。
const dateLayout = "2006-01-02"

// RecordInput は取引記録の入力フィールド。
// AmountはJSONの数値とフォームの文字列のどちらでも届くため、
// ハンドラー側で文字列から変換してから渡す。
type RecordInput struct {
	Date          string
	Type          string
	Category      string
	Amount        float64
	PaymentMethod string
	Description   string
}

// Service は取引のサービス層。
type Service struct {
	txnRepo   repository.TransactionRepository
	sanitizer *DescriptionSanitizer
}

// NewService はServiceを生成する。
func NewService(txnRepo repository.TransactionRepository) *Service {
	return &Service{
		txnRepo:   txnRepo,
		sanitizer: NewDescriptionSanitizer(),
	}
}

// Record は認証済みユーザーの取引を1件記録する。
// 説明文はサニタイズしてから保存する。
func (s *Service) Record(ctx context.Context, userPublicID string, input RecordInput) error {
	date, err := time.Parse(dateLayout, input.Date)
	if err != nil {
		return fmt.Errorf("failed to parse transaction date %q: %w", input.Date, err)
	}

	txn := &model.Transaction{
		ID:            uuid.New().String(),
		UserPublicID:  userPublicID,
		Date:          date,
		Type:          input.Type,
		Category:      input.Category,
		Amount:        input.Amount,
		PaymentMethod: input.PaymentMethod,
		Description:   s.sanitizer.Sanitize(input.Description),
		CreatedAt:     time.Now(),
	}

	if err := s.txnRepo.Create(ctx, txn); err != nil {
		return fmt.Errorf("failed to record transaction: %w", err)
	}

	slog.Info("transaction recorded",
		slog.String("public_id", userPublicID),
		slog.String("type", txn.Type),
		slog.String("amount", strconv.FormatFloat(txn.Amount, 'f', 2, 64)),
	)
	return nil
}

// List は認証済みユーザーの取引一覧を返す。該当なしの場合は空スライスを返す。
// 常にuser_public_idでスコープされ、他ユーザーの行は決して含まれない。
func (s *Service) List(ctx context.Context, userPublicID string) ([]model.TransactionRow, error) {
	rows, err := s.txnRepo.ListByUser(ctx, userPublicID)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	return rows, nil
}
