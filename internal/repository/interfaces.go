// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"

	"github.com/hitoshi/kakeibo/internal/model"
)

// UserRepository はユーザーデータの永続化インターフェース。
type UserRepository interface {
	// FindByEmail は指定メールアドレスのユーザーを取得する。見つからない場合はnilを返す。
	FindByEmail(ctx context.Context, email string) (*model.User, error)

	// Create はユーザーを作成する。
	Create(ctx context.Context, user *model.User) error
}

// SessionRepository はセッションデータの永続化インターフェース。
type SessionRepository interface {
	// Create はセッションを作成する。
	Create(ctx context.Context, session *model.Session) error
	// FindByID は指定IDのセッションを取得する。期限切れまたは不在の場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Session, error)
	// DeleteByID は指定IDのセッションを削除する。
	DeleteByID(ctx context.Context, id string) error
}

// TransactionRepository は取引データの永続化インターフェース。
type TransactionRepository interface {
	// Create は取引を1件作成する。
	Create(ctx context.Context, txn *model.Transaction) error

	// ListByUser は指定ユーザーの取引一覧を返す。
	// 返す列は一覧用の射影（date, type, category, amount, payment_method）に固定する。
	ListByUser(ctx context.Context, userPublicID string) ([]model.TransactionRow, error)
}
