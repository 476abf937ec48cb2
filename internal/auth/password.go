package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// PasswordHasher はbcryptによるパスワードのハッシュ化と照合を提供する。
// コストは設定から注入する（テストでは最小コストを使い高速化する）。
type PasswordHasher struct {
	cost int
}

// NewPasswordHasher はPasswordHasherを生成する。
// costがbcryptの許容範囲外の場合はデフォルトコストにフォールバックする。
func NewPasswordHasher(cost int) *PasswordHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &PasswordHasher{cost: cost}
}

// Hash は平文パスワードをソルト付きダイジェストに変換する。
// ソルトとコストはダイジェスト文字列自体に埋め込まれる。
func (h *PasswordHasher) Hash(plaintext string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}

// Verify は平文パスワードが保存済みダイジェストと一致するかを返す。
// 比較はbcrypt内部で定数時間比較される。
// 壊れたダイジェストは例外ではなく照合失敗として扱う。
func (h *PasswordHasher) Verify(hash, plaintext string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}
