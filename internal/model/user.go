// Package model はドメインモデルを定義する。
package model

import "time"

// User はサービス利用ユーザーを表す。
// PublicIDはクライアントに公開する識別子で、内部行キーのIDとは別物。
// サインアップ時にメールのローカル部と乱数から導出されるため、
// 一意性は保証されない（既知の弱点として仕様上維持している）。
type User struct {
	ID           string
	PublicID     string
	Username     string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// Session はユーザーのログインセッションを表す。
// IDはクライアントが保持するトークンそのものではなく、
// SESSION_SECRETで鍵付きハッシュ化したダイジェスト。
type Session struct {
	ID           string
	UserPublicID string
	ExpiresAt    time.Time
	CreatedAt    time.Time
}
