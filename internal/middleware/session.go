// Package middleware はHTTPミドルウェアを提供する。
package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
)

// SessionCookieName はセッショントークンを保持するCookieの名前。
const SessionCookieName = "session_id"

// contextKey はコンテキストに値を格納するための型安全なキー。
type contextKey string

// userIDContextKey はリクエストコンテキストにユーザーの公開IDを格納するためのキー。
var userIDContextKey = contextKey("user_public_id")

// SessionResolver はCookieのトークンからユーザーの公開IDを解決するインターフェース。
// auth.Serviceの部分集合として定義する。
type SessionResolver interface {
	// Resolve はトークンに対応するユーザーの公開IDを返す。
	// セッションが存在しない・期限切れの場合は空文字列を返す。
	Resolve(ctx context.Context, token string) (string, error)
}

// NewSessionMiddleware はHTTP Only Cookieからセッションを読み取り、
// 解決できた場合のみユーザーの公開IDをリクエストコンテキストに注入する
// ミドルウェアを返す。
// 未認証リクエストは拒否せず素通しする。認証の要否は各ハンドラーが判断する
// （ページはリダイレクト、APIは失敗エンベロープ）。
func NewSessionMiddleware(resolver SessionResolver) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(SessionCookieName)
			if err != nil || cookie.Value == "" {
				next.ServeHTTP(w, r)
				return
			}

			publicID, err := resolver.Resolve(r.Context(), cookie.Value)
			if err != nil {
				slog.Error("failed to resolve session",
					slog.String("error", err.Error()),
				)
				next.ServeHTTP(w, r)
				return
			}
			if publicID == "" {
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), userIDContextKey, publicID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserIDFromContext はリクエストコンテキストからユーザーの公開IDを取得する。
// セッションミドルウェアで解決されたリクエストでのみ有効。
func UserIDFromContext(ctx context.Context) (string, error) {
	publicID, ok := ctx.Value(userIDContextKey).(string)
	if !ok || publicID == "" {
		return "", fmt.Errorf("user ID not found in context")
	}
	return publicID, nil
}

// ContextWithUserID はコンテキストにユーザーの公開IDを注入する。
// テストやミドルウェア以外のコンテキスト生成で使用する。
func ContextWithUserID(ctx context.Context, publicID string) context.Context {
	return context.WithValue(ctx, userIDContextKey, publicID)
}
