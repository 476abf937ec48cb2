package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/hitoshi/kakeibo/internal/metrics"
	"github.com/hitoshi/kakeibo/internal/middleware"
)

// AuthServiceInterface は認証ハンドラーが必要とするサービスインターフェース。
type AuthServiceInterface interface {
	SignUp(ctx context.Context, username, email, password string) error
	Login(ctx context.Context, email, password string) (string, error)
	Logout(ctx context.Context, token string) error
}

// AuthHandlerConfig は認証ハンドラーの設定。
type AuthHandlerConfig struct {
	CookieDomain  string
	CookieSecure  bool
	SessionMaxAge int // セッションCookieの有効期間（秒）
}

// AuthHandler はサインアップ・ログイン・ログアウトのHTTPハンドラー。
type AuthHandler struct {
	service AuthServiceInterface
	metrics metrics.Recorder
	config  AuthHandlerConfig
}

// NewAuthHandler はAuthHandlerを生成する。
func NewAuthHandler(service AuthServiceInterface, recorder metrics.Recorder, config AuthHandlerConfig) *AuthHandler {
	return &AuthHandler{
		service: service,
		metrics: recorder,
		config:  config,
	}
}

// credentialsRequest はサインアップ・ログインリクエストのボディ。
type credentialsRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// decodeCredentials はJSONまたはフォームエンコードのボディから資格情報を読み取る。
// 解析に失敗した場合はゼロ値を返し、欠落フィールドとしてサービス層で扱う。
func decodeCredentials(r *http.Request) credentialsRequest {
	if strings.Contains(r.Header.Get("Content-Type"), "application/json") {
		var req credentialsRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return credentialsRequest{}
		}
		return req
	}

	if err := r.ParseForm(); err != nil {
		return credentialsRequest{}
	}
	return credentialsRequest{
		Username: r.PostFormValue("username"),
		Email:    r.PostFormValue("email"),
		Password: r.PostFormValue("password"),
	}
}

// SignUp は新規ユーザー登録を処理する。
// POST /signup
func (h *AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	req := decodeCredentials(r)

	if err := h.service.SignUp(r.Context(), req.Username, req.Email, req.Password); err != nil {
		writeServiceError(w, err)
		return
	}

	h.metrics.RecordSignup()
	writeSuccess(w, "Sign up successful")
}

// Login は認証とセッション発行を処理する。
// POST /login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	req := decodeCredentials(r)

	token, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.metrics.RecordLogin(metrics.LoginResultFailure)
		writeServiceError(w, err)
		return
	}

	// セッショントークンをHTTP Only Cookieに設定
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    token,
		Path:     "/",
		Domain:   h.config.CookieDomain,
		MaxAge:   h.config.SessionMaxAge,
		HttpOnly: true,
		Secure:   h.config.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})

	h.metrics.RecordLogin(metrics.LoginResultSuccess)
	writeSuccess(w, "Login successful")
}

// Logout はセッションを破棄しログインページへリダイレクトする。
// GET /logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(middleware.SessionCookieName)
	if err == nil && cookie.Value != "" {
		// ログアウト失敗してもCookieはクリアする
		if logoutErr := h.service.Logout(r.Context(), cookie.Value); logoutErr != nil {
			slog.Error("failed to logout", slog.String("error", logoutErr.Error()))
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     "/",
		Domain:   h.config.CookieDomain,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.config.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})

	http.Redirect(w, r, "/login", http.StatusSeeOther)
}
