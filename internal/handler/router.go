package handler

import (
	"context"
	"io/fs"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/hitoshi/kakeibo/internal/metrics"
	"github.com/hitoshi/kakeibo/internal/middleware"
	"github.com/hitoshi/kakeibo/internal/web"
)

// Pinger はヘルスチェックに必要なデータベース接続の部分インターフェース。
type Pinger interface {
	PingContext(ctx context.Context) error
}

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	Logger            *slog.Logger
	SessionResolver   middleware.SessionResolver
	CORSAllowedOrigin string

	// メトリクス
	Metrics  *metrics.Collector
	Gatherer prometheus.Gatherer

	// ヘルスチェック
	DB Pinger

	// 認証
	AuthService AuthServiceInterface
	AuthConfig  AuthHandlerConfig

	// 家計簿
	LedgerService LedgerServiceInterface
}

// NewRouter は全エンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	Recovery → SecurityHeaders → CORS → Logging → Metrics → Session
//
// セッションミドルウェアは拒否せず、ユーザーIDの注入のみを行う。
// 認証の要否はページ（リダイレクト）とAPI（失敗エンベロープ）で各ハンドラーが判断する。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.NewRecoveryMiddleware())
	r.Use(middleware.NewSecurityHeadersMiddleware())
	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))
	r.Use(middleware.NewLoggingMiddleware(deps.Logger))
	r.Use(deps.Metrics.Middleware())
	r.Use(middleware.NewSessionMiddleware(deps.SessionResolver))

	authHandler := NewAuthHandler(deps.AuthService, deps.Metrics, deps.AuthConfig)
	ledgerHandler := NewLedgerHandler(deps.LedgerService, deps.Metrics)
	pageHandler := NewPageHandler()

	// --- ページ ---
	r.Get("/", pageHandler.Home)
	r.Get("/index", pageHandler.Home)
	r.Get("/login", pageHandler.LoginPage)
	r.Get("/signup", pageHandler.SignupPage)

	// --- 認証 ---
	r.Post("/signup", authHandler.SignUp)
	r.Post("/login", authHandler.Login)
	r.Get("/logout", authHandler.Logout)

	// --- 家計簿API ---
	r.Route("/api", func(r chi.Router) {
		r.Get("/getAllDetails", ledgerHandler.GetAllDetails)
		r.Post("/addTransaction", ledgerHandler.AddTransaction)
	})

	// --- 運用エンドポイント ---
	r.Get("/health", newHealthHandler(deps.DB))
	r.Handle("/metrics", metrics.Handler(deps.Gatherer))

	// --- 静的アセット ---
	staticFS, err := fs.Sub(web.StaticFS, "static")
	if err == nil {
		r.Handle("/assets/*", http.StripPrefix("/assets/", http.FileServer(http.FS(staticFS))))
	}

	return r
}

// newHealthHandler はデータベース疎通を確認するヘルスチェックハンドラーを返す。
func newHealthHandler(db Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if db == nil || db.PingContext(r.Context()) != nil {
			http.Error(w, "unhealthy", http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	}
}
