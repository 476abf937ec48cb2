package handler

import (
	"log/slog"
	"net/http"

	"github.com/hitoshi/kakeibo/internal/middleware"
	"github.com/hitoshi/kakeibo/internal/web"
)

// PageHandler は組み込みHTMLページを配信するハンドラー。
type PageHandler struct{}

// NewPageHandler はPageHandlerを生成する。
func NewPageHandler() *PageHandler {
	return &PageHandler{}
}

// Home は家計簿のメインページを配信する。
// 未認証の場合はログインページへリダイレクトする。
// GET / および GET /index
func (h *PageHandler) Home(w http.ResponseWriter, r *http.Request) {
	if _, err := middleware.UserIDFromContext(r.Context()); err != nil {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	h.servePage(w, "index.html")
}

// LoginPage はログインページを配信する。
// GET /login
func (h *PageHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	h.servePage(w, "login.html")
}

// SignupPage はサインアップページを配信する。
// GET /signup
func (h *PageHandler) SignupPage(w http.ResponseWriter, r *http.Request) {
	h.servePage(w, "signup.html")
}

// servePage は埋め込みFSからHTMLページを読み出して書き込む。
func (h *PageHandler) servePage(w http.ResponseWriter, name string) {
	data, err := web.PagesFS.ReadFile("pages/" + name)
	if err != nil {
		slog.Error("failed to read embedded page",
			slog.String("page", name),
			slog.String("error", err.Error()),
		)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := w.Write(data); err != nil {
		slog.Error("failed to write page", slog.String("error", err.Error()))
	}
}
