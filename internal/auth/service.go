// Package auth はサインアップ、ログイン、セッション管理を提供する。
package auth

import (
	"context"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	mrand "math/rand"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hitoshi/kakeibo/internal/model"
	"github.com/hitoshi/kakeibo/internal/repository"
)

// publicIDRandMax は公開識別子に付与する乱数の上限（排他的）。
const publicIDRandMax = 100000

// ServiceConfig は認証サービスの設定。
type ServiceConfig struct {
	SessionSecret string
	SessionMaxAge int // セッション有効期間（秒）
}

// Service は認証に関するビジネスロジックを提供する。
// セッション状態はプロセスグローバルではなく、注入されたリポジトリに保持する。
type Service struct {
	userRepo    repository.UserRepository
	sessionRepo repository.SessionRepository
	hasher      *PasswordHasher
	config      ServiceConfig
}

// NewService はServiceを生成する。
func NewService(
	userRepo repository.UserRepository,
	sessionRepo repository.SessionRepository,
	hasher *PasswordHasher,
	config ServiceConfig,
) *Service {
	return &Service{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		hasher:      hasher,
		config:      config,
	}
}

// SignUp は新規ユーザーを登録する。
// 登録済みメールの場合はErrUserAlreadyExistsを返す（ここで必ず早期リターンする）。
// 公開識別子はメールのローカル部と[0, 100000)の乱数から導出する。
// この識別子には一意性保証がない（既知の弱点として仕様上維持。衝突時の
// リトライも行わない）。
func (s *Service) SignUp(ctx context.Context, username, email, password string) error {
	if username == "" || email == "" || password == "" {
		return model.ErrMissingFields
	}

	existing, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("failed to check existing user: %w", err)
	}
	if existing != nil {
		return model.ErrUserAlreadyExists
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		ID:           uuid.New().String(),
		PublicID:     derivePublicID(email),
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    time.Now(),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	slog.Info("new user signed up",
		slog.String("public_id", user.PublicID),
	)
	return nil
}

// Login は資格情報を検証し、成功時にセッションを発行する。
// 戻り値はクライアントがCookieで保持する不透明トークン。
// メール未登録はErrInvalidEmail、パスワード不一致はErrInvalidPasswordを返し、
// いずれの失敗パスでもセッション状態は変更しない。
func (s *Service) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return "", fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil {
		return "", model.ErrInvalidEmail
	}

	if !s.hasher.Verify(user.PasswordHash, password) {
		return "", model.ErrInvalidPassword
	}

	token, err := generateToken()
	if err != nil {
		return "", fmt.Errorf("failed to generate session token: %w", err)
	}

	now := time.Now()
	session := &model.Session{
		ID:           s.tokenDigest(token),
		UserPublicID: user.PublicID,
		ExpiresAt:    now.Add(time.Duration(s.config.SessionMaxAge) * time.Second),
		CreatedAt:    now,
	}

	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return "", fmt.Errorf("failed to save session: %w", err)
	}

	slog.Info("user logged in",
		slog.String("public_id", user.PublicID),
	)
	return token, nil
}

// Resolve はトークンからログイン中ユーザーの公開識別子を取得する。
// セッションが不在または期限切れの場合は空文字列を返す（エラーではない）。
func (s *Service) Resolve(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", nil
	}

	session, err := s.sessionRepo.FindByID(ctx, s.tokenDigest(token))
	if err != nil {
		return "", fmt.Errorf("failed to find session: %w", err)
	}
	if session == nil {
		return "", nil
	}

	return session.UserPublicID, nil
}

// Logout はセッションを破棄する。トークンが空の場合は何もしない。
func (s *Service) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}

	if err := s.sessionRepo.DeleteByID(ctx, s.tokenDigest(token)); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	slog.Info("user logged out")
	return nil
}

// tokenDigest はトークンのHMAC-SHA256ダイジェスト（hex）を返す。
// ストアにはダイジェストのみを保存するため、sessionsテーブルが漏れても
// 秘密鍵なしでは有効なトークンを復元できない。
func (s *Service) tokenDigest(token string) string {
	mac := hmac.New(sha256.New, []byte(s.config.SessionSecret))
	mac.Write([]byte(token))
	return hex.EncodeToString(mac.Sum(nil))
}

// generateToken は暗号的に安全なセッショントークンを生成する。
func generateToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// derivePublicID はメールのローカル部と乱数から公開識別子を導出する。
// 例: "al@x.com" → "al@42817"
func derivePublicID(email string) string {
	localPart, _, _ := strings.Cut(email, "@")
	return localPart + "@" + strconv.Itoa(mrand.Intn(publicIDRandMax))
}
