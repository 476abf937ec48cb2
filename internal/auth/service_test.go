package auth

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/hitoshi/kakeibo/internal/model"
	"golang.org/x/crypto/bcrypt"
)

// --- モック定義 ---

type mockUserRepo struct {
	findByEmailFn func(ctx context.Context, email string) (*model.User, error)
	createFn      func(ctx context.Context, user *model.User) error
}

func (m *mockUserRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	if m.findByEmailFn != nil {
		return m.findByEmailFn(ctx, email)
	}
	return nil, nil
}

func (m *mockUserRepo) Create(ctx context.Context, user *model.User) error {
	if m.createFn != nil {
		return m.createFn(ctx, user)
	}
	return nil
}

type mockSessionRepo struct {
	createFn     func(ctx context.Context, session *model.Session) error
	findByIDFn   func(ctx context.Context, id string) (*model.Session, error)
	deleteByIDFn func(ctx context.Context, id string) error
}

func (m *mockSessionRepo) Create(ctx context.Context, session *model.Session) error {
	if m.createFn != nil {
		return m.createFn(ctx, session)
	}
	return nil
}

func (m *mockSessionRepo) FindByID(ctx context.Context, id string) (*model.Session, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, nil
}

func (m *mockSessionRepo) DeleteByID(ctx context.Context, id string) error {
	if m.deleteByIDFn != nil {
		return m.deleteByIDFn(ctx, id)
	}
	return nil
}

func newTestService(users *mockUserRepo, sessions *mockSessionRepo) *Service {
	return NewService(users, sessions, NewPasswordHasher(bcrypt.MinCost), ServiceConfig{
		SessionSecret: "test-secret",
		SessionMaxAge: 86400,
	})
}

// --- SignUp ---

func TestService_SignUp_NewEmail_CreatesUser(t *testing.T) {
	var created *model.User
	users := &mockUserRepo{
		createFn: func(ctx context.Context, user *model.User) error {
			created = user
			return nil
		},
	}
	svc := newTestService(users, &mockSessionRepo{})

	if err := svc.SignUp(context.Background(), "al", "al@x.com", "p1"); err != nil {
		t.Fatalf("SignUp failed: %v", err)
	}

	if created == nil {
		t.Fatal("expected user to be created")
	}
	if created.Username != "al" {
		t.Errorf("Username = %q, want %q", created.Username, "al")
	}
	if created.Email != "al@x.com" {
		t.Errorf("Email = %q, want %q", created.Email, "al@x.com")
	}
	if created.PasswordHash == "p1" {
		t.Error("password must not be stored in plaintext")
	}
	if created.ID == "" {
		t.Error("expected internal row ID to be set")
	}
}

func TestService_SignUp_PublicID_DerivedFromLocalPart(t *testing.T) {
	var created *model.User
	users := &mockUserRepo{
		createFn: func(ctx context.Context, user *model.User) error {
			created = user
			return nil
		},
	}
	svc := newTestService(users, &mockSessionRepo{})

	if err := svc.SignUp(context.Background(), "al", "al@x.com", "p1"); err != nil {
		t.Fatalf("SignUp failed: %v", err)
	}

	localPart, randPart, ok := strings.Cut(created.PublicID, "@")
	if !ok {
		t.Fatalf("PublicID = %q, want localpart@number form", created.PublicID)
	}
	if localPart != "al" {
		t.Errorf("public ID local part = %q, want %q", localPart, "al")
	}
	n, err := strconv.Atoi(randPart)
	if err != nil {
		t.Fatalf("public ID suffix %q is not a number", randPart)
	}
	if n < 0 || n >= publicIDRandMax {
		t.Errorf("public ID suffix = %d, want in [0, %d)", n, publicIDRandMax)
	}
}

func TestService_SignUp_ExistingEmail_ReturnsUserAlreadyExists(t *testing.T) {
	insertCalled := false
	users := &mockUserRepo{
		findByEmailFn: func(ctx context.Context, email string) (*model.User, error) {
			return &model.User{Email: email}, nil
		},
		createFn: func(ctx context.Context, user *model.User) error {
			insertCalled = true
			return nil
		},
	}
	svc := newTestService(users, &mockSessionRepo{})

	err := svc.SignUp(context.Background(), "al", "al@x.com", "p1")
	if !errors.Is(err, model.ErrUserAlreadyExists) {
		t.Fatalf("err = %v, want ErrUserAlreadyExists", err)
	}
	// 早期リターンによりINSERTは実行されないこと
	if insertCalled {
		t.Error("Create must not be called for an existing email")
	}
}

func TestService_SignUp_MissingFields_ReturnsError(t *testing.T) {
	svc := newTestService(&mockUserRepo{}, &mockSessionRepo{})

	for _, tc := range []struct {
		name                      string
		username, email, password string
	}{
		{"no username", "", "al@x.com", "p1"},
		{"no email", "al", "", "p1"},
		{"no password", "al", "al@x.com", ""},
	} {
		t.Run(tc.name, func(t *testing.T) {
			err := svc.SignUp(context.Background(), tc.username, tc.email, tc.password)
			if !errors.Is(err, model.ErrMissingFields) {
				t.Errorf("err = %v, want ErrMissingFields", err)
			}
		})
	}
}

func TestService_SignUp_StoreError_IsWrappedNotClientError(t *testing.T) {
	users := &mockUserRepo{
		findByEmailFn: func(ctx context.Context, email string) (*model.User, error) {
			return nil, errors.New("connection refused")
		},
	}
	svc := newTestService(users, &mockSessionRepo{})

	err := svc.SignUp(context.Background(), "al", "al@x.com", "p1")
	if err == nil {
		t.Fatal("expected error")
	}
	var clientErr *model.ClientError
	if errors.As(err, &clientErr) {
		t.Error("store errors must not surface as client errors")
	}
}

// --- Login ---

func hashedUser(t *testing.T, publicID, password string) *model.User {
	t.Helper()
	hash, err := NewPasswordHasher(bcrypt.MinCost).Hash(password)
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}
	return &model.User{
		ID:           "row-id-1",
		PublicID:     publicID,
		Username:     "al",
		Email:        "al@x.com",
		PasswordHash: hash,
	}
}

func TestService_Login_ValidCredentials_CreatesSession(t *testing.T) {
	user := hashedUser(t, "al@42817", "p1")
	var saved *model.Session
	users := &mockUserRepo{
		findByEmailFn: func(ctx context.Context, email string) (*model.User, error) {
			return user, nil
		},
	}
	sessions := &mockSessionRepo{
		createFn: func(ctx context.Context, session *model.Session) error {
			saved = session
			return nil
		},
	}
	svc := newTestService(users, sessions)

	token, err := svc.Login(context.Background(), "al@x.com", "p1")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if token == "" {
		t.Fatal("expected non-empty session token")
	}

	if saved == nil {
		t.Fatal("expected session to be created")
	}
	if saved.UserPublicID != "al@42817" {
		t.Errorf("session UserPublicID = %q, want %q", saved.UserPublicID, "al@42817")
	}
	// ストアにはトークンそのものではなくダイジェストが入ること
	if saved.ID == token {
		t.Error("stored session ID must not equal the raw token")
	}
	if saved.ExpiresAt.Before(time.Now()) {
		t.Error("session should not be created already expired")
	}
}

func TestService_Login_UnknownEmail_ReturnsInvalidEmail(t *testing.T) {
	sessionCreated := false
	sessions := &mockSessionRepo{
		createFn: func(ctx context.Context, session *model.Session) error {
			sessionCreated = true
			return nil
		},
	}
	svc := newTestService(&mockUserRepo{}, sessions)

	_, err := svc.Login(context.Background(), "nobody@x.com", "p1")
	if !errors.Is(err, model.ErrInvalidEmail) {
		t.Fatalf("err = %v, want ErrInvalidEmail", err)
	}
	if sessionCreated {
		t.Error("failed login must not mutate session state")
	}
}

func TestService_Login_WrongPassword_ReturnsInvalidPassword(t *testing.T) {
	user := hashedUser(t, "al@42817", "p1")
	sessionCreated := false
	users := &mockUserRepo{
		findByEmailFn: func(ctx context.Context, email string) (*model.User, error) {
			return user, nil
		},
	}
	sessions := &mockSessionRepo{
		createFn: func(ctx context.Context, session *model.Session) error {
			sessionCreated = true
			return nil
		},
	}
	svc := newTestService(users, sessions)

	_, err := svc.Login(context.Background(), "al@x.com", "wrong")
	if !errors.Is(err, model.ErrInvalidPassword) {
		t.Fatalf("err = %v, want ErrInvalidPassword", err)
	}
	if sessionCreated {
		t.Error("failed login must not mutate session state")
	}
}

// --- Resolve / Logout ---

func TestService_Resolve_ValidToken_ReturnsPublicID(t *testing.T) {
	var storedID string
	sessions := &mockSessionRepo{
		createFn: func(ctx context.Context, session *model.Session) error {
			storedID = session.ID
			return nil
		},
	}
	sessions.findByIDFn = func(ctx context.Context, id string) (*model.Session, error) {
		if id == storedID {
			return &model.Session{ID: id, UserPublicID: "al@42817", ExpiresAt: time.Now().Add(time.Hour)}, nil
		}
		return nil, nil
	}
	users := &mockUserRepo{
		findByEmailFn: func(ctx context.Context, email string) (*model.User, error) {
			return hashedUser(t, "al@42817", "p1"), nil
		},
	}
	svc := newTestService(users, sessions)

	token, err := svc.Login(context.Background(), "al@x.com", "p1")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	publicID, err := svc.Resolve(context.Background(), token)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if publicID != "al@42817" {
		t.Errorf("publicID = %q, want %q", publicID, "al@42817")
	}
}

func TestService_Resolve_UnknownToken_ReturnsEmpty(t *testing.T) {
	svc := newTestService(&mockUserRepo{}, &mockSessionRepo{})

	publicID, err := svc.Resolve(context.Background(), "no-such-token")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if publicID != "" {
		t.Errorf("publicID = %q, want empty for unknown token", publicID)
	}
}

func TestService_Resolve_EmptyToken_ReturnsEmptyWithoutLookup(t *testing.T) {
	lookupCalled := false
	sessions := &mockSessionRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.Session, error) {
			lookupCalled = true
			return nil, nil
		},
	}
	svc := newTestService(&mockUserRepo{}, sessions)

	publicID, err := svc.Resolve(context.Background(), "")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if publicID != "" {
		t.Errorf("publicID = %q, want empty", publicID)
	}
	if lookupCalled {
		t.Error("empty token should not hit the store")
	}
}

func TestService_Logout_DeletesSessionByDigest(t *testing.T) {
	var deletedID string
	sessions := &mockSessionRepo{
		deleteByIDFn: func(ctx context.Context, id string) error {
			deletedID = id
			return nil
		},
	}
	svc := newTestService(&mockUserRepo{}, sessions)

	if err := svc.Logout(context.Background(), "some-token"); err != nil {
		t.Fatalf("Logout failed: %v", err)
	}

	if deletedID == "" {
		t.Fatal("expected DeleteByID to be called")
	}
	if deletedID == "some-token" {
		t.Error("deletion must use the token digest, not the raw token")
	}
}

func TestService_TokenDigest_Deterministic(t *testing.T) {
	svc := newTestService(&mockUserRepo{}, &mockSessionRepo{})

	d1 := svc.tokenDigest("token-a")
	d2 := svc.tokenDigest("token-a")
	d3 := svc.tokenDigest("token-b")

	if d1 != d2 {
		t.Error("digest must be deterministic for the same token")
	}
	if d1 == d3 {
		t.Error("different tokens must produce different digests")
	}
}
