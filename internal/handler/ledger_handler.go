package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/hitoshi/kakeibo/internal/ledger"
	"github.com/hitoshi/kakeibo/internal/metrics"
	"github.com/hitoshi/kakeibo/internal/middleware"
	"github.com/hitoshi/kakeibo/internal/model"
)

// LedgerServiceInterface は家計簿ハンドラーが必要とするサービスインターフェース。
type LedgerServiceInterface interface {
	Record(ctx context.Context, userPublicID string, input ledger.RecordInput) error
	List(ctx context.Context, userPublicID string) ([]model.TransactionRow, error)
}

// LedgerHandler は取引の記録・一覧取得のHTTPハンドラー。
type LedgerHandler struct {
	service LedgerServiceInterface
	metrics metrics.Recorder
}

// NewLedgerHandler はLedgerHandlerを生成する。
func NewLedgerHandler(service LedgerServiceInterface, recorder metrics.Recorder) *LedgerHandler {
	return &LedgerHandler{
		service: service,
		metrics: recorder,
	}
}

// addTransactionRequest は取引追加リクエストのボディ。
// amountはJSONの数値と文字列の両方を受け付ける。
type addTransactionRequest struct {
	Date          string          `json:"date"`
	Type          string          `json:"type"`
	Category      string          `json:"category"`
	Amount        json.RawMessage `json:"amount"`
	PaymentMethod string          `json:"payment_method"`
	Description   string          `json:"description"`
}

// parseAmount は数値または引用符付き文字列の金額をfloat64に変換する。
func parseAmount(raw string) (float64, error) {
	s := strings.Trim(strings.TrimSpace(raw), `"`)
	if s == "" {
		return 0, fmt.Errorf("amount is empty")
	}
	amount, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse amount %q: %w", s, err)
	}
	return amount, nil
}

// decodeRecordInput はJSONまたはフォームエンコードのボディから取引入力を読み取る。
func decodeRecordInput(r *http.Request) (ledger.RecordInput, error) {
	if strings.Contains(r.Header.Get("Content-Type"), "application/json") {
		var req addTransactionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return ledger.RecordInput{}, fmt.Errorf("failed to decode request body: %w", err)
		}
		amount, err := parseAmount(string(req.Amount))
		if err != nil {
			return ledger.RecordInput{}, err
		}
		return ledger.RecordInput{
			Date:          req.Date,
			Type:          req.Type,
			Category:      req.Category,
			Amount:        amount,
			PaymentMethod: req.PaymentMethod,
			Description:   req.Description,
		}, nil
	}

	if err := r.ParseForm(); err != nil {
		return ledger.RecordInput{}, fmt.Errorf("failed to parse form body: %w", err)
	}
	amount, err := parseAmount(r.PostFormValue("amount"))
	if err != nil {
		return ledger.RecordInput{}, err
	}
	return ledger.RecordInput{
		Date:          r.PostFormValue("date"),
		Type:          r.PostFormValue("type"),
		Category:      r.PostFormValue("category"),
		Amount:        amount,
		PaymentMethod: r.PostFormValue("payment_method"),
		Description:   r.PostFormValue("description"),
	}, nil
}

// AddTransaction は取引を1件記録する。
// POST /api/addTransaction
func (h *LedgerHandler) AddTransaction(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeFailure(w, model.ErrAuthRequired.Message)
		return
	}

	input, err := decodeRecordInput(r)
	if err != nil {
		writeFailure(w, model.GenericFailureMessage)
		return
	}

	if err := h.service.Record(r.Context(), userID, input); err != nil {
		writeServiceError(w, err)
		return
	}

	h.metrics.RecordTransaction()
	writeSuccess(w, "Transaction added successfully")
}

// GetAllDetails はログインユーザーの取引明細を返す。
// GET /api/getAllDetails
func (h *LedgerHandler) GetAllDetails(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeFailure(w, model.ErrAuthRequired.Message)
		return
	}

	rows, err := h.service.List(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeSuccessRows(w, "Data fetched successfully", rows)
}
