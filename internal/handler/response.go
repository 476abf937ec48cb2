// Package handler はHTTPハンドラーを提供する。
package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/hitoshi/kakeibo/internal/model"
)

// 既存クライアントが解釈する固定のステータス値。
const (
	statusDescSuccess = "Success"
	statusDescFailure = "Failure"
	statusCodeSuccess = "SC"
	statusCodeFailure = "F"
)

// statusCode はレスポンスエンベロープ内のステータスコードオブジェクト。
type statusCode struct {
	Code string `json:"code"`
}

// envelope は全APIレスポンス共通のエンベロープ。
// 成否にかかわらずHTTPステータスは200で返し、結果はstatusDescで表現する。
type envelope struct {
	StatusDesc string                 `json:"statusDesc"`
	StatusCode statusCode             `json:"statusCode"`
	Message    string                 `json:"message"`
	Rows       []model.TransactionRow `json:"rows,omitempty"`
}

// rowsEnvelope は取引明細を含む成功エンベロープ。
// 該当0件でもrowsを空配列として必ず出力する。
type rowsEnvelope struct {
	StatusDesc string                 `json:"statusDesc"`
	StatusCode statusCode             `json:"statusCode"`
	Message    string                 `json:"message"`
	Rows       []model.TransactionRow `json:"rows"`
}

// writeSuccess は成功エンベロープを書き込む。
func writeSuccess(w http.ResponseWriter, message string) {
	writeEnvelope(w, envelope{
		StatusDesc: statusDescSuccess,
		StatusCode: statusCode{Code: statusCodeSuccess},
		Message:    message,
	})
}

// writeSuccessRows は取引明細行を含む成功エンベロープを書き込む。
// rowsがnilの場合でも空配列として出力する。
func writeSuccessRows(w http.ResponseWriter, message string, rows []model.TransactionRow) {
	if rows == nil {
		rows = []model.TransactionRow{}
	}
	writeEnvelope(w, rowsEnvelope{
		StatusDesc: statusDescSuccess,
		StatusCode: statusCode{Code: statusCodeSuccess},
		Message:    message,
		Rows:       rows,
	})
}

// writeFailure は失敗エンベロープを書き込む。HTTPステータスは200のまま。
func writeFailure(w http.ResponseWriter, message string) {
	writeEnvelope(w, envelope{
		StatusDesc: statusDescFailure,
		StatusCode: statusCode{Code: statusCodeFailure},
		Message:    message,
	})
}

// writeServiceError はサービス層のエラーを失敗エンベロープに変換する。
// ClientErrorはそのメッセージをそのまま返し、それ以外は内部エラーとして
// ログに記録した上で汎用メッセージを返す。
func writeServiceError(w http.ResponseWriter, err error) {
	if msg, ok := model.ClientMessage(err); ok {
		writeFailure(w, msg)
		return
	}
	slog.Error("internal error", slog.String("error", err.Error()))
	writeFailure(w, model.GenericFailureMessage)
}

// writeEnvelope はエンベロープをJSONとして書き込む。
func writeEnvelope(w http.ResponseWriter, env any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(env); err != nil {
		slog.Error("failed to encode response", slog.String("error", err.Error()))
	}
}
