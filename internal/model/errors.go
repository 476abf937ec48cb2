package model

import "errors"

// ClientError はクライアントにそのまま返してよいエラーを表す。
// Messageはレスポンスエンベロープのmessageフィールドに入る固定文言。
// これ以外のエラーは内部情報の漏洩を防ぐため、
// サーバー側でログに残し、クライアントには汎用メッセージを返す。
type ClientError struct {
	Message string
}

// Error はerrorインターフェースを実装する。
func (e *ClientError) Error() string {
	return e.Message
}

// クライアント向け固定メッセージ。
// 失敗系3つは外部契約として文言を変更してはならない。
var (
	// ErrUserAlreadyExists は登録済みメールでのサインアップ。
	ErrUserAlreadyExists = &ClientError{Message: "User already exists"}
	// ErrInvalidEmail は未登録メールでのログイン。
	ErrInvalidEmail = &ClientError{Message: "Invalid email"}
	// ErrInvalidPassword はパスワード不一致でのログイン。
	ErrInvalidPassword = &ClientError{Message: "Invalid password"}
	// ErrMissingFields は必須フィールドの欠落。
	ErrMissingFields = &ClientError{Message: "Missing required fields"}
	// ErrAuthRequired はセッションなしでの保護APIアクセス。
	ErrAuthRequired = &ClientError{Message: "Authentication required"}
)

// GenericFailureMessage はストア障害などの内部エラーをクライアントへ
// 返すときの汎用文言。生のエラーは決して返さない。
const GenericFailureMessage = "Something went wrong. Please try again."

// ClientMessage はエラーチェーンからClientErrorを探し、
// クライアントに返してよいメッセージを取り出す。
func ClientMessage(err error) (string, bool) {
	var clientErr *ClientError
	if errors.As(err, &clientErr) {
		return clientErr.Message, true
	}
	return "", false
}
