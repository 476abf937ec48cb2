package ledger

import "github.com/microcosm-cc/bluemonday"

// DescriptionSanitizer は取引の自由記述フィールドをサニタイズする。
// 許可リストが空のポリシーですべてのHTMLタグを除去し、
// 保存した説明文をそのまま画面に出しても安全なプレーンテキストにする。
// 同一入力に対して常に同一出力を返す（冪等）。
type DescriptionSanitizer struct {
	policy *bluemonday.Policy
}

// NewDescriptionSanitizer はDescriptionSanitizerを生成する。
func NewDescriptionSanitizer() *DescriptionSanitizer {
	return &DescriptionSanitizer{
		policy: bluemonday.StrictPolicy(),
	}
}

// Sanitize は入力からすべてのHTMLタグを除去して返す。
func (s *DescriptionSanitizer) Sanitize(raw string) string {
	return s.policy.Sanitize(raw)
}
