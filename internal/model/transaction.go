package model

import "time"

// Transaction は家計簿の1取引を表す。
type Transaction struct {
	ID            string
	UserPublicID  string
	Date          time.Time
	Type          string
	Category      string
	Amount        float64
	PaymentMethod string
	Description   string
	CreatedAt     time.Time
}

// TransactionRow は/api/getAllDetailsで返す取引の射影。
// 元のクライアント互換のため、返す列はこの5つに固定する
// （descriptionは保存はするが一覧には含めない）。
type TransactionRow struct {
	Date          string  `json:"date"`
	Type          string  `json:"type"`
	Category      string  `json:"category"`
	Amount        float64 `json:"amount"`
	PaymentMethod string  `json:"payment_method"`
}
