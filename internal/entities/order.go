package entities

import "time"

// Order lifecycle. Receipt verification and fulfillment live outside
// this service; status moves past "paid" only through the admin API.
const (
	OrderStatusPending    = "pending"
	OrderStatusPaid       = "paid"
	OrderStatusProcessing = "processing"
	OrderStatusCompleted  = "completed"
	OrderStatusFailed     = "failed"
)

// Order is a captured purchase request for one data bundle.
type Order struct {
	ID              int64      `json:"id"`
	Reference       string     `json:"reference"`
	CustomerID      int64      `json:"customer_id"`
	ProductID       int        `json:"product_id,omitempty"` // 0 when the catalog row lookup failed
	Network         string     `json:"network"`
	BundleSize      string     `json:"bundle_size"`
	PhoneToRecharge string     `json:"phone_to_recharge"`
	Amount          int        `json:"amount"`
	Status          string     `json:"status"`
	CreatedAt       time.Time  `json:"created_at"`
	CompletedAt     *time.Time `json:"completed_at,omitempty"`
}

// Transaction records a payment attached to an order. The original
// system verified these through receipt OCR or a bank API; here only
// the manual admin path sets IsVerified.
type Transaction struct {
	ID                 int64     `json:"id"`
	OrderID            int64     `json:"order_id"`
	BankReference      string    `json:"bank_reference"`
	Amount             int       `json:"amount"`
	IsVerified         bool      `json:"is_verified"`
	VerificationMethod string    `json:"verification_method"` // receipt_scan, bank_api, manual
	BankName           string    `json:"bank_name,omitempty"`
	CreatedAt          time.Time `json:"created_at"`
}
