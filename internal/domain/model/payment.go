package model

import "time"

type PaymentStatus string

const (
	PaymentStatusPending    PaymentStatus = "PENDING"
	PaymentStatusSettlement PaymentStatus = "SETTLEMENT"
	PaymentStatusExpire     PaymentStatus = "EXPIRE"
	PaymentStatusCancel     PaymentStatus = "CANCEL"
	PaymentStatusDeny       PaymentStatus = "DENY"
	PaymentStatusRefund     PaymentStatus = "REFUND"
)

type PaymentMethod string

const (
	PaymentMethodBankTransfer PaymentMethod = "BANK_TRANSFER"
	PaymentMethodQRIS         PaymentMethod = "QRIS"
	PaymentMethodEWallet      PaymentMethod = "E_WALLET"
	PaymentMethodCreditCard   PaymentMethod = "CREDIT_CARD"
)

func ValidPaymentMethod(m PaymentMethod) bool {
	switch m {
	case PaymentMethodBankTransfer, PaymentMethodQRIS, PaymentMethodEWallet, PaymentMethodCreditCard:
		return true
	}
	return false
}

// Payment is one attempt to pay an order through the gateway. An order can
// accumulate several attempts, but at most one may be PENDING at a time.
// Rows are never deleted; webhook payload and signature are kept for audit.
type Payment struct {
	ID            int64         `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID       int64         `gorm:"not null;index" json:"order_id"`
	TransactionID string        `gorm:"type:varchar(255);not null;uniqueIndex" json:"transaction_id"`
	Method        PaymentMethod `gorm:"type:varchar(20);not null" json:"method"`
	Status        PaymentStatus `gorm:"type:varchar(20);not null;index" json:"status"`

	// Amount equals the order total at creation time.
	Amount     int64  `gorm:"not null" json:"amount"`
	PaymentURL string `gorm:"type:varchar(500)" json:"payment_url"`

	WebhookPayload string `gorm:"type:text" json:"-"`
	SignatureKey   string `gorm:"type:varchar(255)" json:"-"`

	InitiatedAt    time.Time  `gorm:"not null" json:"initiated_at"`
	ExpiresAt      *time.Time `json:"expires_at"`
	SettlementTime *time.Time `json:"settlement_time"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
