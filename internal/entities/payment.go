package entities

import "github.com/shopspring/decimal"

// Payment outcomes delivered by the provider's terminal callback.
const (
	PaymentSucceeded = "success"
	PaymentFailed    = "failure"
)

// PaymentResult is the single terminal event the payment provider delivers
// for an initiated payment. Idempotency of delivery is the provider's
// contract; duplicates are defended against downstream.
type PaymentResult struct {
	UserID     int64
	AmountPaid decimal.Decimal
	Outcome    string
}
