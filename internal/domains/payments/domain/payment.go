package domain

import (
	"errors"
	"regexp"
	"time"
)

// Status tracks an STK push from initiation to settlement.
type Status string

const (
	StatusInitiated Status = "INITIATED"
	StatusCompleted Status = "COMPLETED"
	StatusFailed    Status = "FAILED"
)

// ErrInvalidPhone rejects numbers Daraja cannot deliver a push to.
var ErrInvalidPhone = errors.New("phone number is invalid")

// ErrInvalidAmount rejects a non-positive charge.
var ErrInvalidAmount = errors.New("payment amount must be positive")

var phonePattern = regexp.MustCompile(`^\+?1?\d{9,15}$`)

// ValidatePhone checks the number against the accepted subscriber format.
func ValidatePhone(phone string) error {
	if !phonePattern.MatchString(phone) {
		return ErrInvalidPhone
	}
	return nil
}

// Payment records one STK push attempt against an order. CheckoutRequestID
// is the Daraja correlation key the callback carries back.
type Payment struct {
	ID                int64
	OrderID           int64
	Phone             string
	AmountCents       int64
	Status            Status
	MerchantRequestID string
	CheckoutRequestID string
	MpesaReceipt      string
	ResultCode        int
	ResultDesc        string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// NewPayment builds an initiated payment for the order.
func NewPayment(orderID int64, phone string, amountCents int64, now time.Time) (*Payment, error) {
	if err := ValidatePhone(phone); err != nil {
		return nil, err
	}
	if amountCents <= 0 {
		return nil, ErrInvalidAmount
	}
	return &Payment{
		OrderID:     orderID,
		Phone:       phone,
		AmountCents: amountCents,
		Status:      StatusInitiated,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// Settled reports whether the payment reached a terminal state.
func (p *Payment) Settled() bool {
	return p.Status == StatusCompleted || p.Status == StatusFailed
}

// Complete marks the payment successful with the gateway receipt.
func (p *Payment) Complete(receipt, resultDesc string, now time.Time) {
	p.Status = StatusCompleted
	p.MpesaReceipt = receipt
	p.ResultCode = 0
	p.ResultDesc = resultDesc
	p.UpdatedAt = now
}

// Fail marks the payment unsuccessful with the gateway result.
func (p *Payment) Fail(resultCode int, resultDesc string, now time.Time) {
	p.Status = StatusFailed
	p.ResultCode = resultCode
	p.ResultDesc = resultDesc
	p.UpdatedAt = now
}
