package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/farmart-ke/farmart-api/internal/domains/payments/domain"
	"github.com/farmart-ke/farmart-api/internal/domains/payments/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists payments in PostgreSQL using GORM.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

type paymentRecord struct {
	ID                int64     `gorm:"primaryKey;column:id"`
	OrderID           int64     `gorm:"column:order_id;index"`
	Phone             string    `gorm:"column:phone;type:varchar(16)"`
	AmountCents       int64     `gorm:"column:amount_cents"`
	Status            string    `gorm:"column:status;type:varchar(16);index"`
	MerchantRequestID string    `gorm:"column:merchant_request_id"`
	CheckoutRequestID string    `gorm:"column:checkout_request_id;uniqueIndex"`
	MpesaReceipt      string    `gorm:"column:mpesa_receipt"`
	ResultCode        int       `gorm:"column:result_code"`
	ResultDesc        string    `gorm:"column:result_desc"`
	CreatedAt         time.Time `gorm:"column:created_at"`
	UpdatedAt         time.Time `gorm:"column:updated_at"`
}

func (paymentRecord) TableName() string { return "payments" }

func (r *Repository) Save(ctx context.Context, payment *domain.Payment) (*domain.Payment, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if payment == nil {
		return nil, errors.New("payment is nil")
	}
	record := toRecord(payment)
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"status":        record.Status,
				"mpesa_receipt": record.MpesaReceipt,
				"result_code":   record.ResultCode,
				"result_desc":   record.ResultDesc,
				"updated_at":    gorm.Expr("NOW()"),
			}),
		}).Create(&record).Error; err != nil {
		return nil, err
	}
	var saved paymentRecord
	if err := r.db.WithContext(ctx).First(&saved, "id = ?", record.ID).Error; err != nil {
		return nil, err
	}
	return saved.toDomain(), nil
}

func (r *Repository) GetByCheckoutRequestID(ctx context.Context, checkoutRequestID string) (*domain.Payment, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record paymentRecord
	err := r.db.WithContext(ctx).
		First(&record, "checkout_request_id = ?", checkoutRequestID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

func (r *Repository) ListForOrder(ctx context.Context, orderID int64) ([]*domain.Payment, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []paymentRecord
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("created_at DESC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	payments := make([]*domain.Payment, 0, len(records))
	for i := range records {
		payments = append(payments, records[i].toDomain())
	}
	return payments, nil
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres payment repository not configured")
	}
	return nil
}

func toRecord(payment *domain.Payment) paymentRecord {
	return paymentRecord{
		ID:                payment.ID,
		OrderID:           payment.OrderID,
		Phone:             payment.Phone,
		AmountCents:       payment.AmountCents,
		Status:            string(payment.Status),
		MerchantRequestID: payment.MerchantRequestID,
		CheckoutRequestID: payment.CheckoutRequestID,
		MpesaReceipt:      payment.MpesaReceipt,
		ResultCode:        payment.ResultCode,
		ResultDesc:        payment.ResultDesc,
		CreatedAt:         payment.CreatedAt,
		UpdatedAt:         payment.UpdatedAt,
	}
}

func (r paymentRecord) toDomain() *domain.Payment {
	return &domain.Payment{
		ID:                r.ID,
		OrderID:           r.OrderID,
		Phone:             r.Phone,
		AmountCents:       r.AmountCents,
		Status:            domain.Status(r.Status),
		MerchantRequestID: r.MerchantRequestID,
		CheckoutRequestID: r.CheckoutRequestID,
		MpesaReceipt:      r.MpesaReceipt,
		ResultCode:        r.ResultCode,
		ResultDesc:        r.ResultDesc,
		CreatedAt:         r.CreatedAt,
		UpdatedAt:         r.UpdatedAt,
	}
}
