package migrations

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Run applies the schema for the bounded contexts. Intended to replace
// adapter-level automigrate.
func Run(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	return db.AutoMigrate(
		&userRecord{},
		&sessionRecord{},
		&listingRecord{},
		&orderRecord{},
		&orderLineRecord{},
		&paymentRecord{},
	)
}

// User schema mirrors the users Postgres adapter.
type userRecord struct {
	ID        int64     `gorm:"primaryKey;column:id"`
	Username  string    `gorm:"column:username;uniqueIndex"`
	Email     string    `gorm:"column:email"`
	Password  string    `gorm:"column:password_hash"`
	Role      string    `gorm:"column:role;type:varchar(16);index"`
	Staff     bool      `gorm:"column:staff"`
	Phone     string    `gorm:"column:phone"`
	Location  string    `gorm:"column:location"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (userRecord) TableName() string { return "users" }

// Session schema mirrors the session store.
type sessionRecord struct {
	Token     string    `gorm:"primaryKey;column:token;size:128"`
	UserID    int64     `gorm:"column:user_id;index"`
	ExpiresAt time.Time `gorm:"column:expires_at;index"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (sessionRecord) TableName() string { return "user_sessions" }

// Listing schema mirrors the listings Postgres adapter.
type listingRecord struct {
	ID          int64          `gorm:"primaryKey;column:id"`
	FarmerID    int64          `gorm:"column:farmer_id;index"`
	Name        string         `gorm:"column:name"`
	AnimalType  string         `gorm:"column:animal_type;type:varchar(16);index"`
	Breed       string         `gorm:"column:breed"`
	AgeMonths   int32          `gorm:"column:age_months"`
	PriceCents  int64          `gorm:"column:price_cents"`
	Description string         `gorm:"column:description"`
	ImageURLs   pq.StringArray `gorm:"column:image_urls;type:text[]"`
	Quantity    int64          `gorm:"column:quantity"`
	SoldOut     bool           `gorm:"column:sold_out;index"`
	CreatedAt   time.Time      `gorm:"column:created_at;index"`
	UpdatedAt   time.Time      `gorm:"column:updated_at"`
}

func (listingRecord) TableName() string { return "listings" }

// Order schema mirrors the orders Postgres adapter.
type orderRecord struct {
	ID        int64     `gorm:"primaryKey;column:id"`
	BuyerID   int64     `gorm:"column:buyer_id;index"`
	Status    string    `gorm:"column:status;type:varchar(16);index"`
	CreatedAt time.Time `gorm:"column:created_at;index"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (orderRecord) TableName() string { return "orders" }

// Order line schema. Deleting an order cascades to its lines; deleting a
// listing with sold lines is blocked so order history keeps its reference.
type orderLineRecord struct {
	ID             int64          `gorm:"primaryKey;column:id"`
	OrderID        int64          `gorm:"column:order_id;uniqueIndex:idx_order_listing"`
	ListingID      int64          `gorm:"column:listing_id;uniqueIndex:idx_order_listing;index"`
	FarmerID       int64          `gorm:"column:farmer_id;index"`
	ListingName    string         `gorm:"column:listing_name"`
	UnitPriceCents int64          `gorm:"column:unit_price_cents"`
	Quantity       int64          `gorm:"column:quantity"`
	Order          *orderRecord   `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	Listing        *listingRecord `gorm:"foreignKey:ListingID;constraint:OnDelete:RESTRICT"`
}

func (orderLineRecord) TableName() string { return "order_lines" }

// Payment schema mirrors the payments Postgres adapter.
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
