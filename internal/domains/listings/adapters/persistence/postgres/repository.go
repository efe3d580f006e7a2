package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/farmart-ke/farmart-api/internal/domains/listings/domain"
	"github.com/farmart-ke/farmart-api/internal/domains/listings/ports"
)

var _ ports.Repository = (*Repository)(nil)

// pgForeignKeyViolation is the SQLSTATE raised by the RESTRICT constraint on
// order lines when a referenced listing is deleted.
const pgForeignKeyViolation = "23503"

// Repository persists listings in PostgreSQL using GORM.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed repository. Caller manages DB lifecycle.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

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

// Save inserts or updates a listing.
func (r *Repository) Save(ctx context.Context, listing *domain.Listing) (*domain.Listing, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if listing == nil {
		return nil, errors.New("listing is nil")
	}
	clone := *listing
	if err := clone.Validate(); err != nil {
		return nil, err
	}
	record := toRecord(&clone)
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"name":        record.Name,
				"animal_type": record.AnimalType,
				"breed":       record.Breed,
				"age_months":  record.AgeMonths,
				"price_cents": record.PriceCents,
				"description": record.Description,
				"image_urls":  record.ImageURLs,
				"quantity":    record.Quantity,
				"sold_out":    record.SoldOut,
				"updated_at":  gorm.Expr("NOW()"),
			}),
		}).Create(&record).Error; err != nil {
		return nil, err
	}
	return r.GetByID(ctx, record.ID)
}

// GetByID fetches a listing by identifier.
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Listing, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record listingRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

// List returns listings newest first, honoring the filter.
func (r *Repository) List(ctx context.Context, filter ports.ListFilter) ([]*domain.Listing, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	query := r.db.WithContext(ctx).Order("created_at DESC")
	if filter.FarmerID != 0 {
		query = query.Where("farmer_id = ?", filter.FarmerID)
	}
	if !filter.IncludeSoldOut {
		query = query.Where("sold_out = ?", false)
	}
	var records []listingRecord
	if err := query.Find(&records).Error; err != nil {
		return nil, err
	}
	listings := make([]*domain.Listing, 0, len(records))
	for i := range records {
		listings = append(listings, records[i].toDomain())
	}
	return listings, nil
}

// Delete removes a listing. Referential protection on order lines surfaces as
// ErrReferenced.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	result := r.db.WithContext(ctx).Delete(&listingRecord{}, id)
	if result.Error != nil {
		var pgErr *pgconn.PgError
		if errors.As(result.Error, &pgErr) && pgErr.Code == pgForeignKeyViolation {
			return ports.ErrReferenced
		}
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ports.ErrNotFound
	}
	return nil
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres listing repository not configured")
	}
	return nil
}

func toRecord(listing *domain.Listing) listingRecord {
	return listingRecord{
		ID:          listing.ID,
		FarmerID:    listing.FarmerID,
		Name:        listing.Name,
		AnimalType:  string(listing.AnimalType),
		Breed:       listing.Breed,
		AgeMonths:   listing.AgeMonths,
		PriceCents:  listing.PriceCents,
		Description: listing.Description,
		ImageURLs:   pq.StringArray(listing.ImageURLs),
		Quantity:    listing.Quantity,
		SoldOut:     listing.SoldOut,
	}
}

func (r listingRecord) toDomain() *domain.Listing {
	return &domain.Listing{
		ID:          r.ID,
		FarmerID:    r.FarmerID,
		Name:        r.Name,
		AnimalType:  domain.AnimalType(r.AnimalType),
		Breed:       r.Breed,
		AgeMonths:   r.AgeMonths,
		PriceCents:  r.PriceCents,
		Description: r.Description,
		ImageURLs:   []string(r.ImageURLs),
		Quantity:    r.Quantity,
		SoldOut:     r.SoldOut,
	}
}
