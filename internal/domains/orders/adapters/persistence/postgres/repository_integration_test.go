//go:build integration

package postgres

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	listingspostgres "github.com/farmart-ke/farmart-api/internal/domains/listings/adapters/persistence/postgres"
	listingsdomain "github.com/farmart-ke/farmart-api/internal/domains/listings/domain"
	listingsports "github.com/farmart-ke/farmart-api/internal/domains/listings/ports"
	"github.com/farmart-ke/farmart-api/internal/domains/orders/application"
	"github.com/farmart-ke/farmart-api/internal/domains/orders/domain"
	"github.com/farmart-ke/farmart-api/internal/domains/orders/ports"
	"github.com/farmart-ke/farmart-api/internal/platform/migrations"
	"github.com/farmart-ke/farmart-api/internal/shared/access"
)

func setupOrdersPostgresContainer(t *testing.T) (*gorm.DB, func()) {
	ctx := context.Background()

	pgContainer, err := tcpostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		tcpostgres.WithDatabase("farmart_test"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	err = migrations.Run(db)
	require.NoError(t, err)

	cleanup := func() {
		sqlDB, _ := db.DB()
		if sqlDB != nil {
			sqlDB.Close()
		}
		pgContainer.Terminate(ctx)
	}

	return db, cleanup
}

func seedIntegrationListing(t *testing.T, db *gorm.DB, farmerID, quantity int64) *listingsdomain.Listing {
	t.Helper()
	listing, err := listingsdomain.NewListing(farmerID, "Galla Goat", listingsdomain.AnimalGoat, "Galla", 12, 800_000, "", quantity)
	require.NoError(t, err)
	saved, err := listingspostgres.NewRepository(db).Save(context.Background(), listing)
	require.NoError(t, err)
	return saved
}

func TestCoordinator_PlaceOrderRoundTrip(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupOrdersPostgresContainer(t)
	defer cleanup()

	listing := seedIntegrationListing(t, db, 10, 3)
	coordinator := application.NewCoordinator(NewUnitOfWork(db), NewRepository(db))
	buyer := access.Actor{ID: 1, Role: access.RoleBuyer}
	ctx := context.Background()

	order, err := coordinator.PlaceOrder(ctx, buyer, []ports.CartLine{
		{ListingID: listing.ID, Quantity: 2},
	})
	require.NoError(t, err)
	require.NotZero(t, order.ID)

	fetched, err := coordinator.GetByID(ctx, buyer, order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, fetched.Status)
	require.Len(t, fetched.Lines, 1)
	assert.Equal(t, "Galla Goat", fetched.Lines[0].ListingName)
	assert.Equal(t, int64(800_000), fetched.Lines[0].UnitPriceCents)
	assert.Equal(t, int64(1_600_000), fetched.TotalCents())

	remaining, err := listingspostgres.NewRepository(db).GetByID(ctx, listing.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), remaining.Quantity)
	assert.False(t, remaining.SoldOut)
}

func TestCoordinator_ConcurrentOrdersSerializeOnRowLock(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupOrdersPostgresContainer(t)
	defer cleanup()

	listing := seedIntegrationListing(t, db, 10, 3)
	coordinator := application.NewCoordinator(NewUnitOfWork(db), NewRepository(db))
	ctx := context.Background()

	// Two buyers race for 2 of 3 units; SELECT ... FOR UPDATE lets exactly
	// one commit.
	results := make([]error, 2)
	var wg sync.WaitGroup
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			buyer := access.Actor{ID: int64(i + 1), Role: access.RoleBuyer}
			_, results[i] = coordinator.PlaceOrder(ctx, buyer, []ports.CartLine{
				{ListingID: listing.ID, Quantity: 2},
			})
		}(i)
	}
	wg.Wait()

	var succeeded, exhausted int
	for _, err := range results {
		if err == nil {
			succeeded++
			continue
		}
		var stockErr *application.InsufficientStockError
		require.ErrorAs(t, err, &stockErr)
		exhausted++
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 1, exhausted)

	remaining, err := listingspostgres.NewRepository(db).GetByID(ctx, listing.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), remaining.Quantity)
}

func TestCoordinator_InsufficientStockRollsBackWholeCart(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupOrdersPostgresContainer(t)
	defer cleanup()

	plentiful := seedIntegrationListing(t, db, 10, 5)
	scarceDomain, err := listingsdomain.NewListing(11, "Boran Cow", listingsdomain.AnimalCow, "Boran", 30, 5_000_000, "", 1)
	require.NoError(t, err)
	scarce, err := listingspostgres.NewRepository(db).Save(context.Background(), scarceDomain)
	require.NoError(t, err)

	coordinator := application.NewCoordinator(NewUnitOfWork(db), NewRepository(db))
	buyer := access.Actor{ID: 1, Role: access.RoleBuyer}
	ctx := context.Background()

	_, err = coordinator.PlaceOrder(ctx, buyer, []ports.CartLine{
		{ListingID: plentiful.ID, Quantity: 2},
		{ListingID: scarce.ID, Quantity: 3},
	})
	var stockErr *application.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)

	untouched, err := listingspostgres.NewRepository(db).GetByID(ctx, plentiful.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(5), untouched.Quantity)

	orders, err := NewRepository(db).ListForBuyer(ctx, buyer.ID)
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestCoordinator_StatusLifecycleAndFarmerListing(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupOrdersPostgresContainer(t)
	defer cleanup()

	listing := seedIntegrationListing(t, db, 10, 3)
	coordinator := application.NewCoordinator(NewUnitOfWork(db), NewRepository(db))
	buyer := access.Actor{ID: 1, Role: access.RoleBuyer}
	farmer := access.Actor{ID: 10, Role: access.RoleFarmer}
	ctx := context.Background()

	order, err := coordinator.PlaceOrder(ctx, buyer, []ports.CartLine{
		{ListingID: listing.ID, Quantity: 1},
	})
	require.NoError(t, err)

	confirmed, err := coordinator.UpdateStatus(ctx, farmer, order.ID, domain.StatusConfirmed)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusConfirmed, confirmed.Status)

	mine, err := coordinator.List(ctx, farmer)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, order.ID, mine[0].ID)

	stranger := access.Actor{ID: 50, Role: access.RoleFarmer}
	theirs, err := coordinator.List(ctx, stranger)
	require.NoError(t, err)
	assert.Empty(t, theirs)
}

func TestListingDelete_BlockedWhileOrderLinesReferenceIt(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupOrdersPostgresContainer(t)
	defer cleanup()

	listing := seedIntegrationListing(t, db, 10, 3)
	coordinator := application.NewCoordinator(NewUnitOfWork(db), NewRepository(db))
	buyer := access.Actor{ID: 1, Role: access.RoleBuyer}
	ctx := context.Background()

	_, err := coordinator.PlaceOrder(ctx, buyer, []ports.CartLine{
		{ListingID: listing.ID, Quantity: 1},
	})
	require.NoError(t, err)

	err = listingspostgres.NewRepository(db).Delete(ctx, listing.ID)
	require.ErrorIs(t, err, listingsports.ErrReferenced)
}
