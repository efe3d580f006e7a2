//go:build pact
// +build pact

package provider_test

import (
	"context"
	"errors"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	pacttest "github.com/farmart-ke/farmart-api/test/pact"

	dashboardmemory "github.com/farmart-ke/farmart-api/internal/domains/dashboard/adapters/memory"
	dashboardapp "github.com/farmart-ke/farmart-api/internal/domains/dashboard/application"
	listingsmemory "github.com/farmart-ke/farmart-api/internal/domains/listings/adapters/memory"
	listingsapp "github.com/farmart-ke/farmart-api/internal/domains/listings/application"
	listingsdomain "github.com/farmart-ke/farmart-api/internal/domains/listings/domain"
	listingsports "github.com/farmart-ke/farmart-api/internal/domains/listings/ports"
	ordersmemory "github.com/farmart-ke/farmart-api/internal/domains/orders/adapters/memory"
	ordersobs "github.com/farmart-ke/farmart-api/internal/domains/orders/adapters/observability"
	ordersapp "github.com/farmart-ke/farmart-api/internal/domains/orders/application"
	cachememory "github.com/farmart-ke/farmart-api/internal/domains/payments/adapters/cache/memory"
	paymentsmemory "github.com/farmart-ke/farmart-api/internal/domains/payments/adapters/memory"
	"github.com/farmart-ke/farmart-api/internal/domains/payments/adapters/mpesa"
	paymentsobs "github.com/farmart-ke/farmart-api/internal/domains/payments/adapters/observability"
	paymentsworkflows "github.com/farmart-ke/farmart-api/internal/domains/payments/adapters/workflows"
	paymentsapp "github.com/farmart-ke/farmart-api/internal/domains/payments/application"
	usersmemory "github.com/farmart-ke/farmart-api/internal/domains/users/adapters/memory"
	usersapp "github.com/farmart-ke/farmart-api/internal/domains/users/application"
	usersports "github.com/farmart-ke/farmart-api/internal/domains/users/ports"
	"github.com/farmart-ke/farmart-api/internal/httpapi"
	"github.com/farmart-ke/farmart-api/internal/shared/access"

	"github.com/gin-gonic/gin"
	"github.com/pact-foundation/pact-go/v2/models"
	pactprovider "github.com/pact-foundation/pact-go/v2/provider"
	"github.com/stretchr/testify/require"
)

func TestMarketplaceProviderPact(t *testing.T) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	app := newContractProviderApp(t)
	pactFile := filepath.ToSlash(pacttest.PactFile(t))
	if _, err := os.Stat(pactFile); errors.Is(err, os.ErrNotExist) {
		t.Fatalf("pact file not found at %s - run the pact consumer tests first", pactFile)
	} else {
		require.NoError(t, err)
	}

	verifier := pactprovider.NewVerifier()
	stateHandlers := models.StateHandlers{
		pacttest.StateBaseline: func(setup bool, _ models.ProviderState) (models.ProviderStateResponse, error) {
			app.resetListings(t)
			return nil, nil
		},
		pacttest.StateFarmerSession: func(setup bool, _ models.ProviderState) (models.ProviderStateResponse, error) {
			app.resetListings(t)
			return nil, nil
		},
		pacttest.StateListingExists: func(setup bool, _ models.ProviderState) (models.ProviderStateResponse, error) {
			app.resetListings(t)
			if setup {
				app.seedListing(t, pacttest.ExistingListingID)
			}
			return nil, nil
		},
		pacttest.StateListingGone: func(setup bool, _ models.ProviderState) (models.ProviderStateResponse, error) {
			app.resetListings(t)
			return nil, nil
		},
	}

	err := verifier.VerifyProvider(t, pactprovider.VerifyRequest{
		ProviderBaseURL: app.server.URL,
		Provider:        pacttest.ProviderName,
		PactFiles:       []string{pactFile},
		StateHandlers:   stateHandlers,
		BeforeEach: func() error {
			app.resetListings(t)
			return nil
		},
	})
	require.NoError(t, err)
}

type contractProviderApp struct {
	listings *listingsmemory.Repository
	farmerID int64
	server   *httptest.Server
}

func newContractProviderApp(t testing.TB) *contractProviderApp {
	t.Helper()

	userRepo := usersmemory.NewRepository()
	sessions := usersmemory.NewSessionStore()
	userService := usersapp.NewService(userRepo, sessions)

	farmer, err := userService.Register(context.Background(), usersports.RegisterInput{
		Username: pacttest.FarmerUsername,
		Email:    "pact.farmer@example.com",
		Password: pacttest.FarmerPassword,
		Role:     access.RoleFarmer,
		Phone:    "254712345678",
		Location: "Nakuru",
	})
	require.NoError(t, err)

	// The consumer pins its bearer token; install it as a live session.
	err = sessions.Save(context.Background(), pacttest.SessionToken, farmer.ID, time.Now().Add(time.Hour))
	require.NoError(t, err)

	listingRepo := listingsmemory.NewRepository()
	listingService := listingsapp.NewService(listingRepo)

	orderStore := ordersmemory.NewStore(listingRepo)
	orderService := ordersobs.New(ordersapp.NewCoordinator(orderStore, orderStore))

	stkClient := mpesa.NewClient(mpesa.Config{
		ConsumerKey:    "pact",
		ConsumerSecret: "pact",
		ShortCode:      "174379",
		Passkey:        "pact",
	}, cachememory.NewTokenCache())
	paymentService := paymentsobs.New(paymentsapp.NewService(
		paymentsmemory.NewRepository(), orderStore, orderStore,
		paymentsworkflows.NewInlinePushOrchestrator(stkClient),
	))

	dashboardService := dashboardapp.NewService(dashboardmemory.NewRepository(orderStore, listingRepo))

	handlers := httpapi.Handlers{
		Users:     httpapi.NewUserAPI(userService),
		Listings:  httpapi.NewListingAPI(listingService),
		Orders:    httpapi.NewOrderAPI(orderService),
		Payments:  httpapi.NewPaymentAPI(paymentService),
		Dashboard: httpapi.NewDashboardAPI(dashboardService),
	}
	router := httpapi.NewRouter(handlers, userService)

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	return &contractProviderApp{
		listings: listingRepo,
		farmerID: farmer.ID,
		server:   server,
	}
}

func (a *contractProviderApp) resetListings(t testing.TB) {
	t.Helper()
	listings, err := a.listings.List(context.Background(), listingsports.ListFilter{IncludeSoldOut: true})
	require.NoError(t, err)
	for _, listing := range listings {
		_ = a.listings.Delete(context.Background(), listing.ID)
	}
}

func (a *contractProviderApp) seedListing(t testing.TB, id int64) {
	t.Helper()
	listing, err := listingsdomain.NewListing(a.farmerID, "Galla Goat", listingsdomain.AnimalGoat, "Galla", 12, 800_000, "hardy drought-tolerant breed", 3)
	require.NoError(t, err)
	listing.ID = id
	listing.ImageURLs = []string{"https://cdn.farmart.example/listings/galla.jpg"}
	_, err = a.listings.Save(context.Background(), listing)
	require.NoError(t, err)
}
