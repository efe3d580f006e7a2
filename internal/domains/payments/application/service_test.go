package application

import (
	"context"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	listingsmemory "github.com/farmart-ke/farmart-api/internal/domains/listings/adapters/memory"
	listingsdomain "github.com/farmart-ke/farmart-api/internal/domains/listings/domain"
	ordersmemory "github.com/farmart-ke/farmart-api/internal/domains/orders/adapters/memory"
	ordersapp "github.com/farmart-ke/farmart-api/internal/domains/orders/application"
	ordersdomain "github.com/farmart-ke/farmart-api/internal/domains/orders/domain"
	ordersports "github.com/farmart-ke/farmart-api/internal/domains/orders/ports"
	paymentsmemory "github.com/farmart-ke/farmart-api/internal/domains/payments/adapters/memory"
	"github.com/farmart-ke/farmart-api/internal/domains/payments/domain"
	"github.com/farmart-ke/farmart-api/internal/domains/payments/ports"
	"github.com/farmart-ke/farmart-api/internal/shared/access"
)

var (
	buyer  = access.Actor{ID: 1, Role: access.RoleBuyer}
	farmer = access.Actor{ID: 10, Role: access.RoleFarmer}
)

type fakeOrchestrator struct {
	lastPush ports.StkPush
	receipt  ports.StkReceipt
	err      error
	calls    int
}

func (f *fakeOrchestrator) Push(_ context.Context, push ports.StkPush) (*ports.StkReceipt, error) {
	f.calls++
	f.lastPush = push
	if f.err != nil {
		return nil, f.err
	}
	receipt := f.receipt
	return &receipt, nil
}

type fixture struct {
	listings     *listingsmemory.Repository
	store        *ordersmemory.Store
	orders       *ordersapp.Coordinator
	payments     *paymentsmemory.Repository
	orchestrator *fakeOrchestrator
	svc          *Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	listings := listingsmemory.NewRepository()
	store := ordersmemory.NewStore(listings)
	f := &fixture{
		listings: listings,
		store:    store,
		orders:   ordersapp.NewCoordinator(store, store),
		payments: paymentsmemory.NewRepository(),
		orchestrator: &fakeOrchestrator{receipt: ports.StkReceipt{
			MerchantRequestID: "mr-1",
			CheckoutRequestID: "cr-1",
			ResponseCode:      "0",
		}},
	}
	f.svc = NewService(f.payments, store, store, f.orchestrator)
	return f
}

func (f *fixture) seedOrder(t *testing.T, listingName string, priceCents, quantity int64) *ordersdomain.Order {
	t.Helper()
	listing, err := listingsdomain.NewListing(farmer.ID, listingName, listingsdomain.AnimalGoat, "Galla", 12, priceCents, "", quantity)
	require.NoError(t, err)
	saved, err := f.listings.Save(context.Background(), listing)
	require.NoError(t, err)
	order, err := f.orders.PlaceOrder(context.Background(), buyer, []ordersports.CartLine{
		{ListingID: saved.ID, Quantity: quantity},
	})
	require.NoError(t, err)
	return order
}

func TestInitiate_PushesWholeShillingsAndRecordsPayment(t *testing.T) {
	f := newFixture(t)
	order := f.seedOrder(t, "Galla Goat", 80_050, 2) // 1601.00 KES total

	payment, err := f.svc.Initiate(context.Background(), buyer, ports.InitiateInput{
		OrderID: order.ID,
		Phone:   "254712345678",
	})
	require.NoError(t, err)

	assert.Equal(t, int64(1601), f.orchestrator.lastPush.AmountShillings)
	assert.Equal(t, "254712345678", f.orchestrator.lastPush.Phone)
	assert.Contains(t, f.orchestrator.lastPush.AccountReference, "FARMART-")
	assert.Equal(t, "Galla Goat", f.orchestrator.lastPush.Description)

	assert.Equal(t, domain.StatusInitiated, payment.Status)
	assert.Equal(t, "cr-1", payment.CheckoutRequestID)
	assert.Equal(t, order.TotalCents(), payment.AmountCents)

	stored, err := f.payments.GetByCheckoutRequestID(context.Background(), "cr-1")
	require.NoError(t, err)
	assert.Equal(t, order.ID, stored.OrderID)
}

func TestInitiate_TruncatesLongDescriptions(t *testing.T) {
	f := newFixture(t)
	longName := strings.Repeat("Boran Cow ", 12) + "X"
	order := f.seedOrder(t, longName, 5_000_000, 1)

	_, err := f.svc.Initiate(context.Background(), buyer, ports.InitiateInput{OrderID: order.ID, Phone: "254712345678"})
	require.NoError(t, err)

	desc := f.orchestrator.lastPush.Description
	assert.Len(t, desc, maxDescriptionLen+len("..."))
	assert.True(t, strings.HasSuffix(desc, "..."))
}

func TestInitiate_TruncatesOnRuneBoundaries(t *testing.T) {
	f := newFixture(t)
	longName := "Ox " + strings.Repeat("é", 90)
	order := f.seedOrder(t, longName, 5_000_000, 1)

	_, err := f.svc.Initiate(context.Background(), buyer, ports.InitiateInput{OrderID: order.ID, Phone: "254712345678"})
	require.NoError(t, err)

	desc := f.orchestrator.lastPush.Description
	assert.True(t, utf8.ValidString(desc))
	assert.Len(t, []rune(desc), maxDescriptionLen+len("..."))
	assert.True(t, strings.HasSuffix(desc, "..."))
}

func TestInitiate_OnlyBuyerMayPay(t *testing.T) {
	f := newFixture(t)
	order := f.seedOrder(t, "Galla Goat", 800_000, 1)

	_, err := f.svc.Initiate(context.Background(), farmer, ports.InitiateInput{OrderID: order.ID, Phone: "254712345678"})
	require.ErrorIs(t, err, ErrNotOrderBuyer)
	assert.Zero(t, f.orchestrator.calls)
}

func TestInitiate_RejectedOrderNotPayable(t *testing.T) {
	f := newFixture(t)
	order := f.seedOrder(t, "Galla Goat", 800_000, 1)
	_, err := f.orders.UpdateStatus(context.Background(), farmer, order.ID, ordersdomain.StatusRejected)
	require.NoError(t, err)

	_, err = f.svc.Initiate(context.Background(), buyer, ports.InitiateInput{OrderID: order.ID, Phone: "254712345678"})
	require.ErrorIs(t, err, ErrOrderNotPayable)
}

func TestInitiate_InvalidPhone(t *testing.T) {
	f := newFixture(t)
	order := f.seedOrder(t, "Galla Goat", 800_000, 1)

	_, err := f.svc.Initiate(context.Background(), buyer, ports.InitiateInput{OrderID: order.ID, Phone: "not-a-phone"})
	require.ErrorIs(t, err, domain.ErrInvalidPhone)
	assert.Zero(t, f.orchestrator.calls)
}

func TestInitiate_GatewayRejection(t *testing.T) {
	f := newFixture(t)
	order := f.seedOrder(t, "Galla Goat", 800_000, 1)
	f.orchestrator.receipt = ports.StkReceipt{ResponseCode: "1", ResponseDescription: "insufficient float"}

	_, err := f.svc.Initiate(context.Background(), buyer, ports.InitiateInput{OrderID: order.ID, Phone: "254712345678"})
	require.ErrorIs(t, err, ErrPushRejected)
}

func TestInitiate_UnknownOrder(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Initiate(context.Background(), buyer, ports.InitiateInput{OrderID: 42, Phone: "254712345678"})
	require.ErrorIs(t, err, ErrOrderNotFound)
}

func (f *fixture) initiate(t *testing.T, orderID int64) *domain.Payment {
	t.Helper()
	payment, err := f.svc.Initiate(context.Background(), buyer, ports.InitiateInput{OrderID: orderID, Phone: "254712345678"})
	require.NoError(t, err)
	return payment
}

func TestHandleCallback_MovesConfirmedOrderToPaid(t *testing.T) {
	f := newFixture(t)
	order := f.seedOrder(t, "Galla Goat", 800_000, 1)
	_, err := f.orders.UpdateStatus(context.Background(), farmer, order.ID, ordersdomain.StatusConfirmed)
	require.NoError(t, err)
	payment := f.initiate(t, order.ID)

	err = f.svc.HandleCallback(context.Background(), ports.CallbackInput{
		CheckoutRequestID: payment.CheckoutRequestID,
		ResultCode:        0,
		ResultDesc:        "The service request is processed successfully.",
		MpesaReceipt:      "QK12XYZ",
	})
	require.NoError(t, err)

	settled, err := f.payments.GetByCheckoutRequestID(context.Background(), payment.CheckoutRequestID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, settled.Status)
	assert.Equal(t, "QK12XYZ", settled.MpesaReceipt)

	fetched, err := f.store.GetByID(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, ordersdomain.StatusPaid, fetched.Status)
}

func TestHandleCallback_RedeliveryIsANoOp(t *testing.T) {
	f := newFixture(t)
	order := f.seedOrder(t, "Galla Goat", 800_000, 1)
	_, err := f.orders.UpdateStatus(context.Background(), farmer, order.ID, ordersdomain.StatusConfirmed)
	require.NoError(t, err)
	payment := f.initiate(t, order.ID)

	input := ports.CallbackInput{
		CheckoutRequestID: payment.CheckoutRequestID,
		ResultCode:        0,
		MpesaReceipt:      "QK12XYZ",
	}
	require.NoError(t, f.svc.HandleCallback(context.Background(), input))

	// Deliver again with a different receipt: the settled payment keeps
	// the first one.
	input.MpesaReceipt = "QK99OTHER"
	require.NoError(t, f.svc.HandleCallback(context.Background(), input))

	settled, err := f.payments.GetByCheckoutRequestID(context.Background(), payment.CheckoutRequestID)
	require.NoError(t, err)
	assert.Equal(t, "QK12XYZ", settled.MpesaReceipt)

	fetched, err := f.store.GetByID(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, ordersdomain.StatusPaid, fetched.Status)
}

func TestHandleCallback_PendingOrderKeepsStatus(t *testing.T) {
	f := newFixture(t)
	order := f.seedOrder(t, "Galla Goat", 800_000, 1)
	payment := f.initiate(t, order.ID)

	err := f.svc.HandleCallback(context.Background(), ports.CallbackInput{
		CheckoutRequestID: payment.CheckoutRequestID,
		ResultCode:        0,
		MpesaReceipt:      "QK12XYZ",
	})
	require.NoError(t, err)

	settled, err := f.payments.GetByCheckoutRequestID(context.Background(), payment.CheckoutRequestID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, settled.Status)

	fetched, err := f.store.GetByID(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, ordersdomain.StatusPending, fetched.Status)
}

func TestHandleCallback_FailureMarksPaymentFailed(t *testing.T) {
	f := newFixture(t)
	order := f.seedOrder(t, "Galla Goat", 800_000, 1)
	_, err := f.orders.UpdateStatus(context.Background(), farmer, order.ID, ordersdomain.StatusConfirmed)
	require.NoError(t, err)
	payment := f.initiate(t, order.ID)

	err = f.svc.HandleCallback(context.Background(), ports.CallbackInput{
		CheckoutRequestID: payment.CheckoutRequestID,
		ResultCode:        1032,
		ResultDesc:        "Request cancelled by user",
	})
	require.NoError(t, err)

	settled, err := f.payments.GetByCheckoutRequestID(context.Background(), payment.CheckoutRequestID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusFailed, settled.Status)
	assert.Equal(t, 1032, settled.ResultCode)

	fetched, err := f.store.GetByID(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, ordersdomain.StatusConfirmed, fetched.Status)
}

func TestHandleCallback_UnknownCheckoutRequest(t *testing.T) {
	f := newFixture(t)
	err := f.svc.HandleCallback(context.Background(), ports.CallbackInput{CheckoutRequestID: "cr-unknown"})
	require.ErrorIs(t, err, ErrPaymentNotFound)
}

func TestListForOrder_VisibilityRules(t *testing.T) {
	f := newFixture(t)
	order := f.seedOrder(t, "Galla Goat", 800_000, 1)
	f.initiate(t, order.ID)

	payments, err := f.svc.ListForOrder(context.Background(), buyer, order.ID)
	require.NoError(t, err)
	assert.Len(t, payments, 1)

	payments, err = f.svc.ListForOrder(context.Background(), farmer, order.ID)
	require.NoError(t, err)
	assert.Len(t, payments, 1)

	stranger := access.Actor{ID: 77, Role: access.RoleBuyer}
	_, err = f.svc.ListForOrder(context.Background(), stranger, order.ID)
	require.ErrorIs(t, err, ErrForbidden)
}
