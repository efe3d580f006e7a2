package httpapi

import (
	"errors"

	"github.com/gin-gonic/gin"

	dashboardapp "github.com/farmart-ke/farmart-api/internal/domains/dashboard/application"
	listingapp "github.com/farmart-ke/farmart-api/internal/domains/listings/application"
	listingports "github.com/farmart-ke/farmart-api/internal/domains/listings/ports"
	ordersapp "github.com/farmart-ke/farmart-api/internal/domains/orders/application"
	ordersdomain "github.com/farmart-ke/farmart-api/internal/domains/orders/domain"
	paymentsapp "github.com/farmart-ke/farmart-api/internal/domains/payments/application"
	paymentsdomain "github.com/farmart-ke/farmart-api/internal/domains/payments/domain"
	userapp "github.com/farmart-ke/farmart-api/internal/domains/users/application"
	userports "github.com/farmart-ke/farmart-api/internal/domains/users/ports"
	apierrors "github.com/farmart-ke/farmart-api/internal/shared/errors"
)

// respondBindError reports a malformed request payload.
func respondBindError(c *gin.Context, err error) {
	apierrors.Respond(c, apierrors.ErrBadRequest.WithDetail(err.Error()))
}

// respondDomainError translates application and domain errors into RFC
// 7807 problems. Unrecognized errors fall through to the shared
// responder, which hides their detail behind a generic internal problem.
func respondDomainError(c *gin.Context, err error) {
	var stockErr *ordersapp.InsufficientStockError
	if errors.As(err, &stockErr) {
		apierrors.Respond(c, apierrors.NewInsufficientStockProblem(
			stockErr.ListingName, stockErr.Requested, stockErr.Available))
		return
	}

	switch {
	case errors.Is(err, userapp.ErrInvalidInput),
		errors.Is(err, listingapp.ErrInvalidInput),
		errors.Is(err, ordersapp.ErrEmptyCart),
		errors.Is(err, ordersapp.ErrInvalidQuantity),
		errors.Is(err, paymentsdomain.ErrInvalidPhone),
		errors.Is(err, paymentsdomain.ErrInvalidAmount):
		apierrors.Respond(c, apierrors.ErrValidation.WithDetail(err.Error()))

	case errors.Is(err, userports.ErrInvalidCredentials),
		errors.Is(err, userports.ErrSessionNotFound):
		apierrors.Respond(c, apierrors.ErrUnauthorized.WithDetail(err.Error()))

	case errors.Is(err, listingapp.ErrNotFarmer),
		errors.Is(err, listingapp.ErrNotOwner),
		errors.Is(err, ordersapp.ErrNotBuyer),
		errors.Is(err, ordersapp.ErrForbidden),
		errors.Is(err, paymentsapp.ErrNotOrderBuyer),
		errors.Is(err, paymentsapp.ErrForbidden),
		errors.Is(err, dashboardapp.ErrNotFarmer):
		apierrors.Respond(c, apierrors.ErrForbidden.WithDetail(err.Error()))

	case errors.Is(err, userports.ErrNotFound),
		errors.Is(err, listingports.ErrNotFound),
		errors.Is(err, ordersapp.ErrListingNotFound):
		apierrors.Respond(c, apierrors.ErrNotFound.WithDetail(err.Error()))
	case errors.Is(err, ordersapp.ErrOrderNotFound),
		errors.Is(err, paymentsapp.ErrOrderNotFound),
		errors.Is(err, paymentsapp.ErrPaymentNotFound):
		apierrors.Respond(c, apierrors.ErrNotFound.WithDetail(err.Error()))

	case errors.Is(err, userports.ErrUsernameTaken),
		errors.Is(err, listingports.ErrReferenced),
		errors.Is(err, ordersapp.ErrDuplicateListing),
		errors.Is(err, ordersapp.ErrSelfPurchase),
		errors.Is(err, ordersdomain.ErrInvalidTransition),
		errors.Is(err, ordersdomain.ErrInvalidStatus),
		errors.Is(err, paymentsapp.ErrOrderNotPayable):
		apierrors.Respond(c, apierrors.ErrConflict.WithDetail(err.Error()))

	case errors.Is(err, paymentsapp.ErrPushRejected):
		apierrors.Respond(c, apierrors.ErrBadRequest.WithDetail(err.Error()))

	default:
		apierrors.RespondError(c, err)
	}
}
