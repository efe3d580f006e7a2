package application

import "errors"

var (
	// ErrOrderNotFound is returned when the order to pay does not exist.
	ErrOrderNotFound = errors.New("order not found")
	// ErrNotOrderBuyer is returned when someone other than the order's
	// buyer initiates payment.
	ErrNotOrderBuyer = errors.New("only the order's buyer can pay for it")
	// ErrOrderNotPayable is returned when the order already settled or
	// was rejected.
	ErrOrderNotPayable = errors.New("order is not awaiting payment")
	// ErrPaymentNotFound is returned when a callback names an unknown
	// checkout request.
	ErrPaymentNotFound = errors.New("payment not found")
	// ErrForbidden is returned when the actor may not view the order's
	// payments.
	ErrForbidden = errors.New("not allowed to access this order")
	// ErrPushRejected is returned when Daraja refuses the push request.
	ErrPushRejected = errors.New("payment gateway rejected the push request")
)
