package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	paymentsdomain "github.com/farmart-ke/farmart-api/internal/domains/payments/domain"
	paymentsports "github.com/farmart-ke/farmart-api/internal/domains/payments/ports"
)

// PaymentAPI serves STK push initiation and the Daraja callback.
type PaymentAPI struct {
	service paymentsports.Service
}

func NewPaymentAPI(service paymentsports.Service) PaymentAPI {
	return PaymentAPI{service: service}
}

type initiatePaymentRequest struct {
	OrderID int64  `json:"orderId" binding:"required"`
	Phone   string `json:"phone" binding:"required"`
}

type paymentResponse struct {
	ID                int64     `json:"id"`
	OrderID           int64     `json:"orderId"`
	Phone             string    `json:"phone"`
	AmountCents       int64     `json:"amountCents"`
	Status            string    `json:"status"`
	CheckoutRequestID string    `json:"checkoutRequestId"`
	MpesaReceipt      string    `json:"mpesaReceipt,omitempty"`
	CreatedAt         time.Time `json:"createdAt"`
}

func toPaymentResponse(payment *paymentsdomain.Payment) paymentResponse {
	return paymentResponse{
		ID:                payment.ID,
		OrderID:           payment.OrderID,
		Phone:             payment.Phone,
		AmountCents:       payment.AmountCents,
		Status:            string(payment.Status),
		CheckoutRequestID: payment.CheckoutRequestID,
		MpesaReceipt:      payment.MpesaReceipt,
		CreatedAt:         payment.CreatedAt,
	}
}

// Post /v1/payments
func (api *PaymentAPI) Initiate(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	var payload initiatePaymentRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBindError(c, err)
		return
	}
	payment, err := api.service.Initiate(c.Request.Context(), actor, paymentsports.InitiateInput{
		OrderID: payload.OrderID,
		Phone:   payload.Phone,
	})
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, toPaymentResponse(payment))
}

// Get /v1/orders/:orderId/payments
func (api *PaymentAPI) ListForOrder(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "orderId")
	if !ok {
		return
	}
	payments, err := api.service.ListForOrder(c.Request.Context(), actor, id)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	out := make([]paymentResponse, 0, len(payments))
	for _, payment := range payments {
		out = append(out, toPaymentResponse(payment))
	}
	c.JSON(http.StatusOK, out)
}

// stkCallbackEnvelope is the Daraja result delivery format.
type stkCallbackEnvelope struct {
	Body struct {
		StkCallback struct {
			MerchantRequestID string `json:"MerchantRequestID"`
			CheckoutRequestID string `json:"CheckoutRequestID"`
			ResultCode        int    `json:"ResultCode"`
			ResultDesc        string `json:"ResultDesc"`
			CallbackMetadata  struct {
				Item []struct {
					Name  string `json:"Name"`
					Value any    `json:"Value"`
				} `json:"Item"`
			} `json:"CallbackMetadata"`
		} `json:"stkCallback"`
	} `json:"Body"`
}

// Post /v1/payments/callback
//
// Daraja redelivers on non-200 responses, so every outcome other than a
// malformed body acknowledges with 200; failures surface in logs.
func (api *PaymentAPI) Callback(c *gin.Context) {
	var envelope stkCallbackEnvelope
	if err := c.ShouldBindJSON(&envelope); err != nil {
		respondBindError(c, err)
		return
	}
	callback := envelope.Body.StkCallback
	input := paymentsports.CallbackInput{
		MerchantRequestID: callback.MerchantRequestID,
		CheckoutRequestID: callback.CheckoutRequestID,
		ResultCode:        callback.ResultCode,
		ResultDesc:        callback.ResultDesc,
	}
	for _, item := range callback.CallbackMetadata.Item {
		if item.Name == "MpesaReceiptNumber" {
			if receipt, ok := item.Value.(string); ok {
				input.MpesaReceipt = receipt
			}
		}
	}
	// The service logs processing failures through its observability
	// decorator; the gateway only needs the acknowledgement.
	_ = api.service.HandleCallback(c.Request.Context(), input)
	c.JSON(http.StatusOK, gin.H{"ResultCode": 0, "ResultDesc": "Accepted"})
}
