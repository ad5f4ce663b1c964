package dto

import (
	"github.com/google/uuid"
)

type PaymentRequest struct {
	ReservationId uuid.UUID `json:"reservation_id" validate:"required"`
	PayMethod     string    `json:"pay_method" validate:"required"`
	PayAmount     int64     `json:"pay_amount" validate:"required,min=1"`
}

type PaymentResponse struct {
	PayStatus       string `json:"pay_status"`
	SnapToken       string `json:"snap_token,omitempty"`
	SnapRedirectUrl string `json:"snap_redirect_url,omitempty"`
}

// GatewayCallbackRequest is the payment gateway's notification payload.
// Untrusted input: signature and amount are validated before any state
// change is applied.
type GatewayCallbackRequest struct {
	OrderId           string `json:"order_id"`
	TransactionStatus string `json:"transaction_status"`
	StatusCode        string `json:"status_code"`
	GrossAmount       string `json:"gross_amount"`
	SignatureKey      string `json:"signature_key"`
}
