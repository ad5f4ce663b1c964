package lifecycle

// Event is a lifecycle input originated by one of the three actors:
// customer, manager, or the payment gateway callback path.
type Event string

const (
	EvOfferMatch       Event = "OFFER_MATCH"
	EvManagerAccept    Event = "MANAGER_ACCEPT"
	EvManagerReject    Event = "MANAGER_REJECT"
	EvPaymentSucceeded Event = "PAYMENT_SUCCEEDED"
	EvPaymentFailed    Event = "PAYMENT_FAILED"
	EvCheckIn          Event = "CHECK_IN"
	EvCheckOut         Event = "CHECK_OUT"
	EvCustomerCancel   Event = "CUSTOMER_CANCEL"
	EvRefundResolved   Event = "REFUND_RESOLVED"
	EvSystemError      Event = "SYSTEM_ERROR"
)
