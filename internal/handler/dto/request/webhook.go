package request

// PaymentWebhookRequest is the Mercado Pago style event envelope. Only the
// payment id is consumed; everything else about the payment is re-fetched
// from the gateway rather than trusted from the event body.
type PaymentWebhookRequest struct {
	Type   string `json:"type"`
	Action string `json:"action"`
	Data   struct {
		ID string `json:"id"`
	} `json:"data"`
}
