package request

type DepositRequest struct {
	PaymentID string `json:"payment_id" binding:"required"`
}
