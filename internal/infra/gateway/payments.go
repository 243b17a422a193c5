package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"fieldbook/internal/pkg/config"
)

// PaymentStatusApproved is the only gateway status the booking flow trusts.
const PaymentStatusApproved = "approved"

// PaymentInfo is the gateway's view of a payment. Amounts are in cents.
type PaymentInfo struct {
	ID              string `json:"id"`
	Status          string `json:"status"`
	StatusDetail    string `json:"status_detail"`
	AmountCents     int64  `json:"transaction_amount_cents"`
	Currency        string `json:"currency_id"`
	ExternalRef     string `json:"external_reference"`
	PayerID         string `json:"payer_id"`
	DateApproved    string `json:"date_approved"`
	PaymentMethodID string `json:"payment_method_id"`
}

func (p *PaymentInfo) IsApproved() bool {
	return p.Status == PaymentStatusApproved
}

// PaymentClient consumes the Mercado Pago style gateway read API. The gateway
// itself (checkout, capture) is out of scope; only payment lookup is used, to
// confirm a payment before any local funds move.
type PaymentClient interface {
	GetPaymentInfo(ctx context.Context, paymentID string) (*PaymentInfo, error)
}

type HTTPPaymentClient struct {
	baseURL     string
	accessToken string
	httpClient  *http.Client
}

func NewHTTPPaymentClient(cfg config.GatewayConfig) *HTTPPaymentClient {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &HTTPPaymentClient{
		baseURL:     cfg.BaseURL,
		accessToken: cfg.AccessToken,
		httpClient:  &http.Client{Timeout: timeout},
	}
}

func (c *HTTPPaymentClient) GetPaymentInfo(ctx context.Context, paymentID string) (*PaymentInfo, error) {
	url := fmt.Sprintf("%s/v1/payments/%s", c.baseURL, paymentID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build payment request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("payment lookup failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read payment response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("payment lookup returned status %d", resp.StatusCode)
	}

	var info PaymentInfo
	if err := json.Unmarshal(body, &info); err != nil {
		return nil, fmt.Errorf("failed to decode payment response: %w", err)
	}
	return &info, nil
}
