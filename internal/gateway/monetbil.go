// Package gateway implements the outbound Monetbil mobile-money client.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/citywaste/waste-flow-api/internal/config"
)

const (
	DefaultOperator = "CM_MTNMOBILEMONEY"
	Currency        = "XAF"
	Country         = "CM"
)

// ChargeRequest is the widget payment payload Monetbil expects.
type ChargeRequest struct {
	Amount     string `json:"amount"`
	Currency   string `json:"currency"`
	Phone      string `json:"phone"`
	Operator   string `json:"operator"`
	Country    string `json:"country"`
	ItemRef    string `json:"item_ref"`
	PaymentRef string `json:"payment_ref"`
	User       string `json:"user"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Email      string `json:"email"`
	ReturnURL  string `json:"return_url"`
	NotifyURL  string `json:"notify_url"`
	Logo       string `json:"logo"`
}

type ChargeResponse struct {
	Success    bool   `json:"success"`
	Message    string `json:"message"`
	PaymentRef string `json:"payment_ref"`
	PaymentURL string `json:"payment_url"`
}

// MonetbilClient submits charge requests over HTTPS. A single attempt with a
// bounded timeout; retries are left to the caller.
type MonetbilClient interface {
	CreateCharge(ctx context.Context, req ChargeRequest) (*ChargeResponse, error)
}

type monetbilClient struct {
	cfg    config.MonetbilConfig
	client *http.Client
}

func NewMonetbilClient(cfg config.MonetbilConfig) MonetbilClient {
	return &monetbilClient{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
	}
}

func (c *monetbilClient) CreateCharge(ctx context.Context, req ChargeRequest) (*ChargeResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal charge request: %w", err)
	}

	url := fmt.Sprintf("%s/%s", c.cfg.BaseURL, c.cfg.ServiceKey)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build charge request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.SetBasicAuth(c.cfg.ServiceKey, c.cfg.SecretKey)

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("call monetbil: %w", err)
	}
	defer resp.Body.Close()

	var charge ChargeResponse
	if err := json.NewDecoder(resp.Body).Decode(&charge); err != nil {
		return nil, fmt.Errorf("decode monetbil response: %w", err)
	}
	return &charge, nil
}
