// Package carrier talks to a GHN-compatible shipping API.
package carrier

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"fulfillment/internal/core/domain/model/shipment"
	"fulfillment/internal/pkg/errs"
)

const createOrderPath = "/v2/shipping-order/create"

// maxBodyBytes bounds how much of a response is read.
const maxBodyBytes = 1 << 20

// Config holds the carrier endpoint and shop credentials.
type Config struct {
	BaseURL string
	Token   string
	ShopID  string
	Timeout time.Duration
}

func (c Config) Validate() error {
	var problems []error
	if strings.TrimSpace(c.BaseURL) == "" {
		problems = append(problems, errs.NewValueIsRequiredError("carrier base url"))
	}
	if strings.TrimSpace(c.Token) == "" {
		problems = append(problems, errs.NewValueIsRequiredError("carrier token"))
	}
	if strings.TrimSpace(c.ShopID) == "" {
		problems = append(problems, errs.NewValueIsRequiredError("carrier shop id"))
	}
	if c.Timeout <= 0 {
		problems = append(problems, errs.NewValueIsInvalidErrorWithCause(
			"carrier timeout", fmt.Errorf("%s is not greater than 0", c.Timeout)))
	}
	return errors.Join(problems...)
}

// envelope is the response shape shared by all carrier endpoints.
type envelope struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    struct {
		OrderCode string `json:"order_code"`
	} `json:"data"`
}

// Client implements ports.CarrierGateway. Each CreateShipment call sends
// exactly one request; there are no retries.
type Client struct {
	cfg        Config
	httpClient *http.Client
}

func NewClient(cfg Config) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}, nil
}

// CreateShipment posts the request and maps the answer:
//   - code 200 with an order_code is a receipt
//   - any other code is a rejection carrying the carrier message verbatim
//   - transport errors, HTTP 5xx and unreadable bodies mean the carrier is unavailable
func (c *Client) CreateShipment(ctx context.Context, req shipment.Request) (shipment.Receipt, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return shipment.Receipt{}, fmt.Errorf("encode shipment request: %w", err)
	}

	url := strings.TrimRight(c.cfg.BaseURL, "/") + createOrderPath
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return shipment.Receipt{}, fmt.Errorf("build carrier request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Token", c.cfg.Token)
	httpReq.Header.Set("ShopId", c.cfg.ShopID)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return shipment.Receipt{}, shipment.NewCarrierUnavailableError("carrier request failed", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return shipment.Receipt{}, shipment.NewCarrierUnavailableError("carrier response could not be read", err)
	}

	if resp.StatusCode >= http.StatusInternalServerError {
		return shipment.Receipt{}, shipment.NewCarrierUnavailableError(
			fmt.Sprintf("carrier answered HTTP %d", resp.StatusCode),
			errors.New(strings.TrimSpace(string(raw))),
		)
	}

	var env envelope
	if err = json.Unmarshal(raw, &env); err != nil {
		return shipment.Receipt{}, shipment.NewCarrierUnavailableError(
			fmt.Sprintf("carrier answered HTTP %d with an unreadable body", resp.StatusCode), err)
	}

	if env.Code != http.StatusOK {
		return shipment.Receipt{}, shipment.NewCarrierRejectedError(env.Message)
	}

	code := strings.TrimSpace(env.Data.OrderCode)
	if code == "" {
		return shipment.Receipt{}, shipment.NewCarrierRejectedError("carrier returned no tracking code")
	}

	return shipment.Receipt{TrackingCode: code}, nil
}
