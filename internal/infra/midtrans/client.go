package midtrans

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// ErrOrderIDTaken is returned when Snap rejects the transaction because the
// order_id was already used, so the caller can retry with a fresh id.
var ErrOrderIDTaken = errors.New("midtrans: order_id has already been taken")

type ItemDetail struct {
	ID       string `json:"id"`
	Price    int64  `json:"price"`
	Quantity int64  `json:"quantity"`
	Name     string `json:"name"`
}

type CustomerDetails struct {
	FirstName string `json:"first_name"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
}

type TransactionDetails struct {
	OrderID     string `json:"order_id"`
	GrossAmount int64  `json:"gross_amount"`
}

type Expiry struct {
	Unit     string `json:"unit"`
	Duration int    `json:"duration"`
}

type SnapRequest struct {
	TransactionDetails TransactionDetails `json:"transaction_details"`
	ItemDetails        []ItemDetail       `json:"item_details"`
	CustomerDetails    CustomerDetails    `json:"customer_details"`
	EnabledPayments    []string           `json:"enabled_payments,omitempty"`
	Expiry             *Expiry            `json:"expiry,omitempty"`
}

type SnapResponse struct {
	Token       string `json:"token"`
	RedirectURL string `json:"redirect_url"`
}

type snapError struct {
	ErrorMessages []string `json:"error_messages"`
}

type Client struct {
	baseURL   string
	serverKey string
	http      *http.Client
}

func NewClient(baseURL, serverKey string) *Client {
	return &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		serverKey: serverKey,
		http:      &http.Client{Timeout: 15 * time.Second},
	}
}

// CreateTransaction creates a Snap payment page for the given request and
// returns the token plus the hosted redirect URL.
func (c *Client) CreateTransaction(ctx context.Context, req SnapRequest) (SnapResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return SnapResponse{}, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/snap/v1/transactions", bytes.NewReader(body))
	if err != nil {
		return SnapResponse{}, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("Authorization", "Basic "+
		base64.StdEncoding.EncodeToString([]byte(c.serverKey+":")))

	res, err := c.http.Do(httpReq)
	if err != nil {
		return SnapResponse{}, fmt.Errorf("midtrans request: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode >= 300 {
		var e snapError
		if err := json.NewDecoder(res.Body).Decode(&e); err == nil {
			for _, msg := range e.ErrorMessages {
				if strings.Contains(msg, "has already been taken") {
					return SnapResponse{}, ErrOrderIDTaken
				}
			}
			if len(e.ErrorMessages) > 0 {
				return SnapResponse{}, fmt.Errorf("midtrans: %s (status %d)",
					strings.Join(e.ErrorMessages, "; "), res.StatusCode)
			}
		}
		return SnapResponse{}, fmt.Errorf("midtrans: unexpected status %d", res.StatusCode)
	}

	var out SnapResponse
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return SnapResponse{}, fmt.Errorf("midtrans response: %w", err)
	}
	return out, nil
}
