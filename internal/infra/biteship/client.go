package biteship

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

type Item struct {
	Name     string `json:"name"`
	Value    int64  `json:"value"`
	Quantity int64  `json:"quantity"`
	Weight   int64  `json:"weight"`
}

// OrderRequest is the payload for POST /orders. Origin fields describe the
// store warehouse; destination fields are the receiver snapshot on the order.
type OrderRequest struct {
	ShipperContactName  string `json:"shipper_contact_name"`
	ShipperContactPhone string `json:"shipper_contact_phone"`
	ShipperContactEmail string `json:"shipper_contact_email"`
	ShipperOrganization string `json:"shipper_organization"`

	OriginContactName  string `json:"origin_contact_name"`
	OriginContactPhone string `json:"origin_contact_phone"`
	OriginAddress      string `json:"origin_address"`
	OriginPostalCode   string `json:"origin_postal_code"`

	DestinationContactName  string `json:"destination_contact_name"`
	DestinationContactPhone string `json:"destination_contact_phone"`
	DestinationAddress      string `json:"destination_address"`
	DestinationPostalCode   string `json:"destination_postal_code"`
	DestinationNote         string `json:"destination_note,omitempty"`

	CourierCompany string `json:"courier_company"`
	CourierType    string `json:"courier_type"`

	DeliveryType string `json:"delivery_type"`
	ReferenceID  string `json:"reference_id"`

	Items []Item `json:"items"`
}

type CourierInfo struct {
	TrackingID string `json:"tracking_id"`
	WaybillID  string `json:"waybill_id"`
	Company    string `json:"company"`
	Type       string `json:"type"`
	Link       string `json:"link"`
}

type OrderResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	ID      string      `json:"id"`
	Status  string      `json:"status"`
	Price   int64       `json:"price"`
	Courier CourierInfo `json:"courier"`
}

type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

// CreateOrder books a delivery with the carrier and returns the carrier's
// order id plus tracking references.
func (c *Client) CreateOrder(ctx context.Context, req OrderRequest) (OrderResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return OrderResponse{}, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/orders", bytes.NewReader(body))
	if err != nil {
		return OrderResponse{}, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", c.apiKey)

	res, err := c.http.Do(httpReq)
	if err != nil {
		return OrderResponse{}, fmt.Errorf("biteship request: %w", err)
	}
	defer res.Body.Close()

	// Status first: error pages from proxies are not guaranteed to be JSON.
	if res.StatusCode >= 300 {
		var out OrderResponse
		if err := json.NewDecoder(res.Body).Decode(&out); err == nil && out.Message != "" {
			return OrderResponse{}, fmt.Errorf("biteship: %s (status %d)", out.Message, res.StatusCode)
		}
		return OrderResponse{}, fmt.Errorf("biteship: unexpected status %d", res.StatusCode)
	}

	var out OrderResponse
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return OrderResponse{}, fmt.Errorf("biteship response: %w", err)
	}
	if !out.Success {
		if out.Message != "" {
			return OrderResponse{}, fmt.Errorf("biteship: %s (status %d)", out.Message, res.StatusCode)
		}
		return OrderResponse{}, fmt.Errorf("biteship: unexpected status %d", res.StatusCode)
	}
	return out, nil
}
