package pricing

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// PriceEntry is one day's rates as the channel API reports them. p1 and p3
// carry the primary channel's rate, p2 the secondary channel's; p4 exists
// on the wire but is not used.
type PriceEntry struct {
	P1 int `json:"p1"`
	P2 int `json:"p2"`
	P3 int `json:"p3"`
	P4 int `json:"p4"`
}

// RoomPrices maps YYYYMMDD date keys to rates for one room.
type RoomPrices struct {
	Dates map[string]PriceEntry `json:"dates"`
}

// GetPricesResponse is the channel API's price-query envelope.
type GetPricesResponse struct {
	Success   bool                  `json:"success"`
	Error     string                `json:"error,omitempty"`
	PriceData map[string]RoomPrices `json:"priceData"`
}

type setPricesRequest struct {
	Building    string `json:"building"`
	RoomID      string `json:"roomId"`
	DateFrom    string `json:"dateFrom"` // YYYY-MM-DD
	DateTo      string `json:"dateTo"`
	PriceAirbnb int    `json:"priceAirbnb"`
}

type setPricesResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// Client is a thin HTTP client for the external booking-channel price API.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

// GetRoomPrices fetches per-day rates for every room of a building.
func (c *Client) GetRoomPrices(ctx context.Context, building string, from, to time.Time) (*GetPricesResponse, error) {
	q := url.Values{}
	q.Set("building", building)
	q.Set("dateFrom", from.Format("2006-01-02"))
	q.Set("dateTo", to.Format("2006-01-02"))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/prices?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	c.authorize(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("price api: unexpected status %d", resp.StatusCode)
	}

	var out GetPricesResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("price api: decode: %w", err)
	}
	if !out.Success {
		return nil, fmt.Errorf("price api: %s", out.Error)
	}
	return &out, nil
}

// SetRoomPrices pushes one rate for a room over an inclusive date range.
func (c *Client) SetRoomPrices(ctx context.Context, building, roomID string, from, to time.Time, priceAirbnb int) error {
	body, err := json.Marshal(setPricesRequest{
		Building:    building,
		RoomID:      roomID,
		DateFrom:    from.Format("2006-01-02"),
		DateTo:      to.Format("2006-01-02"),
		PriceAirbnb: priceAirbnb,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/prices", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	c.authorize(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("price api: unexpected status %d", resp.StatusCode)
	}

	var out setPricesResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return fmt.Errorf("price api: decode: %w", err)
	}
	if !out.Success {
		return fmt.Errorf("price api: %s", out.Error)
	}
	return nil
}

func (c *Client) authorize(req *http.Request) {
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
}
