package geoip

import (
	"context"
	"encoding/json"
	"net/http"
	"time"
)

// Info is whatever the lookup service could tell us about the caller. Any
// field may be empty.
type Info struct {
	IP       string `json:"ip"`
	City     string `json:"city"`
	Region   string `json:"region"`
	Country  string `json:"country"`
	Timezone string `json:"timezone"`
	Loc      string `json:"loc"`
}

// Lookup resolves request origin metadata, best-effort.
type Lookup interface {
	Lookup(ctx context.Context) (Info, error)
}

// Client queries an ipinfo.io-compatible endpoint with a hard timeout so the
// session-enrichment path can never hang.
type Client struct {
	endpoint string
	http     *http.Client
}

func NewClient(endpoint string, timeout time.Duration) *Client {
	return &Client{
		endpoint: endpoint,
		http:     &http.Client{Timeout: timeout},
	}
}

func (c *Client) Lookup(ctx context.Context) (Info, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint, nil)
	if err != nil {
		return Info{}, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return Info{}, err
	}
	defer resp.Body.Close()
	var info Info
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return Info{}, err
	}
	return info, nil
}
