package geo

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	json "github.com/goccy/go-json"
)

// DefaultBaseURL is the public OpenStreetMap Nominatim instance.
const DefaultBaseURL = "https://nominatim.openstreetmap.org"

// Result is one geocoder hit, reduced to what the nearby search shows.
type Result struct {
	Name string
	Lat  float64
	Lon  float64
}

// Client queries the /search endpoint of a Nominatim-compatible service.
type Client struct {
	baseURL    string
	httpClient *http.Client
	userAgent  string
}

// NewClient returns a Client for baseURL with the given per-request timeout.
// Nominatim's usage policy requires an identifying User-Agent.
func NewClient(baseURL string, timeout time.Duration, userAgent string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		userAgent:  userAgent,
	}
}

// nominatimPlace mirrors the subset of a jsonv2 search result we read.
// Nominatim encodes coordinates as strings.
type nominatimPlace struct {
	DisplayName string `json:"display_name"`
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
}

// Search runs a free-text query and returns at most limit results.
// Any transport failure, non-2xx status, or undecodable body is an error.
func (c *Client) Search(ctx context.Context, query string, limit int) ([]Result, error) {
	q := url.Values{}
	q.Set("format", "json")
	q.Set("q", query)
	q.Set("limit", strconv.Itoa(limit))
	q.Set("addressdetails", "1")
	q.Set("bounded", "0")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/search?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("geo.Client.Search: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("geo.Client.Search: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("geo.Client.Search: HTTP %d", resp.StatusCode)
	}

	var places []nominatimPlace
	if err := json.NewDecoder(resp.Body).Decode(&places); err != nil {
		return nil, fmt.Errorf("geo.Client.Search: decode: %w", err)
	}

	out := make([]Result, 0, len(places))
	for _, p := range places {
		lat, errLat := strconv.ParseFloat(p.Lat, 64)
		lon, errLon := strconv.ParseFloat(p.Lon, 64)
		if errLat != nil || errLon != nil {
			continue
		}
		name, _, _ := strings.Cut(p.DisplayName, ",")
		out = append(out, Result{Name: strings.TrimSpace(name), Lat: lat, Lon: lon})
	}
	return out, nil
}
