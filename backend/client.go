package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ahmedadelattya/ithaka-ai-demo/models"
)

// Client talks to the Ithaka platform REST API. Every endpoint wraps
// its payload in a {"data": ...} envelope. Nothing is cached: reference
// data is refetched on every conversation turn so the model always sees
// the current catalog.
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (c *Client) Destinations(ctx context.Context) ([]models.Destination, error) {
	var envelope struct {
		Data []models.Destination `json:"data"`
	}
	if err := c.get(ctx, "/api/destinations", nil, &envelope); err != nil {
		return nil, fmt.Errorf("failed to fetch destinations: %w", err)
	}

	return envelope.Data, nil
}

func (c *Client) Categories(ctx context.Context) ([]models.Category, error) {
	var envelope struct {
		Data []models.Category `json:"data"`
	}
	if err := c.get(ctx, "/api/categories", nil, &envelope); err != nil {
		return nil, fmt.Errorf("failed to fetch categories: %w", err)
	}

	return envelope.Data, nil
}

func (c *Client) FAQs(ctx context.Context) ([]models.FAQItem, error) {
	var envelope struct {
		Data []models.FAQItem `json:"data"`
	}
	if err := c.get(ctx, "/api/faqs", nil, &envelope); err != nil {
		return nil, fmt.Errorf("failed to fetch faqs: %w", err)
	}

	return envelope.Data, nil
}

func (c *Client) PrivacyPolicy(ctx context.Context) (string, error) {
	var envelope struct {
		Data struct {
			Content string `json:"content"`
		} `json:"data"`
	}
	if err := c.get(ctx, "/api/pages/privacy-policy", nil, &envelope); err != nil {
		return "", fmt.Errorf("failed to fetch privacy policy: %w", err)
	}

	return envelope.Data.Content, nil
}

// Listing is the raw activity shape returned by the listings endpoint.
// Only the fields the assistant projects are decoded.
type Listing struct {
	Title       string  `json:"title"`
	Slug        string  `json:"slug"`
	MinPrice    float64 `json:"min_price"`
	Description string  `json:"description"`
	Categories  []struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	} `json:"categories"`
}

func (c *Client) SearchActivities(ctx context.Context, query url.Values) ([]Listing, error) {
	var envelope struct {
		Data struct {
			Listings []Listing `json:"listings"`
		} `json:"data"`
	}
	if err := c.get(ctx, "/api/activities", query, &envelope); err != nil {
		return nil, fmt.Errorf("failed to search activities: %w", err)
	}

	return envelope.Data.Listings, nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, resp.Body)
		return fmt.Errorf("unexpected status %d from %s", resp.StatusCode, path)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("malformed response from %s: %w", path, err)
	}

	return nil
}
