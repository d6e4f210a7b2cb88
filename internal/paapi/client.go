package paapi

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

	"partscout/internal/config"
)

const defaultHTTPTimeout = 10 * time.Second

// Item is one search result stripped down to the fields the pipeline uses.
type Item struct {
	ASIN      string
	Title     string
	DetailURL string
}

// Client calls PA-API SearchItems with signed requests.
type Client struct {
	creds       Credentials
	host        string
	partnerTag  string
	marketplace string
	searchIndex string
	itemCount   int
	baseURL     string
	httpClient  *http.Client
	now         func() time.Time
}

// Option customizes the PA-API client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithBaseURL overrides the endpoint derived from the configured host
// (useful for tests/mocks). The Host signing header still uses the
// configured host.
func WithBaseURL(base string) Option {
	return func(c *Client) {
		base = strings.TrimSpace(base)
		if base != "" {
			c.baseURL = strings.TrimRight(base, "/")
		}
	}
}

// WithClock overrides the signing timestamp source.
func WithClock(now func() time.Time) Option {
	return func(c *Client) {
		if now != nil {
			c.now = now
		}
	}
}

// NewClient constructs a PA-API client from configuration.
func NewClient(cfg *config.Config, opts ...Option) *Client {
	timeout := time.Duration(cfg.Amazon.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = defaultHTTPTimeout
	}
	client := &Client{
		creds: Credentials{
			AccessKey: cfg.Amazon.AccessKey,
			SecretKey: cfg.Amazon.SecretKey,
			Region:    cfg.Amazon.Region,
		},
		host:        cfg.Amazon.Host,
		partnerTag:  cfg.Amazon.PartnerTag,
		marketplace: cfg.Amazon.Marketplace,
		searchIndex: cfg.Amazon.SearchIndex,
		itemCount:   cfg.Enrich.ItemCount,
		baseURL:     "https://" + cfg.Amazon.Host,
		httpClient:  &http.Client{Timeout: timeout},
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

type searchItemsRequest struct {
	Keywords    string   `json:"Keywords"`
	SearchIndex string   `json:"SearchIndex"`
	ItemCount   int      `json:"ItemCount"`
	PartnerTag  string   `json:"PartnerTag"`
	PartnerType string   `json:"PartnerType"`
	Marketplace string   `json:"Marketplace"`
	Resources   []string `json:"Resources"`
}

type searchItemsResponse struct {
	SearchResult struct {
		Items []struct {
			ASIN          string `json:"ASIN"`
			DetailPageURL string `json:"DetailPageURL"`
			ItemInfo      struct {
				Title struct {
					DisplayValue string `json:"DisplayValue"`
				} `json:"Title"`
			} `json:"ItemInfo"`
		} `json:"Items"`
	} `json:"SearchResult"`
}

// Search runs a SearchItems query and returns the matched items in response
// order. An empty result set is not an error.
func (c *Client) Search(ctx context.Context, keywords string) ([]Item, error) {
	keywords = strings.TrimSpace(keywords)
	if keywords == "" {
		return nil, errors.New("paapi search: keywords required")
	}

	payload := searchItemsRequest{
		Keywords:    keywords,
		SearchIndex: c.searchIndex,
		ItemCount:   c.itemCount,
		PartnerTag:  c.partnerTag,
		PartnerType: "Associates",
		Marketplace: c.marketplace,
		Resources:   []string{"ItemInfo.Title", "Offers.Listings.Price"},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("paapi search: encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+searchItemsPath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("paapi search: request: %w", err)
	}
	headers := SignedHeaders(http.MethodPost, searchItemsPath, c.host, searchTarget, body, c.creds, c.now())
	for name, value := range headers {
		req.Header.Set(name, value)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("paapi search: request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("paapi search: read body: %w", err)
	}
	if resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("paapi search: http %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	// A 2xx body without a SearchResult section (including ones carrying
	// only an Errors array) is an empty result set, not a failure.
	var decoded searchItemsResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, fmt.Errorf("paapi search: decode response: %w", err)
	}

	items := make([]Item, 0, len(decoded.SearchResult.Items))
	for _, it := range decoded.SearchResult.Items {
		items = append(items, Item{
			ASIN:      it.ASIN,
			Title:     it.ItemInfo.Title.DisplayValue,
			DetailURL: it.DetailPageURL,
		})
	}
	return items, nil
}
