package lostark

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
)

const defaultBaseURL = "https://developer-lostark.game.onstove.com"

// ErrRateLimited is returned after the rate-limit retry budget is exhausted.
var ErrRateLimited = fmt.Errorf("rate limit retries exhausted")

// Client talks to the Lost Ark open API.
type Client struct {
	http       *resty.Client
	maxRetries int
	cooldown   time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API host (tests point this at a local server).
func WithBaseURL(url string) Option {
	return func(c *Client) { c.http.SetBaseURL(url) }
}

// WithRetryPolicy overrides the rate-limit retry budget and initial cooldown.
func WithRetryPolicy(maxRetries int, cooldown time.Duration) Option {
	return func(c *Client) {
		c.maxRetries = maxRetries
		c.cooldown = cooldown
	}
}

// NewClient builds a client around the given bearer token.
func NewClient(token string, opts ...Option) *Client {
	httpClient := resty.New()
	httpClient.SetBaseURL(defaultBaseURL)
	httpClient.SetTimeout(30 * time.Second)
	httpClient.SetHeader("accept", "application/json")
	httpClient.SetHeader("content-type", "application/json")
	httpClient.SetAuthScheme("bearer")
	httpClient.SetAuthToken(token)

	c := &Client{
		http:       httpClient,
		maxRetries: 5,
		cooldown:   60 * time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SearchMarketItems runs one market item search.
func (c *Client) SearchMarketItems(ctx context.Context, req *MarketItemsRequest) (*MarketItemsResponse, error) {
	if req.Sort == "" {
		req.Sort = "CURRENT_MIN_PRICE"
	}
	if req.SortCondition == "" {
		req.SortCondition = "ASC"
	}
	if req.PageNo == 0 {
		req.PageNo = 1
	}
	var result MarketItemsResponse
	if err := c.post(ctx, "/markets/items", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// SearchAuctionItems runs one auction search.
func (c *Client) SearchAuctionItems(ctx context.Context, req *AuctionItemsRequest) (*AuctionItemsResponse, error) {
	if req.Sort == "" {
		req.Sort = "BUY_PRICE"
	}
	if req.SortCondition == "" {
		req.SortCondition = "ASC"
	}
	if req.PageNo == 0 {
		req.PageNo = 1
	}
	var result AuctionItemsResponse
	if err := c.post(ctx, "/auctions/items", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// post sends one authenticated JSON request. HTTP 429 is retried with
// exponential backoff and jitter up to the configured budget; any other
// non-200 status is an error for this single request.
func (c *Client) post(ctx context.Context, path string, body, result interface{}) error {
	for attempt := 0; ; attempt++ {
		resp, err := c.http.R().
			SetContext(ctx).
			SetBody(body).
			Post(path)
		if err != nil {
			return fmt.Errorf("POST %s: %w", path, err)
		}

		switch resp.StatusCode() {
		case http.StatusOK:
			if err := json.Unmarshal(resp.Body(), result); err != nil {
				return fmt.Errorf("POST %s: decode response: %w", path, err)
			}
			return nil
		case http.StatusTooManyRequests:
			if attempt >= c.maxRetries {
				return fmt.Errorf("POST %s: %w after %d attempts", path, ErrRateLimited, attempt+1)
			}
			wait := c.backoff(attempt)
			log.Printf("[lostark] rate limited on %s, waiting %s (attempt %d/%d)",
				path, wait.Round(time.Second), attempt+1, c.maxRetries)
			select {
			case <-time.After(wait):
			case <-ctx.Done():
				return ctx.Err()
			}
		default:
			return fmt.Errorf("POST %s: unexpected status %d: %s", path, resp.StatusCode(), resp.String())
		}
	}
}

// backoff doubles the cooldown per attempt and adds up to 25% jitter.
func (c *Client) backoff(attempt int) time.Duration {
	wait := c.cooldown << uint(attempt)
	jitter := time.Duration(rand.Int63n(int64(wait)/4 + 1))
	return wait + jitter
}
