// Package paypal is a minimal client for the PayPal checkout v2 REST API:
// client-credentials tokens, order creation and order capture.
package paypal

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"go-marketplace/cache"
	"go-marketplace/utils"
)

// tokenCacheKey is the shared cache entry every caller checks before asking
// the provider for a fresh token.
const tokenCacheKey = "paypalAccessToken"

// Client calls the PayPal REST API with a bounded timeout. Access tokens are
// served cache-first from the injected TokenCache.
type Client struct {
	baseURL      string
	clientID     string
	clientSecret string
	httpClient   *http.Client
	tokens       cache.TokenCache
}

func NewClient(baseURL, clientID, clientSecret string, tokens cache.TokenCache) *Client {
	return &Client{
		baseURL:      strings.TrimRight(baseURL, "/"),
		clientID:     clientID,
		clientSecret: clientSecret,
		httpClient:   &http.Client{Timeout: 15 * time.Second},
		tokens:       tokens,
	}
}

// GenerateAccessToken requests a fresh client-credentials token.
func (c *Client) GenerateAccessToken(ctx context.Context) (*AccessToken, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/v1/oauth2/token",
		strings.NewReader("grant_type=client_credentials"))
	if err != nil {
		return nil, err
	}
	req.SetBasicAuth(c.clientID, c.clientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, utils.Upstream(fmt.Sprintf("paypal token request failed: %v", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, utils.Upstream(fmt.Sprintf("paypal token request returned %d", resp.StatusCode))
	}

	var token AccessToken
	if err := json.NewDecoder(resp.Body).Decode(&token); err != nil {
		return nil, utils.Upstream(fmt.Sprintf("paypal token response malformed: %v", err))
	}
	return &token, nil
}

// accessToken returns a token from the cache, fetching and repopulating on a
// miss. A cache write failure is logged, not fatal; the token still works.
func (c *Client) accessToken(ctx context.Context) (string, error) {
	token, err := c.tokens.Get(ctx, tokenCacheKey)
	if err == nil {
		return token, nil
	}

	fresh, err := c.GenerateAccessToken(ctx)
	if err != nil {
		return "", err
	}
	ttl := time.Duration(fresh.ExpiresIn) * time.Second
	if err := c.tokens.Set(ctx, tokenCacheKey, fresh.AccessToken, ttl); err != nil {
		log.Printf("paypal: failed to cache access token: %v", err)
	}
	return fresh.AccessToken, nil
}

// CreateOrder creates a capture-intent order with one purchase unit per
// seller. Nothing is collected until the order is captured.
func (c *Client) CreateOrder(ctx context.Context, units []PurchaseUnit) (*OrderResponse, error) {
	payload := map[string]interface{}{
		"intent":         "CAPTURE",
		"purchase_units": units,
		"application_context": map[string]string{
			"brand_name":   "marketplace",
			"locale":       "en-US",
			"landing_page": "BILLING",
			"user_action":  "PAY_NOW",
		},
	}
	return c.postOrder(ctx, c.baseURL+"/v2/checkout/orders", payload)
}

// CaptureOrder finalizes collection of funds for a previously created order.
func (c *Client) CaptureOrder(ctx context.Context, orderID string) (*OrderResponse, error) {
	return c.postOrder(ctx, c.baseURL+"/v2/checkout/orders/"+orderID+"/capture", nil)
}

func (c *Client) postOrder(ctx context.Context, url string, payload interface{}) (*OrderResponse, error) {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, body)
	if err != nil {
		return nil, err
	}
	token, err := c.accessToken(ctx)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, utils.Upstream(fmt.Sprintf("paypal request failed: %v", err))
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, utils.Upstream(fmt.Sprintf("paypal response unreadable: %v", err))
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, utils.Upstream(fmt.Sprintf("paypal returned %d: %s", resp.StatusCode, data))
	}

	var order OrderResponse
	if err := json.Unmarshal(data, &order); err != nil {
		return nil, utils.Upstream(fmt.Sprintf("paypal response malformed: %v", err))
	}
	if err := json.Unmarshal(data, &order.Raw); err != nil {
		return nil, utils.Upstream(fmt.Sprintf("paypal response malformed: %v", err))
	}
	return &order, nil
}
