// Package client is a thin HTTP wrapper around the subscription API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"subscription-tracker/internal/model"
)

const DefaultBaseURL = "http://localhost:4000/api/subscriptions"

// Each operation fails with its own fixed error. Details from the server
// response are not surfaced.
var (
	ErrFetch  = errors.New("Failed to fetch subscriptions")
	ErrCreate = errors.New("Failed to create subscription")
	ErrUpdate = errors.New("Failed to update subscription")
	ErrDelete = errors.New("Failed to delete subscription")
)

// Message is the body returned by a successful delete.
type Message struct {
	Message string `json:"message"`
}

type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewClient returns a client for the API rooted at baseURL. Requests have no
// timeout; callers bound them through the context.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{},
	}
}

func (c *Client) GetAllSubscriptions(ctx context.Context) ([]model.Subscription, error) {
	var subs []model.Subscription
	if err := c.do(ctx, http.MethodGet, c.BaseURL, nil, &subs, ErrFetch); err != nil {
		return nil, err
	}
	return subs, nil
}

func (c *Client) CreateSubscription(ctx context.Context, data model.Draft) (*model.Subscription, error) {
	var sub model.Subscription
	if err := c.do(ctx, http.MethodPost, c.BaseURL, data, &sub, ErrCreate); err != nil {
		return nil, err
	}
	return &sub, nil
}

func (c *Client) UpdateSubscription(ctx context.Context, id string, data model.Draft) (*model.Subscription, error) {
	var sub model.Subscription
	if err := c.do(ctx, http.MethodPut, c.itemURL(id), data, &sub, ErrUpdate); err != nil {
		return nil, err
	}
	return &sub, nil
}

func (c *Client) DeleteSubscription(ctx context.Context, id string) (*Message, error) {
	var msg Message
	if err := c.do(ctx, http.MethodDelete, c.itemURL(id), nil, &msg, ErrDelete); err != nil {
		return nil, err
	}
	return &msg, nil
}

func (c *Client) itemURL(id string) string {
	return c.BaseURL + "/" + url.PathEscape(id)
}

func (c *Client) do(ctx context.Context, method, endpoint string, body, out any, failure error) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%w: marshal request body: %v", failure, err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reqBody)
	if err != nil {
		return fmt.Errorf("%w: create request: %v", failure, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", failure, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, resp.Body)
		return failure
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode response: %v", failure, err)
	}
	return nil
}
