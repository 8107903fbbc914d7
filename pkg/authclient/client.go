package authclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Client talks to the noteet token endpoints under /v1/user.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 5 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type SignupRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

// StatusError carries a non-200 answer and the server's message.
type StatusError struct {
	Status  int
	Message string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("status %d: %s", e.Status, e.Message)
}

func (c *Client) Signup(ctx context.Context, req SignupRequest) (*TokenPair, error) {
	return c.post(ctx, "/v1/user/signup", req)
}

func (c *Client) Login(ctx context.Context, email, password string) (*TokenPair, error) {
	return c.post(ctx, "/v1/user/login", map[string]string{"email": email, "password": password})
}

// RefreshTokens trades a refresh token for a new pair. The old token is
// spent whether or not the caller reads the answer.
func (c *Client) RefreshTokens(ctx context.Context, refreshToken string) (*TokenPair, error) {
	return c.post(ctx, "/v1/user/token", map[string]string{"refreshToken": refreshToken})
}

func (c *Client) post(ctx context.Context, path string, body any) (*TokenPair, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var e struct {
			Message string `json:"message"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&e)
		return nil, &StatusError{Status: resp.StatusCode, Message: e.Message}
	}

	var result TokenPair
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &result, nil
}
