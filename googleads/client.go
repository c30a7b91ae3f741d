// Package googleads creates Google Ads client accounts and search campaigns
// through the Google Ads REST API.
package googleads

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

	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"realtor_ads_automation/logging"
)

const (
	DefaultBaseURL    = "https://googleads.googleapis.com"
	DefaultAPIVersion = "v18"

	googleAuthURL  = "https://accounts.google.com/o/oauth2/auth"
	googleTokenURL = "https://oauth2.googleapis.com/token"
	adwordsScope   = "https://www.googleapis.com/auth/adwords"
)

// Options tune endpoints and transport; zero values use the Google defaults.
type Options struct {
	BaseURL    string
	APIVersion string
	TokenURL   string
	HTTPClient *http.Client
	Timeout    time.Duration
	Logger     *zap.Logger
}

// Client calls the Google Ads API on behalf of a manager account.
type Client struct {
	http            *http.Client
	baseURL         string
	apiVersion      string
	developerToken  string
	loginCustomerID string
	logger          *zap.Logger
}

// New builds a client whose requests are authorized with the refresh token in creds.
func New(creds Credentials, opts Options) (*Client, error) {
	if err := creds.validate(); err != nil {
		return nil, err
	}
	tokenURL := opts.TokenURL
	if tokenURL == "" {
		tokenURL = googleTokenURL
	}
	oc := &oauth2.Config{
		ClientID:     creds.ClientID,
		ClientSecret: creds.ClientSecret,
		Endpoint:     oauth2.Endpoint{AuthURL: googleAuthURL, TokenURL: tokenURL},
		Scopes:       []string{adwordsScope},
	}

	ctx := context.Background()
	if opts.HTTPClient != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, opts.HTTPClient)
	}
	httpClient := oauth2.NewClient(ctx, oc.TokenSource(ctx, &oauth2.Token{RefreshToken: creds.RefreshToken}))
	httpClient.Timeout = opts.Timeout
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = 60 * time.Second
	}

	c := &Client{
		http:            httpClient,
		baseURL:         strings.TrimRight(opts.BaseURL, "/"),
		apiVersion:      opts.APIVersion,
		developerToken:  creds.DeveloperToken,
		loginCustomerID: string(creds.LoginCustomerID),
		logger:          logging.OrNop(opts.Logger),
	}
	if c.baseURL == "" {
		c.baseURL = DefaultBaseURL
	}
	if c.apiVersion == "" {
		c.apiVersion = DefaultAPIVersion
	}
	return c, nil
}

func (c *Client) post(ctx context.Context, path string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	url := fmt.Sprintf("%s/%s/%s", c.baseURL, c.apiVersion, path)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("developer-token", c.developerToken)
	if c.loginCustomerID != "" {
		req.Header.Set("login-customer-id", c.loginCustomerID)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("google ads %s: %w", path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("google ads %s: read body: %w", path, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := decodeFailure(resp.StatusCode, data)
		c.logger.Warn("google ads request failed",
			zap.String("path", path), zap.Int("status", resp.StatusCode), zap.String("request_id", apiErr.RequestID))
		return apiErr
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("google ads %s: decode response: %w", path, err)
	}
	return nil
}

type mutateResponse struct {
	Results []struct {
		ResourceName string `json:"resourceName"`
	} `json:"results"`
}

func (m mutateResponse) first() (string, error) {
	if len(m.Results) == 0 || m.Results[0].ResourceName == "" {
		return "", errors.New("mutate response has no results")
	}
	return m.Results[0].ResourceName, nil
}
