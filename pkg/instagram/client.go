package instagram

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"igrelay/pkg/config"
	errs "igrelay/pkg/errors"
	"igrelay/pkg/logger"
)

// Client is a Meta Graph API client for Instagram business accounts
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiVersion string
	mediaLimit int
	logger     logger.Logger
}

// NewClient creates a new Graph API client
func NewClient(cfg *config.GraphConfig, log logger.Logger) *Client {
	if log == nil {
		log = logger.GetLogger()
	}

	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	baseURL := cfg.APIBaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	version := cfg.APIVersion
	if version == "" {
		version = DefaultAPIVersion
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL:    baseURL,
		apiVersion: version,
		mediaLimit: cfg.MediaLimit,
		logger:     log,
	}
}

// getJSON performs a GET request and decodes the JSON response
func (c *Client) getJSON(ctx context.Context, url string, target interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return errs.New(errs.ErrorTypeUnknown, 0, "failed to create request: %v", err)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	duration := time.Since(start)

	if err != nil {
		c.logger.ErrorWithFields("graph API request failed", map[string]interface{}{
			"url":      req.URL.Path,
			"error":    err.Error(),
			"duration": duration,
		})
		return errs.New(errs.ErrorTypeNetwork, 0, "network error: %v", err)
	}
	defer resp.Body.Close()

	c.logger.DebugWithFields("graph API request completed", map[string]interface{}{
		"url":      req.URL.Path,
		"status":   resp.StatusCode,
		"duration": duration,
	})

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return errs.New(errs.ErrorTypeNetwork, resp.StatusCode, "failed to read response body: %v", err)
	}

	if resp.StatusCode != http.StatusOK {
		return c.errorFromResponse(resp.StatusCode, body)
	}

	if err := json.Unmarshal(body, target); err != nil {
		bodyPreview := string(body)
		if len(bodyPreview) > 200 {
			bodyPreview = bodyPreview[:200] + "..."
		}
		c.logger.ErrorWithFields("failed to parse graph API response", map[string]interface{}{
			"url":          req.URL.Path,
			"status":       resp.StatusCode,
			"error":        err.Error(),
			"body_preview": bodyPreview,
		})
		return errs.New(errs.ErrorTypeParsing, resp.StatusCode, "failed to parse JSON: %v", err)
	}

	return nil
}

// errorFromResponse builds a typed error from a non-200 Graph API response
func (c *Client) errorFromResponse(statusCode int, body []byte) error {
	var envelope graphErrorEnvelope
	message := fmt.Sprintf("unexpected status code: %d", statusCode)
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Error.Message != "" {
		message = envelope.Error.Message
	}

	errType := errs.FromStatusCode(statusCode)

	// The Graph API reports throttling with code 4 inside a 400 response
	if envelope.Error.Code == 4 || envelope.Error.Code == 17 {
		errType = errs.ErrorTypeRateLimit
	}

	c.logger.WarnWithFields("graph API error", map[string]interface{}{
		"status":     statusCode,
		"error_type": string(errType),
		"message":    message,
	})

	return errs.New(errType, statusCode, "%s", message)
}

// ResolveBusinessAccount finds the Instagram business account linked to the
// access token via the token owner's pages.
func (c *Client) ResolveBusinessAccount(ctx context.Context, accessToken string) (string, error) {
	var response accountsResponse
	if err := c.getJSON(ctx, AccountsURL(c.baseURL, c.apiVersion, accessToken), &response); err != nil {
		return "", fmt.Errorf("failed to fetch linked pages: %w", err)
	}

	for _, p := range response.Data {
		if p.InstagramBusinessAccount != nil && p.InstagramBusinessAccount.ID != "" {
			return p.InstagramBusinessAccount.ID, nil
		}
	}

	return "", errs.New(errs.ErrorTypeNotFound, http.StatusNotFound,
		"no linked Instagram business account for this token")
}

// AccountPosts fetches the current media list for the business account linked
// to the access token. Posts are returned in the order the API provides them.
func (c *Client) AccountPosts(ctx context.Context, accessToken string) ([]Post, error) {
	igUserID, err := c.ResolveBusinessAccount(ctx, accessToken)
	if err != nil {
		return nil, err
	}

	var response mediaResponse
	url := MediaURL(c.baseURL, c.apiVersion, igUserID, accessToken, c.mediaLimit)
	if err := c.getJSON(ctx, url, &response); err != nil {
		return nil, fmt.Errorf("failed to fetch media: %w", err)
	}

	c.logger.DebugWithFields("fetched account media", map[string]interface{}{
		"ig_user_id":  igUserID,
		"media_count": len(response.Data),
	})

	return response.Data, nil
}

// AlbumChildren fetches the child items of a carousel album post
func (c *Client) AlbumChildren(ctx context.Context, postID, accessToken string) ([]Child, error) {
	var response childrenResponse
	url := ChildrenURL(c.baseURL, c.apiVersion, postID, accessToken)
	if err := c.getJSON(ctx, url, &response); err != nil {
		return nil, fmt.Errorf("failed to fetch album children: %w", err)
	}

	c.logger.DebugWithFields("fetched album children", map[string]interface{}{
		"post_id":     postID,
		"child_count": len(response.Data),
	})

	return response.Data, nil
}
