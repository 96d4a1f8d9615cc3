package telegram

import (
	"bytes"
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

const (
	// DefaultBaseURL is the base URL for the Telegram Bot API
	DefaultBaseURL = "https://api.telegram.org"

	// MaxMessageLength is the Bot API limit for text message length
	MaxMessageLength = 4096
)

// Client is a Telegram Bot API client
type Client struct {
	httpClient  *http.Client
	baseURL     string
	token       string
	pollTimeout time.Duration
	logger      logger.Logger
}

// NewClient creates a new Bot API client
func NewClient(cfg *config.TelegramConfig, log logger.Logger) *Client {
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

	pollTimeout := cfg.PollTimeout
	if pollTimeout <= 0 {
		pollTimeout = 50 * time.Second
	}

	return &Client{
		httpClient: &http.Client{
			// Long polling holds the connection open for pollTimeout, so the
			// HTTP timeout must exceed it.
			Timeout: timeout + pollTimeout,
		},
		baseURL:     baseURL,
		token:       cfg.BotToken,
		pollTimeout: pollTimeout,
		logger:      log,
	}
}

// methodURL constructs the URL for a Bot API method call
func (c *Client) methodURL(method string) string {
	return fmt.Sprintf("%s/bot%s/%s", c.baseURL, c.token, method)
}

// call performs a Bot API method call and decodes the result into target
func (c *Client) call(ctx context.Context, method string, payload interface{}, target interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return errs.New(errs.ErrorTypeUnknown, 0, "failed to marshal payload: %v", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.methodURL(method), bytes.NewReader(body))
	if err != nil {
		return errs.New(errs.ErrorTypeUnknown, 0, "failed to create request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	duration := time.Since(start)

	if err != nil {
		c.logger.ErrorWithFields("telegram API request failed", map[string]interface{}{
			"method":   method,
			"error":    err.Error(),
			"duration": duration,
		})
		return errs.New(errs.ErrorTypeNetwork, 0, "network error: %v", err)
	}
	defer resp.Body.Close()

	c.logger.DebugWithFields("telegram API request completed", map[string]interface{}{
		"method":   method,
		"status":   resp.StatusCode,
		"duration": duration,
	})

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return errs.New(errs.ErrorTypeNetwork, resp.StatusCode, "failed to read response body: %v", err)
	}

	var envelope apiResponse
	if err := json.Unmarshal(respBody, &envelope); err != nil {
		return errs.New(errs.ErrorTypeParsing, resp.StatusCode, "failed to parse response: %v", err)
	}

	if !envelope.OK {
		errType := errs.FromStatusCode(resp.StatusCode)
		if envelope.ErrorCode == http.StatusTooManyRequests {
			errType = errs.ErrorTypeRateLimit
		}

		fields := map[string]interface{}{
			"method":      method,
			"error_code":  envelope.ErrorCode,
			"description": envelope.Description,
		}
		if envelope.Parameters != nil && envelope.Parameters.RetryAfter > 0 {
			fields["retry_after"] = envelope.Parameters.RetryAfter
		}
		c.logger.WarnWithFields("telegram API error", fields)

		return errs.New(errType, envelope.ErrorCode, "%s", envelope.Description)
	}

	if target != nil && len(envelope.Result) > 0 {
		if err := json.Unmarshal(envelope.Result, target); err != nil {
			return errs.New(errs.ErrorTypeParsing, resp.StatusCode, "failed to parse result: %v", err)
		}
	}

	return nil
}

// SendText sends a plain text message, truncated to the API limit
func (c *Client) SendText(ctx context.Context, chatID, text string) error {
	return c.call(ctx, "sendMessage", sendMessageRequest{
		ChatID: chatID,
		Text:   TruncateText(text, MaxMessageLength),
	}, nil)
}

// SendPhoto sends a single photo by URL
func (c *Client) SendPhoto(ctx context.Context, chatID, photoURL string) error {
	return c.call(ctx, "sendPhoto", sendPhotoRequest{
		ChatID: chatID,
		Photo:  photoURL,
	}, nil)
}

// SendVideo sends a single video by URL with an optional thumbnail hint
func (c *Client) SendVideo(ctx context.Context, chatID, videoURL, thumbnailURL string) error {
	return c.call(ctx, "sendVideo", sendVideoRequest{
		ChatID:    chatID,
		Video:     videoURL,
		Thumbnail: thumbnailURL,
	}, nil)
}

// SendMediaGroup sends multiple photos as one grouped message
func (c *Client) SendMediaGroup(ctx context.Context, chatID string, photoURLs []string) error {
	media := make([]inputMediaPhoto, 0, len(photoURLs))
	for _, url := range photoURLs {
		media = append(media, inputMediaPhoto{Type: "photo", Media: url})
	}

	return c.call(ctx, "sendMediaGroup", sendMediaGroupRequest{
		ChatID: chatID,
		Media:  media,
	}, nil)
}

// GetUpdates long-polls for incoming updates after the given offset
func (c *Client) GetUpdates(ctx context.Context, offset int64) ([]Update, error) {
	var updates []Update
	err := c.call(ctx, "getUpdates", getUpdatesRequest{
		Offset:         offset,
		Timeout:        int(c.pollTimeout.Seconds()),
		AllowedUpdates: []string{"message"},
	}, &updates)
	if err != nil {
		return nil, err
	}
	return updates, nil
}

// TruncateText truncates text to at most limit runes
func TruncateText(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit])
}
