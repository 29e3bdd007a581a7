package zapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"zapbot/internal/errors"
	"zapbot/internal/retry"
)

// sendFileVariants are the endpoint paths tried in order for file sends.
// The gateway has shipped several of these over time and not every
// instance supports all of them.
var sendFileVariants = []string{
	"send-file",
	"send-file-url",
	"send-document/pdf",
}

type client struct {
	config  ClientConfig
	client  *http.Client
	backoff *retry.Backoff
}

// NewClient creates a Z-API gateway client.
func NewClient(config ClientConfig) Client {
	if config.Timeout <= 0 {
		config.Timeout = 20 * time.Second
	}
	attempts := config.RetryCount
	if attempts <= 0 {
		attempts = 1
	}
	backoffConfig := retry.DefaultBackoffConfig()
	backoffConfig.MaxAttempts = attempts
	if config.InitialBackoff > 0 {
		backoffConfig.InitialDelay = config.InitialBackoff
	}
	if config.MaxBackoff > 0 {
		backoffConfig.MaxDelay = config.MaxBackoff
	}

	return &client{
		config:  config,
		client:  &http.Client{Timeout: config.Timeout},
		backoff: retry.NewBackoff(backoffConfig),
	}
}

func (c *client) SendText(ctx context.Context, phone, message string) (*SendMessageResponse, error) {
	payload := SendTextRequest{
		Phone:   phone,
		Message: message,
	}

	var result *SendMessageResponse
	err := c.backoff.RetryWithPredicate(ctx, func() error {
		var sendErr error
		result, sendErr = c.post(ctx, "send-text", payload)
		return sendErr
	}, errors.IsRetryable)

	return result, err
}

// SendFile walks the known endpoint variants until one accepts the
// request. The last error is returned when every variant fails; the
// caller decides on a plain-text fallback.
func (c *client) SendFile(ctx context.Context, phone, fileURL, fileName, caption string) (*SendMessageResponse, error) {
	payload := SendFileRequest{
		Phone:    phone,
		File:     fileURL,
		FileName: fileName,
		Caption:  caption,
	}

	var lastErr error
	for _, variant := range sendFileVariants {
		result, err := c.post(ctx, variant, payload)
		if err == nil {
			return result, nil
		}
		lastErr = err
	}

	return nil, fmt.Errorf("all file send variants failed: %w", lastErr)
}

func (c *client) post(ctx context.Context, endpoint string, payload interface{}) (*SendMessageResponse, error) {
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}

	url := fmt.Sprintf("%s/instances/%s/token/%s/%s",
		c.config.BaseURL, c.config.InstanceID, c.config.Token, endpoint)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if c.config.ClientToken != "" {
		req.Header.Set("Client-Token", c.config.ClientToken)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, errors.WrapRetryable(err, errors.ErrCodeGatewayAPI, "failed to reach gateway")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var result SendMessageResponse
	if len(body) > 0 {
		// The gateway occasionally answers with non-JSON bodies on error
		// paths; keep the raw text in that case.
		if err := json.Unmarshal(body, &result); err != nil {
			result.Error = string(body)
		}
	}

	if resp.StatusCode >= http.StatusMultipleChoices {
		apiErr := errors.New(errors.ErrCodeGatewayAPI,
			fmt.Sprintf("gateway returned status %d", resp.StatusCode)).
			WithContext("endpoint", endpoint).
			WithContext("body", result.Error)
		if resp.StatusCode >= http.StatusInternalServerError {
			apiErr.Retryable = true
		}
		return &result, apiErr
	}

	return &result, nil
}
