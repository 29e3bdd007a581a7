package zapi

import (
	"context"
	"time"
)

// Client is the outbound surface of the Z-API gateway.
type Client interface {
	SendText(ctx context.Context, phone, message string) (*SendMessageResponse, error)
	SendFile(ctx context.Context, phone, fileURL, fileName, caption string) (*SendMessageResponse, error)
}

// ClientConfig configures a gateway client instance.
type ClientConfig struct {
	BaseURL        string
	InstanceID     string
	Token          string
	ClientToken    string
	Timeout        time.Duration
	RetryCount     int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
}

// SendTextRequest is the payload for the send-text endpoint.
type SendTextRequest struct {
	Phone   string `json:"phone"`
	Message string `json:"message"`
}

// SendFileRequest is the payload for the send-file endpoint family.
type SendFileRequest struct {
	Phone    string `json:"phone"`
	File     string `json:"file"`
	FileName string `json:"fileName,omitempty"`
	Caption  string `json:"caption,omitempty"`
}

// SendMessageResponse is the gateway acknowledgment for an outbound send.
type SendMessageResponse struct {
	ZaapID    string `json:"zaapId,omitempty"`
	MessageID string `json:"messageId,omitempty"`
	Error     string `json:"error,omitempty"`
}
