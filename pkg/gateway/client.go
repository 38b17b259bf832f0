package gateway

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"

	"github.com/icognita1702/festalog/environments"
	"github.com/icognita1702/festalog/pkg/logger"
)

// Client talks to the WhatsApp gateway instance that actually delivers
// messages. One instance name maps to one connected phone.
type Client struct {
	httpClient *resty.Client
	baseURL    string
	instance   string
}

type SendTextRequest struct {
	Number    string `json:"number"`
	Text      string `json:"text"`
	ClientRef string `json:"clientRef"`
}

type SendTextResponse struct {
	Key struct {
		ID string `json:"id"`
	} `json:"key"`
	Status string `json:"status"`
}

type ConnectionStatus struct {
	Connected bool   `json:"connected"`
	State     string `json:"state"`
}

type InstanceInfo struct {
	Instance string `json:"instance"`
	QRCode   string `json:"qrcode,omitempty"`
}

func NewClient(cfg environments.GatewayConfig) *Client {
	// Sends are attempted exactly once: a retry after an ambiguous failure
	// could deliver the same message twice.
	client := resty.New().
		SetTimeout(cfg.Timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json").
		SetHeader("apikey", cfg.APIKey)

	return &Client{
		httpClient: client,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		instance:   cfg.Instance,
	}
}

// SendText delivers a text to a phone number. The number is normalized to
// digits-only with the Brazilian country prefix before sending.
func (c *Client) SendText(ctx context.Context, phoneNumber, text string) (bool, error) {
	payload := SendTextRequest{
		Number:    NormalizePhone(phoneNumber),
		Text:      text,
		ClientRef: uuid.NewString(),
	}

	var sendResp SendTextResponse

	startTime := time.Now()

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(payload).
		SetResult(&sendResp).
		Post(fmt.Sprintf("%s/message/sendText/%s", c.baseURL, c.instance))

	duration := time.Since(startTime)

	if err != nil {
		return false, fmt.Errorf("failed to send request: %w", err)
	}

	logger.Infof("Gateway send to %s completed in %v (status: %d)", payload.Number, duration, resp.StatusCode())

	if resp.StatusCode() != http.StatusOK && resp.StatusCode() != http.StatusCreated {
		return false, fmt.Errorf("unexpected status code: %d, body: %s", resp.StatusCode(), resp.String())
	}

	return true, nil
}

// GetStatus reads the connection state of the instance.
func (c *Client) GetStatus(ctx context.Context) (*ConnectionStatus, error) {
	var stateResp struct {
		Instance struct {
			State string `json:"state"`
		} `json:"instance"`
	}

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetResult(&stateResp).
		Get(fmt.Sprintf("%s/instance/connectionState/%s", c.baseURL, c.instance))

	if err != nil {
		return nil, fmt.Errorf("failed to get connection state: %w", err)
	}

	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d, body: %s", resp.StatusCode(), resp.String())
	}

	return &ConnectionStatus{
		Connected: stateResp.Instance.State == "open",
		State:     stateResp.Instance.State,
	}, nil
}

// CreateInstance provisions the gateway instance and returns the pairing
// QR code when the phone is not yet connected.
func (c *Client) CreateInstance(ctx context.Context) (*InstanceInfo, error) {
	var createResp struct {
		Instance struct {
			InstanceName string `json:"instanceName"`
		} `json:"instance"`
		QRCode struct {
			Base64 string `json:"base64"`
		} `json:"qrcode"`
	}

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(map[string]any{
			"instanceName": c.instance,
			"qrcode":       true,
		}).
		SetResult(&createResp).
		Post(fmt.Sprintf("%s/instance/create", c.baseURL))

	if err != nil {
		return nil, fmt.Errorf("failed to create instance: %w", err)
	}

	if resp.StatusCode() != http.StatusOK && resp.StatusCode() != http.StatusCreated {
		return nil, fmt.Errorf("unexpected status code: %d, body: %s", resp.StatusCode(), resp.String())
	}

	return &InstanceInfo{
		Instance: createResp.Instance.InstanceName,
		QRCode:   createResp.QRCode.Base64,
	}, nil
}

// Disconnect logs the instance out of WhatsApp.
func (c *Client) Disconnect(ctx context.Context) (bool, error) {
	resp, err := c.httpClient.R().
		SetContext(ctx).
		Delete(fmt.Sprintf("%s/instance/logout/%s", c.baseURL, c.instance))

	if err != nil {
		return false, fmt.Errorf("failed to disconnect instance: %w", err)
	}

	if resp.StatusCode() != http.StatusOK {
		return false, fmt.Errorf("unexpected status code: %d, body: %s", resp.StatusCode(), resp.String())
	}

	return true, nil
}

// NormalizePhone strips everything but digits and prefixes the Brazilian
// country code when the number looks local (10 or 11 digits).
func NormalizePhone(phoneNumber string) string {
	var digits strings.Builder
	for _, r := range phoneNumber {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}

	normalized := digits.String()
	if len(normalized) == 10 || len(normalized) == 11 {
		normalized = "55" + normalized
	}

	return normalized
}
