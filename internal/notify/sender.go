package notify

import (
	"context"
	"fmt"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// Sender delivers one customer-facing message. Best-effort by contract:
// callers log failures and move on.
type Sender interface {
	SendCustomerNotification(ctx context.Context, phone, text string) error
}

// GatewaySender posts to an SMS gateway HTTP API.
type GatewaySender struct {
	client *resty.Client
}

func NewGatewaySender(baseURL, token string) *GatewaySender {
	c := resty.New().
		SetBaseURL(baseURL).
		SetAuthToken(token).
		SetRetryCount(2)
	return &GatewaySender{client: c}
}

func (s *GatewaySender) SendCustomerNotification(ctx context.Context, phone, text string) error {
	resp, err := s.client.R().
		SetContext(ctx).
		SetBody(map[string]string{"mobile_phone": phone, "message": text}).
		Post("/message/sms/send")
	if err != nil {
		return fmt.Errorf("sms gateway: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("sms gateway: status %d", resp.StatusCode())
	}
	return nil
}

// LogSender is the dev fallback when no gateway is configured.
type LogSender struct{ Log *zap.Logger }

func (s *LogSender) SendCustomerNotification(_ context.Context, phone, text string) error {
	s.Log.Info("customer notification", zap.String("phone", phone), zap.String("text", text))
	return nil
}
