package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"scrapgate/internal/domain/notification"
	"scrapgate/pkg/logger"
)

// WebhookNotifier posts inspection events to an external endpoint.
// Delivery failures are logged and returned but never block the transaction.
type WebhookNotifier struct {
	client *resty.Client
	url    string
	log    logger.Logger
}

func NewWebhookNotifier(url string, log logger.Logger) *WebhookNotifier {
	client := resty.New().
		SetTimeout(5 * time.Second).
		SetRetryCount(2).
		SetRetryWaitTime(500 * time.Millisecond)
	return &WebhookNotifier{client: client, url: url, log: log}
}

func (n *WebhookNotifier) NotifyInspection(ctx context.Context, ev notification.InspectionEvent) error {
	resp, err := n.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(ev).
		Post(n.url)
	if err != nil {
		n.log.Warn("inspection webhook delivery failed", map[string]interface{}{
			"vehicle_number": ev.VehicleNumber,
			"result":         ev.InspectionResult,
			"error":          err.Error(),
		})
		return err
	}
	if resp.StatusCode() >= 300 {
		err := fmt.Errorf("webhook returned status %d", resp.StatusCode())
		n.log.Warn("inspection webhook rejected", map[string]interface{}{
			"vehicle_number": ev.VehicleNumber,
			"result":         ev.InspectionResult,
			"status":         resp.StatusCode(),
		})
		return err
	}
	return nil
}

// NopNotifier is used when no webhook URL is configured.
type NopNotifier struct{}

func (NopNotifier) NotifyInspection(context.Context, notification.InspectionEvent) error { return nil }

var (
	_ notification.Notifier = (*WebhookNotifier)(nil)
	_ notification.Notifier = NopNotifier{}
)
