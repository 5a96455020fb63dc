package core

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

const defaultWebhookTimeout = 8 * time.Second

// Notifier envia os avisos de convite e redefinição para um webhook externo
type Notifier struct {
	http *resty.Client
}

// NewNotifier cria o notifier com o timeout informado
func NewNotifier(timeout time.Duration) *Notifier {
	if timeout <= 0 {
		timeout = defaultWebhookTimeout
	}
	c := resty.New().
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json")
	return &Notifier{http: c}
}

// Send faz o POST do payload. URL vazia não envia nada.
func (n *Notifier) Send(ctx context.Context, url, secret string, payload interface{}) error {
	if url == "" {
		return nil
	}
	req := n.http.R().SetContext(ctx).SetBody(payload)
	if secret != "" {
		req.SetHeader("X-Webhook-Secret", secret)
	}
	resp, err := req.Post(url)
	if err != nil {
		return fmt.Errorf("falha ao chamar webhook: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("webhook respondeu HTTP %d", resp.StatusCode())
	}
	return nil
}
