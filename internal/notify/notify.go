// Package notify delivers fire-and-forget notifications about newly indexed
// skills.
package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// IndexedSkill is the notification payload for a freshly indexed record.
type IndexedSkill struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	RepoURL string `json:"repo_url"`
}

// Notifier delivers indexed-skill notifications. Delivery failures are the
// caller's to log; nothing in the pipeline blocks on them.
type Notifier interface {
	SendIndexedNotification(ctx context.Context, address, locale string, skill IndexedSkill) error
}

// Webhook posts notification payloads to a configured HTTP endpoint.
type Webhook struct {
	http *resty.Client
	url  string
}

// NewWebhook creates a webhook notifier. An empty URL yields a notifier that
// drops every notification.
func NewWebhook(url string) *Webhook {
	client := resty.New().
		SetTimeout(10 * time.Second).
		SetHeader("User-Agent", "skillscout")
	return &Webhook{http: client, url: url}
}

type indexedPayload struct {
	Address string       `json:"address"`
	Locale  string       `json:"locale"`
	Skill   IndexedSkill `json:"skill"`
}

// SendIndexedNotification posts the payload to the webhook.
func (w *Webhook) SendIndexedNotification(ctx context.Context, address, locale string, skill IndexedSkill) error {
	if w.url == "" {
		return nil
	}

	resp, err := w.http.R().
		SetContext(ctx).
		SetBody(indexedPayload{Address: address, Locale: locale, Skill: skill}).
		Post(w.url)
	if err != nil {
		return fmt.Errorf("notify %s: %w", skill.ID, err)
	}
	if !resp.IsSuccess() {
		return fmt.Errorf("notify %s: status %d", skill.ID, resp.StatusCode())
	}
	return nil
}

// Noop swallows every notification. Used when no webhook is configured and
// in tests.
type Noop struct{}

func (Noop) SendIndexedNotification(context.Context, string, string, IndexedSkill) error {
	return nil
}
