package alert

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"
)

// Sévérités des alertes opérationnelles.
const (
	SeveriteInfo     = "info"
	SeveriteWarning  = "warning"
	SeveriteCritique = "critical"
)

// Notifier envoie des alertes vers un canal externe (webhook d'équipe).
type Notifier interface {
	Notify(ctx context.Context, msg Message) error
}

// Message décrit une alerte à diffuser.
type Message struct {
	Titre    string
	Texte    string
	Severite string
}

// WebhookNotifier poste les alertes sur un webhook compatible Slack.
type WebhookNotifier struct {
	webhookURL string
	client     *http.Client
}

// NewWebhookNotifier crée le notifier, ou nil si aucune URL n'est configurée.
func NewWebhookNotifier(webhookURL string) *WebhookNotifier {
	if webhookURL == "" {
		return nil
	}
	return &WebhookNotifier{
		webhookURL: webhookURL,
		client:     &http.Client{Timeout: 5 * time.Second},
	}
}

// Notify poste le message sur le webhook.
func (n *WebhookNotifier) Notify(ctx context.Context, msg Message) error {
	if n == nil || n.webhookURL == "" {
		return errors.New("alert: webhook non configuré")
	}

	payload := map[string]any{
		"text": formatMessage(msg),
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.webhookURL, bytes.NewBuffer(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return errors.New("alert: envoi webhook refusé")
	}
	return nil
}

// Notify est un raccourci sûr quand le notifier peut être absent.
func Notify(ctx context.Context, n Notifier, msg Message) error {
	if n == nil {
		return nil
	}
	return n.Notify(ctx, msg)
}

func formatMessage(msg Message) string {
	emoji := ":information_source:"
	switch msg.Severite {
	case SeveriteWarning:
		emoji = ":warning:"
	case SeveriteCritique:
		emoji = ":rotating_light:"
	}
	if msg.Titre != "" {
		return emoji + " *" + msg.Titre + "*\n" + msg.Texte
	}
	return emoji + " " + msg.Texte
}
