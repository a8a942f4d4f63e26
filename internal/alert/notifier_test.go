package alert

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestWebhookNotifierPostsMessage(t *testing.T) {
	var received string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		var payload map[string]string
		if err := json.Unmarshal(body, &payload); err != nil {
			t.Errorf("payload invalide: %v", err)
		}
		received = payload["text"]
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	n := NewWebhookNotifier(server.URL)
	err := n.Notify(context.Background(), Message{
		Titre:    "Colis retourné",
		Texte:    "COL-20260829-7F3A2B retourné au dépôt",
		Severite: SeveriteWarning,
	})
	if err != nil {
		t.Fatalf("notify: %v", err)
	}

	if !strings.Contains(received, ":warning:") || !strings.Contains(received, "Colis retourné") {
		t.Fatalf("texte inattendu: %q", received)
	}
}

func TestWebhookNotifierReportsRejection(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	n := NewWebhookNotifier(server.URL)
	if err := n.Notify(context.Background(), Message{Texte: "test"}); err == nil {
		t.Fatal("un refus du webhook devrait remonter une erreur")
	}
}

func TestNewWebhookNotifierWithoutURL(t *testing.T) {
	if n := NewWebhookNotifier(""); n != nil {
		t.Fatal("sans URL, le constructeur doit renvoyer nil")
	}
}

func TestNotifyIsNilSafe(t *testing.T) {
	if err := Notify(context.Background(), nil, Message{Texte: "ignorée"}); err != nil {
		t.Fatalf("un notifier absent ne doit pas produire d'erreur: %v", err)
	}
}
