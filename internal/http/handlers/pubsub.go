package handlers

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/pong-ladder/internal/club"
	"github.com/mauv0809/pong-ladder/internal/pubsub"
)

// ResultNotifier announces a recorded match.
type ResultNotifier interface {
	NotifyResult(result *club.MatchResult, dryRun bool) error
}

// pushMessage is the envelope Pub/Sub wraps around pushed messages.
type pushMessage struct {
	Subscription string `json:"subscription"`
	Message      struct {
		Data string `json:"data"` // base64-encoded msgpack payload
	} `json:"message"`
}

// decodePushMessage unwraps a Pub/Sub push request into v.
func decodePushMessage(r *http.Request, pubsubClient pubsub.PubSubClient, v any) error {
	bodyBytes, err := io.ReadAll(r.Body)
	if err != nil {
		return fmt.Errorf("failed to read request body: %w", err)
	}
	log.Debug("Received push message", "body", string(bodyBytes))

	var msg pushMessage
	if err := json.Unmarshal(bodyBytes, &msg); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	rawData, err := base64.StdEncoding.DecodeString(msg.Message.Data)
	if err != nil {
		return fmt.Errorf("invalid base64 data: %w", err)
	}
	if err := pubsubClient.ProcessMessage(rawData, v); err != nil {
		return fmt.Errorf("invalid message payload: %w", err)
	}
	return nil
}

// NotifyResultHandler receives match-recorded events and posts the result to Slack.
func NotifyResultHandler(notifier ResultNotifier, pubsubClient pubsub.PubSubClient) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var result club.MatchResult
		if err := decodePushMessage(r, pubsubClient, &result); err != nil {
			log.Error("Failed to decode match-recorded message", "error", err)
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		isDryRun := IsDryRunFromContext(r)
		if err := notifier.NotifyResult(&result, isDryRun); err != nil {
			log.Error("Failed to notify result", "match_id", result.Match.ID, "error", err)
			http.Error(w, "Failed to notify result", http.StatusInternalServerError)
			return
		}
		w.Write([]byte("OK"))
	}
}
