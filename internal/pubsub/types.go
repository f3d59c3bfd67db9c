package pubsub

import "cloud.google.com/go/pubsub"

type client struct {
	client   *pubsub.Client
	teardown func()
}

// localClient is used when no GCP project is configured. It encodes messages but only logs them.
type localClient struct{}

// EventType represents the type of event/message sent via pubsub.
type EventType string

const (
	EventMatchRecorded EventType = "match-recorded"
	EventPlayerCreated EventType = "player-created"
)
