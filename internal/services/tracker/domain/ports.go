package domain

import (
	"context"

	"guia/internal/core/change"
)

// ServicePort is the interface implemented by the tracker service
type ServicePort interface {
	CreateSession(ctx context.Context) (SessionInfo, error)
	DeleteSession(ctx context.Context, id string) error

	// ProcessPosition reverse-geocodes and runs the update pipeline.
	// ProcessAddress skips geocoding and pushes a raw payload directly.
	// immediate selects the bypass path: changed fields are announced
	// synchronously instead of waiting for the next dispatcher tick
	ProcessPosition(ctx context.Context, id string, in PositionInput, immediate bool) (UpdateResult, error)
	ProcessAddress(ctx context.Context, id string, in AddressInput, immediate bool) (UpdateResult, error)

	AddressState(ctx context.Context, id string) (AddressState, error)
	Changes(ctx context.Context, id string) ([]change.Details, error)
	Queue(ctx context.Context, id string) (QueueState, error)
}

// GeocoderPort reverse-geocodes a coordinate into a raw payload the
// normalizer understands
type GeocoderPort interface {
	Reverse(ctx context.Context, lat, lon float64) (map[string]any, error)
}

// SpeakerPort hands one utterance to a speech backend. Implementations
// serialize playback; the dispatcher never overlaps calls for one session
type SpeakerPort interface {
	Speak(ctx context.Context, text string) error
}
