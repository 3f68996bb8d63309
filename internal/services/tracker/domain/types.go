// Package domain defines tracker types shared by transport and service
package domain

import (
	"time"

	"guia/internal/core/address"
	"guia/internal/core/change"
	"guia/internal/core/speech"
)

// SessionInfo describes one tracking session. Sessions are independent: each
// carries its own cache, detectors, queue, and dispatcher
type SessionInfo struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
}

// MunicipalityLinks point at the IBGE resources for the current municipality
type MunicipalityLinks struct {
	Panorama       string `json:"panorama,omitempty"`
	StateAPI       string `json:"state_api,omitempty"`
	Municipalities string `json:"municipalities_api,omitempty"`
}

// AddressState is the cached previous/current pair of one session
type AddressState struct {
	Previous *address.Address   `json:"previous"`
	Current  *address.Address   `json:"current"`
	Links    *MunicipalityLinks `json:"links,omitempty"`
}

// UpdateResult is returned by both update paths and fanned out to observers:
// the raw payload, the normalized address, and the per-field change details
// produced by the same push. Err is set on a failed update so observers learn
// of error outcomes too; the HTTP layer reports those through the envelope
// instead
type UpdateResult struct {
	SessionID string           `json:"session_id"`
	Event     string           `json:"event"`
	Raw       map[string]any   `json:"-"`
	Address   address.Address  `json:"address"`
	Changes   []change.Details `json:"changes"`
	Announced []string         `json:"announced,omitempty"`
	Immediate bool             `json:"immediate"`
	Err       error            `json:"-"`
}

// update event names
const (
	EventPosition = "position_updated"
	EventAddress  = "address_updated"
	EventError    = "update_failed"
)

// QueueState exposes a session's pending utterances for inspection
type QueueState struct {
	SessionID string        `json:"session_id"`
	Size      int           `json:"size"`
	Items     []speech.Item `json:"items"`
}
