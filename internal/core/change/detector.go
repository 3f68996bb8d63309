// Package change implements one-shot field change detection over successive
// normalized addresses. Each tracked field carries its own state machine so a
// street change never consumes the municipality detector's pending flag
package change

import (
	"sync"

	"guia/internal/core/address"
)

// TrackedField names an address component watched for transitions
type TrackedField string

const (
	FieldStreet       TrackedField = "street"
	FieldNeighborhood TrackedField = "neighborhood"
	FieldMunicipality TrackedField = "municipality"
)

// TrackedFields lists every watched field in announcement-priority order,
// highest first
var TrackedFields = []TrackedField{FieldMunicipality, FieldNeighborhood, FieldStreet}

// state is the per-field machine. Pending means a fresh previous/current pair
// exists whose change status has not been queried yet; Notified means it has.
// Only a genuinely different pair moves a field back to Pending, which is what
// makes the one-shot guarantee hold under repeated queries and repeated
// identical pushes
type state uint8

const (
	noPriorData state = iota
	pendingNotification
	notified
)

// Snapshot carries the tracked field values of one side of a transition,
// included in change details for announcement context
type Snapshot struct {
	Street       address.Field `json:"street"`
	Neighborhood address.Field `json:"neighborhood"`
	Municipality address.Field `json:"municipality"`
}

func snapshotOf(a *address.Address) Snapshot {
	if a == nil {
		return Snapshot{}
	}
	return Snapshot{
		Street:       a.Street,
		Neighborhood: a.Neighborhood,
		Municipality: a.Municipality,
	}
}

func (s Snapshot) field(f TrackedField) address.Field {
	switch f {
	case FieldStreet:
		return s.Street
	case FieldNeighborhood:
		return s.Neighborhood
	default:
		return s.Municipality
	}
}

// Details describes one field's transition status. Retrieval never consumes
// the one-shot flag; only HasChanged does
type Details struct {
	Field      TrackedField `json:"field"`
	HasChanged bool         `json:"has_changed"`
	Previous   Snapshot     `json:"previous"`
	Current    Snapshot     `json:"current"`
	Immediate  bool         `json:"immediate"`
}

// Callback receives change details synchronously, at most once per genuine
// transition. A panicking callback never blocks the state transition or the
// remaining fields' callbacks
type Callback func(Details)

type fieldTracker struct {
	st       state
	sigPrev  address.Field
	sigCur   address.Field
	callback Callback
}

// Detector watches the three tracked fields across cache pushes. One Detector
// per tracking session; safe for concurrent use
type Detector struct {
	mu       sync.Mutex
	fields   map[TrackedField]*fieldTracker
	previous Snapshot
	current  Snapshot
}

// NewDetector returns a Detector with all fields in the no-prior-data state
func NewDetector() *Detector {
	fields := make(map[TrackedField]*fieldTracker, len(TrackedFields))
	for _, f := range TrackedFields {
		fields[f] = &fieldTracker{}
	}
	return &Detector{fields: fields}
}

// SetCallback registers fn for one tracked field, replacing any prior
// registration. A nil fn clears it
func (d *Detector) SetCallback(f TrackedField, fn Callback) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if t, ok := d.fields[f]; ok {
		t.callback = fn
	}
}

// Observe feeds the detector a new previous/current pair, normally right
// after a cache push. Fields whose pair signature actually differs from the
// last observed one move back to pending and, when the value changed, fire
// their callback with the immediate flag set for the bypass path
func (d *Detector) Observe(prev, cur *address.Address, immediate bool) {
	d.mu.Lock()

	d.previous = snapshotOf(prev)
	d.current = snapshotOf(cur)

	var fire []Details
	for _, f := range TrackedFields {
		t := d.fields[f]
		if prev == nil || cur == nil {
			t.st = noPriorData
			continue
		}
		pv := d.previous.field(f)
		cv := d.current.field(f)
		if t.st != noPriorData && pv.Equal(t.sigPrev) && cv.Equal(t.sigCur) {
			// same transition already observed; keep the one-shot state
			continue
		}
		t.sigPrev, t.sigCur = pv, cv
		t.st = pendingNotification
		if t.callback != nil && !pv.Equal(cv) {
			fire = append(fire, Details{
				Field:      f,
				HasChanged: true,
				Previous:   d.previous,
				Current:    d.current,
				Immediate:  immediate,
			})
		}
	}

	// callbacks run outside the lock so a consumer may query the detector
	callbacks := make([]Callback, len(fire))
	for i, ev := range fire {
		callbacks[i] = d.fields[ev.Field].callback
	}
	d.mu.Unlock()

	for i, cb := range callbacks {
		invoke(cb, fire[i])
	}
}

func invoke(cb Callback, ev Details) {
	defer func() { _ = recover() }()
	cb(ev)
}

// HasChanged reports whether f changed in the pending previous/current pair
// and consumes the pending state. With no further Observe, repeat calls
// return false
func (d *Detector) HasChanged(f TrackedField) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	t, ok := d.fields[f]
	if !ok || t.st != pendingNotification {
		return false
	}
	t.st = notified
	return !t.sigPrev.Equal(t.sigCur)
}

// ChangeDetails returns f's transition status without consuming the one-shot
// flag
func (d *Detector) ChangeDetails(f TrackedField) Details {
	d.mu.Lock()
	defer d.mu.Unlock()
	t, ok := d.fields[f]
	det := Details{Field: f, Previous: d.previous, Current: d.current}
	if ok && t.st != noPriorData {
		det.HasChanged = !t.sigPrev.Equal(t.sigCur)
	}
	return det
}

// Reset returns every field to the no-prior-data state, clearing signatures
// but keeping registered callbacks
func (d *Detector) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, t := range d.fields {
		t.st = noPriorData
		t.sigPrev, t.sigCur = address.Absent(), address.Absent()
	}
	d.previous, d.current = Snapshot{}, Snapshot{}
}
