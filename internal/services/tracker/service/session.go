package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"guia/internal/core/address"
	"guia/internal/core/change"
	"guia/internal/core/speech"
	"guia/internal/platform/logger"
	"guia/internal/services/tracker/domain"
)

// announcement priorities, highest first. All three fields still take the
// bypass path on an immediate update; priority only orders the queue
const (
	priorityMunicipality = 3
	priorityNeighborhood = 2
	priorityStreet       = 1
)

// Observer receives every update result of a session. A panicking observer
// never blocks the pipeline or the remaining observers
type Observer func(domain.UpdateResult)

// Session owns one tracking pipeline: cache, detectors, queue, dispatcher.
// Constructed per logical tracking session so tests and concurrent clients
// never share detector state
type Session struct {
	info       domain.SessionInfo
	cache      *Cache
	detector   *change.Detector
	queue      *speech.Queue
	dispatcher *Dispatcher
	log        logger.Logger

	mu        sync.Mutex
	observers map[string]Observer
}

func newSession(norm *address.Normalizer, speaker domain.SpeakerPort, opts Options) *Session {
	q := speech.NewQueueWithOptions(speech.QueueOptions{TTL: opts.QueueTTL})
	s := &Session{
		info: domain.SessionInfo{
			ID:        uuid.NewString(),
			CreatedAt: time.Now().UTC(),
		},
		cache:      NewCache(norm, CacheOptions{MemoSize: opts.MemoSize, MemoTTL: opts.MemoTTL}),
		detector:   change.NewDetector(),
		queue:      q,
		dispatcher: NewDispatcher(q, speaker, opts.Interval),
		observers:  map[string]Observer{},
	}
	s.log = logger.Named("session").With().Str("session_id", s.info.ID).Logger()

	for _, f := range change.TrackedFields {
		f := f
		s.detector.SetCallback(f, func(ev change.Details) { s.onChange(f, ev) })
	}
	return s
}

// onChange turns a detected field transition into a queued announcement.
// Immediate events additionally drain the queue synchronously so a street
// change while driving is spoken without waiting for the next tick
func (s *Session) onChange(f change.TrackedField, ev change.Details) {
	text := announcement(f, ev.Current)
	if text == "" {
		return
	}
	s.queue.Enqueue(text, priorityOf(f))
	s.log.Debug().Str("field", string(f)).Bool("immediate", ev.Immediate).Str("text", text).Msg("announcement queued")
	if ev.Immediate {
		s.dispatcher.ProcessQueue(context.Background())
	}
}

func priorityOf(f change.TrackedField) int {
	switch f {
	case change.FieldMunicipality:
		return priorityMunicipality
	case change.FieldNeighborhood:
		return priorityNeighborhood
	default:
		return priorityStreet
	}
}

// announcement renders the Portuguese utterance for a changed field. A field
// that changed to absent produces nothing worth speaking
func announcement(f change.TrackedField, cur change.Snapshot) string {
	var format, value string
	switch f {
	case change.FieldMunicipality:
		format, value = "Você entrou no município de %s", cur.Municipality.Text()
	case change.FieldNeighborhood:
		format, value = "Você entrou no bairro %s", cur.Neighborhood.Text()
	default:
		format, value = "Você está agora na %s", cur.Street.Text()
	}
	value = speech.Sanitize(value)
	if value == "" {
		return ""
	}
	return fmt.Sprintf(format, value)
}

// Process pushes a raw geocoder payload through normalize, cache, and
// detection, then fans the result out to observers
func (s *Session) Process(raw map[string]any, event string, immediate bool) domain.UpdateResult {
	prev, cur := s.cache.Push(raw)
	s.detector.Observe(prev, cur, immediate)

	res := domain.UpdateResult{
		SessionID: s.info.ID,
		Event:     event,
		Raw:       raw,
		Immediate: immediate,
	}
	if cur != nil {
		res.Address = *cur
	}
	for _, f := range change.TrackedFields {
		det := s.detector.ChangeDetails(f)
		res.Changes = append(res.Changes, det)
	}
	for _, it := range s.queue.Snapshot() {
		res.Announced = append(res.Announced, it.Text)
	}

	s.notify(res)
	return res
}

// Fail fans a failed update out to observers. The pipeline state is left
// untouched; only the outcome is reported
func (s *Session) Fail(event string, err error) {
	s.notify(domain.UpdateResult{
		SessionID: s.info.ID,
		Event:     event,
		Err:       err,
	})
}

// RegisterObserver adds fn under id, replacing any prior registration.
// UnregisterObserver removes it
func (s *Session) RegisterObserver(id string, fn Observer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if fn == nil {
		delete(s.observers, id)
		return
	}
	s.observers[id] = fn
}

// UnregisterObserver drops the observer registered under id
func (s *Session) UnregisterObserver(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.observers, id)
}

func (s *Session) notify(res domain.UpdateResult) {
	s.mu.Lock()
	obs := make([]Observer, 0, len(s.observers))
	for _, fn := range s.observers {
		obs = append(obs, fn)
	}
	s.mu.Unlock()

	for _, fn := range obs {
		func() {
			defer func() {
				if r := recover(); r != nil {
					s.log.Warn().Interface("panic", r).Msg("observer panicked, continuing")
				}
			}()
			fn(res)
		}()
	}
}

// Close stops the dispatcher timer and drops pending announcements
func (s *Session) Close() {
	s.dispatcher.StopTimer()
	s.queue.Clear()
	s.cache.Clear()
}
