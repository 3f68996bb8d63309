package service

import (
	"context"
	"sync"
	"time"

	"guia/internal/adapters/ibge"
	"guia/internal/core/address"
	"guia/internal/core/change"
	perr "guia/internal/platform/errors"
	"guia/internal/platform/logger"
	"guia/internal/services/tracker/domain"
)

// Service is the public service port
type Service interface{ domain.ServicePort }

// Options control service behavior
type Options struct {
	// Interval is the dispatcher tick; zero means the 10s default
	Interval time.Duration

	// QueueTTL bounds how long an undelivered announcement stays relevant
	QueueTTL time.Duration

	// MemoSize and MemoTTL bound the per-session normalization memo
	MemoSize int
	MemoTTL  time.Duration

	// POICategories overrides the point-of-interest allow-list
	POICategories []string
}

// Svc implements the service port. One Svc per process; sessions are created
// and torn down through it
type Svc struct {
	geocoder domain.GeocoderPort
	speaker  domain.SpeakerPort
	norm     *address.Normalizer
	opts     Options
	log      logger.Logger

	mu       sync.Mutex
	ctx      context.Context
	sessions map[string]*Session
}

// New constructs the service
func New(geocoder domain.GeocoderPort, speaker domain.SpeakerPort, opts Options) *Svc {
	if geocoder == nil {
		panic("tracker.Service requires a non nil GeocoderPort")
	}
	if speaker == nil {
		panic("tracker.Service requires a non nil SpeakerPort")
	}
	return &Svc{
		geocoder: geocoder,
		speaker:  speaker,
		norm:     address.NewWithOptions(address.Options{POICategories: opts.POICategories}),
		opts:     opts,
		log:      *logger.Named("tracker"),
		sessions: map[string]*Session{},
	}
}

// Run parks the service until ctx ends, then closes every live session.
// Sessions created before Run start their dispatcher timers here; sessions
// created after start them immediately
func (s *Svc) Run(ctx context.Context) error {
	s.mu.Lock()
	s.ctx = ctx
	for _, sess := range s.sessions {
		sess.dispatcher.Start(ctx)
	}
	s.mu.Unlock()

	<-ctx.Done()

	s.mu.Lock()
	for id, sess := range s.sessions {
		sess.Close()
		delete(s.sessions, id)
	}
	s.mu.Unlock()
	return ctx.Err()
}

// CreateSession starts a fresh tracking session with its own cache,
// detectors, queue, and dispatcher timer
func (s *Svc) CreateSession(_ context.Context) (domain.SessionInfo, error) {
	sess := newSession(s.norm, s.speaker, s.opts)

	s.mu.Lock()
	s.sessions[sess.info.ID] = sess
	if s.ctx != nil {
		sess.dispatcher.Start(s.ctx)
	}
	s.mu.Unlock()

	s.log.Info().Str("session_id", sess.info.ID).Msg("session created")
	return sess.info, nil
}

// DeleteSession tears a session down, stopping its timer and dropping its
// pending announcements
func (s *Svc) DeleteSession(_ context.Context, id string) error {
	s.mu.Lock()
	sess, ok := s.sessions[id]
	delete(s.sessions, id)
	s.mu.Unlock()

	if !ok {
		return perr.Newf(perr.ErrorCodeNotFound, "unknown session %q", id)
	}
	sess.Close()
	s.log.Info().Str("session_id", id).Msg("session deleted")
	return nil
}

func (s *Svc) session(id string) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, perr.Newf(perr.ErrorCodeNotFound, "unknown session %q", id)
	}
	return sess, nil
}

// ProcessPosition reverse-geocodes the coordinate and runs the update
// pipeline on the result
func (s *Svc) ProcessPosition(ctx context.Context, id string, in domain.PositionInput, immediate bool) (domain.UpdateResult, error) {
	sess, err := s.session(id)
	if err != nil {
		return domain.UpdateResult{}, err
	}

	raw, err := s.geocoder.Reverse(ctx, in.Latitude, in.Longitude)
	if err != nil {
		werr := perr.Wrapf(err, perr.ErrorCodeGeocode, "reverse geocode failed")
		sess.Fail(domain.EventError, werr)
		return domain.UpdateResult{}, werr
	}
	return sess.Process(raw, domain.EventPosition, immediate), nil
}

// ProcessAddress pushes a raw geocoder payload directly, skipping the
// geocoding call
func (s *Svc) ProcessAddress(_ context.Context, id string, in domain.AddressInput, immediate bool) (domain.UpdateResult, error) {
	sess, err := s.session(id)
	if err != nil {
		return domain.UpdateResult{}, err
	}
	raw := in.Raw
	if in.CEP != "" {
		// validated CEP wins over whatever postcode the payload carries
		if addr, ok := raw["address"].(map[string]any); ok {
			addr["postcode"] = in.CEP
		} else {
			raw["postcode"] = in.CEP
		}
	}
	return sess.Process(raw, domain.EventAddress, immediate), nil
}

// AddressState returns the session's cached previous/current pair plus IBGE
// links for the current municipality when resolvable
func (s *Svc) AddressState(_ context.Context, id string) (domain.AddressState, error) {
	sess, err := s.session(id)
	if err != nil {
		return domain.AddressState{}, err
	}
	prev, cur := sess.cache.Pair()
	st := domain.AddressState{Previous: prev, Current: cur}
	if cur != nil {
		if uf := cur.StateAbbreviation.Str(); uf != "" {
			st.Links = &domain.MunicipalityLinks{
				Panorama:       ibge.PanoramaURL(cur.Municipality.Str(), uf),
				StateAPI:       ibge.StateAPIURL(uf),
				Municipalities: ibge.MunicipalitiesAPIURL(uf),
			}
		}
	}
	return st, nil
}

// Changes returns non-consuming change details for every tracked field
func (s *Svc) Changes(_ context.Context, id string) ([]change.Details, error) {
	sess, err := s.session(id)
	if err != nil {
		return nil, err
	}
	out := make([]change.Details, 0, len(change.TrackedFields))
	for _, f := range change.TrackedFields {
		out = append(out, sess.detector.ChangeDetails(f))
	}
	return out, nil
}

// Queue returns the session's pending announcements
func (s *Svc) Queue(_ context.Context, id string) (domain.QueueState, error) {
	sess, err := s.session(id)
	if err != nil {
		return domain.QueueState{}, err
	}
	items := sess.queue.Snapshot()
	return domain.QueueState{SessionID: id, Size: len(items), Items: items}, nil
}
