// Package module wires the tracker service, its collaborator clients, and
// its HTTP transport together
package module

import (
	"context"
	stdhttp "net/http"

	"guia/internal/adapters/geocode/nominatim"
	"guia/internal/adapters/speech/httptts"
	"guia/internal/adapters/speech/logspeaker"
	phttp "guia/internal/platform/net/http"
	"guia/internal/platform/net/middleware"
	"guia/internal/services/tracker/domain"
	thttp "guia/internal/services/tracker/http"
	tsvc "guia/internal/services/tracker/service"
)

// Module owns the tracker service and knows how to mount it
type Module struct {
	svc *tsvc.Svc
}

// New constructs the module, choosing the speech backend from the options: a
// configured TTS endpoint wins, otherwise utterances go to the log
func New(opts Options) *Module {
	geocoder := nominatim.NewClient(nominatim.Options{
		BaseURL:     opts.GeoBaseURL,
		UserAgent:   opts.GeoUserAgent,
		Email:       opts.GeoEmail,
		Language:    opts.GeoLanguage,
		Timeout:     opts.GeoTimeout,
		MaxRetries:  opts.GeoMaxRetries,
		RetryBase:   opts.GeoRetryBase,
		MinInterval: opts.GeoMinInterval,
	})

	var speaker domain.SpeakerPort = logspeaker.New()
	if opts.Engine == "http" && opts.TTSBaseURL != "" {
		speaker = httptts.New(httptts.Options{
			BaseURL:  opts.TTSBaseURL,
			Token:    opts.TTSToken,
			Voice:    opts.TTSVoice,
			Rate:     opts.TTSRate,
			Language: opts.TTSLanguage,
			Timeout:  opts.TTSTimeout,
		})
	}

	svc := tsvc.New(geocoder, speaker, tsvc.Options{
		Interval:      opts.Interval,
		QueueTTL:      opts.QueueTTL,
		MemoSize:      opts.MemoSize,
		MemoTTL:       opts.MemoTTL,
		POICategories: opts.POICategories,
	})
	return &Module{svc: svc}
}

// Service exposes the service port for callers outside HTTP
func (m *Module) Service() tsvc.Service { return m.svc }

// MountRoutes mounts the tracker API under /v1 with the common middleware
// stack and a health endpoint at the root
func (m *Module) MountRoutes(r phttp.Router) {
	r.Use(middleware.Defaults()...)
	r.Use(middleware.AccessLogZerolog(middleware.AccessLogOptions{}))
	r.Use(middleware.RecoverJSON)

	r.Get("/healthz", phttp.JSONHandlerNoBody(healthz))

	r.Route("/v1", func(v1 phttp.Router) {
		thttp.Register(v1, m.svc)
	})
}

// Run drives session dispatcher timers until ctx ends
func (m *Module) Run(ctx context.Context) error { return m.svc.Run(ctx) }

func healthz(*stdhttp.Request) (any, error) {
	return map[string]string{"status": "ok"}, nil
}
