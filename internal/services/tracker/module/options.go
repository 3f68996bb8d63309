package module

import (
	"time"

	"guia/internal/platform/config"
)

// Options controls tracker behavior plus its collaborator clients
type Options struct {
	// pipeline knobs
	Interval      time.Duration
	QueueTTL      time.Duration
	MemoSize      int
	MemoTTL       time.Duration
	POICategories []string

	// Nominatim client
	GeoBaseURL     string
	GeoUserAgent   string
	GeoEmail       string
	GeoLanguage    string
	GeoTimeout     time.Duration
	GeoMaxRetries  int
	GeoRetryBase   time.Duration
	GeoMinInterval time.Duration

	// speech backend: "log" or "http"
	Engine      string
	TTSBaseURL  string
	TTSToken    string
	TTSVoice    string
	TTSRate     float64
	TTSLanguage string
	TTSTimeout  time.Duration
}

// FromConfig reads TRACKER_*, NOMINATIM_*, and SPEECH_* values from process
// config/env
func FromConfig(cfg config.Conf) Options {
	tc := cfg.Prefix("TRACKER_")
	gc := cfg.Prefix("NOMINATIM_")
	sc := cfg.Prefix("SPEECH_")
	return Options{
		Interval:      tc.MayDuration("INTERVAL", 10*time.Second),
		QueueTTL:      tc.MayDuration("QUEUE_TTL", 2*time.Minute),
		MemoSize:      tc.MayInt("MEMO_SIZE", 512),
		MemoTTL:       tc.MayDuration("MEMO_TTL", 30*time.Minute),
		POICategories: tc.MayCSV("POI_CATEGORIES", nil),

		GeoBaseURL:     gc.MayString("BASE_URL", ""),
		GeoUserAgent:   gc.MayString("UA", "guia-tracker"),
		GeoEmail:       gc.MayString("EMAIL", ""),
		GeoLanguage:    gc.MayString("LANG", "pt-BR"),
		GeoTimeout:     gc.MayDuration("TIMEOUT", 10*time.Second),
		GeoMaxRetries:  gc.MayInt("MAX_RETRIES", 3),
		GeoRetryBase:   gc.MayDuration("RETRY_BASE", 500*time.Millisecond),
		GeoMinInterval: gc.MayDuration("MIN_INTERVAL", time.Second),

		Engine:      sc.MayEnum("ENGINE", "log", "log", "http"),
		TTSBaseURL:  sc.MayString("TTS_BASE_URL", ""),
		TTSToken:    sc.MayString("TTS_TOKEN", ""),
		TTSVoice:    sc.MayString("TTS_VOICE", ""),
		TTSRate:     sc.MayFloat64("TTS_RATE", 0),
		TTSLanguage: sc.MayString("TTS_LANG", "pt-BR"),
		TTSTimeout:  sc.MayDuration("TTS_TIMEOUT", 5*time.Second),
	}
}
