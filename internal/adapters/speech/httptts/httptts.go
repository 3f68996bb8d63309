// Package httptts forwards utterances to an external text-to-speech service
// over HTTP. The endpoint owns playback serialization and voice selection
package httptts

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	perr "guia/internal/platform/errors"
	"guia/internal/platform/logger"
	pstrings "guia/internal/platform/strings"
)

const (
	defaultTimeout  = 5 * time.Second
	defaultLanguage = "pt-BR"
)

// Options configures the Speaker
type Options struct {
	// BaseURL is required; utterances POST to BaseURL + "/speak"
	BaseURL string

	// Token, when set, is sent as a bearer credential
	Token string

	// Voice and Rate select the synthesizer voice; zero values let the
	// endpoint choose
	Voice string
	Rate  float64

	// Language tags every utterance
	Language string

	Timeout time.Duration
}

// Speaker posts utterances to a TTS webhook
type Speaker struct {
	http *http.Client
	opts Options
	log  logger.Logger
}

type utterance struct {
	Text     string  `json:"text"`
	Language string  `json:"language"`
	Voice    string  `json:"voice,omitempty"`
	Rate     float64 `json:"rate,omitempty"`
}

// New creates a Speaker. Panics on a missing base URL since a speaker with
// nowhere to send audio is a wiring mistake, not a runtime condition
func New(o Options) *Speaker {
	o.BaseURL = pstrings.MustString(o.BaseURL, "tts base url")
	if o.Language == "" {
		o.Language = defaultLanguage
	}
	if o.Timeout <= 0 {
		o.Timeout = defaultTimeout
	}
	return &Speaker{
		http: &http.Client{Timeout: o.Timeout},
		opts: o,
		log:  *logger.Named("httptts"),
	}
}

// Speak posts one utterance and treats any non-2xx reply as a speech error.
// Callers are expected to log-and-continue; a broken TTS backend must never
// stall the announcement pipeline
func (s *Speaker) Speak(ctx context.Context, text string) error {
	body, err := json.Marshal(utterance{
		Text:     text,
		Language: s.opts.Language,
		Voice:    s.opts.Voice,
		Rate:     s.opts.Rate,
	})
	if err != nil {
		return perr.Wrapf(err, perr.ErrorCodeSpeech, "tts marshal failed")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.opts.BaseURL+"/speak", bytes.NewReader(body))
	if err != nil {
		return perr.Wrapf(err, perr.ErrorCodeSpeech, "tts new request failed")
	}
	req.Header.Set("Content-Type", "application/json")
	if s.opts.Token != "" {
		req.Header.Set("Authorization", "Bearer "+s.opts.Token)
	}

	resp, err := s.http.Do(req)
	if err != nil {
		return perr.Wrapf(err, perr.ErrorCodeSpeech, "tts do failed")
	}
	defer func() {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<16))
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		tail, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return perr.Speechf("tts status %d body %s", resp.StatusCode, string(tail))
	}
	s.log.Debug().Str("text", text).Msg("utterance delivered")
	return nil
}
