// Package logspeaker is a speaker backend that writes utterances to the log.
// Useful for headless deployments and as the default when no TTS endpoint is
// configured
package logspeaker

import (
	"context"

	"guia/internal/platform/logger"
)

// Speaker logs every utterance at info level
type Speaker struct {
	log logger.Logger
}

// New returns a log-backed speaker
func New() *Speaker {
	return &Speaker{log: *logger.Named("speaker")}
}

// Speak never fails; a log write is the whole playback
func (s *Speaker) Speak(_ context.Context, text string) error {
	s.log.Info().Str("text", text).Msg("speak")
	return nil
}
