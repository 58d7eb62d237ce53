package state

import "github.com/rs/zerolog/log"

// Notifier receives the transient user-facing messages the state
// manager emits: save confirmations, quantity bumps, warnings,
// failures. The presentation layer decides how to surface them.
type Notifier interface {
	Success(msg string)
	Info(msg string)
	Warn(msg string)
	Error(msg string)
}

// LogNotifier is the default sink; it writes notifications to the
// application log.
type LogNotifier struct{}

func (LogNotifier) Success(msg string) { log.Info().Str("notice", "success").Msg(msg) }
func (LogNotifier) Info(msg string)    { log.Info().Str("notice", "info").Msg(msg) }
func (LogNotifier) Warn(msg string)    { log.Warn().Str("notice", "warn").Msg(msg) }
func (LogNotifier) Error(msg string)   { log.Error().Str("notice", "error").Msg(msg) }
