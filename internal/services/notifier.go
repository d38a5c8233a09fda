package services

import (
	"github.com/rs/zerolog"
)

// Notifier is the toast collaborator: it receives human-readable outcome
// messages after each operation. Purely cosmetic; implementations accept a
// string and a severity, nothing more.
type Notifier interface {
	Success(msg string)
	Info(msg string)
	Error(msg string)
}

// LogNotifier renders toasts as structured log events.
type LogNotifier struct {
	log zerolog.Logger
}

func NewLogNotifier(log zerolog.Logger) *LogNotifier {
	return &LogNotifier{
		log: log.With().Str("component", "toast").Logger(),
	}
}

func (n *LogNotifier) Success(msg string) {
	n.log.Info().Str("severity", "success").Msg(msg)
}

func (n *LogNotifier) Info(msg string) {
	n.log.Info().Str("severity", "info").Msg(msg)
}

func (n *LogNotifier) Error(msg string) {
	n.log.Warn().Str("severity", "error").Msg(msg)
}

// NopNotifier discards all toasts. Used in tests.
type NopNotifier struct{}

func (NopNotifier) Success(msg string) {}
func (NopNotifier) Info(msg string)    {}
func (NopNotifier) Error(msg string)   {}
