package aochat

import (
	"io"

	"github.com/sirupsen/logrus"

	"aochat/internal/metrics"
)

// Option customizes Open. Unset options fall back to package defaults, so
// callers only specify what they need to override.
type Option func(*Session)

// WithLogger attaches a *logrus.Logger for connection lifecycle, handshake,
// and pump logging. The default is logrus.StandardLogger().
func WithLogger(l *logrus.Logger) Option {
	return func(s *Session) {
		s.log = l.WithField("component", "aochat")
	}
}

// WithMetrics attaches a Prometheus collector. A nil Collector (the
// default) disables collection entirely.
func WithMetrics(c *metrics.Collector) Option {
	return func(s *Session) {
		s.metrics = c
	}
}

// WithCharacter selects a character by id as part of Open, completing the
// handshake through LoggedIn before Open returns.
func WithCharacter(characterID uint32) Option {
	return func(s *Session) {
		s.pendingCharacter = &characterID
	}
}

// WithRandSource overrides the randomness used for the login-key Diffie-
// Hellman exponent and challenge nonce. Tests pass a deterministic reader
// to reproduce known-answer vectors; production code should leave this
// unset, which defaults to crypto/rand.Reader.
func WithRandSource(r io.Reader) Option {
	return func(s *Session) {
		s.randSource = r
	}
}
