// Package events defines the fire-and-forget event sink the sync engine
// reports to. The engine depends only on Sink; where events end up is the
// implementation's concern.
package events

import (
	"go.uber.org/zap"
)

// Sink receives structured info, warning and error events.
// Implementations must not block the caller and never return errors.
type Sink interface {
	Info(msg string, fields ...zap.Field)
	Warn(msg string, fields ...zap.Field)
	Error(msg string, fields ...zap.Field)
}

// ZapSink writes events through a zap logger.
type ZapSink struct {
	logger *zap.Logger
}

// NewZapSink wraps l. Events are tagged with event=true so they can be
// filtered out of regular request logs.
func NewZapSink(l *zap.Logger) *ZapSink {
	if l == nil {
		l = zap.NewNop()
	}
	return &ZapSink{logger: l.With(zap.Bool("event", true))}
}

func (s *ZapSink) Info(msg string, fields ...zap.Field)  { s.logger.Info(msg, fields...) }
func (s *ZapSink) Warn(msg string, fields ...zap.Field)  { s.logger.Warn(msg, fields...) }
func (s *ZapSink) Error(msg string, fields ...zap.Field) { s.logger.Error(msg, fields...) }

// Nop discards every event.
type Nop struct{}

func (Nop) Info(string, ...zap.Field)  {}
func (Nop) Warn(string, ...zap.Field)  {}
func (Nop) Error(string, ...zap.Field) {}
