// Package nullsink provides a debug sink that discards everything.
package nullsink

import "github.com/user/forecastbot/pkg/ports"

// Sink is a no-op implementation of ports.DebugSink, used when --debug is off.
type Sink struct{}

// New creates a new NullSink.
func New() *Sink {
	return &Sink{}
}

// Enabled returns false as this sink discards all output.
func (s *Sink) Enabled() bool { return false }

func (s *Sink) SaveImage(name string, data []byte) error { return nil }
func (s *Sink) SaveJSON(name string, data []byte) error  { return nil }
func (s *Sink) SaveText(name string, data []byte) error  { return nil }

// Ensure Sink implements ports.DebugSink
var _ ports.DebugSink = (*Sink)(nil)
