package mocks

import (
	"sync"

	"github.com/user/forecastbot/pkg/ports"
)

// DebugSink is a mock implementation of ports.DebugSink.
type DebugSink struct {
	mu sync.RWMutex

	enabled bool

	Images map[string][]byte
	JSON   map[string][]byte
	Texts  map[string][]byte

	SaveJSONFunc func(name string, data []byte) error
}

// NewDebugSink creates a new mock DebugSink.
func NewDebugSink(enabled bool) *DebugSink {
	return &DebugSink{
		enabled: enabled,
		Images:  make(map[string][]byte),
		JSON:    make(map[string][]byte),
		Texts:   make(map[string][]byte),
	}
}

func (m *DebugSink) Enabled() bool {
	return m.enabled
}

func (m *DebugSink) SaveImage(name string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Images[name] = data
	return nil
}

func (m *DebugSink) SaveJSON(name string, data []byte) error {
	if m.SaveJSONFunc != nil {
		return m.SaveJSONFunc(name, data)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.JSON[name] = data
	return nil
}

func (m *DebugSink) SaveText(name string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Texts[name] = data
	return nil
}

var _ ports.DebugSink = (*DebugSink)(nil)
