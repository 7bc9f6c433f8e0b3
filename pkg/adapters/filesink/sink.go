// Package filesink provides a file-based debug sink implementation.
package filesink

import (
	"path/filepath"

	"github.com/user/forecastbot/pkg/ports"
)

// Sink writes debug artifacts under a per-run directory.
type Sink struct {
	baseDir string
	fs      ports.FileSystem
}

// New creates a sink rooted at baseDir, typically <debug-dir>/<run-id>.
func New(baseDir string, fs ports.FileSystem) *Sink {
	return &Sink{
		baseDir: baseDir,
		fs:      fs,
	}
}

// Dir returns the directory artifacts are written to.
func (s *Sink) Dir() string {
	return s.baseDir
}

// Enabled returns true as this sink saves output.
func (s *Sink) Enabled() bool {
	return true
}

// SaveImage writes <name>.png.
func (s *Sink) SaveImage(name string, data []byte) error {
	return s.fs.WriteFile(filepath.Join(s.baseDir, name+".png"), data)
}

// SaveJSON writes <name>.json.
func (s *Sink) SaveJSON(name string, data []byte) error {
	return s.fs.WriteFile(filepath.Join(s.baseDir, name+".json"), data)
}

// SaveText writes name as given.
func (s *Sink) SaveText(name string, data []byte) error {
	return s.fs.WriteFile(filepath.Join(s.baseDir, name), data)
}

// Ensure Sink implements ports.DebugSink
var _ ports.DebugSink = (*Sink)(nil)
