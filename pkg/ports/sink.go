package ports

// DebugSink stores intermediate artifacts of a run for inspection.
type DebugSink interface {
	// Enabled returns true if debug output is enabled.
	Enabled() bool

	// SaveImage saves a PNG artifact, e.g. "twitter-capture".
	SaveImage(name string, data []byte) error

	// SaveJSON saves a JSON artifact, e.g. "twitter-fit".
	SaveJSON(name string, data []byte) error

	// SaveText saves a plain text artifact such as the run summary.
	SaveText(name string, data []byte) error
}
