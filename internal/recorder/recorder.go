package recorder

import "SMCSentinel/internal/model"

// Recorder persists analysis history.
type Recorder interface {
	// RecordReport stores one report and the zones it carries. It returns the snapshot id.
	RecordReport(r *model.Report) (string, error)
	// LastSignals returns the most recent recorded signal per symbol.
	LastSignals() (map[string]model.Signal, error)
	Close() error
}
