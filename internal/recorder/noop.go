package recorder

import "SMCSentinel/internal/model"

// NoopRecorder is a no-op implementation used when SQLite is not configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordReport(_ *model.Report) (string, error)    { return "", nil }
func (n *NoopRecorder) LastSignals() (map[string]model.Signal, error) { return map[string]model.Signal{}, nil }
func (n *NoopRecorder) Close() error                                  { return nil }
