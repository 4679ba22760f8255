package recorder

// NoopRecorder is a no-op implementation used when SQLite is not configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordKick(_ *KickEvent) error            { return nil }
func (n *NoopRecorder) RecordRound(_ *RoundEvent) error          { return nil }
func (n *NoopRecorder) RecordStats(_ *StatsEvent) error          { return nil }
func (n *NoopRecorder) RecentRounds(_ int) ([]RoundEvent, error) { return nil, nil }
func (n *NoopRecorder) Close() error                             { return nil }
