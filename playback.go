package main

// PlaybackState is a consistent snapshot of what the playback engine
// last published. Positions are in sample frames.
type PlaybackState struct {
	Total   int64
	Current int64
	Loaded  bool
}

func (ps PlaybackState) PlayPosition() int64  { return ps.Current }
func (ps PlaybackState) TotalSamples() int64  { return ps.Total }
func (ps PlaybackState) HasTrackLoaded() bool { return ps.Loaded && ps.Total > 0 }

// PositionSource is implemented by anything that can publish playback
// state. Snapshot must not block and must never return a torn value.
type PositionSource interface {
	Snapshot() PlaybackState
}

// StaticPosition is a PositionSource that always reports the same
// state.
type StaticPosition PlaybackState

func (sp StaticPosition) Snapshot() PlaybackState {
	return PlaybackState(sp)
}
