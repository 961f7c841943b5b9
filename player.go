package main

import (
	"encoding/binary"
	"errors"
	"io"
	"math"
	"sync"
	"sync/atomic"

	"github.com/ebitengine/oto/v3"
)

const bytesPerFrame = trackChannels * 4

// trackReader streams a Track as float32 little endian PCM. oto calls
// Read on its own goroutine while seeks arrive from the render thread,
// so Read and Seek are serialized by mu. offset may be loaded without
// the lock.
type trackReader struct {
	track  *Track
	mu     sync.Mutex
	offset atomic.Int64
}

func newTrackReader(track *Track) *trackReader {
	return &trackReader{track: track}
}

func (tr *trackReader) size() int64 {
	return int64(len(tr.track.Samples)) * 4
}

func (tr *trackReader) Read(p []byte) (int, error) {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	off := tr.offset.Load()
	end := tr.size()
	if off >= end {
		return 0, io.EOF
	}
	// only hand out whole samples
	n := len(p) / 4 * 4
	if remaining := end - off; int64(n) > remaining {
		n = int(remaining)
	}
	first := off / 4
	for i := 0; i < n; i += 4 {
		bits := math.Float32bits(tr.track.Samples[first+int64(i/4)])
		binary.LittleEndian.PutUint32(p[i:], bits)
	}
	tr.offset.Store(off + int64(n))
	return n, nil
}

func (tr *trackReader) Seek(offset int64, whence int) (int64, error) {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	var abs int64
	switch whence {
	case io.SeekStart:
		abs = offset
	case io.SeekCurrent:
		abs = tr.offset.Load() + offset
	case io.SeekEnd:
		abs = tr.size() + offset
	default:
		return 0, errors.New("trackReader.Seek: invalid whence")
	}
	if abs < 0 {
		return 0, errors.New("trackReader.Seek: negative position")
	}
	abs -= abs % bytesPerFrame
	tr.offset.Store(abs)
	return abs, nil
}

// Player owns the oto context and plays one track at a time. It is
// the PositionSource the renderers read from.
type Player struct {
	ctx        *oto.Context
	sampleRate int

	mu     sync.Mutex
	track  *Track
	reader *trackReader
	player *oto.Player
}

func NewPlayer(sampleRate int) (*Player, error) {
	opts := &oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: trackChannels,
		Format:       oto.FormatFloat32LE,
		BufferSize:   0,
	}
	ctx, readyChan, err := oto.NewContext(opts)
	if err != nil {
		return nil, err
	}
	<-readyChan
	return &Player{
		ctx:        ctx,
		sampleRate: sampleRate,
	}, nil
}

func (p *Player) SampleRate() int {
	return p.sampleRate
}

// Load replaces the current track. Playback is paused.
func (p *Player) Load(track *Track) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.closePlayerLocked(); err != nil {
		return err
	}
	p.track = track
	p.reader = newTrackReader(track)
	p.player = p.ctx.NewPlayer(p.reader)
	return nil
}

func (p *Player) Track() *Track {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.track
}

func (p *Player) positionLocked() int64 {
	if p.reader == nil {
		return 0
	}
	bytes := p.reader.offset.Load() - int64(p.player.BufferedSize())
	frame := bytes / bytesPerFrame
	return max(0, min(frame, p.track.Frames))
}

func (p *Player) Snapshot() PlaybackState {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.track == nil {
		return PlaybackState{}
	}
	return PlaybackState{
		Total:   p.track.Frames,
		Current: p.positionLocked(),
		Loaded:  true,
	}
}

func (p *Player) IsPlaying() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.player != nil && p.player.IsPlaying()
}

func (p *Player) Toggle() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.player == nil {
		return
	}
	if p.player.IsPlaying() {
		p.player.Pause()
		return
	}
	p.playLocked()
}

// Play starts playback, rewinding first if the track has ended.
func (p *Player) Play() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.playLocked()
}

func (p *Player) playLocked() {
	if p.player == nil {
		return
	}
	if p.positionLocked() >= p.track.Frames {
		if err := p.seekLocked(0); err != nil {
			logger.Warn("rewind failed", "error", err)
		}
	}
	p.player.Play()
}

func (p *Player) Pause() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.player != nil {
		p.player.Pause()
	}
}

func (p *Player) seekLocked(frame int64) error {
	frame = max(0, min(frame, p.track.Frames))
	_, err := p.player.Seek(frame*bytesPerFrame, io.SeekStart)
	return err
}

// SeekTo moves the play position to frame, clamped to the track.
func (p *Player) SeekTo(frame int64) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.player == nil {
		return nil
	}
	return p.seekLocked(frame)
}

// SeekBy moves the play position by delta frames.
func (p *Player) SeekBy(delta int64) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.player == nil {
		return nil
	}
	return p.seekLocked(p.positionLocked() + delta)
}

func (p *Player) closePlayerLocked() error {
	if p.player == nil {
		return nil
	}
	err := p.player.Close()
	p.player = nil
	p.reader = nil
	p.track = nil
	return err
}

func (p *Player) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.closePlayerLocked()
}
