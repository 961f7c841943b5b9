package main

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/dh1tw/gosamplerate"
	"github.com/go-audio/wav"
	"github.com/hajimehoshi/go-mp3"
)

const (
	trackChannels = 2
	wavFormatPCM  = 1
)

var ErrUnsupportedFormat = errors.New("unsupported audio format")

// Track is a fully decoded audio file, interleaved stereo at the
// output sample rate.
type Track struct {
	Path       string
	SampleRate int
	Frames     int64
	Samples    []Smp
}

func (t *Track) String() string {
	return fmt.Sprintf("Track(%s frames=%d sr=%d)", filepath.Base(t.Path), t.Frames, t.SampleRate)
}

// Peaks returns the minimum and maximum of the mono mix over frames
// [start, end). ok is false when the range does not touch the track.
func (t *Track) Peaks(start, end int64) (lo, hi Smp, ok bool) {
	if start < 0 {
		start = 0
	}
	if end > t.Frames {
		end = t.Frames
	}
	if start >= end {
		return 0, 0, false
	}
	lo, hi = 1, -1
	for f := start; f < end; f++ {
		i := f * trackChannels
		v := (t.Samples[i] + t.Samples[i+1]) / 2
		lo = min(lo, v)
		hi = max(hi, v)
	}
	return lo, hi, true
}

// LoadTrack decodes a WAV or MP3 file and converts it to stereo at
// outputRate.
func LoadTrack(path string, outputRate int) (*Track, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var samples []Smp
	var channels, rate int
	switch strings.ToLower(filepath.Ext(path)) {
	case ".wav", ".wave":
		samples, channels, rate, err = decodeWAV(f)
	case ".mp3":
		samples, channels, rate, err = decodeMP3(f)
	default:
		err = fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path))
	}
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	samples = toStereo(samples, channels)
	if rate != outputRate && outputRate > 0 {
		samples, err = resample(samples, rate, outputRate)
		if err != nil {
			return nil, fmt.Errorf("resample %s: %w", path, err)
		}
		rate = outputRate
	}
	return &Track{
		Path:       path,
		SampleRate: rate,
		Frames:     int64(len(samples) / trackChannels),
		Samples:    samples,
	}, nil
}

func decodeWAV(r io.ReadSeeker) ([]Smp, int, int, error) {
	d := wav.NewDecoder(r)
	if !d.IsValidFile() {
		return nil, 0, 0, fmt.Errorf("%w: not a WAV file", ErrUnsupportedFormat)
	}
	if d.WavAudioFormat != wavFormatPCM {
		return nil, 0, 0, fmt.Errorf("%w: WAV format %d", ErrUnsupportedFormat, d.WavAudioFormat)
	}
	buf, err := d.FullPCMBuffer()
	if err != nil {
		return nil, 0, 0, err
	}
	bitDepth := int(d.BitDepth)
	if bitDepth < 8 || bitDepth > 32 {
		return nil, 0, 0, fmt.Errorf("%w: bit depth %d", ErrUnsupportedFormat, bitDepth)
	}
	scale := Smp(int64(1) << (bitDepth - 1))
	samples := make([]Smp, len(buf.Data))
	for i, v := range buf.Data {
		if bitDepth == 8 {
			// 8-bit WAV is unsigned
			v -= 128
		}
		samples[i] = Smp(v) / scale
	}
	return samples, int(d.NumChans), int(d.SampleRate), nil
}

func decodeMP3(r io.Reader) ([]Smp, int, int, error) {
	d, err := mp3.NewDecoder(r)
	if err != nil {
		return nil, 0, 0, err
	}
	data, err := io.ReadAll(d)
	if err != nil {
		return nil, 0, 0, err
	}
	// go-mp3 always yields 16-bit little endian stereo
	samples := make([]Smp, len(data)/2)
	for i := range samples {
		samples[i] = Smp(int16(binary.LittleEndian.Uint16(data[2*i:]))) / 32768
	}
	return samples, 2, d.SampleRate(), nil
}

func toStereo(samples []Smp, channels int) []Smp {
	switch {
	case channels == trackChannels:
		return samples
	case channels <= 0:
		return nil
	}
	frames := len(samples) / channels
	out := make([]Smp, frames*trackChannels)
	for f := range frames {
		in := samples[f*channels:]
		if channels == 1 {
			out[f*2] = in[0]
			out[f*2+1] = in[0]
		} else {
			out[f*2] = in[0]
			out[f*2+1] = in[1]
		}
	}
	return out
}

func resample(samples []Smp, fromRate, toRate int) ([]Smp, error) {
	if fromRate <= 0 {
		return nil, fmt.Errorf("invalid source sample rate %d", fromRate)
	}
	ratio := float64(toRate) / float64(fromRate)
	return gosamplerate.Simple(samples, ratio, trackChannels, gosamplerate.SRC_SINC_MEDIUM_QUALITY)
}

// FormatPosition renders a frame position as m:ss.mmm.
func FormatPosition(frames int64, sampleRate int) string {
	if sampleRate <= 0 {
		return "-:--.---"
	}
	sign := ""
	if frames < 0 {
		sign = "-"
		frames = -frames
	}
	ms := frames * 1000 / int64(sampleRate)
	return fmt.Sprintf("%s%d:%02d.%03d", sign, ms/60000, (ms/1000)%60, ms%1000)
}
