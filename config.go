package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mitchellh/go-homedir"
	"golang.org/x/image/colornames"
)

type Config struct {
	TrackPath          string
	LogLevel           string
	SampleRate         int
	FPS                int
	SamplesPerPixel    float64
	PlayMarkerPosition float64
	MarkerLength       float64
	MarkerTolerance    float64
	MarkerColor        string
	WaveformColor      string
	PlayheadColor      string
	Fullscreen         bool
	Autoplay           bool
}

func DefaultConfig() Config {
	return Config{
		LogLevel:           "info",
		SampleRate:         44100,
		FPS:                60,
		SamplesPerPixel:    defaultSamplesPerPixel,
		PlayMarkerPosition: 0.5,
		MarkerLength:       DefaultMarkerLengthConstant,
		MarkerTolerance:    DefaultMarkerTolerance,
		MarkerColor:        "#c8c8c8b0",
		WaveformColor:      "steelblue",
		PlayheadColor:      "white",
	}
}

func (c Config) Validate() error {
	var errs []error
	if c.SampleRate <= 0 {
		errs = append(errs, fmt.Errorf("sample rate must be positive, got %d", c.SampleRate))
	}
	if c.FPS <= 0 {
		errs = append(errs, fmt.Errorf("fps must be positive, got %d", c.FPS))
	}
	if c.SamplesPerPixel <= 0 {
		errs = append(errs, fmt.Errorf("zoom must be positive, got %v", c.SamplesPerPixel))
	}
	if c.PlayMarkerPosition < 0 || c.PlayMarkerPosition > 1 {
		errs = append(errs, fmt.Errorf("play marker position must be within [0,1], got %v", c.PlayMarkerPosition))
	}
	if c.MarkerLength <= 0 {
		errs = append(errs, fmt.Errorf("marker length must be positive, got %v", c.MarkerLength))
	}
	if c.MarkerTolerance < 0 {
		errs = append(errs, fmt.Errorf("marker tolerance must not be negative, got %v", c.MarkerTolerance))
	}
	for _, s := range []string{c.MarkerColor, c.WaveformColor, c.PlayheadColor} {
		if _, err := ParseColor(s); err != nil {
			errs = append(errs, err)
		}
	}
	if _, err := ResolveLogLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// ResolvedTrackPath expands a leading ~ in the track path.
func (c Config) ResolvedTrackPath() (string, error) {
	return homedir.Expand(c.TrackPath)
}

func (c Config) RollMarkConfig() (RollMarkConfig, error) {
	color, err := ParseColor(c.MarkerColor)
	if err != nil {
		return RollMarkConfig{}, err
	}
	return RollMarkConfig{
		LengthConstant: c.MarkerLength,
		Tolerance:      c.MarkerTolerance,
		Color:          color,
	}, nil
}

// ParseColor accepts #rgb, #rrggbb, #rrggbbaa or an SVG colour name.
func ParseColor(s string) (Color, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "#") {
		if c, ok := colornames.Map[strings.ToLower(s)]; ok {
			return Color{R: c.R, G: c.G, B: c.B, A: c.A}, nil
		}
		return Color{}, fmt.Errorf("unknown color: %q", s)
	}
	hex := s[1:]
	var r, g, b uint8
	a := uint8(0xff)
	var err error
	switch len(hex) {
	case 3:
		_, err = fmt.Sscanf(hex, "%1x%1x%1x", &r, &g, &b)
		r, g, b = r*0x11, g*0x11, b*0x11
	case 6:
		_, err = fmt.Sscanf(hex, "%02x%02x%02x", &r, &g, &b)
	case 8:
		_, err = fmt.Sscanf(hex, "%02x%02x%02x%02x", &r, &g, &b, &a)
	default:
		err = errors.New("wrong length")
	}
	if err != nil {
		return Color{}, fmt.Errorf("invalid color %q: %v", s, err)
	}
	return Color{R: r, G: g, B: b, A: a}, nil
}
