package main

import (
	"fmt"
	"image/png"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

func bindFlags(fs *pflag.FlagSet, cfg *Config) {
	fs.IntVar(&cfg.SampleRate, "sample-rate", cfg.SampleRate, "audio output sample rate")
	fs.IntVar(&cfg.FPS, "fps", cfg.FPS, "target frames per second")
	fs.Float64Var(&cfg.SamplesPerPixel, "zoom", cfg.SamplesPerPixel, "initial zoom in samples per pixel")
	fs.Float64Var(&cfg.PlayMarkerPosition, "play-marker", cfg.PlayMarkerPosition, "position of the playhead as a fraction of the view")
	fs.Float64Var(&cfg.MarkerLength, "marker-length", cfg.MarkerLength, "marker length constant (pixels at one sample per pixel)")
	fs.Float64Var(&cfg.MarkerTolerance, "marker-tolerance", cfg.MarkerTolerance, "marker size drift in pixels tolerated before regeneration")
	fs.StringVar(&cfg.MarkerColor, "marker-color", cfg.MarkerColor, "preroll/postroll marker color")
	fs.StringVar(&cfg.WaveformColor, "waveform-color", cfg.WaveformColor, "waveform color")
	fs.StringVar(&cfg.PlayheadColor, "playhead-color", cfg.PlayheadColor, "playhead and status text color")
	fs.BoolVar(&cfg.Fullscreen, "fullscreen", cfg.Fullscreen, "open a fullscreen window")
	fs.BoolVar(&cfg.Autoplay, "autoplay", cfg.Autoplay, "start playback once the track is loaded")
}

func newMarkerCommand() *cobra.Command {
	cfg := DefaultConfig()
	var (
		out     string
		breadth float64
		dpr     float64
	)
	cmd := &cobra.Command{
		Use:   "marker",
		Short: "Render the roll marker bitmap for a zoom level to a PNG file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.Validate(); err != nil {
				return err
			}
			color, err := ParseColor(cfg.MarkerColor)
			if err != nil {
				return err
			}
			spec := MarkerSpec{
				LengthPixels:     MarkerLength(cfg.MarkerLength, cfg.SamplesPerPixel),
				BreadthPixels:    breadth * markerBreadthRatio,
				DevicePixelRatio: dpr,
				Color:            color,
			}
			bitmap := SynthesizeMarker(spec)
			if bitmap == nil {
				return fmt.Errorf("marker size %.2fx%.2f is degenerate", spec.LengthPixels, spec.BreadthPixels)
			}
			f, err := os.Create(out)
			if err != nil {
				return err
			}
			if err := png.Encode(f, bitmap.Image); err != nil {
				f.Close()
				return err
			}
			logger.Info("marker written", "path", out, "size", bitmap.Image.Bounds().Size())
			return f.Close()
		},
	}
	fs := cmd.Flags()
	fs.Float64Var(&cfg.SamplesPerPixel, "zoom", cfg.SamplesPerPixel, "zoom in samples per pixel")
	fs.Float64Var(&cfg.MarkerLength, "marker-length", cfg.MarkerLength, "marker length constant")
	fs.StringVar(&cfg.MarkerColor, "marker-color", cfg.MarkerColor, "marker color")
	fs.Float64Var(&breadth, "breadth", 100, "viewport breadth in logical pixels")
	fs.Float64Var(&dpr, "dpr", 1, "device pixel ratio")
	fs.StringVarP(&out, "output", "o", "marker.png", "output file")
	return cmd
}

func newRootCommand() *cobra.Command {
	cfg := DefaultConfig()
	cmd := &cobra.Command{
		Use:          "rollmarks [flags] TRACK",
		Short:        "Scrolling waveform player that marks the space before and after a track",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return InitLogger(os.Stderr, cfg.LogLevel)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg.TrackPath = args[0]
			if err := cfg.Validate(); err != nil {
				return err
			}
			return runGui(cfg)
		},
	}
	bindFlags(cmd.Flags(), &cfg)
	cmd.PersistentFlags().StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level (debug, info, warn, error)")
	cmd.AddCommand(newMarkerCommand())
	return cmd
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
