package main

import (
	"fmt"
	"path/filepath"

	"github.com/atotto/clipboard"
	"github.com/go-gl/glfw/v3.3/glfw"
)

// Event is the type of callback functions sent to the app's events channel
type Event func()

const (
	seekSmallSeconds = 1
	seekLargeSeconds = 10
)

type App struct {
	cfg          Config
	shouldExit   bool
	player       *Player
	viewport     *Viewport
	waveform     *WaveformDisplay
	rollStage    *RollDrawStage
	roll         *RollRenderer
	status       *StatusLine
	keymap       KeyMap
	events       chan Event
	lastError    error
	loading      bool
	contentScale float64
	lastZones    RollZones
}

func CreateApp(cfg Config) *App {
	return &App{
		cfg:          cfg,
		viewport:     NewViewport(cfg.SamplesPerPixel, cfg.PlayMarkerPosition),
		events:       make(chan Event, 64),
		contentScale: 1,
	}
}

func runGui(cfg Config) error {
	app := CreateApp(cfg)
	opts := WindowOptions{
		Title:      fmt.Sprintf("rollmarks : %s", filepath.Base(cfg.TrackPath)),
		FPS:        cfg.FPS,
		Fullscreen: cfg.Fullscreen,
	}
	return WithGL(opts, app)
}

func (app *App) SetLastError(err error) {
	app.lastError = err
}

func (app *App) ClearLastError() {
	app.lastError = nil
}

func (app *App) postEvent(ev Event) {
	app.events <- ev
}

func (app *App) Init() error {
	player, err := NewPlayer(app.cfg.SampleRate)
	if err != nil {
		return fmt.Errorf("audio output: %w", err)
	}
	app.player = player

	waveColor, err := ParseColor(app.cfg.WaveformColor)
	if err != nil {
		return err
	}
	playheadColor, err := ParseColor(app.cfg.PlayheadColor)
	if err != nil {
		return err
	}
	rollCfg, err := app.cfg.RollMarkConfig()
	if err != nil {
		return err
	}
	if app.waveform, err = CreateWaveformDisplay(waveColor, playheadColor); err != nil {
		return err
	}
	if app.roll, app.rollStage, err = CreateRollRenderer(rollCfg); err != nil {
		return err
	}
	if app.status, err = CreateStatusLine(playheadColor); err != nil {
		return err
	}
	app.keymap = app.createKeyMap()
	app.loadTrack()
	return nil
}

func (app *App) createKeyMap() KeyMap {
	km := CreateKeyMap()
	km.Bind("Space", func() {
		app.player.Toggle()
	})
	seek := func(seconds int) func() {
		return func() {
			if err := app.player.SeekBy(int64(seconds * app.player.SampleRate())); err != nil {
				app.SetLastError(err)
			}
		}
	}
	km.BindRepeat("Left", seek(-seekSmallSeconds))
	km.BindRepeat("Right", seek(seekSmallSeconds))
	km.BindRepeat("S-Left", seek(-seekLargeSeconds))
	km.BindRepeat("S-Right", seek(seekLargeSeconds))
	km.Bind("Home", func() {
		if err := app.player.SeekTo(0); err != nil {
			app.SetLastError(err)
		}
	})
	km.Bind("End", func() {
		if err := app.player.SeekTo(app.player.Snapshot().TotalSamples()); err != nil {
			app.SetLastError(err)
		}
	})
	km.BindRepeat("=", app.viewport.ZoomIn)
	km.BindRepeat("S-=", app.viewport.ZoomIn)
	km.BindRepeat("-", app.viewport.ZoomOut)
	km.Bind("0", app.viewport.ResetZoom)
	km.Bind("M-w", app.copyPosition)
	km.Bind("C-q", app.Quit)
	km.Bind("Escape", app.Quit)
	return km
}

// loadTrack decodes the configured track in the background and hands
// it to the player on the main thread.
func (app *App) loadTrack() {
	path, err := app.cfg.ResolvedTrackPath()
	if err != nil {
		app.SetLastError(err)
		return
	}
	app.loading = true
	sampleRate := app.player.SampleRate()
	go func() {
		track, err := LoadTrack(path, sampleRate)
		app.postEvent(func() {
			app.loading = false
			if err != nil {
				logger.Error("track load failed", "path", path, "error", err)
				app.SetLastError(err)
				return
			}
			logger.Info("track loaded", "track", track)
			if err := app.player.Load(track); err != nil {
				app.SetLastError(err)
				return
			}
			if app.cfg.Autoplay {
				app.player.Play()
			}
		})
	}()
}

func (app *App) copyPosition() {
	ps := app.player.Snapshot()
	if !ps.HasTrackLoaded() {
		return
	}
	pos := FormatPosition(ps.PlayPosition(), app.player.SampleRate())
	if err := clipboard.WriteAll(pos); err != nil {
		app.SetLastError(err)
	}
}

func (app *App) IsRunning() bool {
	return !app.shouldExit
}

func (app *App) Quit() {
	app.shouldExit = true
}

func keyName(key glfw.Key, scancode int) string {
	switch key {
	case glfw.KeySpace:
		return "Space"
	case glfw.KeyEscape:
		return "Escape"
	case glfw.KeyRight:
		return "Right"
	case glfw.KeyLeft:
		return "Left"
	case glfw.KeyHome:
		return "Home"
	case glfw.KeyEnd:
		return "End"
	case glfw.KeyKPAdd:
		return "="
	case glfw.KeyKPSubtract:
		return "-"
	}
	return glfw.GetKeyName(key, scancode)
}

func (app *App) OnKey(key glfw.Key, scancode int, action glfw.Action, modes glfw.ModifierKey) {
	if action != glfw.Press && action != glfw.Repeat {
		return
	}
	name := keyName(key, scancode)
	if name == "" {
		return
	}
	if modes&glfw.ModShift != 0 {
		name = "S-" + name
	}
	if modes&glfw.ModAlt != 0 {
		name = "M-" + name
	}
	if modes&glfw.ModControl != 0 {
		name = "C-" + name
	}
	if app.keymap.HandleKey(name, action == glfw.Repeat) {
		app.ClearLastError()
	}
}

func (app *App) OnFramebufferSize(width, height int) {
	logger.Debug("OnFramebufferSize", "width", width, "height", height)
}

func (app *App) OnContentScale(x, y float32) {
	logger.Debug("OnContentScale", "x", x, "y", y)
	app.contentScale = float64(max(x, y))
	app.viewport.SetDevicePixelRatio(app.contentScale)
}

// layout splits the framebuffer into the waveform area and the status
// line below it.
func (app *App) layout() (waveRect, statusRect Rect) {
	full := Rect{Max: fbSize}
	statusHeight := app.status.Height()
	waveRect = full
	waveRect.Max.Y -= statusHeight
	statusRect = full
	statusRect.Min.Y = waveRect.Max.Y
	return
}

func (app *App) statusText() string {
	if app.lastError != nil {
		return app.lastError.Error()
	}
	if app.loading {
		return "loading " + filepath.Base(app.cfg.TrackPath) + " ..."
	}
	ps := app.player.Snapshot()
	if !ps.HasTrackLoaded() {
		return "no track"
	}
	state := "paused"
	if app.player.IsPlaying() {
		state = "playing"
	}
	sr := app.player.SampleRate()
	return fmt.Sprintf("%s / %s  %s  zoom %.2f spp  markers: %s",
		FormatPosition(ps.PlayPosition(), sr),
		FormatPosition(ps.TotalSamples(), sr),
		state,
		app.viewport.VisualSamplesPerPixel(),
		app.lastZones)
}

func (app *App) Render() error {
	if err := app.status.EnsureScale(app.contentScale); err != nil {
		return err
	}
	waveRect, statusRect := app.layout()
	dpr := app.viewport.DevicePixelRatio()
	app.viewport.SetSize(float64(waveRect.Dx())/dpr, float64(waveRect.Dy())/dpr)
	ps := app.player.Snapshot()
	if ps.HasTrackLoaded() && app.viewport.LengthPixels() > 0 {
		g := ComputeGeometry(app.viewport, ps)
		app.waveform.Render(app.player.Track(), g, waveRect)
	}
	app.rollStage.SetTarget(waveRect, dpr)
	// both layers must see the same position
	app.lastZones = app.roll.Render(StaticPosition(ps), app.viewport)
	app.status.Render(statusRect, app.statusText())
	return nil
}

func (app *App) drainEvents() {
	for {
		select {
		case ev := <-app.events:
			ev()
		default:
			return
		}
	}
}

func (app *App) Update() error {
	app.drainEvents()
	return nil
}

func (app *App) Close() error {
	logger.Debug("Close")
	var firstErr error
	closers := []interface{ Close() error }{}
	if app.roll != nil {
		closers = append(closers, app.roll, app.rollStage)
	}
	if app.waveform != nil {
		closers = append(closers, app.waveform)
	}
	if app.status != nil {
		closers = append(closers, app.status)
	}
	if app.player != nil {
		closers = append(closers, app.player)
	}
	for _, c := range closers {
		if err := c.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
