package main

import (
	"fmt"
	"runtime"

	gl "github.com/go-gl/gl/v3.1/gles2"
	"github.com/go-gl/glfw/v3.3/glfw"
)

const (
	defaultWindowWidth  = 1280
	defaultWindowHeight = 360
)

var fbSize Size

func init() {
	runtime.LockOSThread()
}

type GlfwApp interface {
	Init() error
	IsRunning() bool
	OnKey(key glfw.Key, scancode int, action glfw.Action, modes glfw.ModifierKey)
	OnFramebufferSize(width, height int)
	OnContentScale(x, y float32)
	Render() error
	Update() error
	Close() error
}

type WindowOptions struct {
	Title      string
	FPS        int
	Fullscreen bool
}

func WithGL(opts WindowOptions, app GlfwApp) error {
	err := glfw.Init()
	if err != nil {
		return err
	}
	defer glfw.Terminate()

	monitor := glfw.GetPrimaryMonitor()
	if monitor == nil {
		return fmt.Errorf("no monitors found")
	}
	mode := monitor.GetVideoMode()
	if mode == nil {
		return fmt.Errorf("video mode cannot be determined")
	}
	glfw.WindowHint(glfw.RedBits, mode.RedBits)
	glfw.WindowHint(glfw.GreenBits, mode.GreenBits)
	glfw.WindowHint(glfw.BlueBits, mode.BlueBits)
	glfw.WindowHint(glfw.RefreshRate, mode.RefreshRate)
	glfw.WindowHint(glfw.Resizable, glfw.True)
	glfw.WindowHint(glfw.Focused, glfw.True)
	glfw.WindowHint(glfw.AutoIconify, glfw.False)
	glfw.WindowHint(glfw.DoubleBuffer, glfw.True)
	glfw.WindowHint(glfw.ScaleToMonitor, glfw.True)
	glfw.WindowHint(glfw.ClientAPI, glfw.OpenGLESAPI)
	glfw.WindowHint(glfw.ContextVersionMajor, 2)
	width, height := defaultWindowWidth, defaultWindowHeight
	var fullscreenMonitor *glfw.Monitor
	if opts.Fullscreen {
		width, height = mode.Width, mode.Height
		fullscreenMonitor = monitor
	}
	window, err := glfw.CreateWindow(width, height, opts.Title, fullscreenMonitor, nil)
	if err != nil {
		return err
	}
	defer window.Destroy()
	framebufferSizeCallback := func(w *glfw.Window, width, height int) {
		fbSize.X = width
		fbSize.Y = height
		gl.Viewport(0, 0, int32(width), int32(height))
		app.OnFramebufferSize(width, height)
	}
	window.SetFramebufferSizeCallback(framebufferSizeCallback)
	window.SetContentScaleCallback(func(w *glfw.Window, x, y float32) {
		app.OnContentScale(x, y)
	})
	window.SetKeyCallback(func(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
		app.OnKey(key, scancode, action, mods)
	})
	window.MakeContextCurrent()
	if err := gl.Init(); err != nil {
		return err
	}
	if err := app.Init(); err != nil {
		return err
	}
	defer app.Close()
	app.OnContentScale(window.GetContentScale())
	fbWidth, fbHeight := window.GetFramebufferSize()
	framebufferSizeCallback(window, fbWidth, fbHeight)
	frameSeconds := 1.0 / float64(opts.FPS)
	for app.IsRunning() && !window.ShouldClose() {
		start := glfw.GetTime()
		gl.ClearColor(0, 0, 0, 1)
		gl.Clear(gl.COLOR_BUFFER_BIT)
		if err := app.Render(); err != nil {
			return err
		}
		window.SwapBuffers()
		elapsedSeconds := glfw.GetTime() - start
		if frameSeconds > elapsedSeconds {
			glfw.WaitEventsTimeout(frameSeconds - elapsedSeconds)
		} else {
			glfw.PollEvents()
		}
		if err := app.Update(); err != nil {
			return err
		}
	}
	return nil
}
