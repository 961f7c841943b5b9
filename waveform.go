package main

import (
	"fmt"
	"math"
	"unsafe"

	gl "github.com/go-gl/gl/v3.1/gles2"
)

const (
	lineVertexShader = `
    precision highp float;
    attribute vec2 a_position;
    uniform mat4 u_transform;
    void main(void) {
      gl_Position = u_transform * vec4(a_position, 0.0, 1.0);
    }` + "\x00"
	lineFragmentShader = `
    precision highp float;
    uniform vec4 u_color;
    void main(void) {
      gl_FragColor = u_color;
    }` + "\x00"
)

type PointVertex struct {
	position [2]float32
}

// appendWaveformLines emits one vertical line per pixel column that
// overlaps the track, spanning the min/max peak of that column.
func appendWaveformLines(dst []PointVertex, track *Track, g ViewportGeometry) []PointVertex {
	columns := int(math.Ceil(g.LengthPixels))
	mid := float32(g.BreadthPixels / 2)
	half := mid * 0.95
	for x := range columns {
		s0 := int64(math.Floor(g.PixelToSample(float64(x))))
		s1 := int64(math.Ceil(g.PixelToSample(float64(x + 1))))
		if s1 == s0 {
			s1++
		}
		lo, hi, ok := track.Peaks(s0, s1)
		if !ok {
			continue
		}
		px := float32(x) + 0.5
		y0 := mid - hi*half
		y1 := mid - lo*half
		if y1-y0 < 1 {
			y1 = y0 + 1
		}
		dst = append(dst,
			PointVertex{position: [2]float32{px, y0}},
			PointVertex{position: [2]float32{px, y1}})
	}
	return dst
}

// WaveformDisplay draws the scrolling waveform and the playhead.
type WaveformDisplay struct {
	program       *Program
	a_position    uint32
	u_transform   int32
	u_color       int32
	waveColor     Color
	playheadColor Color
	vertices      []PointVertex
}

func CreateWaveformDisplay(waveColor, playheadColor Color) (*WaveformDisplay, error) {
	program, err := CreateProgram(lineVertexShader, lineFragmentShader)
	if err != nil {
		return nil, fmt.Errorf("waveform program: %w", err)
	}
	a_position, err := program.MustAttrib("a_position\x00")
	if err != nil {
		program.Close()
		return nil, err
	}
	return &WaveformDisplay{
		program:       program,
		a_position:    a_position,
		u_transform:   program.GetUniformLocation("u_transform\x00"),
		u_color:       program.GetUniformLocation("u_color\x00"),
		waveColor:     waveColor,
		playheadColor: playheadColor,
		vertices:      make([]PointVertex, 0, 2*4096),
	}, nil
}

func (wd *WaveformDisplay) Render(track *Track, g ViewportGeometry, rect Rect) {
	wd.vertices = wd.vertices[:0]
	if track != nil {
		wd.vertices = appendWaveformLines(wd.vertices, track, g)
	}
	waveCount := len(wd.vertices)
	px := float32(g.PlayMarkerPixel())
	wd.vertices = append(wd.vertices,
		PointVertex{position: [2]float32{px, 0}},
		PointVertex{position: [2]float32{px, float32(g.BreadthPixels)}})

	wd.program.Use()
	mTransform := pixelTransform(rect, g.DevicePixelRatio)
	gl.UniformMatrix4fv(wd.u_transform, 1, false, &mTransform[0])
	gl.EnableVertexAttribArray(wd.a_position)
	gl.VertexAttribPointer(
		wd.a_position, 2, gl.FLOAT, false,
		int32(unsafe.Sizeof(PointVertex{})),
		gl.Ptr(&wd.vertices[0].position[0]))
	if waveCount > 0 {
		setColorUniform(wd.u_color, wd.waveColor)
		gl.DrawArrays(gl.LINES, 0, int32(waveCount))
	}
	setColorUniform(wd.u_color, wd.playheadColor)
	gl.DrawArrays(gl.LINES, int32(waveCount), 2)
	gl.DisableVertexAttribArray(wd.a_position)
	gl.UseProgram(0)
}

func setColorUniform(location int32, c Color) {
	gl.Uniform4f(location,
		float32(c.R)/255.0,
		float32(c.G)/255.0,
		float32(c.B)/255.0,
		float32(c.A)/255.0)
}

// premultiplied scales the colour channels by alpha, the form the
// ONE, ONE_MINUS_SRC_ALPHA blend function expects.
func premultiplied(c Color) [4]float32 {
	a := float32(c.A) / 255.0
	return [4]float32{
		float32(c.R) / 255.0 * a,
		float32(c.G) / 255.0 * a,
		float32(c.B) / 255.0 * a,
		a,
	}
}

func setPremultipliedColorUniform(location int32, c Color) {
	pc := premultiplied(c)
	gl.Uniform4f(location, pc[0], pc[1], pc[2], pc[3])
}

func (wd *WaveformDisplay) Close() error {
	return wd.program.Close()
}
