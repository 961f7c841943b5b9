package main

import (
	"fmt"
	"unsafe"

	gl "github.com/go-gl/gl/v3.1/gles2"
	mgl "github.com/go-gl/mathgl/mgl32"
)

const (
	rollVertexShader = `
    precision highp float;
    attribute vec2 a_position;
    attribute vec2 a_texcoord;
    uniform mat4 u_transform;
    uniform vec2 u_repetitions;
    varying vec2 v_texcoord;
    void main(void) {
      gl_Position = u_transform * vec4(a_position, 0.0, 1.0);
      v_texcoord = a_texcoord * u_repetitions;
    }` + "\x00"
	// fract() does the wrapping; GLES2 refuses GL_REPEAT on NPOT textures.
	rollFragmentShader = `
    precision highp float;
    uniform sampler2D u_tex;
    varying vec2 v_texcoord;
    void main(void) {
      gl_FragColor = texture2D(u_tex, vec2(fract(v_texcoord.x), v_texcoord.y));
    }` + "\x00"
)

// ZoneDrawer issues the draw for one planned zone.
type ZoneDrawer interface {
	DrawZone(req TileRequest, tex TextureHandle)
}

type TexturedVertex struct {
	position [2]float32
	texcoord [2]float32
}

// quadVertices builds the two triangles covering req. Texture
// coordinates run 0..1 along the length and are scaled by the
// repetition uniform in the vertex shader.
func quadVertices(req TileRequest) [6]TexturedVertex {
	x0 := float32(req.StartPixel)
	x1 := float32(req.EndPixel)
	y0 := float32(req.Band[0])
	y1 := float32(req.Band[1])
	var s0, s1 float32 = 0, 1
	if req.Flipped {
		s0, s1 = 1, 0
	}
	return [6]TexturedVertex{
		{position: [2]float32{x0, y0}, texcoord: [2]float32{s0, 0}},
		{position: [2]float32{x0, y1}, texcoord: [2]float32{s0, 1}},
		{position: [2]float32{x1, y1}, texcoord: [2]float32{s1, 1}},
		{position: [2]float32{x1, y1}, texcoord: [2]float32{s1, 1}},
		{position: [2]float32{x1, y0}, texcoord: [2]float32{s1, 0}},
		{position: [2]float32{x0, y0}, texcoord: [2]float32{s0, 0}},
	}
}

// pixelTransform maps logical pixels inside rect (y pointing down) to
// normalized device coordinates of the current framebuffer.
func pixelTransform(rect Rect, dpr float64) mgl.Mat4 {
	ux := 2.0 / float32(fbSize.X)
	uy := 2.0 / float32(fbSize.Y)
	d := float32(dpr)
	mScale := mgl.Scale3D(ux*d, -uy*d, 1)
	tx := -1.0 + ux*float32(rect.Min.X)
	ty := 1.0 - uy*float32(rect.Min.Y)
	mTranslate := mgl.Translate3D(tx, ty, 0)
	return mTranslate.Mul4(mScale)
}

// RollDrawStage is the GL implementation of ZoneDrawer.
type RollDrawStage struct {
	program       *Program
	a_position    uint32
	a_texcoord    uint32
	u_transform   int32
	u_tex         int32
	u_repetitions int32
	rect          Rect
	dpr           float64
	vertices      [6]TexturedVertex
}

func CreateRollDrawStage() (*RollDrawStage, error) {
	program, err := CreateProgram(rollVertexShader, rollFragmentShader)
	if err != nil {
		return nil, fmt.Errorf("roll marker program: %w", err)
	}
	a_position, err := program.MustAttrib("a_position\x00")
	if err != nil {
		program.Close()
		return nil, err
	}
	a_texcoord, err := program.MustAttrib("a_texcoord\x00")
	if err != nil {
		program.Close()
		return nil, err
	}
	return &RollDrawStage{
		program:       program,
		a_position:    a_position,
		a_texcoord:    a_texcoord,
		u_transform:   program.GetUniformLocation("u_transform\x00"),
		u_tex:         program.GetUniformLocation("u_tex\x00"),
		u_repetitions: program.GetUniformLocation("u_repetitions\x00"),
		dpr:           1,
	}, nil
}

// SetTarget tells the stage which framebuffer rectangle the viewport
// occupies.
func (rds *RollDrawStage) SetTarget(rect Rect, dpr float64) {
	rds.rect = rect
	rds.dpr = dpr
}

func (rds *RollDrawStage) DrawZone(req TileRequest, tex TextureHandle) {
	if tex == nil || req.Empty() {
		return
	}
	rds.vertices = quadVertices(req)
	rds.program.Use()
	gl.ActiveTexture(gl.TEXTURE0)
	tex.Bind()
	gl.Uniform1i(rds.u_tex, 0)
	gl.Uniform2f(rds.u_repetitions, float32(req.Repetitions), 1)
	mTransform := pixelTransform(rds.rect, rds.dpr)
	gl.UniformMatrix4fv(rds.u_transform, 1, false, &mTransform[0])
	stride := int32(unsafe.Sizeof(TexturedVertex{}))
	gl.EnableVertexAttribArray(rds.a_position)
	gl.VertexAttribPointer(rds.a_position, 2, gl.FLOAT, false, stride,
		gl.Ptr(&rds.vertices[0].position[0]))
	gl.EnableVertexAttribArray(rds.a_texcoord)
	gl.VertexAttribPointer(rds.a_texcoord, 2, gl.FLOAT, false, stride,
		gl.Ptr(&rds.vertices[0].texcoord[0]))
	// marker bitmaps hold premultiplied alpha
	restoreBlend := enableScoped(glContext{}, gl.BLEND)
	gl.BlendEquation(gl.FUNC_ADD)
	gl.BlendFunc(gl.ONE, gl.ONE_MINUS_SRC_ALPHA)
	gl.DrawArrays(gl.TRIANGLES, 0, int32(len(rds.vertices)))
	restoreBlend()
	gl.DisableVertexAttribArray(rds.a_position)
	gl.DisableVertexAttribArray(rds.a_texcoord)
	gl.BindTexture(gl.TEXTURE_2D, 0)
	gl.UseProgram(0)
}

func (rds *RollDrawStage) Close() error {
	return rds.program.Close()
}
