package main

import (
	"fmt"
	"unsafe"

	gl "github.com/go-gl/gl/v3.1/gles2"
	mgl "github.com/go-gl/mathgl/mgl32"
	"golang.org/x/image/font/opentype"
)

const (
	statusFontSize = 12

	tileVertexShader = `
    precision highp float;
    attribute vec2 a_position;
    attribute vec2 a_texcoord;
    uniform mat4 u_transform;
    varying vec2 v_texcoord;
    void main(void) {
      gl_Position = u_transform * vec4(a_position, 0.0, 1.0);
      v_texcoord = a_texcoord;
    }` + "\x00"
	tileFragmentShader = `
    precision highp float;
    uniform sampler2D u_tex;
    uniform vec4 u_color; // premultiplied
    varying vec2 v_texcoord;
    void main(void) {
      gl_FragColor = u_color * texture2D(u_tex, v_texcoord).a;
    }` + "\x00"
)

// StatusLine draws a single row of monospace text from a glyph atlas.
type StatusLine struct {
	font        *opentype.Font
	atlas       *GlyphAtlas
	atlasDPR    float64
	tex         *Texture
	program     *Program
	a_position  uint32
	a_texcoord  uint32
	u_transform int32
	u_tex       int32
	u_color     int32
	color       Color
	vertices    []TexturedVertex
}

func CreateStatusLine(color Color) (*StatusLine, error) {
	f, err := LoadStatusFont()
	if err != nil {
		return nil, err
	}
	program, err := CreateProgram(tileVertexShader, tileFragmentShader)
	if err != nil {
		return nil, fmt.Errorf("status line program: %w", err)
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
	tex, err := CreateTexture()
	if err != nil {
		program.Close()
		return nil, err
	}
	return &StatusLine{
		font:        f,
		tex:         tex,
		program:     program,
		a_position:  a_position,
		a_texcoord:  a_texcoord,
		u_transform: program.GetUniformLocation("u_transform\x00"),
		u_tex:       program.GetUniformLocation("u_tex\x00"),
		u_color:     program.GetUniformLocation("u_color\x00"),
		color:       color,
		vertices:    make([]TexturedVertex, 0, 6*256),
	}, nil
}

// EnsureScale rebuilds the glyph atlas when the pixel ratio changes.
func (sl *StatusLine) EnsureScale(dpr float64) error {
	if sl.atlas != nil && sl.atlasDPR == dpr {
		return nil
	}
	atlas, err := BuildGlyphAtlas(sl.font, statusFontSize, dpr)
	if err != nil {
		return err
	}
	if err := sl.tex.UploadImage(atlas.Image); err != nil {
		return err
	}
	sl.atlas = atlas
	sl.atlasDPR = dpr
	return nil
}

// Height is the line height in physical pixels.
func (sl *StatusLine) Height() int {
	if sl.atlas == nil {
		return 0
	}
	return sl.atlas.TileSize.Y
}

func (sl *StatusLine) appendRune(col int, r rune) {
	atlas := sl.atlas
	tc, tr := atlas.TileOf(r)
	x0 := float32(col)
	x1 := float32(col + 1)
	y0 := float32(0)
	y1 := float32(-1)
	s0 := float32(tc) / float32(atlas.Cols)
	s1 := float32(tc+1) / float32(atlas.Cols)
	t0 := float32(tr) / float32(atlas.Rows)
	t1 := float32(tr+1) / float32(atlas.Rows)
	sl.vertices = append(sl.vertices,
		TexturedVertex{position: [2]float32{x0, y0}, texcoord: [2]float32{s0, t0}},
		TexturedVertex{position: [2]float32{x0, y1}, texcoord: [2]float32{s0, t1}},
		TexturedVertex{position: [2]float32{x1, y1}, texcoord: [2]float32{s1, t1}},
		TexturedVertex{position: [2]float32{x1, y1}, texcoord: [2]float32{s1, t1}},
		TexturedVertex{position: [2]float32{x1, y0}, texcoord: [2]float32{s1, t0}},
		TexturedVertex{position: [2]float32{x0, y0}, texcoord: [2]float32{s0, t0}},
	)
}

// Render draws text left aligned inside rect (physical pixels).
func (sl *StatusLine) Render(rect Rect, text string) {
	if sl.atlas == nil || text == "" {
		return
	}
	sl.vertices = sl.vertices[:0]
	maxCols := rect.Dx() / sl.atlas.TileSize.X
	col := 0
	for _, r := range text {
		if col >= maxCols {
			break
		}
		sl.appendRune(col, r)
		col++
	}
	if len(sl.vertices) == 0 {
		return
	}
	sl.program.Use()
	gl.ActiveTexture(gl.TEXTURE0)
	sl.tex.Bind()
	gl.Uniform1i(sl.u_tex, 0)
	setPremultipliedColorUniform(sl.u_color, sl.color)
	stride := int32(unsafe.Sizeof(TexturedVertex{}))
	gl.EnableVertexAttribArray(sl.a_position)
	gl.VertexAttribPointer(sl.a_position, 2, gl.FLOAT, false, stride,
		gl.Ptr(&sl.vertices[0].position[0]))
	gl.EnableVertexAttribArray(sl.a_texcoord)
	gl.VertexAttribPointer(sl.a_texcoord, 2, gl.FLOAT, false, stride,
		gl.Ptr(&sl.vertices[0].texcoord[0]))
	ux := 2.0 / float32(fbSize.X)
	uy := 2.0 / float32(fbSize.Y)
	mScale := mgl.Scale3D(ux*float32(sl.atlas.TileSize.X), uy*float32(sl.atlas.TileSize.Y), 1)
	tx := -1.0 + ux*float32(rect.Min.X)
	ty := 1.0 - uy*float32(rect.Min.Y)
	mTranslate := mgl.Translate3D(tx, ty, 0)
	mTransform := mTranslate.Mul4(mScale)
	gl.UniformMatrix4fv(sl.u_transform, 1, false, &mTransform[0])
	restoreBlend := enableScoped(glContext{}, gl.BLEND)
	gl.BlendEquation(gl.FUNC_ADD)
	gl.BlendFunc(gl.ONE, gl.ONE_MINUS_SRC_ALPHA)
	gl.DrawArrays(gl.TRIANGLES, 0, int32(len(sl.vertices)))
	restoreBlend()
	gl.DisableVertexAttribArray(sl.a_position)
	gl.DisableVertexAttribArray(sl.a_texcoord)
	gl.BindTexture(gl.TEXTURE_2D, 0)
	gl.UseProgram(0)
}

func (sl *StatusLine) Close() error {
	sl.tex.Close()
	return sl.program.Close()
}
