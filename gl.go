package main

import (
	"fmt"
	"image"
	"strings"

	gl "github.com/go-gl/gl/v3.1/gles2"
)

type Texture struct {
	tex uint32
}

func (t *Texture) Bind() {
	gl.BindTexture(gl.TEXTURE_2D, t.tex)
}

// CreateTexture allocates a linear filtered texture. GLES2 only allows
// CLAMP_TO_EDGE on non power of two textures, so shaders that need
// repetition wrap their coordinates themselves.
func CreateTexture() (*Texture, error) {
	var tex uint32
	gl.GenTextures(1, &tex)
	if tex == 0 {
		return nil, fmt.Errorf("glGenTextures failed: error 0x%x", gl.GetError())
	}
	gl.BindTexture(gl.TEXTURE_2D, tex)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	return &Texture{tex: tex}, nil
}

// UploadImage replaces the texture contents with img.
func (t *Texture) UploadImage(img image.Image) error {
	size := img.Bounds().Size()
	t.Bind()
	defer gl.BindTexture(gl.TEXTURE_2D, 0)
	switch img := img.(type) {
	case *image.Alpha:
		gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
		gl.TexImage2D(gl.TEXTURE_2D, 0, gl.ALPHA,
			int32(size.X), int32(size.Y),
			0, gl.ALPHA, gl.UNSIGNED_BYTE,
			gl.Ptr(img.Pix))
		gl.PixelStorei(gl.UNPACK_ALIGNMENT, 4)
	case *image.RGBA:
		gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA,
			int32(size.X), int32(size.Y),
			0, gl.RGBA, gl.UNSIGNED_BYTE,
			gl.Ptr(img.Pix))
	default:
		return fmt.Errorf("unsupported image format: %T", img)
	}
	if code := gl.GetError(); code != gl.NO_ERROR {
		return fmt.Errorf("glTexImage2D failed: error 0x%x", code)
	}
	return nil
}

// UploadRGBATexture is the TextureFactory used by the marker cache.
func UploadRGBATexture(img *image.RGBA) (TextureHandle, error) {
	tex, err := CreateTexture()
	if err != nil {
		return nil, err
	}
	if err := tex.UploadImage(img); err != nil {
		tex.Close()
		return nil, err
	}
	return tex, nil
}

func (t *Texture) Close() error {
	if t.tex != 0 {
		gl.DeleteTextures(1, &t.tex)
		t.tex = 0
	}
	return nil
}

type Shader struct {
	shader uint32
}

func GetShaderInfoLog(shader uint32) string {
	var length int32
	gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &length)
	if length == 0 {
		return ""
	}
	log := make([]uint8, length)
	var logLen int32
	gl.GetShaderInfoLog(shader, length, &logLen, &log[0])
	return string(log[:logLen])
}

func CreateShader(shaderType uint32, source string) (Shader, error) {
	shader := gl.CreateShader(shaderType)
	if shader == 0 {
		return Shader{}, fmt.Errorf("glCreateShader failed: error 0x%x", gl.GetError())
	}
	data, free := gl.Strs(source)
	defer free()
	length := int32(len(source))
	gl.ShaderSource(shader, 1, data, &length)
	gl.CompileShader(shader)
	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		infoLog := GetShaderInfoLog(shader)
		gl.DeleteShader(shader)
		return Shader{}, fmt.Errorf("shader compilation failed: %s", infoLog)
	}
	return Shader{shader}, nil
}

func (s *Shader) Close() error {
	if s.shader != 0 {
		gl.DeleteShader(s.shader)
		s.shader = 0
	}
	return nil
}

type Program struct {
	program        uint32
	vertexShader   Shader
	fragmentShader Shader
}

func GetProgramInfoLog(program uint32) string {
	var length int32
	gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &length)
	if length == 0 {
		return ""
	}
	log := make([]uint8, length)
	var logLen int32
	gl.GetProgramInfoLog(program, length, &logLen, &log[0])
	return string(log[:logLen])
}

func CreateProgram(vertexShader string, fragmentShader string) (*Program, error) {
	vs, err := CreateShader(gl.VERTEX_SHADER, vertexShader)
	if err != nil {
		return nil, fmt.Errorf("vertex shader: %w", err)
	}
	fs, err := CreateShader(gl.FRAGMENT_SHADER, fragmentShader)
	if err != nil {
		vs.Close()
		return nil, fmt.Errorf("fragment shader: %w", err)
	}
	program := gl.CreateProgram()
	gl.AttachShader(program, vs.shader)
	gl.AttachShader(program, fs.shader)
	gl.LinkProgram(program)
	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		infoLog := GetProgramInfoLog(program)
		gl.DeleteProgram(program)
		vs.Close()
		fs.Close()
		return nil, fmt.Errorf("program link failed: %s", infoLog)
	}
	return &Program{program, vs, fs}, nil
}

func (p *Program) GetAttribLocation(name string) int32 {
	return gl.GetAttribLocation(p.program, gl.Str(name))
}

func (p *Program) GetUniformLocation(name string) int32 {
	return gl.GetUniformLocation(p.program, gl.Str(name))
}

// MustAttrib looks up an attribute, reporting a missing one as an
// error so program setup can fail early.
func (p *Program) MustAttrib(name string) (uint32, error) {
	loc := p.GetAttribLocation(name)
	if loc < 0 {
		return 0, fmt.Errorf("attribute %q not found", strings.TrimSuffix(name, "\x00"))
	}
	return uint32(loc), nil
}

func (p *Program) Use() {
	gl.UseProgram(p.program)
}

func (p *Program) Close() error {
	if p.program != 0 {
		gl.DeleteProgram(p.program)
		p.program = 0
	}
	if err := p.vertexShader.Close(); err != nil {
		return err
	}
	return p.fragmentShader.Close()
}

// glCapabilities is the slice of GL state the draw stages toggle.
type glCapabilities interface {
	IsEnabled(capability uint32) bool
	Enable(capability uint32)
	Disable(capability uint32)
}

type glContext struct{}

func (glContext) IsEnabled(capability uint32) bool { return gl.IsEnabled(capability) }
func (glContext) Enable(capability uint32)         { gl.Enable(capability) }
func (glContext) Disable(capability uint32)        { gl.Disable(capability) }

// enableScoped enables capability and returns a func that puts it back
// the way it was.
func enableScoped(gc glCapabilities, capability uint32) (restore func()) {
	if gc.IsEnabled(capability) {
		return func() {}
	}
	gc.Enable(capability)
	return func() { gc.Disable(capability) }
}
