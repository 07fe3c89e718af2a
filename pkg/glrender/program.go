package glrender

import (
	"fmt"
	"strings"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/taigrr/meadow/pkg/math3d"
	"github.com/taigrr/meadow/pkg/scene"
)

// Program is a linked GLSL program. Uniform locations are looked up once
// per name; names the program does not declare resolve to -1, which GL
// ignores.
type Program struct {
	ctx       *Context
	id        uint32
	locations map[string]int32

	isGround    bool
	alphaCutout bool
}

// NewProgram compiles and links the meadow shader.
func (c *Context) NewProgram() (*Program, error) {
	return c.newProgram(vertexShader, fragmentShader)
}

func (c *Context) newProgram(vertSrc, fragSrc string) (*Program, error) {
	vert, err := compileShader(vertSrc, gl.VERTEX_SHADER)
	if err != nil {
		return nil, fmt.Errorf("compile vertex shader: %w", err)
	}
	defer gl.DeleteShader(vert)
	frag, err := compileShader(fragSrc, gl.FRAGMENT_SHADER)
	if err != nil {
		return nil, fmt.Errorf("compile fragment shader: %w", err)
	}
	defer gl.DeleteShader(frag)

	id := gl.CreateProgram()
	gl.AttachShader(id, vert)
	gl.AttachShader(id, frag)
	gl.LinkProgram(id)

	var status int32
	gl.GetProgramiv(id, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetProgramiv(id, gl.INFO_LOG_LENGTH, &logLen)
		log := strings.Repeat("\x00", int(logLen+1))
		gl.GetProgramInfoLog(id, logLen, nil, gl.Str(log))
		gl.DeleteProgram(id)
		return nil, fmt.Errorf("link program: %s", strings.TrimRight(log, "\x00"))
	}

	p := &Program{ctx: c, id: id, locations: make(map[string]int32)}
	c.own(p)
	return p, nil
}

func compileShader(src string, shaderType uint32) (uint32, error) {
	shader := gl.CreateShader(shaderType)
	csrc, free := gl.Strs(src)
	gl.ShaderSource(shader, 1, csrc, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLen)
		log := strings.Repeat("\x00", int(logLen+1))
		gl.GetShaderInfoLog(shader, logLen, nil, gl.Str(log))
		gl.DeleteShader(shader)
		return 0, fmt.Errorf("%s", strings.TrimRight(log, "\x00"))
	}
	return shader, nil
}

func (p *Program) location(name string) int32 {
	if loc, ok := p.locations[name]; ok {
		return loc
	}
	loc := gl.GetUniformLocation(p.id, gl.Str(name+"\x00"))
	p.locations[name] = loc
	return loc
}

// Use implements scene.Program.
func (p *Program) Use() {
	gl.UseProgram(p.id)
	p.ctx.program = p
}

// SetMat4 implements scene.Program.
func (p *Program) SetMat4(name string, m math3d.Mat4) {
	f := m.Float32()
	gl.UniformMatrix4fv(p.location(name), 1, false, &f[0])
}

// SetVec3 implements scene.Program.
func (p *Program) SetVec3(name string, v math3d.Vec3) {
	gl.Uniform3f(p.location(name), float32(v.X), float32(v.Y), float32(v.Z))
}

// SetInt implements scene.Program. The ground and cutout flags also decide
// face culling for the next draw.
func (p *Program) SetInt(name string, v int) {
	switch name {
	case scene.UniformIsGround:
		p.isGround = v != 0
	case scene.UniformAlphaCutout:
		p.alphaCutout = v != 0
	}
	gl.Uniform1i(p.location(name), int32(v))
}

func (p *Program) cullBackFaces() bool {
	return !p.isGround && !p.alphaCutout
}

// Delete frees the program.
func (p *Program) Delete() {
	gl.DeleteProgram(p.id)
}
