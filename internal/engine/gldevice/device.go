// Package gldevice implements shader.Device on OpenGL 4.1 core via go-gl.
package gldevice

import (
	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/shaderset/internal/engine/shader"
)

// computeShader is GL_COMPUTE_SHADER, absent from the 4.1 core profile.
// Creating one fails on contexts older than 4.3.
const computeShader = 0x91B9

var glStages = map[shader.Stage]uint32{
	shader.Vertex:         gl.VERTEX_SHADER,
	shader.Fragment:       gl.FRAGMENT_SHADER,
	shader.Geometry:       gl.GEOMETRY_SHADER,
	shader.TessControl:    gl.TESS_CONTROL_SHADER,
	shader.TessEvaluation: gl.TESS_EVALUATION_SHADER,
	shader.Compute:        computeShader,
}

// Device implements shader.Device on the current OpenGL context.
// IMPORTANT: gl.Init must have been called on the owning thread.
type Device struct{}

var _ shader.Device = (*Device)(nil)

// New returns a Device backed by go-gl.
func New() *Device {
	return &Device{}
}

// CreateShader creates an empty shader object for the stage.
func (Device) CreateShader(stage shader.Stage) uint32 {
	return gl.CreateShader(glStages[stage])
}

func (Device) DeleteShader(sh uint32) {
	gl.DeleteShader(sh)
}

// ShaderSource submits every part as a separate source string.
func (Device) ShaderSource(sh uint32, parts ...string) {
	if len(parts) == 0 {
		return
	}
	csources, free := gl.Strs(terminate(parts)...)
	gl.ShaderSource(sh, int32(len(parts)), csources, nil)
	free()
}

func (Device) CompileShader(sh uint32) {
	gl.CompileShader(sh)
}

func (Device) ShaderCompiled(sh uint32) bool {
	var status int32
	gl.GetShaderiv(sh, gl.COMPILE_STATUS, &status)
	return status != gl.FALSE
}

func (Device) ShaderInfoLog(sh uint32) string {
	var logLen int32
	gl.GetShaderiv(sh, gl.INFO_LOG_LENGTH, &logLen)
	if logLen <= 0 {
		return ""
	}
	log := make([]byte, logLen+1)
	gl.GetShaderInfoLog(sh, logLen, nil, &log[0])
	return gl.GoStr(&log[0])
}

func (Device) CreateProgram() uint32 {
	return gl.CreateProgram()
}

func (Device) DeleteProgram(program uint32) {
	gl.DeleteProgram(program)
}

func (Device) AttachShader(program, sh uint32) {
	gl.AttachShader(program, sh)
}

func (Device) DetachShader(program, sh uint32) {
	gl.DetachShader(program, sh)
}

func (Device) LinkProgram(program uint32) {
	gl.LinkProgram(program)
}

func (Device) ProgramLinked(program uint32) bool {
	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	return status != gl.FALSE
}

func (Device) ProgramInfoLog(program uint32) string {
	var logLen int32
	gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLen)
	if logLen <= 0 {
		return ""
	}
	log := make([]byte, logLen+1)
	gl.GetProgramInfoLog(program, logLen, nil, &log[0])
	return gl.GoStr(&log[0])
}

// terminate returns copies of parts with the NUL terminator gl.Strs expects.
func terminate(parts []string) []string {
	out := make([]string, len(parts))
	for i, p := range parts {
		out[i] = p + "\x00"
	}
	return out
}

// GetUniform returns the uniform location for the given name.
// Returns -1 if the uniform is not found or inactive.
func GetUniform(program uint32, name string) int32 {
	return gl.GetUniformLocation(program, gl.Str(name+"\x00"))
}
