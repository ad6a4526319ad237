// Package shader manages hot-reloadable OpenGL shader objects and programs.
//
// A Set owns every shader and program object it creates. Programs are
// registered from their source files and the Set recompiles and relinks them
// whenever a file's modification time advances. Callers keep the *Program
// returned at registration and read its handle every frame, since the handle
// drops to InvalidProgram while the last link attempt is failing.
//
// All methods must be called from the thread owning the graphics context.
package shader

// InvalidProgram is the program handle reported while a program is unusable.
const InvalidProgram uint32 = 0

// Device is the native graphics context the Set drives.
// Handles are opaque to the Set; zero is never a valid program handle.
type Device interface {
	CreateShader(stage Stage) uint32
	DeleteShader(shader uint32)
	// ShaderSource replaces the shader's source with the concatenation of parts.
	ShaderSource(shader uint32, parts ...string)
	CompileShader(shader uint32)
	ShaderCompiled(shader uint32) bool
	ShaderInfoLog(shader uint32) string

	CreateProgram() uint32
	DeleteProgram(program uint32)
	AttachShader(program, shader uint32)
	DetachShader(program, shader uint32)
	LinkProgram(program uint32)
	ProgramLinked(program uint32) bool
	ProgramInfoLog(program uint32) string
}
