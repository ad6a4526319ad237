package shader

import (
	"fmt"
	"os"
	"strings"
)

// fakeShader records what the Set did to one shader object.
type fakeShader struct {
	stage    Stage
	source   []string
	compiles int
	compiled bool
	deleted  bool
}

type fakeProgram struct {
	attached []uint32
	links    int
	linked   bool
	deleted  bool
}

// fakeDevice is an in-memory Device. Shader sources containing "#error"
// fail to compile; programs fail to link while failLink is set.
type fakeDevice struct {
	next     uint32
	shaders  map[uint32]*fakeShader
	programs map[uint32]*fakeProgram
	calls    []string

	failLink   bool
	compileLog string
	linkLog    string
}

func newFakeDevice() *fakeDevice {
	return &fakeDevice{
		next:     1,
		shaders:  make(map[uint32]*fakeShader),
		programs: make(map[uint32]*fakeProgram),
	}
}

func (d *fakeDevice) handle() uint32 {
	h := d.next
	d.next++
	return h
}

func (d *fakeDevice) record(format string, args ...any) {
	d.calls = append(d.calls, fmt.Sprintf(format, args...))
}

func (d *fakeDevice) CreateShader(stage Stage) uint32 {
	h := d.handle()
	d.shaders[h] = &fakeShader{stage: stage}
	d.record("create shader %d", h)
	return h
}

func (d *fakeDevice) DeleteShader(shader uint32) {
	d.shaders[shader].deleted = true
	d.record("delete shader %d", shader)
}

func (d *fakeDevice) ShaderSource(shader uint32, parts ...string) {
	d.shaders[shader].source = append([]string(nil), parts...)
}

func (d *fakeDevice) CompileShader(shader uint32) {
	sh := d.shaders[shader]
	sh.compiles++
	sh.compiled = !strings.Contains(strings.Join(sh.source, ""), "#error")
}

func (d *fakeDevice) ShaderCompiled(shader uint32) bool {
	return d.shaders[shader].compiled
}

func (d *fakeDevice) ShaderInfoLog(shader uint32) string {
	if d.shaders[shader].compiled {
		return ""
	}
	return d.compileLog
}

func (d *fakeDevice) CreateProgram() uint32 {
	h := d.handle()
	d.programs[h] = &fakeProgram{}
	d.record("create program %d", h)
	return h
}

func (d *fakeDevice) DeleteProgram(program uint32) {
	d.programs[program].deleted = true
	d.record("delete program %d", program)
}

func (d *fakeDevice) AttachShader(program, shader uint32) {
	p := d.programs[program]
	p.attached = append(p.attached, shader)
}

func (d *fakeDevice) DetachShader(program, shader uint32) {
	p := d.programs[program]
	for i, h := range p.attached {
		if h == shader {
			p.attached = append(p.attached[:i], p.attached[i+1:]...)
			break
		}
	}
	d.record("detach %d from %d", shader, program)
}

func (d *fakeDevice) LinkProgram(program uint32) {
	p := d.programs[program]
	p.links++
	p.linked = !d.failLink
}

func (d *fakeDevice) ProgramLinked(program uint32) bool {
	return d.programs[program].linked
}

func (d *fakeDevice) ProgramInfoLog(uint32) string {
	return d.linkLog
}

// compiles returns how many times the shader for path was compiled.
func (d *fakeDevice) compiles(s *Set, path string, stage Stage) int {
	id, ok := s.shaderIndex[Source{Path: path, Stage: stage}]
	if !ok {
		return -1
	}
	return d.shaders[s.shaders[id].handle].compiles
}

type fakeFile struct {
	modTime int64
	data    string
	readErr error
}

// fakeFS is an in-memory FileSystem with controllable timestamps.
type fakeFS struct {
	files map[string]*fakeFile
	reads int
}

func newFakeFS() *fakeFS {
	return &fakeFS{files: make(map[string]*fakeFile)}
}

// write sets the contents and timestamp of path.
func (f *fakeFS) write(path, data string, modTime int64) {
	f.files[path] = &fakeFile{modTime: modTime, data: data}
}

func (f *fakeFS) ModTime(path string) (int64, error) {
	file, ok := f.files[path]
	if !ok {
		return 0, &os.PathError{Op: "stat", Path: path, Err: os.ErrNotExist}
	}
	return file.modTime, nil
}

func (f *fakeFS) ReadFile(path string) ([]byte, error) {
	f.reads++
	file, ok := f.files[path]
	if !ok {
		return nil, &os.PathError{Op: "open", Path: path, Err: os.ErrNotExist}
	}
	if file.readErr != nil {
		return nil, file.readErr
	}
	return []byte(file.data), nil
}
