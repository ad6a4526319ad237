package shader

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/Faultbox/shaderset/internal/logger"
)

var (
	// ErrNoShaders is returned when a program is registered without shaders.
	ErrNoShaders = errors.New("program has no shaders")

	// ErrClosed is returned when registering on a closed Set.
	ErrClosed = errors.New("shader set is closed")
)

// Source names one shader of a program: a file compiled for a stage.
// The same path may appear with several stages (combined files).
type Source struct {
	Path  string
	Stage Stage
}

// ProgramState is the link state of a program.
type ProgramState int

const (
	// Unlinked means no link has been attempted yet.
	Unlinked ProgramState = iota
	Linked
	LinkFailed
)

func (s ProgramState) String() string {
	switch s {
	case Unlinked:
		return "unlinked"
	case Linked:
		return "linked"
	case LinkFailed:
		return "link_failed"
	default:
		return "unknown"
	}
}

// shaderID indexes Set.shaders. Program keys are built from these.
type shaderID int

type shaderEntry struct {
	source    Source
	handle    uint32
	timestamp int64
	previous  int64
	number    int32 // #line source-string number
	missing   bool  // last poll failed; reported once per transition
}

// Program is the stable public-handle slot of a registered program.
// Read Handle after every UpdatePrograms; it may become InvalidProgram.
type Program struct {
	public   uint32
	internal uint32
	state    ProgramState
	shaders  []shaderID
	paths    []string
}

// Handle returns the program handle, or InvalidProgram if the most recent
// link failed or none has succeeded yet.
func (p *Program) Handle() uint32 {
	return p.public
}

// Valid reports whether Handle is usable.
func (p *Program) Valid() bool {
	return p.public != InvalidProgram
}

// State returns the program's link state.
func (p *Program) State() ProgramState {
	return p.state
}

// Paths returns the source paths of the program's shaders in canonical order.
func (p *Program) Paths() []string {
	out := make([]string, len(p.paths))
	copy(out, p.paths)
	return out
}

// Option configures a Set.
type Option func(*Set)

// WithLogger sets the logger receiving compile and link diagnostics.
func WithLogger(log *zap.Logger) Option {
	return func(s *Set) {
		if log != nil {
			s.log = log
		}
	}
}

// WithFileSystem sets where shader sources are polled and read from.
func WithFileSystem(fs FileSystem) Option {
	return func(s *Set) {
		if fs != nil {
			s.fs = fs
		}
	}
}

// Set is the registry of shaders and programs. It exclusively owns every
// native object it creates until Close.
type Set struct {
	dev Device
	fs  FileSystem
	log *zap.Logger

	version  string
	preamble string

	shaders        []*shaderEntry
	shaderIndex    map[Source]shaderID
	programs       []*Program
	programIndex   map[string]*Program
	names          *sourceNames
	preambleNumber int32

	closed bool
}

// New creates an empty Set driving dev.
func New(dev Device, opts ...Option) *Set {
	s := &Set{
		dev:          dev,
		fs:           OSFileSystem{},
		log:          logger.Named("shader"),
		shaderIndex:  make(map[Source]shaderID),
		programIndex: make(map[string]*Program),
		names:        newSourceNames(),
	}
	s.preambleNumber = s.names.number(preambleName)
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetVersion sets the version prepended as "#version <version>" to every shader.
func (s *Set) SetVersion(version string) {
	s.version = version
}

// SetPreamble sets text prepended to every shader after the stage define.
func (s *Set) SetPreamble(preamble string) {
	s.preamble = preamble
}

// SetPreambleFile reads the preamble from path once. It is not reloaded.
func (s *Set) SetPreambleFile(path string) error {
	data, err := s.fs.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading preamble %s: %w", path, err)
	}
	s.SetPreamble(string(data))
	return nil
}

// ShaderCount returns the number of distinct shaders registered.
func (s *Set) ShaderCount() int {
	return len(s.shaders)
}

// ProgramCount returns the number of distinct programs registered.
func (s *Set) ProgramCount() int {
	return len(s.programs)
}

// AddProgram registers the program linking the given shaders and returns its
// handle slot. Registering the same shaders again, in any order or with
// repeats, returns the same *Program. Nothing is compiled until UpdatePrograms.
func (s *Set) AddProgram(sources ...Source) (*Program, error) {
	if s.closed {
		return nil, ErrClosed
	}
	if len(sources) == 0 {
		return nil, ErrNoShaders
	}
	for _, src := range sources {
		if !src.Stage.Valid() {
			return nil, fmt.Errorf("%w: %s (%d)", ErrUnknownStage, src.Path, int(src.Stage))
		}
	}

	ids := make([]shaderID, 0, len(sources))
	for _, src := range sources {
		ids = append(ids, s.getOrCreateShader(src))
	}
	ids = s.canonicalize(ids)

	key := programKey(ids)
	if p, ok := s.programIndex[key]; ok {
		return p, nil
	}

	p := &Program{
		internal: s.dev.CreateProgram(),
		public:   InvalidProgram,
		state:    Unlinked,
		shaders:  ids,
		paths:    make([]string, len(ids)),
	}
	for i, id := range ids {
		sh := s.shaders[id]
		s.dev.AttachShader(p.internal, sh.handle)
		p.paths[i] = sh.source.Path
	}
	s.programs = append(s.programs, p)
	s.programIndex[key] = p

	s.log.Debug("program registered",
		zap.Strings("shaders", p.paths),
		zap.Uint32("program", p.internal),
	)
	return p, nil
}

// AddProgramFromExts registers a program whose stages follow from the file
// extensions (.vert, .frag, .geom, .tesc, .tese, .comp). An unknown extension
// fails the whole call without registering anything.
func (s *Set) AddProgramFromExts(paths ...string) (*Program, error) {
	sources := make([]Source, 0, len(paths))
	for _, path := range paths {
		stage, err := StageFromPath(path)
		if err != nil {
			return nil, err
		}
		sources = append(sources, Source{Path: path, Stage: stage})
	}
	return s.AddProgram(sources...)
}

// AddProgramFromCombinedFile registers a program built from a single file
// compiled once per stage. The file selects its code with the stage defines.
func (s *Set) AddProgramFromCombinedFile(path string, stages ...Stage) (*Program, error) {
	sources := make([]Source, 0, len(stages))
	for _, stage := range stages {
		sources = append(sources, Source{Path: path, Stage: stage})
	}
	return s.AddProgram(sources...)
}

// getOrCreateShader returns the shader for src, creating it with timestamp 0
// so the next update pass compiles it.
func (s *Set) getOrCreateShader(src Source) shaderID {
	if id, ok := s.shaderIndex[src]; ok {
		return id
	}
	id := shaderID(len(s.shaders))
	s.shaders = append(s.shaders, &shaderEntry{
		source: src,
		handle: s.dev.CreateShader(src.Stage),
		number: s.names.number(src.Path),
	})
	s.shaderIndex[src] = id
	return id
}

// canonicalize sorts ids by (path, stage) and removes duplicates.
func (s *Set) canonicalize(ids []shaderID) []shaderID {
	sort.Slice(ids, func(i, j int) bool {
		a, b := s.shaders[ids[i]].source, s.shaders[ids[j]].source
		if a.Path != b.Path {
			return a.Path < b.Path
		}
		return a.Stage < b.Stage
	})
	out := ids[:0]
	for _, id := range ids {
		if len(out) > 0 && out[len(out)-1] == id {
			continue
		}
		out = append(out, id)
	}
	return out
}

func programKey(ids []shaderID) string {
	var b strings.Builder
	for i, id := range ids {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Itoa(int(id)))
	}
	return b.String()
}

// UpdatePrograms polls every shader's modification time, recompiles shaders
// whose time advanced, and relinks the programs using them. A program is only
// relinked when all of its shaders compile, so a broken edit keeps the last
// good program in use. The pass always visits every shader and program.
func (s *Set) UpdatePrograms() {
	if s.closed {
		return
	}

	changed := make([]bool, len(s.shaders))
	for i, sh := range s.shaders {
		changed[i] = s.poll(sh) && s.compile(sh)
	}

	for _, p := range s.programs {
		if !s.needsRelink(p, changed) {
			continue
		}
		if !s.allCompiled(p) {
			continue
		}
		s.link(p)
	}
}

// poll refreshes the stored timestamp and reports whether the file changed.
func (s *Set) poll(sh *shaderEntry) bool {
	ts, err := s.fs.ModTime(sh.source.Path)
	if err != nil {
		if !sh.missing {
			sh.missing = true
			s.log.Warn("shader source unavailable",
				zap.String("path", sh.source.Path),
				zap.Error(err),
			)
		}
		return false
	}
	sh.missing = false
	if ts <= sh.timestamp {
		return false
	}
	sh.previous, sh.timestamp = sh.timestamp, ts
	return true
}

// compile submits the shader's assembled source and reports the result.
// It returns false only when the file could not be read; the previous
// timestamp is restored so the read is retried on the next pass.
func (s *Set) compile(sh *shaderEntry) bool {
	data, err := s.fs.ReadFile(sh.source.Path)
	if err != nil {
		sh.timestamp = sh.previous
		s.log.Warn("reading shader source failed",
			zap.String("path", sh.source.Path),
			zap.Error(err),
		)
		return false
	}

	parts := assembleSource(s.version, sh.source.Stage, s.preamble, s.preambleNumber, string(data), sh.number)
	s.dev.ShaderSource(sh.handle, parts...)
	s.dev.CompileShader(sh.handle)

	if !s.dev.ShaderCompiled(sh.handle) {
		log := FormatLog(trimLog(s.dev.ShaderInfoLog(sh.handle)), s.names.table())
		s.log.Error("shader compile failed",
			zap.String("path", sh.source.Path),
			zap.Stringer("stage", sh.source.Stage),
			zap.String("log", log),
		)
		return true
	}

	s.log.Debug("shader compiled",
		zap.String("path", sh.source.Path),
		zap.Stringer("stage", sh.source.Stage),
	)
	return true
}

// needsRelink reports whether p uses a changed shader or was never linked.
func (s *Set) needsRelink(p *Program, changed []bool) bool {
	if p.state == Unlinked {
		return true
	}
	for _, id := range p.shaders {
		if changed[id] {
			return true
		}
	}
	return false
}

func (s *Set) allCompiled(p *Program) bool {
	for _, id := range p.shaders {
		if !s.dev.ShaderCompiled(s.shaders[id].handle) {
			return false
		}
	}
	return true
}

// link relinks p's internal program and publishes the result.
func (s *Set) link(p *Program) {
	s.dev.LinkProgram(p.internal)
	log := FormatLog(trimLog(s.dev.ProgramInfoLog(p.internal)), s.names.table())

	fields := []zap.Field{zap.Strings("shaders", p.paths)}
	if log != "" {
		fields = append(fields, zap.String("log", log))
	}

	if !s.dev.ProgramLinked(p.internal) {
		p.public = InvalidProgram
		p.state = LinkFailed
		s.log.Error("program link failed", fields...)
		return
	}

	p.public = p.internal
	p.state = Linked
	s.log.Info("program linked", append(fields, zap.Uint32("program", p.internal))...)
}

// Close releases every program and then every shader. Programs are detached
// from their shaders first so no program outlives an attached shader.
// Programs returned earlier report InvalidProgram afterwards.
func (s *Set) Close() {
	if s.closed {
		return
	}
	s.closed = true

	for _, p := range s.programs {
		for _, id := range p.shaders {
			s.dev.DetachShader(p.internal, s.shaders[id].handle)
		}
		s.dev.DeleteProgram(p.internal)
		p.public = InvalidProgram
	}
	for _, sh := range s.shaders {
		s.dev.DeleteShader(sh.handle)
	}

	s.programs = nil
	s.programIndex = nil
	s.shaders = nil
	s.shaderIndex = nil
}
