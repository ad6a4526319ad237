package main

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/shaderset/internal/engine/gldevice"
	"github.com/Faultbox/shaderset/internal/engine/window"
	"github.com/Faultbox/shaderset/internal/logger"
)

// viewer draws a full-screen triangle with the selected program.
// Vertex shaders are expected to derive positions from gl_VertexID.
type viewer struct {
	win      *window.Window
	entries  []entry
	selected int
	vao      uint32
	width    int32
	height   int32

	lastTitle string
}

func newViewer(win *window.Window, entries []entry) *viewer {
	v := &viewer{win: win, entries: entries}
	// Core profile requires a bound VAO even with no attributes.
	gl.GenVertexArrays(1, &v.vao)
	v.resize(win.DrawableSize())
	v.selectProgram(0)
	return v
}

func (v *viewer) close() {
	if v.vao != 0 {
		gl.DeleteVertexArrays(1, &v.vao)
	}
}

func (v *viewer) resize(width, height int32) {
	v.width, v.height = width, height
	gl.Viewport(0, 0, width, height)
}

func (v *viewer) selectProgram(i int) {
	if i < 0 || i >= len(v.entries) {
		return
	}
	v.selected = i
	logger.Info("program selected",
		zap.String("name", v.entries[i].name),
		zap.Strings("shaders", v.entries[i].program.Paths()),
	)
}

func (v *viewer) draw(seconds float32) {
	e := v.entries[v.selected]

	v.updateTitle(e)

	// Read the handle every frame: it goes invalid while a link is failing.
	handle := e.program.Handle()
	if !e.program.Valid() {
		gl.ClearColor(0.5, 0.0, 0.1, 1.0)
		gl.Clear(gl.COLOR_BUFFER_BIT)
		return
	}

	gl.ClearColor(0.1, 0.1, 0.15, 1.0)
	gl.Clear(gl.COLOR_BUFFER_BIT)

	// Locations are looked up per frame since a relink may move them.
	gl.UseProgram(handle)
	if loc := gldevice.GetUniform(handle, "uTime"); loc >= 0 {
		gl.Uniform1f(loc, seconds)
	}
	if loc := gldevice.GetUniform(handle, "uResolution"); loc >= 0 {
		gl.Uniform2f(loc, float32(v.width), float32(v.height))
	}
	gl.BindVertexArray(v.vao)
	gl.DrawArrays(gl.TRIANGLES, 0, 3)
	gl.BindVertexArray(0)
}

func (v *viewer) updateTitle(e entry) {
	title := fmt.Sprintf("shaderview - [%d/%d] %s (%s)", v.selected+1, len(v.entries), e.name, e.program.State())
	if title != v.lastTitle {
		v.lastTitle = title
		v.win.SetTitle(title)
	}
}
