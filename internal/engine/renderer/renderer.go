// Package renderer draws the terrain, finished fields, the live preview and
// debug lines with OpenGL.
package renderer

import (
	"fmt"
	"sort"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/fieldplot/internal/drawing"
	"github.com/Faultbox/fieldplot/internal/engine/lighting"
	"github.com/Faultbox/fieldplot/internal/engine/shader"
	"github.com/Faultbox/fieldplot/internal/logger"
	"github.com/Faultbox/fieldplot/internal/mesh"
	"github.com/Faultbox/fieldplot/pkg/math"
)

// Config holds renderer configuration.
type Config struct {
	Width  int
	Height int
	VSync  bool
}

// gpuMesh is an uploaded mesh.
type gpuMesh struct {
	vao, vbo, ebo uint32
	indexCount    int32
	origin        math.Vec3
	material      Material
	grid          float32
	bounds        mesh.Bounds
}

// lineBatch is a dynamic GL_LINES buffer.
type lineBatch struct {
	vao, vbo uint32
	count    int32
	material Material
}

// Renderer handles all OpenGL rendering.
type Renderer struct {
	config Config
	log    *zap.Logger

	meshProgram *shader.Program
	lineProgram *shader.Program

	terrain *gpuMesh
	fields  map[drawing.MeshHandle]*gpuMesh
	nextID  drawing.MeshHandle

	preview       *gpuMesh
	previewSource *mesh.Mesh

	lines map[string]*lineBatch

	Sun lighting.Sun
}

// New creates a new renderer.
// IMPORTANT: Must be called AFTER OpenGL context is created!
func New(cfg Config) (*Renderer, error) {
	r := &Renderer{
		config: cfg,
		log:    logger.Named("renderer"),
		fields: make(map[drawing.MeshHandle]*gpuMesh),
		lines:  make(map[string]*lineBatch),
		Sun:    lighting.DefaultSun(),
	}

	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	r.log.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
	)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LEQUAL)
	gl.Enable(gl.MULTISAMPLE)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	gl.ClearColor(0.55, 0.70, 0.85, 1.0) // Sky
	gl.Viewport(0, 0, int32(cfg.Width), int32(cfg.Height))

	var err error
	if r.meshProgram, err = shader.New(meshVertexShader, meshFragmentShader); err != nil {
		return nil, fmt.Errorf("mesh shader: %w", err)
	}
	if r.lineProgram, err = shader.New(lineVertexShader, lineFragmentShader); err != nil {
		r.meshProgram.Delete()
		return nil, fmt.Errorf("line shader: %w", err)
	}

	return r, nil
}

// Close cleans up renderer resources.
func (r *Renderer) Close() {
	r.log.Info("closing renderer")
	r.deleteMesh(r.terrain)
	r.deleteMesh(r.preview)
	for h, m := range r.fields {
		r.deleteMesh(m)
		delete(r.fields, h)
	}
	for name, b := range r.lines {
		gl.DeleteVertexArrays(1, &b.vao)
		gl.DeleteBuffers(1, &b.vbo)
		delete(r.lines, name)
	}
	r.meshProgram.Delete()
	r.lineProgram.Delete()
}

// Resize handles window resize.
func (r *Renderer) Resize(width, height int) {
	r.config.Width = width
	r.config.Height = height
	gl.Viewport(0, 0, int32(width), int32(height))
	r.log.Debug("renderer resized",
		zap.Int("width", width),
		zap.Int("height", height),
	)
}

// SetTerrain uploads the ground mesh, replacing any previous one. Grid lines
// are drawn grid times per UV unit; 0 disables them.
func (r *Renderer) SetTerrain(m *mesh.Mesh, grid float32) error {
	g, err := r.createMesh(m, MaterialTerrain)
	if err != nil {
		return err
	}
	g.grid = grid
	r.deleteMesh(r.terrain)
	r.terrain = g
	return nil
}

// Upload implements drawing.Uploader for finalized fields.
func (r *Renderer) Upload(m *mesh.Mesh) (drawing.MeshHandle, error) {
	g, err := r.createMesh(m, MaterialField)
	if err != nil {
		return 0, err
	}
	g.grid = 4
	r.nextID++
	r.fields[r.nextID] = g
	r.log.Debug("field uploaded",
		zap.Uint32("handle", uint32(r.nextID)),
		zap.Int32("indices", g.indexCount),
	)
	return r.nextID, nil
}

// Release deletes an uploaded field.
func (r *Renderer) Release(h drawing.MeshHandle) {
	if g, ok := r.fields[h]; ok {
		r.deleteMesh(g)
		delete(r.fields, h)
	}
}

// FieldBounds returns the world bounds of an uploaded field.
func (r *Renderer) FieldBounds(h drawing.MeshHandle) (mesh.Bounds, bool) {
	g, ok := r.fields[h]
	if !ok {
		return mesh.Bounds{}, false
	}
	return g.bounds, true
}

// SetPreview shows m with the valid or invalid preview material. The mesh is
// only re-uploaded when it changes; nil hides the preview.
func (r *Renderer) SetPreview(m *mesh.Mesh, valid bool) {
	if m != r.previewSource {
		r.deleteMesh(r.preview)
		r.preview, r.previewSource = nil, nil
		if m != nil {
			g, err := r.createMesh(m, MaterialPreviewValid)
			if err != nil {
				r.log.Debug("preview upload skipped", zap.Error(err))
				return
			}
			r.preview, r.previewSource = g, m
		}
	}
	if r.preview != nil {
		r.preview.material = PreviewMaterial(valid)
	}
}

// SetLines replaces the named line batch. vertices holds xyz pairs as
// produced by the debug package; an empty slice hides the batch.
func (r *Renderer) SetLines(name string, vertices []float32, mat Material) {
	b, ok := r.lines[name]
	if !ok {
		b = &lineBatch{}
		gl.GenVertexArrays(1, &b.vao)
		gl.GenBuffers(1, &b.vbo)
		gl.BindVertexArray(b.vao)
		gl.BindBuffer(gl.ARRAY_BUFFER, b.vbo)
		gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, 3*4, 0)
		gl.EnableVertexAttribArray(0)
		gl.BindVertexArray(0)
		r.lines[name] = b
	}
	b.material = mat
	b.count = int32(len(vertices) / 3)
	if b.count == 0 {
		return
	}
	gl.BindBuffer(gl.ARRAY_BUFFER, b.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*4, unsafe.Pointer(&vertices[0]), gl.DYNAMIC_DRAW)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
}

// Draw renders one frame.
func (r *Renderer) Draw(viewProj math.Mat4) {
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

	p := r.meshProgram
	p.Use()
	p.SetMat4("uViewProj", viewProj)
	p.SetVec3("uLightDir", r.Sun.Direction)
	p.SetVec3("uAmbient", math.Vec3{X: r.Sun.Ambient[0], Y: r.Sun.Ambient[1], Z: r.Sun.Ambient[2]})
	p.SetVec3("uDiffuse", math.Vec3{X: r.Sun.Diffuse[0], Y: r.Sun.Diffuse[1], Z: r.Sun.Diffuse[2]})

	gl.Disable(gl.CULL_FACE)
	r.drawMesh(r.terrain)

	// Fields sit a few centimetres above the terrain; offset the depth to
	// avoid z-fighting on steep cells.
	gl.Enable(gl.POLYGON_OFFSET_FILL)
	gl.PolygonOffset(-1, -1)
	handles := make([]drawing.MeshHandle, 0, len(r.fields))
	for h := range r.fields {
		handles = append(handles, h)
	}
	sort.Slice(handles, func(i, j int) bool { return handles[i] < handles[j] })
	for _, h := range handles {
		r.drawMesh(r.fields[h])
	}

	if r.preview != nil {
		gl.Enable(gl.BLEND)
		gl.DepthMask(false)
		r.drawMesh(r.preview)
		gl.DepthMask(true)
		gl.Disable(gl.BLEND)
	}
	gl.Disable(gl.POLYGON_OFFSET_FILL)

	r.drawLines(viewProj)
}

func (r *Renderer) drawMesh(g *gpuMesh) {
	if g == nil || g.indexCount == 0 {
		return
	}
	p := r.meshProgram
	p.SetVec3("uOrigin", g.origin)
	p.SetVec4("uColor", g.material.Color)
	p.SetFloat("uGrid", g.grid)

	gl.BindVertexArray(g.vao)
	gl.DrawElementsWithOffset(gl.TRIANGLES, g.indexCount, gl.UNSIGNED_INT, 0)
	gl.BindVertexArray(0)
}

func (r *Renderer) drawLines(viewProj math.Mat4) {
	if len(r.lines) == 0 {
		return
	}
	p := r.lineProgram
	p.Use()
	p.SetMat4("uViewProj", viewProj)

	gl.Disable(gl.DEPTH_TEST)
	for _, b := range r.lines {
		if b.count == 0 {
			continue
		}
		p.SetVec4("uColor", b.material.Color)
		gl.BindVertexArray(b.vao)
		gl.DrawArrays(gl.LINES, 0, b.count)
	}
	gl.BindVertexArray(0)
	gl.Enable(gl.DEPTH_TEST)
}

// ReadPixels returns the current frame as bottom-up RGBA rows.
func (r *Renderer) ReadPixels() ([]byte, int, int) {
	w, h := r.config.Width, r.config.Height
	pixels := make([]byte, w*h*4)
	gl.ReadPixels(0, 0, int32(w), int32(h), gl.RGBA, gl.UNSIGNED_BYTE, unsafe.Pointer(&pixels[0]))
	return pixels, w, h
}

// createMesh uploads interleaved vertices and indices into a new VAO.
func (r *Renderer) createMesh(m *mesh.Mesh, mat Material) (*gpuMesh, error) {
	if m == nil || m.TriangleCount() == 0 {
		return nil, fmt.Errorf("upload: %w", mesh.ErrMalformed)
	}
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("upload: %w", err)
	}
	vertices := m.Interleave()

	g := &gpuMesh{
		indexCount: int32(len(m.Triangles)),
		origin:     m.Origin,
		material:   mat,
		bounds:     m.WorldBounds(),
	}

	gl.GenVertexArrays(1, &g.vao)
	gl.BindVertexArray(g.vao)

	gl.GenBuffers(1, &g.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, g.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*4, unsafe.Pointer(&vertices[0]), gl.STATIC_DRAW)

	gl.GenBuffers(1, &g.ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, g.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(m.Triangles)*4, unsafe.Pointer(&m.Triangles[0]), gl.STATIC_DRAW)

	stride := int32(mesh.FloatsPerVertex * 4)
	// Position (location 0)
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, stride, 0)
	gl.EnableVertexAttribArray(0)
	// Normal (location 1)
	gl.VertexAttribPointerWithOffset(1, 3, gl.FLOAT, false, stride, 3*4)
	gl.EnableVertexAttribArray(1)
	// TexCoord (location 2)
	gl.VertexAttribPointerWithOffset(2, 2, gl.FLOAT, false, stride, 6*4)
	gl.EnableVertexAttribArray(2)

	gl.BindVertexArray(0)
	return g, nil
}

func (r *Renderer) deleteMesh(g *gpuMesh) {
	if g == nil {
		return
	}
	gl.DeleteVertexArrays(1, &g.vao)
	gl.DeleteBuffers(1, &g.vbo)
	gl.DeleteBuffers(1, &g.ebo)
}
