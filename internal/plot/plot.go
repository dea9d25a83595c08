// Package plot reads plot files: lists of shapes with their control points,
// built without a window.
package plot

import (
	"errors"
	"fmt"
	"os"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/Faultbox/fieldplot/internal/drawing"
	"github.com/Faultbox/fieldplot/internal/logger"
	"github.com/Faultbox/fieldplot/pkg/math"
)

// ErrEmptyPlot is returned for a plot file without shapes.
var ErrEmptyPlot = errors.New("plot has no shapes")

// File is a parsed plot file.
//
//	shapes:
//	  - name: north
//	    kind: box
//	    points: [[-10, -10], [10, 10]]
//	  - kind: freeform
//	    points: [[0, 0], [20, 0, 5], [10, 15]]
type File struct {
	Shapes []Shape `yaml:"shapes"`
}

// Shape is one shape of a plot file.
type Shape struct {
	Name   string       `yaml:"name"`
	Kind   drawing.Kind `yaml:"kind"`
	Points []Point      `yaml:"points"`
}

// Point is a control point written as [x, z] or [x, y, z]. The height is
// ignored by ground projection but kept for the record.
type Point math.Vec3

// UnmarshalYAML implements yaml.Unmarshaler.
func (p *Point) UnmarshalYAML(value *yaml.Node) error {
	var v []float32
	if err := value.Decode(&v); err != nil {
		return err
	}
	switch len(v) {
	case 2:
		*p = Point{X: v[0], Z: v[1]}
	case 3:
		*p = Point{X: v[0], Y: v[1], Z: v[2]}
	default:
		return fmt.Errorf("line %d: point needs 2 or 3 coordinates, got %d", value.Line, len(v))
	}
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (p Point) MarshalYAML() (interface{}, error) {
	node := &yaml.Node{Kind: yaml.SequenceNode, Style: yaml.FlowStyle}
	for _, v := range []float32{p.X, p.Y, p.Z} {
		node.Content = append(node.Content, &yaml.Node{
			Kind:  yaml.ScalarNode,
			Value: fmt.Sprint(v),
		})
	}
	return node, nil
}

// Vec3 returns p as a vector.
func (p Point) Vec3() math.Vec3 {
	return math.Vec3(p)
}

// Load reads and parses a plot file.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	f, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// Parse parses plot file contents.
func Parse(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, err
	}
	if len(f.Shapes) == 0 {
		return nil, ErrEmptyPlot
	}
	for i := range f.Shapes {
		if f.Shapes[i].Name == "" {
			f.Shapes[i].Name = fmt.Sprintf("%s-%d", f.Shapes[i].Kind, i+1)
		}
	}
	return &f, nil
}

// Report is the outcome of building one shape.
type Report struct {
	Name      string
	Kind      drawing.Kind
	Handle    drawing.MeshHandle
	Vertices  int
	Triangles int
	Warnings  []string
	Err       error
}

// Build draws every shape through coord as an interactive session would. A
// failing shape is reported and skipped; the combined error lists every failure.
func Build(coord *drawing.Coordinator, f *File) ([]Report, error) {
	log := logger.Named("plot")
	reports := make([]Report, 0, len(f.Shapes))
	var errs error

	for _, sh := range f.Shapes {
		r := buildShape(coord, sh)
		if r.Err != nil {
			errs = multierr.Append(errs, fmt.Errorf("%s: %w", sh.Name, r.Err))
			log.Warn("shape failed",
				zap.String("name", sh.Name),
				zap.Stringer("kind", sh.Kind),
				zap.Error(r.Err),
			)
		} else {
			log.Info("shape built",
				zap.String("name", sh.Name),
				zap.Stringer("kind", sh.Kind),
				zap.Int("vertices", r.Vertices),
				zap.Int("triangles", r.Triangles),
				zap.Strings("warnings", r.Warnings),
			)
		}
		reports = append(reports, r)
	}
	return reports, errs
}

func buildShape(coord *drawing.Coordinator, sh Shape) Report {
	r := Report{Name: sh.Name, Kind: sh.Kind}

	s, err := coord.Start(sh.Kind)
	if err != nil {
		r.Err = err
		return r
	}
	for _, p := range sh.Points {
		if err := s.AddPoint(p.Vec3()); err != nil {
			s.Reset()
			r.Err = err
			return r
		}
	}

	res, err := s.Finalize()
	if err != nil {
		s.Reset()
		r.Err = err
		return r
	}
	r.Handle = res.Handle
	r.Vertices = res.Mesh.VertexCount()
	r.Triangles = res.Mesh.TriangleCount()
	r.Warnings = res.Warnings
	return r
}
