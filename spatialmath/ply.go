package spatialmath

import (
	"fmt"
	"io"
	"os"

	"github.com/chenzhekl/goply"
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"github.com/samber/lo"
)

// LoadPLY reads an ASCII PLY file into a mesh. Polygonal faces are fanned into triangles.
func LoadPLY(path string) (*Mesh, error) {
	//nolint:gosec
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = f.Close()
	}()
	m, err := ReadPLY(f)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot read mesh from %q", path)
	}
	return m, nil
}

// ReadPLY parses an ASCII PLY document from r into a mesh.
func ReadPLY(r io.Reader) (mesh *Mesh, err error) {
	var ply *goply.Ply
	func() {
		defer func() {
			if p := recover(); p != nil {
				err = errors.Errorf("invalid ply data: %v", p)
			}
		}()
		ply = goply.New(r)
	}()
	if err != nil {
		return nil, err
	}

	vertices := make([]r3.Vector, 0, len(ply.Elements("vertex")))
	for i, v := range ply.Elements("vertex") {
		var coords [3]float64
		for axis, name := range []string{"x", "y", "z"} {
			value, ok := plyNumber(v[name])
			if !ok {
				return nil, errors.Errorf("vertex %d has no numeric %q property", i, name)
			}
			coords[axis] = value
		}
		vertices = append(vertices, toVector(coords))
	}

	faces := ply.Elements("face")
	triangles := make([]*Triangle, 0, len(faces))
	for i, face := range faces {
		raw, ok := face["vertex_index"].([]interface{})
		if !ok {
			raw, ok = face["vertex_indices"].([]interface{})
		}
		if !ok {
			return nil, errors.Errorf("face %d has no vertex index list", i)
		}
		indices := lo.FilterMap(raw, func(item interface{}, _ int) (int, bool) {
			value, ok := plyNumber(item)
			return int(value), ok
		})
		if len(indices) != len(raw) || len(indices) < 3 {
			return nil, errors.Errorf("face %d has invalid vertex indices %v", i, raw)
		}
		for _, idx := range indices {
			if idx < 0 || idx >= len(vertices) {
				return nil, errors.Errorf("face %d references vertex %d of %d", i, idx, len(vertices))
			}
		}
		for k := 1; k+1 < len(indices); k++ {
			triangles = append(triangles, NewTriangle(vertices[indices[0]], vertices[indices[k]], vertices[indices[k+1]]))
		}
	}
	return NewMesh(triangles), nil
}

func plyNumber(value interface{}) (float64, bool) {
	switch v := value.(type) {
	case float32:
		return float64(v), true
	case float64:
		return v, true
	case int8:
		return float64(v), true
	case uint8:
		return float64(v), true
	case int16:
		return float64(v), true
	case uint16:
		return float64(v), true
	case int32:
		return float64(v), true
	case uint32:
		return float64(v), true
	default:
		return 0, false
	}
}

// WritePLY writes the triangles of m as an ASCII PLY document, one vertex triple per face.
func WritePLY(w io.Writer, m *Mesh) error {
	triangles := m.Triangles()
	if _, err := fmt.Fprintf(w,
		"ply\nformat ascii 1.0\nelement vertex %d\nproperty double x\nproperty double y\nproperty double z\n"+
			"element face %d\nproperty list uchar int vertex_index\nend_header\n",
		3*len(triangles), len(triangles)); err != nil {
		return err
	}
	for _, tri := range triangles {
		for _, p := range tri.Points() {
			if _, err := fmt.Fprintf(w, "%g %g %g\n", p.X, p.Y, p.Z); err != nil {
				return err
			}
		}
	}
	for i := range triangles {
		if _, err := fmt.Fprintf(w, "3 %d %d %d\n", 3*i, 3*i+1, 3*i+2); err != nil {
			return err
		}
	}
	return nil
}
