package models

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/taigrr/meadow/pkg/math3d"
)

// LoadOBJ loads a Wavefront OBJ file. All objects and groups in the file are
// merged into one mesh; materials are ignored.
func LoadOBJ(path string) (*Mesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open obj: %w", err)
	}
	defer f.Close()

	mesh, err := ParseOBJ(f, filepath.Base(path))
	if err != nil {
		return nil, fmt.Errorf("parse obj %s: %w", filepath.Base(path), err)
	}
	return mesh, nil
}

// objCorner is one v/vt/vn reference of a face, already resolved to
// zero-based indices; -1 marks an absent attribute.
type objCorner struct {
	v, vt, vn int
}

// ParseOBJ reads OBJ data from r. Each distinct v/vt/vn combination becomes
// one mesh vertex. Vertices without a normal get (0, 1, 0) and vertices
// without a texture coordinate get (0, 0). Polygons are fan-triangulated.
func ParseOBJ(r io.Reader, name string) (*Mesh, error) {
	var (
		positions []math3d.Vec3
		uvs       []math3d.Vec2
		normals   []math3d.Vec3
	)

	mesh := NewMesh(name)
	seen := make(map[objCorner]int)

	vertexFor := func(c objCorner) int {
		if idx, ok := seen[c]; ok {
			return idx
		}
		v := MeshVertex{
			Position: positions[c.v],
			Normal:   math3d.Up(),
		}
		if c.vt >= 0 {
			v.UV = uvs[c.vt]
		}
		if c.vn >= 0 {
			v.Normal = normals[c.vn]
		}
		idx := len(mesh.Vertices)
		mesh.Vertices = append(mesh.Vertices, v)
		seen[c] = idx
		return idx
	}

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || line[0] == '#' {
			continue
		}
		fields := strings.Fields(line)

		switch fields[0] {
		case "v":
			p, err := parseFloats(fields[1:], 3)
			if err != nil {
				return nil, fmt.Errorf("line %d: vertex: %w", lineNo, err)
			}
			positions = append(positions, math3d.V3(p[0], p[1], p[2]))
		case "vt":
			p, err := parseFloats(fields[1:], 2)
			if err != nil {
				return nil, fmt.Errorf("line %d: texcoord: %w", lineNo, err)
			}
			uvs = append(uvs, math3d.V2(p[0], p[1]))
		case "vn":
			p, err := parseFloats(fields[1:], 3)
			if err != nil {
				return nil, fmt.Errorf("line %d: normal: %w", lineNo, err)
			}
			normals = append(normals, math3d.V3(p[0], p[1], p[2]).Normalize())
		case "f":
			if len(fields) < 4 {
				return nil, fmt.Errorf("line %d: face needs at least 3 vertices, got %d", lineNo, len(fields)-1)
			}
			corners := make([]int, 0, len(fields)-1)
			for _, ref := range fields[1:] {
				c, err := parseCorner(ref, len(positions), len(uvs), len(normals))
				if err != nil {
					return nil, fmt.Errorf("line %d: face: %w", lineNo, err)
				}
				corners = append(corners, vertexFor(c))
			}
			for i := 1; i+1 < len(corners); i++ {
				mesh.Faces = append(mesh.Faces, Face{V: [3]int{corners[0], corners[i], corners[i+1]}})
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read obj: %w", err)
	}
	if len(mesh.Faces) == 0 {
		return nil, fmt.Errorf("no faces")
	}

	mesh.CalculateBounds()
	return mesh, nil
}

func parseFloats(fields []string, n int) ([]float64, error) {
	if len(fields) < n {
		return nil, fmt.Errorf("want %d components, got %d", n, len(fields))
	}
	out := make([]float64, n)
	for i := range n {
		f, err := strconv.ParseFloat(fields[i], 64)
		if err != nil {
			return nil, err
		}
		out[i] = f
	}
	return out, nil
}

// parseCorner resolves a "v", "v/vt", "v//vn" or "v/vt/vn" reference.
func parseCorner(ref string, nv, nvt, nvn int) (objCorner, error) {
	parts := strings.Split(ref, "/")
	c := objCorner{v: -1, vt: -1, vn: -1}

	var err error
	if c.v, err = resolveIndex(parts[0], nv); err != nil {
		return c, fmt.Errorf("position %q: %w", ref, err)
	}
	if len(parts) > 1 && parts[1] != "" {
		if c.vt, err = resolveIndex(parts[1], nvt); err != nil {
			return c, fmt.Errorf("texcoord %q: %w", ref, err)
		}
	}
	if len(parts) > 2 && parts[2] != "" {
		if c.vn, err = resolveIndex(parts[2], nvn); err != nil {
			return c, fmt.Errorf("normal %q: %w", ref, err)
		}
	}
	return c, nil
}

// resolveIndex turns a 1-based or negative (relative) OBJ index into a
// zero-based one.
func resolveIndex(s string, count int) (int, error) {
	i, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	switch {
	case i > 0 && i <= count:
		return i - 1, nil
	case i < 0 && -i <= count:
		return count + i, nil
	default:
		return 0, fmt.Errorf("index %d out of range (have %d)", i, count)
	}
}
