package scene

import (
	"errors"
	"fmt"

	"github.com/taigrr/meadow/pkg/math3d"
)

// call is one recorded program or resource operation.
type call struct {
	op   string
	name string
	mat  math3d.Mat4
	vec  math3d.Vec3
	i    int
}

type recorder struct {
	calls []call
}

func (r *recorder) ops() []string {
	out := make([]string, len(r.calls))
	for i, c := range r.calls {
		if c.name != "" {
			out[i] = c.op + " " + c.name
		} else {
			out[i] = c.op
		}
	}
	return out
}

type fakeProgram struct{ rec *recorder }

func (p fakeProgram) Use() { p.rec.calls = append(p.rec.calls, call{op: "use"}) }

func (p fakeProgram) SetMat4(name string, m math3d.Mat4) {
	p.rec.calls = append(p.rec.calls, call{op: "mat4", name: name, mat: m})
}

func (p fakeProgram) SetVec3(name string, v math3d.Vec3) {
	p.rec.calls = append(p.rec.calls, call{op: "vec3", name: name, vec: v})
}

func (p fakeProgram) SetInt(name string, v int) {
	p.rec.calls = append(p.rec.calls, call{op: "int", name: name, i: v})
}

type fakeGeometry struct {
	name string
	rec  *recorder
}

func (g *fakeGeometry) Draw() {
	if g.rec != nil {
		g.rec.calls = append(g.rec.calls, call{op: "draw", name: g.name})
	}
}

type fakeTexture struct {
	path string
	wrap WrapMode
	rec  *recorder
}

func (t *fakeTexture) Bind(unit int) {
	if t.rec != nil {
		t.rec.calls = append(t.rec.calls, call{op: "bind", name: t.path, i: unit})
	}
}

func (t *fakeTexture) SetWrapMode(mode WrapMode) { t.wrap = mode }

// fakeLoader hands out fake resources and fails for paths in fail.
type fakeLoader struct {
	rec      *recorder
	fail     map[string]bool
	meshes   []string
	textures []*fakeTexture
	quads    int
}

var errMissing = errors.New("no such file")

func (l *fakeLoader) LoadGeometry(path string) (Geometry, error) {
	if l.fail[path] {
		return nil, &AssetLoadError{Kind: "mesh", Path: path, Err: errMissing}
	}
	l.meshes = append(l.meshes, path)
	return &fakeGeometry{name: path, rec: l.rec}, nil
}

func (l *fakeLoader) LoadTexture(path string) (Texture, error) {
	if l.fail[path] {
		// Bare error: Build must wrap it.
		return nil, fmt.Errorf("decode %s: %w", path, errMissing)
	}
	t := &fakeTexture{path: path, rec: l.rec}
	l.textures = append(l.textures, t)
	return t, nil
}

func (l *fakeLoader) QuadGeometry() (Geometry, error) {
	l.quads++
	return &fakeGeometry{name: BuiltinQuad, rec: l.rec}, nil
}
