package glrender

import (
	"path/filepath"

	"github.com/taigrr/meadow/pkg/models"
	"github.com/taigrr/meadow/pkg/render"
	"github.com/taigrr/meadow/pkg/scene"
)

// Loader uploads meshes and textures into a Context. It implements
// scene.AssetLoader.
type Loader struct {
	ctx  *Context
	base string
	quad *Mesh
}

// NewLoader returns a loader resolving relative paths against base.
func NewLoader(ctx *Context, base string) *Loader {
	return &Loader{ctx: ctx, base: base}
}

func (l *Loader) resolve(path string) string {
	if filepath.IsAbs(path) || l.base == "" {
		return path
	}
	return filepath.Join(l.base, path)
}

// LoadGeometry loads an OBJ or glTF mesh.
func (l *Loader) LoadGeometry(path string) (scene.Geometry, error) {
	m, err := models.Load(l.resolve(path))
	if err != nil {
		return nil, &scene.AssetLoadError{Kind: "mesh", Path: path, Err: err}
	}
	logger.Debugf("mesh %s: %d triangles", path, m.TriangleCount())
	return l.ctx.NewMesh(m), nil
}

// LoadTexture decodes an image and uploads it with mipmaps.
func (l *Loader) LoadTexture(path string) (scene.Texture, error) {
	img, err := render.LoadImage(l.resolve(path))
	if err != nil {
		return nil, &scene.AssetLoadError{Kind: "texture", Path: path, Err: err}
	}
	b := img.Bounds()
	logger.Debugf("texture %s: %dx%d", path, b.Dx(), b.Dy())
	return l.ctx.NewTexture(img), nil
}

// QuadGeometry returns the shared unit quad.
func (l *Loader) QuadGeometry() (scene.Geometry, error) {
	if l.quad == nil {
		l.quad = l.ctx.NewMesh(models.Quad())
	}
	return l.quad, nil
}
