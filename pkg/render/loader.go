package render

import (
	"errors"
	"io/fs"
	"path/filepath"

	"github.com/taigrr/meadow/pkg/log"
	"github.com/taigrr/meadow/pkg/models"
	"github.com/taigrr/meadow/pkg/scene"
)

var logger = log.New("render")

// Loader creates device resources from files. It implements
// scene.AssetLoader.
type Loader struct {
	dev  *Device
	base string

	// Placeholders substitutes a quad for missing meshes and a checkerboard
	// for missing textures instead of failing.
	Placeholders bool

	quad *Mesh
}

// NewLoader returns a loader resolving relative paths against base.
func NewLoader(dev *Device, base string) *Loader {
	return &Loader{dev: dev, base: base}
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
		if l.Placeholders && errors.Is(err, fs.ErrNotExist) {
			logger.Warningf("mesh %s not found, using placeholder quad", path)
			return l.QuadGeometry()
		}
		return nil, &scene.AssetLoadError{Kind: "mesh", Path: path, Err: err}
	}
	logger.Debugf("mesh %s: %d vertices, %d triangles", path, m.VertexCount(), m.TriangleCount())
	return l.dev.NewMesh(m), nil
}

// LoadTexture loads and decodes an image.
func (l *Loader) LoadTexture(path string) (scene.Texture, error) {
	img, err := LoadImage(l.resolve(path))
	if err != nil {
		if l.Placeholders && errors.Is(err, fs.ErrNotExist) {
			logger.Warningf("texture %s not found, using checkerboard", path)
			return l.dev.CheckerTexture(64, 8, RGB(200, 200, 200), RGB(100, 100, 100)), nil
		}
		return nil, &scene.AssetLoadError{Kind: "texture", Path: path, Err: err}
	}
	b := img.Bounds()
	logger.Debugf("texture %s: %dx%d", path, b.Dx(), b.Dy())
	return l.dev.TextureFromImage(img), nil
}

// QuadGeometry returns the shared unit quad.
func (l *Loader) QuadGeometry() (scene.Geometry, error) {
	if l.quad == nil {
		l.quad = l.dev.NewMesh(models.Quad())
	}
	return l.quad, nil
}
