package models

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Load reads a mesh file, choosing the parser by extension: .obj, or .glb
// and .gltf for glTF.
func Load(path string) (*Mesh, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".obj":
		return LoadOBJ(path)
	case ".glb", ".gltf":
		return LoadGLB(path)
	default:
		return nil, fmt.Errorf("unsupported mesh format %q (use .obj, .glb or .gltf)", ext)
	}
}
