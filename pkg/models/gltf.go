package models

import (
	"encoding/binary"
	"fmt"
	"math"
	"path/filepath"

	"github.com/qmuntal/gltf"

	"github.com/taigrr/meadow/pkg/math3d"
)

// GLTFLoader loads GLTF/GLB files into Mesh format.
type GLTFLoader struct {
	// CalculateNormals fills in smooth normals when the file has none.
	CalculateNormals bool
}

// NewGLTFLoader creates a new GLTF loader with default options.
func NewGLTFLoader() *GLTFLoader {
	return &GLTFLoader{CalculateNormals: true}
}

// LoadGLB loads a binary or JSON glTF file with the default options.
func LoadGLB(path string) (*Mesh, error) {
	return NewGLTFLoader().Load(path)
}

// Load loads a GLTF or GLB file and returns every triangle primitive merged
// into one Mesh. Node transforms are not applied.
func (l *GLTFLoader) Load(path string) (*Mesh, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gltf: %w", err)
	}

	mesh := NewMesh(filepath.Base(path))
	hasNormals := true

	for _, m := range doc.Meshes {
		for _, prim := range m.Primitives {
			ok, err := appendPrimitive(doc, prim, mesh)
			if err != nil {
				return nil, fmt.Errorf("process mesh %q: %w", m.Name, err)
			}
			hasNormals = hasNormals && ok
		}
	}
	if len(mesh.Faces) == 0 {
		return nil, fmt.Errorf("gltf %s: no triangle primitives", mesh.Name)
	}

	if l.CalculateNormals && !hasNormals {
		mesh.CalculateSmoothNormals()
	}
	mesh.CalculateBounds()

	return mesh, nil
}

// appendPrimitive adds one primitive's triangles to mesh and reports whether
// it carried normals.
func appendPrimitive(doc *gltf.Document, prim *gltf.Primitive, mesh *Mesh) (bool, error) {
	if prim.Mode != gltf.PrimitiveTriangles && prim.Mode != 0 {
		return true, nil
	}

	posIdx, ok := prim.Attributes[gltf.POSITION]
	if !ok {
		return true, nil
	}
	positions, err := readFloats(doc, posIdx, gltf.AccessorVec3)
	if err != nil {
		return false, fmt.Errorf("read positions: %w", err)
	}

	var normals, uvs [][]float32
	if idx, ok := prim.Attributes[gltf.NORMAL]; ok {
		if normals, err = readFloats(doc, idx, gltf.AccessorVec3); err != nil {
			return false, fmt.Errorf("read normals: %w", err)
		}
	}
	if idx, ok := prim.Attributes[gltf.TEXCOORD_0]; ok {
		if uvs, err = readFloats(doc, idx, gltf.AccessorVec2); err != nil {
			return false, fmt.Errorf("read uvs: %w", err)
		}
	}

	base := len(mesh.Vertices)
	for i, p := range positions {
		v := MeshVertex{
			Position: math3d.V3(float64(p[0]), float64(p[1]), float64(p[2])),
			Normal:   math3d.Up(),
		}
		if i < len(normals) {
			v.Normal = math3d.V3(float64(normals[i][0]), float64(normals[i][1]), float64(normals[i][2]))
		}
		if i < len(uvs) {
			// glTF puts v=0 at the top of the image; textures here are
			// flipped on load so v=0 is the bottom row.
			v.UV = math3d.V2(float64(uvs[i][0]), 1-float64(uvs[i][1]))
		}
		mesh.Vertices = append(mesh.Vertices, v)
	}

	var indices []int
	if prim.Indices != nil {
		if indices, err = readIndices(doc, *prim.Indices); err != nil {
			return false, fmt.Errorf("read indices: %w", err)
		}
	} else {
		indices = make([]int, len(positions))
		for i := range indices {
			indices[i] = i
		}
	}

	for i := 0; i+2 < len(indices); i += 3 {
		face := Face{V: [3]int{base + indices[i], base + indices[i+1], base + indices[i+2]}}
		for _, idx := range face.V {
			if idx >= len(mesh.Vertices) {
				return false, fmt.Errorf("index %d out of range", idx-base)
			}
		}
		mesh.Faces = append(mesh.Faces, face)
	}

	return len(normals) > 0, nil
}

// accessorBytes returns the backing bytes of an accessor and its stride.
func accessorBytes(doc *gltf.Document, accessor *gltf.Accessor, elemSize int) ([]byte, int, int, error) {
	if accessor.BufferView == nil {
		return nil, 0, 0, fmt.Errorf("accessor has no buffer view")
	}

	bufferView := doc.BufferViews[*accessor.BufferView]
	buffer := doc.Buffers[bufferView.Buffer]
	if buffer.Data == nil {
		return nil, 0, 0, fmt.Errorf("buffer %d has no data", bufferView.Buffer)
	}

	start := bufferView.ByteOffset + accessor.ByteOffset
	stride := bufferView.ByteStride
	if stride == 0 {
		stride = elemSize
	}
	if end := start + (accessor.Count-1)*stride + elemSize; accessor.Count > 0 && end > len(buffer.Data) {
		return nil, 0, 0, fmt.Errorf("accessor overruns buffer (%d > %d)", end, len(buffer.Data))
	}
	return buffer.Data, start, stride, nil
}

// readFloats reads a float VEC2/VEC3 accessor.
func readFloats(doc *gltf.Document, accessorIdx int, typ gltf.AccessorType) ([][]float32, error) {
	accessor := doc.Accessors[accessorIdx]
	if accessor.Type != typ {
		return nil, fmt.Errorf("expected %v, got %v", typ, accessor.Type)
	}
	if accessor.ComponentType != gltf.ComponentFloat {
		return nil, fmt.Errorf("unsupported component type %v", accessor.ComponentType)
	}

	n := 3
	if typ == gltf.AccessorVec2 {
		n = 2
	}
	data, start, stride, err := accessorBytes(doc, accessor, n*4)
	if err != nil {
		return nil, err
	}

	result := make([][]float32, accessor.Count)
	for i := range accessor.Count {
		offset := start + i*stride
		elem := make([]float32, n)
		for j := range n {
			elem[j] = math.Float32frombits(binary.LittleEndian.Uint32(data[offset+j*4:]))
		}
		result[i] = elem
	}
	return result, nil
}

// readIndices reads an unsigned SCALAR accessor.
func readIndices(doc *gltf.Document, accessorIdx int) ([]int, error) {
	accessor := doc.Accessors[accessorIdx]

	var size int
	switch accessor.ComponentType {
	case gltf.ComponentUbyte:
		size = 1
	case gltf.ComponentUshort:
		size = 2
	case gltf.ComponentUint:
		size = 4
	default:
		return nil, fmt.Errorf("unexpected index type: %v", accessor.ComponentType)
	}

	data, start, stride, err := accessorBytes(doc, accessor, size)
	if err != nil {
		return nil, err
	}

	result := make([]int, accessor.Count)
	for i := range accessor.Count {
		offset := start + i*stride
		switch size {
		case 1:
			result[i] = int(data[offset])
		case 2:
			result[i] = int(binary.LittleEndian.Uint16(data[offset:]))
		case 4:
			result[i] = int(binary.LittleEndian.Uint32(data[offset:]))
		}
	}
	return result, nil
}
