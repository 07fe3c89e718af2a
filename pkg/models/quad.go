package models

import "github.com/taigrr/meadow/pkg/math3d"

// Quad returns a unit quad standing on the XZ plane: it spans x in
// [-0.5, 0.5] and y in [0, 1] at z = 0, facing +Z. Ground-cover sprites use
// it with an alpha-cutout texture.
func Quad() *Mesh {
	n := math3d.V3(0, 0, 1)
	return &Mesh{
		Name: "quad",
		Vertices: []MeshVertex{
			{Position: math3d.V3(-0.5, 0, 0), Normal: n, UV: math3d.V2(0, 0)},
			{Position: math3d.V3(0.5, 0, 0), Normal: n, UV: math3d.V2(1, 0)},
			{Position: math3d.V3(0.5, 1, 0), Normal: n, UV: math3d.V2(1, 1)},
			{Position: math3d.V3(-0.5, 1, 0), Normal: n, UV: math3d.V2(0, 1)},
		},
		Faces: []Face{
			{V: [3]int{0, 1, 2}},
			{V: [3]int{0, 2, 3}},
		},
		BoundsMin: math3d.V3(-0.5, 0, 0),
		BoundsMax: math3d.V3(0.5, 1, 0),
	}
}
