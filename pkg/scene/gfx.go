package scene

import "github.com/taigrr/meadow/pkg/math3d"

// Uniform names set by Entity.Draw. Programs that do not declare one of
// them ignore it.
const (
	UniformModel       = "u_model"
	UniformView        = "u_view"
	UniformProj        = "u_proj"
	UniformColor1      = "u_color1"
	UniformColor2      = "u_color2"
	UniformIsGround    = "u_is_ground"
	UniformUseTexture  = "u_use_texture"
	UniformAlphaCutout = "u_alpha_cutout"
	UniformDiffuse     = "u_diffuse"
)

// DiffuseUnit is the texture unit entities bind their texture to.
const DiffuseUnit = 0

// Geometry is a loaded mesh ready to draw. Draw issues one draw call for
// the whole vertex range using whatever program and textures are bound.
type Geometry interface {
	Draw()
}

// WrapMode controls texture addressing outside [0, 1].
type WrapMode int

// Wrap modes understood by every backend.
const (
	WrapRepeat WrapMode = iota
	WrapMirroredRepeat
	WrapClampToEdge
)

// String returns the scene-file spelling of the mode.
func (w WrapMode) String() string {
	switch w {
	case WrapMirroredRepeat:
		return "mirrored_repeat"
	case WrapClampToEdge:
		return "clamp"
	default:
		return "repeat"
	}
}

// ParseWrapMode parses the scene-file spelling. The empty string is repeat.
func ParseWrapMode(s string) (WrapMode, bool) {
	switch s {
	case "", "repeat":
		return WrapRepeat, true
	case "mirrored_repeat", "mirrored":
		return WrapMirroredRepeat, true
	case "clamp", "clamp_to_edge":
		return WrapClampToEdge, true
	default:
		return WrapRepeat, false
	}
}

// Texture is a loaded image ready for sampling.
type Texture interface {
	Bind(unit int)
	SetWrapMode(mode WrapMode)
}

// Program is a linked shader program. Setters for names the program does
// not use are silent no-ops.
type Program interface {
	Use()
	SetMat4(name string, m math3d.Mat4)
	SetVec3(name string, v math3d.Vec3)
	SetInt(name string, v int)
}

// AssetLoader creates backend resources from files. Errors are returned as
// *AssetLoadError.
type AssetLoader interface {
	LoadGeometry(path string) (Geometry, error)
	LoadTexture(path string) (Texture, error)
	QuadGeometry() (Geometry, error)
}
