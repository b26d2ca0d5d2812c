package scene

import "github.com/taigrr/deskscene/pkg/math3d"

// Material is a Phong reflectance description looked up by tag.
type Material struct {
	Tag             string
	AmbientColor    math3d.Vec3
	AmbientStrength float64
	DiffuseColor    math3d.Vec3
	SpecularColor   math3d.Vec3
	Shininess       float64
}

// MaterialRegistry is an ordered list of materials. Tags are not
// deduplicated; lookups return the first match.
type MaterialRegistry struct {
	materials []Material
}

// NewMaterialRegistry returns an empty registry.
func NewMaterialRegistry() *MaterialRegistry {
	return &MaterialRegistry{}
}

// Register appends m.
func (r *MaterialRegistry) Register(m Material) {
	r.materials = append(r.materials, m)
}

// Find returns the first material registered under tag.
func (r *MaterialRegistry) Find(tag string) (Material, bool) {
	for _, m := range r.materials {
		if m.Tag == tag {
			return m, true
		}
	}
	return Material{}, false
}

// All returns a copy of the registered materials in order.
func (r *MaterialRegistry) All() []Material {
	return append([]Material(nil), r.materials...)
}

// Len returns the number of registered materials.
func (r *MaterialRegistry) Len() int {
	return len(r.materials)
}

func gray(v float64) math3d.Vec3 { return math3d.V3(v, v, v) }

// DefaultMaterials returns the materials the desk scene uses.
func DefaultMaterials() []Material {
	return []Material{
		{
			Tag:             "metal",
			AmbientColor:    gray(0.25),
			AmbientStrength: 0.5,
			DiffuseColor:    gray(0.4),
			SpecularColor:   gray(1),
			Shininess:       128,
		},
		{
			Tag:             "floor",
			AmbientColor:    math3d.V3(0.3, 0.2, 0.1),
			AmbientStrength: 0.5,
			DiffuseColor:    math3d.V3(0.6, 0.4, 0.2),
			SpecularColor:   gray(0.5),
			Shininess:       32,
		},
		{
			Tag:             "glass",
			AmbientColor:    math3d.V3(0.3, 0.3, 0.5),
			AmbientStrength: 0.3,
			DiffuseColor:    math3d.V3(0.5, 0.5, 0.7),
			SpecularColor:   math3d.V3(0.9, 0.9, 1),
			Shininess:       64,
		},
		{
			Tag:             "table",
			AmbientColor:    gray(0.2),
			AmbientStrength: 0.5,
			DiffuseColor:    gray(0.6),
			SpecularColor:   gray(0.7),
			Shininess:       32,
		},
		{
			Tag:             "wall",
			AmbientColor:    math3d.V3(0.5, 0.79, 0.61),
			AmbientStrength: 0.3,
			DiffuseColor:    math3d.V3(0.5, 0.79, 0.61),
			SpecularColor:   gray(0.3),
			Shininess:       16,
		},
		{
			Tag:             "bookCover",
			AmbientColor:    math3d.V3(0.3, 0.2, 0.1),
			AmbientStrength: 0.5,
			DiffuseColor:    math3d.V3(0.5, 0.4, 0.3),
			SpecularColor:   math3d.V3(0.6, 0.5, 0.4),
			Shininess:       32,
		},
		{
			Tag:             "grayBlackLeather",
			AmbientColor:    gray(0.1),
			AmbientStrength: 0.6,
			DiffuseColor:    gray(0.2),
			SpecularColor:   gray(0.3),
			Shininess:       16,
		},
		{
			Tag:             "airFreshener",
			AmbientColor:    math3d.V3(0.4, 0.5, 0.4),
			AmbientStrength: 0.6,
			DiffuseColor:    math3d.V3(0.5, 0.7, 0.5),
			SpecularColor:   gray(0.8),
			Shininess:       32,
		},
	}
}
