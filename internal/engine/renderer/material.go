package renderer

// Material is a flat surface color with alpha.
type Material struct {
	Color [4]float32
}

// Materials used by the field scene.
var (
	MaterialTerrain        = Material{Color: [4]float32{0.42, 0.55, 0.30, 1}}
	MaterialField          = Material{Color: [4]float32{0.78, 0.66, 0.36, 1}}
	MaterialPreviewValid   = Material{Color: [4]float32{0.30, 0.85, 0.40, 0.55}}
	MaterialPreviewInvalid = Material{Color: [4]float32{0.90, 0.20, 0.20, 0.55}}
	MaterialOutline        = Material{Color: [4]float32{1, 1, 1, 1}}
	MaterialSelection      = Material{Color: [4]float32{1, 0.85, 0.2, 1}}
)

// PreviewMaterial returns the preview material for a placement state.
func PreviewMaterial(valid bool) Material {
	if valid {
		return MaterialPreviewValid
	}
	return MaterialPreviewInvalid
}

// Transparent reports whether the material needs blending.
func (m Material) Transparent() bool {
	return m.Color[3] < 1
}
