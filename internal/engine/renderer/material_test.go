package renderer

import "testing"

func TestPreviewMaterial(t *testing.T) {
	if PreviewMaterial(true) != MaterialPreviewValid {
		t.Error("valid placement should use the valid material")
	}
	if PreviewMaterial(false) != MaterialPreviewInvalid {
		t.Error("invalid placement should use the invalid material")
	}
	if !MaterialPreviewInvalid.Transparent() || MaterialField.Transparent() {
		t.Error("only preview materials are transparent")
	}
}
