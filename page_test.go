package pdfpng

import "testing"

func TestViewportFor(t *testing.T) {
	tests := []struct {
		name   string
		w, h   float64
		scale  float64
		wantW  int
		wantH  int
		wantDP float64
	}{
		{"letter", 612, 792, Scale, 1224, 1584, 144},
		{"a4", 595.28, 841.89, Scale, 1190, 1683, 144},
		{"unit scale", 612, 792, 1, 612, 792, 72},
		{"negative box", -612, -792, Scale, 1224, 1584, 144},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vp := ViewportFor(tt.w, tt.h, tt.scale)
			if vp.Width != tt.wantW || vp.Height != tt.wantH {
				t.Errorf("ViewportFor(%v, %v, %v) = %dx%d, want %dx%d",
					tt.w, tt.h, tt.scale, vp.Width, vp.Height, tt.wantW, tt.wantH)
			}
			if vp.DPI() != tt.wantDP {
				t.Errorf("DPI() = %v, want %v", vp.DPI(), tt.wantDP)
			}
		})
	}
}

func TestViewportEmpty(t *testing.T) {
	if !(Viewport{}).Empty() {
		t.Error("zero viewport should be empty")
	}
	if ViewportFor(612, 792, Scale).Empty() {
		t.Error("letter viewport should not be empty")
	}
}
