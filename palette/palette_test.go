package palette

import "testing"

func TestRampEnds(t *testing.T) {
	r := Default(2)

	if got := r.At(0); !got.AlmostEqualRgb(r.Cold.Clamped()) {
		t.Errorf("rest colour = %v, want %v", got.Hex(), r.Cold.Hex())
	}
	if got := r.At(2); !got.AlmostEqualRgb(r.Hot.Clamped()) {
		t.Errorf("full speed colour = %v, want %v", got.Hex(), r.Hot.Hex())
	}
	if r.At(100) != r.At(2) {
		t.Error("speeds past the scale should saturate")
	}
	if r.At(-1) != r.At(0) {
		t.Error("negative speeds should clamp to rest")
	}
}

func TestRampZeroScale(t *testing.T) {
	r := Default(0)
	if r.At(5) != r.At(0) {
		t.Error("zero scale should always return the cold colour")
	}
}
