package embedding

import "testing"

func TestTruncate(t *testing.T) {
	tests := []struct {
		name    string
		inLen   int
		wantLen int
	}{
		{"empty", 0, 0},
		{"short", 10, 10},
		{"exact limit", MaxEmbeddingDim, MaxEmbeddingDim},
		{"one over", MaxEmbeddingDim + 1, MaxEmbeddingDim},
		{"far over", 3072, MaxEmbeddingDim},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := make([]float32, tt.inLen)
			for i := range in {
				in[i] = float32(i)
			}

			out := Truncate(in)
			if len(out) != tt.wantLen {
				t.Fatalf("len = %d, want %d", len(out), tt.wantLen)
			}
			// Prefix must be preserved exactly
			for i := range out {
				if out[i] != in[i] {
					t.Fatalf("out[%d] = %v, want %v", i, out[i], in[i])
				}
			}
		})
	}
}

func TestTruncateNil(t *testing.T) {
	out := Truncate(nil)
	if out == nil || len(out) != 0 {
		t.Fatalf("Truncate(nil) = %v, want empty slice", out)
	}
}

func TestTruncateCopies(t *testing.T) {
	in := []float32{1, 2, 3}
	out := Truncate(in)
	out[0] = 99
	if in[0] != 1 {
		t.Fatal("Truncate must not alias the input slice")
	}
}

func TestCheckDim(t *testing.T) {
	vec := make([]float32, 768)
	if err := CheckDim(vec, 768); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := CheckDim(vec, 1536); err == nil {
		t.Fatal("expected dimension mismatch error")
	}
}

func TestNormalizeVector(t *testing.T) {
	vec := []float32{3, 4}
	norm := normalizeVector(vec)
	var mag float64
	for _, v := range norm {
		mag += float64(v) * float64(v)
	}
	if mag < 0.999 || mag > 1.001 {
		t.Fatalf("magnitude = %f, want 1", mag)
	}

	zero := []float32{0, 0}
	if got := normalizeVector(zero); got[0] != 0 || got[1] != 0 {
		t.Fatal("zero vector must pass through unchanged")
	}
}
