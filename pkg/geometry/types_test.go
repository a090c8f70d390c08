package geometry

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"gonum.org/v1/gonum/mat"
)

var approx = cmpopts.EquateApprox(0, 1e-9)

// homogeneous returns t as a 3x3 matrix with the implicit bottom row.
func homogeneous(t AffineTransform) *mat.Dense {
	return mat.NewDense(3, 3, []float64{
		t.A, t.B, t.TX,
		t.C, t.D, t.TY,
		0, 0, 1,
	})
}

func fromHomogeneous(m mat.Matrix) AffineTransform {
	return AffineTransform{
		A: m.At(0, 0), B: m.At(0, 1), TX: m.At(0, 2),
		C: m.At(1, 0), D: m.At(1, 1), TY: m.At(1, 2),
	}
}

var sampleTransforms = []AffineTransform{
	Identity(),
	Translation(100, -40),
	Scale(2, 2),
	ScaleAbout(1.5, 1.5, 150, 150),
	{A: 0.5, B: 0.1, TX: 3, C: -0.2, D: 1.25, TY: 7},
}

func TestComposeMatchesMatrixProduct(t *testing.T) {
	for i, a := range sampleTransforms {
		for j, b := range sampleTransforms {
			var want mat.Dense
			want.Mul(homogeneous(a), homogeneous(b))

			got := a.Compose(b)
			if diff := cmp.Diff(fromHomogeneous(&want), got, approx); diff != "" {
				t.Errorf("%d∘%d mismatch (-want +got):\n%s", i, j, diff)
			}
		}
	}
}

func TestComposeOrder(t *testing.T) {
	// translate after scaling: the point is scaled first
	m := Translation(10, 0).Compose(Scale(2, 2))
	got := m.Apply(NewPoint2D(1, 1))
	if diff := cmp.Diff(NewPoint2D(12, 2), got, approx); diff != "" {
		t.Errorf("Apply mismatch (-want +got):\n%s", diff)
	}
}

func TestInverse(t *testing.T) {
	for i, tr := range sampleTransforms {
		inv, ok := tr.Inverse()
		if !ok {
			t.Fatalf("%d: transform reported singular", i)
		}

		var want mat.Dense
		if err := want.Inverse(homogeneous(tr)); err != nil {
			t.Fatalf("%d: gonum inverse: %v", i, err)
		}
		if diff := cmp.Diff(fromHomogeneous(&want), inv, approx); diff != "" {
			t.Errorf("%d: inverse mismatch (-want +got):\n%s", i, diff)
		}
		if diff := cmp.Diff(Identity(), tr.Compose(inv), approx); diff != "" {
			t.Errorf("%d: t∘t⁻¹ is not identity:\n%s", i, diff)
		}
	}

	if _, ok := Scale(0, 1).Inverse(); ok {
		t.Error("zero scale should not be invertible")
	}
}

func TestScaleAboutKeepsPivot(t *testing.T) {
	pivot := NewPoint2D(150, 150)
	for _, s := range []float64{0.25, 1, 2, 7.5} {
		got := ScaleAbout(s, s, pivot.X, pivot.Y).Apply(pivot)
		if diff := cmp.Diff(pivot, got, approx); diff != "" {
			t.Errorf("scale %v moved pivot (-want +got):\n%s", s, diff)
		}
	}
	if got := ScaleAbout(2, 2, 150, 150).ScaleFactor(); got != 2 {
		t.Errorf("ScaleFactor = %v, want 2", got)
	}
}

func TestAspectFit(t *testing.T) {
	tests := []struct {
		name    string
		bounds  Rect
		content Size
		want    Rect
	}{
		{
			name:    "same ratio fills",
			bounds:  NewRect(0, 0, 400, 200),
			content: NewSize(800, 400),
			want:    NewRect(0, 0, 400, 200),
		},
		{
			name:    "square letterboxed left and right",
			bounds:  NewRect(0, 0, 400, 200),
			content: NewSize(400, 400),
			want:    NewRect(100, 0, 200, 200),
		},
		{
			name:    "tall viewport letterboxed top and bottom",
			bounds:  NewRect(0, 0, 200, 400),
			content: NewSize(100, 50),
			want:    NewRect(0, 150, 200, 100),
		},
		{
			name:    "offset bounds",
			bounds:  NewRect(10, 20, 100, 100),
			content: NewSize(50, 50),
			want:    NewRect(10, 20, 100, 100),
		},
		{
			name:    "empty content",
			bounds:  NewRect(0, 0, 400, 200),
			content: NewSize(0, 10),
			want:    NewRect(200, 100, 0, 0),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AspectFit(tt.bounds, tt.content)
			if diff := cmp.Diff(tt.want, got, approx); diff != "" {
				t.Errorf("AspectFit mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
