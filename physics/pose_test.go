package physics

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"gonum.org/v1/gonum/floats/scalar"

	"github.com/fabiodr/rigid-ipc/interval"
)

func TestInterpolate(t *testing.T) {
	p0 := Pose{Position: mgl64.Vec3{0, 0, 0}, Rotation: mgl64.Vec3{0, 0, 0}}
	p1 := Pose{Position: mgl64.Vec3{2, 4, 0}, Rotation: mgl64.Vec3{0, 0, math.Pi}}

	half := Interpolate(p0, p1, 0.5)
	if !scalar.EqualWithinAbs(half.Position.X(), 1, 1e-12) ||
		!scalar.EqualWithinAbs(half.Position.Y(), 2, 1e-12) {
		t.Errorf("midpoint position = %v", half.Position)
	}
	if !scalar.EqualWithinAbs(half.Rotation.Z(), math.Pi/2, 1e-12) {
		t.Errorf("midpoint rotation = %v", half.Rotation)
	}

	if got := Interpolate(p0, p1, 0); got != p0 {
		t.Errorf("t=0 should return the first pose, got %+v", got)
	}
	if got := Interpolate(p0, p1, 1); got != p1 {
		t.Errorf("t=1 should return the second pose, got %+v", got)
	}
}

func TestRotationMatrixPlanar(t *testing.T) {
	p := Pose{Rotation: mgl64.Vec3{0, 0, math.Pi / 2}}
	r := p.RotationMatrix()
	got := r.Mul3x1(mgl64.Vec3{1, 0, 0})
	want := mgl64.Vec3{0, 1, 0}
	for i := 0; i < 3; i++ {
		if !scalar.EqualWithinAbs(got[i], want[i], 1e-12) {
			t.Fatalf("quarter turn about Z: got %v, want %v", got, want)
		}
	}
}

func TestRotationMatrixAxisAngle(t *testing.T) {
	cases := []struct {
		name  string
		axis  mgl64.Vec3
		in    mgl64.Vec3
		want  mgl64.Vec3
		atTol float64
	}{
		{"quarter turn about X", mgl64.Vec3{math.Pi / 2, 0, 0}, mgl64.Vec3{0, 1, 0}, mgl64.Vec3{0, 0, 1}, 1e-12},
		{"half turn about Y", mgl64.Vec3{0, math.Pi, 0}, mgl64.Vec3{1, 0, 0}, mgl64.Vec3{-1, 0, 0}, 1e-12},
		{"tiny angle is near identity", mgl64.Vec3{1e-9, 0, 0}, mgl64.Vec3{0, 1, 0}, mgl64.Vec3{0, 1, 0}, 1e-8},
		{"zero rotation", mgl64.Vec3{0, 0, 0}, mgl64.Vec3{1, 2, 3}, mgl64.Vec3{1, 2, 3}, 0},
	}
	for _, c := range cases {
		r := Pose{Rotation: c.axis}.RotationMatrix()
		got := r.Mul3x1(c.in)
		for i := 0; i < 3; i++ {
			if !scalar.EqualWithinAbs(got[i], c.want[i], math.Max(c.atTol, 1e-12)) {
				t.Errorf("%s: got %v, want %v", c.name, got, c.want)
				break
			}
		}
	}
}

// The interval rotation matrix must enclose the double-precision one for
// every rotation vector in the enclosure.
func TestRotationMatrixIntervalEnclosesPoint(t *testing.T) {
	axes := []mgl64.Vec3{
		{0, 0, 0.3},
		{0.5, -0.2, 0.1},
		{0, 0, 0},
		{2.0, 1.0, -0.5},
	}
	for _, w := range axes {
		exact := Pose{Rotation: w}.RotationMatrix()
		enclosed := Pose{Rotation: w}.Cast().RotationMatrix()
		for row := 0; row < 3; row++ {
			for col := 0; col < 3; col++ {
				if !enclosed.At(row, col).Contains(exact.At(row, col)) {
					t.Errorf("axis %v: element (%d, %d) = %v not in %v",
						w, row, col, exact.At(row, col), enclosed.At(row, col))
				}
			}
		}
	}
}

// An interval pose interpolated over the full time range must enclose
// every pose along the trajectory.
func TestInterpolateIntervalEnclosesTrajectory(t *testing.T) {
	p0 := Pose{Position: mgl64.Vec3{0, 1, 0}, Rotation: mgl64.Vec3{0, 0, 0}}
	p1 := Pose{Position: mgl64.Vec3{3, -1, 0}, Rotation: mgl64.Vec3{0, 0, math.Pi / 3}}

	enclosure := InterpolateInterval(p0, p1, interval.New(0, 1))
	for i := 0; i <= 8; i++ {
		tt := float64(i) / 8
		pose := Interpolate(p0, p1, tt)
		for k := 0; k < 3; k++ {
			if !enclosure.Position[k].Contains(pose.Position[k]) {
				t.Errorf("t=%v: position[%d] = %v escaped %v", tt, k, pose.Position[k], enclosure.Position[k])
			}
			if !enclosure.Rotation[k].Contains(pose.Rotation[k]) {
				t.Errorf("t=%v: rotation[%d] = %v escaped %v", tt, k, pose.Rotation[k], enclosure.Rotation[k])
			}
		}
	}
}

func TestPoseAddScale(t *testing.T) {
	p := Pose{Position: mgl64.Vec3{1, 2, 3}, Rotation: mgl64.Vec3{0.1, 0.2, 0.3}}
	q := p.Add(p.Scale(-1))
	if q.Position.Len() != 0 || q.Rotation.Len() != 0 {
		t.Errorf("p + (-1)*p = %+v, want zero pose", q)
	}
}
