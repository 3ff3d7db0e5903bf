// Copyright (c) 2026 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2026.8.25
//

package gonav

import (
	"fmt"
	"math"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/num/quat"
)

//-------------------------------------------------------------------
// Rot3
//-------------------------------------------------------------------

// Attitude as an element of the rotation group SO(3).
// Stored as a unit quaternion; all operations return new values.
type Rot3 struct {
	q quat.Number
}

func Rot3Identity() Rot3 {
	return Rot3{q: quat.Number{Real: 1}}
}

// Build from an arbitrary non-zero quaternion (normalized on entry)
func NewRot3FromQuat(q quat.Number) Rot3 {
	n := quat.Abs(q)
	return Rot3{q: quat.Number{Real: q.Real / n, Imag: q.Imag / n, Jmag: q.Jmag / n, Kmag: q.Kmag / n}}
}

// Build from a 3x3 rotation matrix (Shepperd's method)
func NewRot3FromMatrix(m mat.Matrix) (Rot3, error) {
	r, c := m.Dims()
	if r != 3 || c != 3 {
		return Rot3{}, fmt.Errorf("invalid matrix size. R(%d x %d), want (3 x 3)", r, c)
	}
	m00, m01, m02 := m.At(0, 0), m.At(0, 1), m.At(0, 2)
	m10, m11, m12 := m.At(1, 0), m.At(1, 1), m.At(1, 2)
	m20, m21, m22 := m.At(2, 0), m.At(2, 1), m.At(2, 2)
	var w, x, y, z float64
	tr := m00 + m11 + m22
	switch {
	case tr > 0:
		s := math.Sqrt(tr+1.0) * 2
		w = 0.25 * s
		x = (m21 - m12) / s
		y = (m02 - m20) / s
		z = (m10 - m01) / s
	case m00 > m11 && m00 > m22:
		s := math.Sqrt(1.0+m00-m11-m22) * 2
		w = (m21 - m12) / s
		x = 0.25 * s
		y = (m01 + m10) / s
		z = (m02 + m20) / s
	case m11 > m22:
		s := math.Sqrt(1.0+m11-m00-m22) * 2
		w = (m02 - m20) / s
		x = (m01 + m10) / s
		y = 0.25 * s
		z = (m12 + m21) / s
	default:
		s := math.Sqrt(1.0+m22-m00-m11) * 2
		w = (m10 - m01) / s
		x = (m02 + m20) / s
		y = (m12 + m21) / s
		z = 0.25 * s
	}
	return NewRot3FromQuat(quat.Number{Real: w, Imag: x, Jmag: y, Kmag: z}), nil
}

// Rotation of a [rad] around the X axis
func Rx(a float64) Rot3 {
	s, c := math.Sincos(a / 2)
	return Rot3{q: quat.Number{Real: c, Imag: s}}
}

// Rotation of a [rad] around the Y axis
func Ry(a float64) Rot3 {
	s, c := math.Sincos(a / 2)
	return Rot3{q: quat.Number{Real: c, Jmag: s}}
}

// Rotation of a [rad] around the Z axis
func Rz(a float64) Rot3 {
	s, c := math.Sincos(a / 2)
	return Rot3{q: quat.Number{Real: c, Kmag: s}}
}

// Rz(z) * Ry(y) * Rx(x): roll x about the body X axis applied first
func RzRyRx(x, y, z float64) Rot3 {
	return Rz(z).Compose(Ry(y)).Compose(Rx(x))
}

func (r Rot3) Quat() quat.Number {
	return r.q
}

func (r Rot3) Compose(o Rot3) Rot3 {
	return Rot3{q: quat.Mul(r.q, o.q)}
}

func (r Rot3) Inverse() Rot3 {
	return Rot3{q: quat.Conj(r.q)}
}

// Convert to a 3x3 rotation matrix
func (r Rot3) Matrix() *mat.Dense {
	w, x, y, z := r.q.Real, r.q.Imag, r.q.Jmag, r.q.Kmag
	return mat.NewDense(3, 3, []float64{
		1 - 2*(y*y+z*z), 2 * (x*y - z*w), 2 * (x*z + y*w),
		2 * (x*y + z*w), 1 - 2*(x*x+z*z), 2 * (y*z - x*w),
		2 * (x*z - y*w), 2 * (y*z + x*w), 1 - 2*(x*x+y*y),
	})
}

// Roll, pitch, yaw angles such that RzRyRx(roll, pitch, yaw) == r
func (r Rot3) RPY() (roll, pitch, yaw float64) {
	m := r.Matrix()
	pitch = math.Asin(-m.At(2, 0))
	roll = math.Atan2(m.At(2, 1), m.At(2, 2))
	yaw = math.Atan2(m.At(1, 0), m.At(0, 0))
	return
}

// Express a reference-frame vector v in this frame after rotation: R * v.
// h1 (3x3) is the Jacobian w.r.t. the rotation tangent, h2 (3x3) w.r.t. v.
func (r Rot3) Rotate(v r3.Vector, h1, h2 *mat.Dense) r3.Vector {
	out := r.apply(v)
	if reuse(h1, 3, 3) {
		h1.Scale(-1, mul3(r.Matrix(), skew(v)))
	}
	if reuse(h2, 3, 3) {
		h2.Copy(r.Matrix())
	}
	return out
}

// Express v in the body frame: R^T * v
func (r Rot3) Unrotate(v r3.Vector, h1, h2 *mat.Dense) r3.Vector {
	out := r.Inverse().apply(v)
	if reuse(h1, 3, 3) {
		h1.Copy(skew(out))
	}
	if reuse(h2, 3, 3) {
		h2.Copy(r.Matrix().T())
	}
	return out
}

func (r Rot3) apply(v r3.Vector) r3.Vector {
	p := quat.Number{Imag: v.X, Jmag: v.Y, Kmag: v.Z}
	out := quat.Mul(quat.Mul(r.q, p), quat.Conj(r.q))
	return r3.Vector{X: out.Imag, Y: out.Jmag, Z: out.Kmag}
}

// Compare up to quaternion sign
func (r Rot3) ApproxEqual(o Rot3, tol float64) bool {
	d := r.q.Real*o.q.Real + r.q.Imag*o.q.Imag + r.q.Jmag*o.q.Jmag + r.q.Kmag*o.q.Kmag
	return 1-math.Abs(d) < tol
}

func (r Rot3) String() string {
	roll, pitch, yaw := r.RPY()
	return fmt.Sprintf("rpy(%.6g %.6g %.6g)", roll, pitch, yaw)
}

//-------------------------------------------------------------------
// Exponential and logarithm maps on SO(3)
//-------------------------------------------------------------------

// Exponential map at the identity: rotation of |w| [rad] around axis w.
// h (3x3), if given, receives the right Jacobian Jr(w)
func Rot3Expmap(w r3.Vector, h *mat.Dense) Rot3 {
	if reuse(h, 3, 3) {
		h.Copy(Rot3ExpmapDerivative(w))
	}
	th2 := w.Norm2()
	var c, f float64 // f = sin(th/2)/th
	if th2 < 1e-10 {
		c = 1 - th2/8
		f = 0.5 - th2/48
	} else {
		th := math.Sqrt(th2)
		c = math.Cos(th / 2)
		f = math.Sin(th/2) / th
	}
	return Rot3{q: quat.Number{Real: c, Imag: f * w.X, Jmag: f * w.Y, Kmag: f * w.Z}}
}

// Logarithm map: the w such that Rot3Expmap(w) == r, with |w| <= pi.
// h (3x3), if given, receives the inverse right Jacobian Jr(w)^-1
func Rot3Logmap(r Rot3, h *mat.Dense) r3.Vector {
	q := r.q
	if q.Real < 0 { // shortest arc
		q = quat.Scale(-1, q)
	}
	v := r3.Vector{X: q.Imag, Y: q.Jmag, Z: q.Kmag}
	n2 := v.Norm2()
	var f float64 // f = theta/|v|
	if n2 < 1e-14 {
		f = 2/q.Real - 2*n2/(3*q.Real*q.Real*q.Real)
	} else {
		n := math.Sqrt(n2)
		f = 2 * math.Atan2(n, q.Real) / n
	}
	w := v.Mul(f)
	if reuse(h, 3, 3) {
		h.Copy(Rot3LogmapDerivative(w))
	}
	return w
}

// Right Jacobian of the exponential map:
// Log(Exp(w)^T Exp(w+d)) = Jr(w) d to first order in d
func Rot3ExpmapDerivative(w r3.Vector) *mat.Dense {
	W := skew(w)
	W2 := mul3(W, W)
	th2 := w.Norm2()
	var a, b float64
	if th2 < 1e-10 {
		a, b = 0.5, 1.0/6.0
	} else {
		th := math.Sqrt(th2)
		a = (1 - math.Cos(th)) / th2
		b = (th - math.Sin(th)) / (th2 * th)
	}
	j := eye(3)
	addBlock(j, 0, 0, scaled(-a, W))
	addBlock(j, 0, 0, scaled(b, W2))
	return j
}

// Inverse of the right Jacobian
func Rot3LogmapDerivative(w r3.Vector) *mat.Dense {
	W := skew(w)
	W2 := mul3(W, W)
	th2 := w.Norm2()
	var c float64
	if th2 < 1e-10 {
		c = 1.0/12.0 + th2/720.0
	} else {
		th := math.Sqrt(th2)
		c = 1/th2 - (1+math.Cos(th))/(2*th*math.Sin(th))
	}
	j := eye(3)
	addBlock(j, 0, 0, scaled(0.5, W))
	addBlock(j, 0, 0, scaled(c, W2))
	return j
}

// Left Jacobian Jl(w) = Jr(-w), the V matrix of the SE(3)-style
// exponential: translation = Jl(w) * rho
func rot3LeftJacobian(w r3.Vector) *mat.Dense {
	W := skew(w)
	W2 := mul3(W, W)
	th2 := w.Norm2()
	var a, b float64
	if th2 < 1e-10 {
		a, b = 0.5, 1.0/6.0
	} else {
		th := math.Sqrt(th2)
		a = (1 - math.Cos(th)) / th2
		b = (th - math.Sin(th)) / (th2 * th)
	}
	j := eye(3)
	addBlock(j, 0, 0, scaled(a, W))
	addBlock(j, 0, 0, scaled(b, W2))
	return j
}

func rot3LeftJacobianInverse(w r3.Vector) *mat.Dense {
	W := skew(w)
	W2 := mul3(W, W)
	th2 := w.Norm2()
	var c float64
	if th2 < 1e-10 {
		c = 1.0/12.0 + th2/720.0
	} else {
		th := math.Sqrt(th2)
		c = 1/th2 - (1+math.Cos(th))/(2*th*math.Sin(th))
	}
	j := eye(3)
	addBlock(j, 0, 0, scaled(-0.5, W))
	addBlock(j, 0, 0, scaled(c, W2))
	return j
}

// Group composition with the exponential of w on the right
func (r Rot3) Expmap(w r3.Vector) Rot3 {
	return r.Compose(Rot3Expmap(w, nil))
}
