// Copyright (c) 2026 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2026.8.24
//

package gonav

import (
	"fmt"
	"math"
	"os"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/mat"
)

//-------------------------------------------------------------------
// Vector9
//-------------------------------------------------------------------

// Tangent vector of the navigation state manifold, ordered as
// (omega, rho, nu): attitude, position and velocity increments.
type Vector9 [9]float64

func NewVector9(w, p, v r3.Vector) Vector9 {
	return Vector9{w.X, w.Y, w.Z, p.X, p.Y, p.Z, v.X, v.Y, v.Z}
}

// Attitude increment (elements 0-2)
func (x Vector9) DR() r3.Vector {
	return r3.Vector{X: x[0], Y: x[1], Z: x[2]}
}

// Position increment (elements 3-5)
func (x Vector9) DP() r3.Vector {
	return r3.Vector{X: x[3], Y: x[4], Z: x[5]}
}

// Velocity increment (elements 6-8)
func (x Vector9) DV() r3.Vector {
	return r3.Vector{X: x[6], Y: x[7], Z: x[8]}
}

func (x Vector9) Add(y Vector9) Vector9 {
	for i := range x {
		x[i] += y[i]
	}
	return x
}

func (x Vector9) Sub(y Vector9) Vector9 {
	for i := range x {
		x[i] -= y[i]
	}
	return x
}

func (x Vector9) Neg() Vector9 {
	return x.Scale(-1)
}

func (x Vector9) Scale(s float64) Vector9 {
	for i := range x {
		x[i] *= s
	}
	return x
}

func (x Vector9) Norm() float64 {
	s := 0.0
	for _, v := range x {
		s += SQ(v)
	}
	return math.Sqrt(s)
}

// Convert to a gonum vector (copy)
func (x Vector9) Vec() *mat.VecDense {
	return mat.NewVecDense(9, x[:])
}

func (x Vector9) String() string {
	return fmt.Sprintf("[%.6g %.6g %.6g | %.6g %.6g %.6g | %.6g %.6g %.6g]",
		x[0], x[1], x[2], x[3], x[4], x[5], x[6], x[7], x[8])
}

//-------------------------------------------------------------------
// Small matrix helpers
//-------------------------------------------------------------------

// Skew-symmetric matrix of v, so that skew(v)*u = v x u
func skew(v r3.Vector) *mat.Dense {
	return mat.NewDense(3, 3, []float64{
		0, -v.Z, v.Y,
		v.Z, 0, -v.X,
		-v.Y, v.X, 0,
	})
}

func eye(n int) *mat.Dense {
	m := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		m.Set(i, i, 1)
	}
	return m
}

func mul3(a, b mat.Matrix) *mat.Dense {
	var m mat.Dense
	m.Mul(a, b)
	return &m
}

func scaled(k float64, a mat.Matrix) *mat.Dense {
	var m mat.Dense
	m.Scale(k, a)
	return &m
}

// Apply a 3x3 matrix to a 3-vector
func mulVec3(a mat.Matrix, v r3.Vector) r3.Vector {
	return r3.Vector{
		X: a.At(0, 0)*v.X + a.At(0, 1)*v.Y + a.At(0, 2)*v.Z,
		Y: a.At(1, 0)*v.X + a.At(1, 1)*v.Y + a.At(1, 2)*v.Z,
		Z: a.At(2, 0)*v.X + a.At(2, 1)*v.Y + a.At(2, 2)*v.Z,
	}
}

// Write src into dst starting at row r, column c
func setBlock(dst *mat.Dense, r, c int, src mat.Matrix) {
	br, bc := src.Dims()
	for i := 0; i < br; i++ {
		for j := 0; j < bc; j++ {
			dst.Set(r+i, c+j, src.At(i, j))
		}
	}
}

// Add src into dst starting at row r, column c
func addBlock(dst *mat.Dense, r, c int, src mat.Matrix) {
	br, bc := src.Dims()
	for i := 0; i < br; i++ {
		for j := 0; j < bc; j++ {
			dst.Set(r+i, c+j, dst.At(r+i, c+j)+src.At(i, j))
		}
	}
}

// Prepare an optional Jacobian output: nil means the caller does not
// want the derivative and no work is done
func reuse(h *mat.Dense, r, c int) bool {
	if h == nil {
		return false
	}
	h.Reset()
	h.ReuseAs(r, c)
	h.Zero()
	return true
}

//-------------------------------------------------------------------
// Mini functions
//-------------------------------------------------------------------

func SQ(x float64) float64 {
	return x * x
}

func ToDeg(rad float64) float64 {
	return rad / PI * 180.0
}

func ToRad(deg float64) float64 {
	return deg / 180.0 * PI
}

//-------------------------------------------------------------------
// Debug print function
//-------------------------------------------------------------------

func PrintMat(X mat.Matrix) {
	r, c := X.Dims()
	fmt.Fprintf(os.Stderr, "(%d x %d)\n", r, c)
	fa := mat.Formatted(X, mat.Prefix(""), mat.Squeeze())
	fmt.Fprintf(os.Stderr, "%v\n", fa)
}

func PrintA(format string, a ...any) {
	fmt.Fprintf(os.Stderr, format, a...)
}

func PrintAIf(cond bool, format string, a ...any) {
	if cond {
		PrintA(format, a...)
	}
}

// Debug display level
var DBG_ int

// Debug display
func PrintD(v int, format string, a ...any) {
	PrintAIf(DBG_ >= v, format, a...)
}

func PrintE(err error) {
	fmt.Fprintf(os.Stderr, "err=%s\n", err.Error())
}
