// Copyright (c) 2026 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2026.8.27
//

package gonav

import (
	"testing"

	"github.com/golang/geo/r3"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/mat"
)

// Central-difference step; the analytic Jacobians are checked against
// these to tolJac
const (
	numDelta = 1e-5
	tolJac   = 1e-5
	tolVal   = 1e-9
)

func checkJac(t *testing.T, want mat.Matrix, got *mat.Dense) {
	t.Helper()
	require.NotNil(t, got)
	if !mat.EqualApprox(want, got, tolJac) {
		t.Errorf("jacobian mismatch\nwant:\n%v\ngot:\n%v",
			mat.Formatted(want, mat.Squeeze()), mat.Formatted(got, mat.Squeeze()))
	}
}

// Manifold-valued function of a state
func numJacSS(f func(NavState) NavState, x NavState) *mat.Dense {
	f0 := f(x)
	j := mat.NewDense(9, 9, nil)
	for k := 0; k < 9; k++ {
		var d Vector9
		d[k] = numDelta
		cp := f0.LocalCoordinates(f(x.Retract(d, nil, nil)), nil, nil)
		cm := f0.LocalCoordinates(f(x.Retract(d.Neg(), nil, nil)), nil, nil)
		for i := 0; i < 9; i++ {
			j.Set(i, k, (cp[i]-cm[i])/(2*numDelta))
		}
	}
	return j
}

// Manifold-valued function of a tangent vector
func numJacVS(f func(Vector9) NavState, x Vector9) *mat.Dense {
	f0 := f(x)
	j := mat.NewDense(9, 9, nil)
	for k := 0; k < 9; k++ {
		var d Vector9
		d[k] = numDelta
		cp := f0.LocalCoordinates(f(x.Add(d)), nil, nil)
		cm := f0.LocalCoordinates(f(x.Sub(d)), nil, nil)
		for i := 0; i < 9; i++ {
			j.Set(i, k, (cp[i]-cm[i])/(2*numDelta))
		}
	}
	return j
}

// Manifold-valued function of a 3-vector
func numJac3S(f func(r3.Vector) NavState, x r3.Vector) *mat.Dense {
	f0 := f(x)
	j := mat.NewDense(9, 3, nil)
	for k := 0; k < 3; k++ {
		d := r3.Vector{}
		switch k {
		case 0:
			d.X = numDelta
		case 1:
			d.Y = numDelta
		case 2:
			d.Z = numDelta
		}
		cp := f0.LocalCoordinates(f(x.Add(d)), nil, nil)
		cm := f0.LocalCoordinates(f(x.Sub(d)), nil, nil)
		for i := 0; i < 9; i++ {
			j.Set(i, k, (cp[i]-cm[i])/(2*numDelta))
		}
	}
	return j
}

// Tangent-vector-valued function of a state
func numJacSV(f func(NavState) Vector9, x NavState) *mat.Dense {
	j := mat.NewDense(9, 9, nil)
	for k := 0; k < 9; k++ {
		var d Vector9
		d[k] = numDelta
		cp := f(x.Retract(d, nil, nil))
		cm := f(x.Retract(d.Neg(), nil, nil))
		for i := 0; i < 9; i++ {
			j.Set(i, k, (cp[i]-cm[i])/(2*numDelta))
		}
	}
	return j
}

// 3-vector-valued function of a state
func numJacS3(f func(NavState) r3.Vector, x NavState) *mat.Dense {
	j := mat.NewDense(3, 9, nil)
	for k := 0; k < 9; k++ {
		var d Vector9
		d[k] = numDelta
		cp := f(x.Retract(d, nil, nil))
		cm := f(x.Retract(d.Neg(), nil, nil))
		j.Set(0, k, (cp.X-cm.X)/(2*numDelta))
		j.Set(1, k, (cp.Y-cm.Y)/(2*numDelta))
		j.Set(2, k, (cp.Z-cm.Z)/(2*numDelta))
	}
	return j
}

// Rotation-valued function of a state
func numJacSRot(f func(NavState) Rot3, x NavState) *mat.Dense {
	f0 := f(x)
	j := mat.NewDense(3, 9, nil)
	for k := 0; k < 9; k++ {
		var d Vector9
		d[k] = numDelta
		cp := Rot3Logmap(f0.Inverse().Compose(f(x.Retract(d, nil, nil))), nil)
		cm := Rot3Logmap(f0.Inverse().Compose(f(x.Retract(d.Neg(), nil, nil))), nil)
		j.Set(0, k, (cp.X-cm.X)/(2*numDelta))
		j.Set(1, k, (cp.Y-cm.Y)/(2*numDelta))
		j.Set(2, k, (cp.Z-cm.Z)/(2*numDelta))
	}
	return j
}

// Plain vector map, differentiated with gonum
func numJacVV(f func(Vector9) Vector9, x Vector9) *mat.Dense {
	j := mat.NewDense(9, 9, nil)
	fd.Jacobian(j, func(dst, in []float64) {
		var xi Vector9
		copy(xi[:], in)
		out := f(xi)
		copy(dst, out[:])
	}, x[:], &fd.JacobianSettings{Formula: fd.Central})
	return j
}

// Rotation-valued function of a 3-vector
func numJac3Rot(f func(r3.Vector) Rot3, x r3.Vector) *mat.Dense {
	f0 := f(x)
	j := mat.NewDense(3, 3, nil)
	for k := 0; k < 3; k++ {
		d := r3.Vector{}
		switch k {
		case 0:
			d.X = numDelta
		case 1:
			d.Y = numDelta
		case 2:
			d.Z = numDelta
		}
		cp := Rot3Logmap(f0.Inverse().Compose(f(x.Add(d))), nil)
		cm := Rot3Logmap(f0.Inverse().Compose(f(x.Sub(d))), nil)
		j.Set(0, k, (cp.X-cm.X)/(2*numDelta))
		j.Set(1, k, (cp.Y-cm.Y)/(2*numDelta))
		j.Set(2, k, (cp.Z-cm.Z)/(2*numDelta))
	}
	return j
}

// 3-vector-valued function of a rotation
func numJacRot3(f func(Rot3) r3.Vector, x Rot3) *mat.Dense {
	j := mat.NewDense(3, 3, nil)
	for k := 0; k < 3; k++ {
		d := r3.Vector{}
		switch k {
		case 0:
			d.X = numDelta
		case 1:
			d.Y = numDelta
		case 2:
			d.Z = numDelta
		}
		cp := f(x.Expmap(d))
		cm := f(x.Expmap(d.Mul(-1)))
		j.Set(0, k, (cp.X-cm.X)/(2*numDelta))
		j.Set(1, k, (cp.Y-cm.Y)/(2*numDelta))
		j.Set(2, k, (cp.Z-cm.Z)/(2*numDelta))
	}
	return j
}
