// Copyright (c) 2026 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2026.8.27
//

package gonav

import (
	"math"
	"testing"

	"github.com/golang/geo/r3"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestUpdate(t *testing.T) {
	omega := r3.Vector{X: math.Pi / 100}
	acc := r3.Vector{X: 0.1}
	dt := 10.0

	// closed form: constant measurements, midpoint velocity
	nAcc := kAttitude.Rotate(acc, nil, nil)
	expected := NewNavState(
		kAttitude.Expmap(omega.Mul(dt)),
		kPosition.Add(kVelocity.Add(nAcc.Mul(dt/2)).Mul(dt)),
		kVelocity.Add(nAcc.Mul(dt)))

	aF, aG1, aG2 := new(mat.Dense), new(mat.Dense), new(mat.Dense)
	actual := kState1.Update(acc, omega, dt, aF, aG1, aG2)
	require.True(t, actual.ApproxEqual(expected, 1e-12))

	checkUpdateJacobians(t, kState1, acc, omega, dt, aF, aG1, aG2)

	// different values
	omega = r3.Vector{X: 0.1, Y: 0.2, Z: 0.3}
	acc = r3.Vector{X: 0.4, Y: 0.5, Z: 0.6}
	kState1.Update(acc, omega, dt, aF, aG1, aG2)
	checkUpdateJacobians(t, kState1, acc, omega, dt, aF, aG1, aG2)
}

func checkUpdateJacobians(t *testing.T, s NavState, acc, omega r3.Vector, dt float64, aF, aG1, aG2 *mat.Dense) {
	t.Helper()
	checkJac(t, numJacSS(func(x NavState) NavState {
		return x.Update(acc, omega, dt, nil, nil, nil)
	}, s), aF)
	checkJac(t, numJac3S(func(a r3.Vector) NavState {
		return s.Update(a, omega, dt, nil, nil, nil)
	}, acc), aG1)
	checkJac(t, numJac3S(func(w r3.Vector) NavState {
		return s.Update(acc, w, dt, nil, nil, nil)
	}, omega), aG2)
}

func TestUpdateZeroDt(t *testing.T) {
	out := kState1.Update(r3.Vector{X: 1}, r3.Vector{Y: 1}, 0, nil, nil, nil)
	require.True(t, out.ApproxEqual(kState1, 1e-12))
}

func TestUpdateComposesOverSteps(t *testing.T) {
	// two half steps with zero rotation rate equal one full step
	acc := r3.Vector{X: 0.1, Y: -0.2, Z: 0.3}
	full := kState1.Update(acc, r3.Vector{}, 1.0, nil, nil, nil)
	half := kState1.Update(acc, r3.Vector{}, 0.5, nil, nil, nil)
	half = half.Update(acc, r3.Vector{}, 0.5, nil, nil, nil)
	require.True(t, half.ApproxEqual(full, 1e-9))
}
