// Copyright (c) 2026 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2026.8.26
//

package gonav

import (
	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/mat"
)

// Propagate the state over dt [s] with a body-frame specific force
// acc [m/s^2] and angular rate omega [rad/s], both held constant over
// the interval. The position uses the midpoint velocity, so the
// result matches the closed form
//
//	R' = R * Exp(dt*omega)
//	p' = p + (v + R*acc*dt/2) * dt
//	v' = v + R*acc * dt
//
// f (9x9) receives the Jacobian w.r.t. the previous state, g1/g2
// (9x3) the Jacobians w.r.t. acc and omega
func (s NavState) Update(acc, omega r3.Vector, dt float64, f, g1, g2 *mat.Dense) NavState {
	dw := omega.Mul(dt)
	nAcc := s.rot.apply(acc) // reference-frame acceleration, pre-update attitude
	out := NavState{
		rot: s.rot.Expmap(dw),
		pos: s.pos.Add(s.vel.Add(nAcc.Mul(dt / 2)).Mul(dt)),
		vel: s.vel.Add(nAcc.Mul(dt)),
	}
	// D rotates tangent vectors at the old state into the tangent
	// space at the propagated state
	var D mat.Dense
	if f != nil || g1 != nil {
		D.CloneFrom(Rot3Expmap(dw, nil).Matrix().T())
	}
	if reuse(f, 9, 9) {
		DA := mul3(&D, skew(acc))
		setBlock(f, 0, 0, &D)
		setBlock(f, 3, 3, &D)
		setBlock(f, 6, 6, &D)
		setBlock(f, 3, 0, scaled(-dt*dt/2, DA))
		setBlock(f, 3, 6, scaled(dt, &D))
		setBlock(f, 6, 0, scaled(-dt, DA))
	}
	if reuse(g1, 9, 3) {
		setBlock(g1, 3, 0, scaled(dt*dt/2, &D))
		setBlock(g1, 6, 0, scaled(dt, &D))
	}
	if reuse(g2, 9, 3) {
		setBlock(g2, 0, 0, scaled(dt, Rot3ExpmapDerivative(dw)))
	}
	return out
}
