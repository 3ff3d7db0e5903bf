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

// Tangent-space correction for the apparent forces of a reference
// frame rotating at omega [rad/s], accumulated over dt [s]. With
// secondOrder the centripetal term omega x (omega x p) is included.
// h (9x9) receives the Jacobian w.r.t. s
func (s NavState) Coriolis(dt float64, omega r3.Vector, secondOrder bool, h *mat.Dense) Vector9 {
	dt2 := dt * dt
	wxv := omega.Cross(s.vel)
	dw := s.rot.Unrotate(omega.Mul(-dt), nil, nil)
	dp := wxv.Mul(-dt2)
	dv := wxv.Mul(-2 * dt)
	if secondOrder {
		wwp := omega.Cross(omega.Cross(s.pos))
		dp = dp.Sub(wwp.Mul(0.5 * dt2))
		dv = dv.Sub(wwp.Mul(dt))
	}
	if reuse(h, 9, 9) {
		WR := mul3(skew(omega), s.rot.Matrix())
		setBlock(h, 0, 0, skew(dw))
		setBlock(h, 3, 6, scaled(-dt2, WR))
		setBlock(h, 6, 6, scaled(-2*dt, WR))
		if secondOrder {
			WWR := mul3(skew(omega), WR)
			setBlock(h, 3, 3, scaled(-0.5*dt2, WWR))
			setBlock(h, 6, 3, scaled(-dt, WWR))
		}
	}
	return NewVector9(dw, dp, dv)
}

// Correct a preintegrated relative-motion vector (integrated without
// knowledge of gravity or frame rotation) for gravity and, when
// omegaCoriolis is non-zero, for Coriolis effects. h1 (9x9) is the
// Jacobian w.r.t. the anchor state s, h2 (9x9) w.r.t. pim
func (s NavState) CorrectPIM(pim Vector9, dt float64, gravity, omegaCoriolis r3.Vector,
	secondOrder bool, h1, h2 *mat.Dense) Vector9 {

	dt22 := 0.5 * dt * dt
	bv := s.rot.Unrotate(s.vel, nil, nil)    // body-frame velocity
	bg := s.rot.Unrotate(gravity, nil, nil)  // body-frame gravity
	xi := NewVector9(
		pim.DR(),
		pim.DP().Add(bv.Mul(dt)).Add(bg.Mul(dt22)),
		pim.DV().Add(bg.Mul(dt)),
	)
	hasCoriolis := omegaCoriolis != (r3.Vector{})
	if hasCoriolis {
		xi = xi.Add(s.Coriolis(dt, omegaCoriolis, secondOrder, h1))
	}
	if h1 != nil {
		if !hasCoriolis {
			reuse(h1, 9, 9)
		}
		addBlock(h1, 3, 0, scaled(dt, skew(bv)))
		addBlock(h1, 3, 0, scaled(dt22, skew(bg)))
		addBlock(h1, 3, 6, scaled(dt, eye(3)))
		addBlock(h1, 6, 0, scaled(dt, skew(bg)))
	}
	if reuse(h2, 9, 9) {
		h2.Copy(eye(9))
	}
	return xi
}
