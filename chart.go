// Copyright (c) 2026 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2026.8.26
//

package gonav

import (
	"math"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/mat"
)

//-------------------------------------------------------------------
// Chart at the origin
//-------------------------------------------------------------------

// Chart at the identity: maps a tangent vector to a state by the
// componentwise rule (Exp(omega), rho, nu). This is deliberately not
// the group exponential; the two agree only to first order
func RetractAtOrigin(xi Vector9, h *mat.Dense) NavState {
	R := Rot3Expmap(xi.DR(), nil)
	if reuse(h, 9, 9) {
		Rt := R.Matrix().T()
		setBlock(h, 0, 0, Rot3ExpmapDerivative(xi.DR()))
		setBlock(h, 3, 3, Rt)
		setBlock(h, 6, 6, Rt)
	}
	return NavState{rot: R, pos: xi.DP(), vel: xi.DV()}
}

// Inverse of RetractAtOrigin: (Log(R), p, v)
func LocalAtOrigin(s NavState, h *mat.Dense) Vector9 {
	w := Rot3Logmap(s.rot, nil)
	if reuse(h, 9, 9) {
		R := s.rot.Matrix()
		setBlock(h, 0, 0, Rot3LogmapDerivative(w))
		setBlock(h, 3, 3, R)
		setBlock(h, 6, 6, R)
	}
	return NewVector9(w, s.pos, s.vel)
}

// Chart anchored at s: s composed with the chart at the origin.
// h1/h2 (9x9) are Jacobians w.r.t. s and xi
func (s NavState) Retract(xi Vector9, h1, h2 *mat.Dense) NavState {
	c := RetractAtOrigin(xi, h2)
	return s.Compose(c, h1, nil)
}

// Inverse chart: the xi with s.Retract(xi) == o.
// h1/h2 (9x9) are Jacobians w.r.t. s and o
func (s NavState) LocalCoordinates(o NavState, h1, h2 *mat.Dense) Vector9 {
	d := s.Inverse(nil).Compose(o, nil, nil)
	var hl *mat.Dense
	if h1 != nil || h2 != nil {
		hl = mat.NewDense(9, 9, nil)
	}
	xi := LocalAtOrigin(d, hl)
	if reuse(h1, 9, 9) {
		var m mat.Dense
		m.Mul(hl, d.Inverse(nil).AdjointMap())
		h1.Scale(-1, &m)
	}
	if reuse(h2, 9, 9) {
		h2.Copy(hl)
	}
	return xi
}

//-------------------------------------------------------------------
// Group exponential and logarithm
//-------------------------------------------------------------------

// Left group exponential at the identity. Unlike RetractAtOrigin the
// position and velocity blocks are coupled to the rotation through
// the SO(3) left Jacobian, as in the SE(3) exponential
func Expmap(xi Vector9, h *mat.Dense) NavState {
	if reuse(h, 9, 9) {
		h.Copy(ExpmapDerivative(xi))
	}
	w := xi.DR()
	Jl := rot3LeftJacobian(w)
	return NavState{
		rot: Rot3Expmap(w, nil),
		pos: mulVec3(Jl, xi.DP()),
		vel: mulVec3(Jl, xi.DV()),
	}
}

// Group logarithm: the xi with Expmap(xi) == s
func Logmap(s NavState, h *mat.Dense) Vector9 {
	w := Rot3Logmap(s.rot, nil)
	Jli := rot3LeftJacobianInverse(w)
	xi := NewVector9(w, mulVec3(Jli, s.pos), mulVec3(Jli, s.vel))
	if reuse(h, 9, 9) {
		h.Copy(LogmapDerivative(xi))
	}
	return xi
}

// Right Jacobian of the group exponential:
//
//	[ Jr(w)       0      0     ]
//	[ Q(w,rho)    Jr(w)  0     ]
//	[ Q(w,nu)     0      Jr(w) ]
func ExpmapDerivative(xi Vector9) *mat.Dense {
	w := xi.DR()
	Jr := Rot3ExpmapDerivative(w)
	j := mat.NewDense(9, 9, nil)
	setBlock(j, 0, 0, Jr)
	setBlock(j, 3, 3, Jr)
	setBlock(j, 6, 6, Jr)
	setBlock(j, 3, 0, expmapQ(w, xi.DP()))
	setBlock(j, 6, 0, expmapQ(w, xi.DV()))
	return j
}

// Blockwise inverse of ExpmapDerivative
func LogmapDerivative(xi Vector9) *mat.Dense {
	w := xi.DR()
	Jri := Rot3LogmapDerivative(w)
	j := mat.NewDense(9, 9, nil)
	setBlock(j, 0, 0, Jri)
	setBlock(j, 3, 3, Jri)
	setBlock(j, 6, 6, Jri)
	setBlock(j, 3, 0, scaled(-1, mul3(Jri, mul3(expmapQ(w, xi.DP()), Jri))))
	setBlock(j, 6, 0, scaled(-1, mul3(Jri, mul3(expmapQ(w, xi.DV()), Jri))))
	return j
}

// Off-diagonal block of the group right Jacobian, the closed form of
// Barfoot, "State Estimation for Robotics", eq. 7.86 (right version)
func expmapQ(w, v r3.Vector) *mat.Dense {
	W := skew(w)
	V := skew(v)
	WV := mul3(W, V)
	VW := mul3(V, W)
	WVW := mul3(WV, W)
	WWV := mul3(W, WV)
	VWW := mul3(VW, W)
	WVWW := mul3(WVW, W)
	WWVW := mul3(W, WVW)

	phi2 := w.Norm2()
	var c3, c4, c5 float64
	if phi2 < 1e-10 {
		c3 = 1.0 / 6.0
		c4 = -1.0 / 24.0
		c5 = -1.0 / 120.0
	} else {
		phi := math.Sqrt(phi2)
		s, c := math.Sincos(phi)
		phi3 := phi2 * phi
		phi4 := phi3 * phi
		phi5 := phi4 * phi
		c3 = (phi - s) / phi3
		c4 = (1 - phi2/2 - c) / phi4
		c5 = (phi - s - phi3/6) / phi5
	}

	q := scaled(-0.5, V)
	addBlock(q, 0, 0, scaled(c3, WV))
	addBlock(q, 0, 0, scaled(c3, VW))
	addBlock(q, 0, 0, scaled(-c3, WVW))
	addBlock(q, 0, 0, scaled(c4, WWV))
	addBlock(q, 0, 0, scaled(c4, VWW))
	addBlock(q, 0, 0, scaled(-3*c4, WVW))
	addBlock(q, 0, 0, scaled(-0.5*(c4-3*c5), WVWW))
	addBlock(q, 0, 0, scaled(-0.5*(c4-3*c5), WWVW))
	return q
}

//-------------------------------------------------------------------
// State-anchored exponential and logarithm
//-------------------------------------------------------------------

// s composed with the group exponential of xi.
// h1/h2 (9x9) are Jacobians w.r.t. s and xi
func (s NavState) Expmap(xi Vector9, h1, h2 *mat.Dense) NavState {
	e := Expmap(xi, h2)
	return s.Compose(e, h1, nil)
}

// The xi with s.Expmap(xi) == o.
// h1/h2 (9x9) are Jacobians w.r.t. s and o
func (s NavState) Logmap(o NavState, h1, h2 *mat.Dense) Vector9 {
	d := s.Inverse(nil).Compose(o, nil, nil)
	var hl *mat.Dense
	if h1 != nil || h2 != nil {
		hl = mat.NewDense(9, 9, nil)
	}
	xi := Logmap(d, hl)
	if reuse(h1, 9, 9) {
		var m mat.Dense
		m.Mul(hl, d.Inverse(nil).AdjointMap())
		h1.Scale(-1, &m)
	}
	if reuse(h2, 9, 9) {
		h2.Copy(hl)
	}
	return xi
}
