// Copyright (c) 2026 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2026.8.25
//

package gonav

import (
	"fmt"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/mat"
)

//-------------------------------------------------------------------
// NavState
//-------------------------------------------------------------------

// Navigation state of a moving rigid body: attitude, position and
// velocity as one element of a 9-dimensional manifold.
// Position and velocity are both expressed in the reference frame,
// not the body frame. Value semantics throughout: every operation
// returns a new state.
type NavState struct {
	rot Rot3
	pos r3.Vector
	vel r3.Vector
}

func NewNavState(r Rot3, p, v r3.Vector) NavState {
	return NavState{rot: r, pos: p, vel: v}
}

func NavStateIdentity() NavState {
	return NavState{rot: Rot3Identity()}
}

// Reconstruct a state from its 7x7 matrix embedding
func NewNavStateFromMatrix(T mat.Matrix) (NavState, error) {
	r, c := T.Dims()
	if r != 7 || c != 7 {
		return NavState{}, fmt.Errorf("invalid matrix size. T(%d x %d), want (7 x 7)", r, c)
	}
	R := mat.NewDense(3, 3, nil)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			R.Set(i, j, T.At(i, j))
		}
	}
	rot, err := NewRot3FromMatrix(R)
	if err != nil {
		return NavState{}, err
	}
	p := r3.Vector{X: T.At(0, 6), Y: T.At(1, 6), Z: T.At(2, 6)}
	v := r3.Vector{X: T.At(3, 6), Y: T.At(4, 6), Z: T.At(5, 6)}
	return NavState{rot: rot, pos: p, vel: v}, nil
}

//-------------------------------------------------------------------
// Component extraction
//-------------------------------------------------------------------

// Attitude sub-block. h (3x9), if given, receives the Jacobian
// w.r.t. the full state tangent vector
func (s NavState) Attitude(h *mat.Dense) Rot3 {
	if reuse(h, 3, 9) {
		setBlock(h, 0, 0, eye(3))
	}
	return s.rot
}

// Position sub-block, in the reference frame
func (s NavState) Position(h *mat.Dense) r3.Vector {
	if reuse(h, 3, 9) {
		setBlock(h, 0, 3, s.rot.Matrix())
	}
	return s.pos
}

// Velocity sub-block, in the reference frame
func (s NavState) Velocity(h *mat.Dense) r3.Vector {
	if reuse(h, 3, 9) {
		setBlock(h, 0, 6, s.rot.Matrix())
	}
	return s.vel
}

// Velocity expressed in the body frame: R^T * v
func (s NavState) BodyVelocity(h *mat.Dense) r3.Vector {
	var hR mat.Dense
	b := s.rot.Unrotate(s.vel, optJac(h, &hR), nil)
	if reuse(h, 3, 9) {
		setBlock(h, 0, 0, &hR)
		setBlock(h, 0, 6, eye(3))
	}
	return b
}

// Pass through the sub-Jacobian request only when the caller asked
// for the full one
func optJac(h, sub *mat.Dense) *mat.Dense {
	if h == nil {
		return nil
	}
	return sub
}

//-------------------------------------------------------------------
// Group algebra
//-------------------------------------------------------------------

// Group composition: attitudes multiply, the second state's position
// and velocity are rotated into the first state's frame and added.
// h1/h2 (9x9) are Jacobians w.r.t. s and o, in the tangent space at
// the result
func (s NavState) Compose(o NavState, h1, h2 *mat.Dense) NavState {
	out := NavState{
		rot: s.rot.Compose(o.rot),
		pos: s.pos.Add(s.rot.apply(o.pos)),
		vel: s.vel.Add(s.rot.apply(o.vel)),
	}
	if reuse(h1, 9, 9) {
		Rt := o.rot.Matrix().T()
		setBlock(h1, 0, 0, Rt)
		setBlock(h1, 3, 3, Rt)
		setBlock(h1, 6, 6, Rt)
		setBlock(h1, 3, 0, scaled(-1, mul3(Rt, skew(o.pos))))
		setBlock(h1, 6, 0, scaled(-1, mul3(Rt, skew(o.vel))))
	}
	if reuse(h2, 9, 9) {
		h2.Copy(eye(9))
	}
	return out
}

// Group inverse. h (9x9) is the Jacobian w.r.t. s, in the tangent
// space at the result
func (s NavState) Inverse(h *mat.Dense) NavState {
	rt := s.rot.Inverse()
	out := NavState{
		rot: rt,
		pos: rt.apply(s.pos).Mul(-1),
		vel: rt.apply(s.vel).Mul(-1),
	}
	if reuse(h, 9, 9) {
		R := s.rot.Matrix()
		setBlock(h, 0, 0, scaled(-1, R))
		setBlock(h, 3, 3, scaled(-1, R))
		setBlock(h, 6, 6, scaled(-1, R))
		setBlock(h, 3, 0, scaled(-1, mul3(skew(s.pos), R)))
		setBlock(h, 6, 0, scaled(-1, mul3(skew(s.vel), R)))
	}
	return out
}

// Adjoint map of the group element: Ad(s) xi expresses a tangent
// vector at the identity in the tangent space at s
func (s NavState) AdjointMap() *mat.Dense {
	ad := mat.NewDense(9, 9, nil)
	R := s.rot.Matrix()
	setBlock(ad, 0, 0, R)
	setBlock(ad, 3, 3, R)
	setBlock(ad, 6, 6, R)
	setBlock(ad, 3, 0, mul3(skew(s.pos), R))
	setBlock(ad, 6, 0, mul3(skew(s.vel), R))
	return ad
}

// Faithful 7x7 matrix embedding:
//
//	[ R 0 p ]
//	[ 0 R v ]
//	[ 0 0 1 ]
//
// Matrix multiplication of two embeddings equals the embedding of
// their composition
func (s NavState) Matrix() *mat.Dense {
	T := mat.NewDense(7, 7, nil)
	R := s.rot.Matrix()
	setBlock(T, 0, 0, R)
	setBlock(T, 3, 3, R)
	T.Set(0, 6, s.pos.X)
	T.Set(1, 6, s.pos.Y)
	T.Set(2, 6, s.pos.Z)
	T.Set(3, 6, s.vel.X)
	T.Set(4, 6, s.vel.Y)
	T.Set(5, 6, s.vel.Z)
	T.Set(6, 6, 1)
	return T
}

func (s NavState) ApproxEqual(o NavState, tol float64) bool {
	return s.rot.ApproxEqual(o.rot, tol) &&
		s.pos.Sub(o.pos).Norm() < tol &&
		s.vel.Sub(o.vel).Norm() < tol
}

func (s NavState) String() string {
	return fmt.Sprintf("%v p(%.6g %.6g %.6g) v(%.6g %.6g %.6g)",
		s.rot, s.pos.X, s.pos.Y, s.pos.Z, s.vel.X, s.vel.Y, s.vel.Z)
}
