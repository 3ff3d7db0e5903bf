// Copyright (c) 2026 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2026.8.26
//

package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/golang/geo/r3"
	"golang.org/x/exp/slices"

	m "github.com/mkhts/gonav"
)

func main() {

	// Parse command line arguments
	args, err := parseArgs()
	if err != nil {
		flag.Usage()
		os.Exit(1)
	}

	// Run the main application
	if err := runApplication(args); err != nil {
		m.PrintE(err)
		os.Exit(1)
	}
}

// 3-vector parser (for command arguments)
type Vec3Var r3.Vector

func (p *Vec3Var) Set(s string) error {
	f := strings.Split(s, ",")
	if len(f) != 3 {
		return fmt.Errorf("want x,y,z, got %q", s)
	}
	var v [3]float64
	for i, a := range f {
		x, err := strconv.ParseFloat(strings.TrimSpace(a), 64)
		if err != nil {
			return err
		}
		v[i] = x
	}
	*p = Vec3Var{X: v[0], Y: v[1], Z: v[2]}
	return nil
}

func (p *Vec3Var) String() string {
	return fmt.Sprintf("%g,%g,%g", p.X, p.Y, p.Z)
}

type cmdOpt struct {
	dt       float64
	n        int
	every    int
	acc      Vec3Var
	omega    Vec3Var
	rpy      Vec3Var // initial attitude [deg]
	pos      Vec3Var
	vel      Vec3Var
	coriolis bool
	so       bool
	format   string
}

var formats = []string{"txt", "csv"}

func parseArgs() (cmdOpt, error) {
	var args cmdOpt
	flag.Float64Var(&args.dt, "dt", 0.01, "integration step [s]")
	flag.IntVar(&args.n, "n", 1000, "number of steps")
	flag.IntVar(&args.every, "every", 100, "print interval [steps]")
	flag.Var(&args.acc, "acc", "body specific force x,y,z [m/s^2]")
	flag.Var(&args.omega, "omega", "body angular rate x,y,z [rad/s]")
	flag.Var(&args.rpy, "rpy", "initial attitude roll,pitch,yaw [deg]")
	flag.Var(&args.pos, "pos", "initial position x,y,z [m]")
	flag.Var(&args.vel, "vel", "initial velocity x,y,z [m/s]")
	flag.BoolVar(&args.coriolis, "coriolis", false, "apply Earth-rate Coriolis correction")
	flag.BoolVar(&args.so, "so", false, "second-order (centripetal) Coriolis term")
	flag.StringVar(&args.format, "format", "txt", "output format (txt|csv)")
	flag.IntVar(&m.DBG_, "d", 0, "debug level")
	flag.Parse()

	if args.dt <= 0 || args.n <= 0 || args.every <= 0 {
		return args, fmt.Errorf("dt, n and every must be positive")
	}
	if !slices.Contains(formats, args.format) {
		return args, fmt.Errorf("unknown format %q", args.format)
	}
	return args, nil
}

// Main application processing
func runApplication(args cmdOpt) error {

	state := m.NewNavState(
		m.RzRyRx(m.ToRad(args.rpy.X), m.ToRad(args.rpy.Y), m.ToRad(args.rpy.Z)),
		r3.Vector(args.pos), r3.Vector(args.vel))
	acc := r3.Vector(args.acc)
	omega := r3.Vector(args.omega)
	omegaEarth := r3.Vector{Z: m.EarthRate}

	m.PrintD(1, "init: %v\n", state)

	if args.format == "csv" {
		fmt.Println("t,roll,pitch,yaw,px,py,pz,vx,vy,vz")
	}
	for i := 1; i <= args.n; i++ {
		state = state.Update(acc, omega, args.dt, nil, nil, nil)
		if args.coriolis {
			xi := state.Coriolis(args.dt, omegaEarth, args.so, nil)
			state = state.Retract(xi, nil, nil)
			m.PrintD(2, "coriolis: %v\n", xi)
		}
		if i%args.every == 0 || i == args.n {
			printState(args, float64(i)*args.dt, state)
		}
	}
	return nil
}

func printState(args cmdOpt, t float64, s m.NavState) {
	roll, pitch, yaw := s.Attitude(nil).RPY()
	p := s.Position(nil)
	v := s.Velocity(nil)
	switch args.format {
	case "csv":
		fmt.Printf("%.3f,%.6f,%.6f,%.6f,%.4f,%.4f,%.4f,%.4f,%.4f,%.4f\n",
			t, m.ToDeg(roll), m.ToDeg(pitch), m.ToDeg(yaw), p.X, p.Y, p.Z, v.X, v.Y, v.Z)
	default:
		fmt.Printf("%8.3f  rpy(%9.4f %9.4f %9.4f)  p(%10.4f %10.4f %10.4f)  v(%9.4f %9.4f %9.4f)\n",
			t, m.ToDeg(roll), m.ToDeg(pitch), m.ToDeg(yaw), p.X, p.Y, p.Z, v.X, v.Y, v.Z)
	}
}
