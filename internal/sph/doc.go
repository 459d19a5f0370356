// Package sph implements Smoothed Particle Hydrodynamics.
//
// A fluid is a set of [Particles] carrying mass and velocity. Density,
// pressure and forces are reconstructed each step from kernel-weighted sums
// over neighbours, which a uniform grid finds without an O(N²) scan:
//
//   - [Kernel]: the Poly6, Spiky and Viscosity smoothing kernels
//   - [Parameters]: tunable constants of a run
//   - [Simulation]: owns the particles and runs the timestep pipeline
//
// # References
//
// Müller, Charypar and Gross, "Particle-based fluid simulation for
// interactive applications", SCA 2003, introduced the kernels used here.
// Koschier et al., "Smoothed particle hydrodynamics techniques for the
// physics based simulation of fluids and solids" (2020) surveys later work.
//
// # Example
//
//	params := sph.DefaultParameters()
//	params.NumParticles = particles.Len()
//	s, err := sph.NewSimulation(params, particles)
//	if err != nil {
//	    return err
//	}
//	for i := 0; i < 100; i++ {
//	    s.AdvanceTimestep()
//	}
package sph
