package sph

import "errors"

var (
	// ErrInvalidParameters indicates a parameter outside its valid range.
	ErrInvalidParameters = errors.New("sph: invalid parameters")

	// ErrParticleCount indicates the particle arrays disagree with each other
	// or with Parameters.NumParticles.
	ErrParticleCount = errors.New("sph: particle count mismatch")

	// ErrParticleOutsideDomain indicates an initial position outside the
	// simulation domain.
	ErrParticleOutsideDomain = errors.New("sph: particle outside simulation domain")
)
