//go:build !fizz3d

package base

// Dim is the number of spatial dimensions the simulator is compiled for.
const Dim = 2
