//go:build !fizzdebug

package base

const debugChecks = false
