package sph

const MinChunk = minChunk

var ParallelFor = parallelFor
