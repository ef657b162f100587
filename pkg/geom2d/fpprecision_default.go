//go:build !moc2d_fp32

package geom2d

// FPPrecision is the floating-point type used for every geometric
// quantity in the engine: point coordinates, distances, segment
// lengths. It is a build-time choice, not a runtime one — see
// fpprecision_float32.go for the alternate build (tag moc2d_fp32).
type FPPrecision = float64
