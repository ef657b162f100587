//go:build moc2d_fp32

package geom2d

// FPPrecision is float32 under the moc2d_fp32 build tag, trading numerical
// margin for half the memory footprint per segment/point — the same
// float/double choice OpenMOC exposes as its FP_PRECISION typedef.
type FPPrecision = float32
