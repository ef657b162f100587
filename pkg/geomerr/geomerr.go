// Package geomerr centralizes the fatal-error reporting convention used
// throughout the geometry engine. Every registry, once past construction,
// treats a handful of conditions (duplicate IDs, dangling references,
// energy-group mismatches, out-of-range FSR lookups, zero-length
// segments, a track starting outside the geometry) as unrecoverable: the
// teacher's own log.Fatal usage in examples/simple_box.go, and OpenMOC's
// log_printf(ERROR, ...) (which calls exit(1) in the original source),
// both treat these the same way. Non-fatal terminal conditions — a point
// not contained in any cell, a ray leaving the geometry — are not errors
// at all and are returned as plain nil/false by the calling package.
package geomerr

import (
	"log"

	"github.com/pkg/errors"
)

// Fatalf is called for the conditions spec.md classifies as fatal. It is
// a package-level variable, not a plain function, so tests can swap in a
// panic-and-recover substitute instead of letting the test binary exit.
var Fatalf = func(format string, args ...interface{}) {
	log.Fatalf("%+v", errors.Errorf(format, args...))
}

// Wrap attaches a stack trace to err and reports it through Fatalf with
// the given context message, mirroring OpenMOC's pattern of catching a
// std::exception and re-logging its backtrace alongside a domain message.
func Wrap(err error, format string, args ...interface{}) {
	Fatalf("%s: %+v", errors.Errorf(format, args...), err)
}
