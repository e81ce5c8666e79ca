// SPDX-License-Identifier: MIT

// Command homotopy solves polynomial systems by adaptive-precision
// homotopy continuation.
//
//	homotopy solve --demo triple-double
//	homotopy solve system.yaml --config homotopy.yaml
//	homotopy predictors
//
// Settings come from HOMOTOPY_* environment variables, overridden by the
// file given with --config.
package main

import (
	"github.com/katalvlaran/homotopy/internal/config"
)

const version = "0.1.0"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		config.Exitf("homotopy: %v", err)
	}
}
