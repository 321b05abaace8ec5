// Copyright (c) 2026. The pwd-analyzer Authors.
// SPDX-License-Identifier: MIT

package cli

var (
	// batch
	inputFile string
	// root
	verbose bool
	// root
	profile bool
	// root
	pprofPort uint16
	// batch
	outFile string
	// batch
	overwrite bool
	// analyze, batch
	recordsFile string
	// analyze
	interactive bool
)
