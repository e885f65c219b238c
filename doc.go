// Package apkg reconstructs the original source tree of a packaged, compiled,
// and sometimes encrypted application bundle back into a navigable project
// directory of markup, style, script, and configuration files.
//
// # Architecture Overview
//
// The library is organized into several packages with distinct
// responsibilities:
//
//	apkg/             Root package with the high-level Extract API
//	├── container/    Binary container parsing into named byte ranges
//	├── crypt/        Encryption detection, key resolution, decryption
//	├── bundle/       Module-loader bundle splitting and the module registry
//	├── extract/      Multi-package orchestration and the run-scoped session
//	├── writer/       Project tree materialization and overwrite policies
//	└── errors/       Structured error types for the pipeline
//
// # Quick Start
//
// Extract a package directory:
//
//	report, err := apkg.Extract(apkg.Options{
//	    Input:  "/data/packages/wx0123456789abcdef",
//	    Output: "./recovered",
//	    Policy: writer.ClearThenWrite,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("%d packages, %d modules\n", report.Extracted, report.Modules)
//
// The main package is always processed before subpackages so that shared
// module definitions exist before anything references them. Processing is
// strictly sequential; a failure abandons the current package only.
//
// Compiled-bytecode modules are preserved as opaque binary payloads: the
// engine never guesses source from compiled form, and it never verifies
// package authenticity or re-packs.
package apkg
