// Package extract orchestrates whole extraction runs: discovering container
// files, ordering the main package before its subpackages, and driving each
// container through the read → decrypt → parse → split → write pipeline.
//
// State that must survive across containers (resolved decryption keys, the
// shared module registry, the output index) lives on a run-scoped Session
// constructed once per invocation and discarded afterwards:
//
//	s := extract.NewSession(extract.Options{
//	    Input:  "/data/packages/wx0123456789abcdef",
//	    Output: "./recovered",
//	    Policy: writer.ClearThenWrite,
//	})
//	report, err := s.Run()
//
// Execution is single-threaded and strictly sequential: one container is
// fully finished before the next begins. A package failure abandons that
// package only; output already written for earlier packages stays on disk.
package extract
