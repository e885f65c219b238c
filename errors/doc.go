// Package errors provides structured error types for the apkg extraction engine.
//
// Errors are categorized by Phase (which pipeline stage failed) and Kind
// (error category). The Error type includes rich context: the container and
// entry being processed, a detail message, and a cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseParse, errors.KindFormat).
//		Container("__APP__.apkg").
//		Entry("pages/index.js").
//		Detail("entry data range exceeds data section").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.Format("bad magic marker 0x%02x", b)
//	err := errors.Collision("app.json", "d1b2...", "9f04...")
//
// All errors implement the standard error interface and support errors.Is/As.
// Recoverable warnings (KindRecoverable) are logged and never abort a run;
// use IsRecoverable to distinguish them.
package errors
