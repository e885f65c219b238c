// Package writer materializes recovered package entries as a project tree
// on disk.
//
// A TreeWriter is scoped to one run and one output root. It tracks a content
// hash per written path so that identical duplicate writes (shared assets
// across subpackages) are cheap no-ops while conflicting writes surface as a
// collision error, which callers treat as fatal for the run. The overwrite
// policy (keep, clear-then-write, or overwrite-merge) is chosen by the
// caller up front; the writer never prompts.
package writer
