package apkg

import (
	"github.com/packlens/apkg/extract"
)

// Version is the tool version, compared against published releases by the
// CLI's update notification check.
const Version = "1.3.0"

// Options configures one extraction run. It aliases the orchestrator's
// option set so that library consumers only need the root package for the
// common path.
type Options = extract.Options

// Report is the aggregate outcome of a run.
type Report = extract.Report

// Extract runs the whole pipeline once: discover container files under the
// input path, decrypt where needed, parse each container, split script
// bundles into per-file modules, and materialize the project tree at the
// output root.
func Extract(opts Options) (*Report, error) {
	return extract.NewSession(opts).Run()
}
